package entities

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/config"
	"github.com/gonewx/archery/pkg/ecs"
)

// TestNewArrow 测试箭实体创建
func TestNewArrow(t *testing.T) {
	if _, err := NewArrow(nil, 0); err == nil {
		t.Fatal("NewArrow(nil) should fail")
	}

	em := ecs.NewEntityManager()
	id, err := NewArrow(em, 7)
	if err != nil {
		t.Fatalf("NewArrow: %v", err)
	}

	p, ok := ecs.GetComponent[*components.ProjectileComponent](em, id)
	if !ok {
		t.Fatal("arrow missing ProjectileComponent")
	}
	if p.Phase != components.ProjectileIdle || p.StationID != 7 {
		t.Errorf("projectile: got %+v", p)
	}
	rb, _ := ecs.GetComponent[*components.RigidbodyComponent](em, id)
	if rb == nil || !rb.IsKinematic {
		t.Error("new arrow should be kinematic")
	}
	col, _ := ecs.GetComponent[*components.ColliderComponent](em, id)
	if col == nil || col.Enabled {
		t.Error("new arrow collider should be disabled")
	}
}

// TestNewBow 测试弓、搭箭点和预览实体
func TestNewBow(t *testing.T) {
	em := ecs.NewEntityManager()
	cfg := config.DefaultBowConfig()

	bow, err := NewBow(em, cfg)
	if err != nil {
		t.Fatalf("NewBow: %v", err)
	}

	state, ok := ecs.GetComponent[*components.DrawStateComponent](em, bow.BowID)
	if !ok {
		t.Fatal("bow missing DrawStateComponent")
	}
	if state.NotchEntity != bow.NotchID {
		t.Errorf("NotchEntity: got %d, want %d", state.NotchEntity, bow.NotchID)
	}
	station, ok := ecs.GetComponent[*components.SupplyStationComponent](em, bow.BowID)
	if !ok || station.NotchEntity != bow.NotchID {
		t.Error("bow should be a supply station with the notch anchor")
	}
	notch, _ := ecs.GetComponent[*components.TransformComponent](em, bow.NotchID)
	if notch.Parent != bow.BowID {
		t.Errorf("notch parent: got %d, want %d", notch.Parent, bow.BowID)
	}
	preview, ok := ecs.GetComponent[*components.TrajectoryPreviewComponent](em, bow.PreviewID)
	if !ok || preview.MaxDistance != 20 {
		t.Error("preview missing or wrong max distance")
	}

	if _, err := NewBow(em, nil); err == nil {
		t.Error("NewBow with nil config should fail")
	}
}

// TestNewTarget 测试靶子创建
func TestNewTarget(t *testing.T) {
	em := ecs.NewEntityManager()

	tests := []struct {
		name    string
		cfg     config.TargetConfig
		wantErr bool
	}{
		{
			name: "正对射手的靶子",
			cfg: config.TargetConfig{
				Name: "t1", Center: mgl64.Vec3{0, 1.5, 10}, Facing: mgl64.Vec3{0, 0, -1},
				Radius: 1, ColliderRadius: 1.2, MaxScore: 100,
			},
		},
		{
			name:    "朝向为零",
			cfg:     config.TargetConfig{Name: "bad"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewTarget(em, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewTarget error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			surface, _ := ecs.GetComponent[*components.SurfaceComponent](em, id)
			if surface.Shape != components.SurfaceDisc || surface.Radius != 1.2 || surface.Layer != config.LayerTarget {
				t.Errorf("surface: got %+v", surface)
			}
			target, _ := ecs.GetComponent[*components.TargetComponent](em, id)
			if target.Radius != 1 || target.MaxScore != 100 || target.HasBeenHit {
				t.Errorf("target: got %+v", target)
			}
			transform, _ := ecs.GetComponent[*components.TransformComponent](em, id)
			if !vecNear(transform.Forward(), mgl64.Vec3{0, 0, 1}, 1e-6) {
				t.Errorf("target forward: got %v, want +Z", transform.Forward())
			}
		})
	}
}

// TestNewTargets 测试按关卡配置批量创建
func TestNewTargets(t *testing.T) {
	em := ecs.NewEntityManager()
	level := &config.LevelConfig{
		Targets: []config.TargetConfig{
			{Name: "a", Facing: mgl64.Vec3{0, 0, -1}, Radius: 1},
			{Name: "b"},
			{Name: "c", Facing: mgl64.Vec3{0, 0, -1}, Radius: 1},
		},
	}
	ids := NewTargets(em, level)
	if len(ids) != 2 {
		t.Errorf("targets created: got %d, want 2", len(ids))
	}
}

// TestNewGround 测试地面
func TestNewGround(t *testing.T) {
	em := ecs.NewEntityManager()
	id, err := NewGround(em, 0)
	if err != nil {
		t.Fatalf("NewGround: %v", err)
	}
	surface, _ := ecs.GetComponent[*components.SurfaceComponent](em, id)
	if surface.Shape != components.SurfacePlane || surface.Layer != config.LayerGround {
		t.Errorf("ground surface: got %+v", surface)
	}
}

// vecNear 按绝对误差比较向量（分量为 0 时也适用）
func vecNear(got, want mgl64.Vec3, tol float64) bool {
	return got.Sub(want).Len() < tol
}
