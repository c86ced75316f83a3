package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/config"
	"github.com/gonewx/archery/pkg/ecs"
	"github.com/gonewx/archery/pkg/entities"
	"pgregory.net/rapid"
)

// newTestGesture 创建位于原点的弓，拉弦轴从 (0,0,0) 到 (0,0,-1)
func newTestGesture(t testing.TB) (*ecs.EntityManager, *entities.Bow, *DrawGestureSystem) {
	em := ecs.NewEntityManager()
	cfg := config.DefaultBowConfig()
	cfg.Bow.Position = mgl64.Vec3{}
	cfg.Pull.AxisStart = mgl64.Vec3{0, 0, 0}
	cfg.Pull.AxisEnd = mgl64.Vec3{0, 0, -1}

	bow, err := entities.NewBow(em, cfg)
	if err != nil {
		t.Fatalf("NewBow: %v", err)
	}
	gesture, err := NewDrawGestureSystem(em, bow.BowID)
	if err != nil {
		t.Fatalf("NewDrawGestureSystem: %v", err)
	}
	return em, bow, gesture
}

// TestDrawGesture_Clamp 测试投影限制在 [0,1]
func TestDrawGesture_Clamp(t *testing.T) {
	tests := []struct {
		name   string
		anchor mgl64.Vec3
		want   float64
	}{
		{"起点之前为 0", mgl64.Vec3{0, 0, 0.5}, 0.0},
		{"起点为 0", mgl64.Vec3{0, 0, 0}, 0.0},
		{"中点", mgl64.Vec3{0, 0, -0.5}, 0.5},
		{"偏离轴线只取投影", mgl64.Vec3{0.3, -0.2, -0.25}, 0.25},
		{"终点为 1", mgl64.Vec3{0, 0, -1}, 1.0},
		{"超过终点为 1", mgl64.Vec3{0, 0, -3}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, gesture := newTestGesture(t)
			gesture.Begin(nil)
			gesture.Sample(mgl64.Vec3{0, 0, -0.1}) // 先离开 0，保证后续采样有变化
			gesture.Sample(tt.anchor)
			if got := gesture.Pull(); got != tt.want {
				t.Errorf("Pull: got %v, want %v", got, tt.want)
			}
		})
	}
}

// TestDrawGesture_ClampProperty 任意位置的采样值都在 [0,1] 内，越界时恰好为 0 或 1
func TestDrawGesture_ClampProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		_, _, gesture := newTestGesture(t)
		gesture.Begin(nil)

		z := rapid.Float64Range(-10, 10).Draw(rt, "z")
		x := rapid.Float64Range(-5, 5).Draw(rt, "x")
		gesture.Sample(mgl64.Vec3{x, 0, z})
		pull := gesture.Pull()

		if pull < 0 || pull > 1 {
			rt.Fatalf("pull out of range: %v", pull)
		}
		if z <= -1 && pull != 1.0 {
			rt.Fatalf("beyond end: got %v, want exactly 1", pull)
		}
		if z >= 0 && pull != 0.0 {
			rt.Fatalf("before start: got %v, want exactly 0", pull)
		}
	})
}

// TestDrawGesture_Events 测试开始、变化与结束事件
func TestDrawGesture_Events(t *testing.T) {
	_, _, gesture := newTestGesture(t)

	started := 0
	var updates []float64
	ended := -1.0
	gesture.PullStarted.Subscribe(func(struct{}) { started++ })
	gesture.PullUpdated.Subscribe(func(v float64) { updates = append(updates, v) })
	gesture.PullEnded.Subscribe(func(v float64) { ended = v })

	// Idle 时的采样与结束无操作
	gesture.Sample(mgl64.Vec3{0, 0, -0.5})
	gesture.End()
	if len(updates) != 0 || ended != -1 {
		t.Fatal("Sample/End while idle should be no-ops")
	}

	if !gesture.Begin(nil) {
		t.Fatal("Begin should succeed from idle")
	}
	if gesture.Begin(nil) {
		t.Error("second Begin should be ignored")
	}
	if started != 1 {
		t.Errorf("PullStarted: got %d, want 1", started)
	}

	gesture.Sample(mgl64.Vec3{0, 0, -0.4})
	gesture.Sample(mgl64.Vec3{0, 0, -0.4}) // 值不变不广播
	gesture.Sample(mgl64.Vec3{0, 0, -0.8})
	if len(updates) != 2 {
		t.Errorf("PullUpdated count: got %d, want 2 (%v)", len(updates), updates)
	}

	gesture.End()
	if ended != 0.8 {
		t.Errorf("PullEnded value: got %v, want last sample 0.8", ended)
	}
	if gesture.Pull() != 0 || gesture.IsPulling() {
		t.Error("state should reset to idle with pull 0")
	}
}

// TestDrawGesture_UpdateSamplesSource 测试 Update 每帧从来源采样
func TestDrawGesture_UpdateSamplesSource(t *testing.T) {
	_, _, gesture := newTestGesture(t)
	hand := mgl64.Vec3{0, 0, -0.2}
	gesture.Begin(AnchorFunc(func() mgl64.Vec3 { return hand }))

	gesture.Update(1.0 / 60)
	if gesture.Pull() != 0.2 {
		t.Errorf("Pull after first update: got %v", gesture.Pull())
	}
	hand = mgl64.Vec3{0, 0, -0.6}
	gesture.Update(1.0 / 60)
	if gesture.Pull() != 0.6 {
		t.Errorf("Pull after second update: got %v", gesture.Pull())
	}
}

// TestDrawGesture_NotchFollowsPull 测试搭箭点随拉弦移动、松弦复位
func TestDrawGesture_NotchFollowsPull(t *testing.T) {
	em, bow, gesture := newTestGesture(t)
	notch, _ := ecs.GetComponent[*components.TransformComponent](em, bow.NotchID)

	gesture.Begin(nil)
	gesture.Sample(mgl64.Vec3{0, 0, -0.5})
	if !vecNear(notch.LocalPosition, mgl64.Vec3{0, 0, -0.5}, 1e-9) {
		t.Errorf("notch local: got %v", notch.LocalPosition)
	}

	gesture.End()
	if !vecNear(notch.LocalPosition, mgl64.Vec3{}, 1e-9) {
		t.Errorf("notch after release: got %v", notch.LocalPosition)
	}
}

// TestNewDrawGestureSystem_MissingBow 测试缺少弓组件
func TestNewDrawGestureSystem_MissingBow(t *testing.T) {
	em := ecs.NewEntityManager()
	id := em.CreateEntity()
	if _, err := NewDrawGestureSystem(em, id); err == nil {
		t.Error("expected error for entity without draw state")
	}
}
