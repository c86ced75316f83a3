package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/config"
	"github.com/gonewx/archery/pkg/ecs"
	"github.com/gonewx/archery/pkg/entities"
	"github.com/gonewx/archery/pkg/game"
)

// testRange 测试用靶场：弓在原点朝 +Z，z=10 处一个靶子，y=-1.5 处地面
type testRange struct {
	em          *ecs.EntityManager
	cfg         *config.BowConfig
	bow         *entities.Bow
	target      ecs.EntityID
	ground      ecs.EntityID
	scheduler   *game.Scheduler
	budget      *game.ArrowBudget
	gesture     *DrawGestureSystem
	projectiles *ProjectileSystem
	flight      *FlightSystem
	station     *SupplyStationSystem
	transforms  *TransformSystem
}

func newTestRange(t *testing.T, maxArrows int) *testRange {
	t.Helper()
	r := &testRange{
		em:        ecs.NewEntityManager(),
		cfg:       config.DefaultBowConfig(),
		scheduler: game.NewScheduler(),
		budget:    game.NewArrowBudget(),
	}
	r.cfg.Bow.Position = mgl64.Vec3{}
	r.cfg.Pull.AxisEnd = mgl64.Vec3{0, 0, -1}
	r.cfg.Launch.ForwardOffset = 0
	r.cfg.Flight.Gravity = 0
	r.budget.Initialize(maxArrows)

	var err error
	r.bow, err = entities.NewBow(r.em, r.cfg)
	if err != nil {
		t.Fatalf("NewBow: %v", err)
	}
	r.target, err = entities.NewTarget(r.em, config.TargetConfig{
		Name: "t1", Center: mgl64.Vec3{0, 0, 10}, Facing: mgl64.Vec3{0, 0, -1},
		Radius: 1, ColliderRadius: 1, MaxScore: 100,
	})
	if err != nil {
		t.Fatalf("NewTarget: %v", err)
	}
	r.ground, _ = entities.NewGround(r.em, -1.5)

	r.gesture, err = NewDrawGestureSystem(r.em, r.bow.BowID)
	if err != nil {
		t.Fatalf("NewDrawGestureSystem: %v", err)
	}
	r.projectiles = NewProjectileSystem(r.em, r.cfg)
	r.flight = NewFlightSystem(r.em, r.projectiles, r.cfg)
	r.transforms = NewTransformSystem(r.em)
	r.station, err = NewSupplyStationSystem(r.em, SupplyStationOptions{
		StationID:   r.bow.BowID,
		Projectiles: r.projectiles,
		Scheduler:   r.scheduler,
		Budget:      r.budget,
		SpawnDelay:  r.cfg.Spawn.SpawnDelay,
	})
	if err != nil {
		t.Fatalf("NewSupplyStationSystem: %v", err)
	}
	r.station.Bind(r.gesture)
	r.station.ActivateAfter(nil)
	return r
}

// step 按场景顺序推进一帧
func (r *testRange) step(dt float64) {
	r.gesture.Update(dt)
	r.transforms.Update(dt)
	r.flight.Update(dt)
	r.scheduler.Update(dt)
	r.em.RemoveMarkedEntities()
}

// notchArrow 创建一支已搭弦的箭
func (r *testRange) notchArrow(t *testing.T) ecs.EntityID {
	t.Helper()
	id, err := entities.NewArrow(r.em, r.bow.BowID)
	if err != nil {
		t.Fatalf("NewArrow: %v", err)
	}
	if err := r.projectiles.Notch(id, r.bow.NotchID); err != nil {
		t.Fatalf("Notch: %v", err)
	}
	return id
}

func projectileOf(t *testing.T, em *ecs.EntityManager, id ecs.EntityID) *components.ProjectileComponent {
	t.Helper()
	p, ok := ecs.GetComponent[*components.ProjectileComponent](em, id)
	if !ok {
		t.Fatalf("entity %d has no projectile component", id)
	}
	return p
}

// vecNear 按绝对误差比较向量（分量为 0 时也适用）
func vecNear(got, want mgl64.Vec3, tol float64) bool {
	return got.Sub(want).Len() < tol
}
