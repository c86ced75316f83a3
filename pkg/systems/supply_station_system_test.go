package systems

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/ecs"
	"github.com/gonewx/archery/pkg/game"
)

var fullPull = mgl64.Vec3{0, 0, -1}

// TestSupplyStation_SpawnAfterDelay 测试生成延迟后搭箭
func TestSupplyStation_SpawnAfterDelay(t *testing.T) {
	r := newTestRange(t, 3)

	var spawned []ecs.EntityID
	r.station.ArrowSpawned.Subscribe(func(id ecs.EntityID) { spawned = append(spawned, id) })

	r.gesture.Begin(nil)
	if r.station.State() != components.StationSpawning {
		t.Fatalf("state: got %v, want Spawning", r.station.State())
	}

	r.step(0.05)
	if r.station.State() != components.StationSpawning {
		t.Errorf("arrow spawned before delay elapsed")
	}

	r.step(0.05)
	if r.station.State() != components.StationReady {
		t.Fatalf("state: got %v, want Ready", r.station.State())
	}
	if len(spawned) != 1 || spawned[0] != r.station.CurrentArrow() {
		t.Errorf("spawned: got %v, current %d", spawned, r.station.CurrentArrow())
	}
	if r.projectiles.Phase(r.station.CurrentArrow()) != components.ProjectileNotched {
		t.Error("spawned arrow should be notched")
	}

	// 射出后再拉弦，生成前松开：不会生成第二支箭
	r.gesture.End()
	r.gesture.Begin(nil)
	r.gesture.End()
	if len(spawned) != 1 {
		t.Errorf("spawned: got %d arrows, want 1", len(spawned))
	}
}

// TestSupplyStation_ReleaseDuringSpawn 生成中松弦视为取消
func TestSupplyStation_ReleaseDuringSpawn(t *testing.T) {
	r := newTestRange(t, 3)

	r.gesture.Begin(nil)
	r.step(0.05)
	r.gesture.End()

	if r.station.State() != components.StationNoProjectile {
		t.Fatalf("state: got %v, want NoProjectile", r.station.State())
	}

	r.step(0.2)
	if r.station.CurrentArrow() != 0 {
		t.Error("cancelled spawn should not produce an arrow")
	}
	if got := len(ecs.GetEntitiesWith1[*components.ProjectileComponent](r.em)); got != 0 {
		t.Errorf("projectiles: got %d, want 0", got)
	}
	if r.budget.ShotCount() != 0 {
		t.Error("cancelled spawn should not consume budget")
	}
}

// TestSupplyStation_LaunchConsumesBudget 发射后扣除箭数
func TestSupplyStation_LaunchConsumesBudget(t *testing.T) {
	r := newTestRange(t, 2)

	var launched []ecs.EntityID
	r.station.ArrowLaunched.Subscribe(func(id ecs.EntityID) { launched = append(launched, id) })

	for shot := 1; shot <= 2; shot++ {
		r.gesture.Begin(nil)
		r.step(0.1)
		arrow := r.station.CurrentArrow()
		r.gesture.Sample(fullPull)
		r.gesture.End()

		if r.projectiles.Phase(arrow) != components.ProjectileLaunched {
			t.Fatalf("shot %d: arrow phase %v, want Launched", shot, r.projectiles.Phase(arrow))
		}
		if r.station.State() != components.StationLaunched {
			t.Errorf("shot %d: state %v, want Launched", shot, r.station.State())
		}
		if r.station.LastLaunched() != arrow {
			t.Errorf("shot %d: last launched %d, want %d", shot, r.station.LastLaunched(), arrow)
		}
		if r.budget.ShotCount() != shot {
			t.Errorf("shot %d: shot count %d", shot, r.budget.ShotCount())
		}
	}
	if len(launched) != 2 {
		t.Errorf("launched events: got %d, want 2", len(launched))
	}

	// 预算耗尽：拉弦被否决
	if r.station.OnPullStarted() {
		t.Error("pull should be vetoed when budget is exhausted")
	}
	r.gesture.Begin(nil)
	r.step(0.2)
	if r.station.CurrentArrow() != 0 {
		t.Error("no arrow should spawn after budget is exhausted")
	}
}

// TestSupplyStation_ReleaseWithoutPull 零拉弦也会以最小力发射
func TestSupplyStation_ReleaseWithoutPull(t *testing.T) {
	r := newTestRange(t, 1)

	r.gesture.Begin(nil)
	r.step(0.1)
	arrow := r.station.CurrentArrow()
	r.gesture.End()

	rb, _ := ecs.GetComponent[*components.RigidbodyComponent](r.em, arrow)
	if want := r.projectiles.LaunchForce(0); rb.Velocity.Len() != want {
		t.Errorf("speed: got %v, want %v", rb.Velocity.Len(), want)
	}
}

// TestSupplyStation_WaitsForGate 安全确认前不生成箭
func TestSupplyStation_WaitsForGate(t *testing.T) {
	r := newTestRange(t, 3)
	station, _ := ecs.GetComponent[*components.SupplyStationComponent](r.em, r.bow.BowID)
	station.Activated = false

	gate := game.NewReadinessGate(nil, false)
	r.station.ActivateAfter(gate)

	if r.station.IsActivated() {
		t.Fatal("station should wait for the gate")
	}
	if r.station.OnPullStarted() {
		t.Error("pull should be vetoed before activation")
	}

	gate.Confirm()
	if !r.station.IsActivated() {
		t.Fatal("station should activate after confirmation")
	}
	if !r.station.OnPullStarted() {
		t.Error("pull should be accepted after activation")
	}
}

// TestSupplyStation_GateBlocksForceSpawnAndLaunch 安全确认前 F 键搭箭与松弦都不能发射
func TestSupplyStation_GateBlocksForceSpawnAndLaunch(t *testing.T) {
	r := newTestRange(t, 3)
	station, _ := ecs.GetComponent[*components.SupplyStationComponent](r.em, r.bow.BowID)
	station.Activated = false
	gate := game.NewReadinessGate(nil, false)
	r.station.ActivateAfter(gate)

	if err := r.station.ForceSpawn(); !errors.Is(err, ErrStationInactive) {
		t.Fatalf("ForceSpawn before gate: got %v, want ErrStationInactive", err)
	}
	if r.station.State() != components.StationNoProjectile {
		t.Errorf("State: got %v, want NoProjectile", r.station.State())
	}

	// 完整的拉弦手势也不能射箭
	r.gesture.Begin(nil)
	r.step(0.2)
	r.gesture.Sample(fullPull)
	r.gesture.End()
	if r.station.LastLaunched() != 0 || r.budget.ShotCount() != 0 || r.budget.Remaining() != 3 {
		t.Errorf("no arrow should launch before the gate: shot=%d remaining=%d",
			r.budget.ShotCount(), r.budget.Remaining())
	}

	// 已搭箭但补给点失活时，松弦同样被否决
	gate.Confirm()
	if err := r.station.ForceSpawn(); err != nil {
		t.Fatalf("ForceSpawn after gate: %v", err)
	}
	station.Activated = false
	r.station.OnPullEnded(1)
	if r.station.State() != components.StationReady || r.budget.Remaining() != 3 {
		t.Errorf("launch should be vetoed while inactive: state=%v remaining=%d",
			r.station.State(), r.budget.Remaining())
	}
}

// TestSupplyStation_ForceSpawn 立即搭箭并替换当前的箭
func TestSupplyStation_ForceSpawn(t *testing.T) {
	r := newTestRange(t, 3)

	if err := r.station.ForceSpawn(); err != nil {
		t.Fatalf("ForceSpawn: %v", err)
	}
	first := r.station.CurrentArrow()
	if first == 0 || r.station.State() != components.StationReady {
		t.Fatalf("state: got %v with arrow %d", r.station.State(), first)
	}

	if err := r.station.ForceSpawn(); err != nil {
		t.Fatalf("ForceSpawn: %v", err)
	}
	second := r.station.CurrentArrow()
	if second == first {
		t.Error("ForceSpawn should replace the notched arrow")
	}
	if r.projectiles.Phase(first) != components.ProjectileDisposed {
		t.Error("replaced arrow should be disposed")
	}

	// 射出后生成中调用：取消等待中的生成
	r.gesture.Begin(nil)
	r.gesture.End()
	r.gesture.Begin(nil)
	if err := r.station.ForceSpawn(); err != nil {
		t.Fatalf("ForceSpawn during spawning: %v", err)
	}
	third := r.station.CurrentArrow()
	r.step(0.2)
	if r.station.CurrentArrow() != third {
		t.Error("pending spawn should have been cancelled")
	}
	if r.budget.ShotCount() != 1 {
		t.Errorf("shot count: got %d, want 1", r.budget.ShotCount())
	}
}

// TestSupplyStation_MissingNotch 缺少搭箭点时禁用补给点
func TestSupplyStation_MissingNotch(t *testing.T) {
	r := newTestRange(t, 3)
	r.em.DestroyEntity(r.bow.NotchID)
	r.em.RemoveMarkedEntities()

	station, err := NewSupplyStationSystem(r.em, SupplyStationOptions{
		StationID:   r.bow.BowID,
		Projectiles: r.projectiles,
		Scheduler:   r.scheduler,
	})
	if err != nil {
		t.Fatalf("NewSupplyStationSystem: %v", err)
	}
	station.ActivateAfter(nil)
	if station.OnPullStarted() {
		t.Error("disabled station should veto pulls")
	}
	if err := station.ForceSpawn(); err == nil {
		t.Error("disabled station should refuse ForceSpawn")
	}
}

// TestSupplyStation_FactoryError 生成失败时回到 NoProjectile
func TestSupplyStation_FactoryError(t *testing.T) {
	r := newTestRange(t, 3)
	r.station.Dispose()

	station, err := NewSupplyStationSystem(r.em, SupplyStationOptions{
		StationID:   r.bow.BowID,
		Projectiles: r.projectiles,
		Scheduler:   r.scheduler,
		Factory: func(*ecs.EntityManager, ecs.EntityID) (ecs.EntityID, error) {
			return 0, errors.New("out of quivers")
		},
	})
	if err != nil {
		t.Fatalf("NewSupplyStationSystem: %v", err)
	}
	station.ActivateAfter(nil)
	station.OnPullStarted()
	r.step(0.2)
	if station.State() != components.StationNoProjectile {
		t.Errorf("state: got %v, want NoProjectile", station.State())
	}
}

// TestSupplyStation_NotAStation 非补给点实体
func TestSupplyStation_NotAStation(t *testing.T) {
	r := newTestRange(t, 3)
	if _, err := NewSupplyStationSystem(r.em, SupplyStationOptions{
		StationID:   r.target,
		Projectiles: r.projectiles,
		Scheduler:   r.scheduler,
	}); err == nil {
		t.Error("expected error for entity without station component")
	}
}
