package systems

import (
	"errors"
	"fmt"
	"log"

	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/ecs"
	"github.com/gonewx/archery/pkg/entities"
	"github.com/gonewx/archery/pkg/game"
)

// ErrStationInactive 安全确认前补给点未激活
var ErrStationInactive = errors.New("supply station not activated")

// LaunchAuthority 决定是否允许发射（箭数预算）
type LaunchAuthority interface {
	CanLaunch() bool
	Consume() error
}

// ArrowFactory 创建一支处于 Idle 阶段的箭
type ArrowFactory func(em *ecs.EntityManager, stationID ecs.EntityID) (ecs.EntityID, error)

// SupplyStationOptions 补给点依赖
type SupplyStationOptions struct {
	StationID   ecs.EntityID
	Projectiles *ProjectileSystem
	Scheduler   *game.Scheduler
	Budget      LaunchAuthority // 可为 nil（不限箭数）
	SpawnDelay  float64
	Factory     ArrowFactory // 可为 nil（使用 entities.NewArrow）
}

// SupplyStationSystem 箭补给点
//
// 状态机 NoProjectile → Spawning → Ready → Launched：
//   - 开始拉弦：没有箭且不在生成中时进入 Spawning，等待生成延迟后搭上一支新箭（Ready）
//   - 松弦：Ready 时射出箭（Launched），之后下一次拉弦可再生成；
//     Spawning 时视为取消，不产生箭
//   - ForceSpawn：取消等待中的生成，丢弃当前搭着的箭，立即搭上新箭
//
// 箭数预算只在确认发射后消耗；预算耗尽或安全确认前的拉弦被否决。
type SupplyStationSystem struct {
	em          *ecs.EntityManager
	stationID   ecs.EntityID
	projectiles *ProjectileSystem
	scheduler   *game.Scheduler
	budget      LaunchAuthority
	spawnDelay  float64
	factory     ArrowFactory

	spawnTask    *game.Task
	gateWaiter   *game.GateWaiter
	gesture      *DrawGestureSystem
	startSub     game.SubscriptionID
	endSub       game.SubscriptionID
	lastLaunched ecs.EntityID

	// ArrowSpawned 新箭搭上弦
	ArrowSpawned game.Signal[ecs.EntityID]
	// ArrowLaunched 箭被射出（预算已扣除）
	ArrowLaunched game.Signal[ecs.EntityID]
}

// NewSupplyStationSystem 创建补给点系统
//
// 补给点实体缺少 SupplyStationComponent 时返回错误；
// 缺少搭箭点时记录错误并禁用补给点（不影响其他功能）。
func NewSupplyStationSystem(em *ecs.EntityManager, opts SupplyStationOptions) (*SupplyStationSystem, error) {
	if em == nil {
		return nil, fmt.Errorf("entity manager cannot be nil")
	}
	if opts.Projectiles == nil || opts.Scheduler == nil {
		return nil, fmt.Errorf("supply station requires projectile system and scheduler")
	}
	station, ok := ecs.GetComponent[*components.SupplyStationComponent](em, opts.StationID)
	if !ok {
		return nil, fmt.Errorf("entity %d is not a supply station", opts.StationID)
	}

	factory := opts.Factory
	if factory == nil {
		factory = entities.NewArrow
	}

	s := &SupplyStationSystem{
		em:          em,
		stationID:   opts.StationID,
		projectiles: opts.Projectiles,
		scheduler:   opts.Scheduler,
		budget:      opts.Budget,
		spawnDelay:  opts.SpawnDelay,
		factory:     factory,
	}

	if station.NotchEntity == 0 || !ecs.HasComponent[*components.TransformComponent](em, station.NotchEntity) {
		log.Printf("[SupplyStation] ERROR: Station %d has no notch anchor, spawning disabled", opts.StationID)
		station.Disabled = true
	}
	return s, nil
}

func (s *SupplyStationSystem) station() *components.SupplyStationComponent {
	station, _ := ecs.GetComponent[*components.SupplyStationComponent](s.em, s.stationID)
	return station
}

// Bind 订阅拉弦手势
func (s *SupplyStationSystem) Bind(gesture *DrawGestureSystem) {
	s.unbind()
	s.gesture = gesture
	s.startSub = gesture.PullStarted.Subscribe(func(struct{}) { s.OnPullStarted() })
	s.endSub = gesture.PullEnded.Subscribe(s.OnPullEnded)
}

func (s *SupplyStationSystem) unbind() {
	if s.gesture == nil {
		return
	}
	s.gesture.PullStarted.Unsubscribe(s.startSub)
	s.gesture.PullEnded.Unsubscribe(s.endSub)
	s.gesture = nil
}

// ActivateAfter 安全确认后激活补给点（已确认时立即激活）
func (s *SupplyStationSystem) ActivateAfter(gate *game.ReadinessGate) {
	if gate == nil {
		s.activate()
		return
	}
	s.gateWaiter.Cancel()
	s.gateWaiter = gate.Await(s.activate)
}

func (s *SupplyStationSystem) activate() {
	if station := s.station(); station != nil && !station.Activated {
		station.Activated = true
		log.Printf("[SupplyStation] Station %d activated", s.stationID)
	}
}

// OnPullStarted 开始拉弦
//
// 返回 false 表示被否决（未激活、已禁用或箭数耗尽）。
func (s *SupplyStationSystem) OnPullStarted() bool {
	station := s.station()
	if station == nil || station.Disabled || !station.Activated {
		return false
	}
	if s.budget != nil && !s.budget.CanLaunch() {
		log.Printf("[SupplyStation] Pull vetoed: no arrows remaining")
		return false
	}

	switch station.State {
	case components.StationSpawning, components.StationReady:
		return true
	}

	station.State = components.StationSpawning
	s.spawnTask = s.scheduler.After(s.spawnDelay, s.spawn)
	return true
}

// spawn 生成延迟结束：创建新箭并搭弦
func (s *SupplyStationSystem) spawn() {
	s.spawnTask = nil
	station := s.station()
	if station == nil || station.Disabled {
		return
	}

	arrow, err := s.factory(s.em, s.stationID)
	if err != nil {
		log.Printf("[SupplyStation] ERROR: Failed to create arrow: %v", err)
		station.State = components.StationNoProjectile
		return
	}
	if err := s.projectiles.Notch(arrow, station.NotchEntity); err != nil {
		log.Printf("[SupplyStation] ERROR: Failed to notch arrow: %v", err)
		s.em.DestroyEntity(arrow)
		station.State = components.StationNoProjectile
		return
	}

	station.CurrentArrow = arrow
	station.State = components.StationReady
	s.ArrowSpawned.Emit(arrow)
}

// OnPullEnded 松弦
//
// Ready 时以 pull 射出当前箭；生成中松弦视为取消。
func (s *SupplyStationSystem) OnPullEnded(pull float64) {
	station := s.station()
	if station == nil {
		return
	}

	switch station.State {
	case components.StationSpawning:
		s.spawnTask.Cancel()
		s.spawnTask = nil
		station.State = components.StationNoProjectile
		log.Printf("[SupplyStation] Pull released before spawn, cancelled")

	case components.StationReady:
		if !station.Activated {
			log.Printf("[SupplyStation] Launch vetoed: station not activated")
			return
		}
		if s.budget != nil && !s.budget.CanLaunch() {
			log.Printf("[SupplyStation] Launch vetoed: no arrows remaining")
			return
		}
		arrow := station.CurrentArrow
		if !s.projectiles.Launch(arrow, pull) {
			return
		}
		station.CurrentArrow = 0
		station.State = components.StationLaunched
		s.lastLaunched = arrow
		if s.budget != nil {
			if err := s.budget.Consume(); err != nil {
				log.Printf("[SupplyStation] Warning: %v", err)
			}
		}
		s.ArrowLaunched.Emit(arrow)
	}
}

// ForceSpawn 立即搭上一支新箭
//
// 取消等待中的生成（不会产生半成品），丢弃当前搭着的箭。
// 安全确认前返回 ErrStationInactive。
func (s *SupplyStationSystem) ForceSpawn() error {
	station := s.station()
	if station == nil {
		return fmt.Errorf("supply station %d missing", s.stationID)
	}
	if station.Disabled {
		return fmt.Errorf("supply station %d disabled", s.stationID)
	}
	if !station.Activated {
		return fmt.Errorf("force spawn on station %d: %w", s.stationID, ErrStationInactive)
	}

	s.spawnTask.Cancel()
	s.spawnTask = nil
	if station.State == components.StationReady && station.CurrentArrow != 0 {
		s.projectiles.Dispose(station.CurrentArrow)
		station.CurrentArrow = 0
	}

	s.spawn()
	if station.State != components.StationReady {
		return fmt.Errorf("supply station %d failed to spawn", s.stationID)
	}
	return nil
}

// State 补给点状态
func (s *SupplyStationSystem) State() components.StationState {
	if station := s.station(); station != nil {
		return station.State
	}
	return components.StationNoProjectile
}

// CurrentArrow 当前搭着的箭（没有时为 0）
func (s *SupplyStationSystem) CurrentArrow() ecs.EntityID {
	if station := s.station(); station != nil {
		return station.CurrentArrow
	}
	return 0
}

// LastLaunched 最近一支射出的箭
func (s *SupplyStationSystem) LastLaunched() ecs.EntityID {
	return s.lastLaunched
}

// IsActivated 是否已激活
func (s *SupplyStationSystem) IsActivated() bool {
	station := s.station()
	return station != nil && station.Activated
}

// Dispose 取消订阅、等待中的生成与安全确认等待
func (s *SupplyStationSystem) Dispose() {
	s.unbind()
	s.spawnTask.Cancel()
	s.spawnTask = nil
	s.gateWaiter.Cancel()
	s.gateWaiter = nil
	s.ArrowSpawned.Clear()
	s.ArrowLaunched.Clear()
}
