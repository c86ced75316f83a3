package scenes

import (
	"fmt"
	"log"

	"github.com/gonewx/archery/pkg/config"
	"github.com/gonewx/archery/pkg/ecs"
	"github.com/gonewx/archery/pkg/entities"
	"github.com/gonewx/archery/pkg/game"
	"github.com/gonewx/archery/pkg/systems"
	"github.com/gonewx/archery/pkg/utils"
)

// 屏幕尺寸
const (
	WindowWidth  = 960
	WindowHeight = 600
)

// RangeSceneOptions 靶场场景依赖
type RangeSceneOptions struct {
	// Session 会话（必需），场景重新加载时沿用
	Session *game.Session
	// Bow 弓参数，nil 时使用默认值
	Bow *config.BowConfig
	// Level 关卡配置，nil 时关卡功能禁用（只能空射）
	Level *config.LevelConfig
	// Pointer 指针输入，nil 时读取 ebiten
	Pointer utils.PointerSource
	// Keys 按键输入，nil 时读取 ebiten
	Keys utils.KeySource
	// Presenter 结算界面，nil 时由场景自己绘制
	Presenter game.SummaryPresenter
}

// RangeScene 一个关卡的靶场
//
// 场景持有本关的全部状态：实体、箭数预算、关卡协调器和调度器。
// 会话级对象（安全确认、得分账本、计时器）来自 Session，场景销毁时只取消订阅。
type RangeScene struct {
	session *game.Session
	bowCfg  *config.BowConfig
	level   *config.LevelConfig

	em          *ecs.EntityManager
	scheduler   *game.Scheduler
	budget      *game.ArrowBudget
	coordinator *game.LevelCoordinator

	bow     *entities.Bow
	targets []ecs.EntityID
	ground  ecs.EntityID

	// 系统
	gesture     *systems.DrawGestureSystem
	transforms  *systems.TransformSystem
	projectiles *systems.ProjectileSystem
	flight      *systems.FlightSystem
	lifetime    *systems.LifetimeSystem
	station     *systems.SupplyStationSystem
	scoring     *systems.TargetScoringSystem
	preview     *systems.TrajectoryPreviewSystem

	// 输入
	drag *utils.DragManager
	keys utils.KeySource
	aim  aimState

	hud hudState

	settledSubs [2]game.SubscriptionID
	scoredSub   game.SubscriptionID
	disposed    bool
}

var (
	_ game.Scene            = (*RangeScene)(nil)
	_ game.Disposable       = (*RangeScene)(nil)
	_ game.SummaryPresenter = (*RangeScene)(nil)
)

// NewRangeScene 创建靶场场景并开始关卡
//
// 参数：
//   - opts: 场景依赖，Session 必需
//
// 返回：
//   - *RangeScene: 场景实例
//   - error: 缺少 Session 或实体创建失败时返回错误
func NewRangeScene(opts RangeSceneOptions) (*RangeScene, error) {
	if opts.Session == nil {
		return nil, fmt.Errorf("range scene requires a session")
	}
	bowCfg := opts.Bow
	if bowCfg == nil {
		bowCfg = config.DefaultBowConfig()
	}

	s := &RangeScene{
		session:   opts.Session,
		bowCfg:    bowCfg,
		level:     opts.Level,
		em:        ecs.NewEntityManager(),
		scheduler: game.NewScheduler(),
		budget:    game.NewArrowBudget(),
	}

	if err := s.createEntities(); err != nil {
		return nil, err
	}
	if err := s.createSystems(opts.Presenter); err != nil {
		return nil, err
	}
	s.initInput(opts.Pointer, opts.Keys)

	if s.level == nil {
		log.Printf("[RangeScene] ERROR: No level config, scoring disabled for this scene")
	} else if err := s.coordinator.LoadLevel(s.level); err != nil {
		log.Printf("[RangeScene] ERROR: Failed to start level: %v", err)
	}

	log.Printf("[RangeScene] Scene ready (session %s, %d targets)", s.session.ID, len(s.targets))
	return s, nil
}

// createEntities 创建弓、靶子和地面
func (s *RangeScene) createEntities() error {
	bow, err := entities.NewBow(s.em, s.bowCfg)
	if err != nil {
		return fmt.Errorf("failed to create bow: %w", err)
	}
	s.bow = bow

	if s.level != nil {
		s.targets = entities.NewTargets(s.em, s.level)
	}

	s.ground, err = entities.NewGround(s.em, 0)
	if err != nil {
		return fmt.Errorf("failed to create ground: %w", err)
	}
	return nil
}

// createSystems 创建系统并连接事件
func (s *RangeScene) createSystems(presenter game.SummaryPresenter) error {
	var err error
	s.gesture, err = systems.NewDrawGestureSystem(s.em, s.bow.BowID)
	if err != nil {
		return fmt.Errorf("failed to create draw gesture: %w", err)
	}
	s.transforms = systems.NewTransformSystem(s.em)
	s.projectiles = systems.NewProjectileSystem(s.em, s.bowCfg)
	s.flight = systems.NewFlightSystem(s.em, s.projectiles, s.bowCfg)

	s.lifetime = systems.NewLifetimeSystem(s.em)
	s.lifetime.SetExpireHandler(s.projectiles.Dispose)

	s.station, err = systems.NewSupplyStationSystem(s.em, systems.SupplyStationOptions{
		StationID:   s.bow.BowID,
		Projectiles: s.projectiles,
		Scheduler:   s.scheduler,
		Budget:      s.budget,
		SpawnDelay:  s.bowCfg.Spawn.SpawnDelay,
	})
	if err != nil {
		return fmt.Errorf("failed to create supply station: %w", err)
	}
	s.station.Bind(s.gesture)
	s.station.ActivateAfter(s.session.Gate)

	s.preview = systems.NewTrajectoryPreviewSystem(s.em, s.bow.PreviewID, s.gesture, s.station)

	if presenter == nil {
		presenter = s
	}
	s.coordinator = game.NewLevelCoordinator(game.LevelCoordinatorOptions{
		Ledger:         s.session.Ledger,
		Budget:         s.budget,
		Timer:          s.session.Timer,
		Scheduler:      s.scheduler,
		Presenter:      presenter,
		EndScreenDelay: s.bowCfg.Level.EndScreenDelay,
	})
	s.coordinator.SetFlightTracker(s.projectiles)

	s.scoring = systems.NewTargetScoringSystem(s.em, s.projectiles, s.coordinator)
	s.scoredSub = s.scoring.TargetScored.Subscribe(func(hit systems.TargetHit) {
		s.hud.flashScore(hit.Points)
	})

	// 箭落地（命中或丢失）后协调器检查是否可以结束关卡
	s.settledSubs[0] = s.projectiles.Impacted.Subscribe(func(systems.ImpactEvent) {
		s.coordinator.NotifyArrowSettled()
	})
	s.settledSubs[1] = s.projectiles.Disposed.Subscribe(func(ecs.EntityID) {
		s.coordinator.NotifyArrowSettled()
	})
	return nil
}

// Update 推进一帧
//
// 顺序：输入 → 拉弦采样 → 变换 → 预览 → 飞行/命中 → 停留时间 → 调度任务
// → 关卡时间 → 会话 tick → 清理实体。
func (s *RangeScene) Update(deltaTime float64) {
	if s.disposed {
		return
	}
	s.handleKeys(deltaTime)
	s.handlePointer()

	s.gesture.Update(deltaTime)
	s.transforms.Update(deltaTime)
	s.preview.Update(deltaTime)
	s.flight.Update(deltaTime)
	s.lifetime.Update(deltaTime)
	s.scheduler.Update(deltaTime)
	s.coordinator.Update(deltaTime)
	s.session.Advance(deltaTime)
	s.hud.update(deltaTime)

	s.em.RemoveMarkedEntities()
}

// ShowSummary 实现 game.SummaryPresenter：显示结算面板
func (s *RangeScene) ShowSummary(summary game.LevelSummary) {
	s.hud.summary = &summary
	s.hud.summaryAge = 0
	log.Printf("[RangeScene] Level %d summary: %d points, %d hits, accuracy %.0f%%",
		summary.LevelNumber, summary.LevelScore, summary.LevelHits, summary.Accuracy*100)
}

// Dispose 取消所有订阅和等待中的任务
//
// 场景被替换时由 SceneManager 调用。会话级对象不受影响。
func (s *RangeScene) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true

	s.projectiles.Impacted.Unsubscribe(s.settledSubs[0])
	s.projectiles.Disposed.Unsubscribe(s.settledSubs[1])
	s.scoring.TargetScored.Unsubscribe(s.scoredSub)

	s.preview.Dispose()
	s.scoring.Dispose()
	s.station.Dispose()
	s.gesture.Dispose()
	s.coordinator.Dispose()
	s.scheduler.CancelAll()
	if s.hud.flashImage != nil {
		s.hud.flashImage.Deallocate()
		s.hud.flashImage = nil
	}
	log.Printf("[RangeScene] Scene disposed")
}

// Coordinator 关卡协调器
func (s *RangeScene) Coordinator() *game.LevelCoordinator { return s.coordinator }

// Budget 本关箭数预算
func (s *RangeScene) Budget() *game.ArrowBudget { return s.budget }

// Station 箭补给点
func (s *RangeScene) Station() *systems.SupplyStationSystem { return s.station }

// Gesture 拉弦手势
func (s *RangeScene) Gesture() *systems.DrawGestureSystem { return s.gesture }

// Projectiles 箭系统
func (s *RangeScene) Projectiles() *systems.ProjectileSystem { return s.projectiles }

// EntityManager 实体管理器
func (s *RangeScene) EntityManager() *ecs.EntityManager { return s.em }

// Bow 弓实体
func (s *RangeScene) Bow() *entities.Bow { return s.bow }

// Targets 靶子实体
func (s *RangeScene) Targets() []ecs.EntityID { return s.targets }

// ShownSummary 已显示的结算（未显示时为 nil）
func (s *RangeScene) ShownSummary() *game.LevelSummary { return s.hud.summary }
