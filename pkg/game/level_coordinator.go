package game

import (
	"fmt"
	"log"

	"github.com/gonewx/archery/pkg/config"
)

// LevelPhase 关卡阶段
type LevelPhase int

const (
	// PhaseLoading 加载中（尚未调用 LoadLevel）
	PhaseLoading LevelPhase = iota
	// PhaseInProgress 进行中
	PhaseInProgress
	// PhaseComplete 已完成（本关终态）
	PhaseComplete
)

// String 返回阶段名称
func (p LevelPhase) String() string {
	switch p {
	case PhaseLoading:
		return "Loading"
	case PhaseInProgress:
		return "InProgress"
	case PhaseComplete:
		return "Complete"
	default:
		return fmt.Sprintf("LevelPhase(%d)", int(p))
	}
}

// FlightTracker 报告仍在飞行中的箭数量
type FlightTracker interface {
	InFlight() int
}

// LevelCoordinatorOptions 关卡协调器依赖
type LevelCoordinatorOptions struct {
	Ledger    *ScoringLedger
	Budget    *ArrowBudget
	Timer     *LevelTimer      // 可为 nil
	Scheduler *Scheduler       // 可为 nil（结算立即显示）
	Presenter SummaryPresenter // 可为 nil（只记录日志）

	// EndScreenDelay 关卡完成到显示结算的延迟（秒）
	EndScreenDelay float64
}

// LevelCoordinator 关卡协调器
//
// 汇总 ScoringLedger 与 ArrowBudget 的事件，驱动 Loading → InProgress → Complete。
// 是结束关卡的唯一权威：Complete 入口动作（持久化、结算）每关只执行一次。
//
// 箭用完时，如果最后一支箭仍在飞行，等它落地（Impacted/Disposed）后再结束，
// 使最后一箭仍能得分。
type LevelCoordinator struct {
	ledger         *ScoringLedger
	budget         *ArrowBudget
	timer          *LevelTimer
	scheduler      *Scheduler
	presenter      SummaryPresenter
	endScreenDelay float64
	flight         FlightTracker

	config     *config.LevelConfig
	phase      LevelPhase
	targetsHit int
	elapsed    float64
	reason     CompletionReason

	outOfArrowsPending bool
	recheckTask        *Task
	summaryTask        *Task
	summary            LevelSummary

	budgetSub SubscriptionID

	// PhaseChanged 阶段变化时触发
	PhaseChanged Signal[LevelPhase]
	// SummaryShown 结算显示时触发（在 Presenter 之后）
	SummaryShown Signal[LevelSummary]
}

// NewLevelCoordinator 创建关卡协调器并订阅箭数耗尽事件
func NewLevelCoordinator(opts LevelCoordinatorOptions) *LevelCoordinator {
	c := &LevelCoordinator{
		ledger:         opts.Ledger,
		budget:         opts.Budget,
		timer:          opts.Timer,
		scheduler:      opts.Scheduler,
		presenter:      opts.Presenter,
		endScreenDelay: opts.EndScreenDelay,
		phase:          PhaseLoading,
	}
	if c.budget != nil {
		c.budgetSub = c.budget.Exhausted.Subscribe(func(struct{}) {
			c.onBudgetExhausted()
		})
	}
	return c
}

// SetFlightTracker 设置飞行中箭数来源（由弹道系统提供）
func (c *LevelCoordinator) SetFlightTracker(tracker FlightTracker) {
	c.flight = tracker
}

// SetPresenter 设置结算界面
func (c *LevelCoordinator) SetPresenter(presenter SummaryPresenter) {
	c.presenter = presenter
}

// LoadLevel 开始一个关卡
//
// 重置箭数预算、本关得分和命中计数，进入 InProgress。
// cfg 为 nil 视为缺少引用：记录错误并保持 Loading（本关功能禁用）。
func (c *LevelCoordinator) LoadLevel(cfg *config.LevelConfig) error {
	if cfg == nil {
		log.Printf("[LevelCoordinator] ERROR: No level config assigned, level disabled")
		return config.ErrNoLevel
	}
	if c.ledger == nil || c.budget == nil {
		log.Printf("[LevelCoordinator] ERROR: Missing ledger or budget, level disabled")
		return fmt.Errorf("level coordinator not wired")
	}

	c.summaryTask.Cancel()
	c.recheckTask.Cancel()
	c.summaryTask = nil
	c.recheckTask = nil

	c.config = cfg
	c.targetsHit = 0
	c.elapsed = 0
	c.reason = CompletionNone
	c.outOfArrowsPending = false
	c.summary = LevelSummary{}

	c.ledger.Activate()
	c.budget.Initialize(cfg.MaxArrows)
	c.ledger.ResetLevel()
	if c.timer != nil {
		c.timer.Start()
	}

	c.setPhase(PhaseInProgress)
	log.Printf("[LevelCoordinator] Level %d (%s) started: %d arrows, %d targets",
		cfg.LevelNumber, cfg.LevelName, cfg.MaxArrows, cfg.TargetCount)
	return nil
}

// OnTargetHit 记录一次命中
//
// 非 InProgress 时无效果。得分被闸门拒绝时不计入命中数。
// 返回 true 表示命中被计入。
func (c *LevelCoordinator) OnTargetHit(points int) bool {
	if c.phase != PhaseInProgress {
		return false
	}
	if !c.ledger.RecordShot(points) {
		return false
	}
	c.targetsHit++
	log.Printf("[LevelCoordinator] Target hit (%d/%d)", c.targetsHit, c.config.TargetCount)

	if c.targetsHit >= c.config.TargetCount {
		c.complete(CompletionAllTargetsHit)
	}
	return true
}

// OnOutOfArrows 箭用完，立即结束关卡（与命中数无关）
func (c *LevelCoordinator) OnOutOfArrows() {
	if c.phase != PhaseInProgress {
		return
	}
	c.complete(CompletionOutOfArrows)
}

// NotifyArrowSettled 一支箭结束飞行（命中或丢失）
//
// 箭数已耗尽且没有箭在飞行时，在下一次调度中结束关卡，
// 让同一 tick 中的计分先完成。
func (c *LevelCoordinator) NotifyArrowSettled() {
	if !c.outOfArrowsPending || c.phase != PhaseInProgress {
		return
	}
	if c.inFlight() > 0 || c.recheckTask.Pending() {
		return
	}
	if c.scheduler == nil {
		c.resolveOutOfArrows()
		return
	}
	c.recheckTask = c.scheduler.After(0, c.resolveOutOfArrows)
}

// Update 推进关卡时间（检查时间限制）
//
// 参数：
//   - dt: 时间增量（秒）
func (c *LevelCoordinator) Update(dt float64) {
	if c.phase != PhaseInProgress {
		return
	}
	c.elapsed += dt
	if c.config.TimeLimit > 0 && c.elapsed >= c.config.TimeLimit {
		log.Printf("[LevelCoordinator] Time limit %.1fs reached", c.config.TimeLimit)
		c.complete(CompletionTimeUp)
	}
}

// Dispose 取消订阅与等待中的任务（场景卸载时调用）
func (c *LevelCoordinator) Dispose() {
	if c.budget != nil && c.budgetSub != 0 {
		c.budget.Exhausted.Unsubscribe(c.budgetSub)
		c.budgetSub = 0
	}
	c.summaryTask.Cancel()
	c.recheckTask.Cancel()
	c.PhaseChanged.Clear()
	c.SummaryShown.Clear()
}

func (c *LevelCoordinator) onBudgetExhausted() {
	if c.phase != PhaseInProgress {
		return
	}
	c.outOfArrowsPending = true
	if c.inFlight() > 0 {
		log.Printf("[LevelCoordinator] Out of arrows, waiting for %d arrow(s) in flight", c.inFlight())
		return
	}
	c.NotifyArrowSettled()
}

func (c *LevelCoordinator) resolveOutOfArrows() {
	if !c.outOfArrowsPending || c.inFlight() > 0 {
		return
	}
	c.outOfArrowsPending = false
	c.OnOutOfArrows()
}

func (c *LevelCoordinator) inFlight() int {
	if c.flight == nil {
		return 0
	}
	return c.flight.InFlight()
}

// complete Complete 入口动作，由阶段检查保证每关只执行一次
func (c *LevelCoordinator) complete(reason CompletionReason) {
	if c.phase != PhaseInProgress {
		return
	}
	c.reason = reason
	c.outOfArrowsPending = false
	c.recheckTask.Cancel()
	c.setPhase(PhaseComplete)

	log.Printf("[LevelCoordinator] Level %d complete (%s)", c.config.LevelNumber, reason)

	if c.timer != nil {
		c.timer.Stop()
		if err := c.timer.SaveTotalTime(); err != nil {
			log.Printf("[LevelCoordinator] Warning: %v", err)
		}
	}
	if err := c.ledger.CompleteLevel(c.config.LevelNumber); err != nil {
		log.Printf("[LevelCoordinator] Warning: %v", err)
	}

	c.summary = c.buildSummary()
	if c.scheduler == nil {
		c.showSummary()
		return
	}
	c.summaryTask = c.scheduler.After(c.endScreenDelay, c.showSummary)
}

func (c *LevelCoordinator) buildSummary() LevelSummary {
	state := c.ledger.State()
	budget := c.budget.State()
	summary := LevelSummary{
		LevelNumber: c.config.LevelNumber,
		LevelName:   c.config.LevelName,
		Reason:      c.reason,
		LevelScore:  state.CurrentLevelScore,
		LevelHits:   state.CurrentLevelHits,
		TotalScore:  state.LifetimeScore,
		TotalHits:   state.LifetimeHits,
		ArrowsShot:  budget.ShotCount,
		MaxArrows:   budget.MaxArrows,
		Accuracy:    c.budget.Accuracy(state.CurrentLevelHits),
	}
	if c.timer != nil {
		summary.TotalTime = c.timer.Elapsed()
	}
	return summary
}

func (c *LevelCoordinator) showSummary() {
	if c.presenter != nil {
		c.presenter.ShowSummary(c.summary)
	} else {
		log.Printf("[LevelCoordinator] Summary: score=%d hits=%d total=%d",
			c.summary.LevelScore, c.summary.LevelHits, c.summary.TotalScore)
	}
	c.SummaryShown.Emit(c.summary)
}

func (c *LevelCoordinator) setPhase(phase LevelPhase) {
	if c.phase == phase {
		return
	}
	c.phase = phase
	c.PhaseChanged.Emit(phase)
}

// Phase 当前阶段
func (c *LevelCoordinator) Phase() LevelPhase {
	return c.phase
}

// TargetsHit 本关命中靶子数
func (c *LevelCoordinator) TargetsHit() int {
	return c.targetsHit
}

// Reason 结束原因（未结束时为 CompletionNone）
func (c *LevelCoordinator) Reason() CompletionReason {
	return c.reason
}

// Config 当前关卡配置（未加载时为 nil）
func (c *LevelCoordinator) Config() *config.LevelConfig {
	return c.config
}

// Elapsed 本关已用时间（秒）
func (c *LevelCoordinator) Elapsed() float64 {
	return c.elapsed
}

// TimeRemaining 剩余时间，不限时返回 -1
func (c *LevelCoordinator) TimeRemaining() float64 {
	if c.config == nil || c.config.TimeLimit <= 0 {
		return -1
	}
	remaining := c.config.TimeLimit - c.elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// OutOfArrowsPending 箭已用完、等待飞行中的箭落地
func (c *LevelCoordinator) OutOfArrowsPending() bool {
	return c.outOfArrowsPending
}

// Summary 最近一次结算数据
func (c *LevelCoordinator) Summary() LevelSummary {
	return c.summary
}
