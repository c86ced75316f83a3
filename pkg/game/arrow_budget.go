package game

import (
	"errors"
	"log"
)

// ErrBudgetExhausted 箭已用完时 Consume 返回此错误
var ErrBudgetExhausted = errors.New("arrow budget exhausted")

// ArrowBudgetState 当前关卡的箭数状态
type ArrowBudgetState struct {
	MaxArrows int // 本关最大箭数
	Remaining int // 剩余箭数
	ShotCount int // 已射出箭数
}

// ArrowBudget 关卡箭数预算
//
// 每关由 LevelCoordinator 调用 Initialize 设置一次；Remaining 单调递减，
// 归零后本关不再允许发射。归零时 Exhausted 只触发一次。
type ArrowBudget struct {
	state          ArrowBudgetState
	exhaustedFired bool

	// Exhausted 箭用完时触发（每关一次）
	Exhausted Signal[struct{}]
	// Changed 箭数变化时触发（显示层订阅）
	Changed Signal[ArrowBudgetState]
}

// NewArrowBudget 创建箭数预算（初始为 0，需调用 Initialize）
func NewArrowBudget() *ArrowBudget {
	return &ArrowBudget{}
}

// Initialize 设置本关箭数，重置已射出计数
func (b *ArrowBudget) Initialize(maxArrows int) {
	if maxArrows < 0 {
		maxArrows = 0
	}
	b.state = ArrowBudgetState{
		MaxArrows: maxArrows,
		Remaining: maxArrows,
		ShotCount: 0,
	}
	b.exhaustedFired = false
	b.Changed.Emit(b.state)
}

// CanLaunch 是否还能发射
func (b *ArrowBudget) CanLaunch() bool {
	return b.state.Remaining > 0
}

// Consume 消耗一支箭（仅在发射确认后调用）
//
// 箭已用完时拒绝并返回 ErrBudgetExhausted，不会出现负数。
func (b *ArrowBudget) Consume() error {
	if b.state.Remaining <= 0 {
		log.Printf("[ArrowBudget] ERROR: Consume called with no arrows remaining")
		return ErrBudgetExhausted
	}

	b.state.Remaining--
	b.state.ShotCount++
	b.Changed.Emit(b.state)

	if b.state.Remaining == 0 && !b.exhaustedFired {
		b.exhaustedFired = true
		log.Printf("[ArrowBudget] Out of arrows! (%d shot)", b.state.ShotCount)
		b.Exhausted.Emit(struct{}{})
	}
	return nil
}

// State 返回当前状态快照
func (b *ArrowBudget) State() ArrowBudgetState {
	return b.state
}

// Remaining 剩余箭数
func (b *ArrowBudget) Remaining() int {
	return b.state.Remaining
}

// ShotCount 已射出箭数
func (b *ArrowBudget) ShotCount() int {
	return b.state.ShotCount
}

// Accuracy 命中率（0~1），未射箭时为 0
func (b *ArrowBudget) Accuracy(hits int) float64 {
	if b.state.ShotCount == 0 {
		return 0
	}
	return float64(hits) / float64(b.state.ShotCount)
}
