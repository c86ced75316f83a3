package systems

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/ecs"
	"github.com/gonewx/archery/pkg/game"
	"github.com/gonewx/archery/pkg/utils"
)

// AnchorSource 连续移动的抓握点（手柄位置），每个 tick 采样一次
type AnchorSource interface {
	AnchorPosition() mgl64.Vec3
}

// AnchorFunc 函数适配器
type AnchorFunc func() mgl64.Vec3

// AnchorPosition 实现 AnchorSource
func (f AnchorFunc) AnchorPosition() mgl64.Vec3 {
	return f()
}

// DrawGestureSystem 拉弦手势
//
// 把抓握点投影到弓的拉弦轴上，得到 [0,1] 的拉弦值。
// 对箭一无所知：只广播开始、变化和结束事件。
//
// 状态机：
//   - Idle --Begin--> Pulling（广播 PullStarted）
//   - Pulling --Sample--> Pulling（值变化时广播 PullUpdated）
//   - Pulling --End--> Idle（广播 PullEnded，携带最后一次采样值）
//
// Idle 时的 Sample/End 和 Pulling 时的 Begin 都是无操作。
type DrawGestureSystem struct {
	em     *ecs.EntityManager
	bowID  ecs.EntityID
	source AnchorSource

	// PullStarted 开始拉弦
	PullStarted game.Signal[struct{}]
	// PullUpdated 拉弦值变化，参数为新值
	PullUpdated game.Signal[float64]
	// PullEnded 松弦，参数为最后一次采样值
	PullEnded game.Signal[float64]
}

// NewDrawGestureSystem 创建拉弦手势系统
//
// 参数：
//   - em: 实体管理器
//   - bowID: 弓实体，需要 TransformComponent 和 DrawStateComponent
//
// 返回：
//   - error: 弓实体缺少必要组件时返回错误
func NewDrawGestureSystem(em *ecs.EntityManager, bowID ecs.EntityID) (*DrawGestureSystem, error) {
	if em == nil {
		return nil, fmt.Errorf("entity manager cannot be nil")
	}
	if !ecs.HasComponent[*components.DrawStateComponent](em, bowID) ||
		!ecs.HasComponent[*components.TransformComponent](em, bowID) {
		return nil, fmt.Errorf("bow entity %d missing draw state or transform", bowID)
	}
	return &DrawGestureSystem{
		em:    em,
		bowID: bowID,
	}, nil
}

func (s *DrawGestureSystem) state() *components.DrawStateComponent {
	state, _ := ecs.GetComponent[*components.DrawStateComponent](s.em, s.bowID)
	return state
}

// Begin 开始拉弦
//
// 返回 false 表示已经在拉弦中（重复调用被忽略）。
func (s *DrawGestureSystem) Begin(source AnchorSource) bool {
	state := s.state()
	if state == nil || state.Phase == components.DrawPulling {
		return false
	}
	state.Phase = components.DrawPulling
	state.NormalizedPull = 0
	s.source = source

	log.Printf("[DrawGesture] Pull started")
	s.PullStarted.Emit(struct{}{})
	return true
}

// Sample 采样一次抓握点位置
//
// 计算 (anchor - axisStart) 在单位轴向量上的投影，除以轴长，限制在 [0,1]。
// 值变化时广播 PullUpdated。Idle 时无操作。
func (s *DrawGestureSystem) Sample(anchorPosition mgl64.Vec3) {
	state := s.state()
	if state == nil || state.Phase != components.DrawPulling {
		return
	}
	bow, ok := ecs.GetComponent[*components.TransformComponent](s.em, s.bowID)
	if !ok {
		return
	}

	start := bow.TransformPoint(state.AxisStart)
	end := bow.TransformPoint(state.AxisEnd)
	pull := utils.Clamp01(utils.ProjectOntoAxis(anchorPosition, start, end))

	state.RawAnchorPosition = anchorPosition
	if pull == state.NormalizedPull {
		return
	}
	state.NormalizedPull = pull
	s.moveNotch(state)
	s.PullUpdated.Emit(pull)
}

// Update 拉弦中时从抓握点来源采样一次
func (s *DrawGestureSystem) Update(deltaTime float64) {
	if s.source == nil || !s.IsPulling() {
		return
	}
	s.Sample(s.source.AnchorPosition())
}

// End 松弦
//
// 广播最后一次采样值（不重新采样），然后拉弦值归零。Idle 时无操作。
func (s *DrawGestureSystem) End() {
	state := s.state()
	if state == nil || state.Phase != components.DrawPulling {
		return
	}
	last := state.NormalizedPull
	state.Phase = components.DrawIdle
	state.NormalizedPull = 0
	s.source = nil

	log.Printf("[DrawGesture] Pull ended at %.2f", last)
	s.PullEnded.Emit(last)

	// 搭箭点回到静止位置（在发射之后，箭已经脱离）
	s.moveNotch(state)
}

// moveNotch 搭箭点随拉弦值沿轴移动
func (s *DrawGestureSystem) moveNotch(state *components.DrawStateComponent) {
	if state.NotchEntity == 0 {
		return
	}
	notch, ok := ecs.GetComponent[*components.TransformComponent](s.em, state.NotchEntity)
	if !ok {
		return
	}
	axis := state.AxisEnd.Sub(state.AxisStart)
	notch.LocalPosition = state.NotchRest.Add(axis.Mul(state.NormalizedPull))
}

// IsPulling 是否在拉弦中
func (s *DrawGestureSystem) IsPulling() bool {
	state := s.state()
	return state != nil && state.Phase == components.DrawPulling
}

// Pull 当前拉弦值
func (s *DrawGestureSystem) Pull() float64 {
	state := s.state()
	if state == nil {
		return 0
	}
	return state.NormalizedPull
}

// BowID 弓实体
func (s *DrawGestureSystem) BowID() ecs.EntityID {
	return s.bowID
}

// Dispose 清除所有订阅者
func (s *DrawGestureSystem) Dispose() {
	s.PullStarted.Clear()
	s.PullUpdated.Clear()
	s.PullEnded.Clear()
	s.source = nil
}
