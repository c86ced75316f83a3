package systems

import (
	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/ecs"
	"github.com/gonewx/archery/pkg/game"
)

// TrajectoryPreviewSystem 瞄准预览射线
//
// 拉弦开始时显示（需要有搭着的箭），拉弦值变化时从箭的位置沿箭的前方
// 延伸 pull * maxDistance，松弦时隐藏。
type TrajectoryPreviewSystem struct {
	em        *ecs.EntityManager
	previewID ecs.EntityID
	station   *SupplyStationSystem
	gesture   *DrawGestureSystem

	subs [3]game.SubscriptionID
}

// NewTrajectoryPreviewSystem 创建预览系统并订阅拉弦事件
func NewTrajectoryPreviewSystem(em *ecs.EntityManager, previewID ecs.EntityID, gesture *DrawGestureSystem, station *SupplyStationSystem) *TrajectoryPreviewSystem {
	s := &TrajectoryPreviewSystem{
		em:        em,
		previewID: previewID,
		station:   station,
		gesture:   gesture,
	}
	s.subs[0] = gesture.PullStarted.Subscribe(func(struct{}) { s.refresh(gesture.Pull()) })
	s.subs[1] = gesture.PullUpdated.Subscribe(s.refresh)
	s.subs[2] = gesture.PullEnded.Subscribe(func(float64) { s.hide() })
	return s
}

func (s *TrajectoryPreviewSystem) preview() *components.TrajectoryPreviewComponent {
	p, _ := ecs.GetComponent[*components.TrajectoryPreviewComponent](s.em, s.previewID)
	return p
}

// Update 箭在生成延迟后才出现，每帧按当前拉弦值刷新
func (s *TrajectoryPreviewSystem) Update(deltaTime float64) {
	if s.gesture.IsPulling() {
		s.refresh(s.gesture.Pull())
	}
}

func (s *TrajectoryPreviewSystem) refresh(pull float64) {
	preview := s.preview()
	if preview == nil {
		return
	}
	arrow := s.station.CurrentArrow()
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.em, arrow)
	if arrow == 0 || !ok {
		preview.Visible = false
		return
	}
	preview.Visible = true
	preview.Start = transform.Position
	preview.End = transform.Position.Add(transform.Forward().Mul(pull * preview.MaxDistance))
}

func (s *TrajectoryPreviewSystem) hide() {
	if preview := s.preview(); preview != nil {
		preview.Visible = false
	}
}

// Dispose 取消订阅
func (s *TrajectoryPreviewSystem) Dispose() {
	s.gesture.PullStarted.Unsubscribe(s.subs[0])
	s.gesture.PullUpdated.Unsubscribe(s.subs[1])
	s.gesture.PullEnded.Unsubscribe(s.subs[2])
}
