package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/archery/pkg/ecs"
)

// DrawPhase 拉弦阶段
type DrawPhase int

const (
	// DrawIdle 未拉弦
	DrawIdle DrawPhase = iota
	// DrawPulling 拉弦中
	DrawPulling
)

// DrawStateComponent 弓的拉弦状态
// 只由 DrawGestureSystem 在采样时修改，不持久化
type DrawStateComponent struct {
	RawAnchorPosition mgl64.Vec3 // 最近一次采样的手部位置（世界坐标）
	NormalizedPull    float64    // 拉弦值 [0,1]
	Phase             DrawPhase

	// 拉弦轴，弓本地坐标
	AxisStart mgl64.Vec3
	AxisEnd   mgl64.Vec3

	// 搭箭点实体，随拉弦沿轴移动
	NotchEntity ecs.EntityID
	NotchRest   mgl64.Vec3 // 搭箭点静止位置（弓本地坐标）
}
