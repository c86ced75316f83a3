package scenes

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/ecs"
	"github.com/gonewx/archery/pkg/systems"
	"github.com/gonewx/archery/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
)

// 桌面端输入参数
const (
	// PullPixels 满弓对应的向下拖拽距离（像素）
	PullPixels = 200.0
	// AimSpeed 方向键瞄准速度（弧度/秒）
	AimSpeed = math.Pi / 4
	// MaxPitch 最大俯仰角（弧度）
	MaxPitch = math.Pi / 3
	// MaxYaw 最大偏航角（弧度）
	MaxYaw = math.Pi / 2
)

// aimState 弓的朝向（偏航 + 俯仰）
type aimState struct {
	yaw   float64
	pitch float64
}

// rotation 先俯仰（绕 X，正值抬头）再偏航（绕 Y）
func (a aimState) rotation() mgl64.Quat {
	yaw := mgl64.QuatRotate(a.yaw, mgl64.Vec3{0, 1, 0})
	pitch := mgl64.QuatRotate(-a.pitch, mgl64.Vec3{1, 0, 0})
	return yaw.Mul(pitch).Normalize()
}

func (s *RangeScene) initInput(pointer utils.PointerSource, keys utils.KeySource) {
	if pointer == nil {
		pointer = utils.EbitenInput{}
	}
	if keys == nil {
		keys = utils.EbitenInput{}
	}
	s.drag = utils.NewDragManager(pointer)
	s.keys = keys
}

// handlePointer 指针拖拽映射为拉弦：按下开始，向下拖拽拉弦，释放松弦
func (s *RangeScene) handlePointer() {
	s.drag.Update()

	switch {
	case s.drag.JustStarted():
		s.gesture.Begin(systems.AnchorFunc(s.dragAnchor))
	case s.drag.JustEnded():
		s.gesture.End()
	}
}

// dragAnchor 把拖拽距离换算为拉弦轴上的世界坐标（手柄位置）
//
// 超出轴范围的拖拽由拉弦手势限制在 [0,1]。
func (s *RangeScene) dragAnchor() mgl64.Vec3 {
	bow, ok := ecs.GetComponent[*components.TransformComponent](s.em, s.bow.BowID)
	if !ok {
		return mgl64.Vec3{}
	}
	_, dy := s.drag.GetDragDistance()
	axis := s.bowCfg.Pull.AxisEnd.Sub(s.bowCfg.Pull.AxisStart)
	local := s.bowCfg.Pull.AxisStart.Add(axis.Mul(float64(dy) / PullPixels))
	return bow.TransformPoint(local)
}

// handleKeys 处理按键
//
//   - Enter: 确认安全提示
//   - 方向键: 瞄准
//   - F: 立即搭上一支新箭
func (s *RangeScene) handleKeys(deltaTime float64) {
	if s.keys.IsKeyJustPressed(ebiten.KeyEnter) && !s.session.Gate.IsAgreed() {
		s.session.Gate.Confirm()
	}
	if s.keys.IsKeyJustPressed(ebiten.KeyF) {
		if err := s.station.ForceSpawn(); err != nil {
			log.Printf("[RangeScene] Warning: %v", err)
		}
	}

	step := AimSpeed * deltaTime
	aim := s.aim
	if s.keys.IsKeyPressed(ebiten.KeyArrowLeft) {
		aim.yaw -= step
	}
	if s.keys.IsKeyPressed(ebiten.KeyArrowRight) {
		aim.yaw += step
	}
	if s.keys.IsKeyPressed(ebiten.KeyArrowUp) {
		aim.pitch += step
	}
	if s.keys.IsKeyPressed(ebiten.KeyArrowDown) {
		aim.pitch -= step
	}
	aim.yaw = mgl64.Clamp(aim.yaw, -MaxYaw, MaxYaw)
	aim.pitch = mgl64.Clamp(aim.pitch, -MaxPitch, MaxPitch)

	if aim != s.aim {
		s.setAim(aim)
	}
}

// setAim 设置弓的朝向
func (s *RangeScene) setAim(aim aimState) {
	s.aim = aim
	if bow, ok := ecs.GetComponent[*components.TransformComponent](s.em, s.bow.BowID); ok {
		bow.Rotation = aim.rotation()
	}
}

// Aim 直接设置瞄准角度（弧度），超出范围时截断
//
// 参数：
//   - yaw: 水平角，正值向右（+X）
//   - pitch: 俯仰角，正值向上
func (s *RangeScene) Aim(yaw, pitch float64) {
	s.setAim(aimState{
		yaw:   mgl64.Clamp(yaw, -MaxYaw, MaxYaw),
		pitch: mgl64.Clamp(pitch, -MaxPitch, MaxPitch),
	})
}
