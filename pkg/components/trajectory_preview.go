package components

import "github.com/go-gl/mathgl/mgl64"

// TrajectoryPreviewComponent 瞄准预览射线
// 拉弦时可见，长度与拉弦值成正比
type TrajectoryPreviewComponent struct {
	Visible     bool
	Start       mgl64.Vec3
	End         mgl64.Vec3
	MaxDistance float64
}
