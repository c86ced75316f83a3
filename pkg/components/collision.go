package components

import "github.com/go-gl/mathgl/mgl64"

// ColliderComponent 飞行物体的碰撞开关
// 箭在搭弦时关闭碰撞，发射时打开
type ColliderComponent struct {
	Enabled bool   // 是否参与碰撞检测
	Layer   uint32 // 所在碰撞层
}

// SurfaceShape 表面形状
type SurfaceShape int

const (
	// SurfacePlane 无限平面（地面）
	SurfacePlane SurfaceShape = iota
	// SurfaceDisc 圆盘（靶面）
	SurfaceDisc
)

// SurfaceComponent 可被箭命中的静态表面
// 表面中心取实体 TransformComponent.Position
type SurfaceComponent struct {
	Shape  SurfaceShape
	Normal mgl64.Vec3 // 表面法线（世界坐标，单位向量）
	Radius float64    // 圆盘半径（平面忽略）
	Layer  uint32     // 所在碰撞层
}
