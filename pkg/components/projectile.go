package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/archery/pkg/ecs"
)

// ProjectilePhase 箭的生命周期阶段
// 只能向前推进：Idle → Notched → Launched → Impacted → Disposed
type ProjectilePhase int

const (
	// ProjectileIdle 刚创建，尚未搭弦
	ProjectileIdle ProjectilePhase = iota
	// ProjectileNotched 搭在弦上（运动学、无碰撞）
	ProjectileNotched
	// ProjectileLaunched 飞行中
	ProjectileLaunched
	// ProjectileImpacted 已命中表面
	ProjectileImpacted
	// ProjectileDisposed 已销毁
	ProjectileDisposed
)

// String 返回阶段名称
func (p ProjectilePhase) String() string {
	switch p {
	case ProjectileIdle:
		return "Idle"
	case ProjectileNotched:
		return "Notched"
	case ProjectileLaunched:
		return "Launched"
	case ProjectileImpacted:
		return "Impacted"
	case ProjectileDisposed:
		return "Disposed"
	default:
		return "Unknown"
	}
}

// ProjectileComponent 一支箭的状态
type ProjectileComponent struct {
	Phase     ProjectilePhase
	StationID ecs.EntityID // 生成它的补给点

	PullAmount  float64 // 发射时的拉弦值 [0,1]
	LaunchForce float64 // 发射速度变化量（米/秒）
	FlightTime  float64 // 已飞行时间（秒）

	HasImpacted bool         // 命中标记，合并同一次碰撞的多次回调
	ImpactPoint mgl64.Vec3   // 接触点
	StickTarget ecs.EntityID // 插入的表面实体，0 表示无
}

// InFlight 是否处于 Launched 阶段
func (p *ProjectileComponent) InFlight() bool {
	return p.Phase == ProjectileLaunched
}
