package components

import "github.com/go-gl/mathgl/mgl64"

// RigidbodyComponent 简单刚体
// 运动学刚体（IsKinematic）不受重力和速度积分影响，由父实体或代码直接摆放
type RigidbodyComponent struct {
	Velocity    mgl64.Vec3 // 速度（米/秒）
	IsKinematic bool       // 是否为运动学刚体
	UseGravity  bool       // 是否受重力
}
