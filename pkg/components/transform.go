package components

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/archery/pkg/ecs"
)

// TransformComponent 实体在世界中的位置与朝向
//
// Parent 不为 0 时，Position/Rotation 由 TransformSystem 根据父实体和
// LocalPosition/LocalRotation 计算（搭在弓上的箭、插在靶上的箭）。
type TransformComponent struct {
	Position mgl64.Vec3 // 世界坐标
	Rotation mgl64.Quat // 世界朝向，前方为 +Z

	Parent        ecs.EntityID // 父实体，0 表示无
	LocalPosition mgl64.Vec3   // 相对父实体的位置
	LocalRotation mgl64.Quat   // 相对父实体的朝向
}

// NewTransform 创建无父实体的变换
func NewTransform(position mgl64.Vec3, rotation mgl64.Quat) *TransformComponent {
	return &TransformComponent{
		Position:      position,
		Rotation:      rotation,
		LocalRotation: mgl64.QuatIdent(),
	}
}

// Forward 世界前方向
func (t *TransformComponent) Forward() mgl64.Vec3 {
	return t.Rotation.Rotate(mgl64.Vec3{0, 0, 1})
}

// TransformPoint 把本地坐标点转换为世界坐标
func (t *TransformComponent) TransformPoint(local mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(t.Rotation.Rotate(local))
}
