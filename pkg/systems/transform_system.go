package systems

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/ecs"
)

// TransformSystem 根据父子关系更新世界变换
//
// 每帧调用一次：有父实体的变换从父实体推导世界坐标（父链按深度递归解析）。
// 父实体已被销毁时子实体脱离，保留当前世界坐标。
type TransformSystem struct {
	em *ecs.EntityManager
}

// NewTransformSystem 创建变换系统
func NewTransformSystem(em *ecs.EntityManager) *TransformSystem {
	return &TransformSystem{em: em}
}

// Update 解析所有带父实体的变换
func (s *TransformSystem) Update(deltaTime float64) {
	resolved := make(map[ecs.EntityID]bool)
	for _, id := range ecs.GetEntitiesWith1[*components.TransformComponent](s.em) {
		s.resolve(id, resolved, 0)
	}
}

// Resolve 立即解析单个实体的世界变换（包括其父链）
func (s *TransformSystem) Resolve(id ecs.EntityID) {
	s.resolve(id, make(map[ecs.EntityID]bool), 0)
}

func (s *TransformSystem) resolve(id ecs.EntityID, resolved map[ecs.EntityID]bool, depth int) {
	if resolved[id] {
		return
	}
	resolved[id] = true

	transform, ok := ecs.GetComponent[*components.TransformComponent](s.em, id)
	if !ok || transform.Parent == 0 {
		return
	}
	// 防止父链成环
	if depth > 32 {
		log.Printf("[TransformSystem] Warning: parent chain too deep at entity %d, detaching", id)
		transform.Parent = 0
		return
	}

	parent, ok := ecs.GetComponent[*components.TransformComponent](s.em, transform.Parent)
	if !ok || s.em.IsMarkedForDestroy(transform.Parent) {
		transform.Parent = 0
		return
	}
	s.resolve(transform.Parent, resolved, depth+1)

	transform.Position = parent.Position.Add(parent.Rotation.Rotate(transform.LocalPosition))
	transform.Rotation = parent.Rotation.Mul(transform.LocalRotation).Normalize()
}

// AttachTo 把 child 挂到 parent 下，保持 child 当前的世界变换
func AttachTo(em *ecs.EntityManager, child, parent ecs.EntityID) bool {
	childT, ok := ecs.GetComponent[*components.TransformComponent](em, child)
	if !ok {
		return false
	}
	parentT, ok := ecs.GetComponent[*components.TransformComponent](em, parent)
	if !ok {
		return false
	}

	inv := parentT.Rotation.Inverse()
	childT.Parent = parent
	childT.LocalPosition = inv.Rotate(childT.Position.Sub(parentT.Position))
	childT.LocalRotation = inv.Mul(childT.Rotation).Normalize()
	return true
}

// AttachAt 把 child 挂到 parent 下的指定本地位置，并立即计算世界变换
func AttachAt(em *ecs.EntityManager, child, parent ecs.EntityID, localPos mgl64.Vec3, localRot mgl64.Quat) bool {
	childT, ok := ecs.GetComponent[*components.TransformComponent](em, child)
	if !ok {
		return false
	}
	parentT, ok := ecs.GetComponent[*components.TransformComponent](em, parent)
	if !ok {
		return false
	}
	childT.Parent = parent
	childT.LocalPosition = localPos
	childT.LocalRotation = localRot
	childT.Position = parentT.Position.Add(parentT.Rotation.Rotate(localPos))
	childT.Rotation = parentT.Rotation.Mul(localRot).Normalize()
	return true
}

// Detach 解除父子关系，保留当前世界变换
func Detach(em *ecs.EntityManager, child ecs.EntityID) {
	if t, ok := ecs.GetComponent[*components.TransformComponent](em, child); ok {
		t.Parent = 0
	}
}
