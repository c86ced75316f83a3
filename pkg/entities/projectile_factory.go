package entities

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/config"
	"github.com/gonewx/archery/pkg/ecs"
)

// NewArrow 创建一支箭（Idle 阶段，等待搭弦）
//
// 参数:
//   - em: 实体管理器
//   - stationID: 生成它的补给点
//
// 返回:
//   - ecs.EntityID: 箭实体ID，失败时返回 0
//   - error: 创建失败时返回错误信息
func NewArrow(em *ecs.EntityManager, stationID ecs.EntityID) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}

	entityID := em.CreateEntity()

	em.AddComponent(entityID, components.NewTransform(mgl64.Vec3{}, mgl64.QuatIdent()))

	// 搭弦前为运动学刚体，不参与碰撞
	em.AddComponent(entityID, &components.RigidbodyComponent{
		IsKinematic: true,
	})
	em.AddComponent(entityID, &components.ColliderComponent{
		Enabled: false,
		Layer:   config.LayerDefault,
	})

	em.AddComponent(entityID, &components.ProjectileComponent{
		Phase:     components.ProjectileIdle,
		StationID: stationID,
	})

	return entityID, nil
}
