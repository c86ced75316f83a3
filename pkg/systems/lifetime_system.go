package systems

import (
	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/ecs"
)

// LifetimeSystem 管理实体的生命周期
// 用于插在表面上的箭：停留时间到后交给过期回调（默认直接销毁）
type LifetimeSystem struct {
	entityManager *ecs.EntityManager
	onExpired     func(id ecs.EntityID) bool
}

// NewLifetimeSystem 创建一个新的生命周期系统
func NewLifetimeSystem(em *ecs.EntityManager) *LifetimeSystem {
	return &LifetimeSystem{
		entityManager: em,
	}
}

// SetExpireHandler 设置过期回调（如 ProjectileSystem.Dispose）
// 回调返回 false 时实体被直接销毁
func (s *LifetimeSystem) SetExpireHandler(fn func(id ecs.EntityID) bool) {
	s.onExpired = fn
}

// Update 更新所有拥有生命周期组件的实体
func (s *LifetimeSystem) Update(deltaTime float64) {
	entities := ecs.GetEntitiesWith1[*components.LifetimeComponent](s.entityManager)

	for _, id := range entities {
		if s.entityManager.IsMarkedForDestroy(id) {
			continue
		}
		lifetime, ok := ecs.GetComponent[*components.LifetimeComponent](s.entityManager, id)
		if !ok {
			continue
		}

		lifetime.CurrentLifetime += deltaTime

		if lifetime.CurrentLifetime >= lifetime.MaxLifetime {
			lifetime.IsExpired = true
		}

		if lifetime.IsExpired {
			if s.onExpired == nil || !s.onExpired(id) {
				s.entityManager.DestroyEntity(id)
			}
		}
	}
}
