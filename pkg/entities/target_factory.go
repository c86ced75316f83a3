package entities

import (
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/config"
	"github.com/gonewx/archery/pkg/ecs"
	"github.com/gonewx/archery/pkg/utils"
)

// NewTarget 根据配置创建靶子（圆盘表面 + 计分数据）
func NewTarget(em *ecs.EntityManager, cfg config.TargetConfig) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg.Facing.Len() == 0 {
		return 0, fmt.Errorf("target %s: facing cannot be zero", cfg.Name)
	}

	normal := cfg.Facing.Normalize()
	entityID := em.CreateEntity()

	// 靶子的前方背对射手，箭命中时沿前方插入
	em.AddComponent(entityID, components.NewTransform(cfg.Center, utils.LookRotation(normal.Mul(-1))))
	em.AddComponent(entityID, &components.SurfaceComponent{
		Shape:  components.SurfaceDisc,
		Normal: normal,
		Radius: cfg.ColliderRadius,
		Layer:  config.LayerTarget,
	})
	em.AddComponent(entityID, &components.TargetComponent{
		Name:     cfg.Name,
		Radius:   cfg.Radius,
		MaxScore: cfg.MaxScore,
	})
	return entityID, nil
}

// NewTargets 创建关卡中的所有靶子，跳过无效配置
func NewTargets(em *ecs.EntityManager, level *config.LevelConfig) []ecs.EntityID {
	ids := make([]ecs.EntityID, 0, len(level.Targets))
	for _, target := range level.Targets {
		id, err := NewTarget(em, target)
		if err != nil {
			log.Printf("[TargetFactory] Warning: %v", err)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// NewGround 创建水平地面（y = height 的无限平面）
func NewGround(em *ecs.EntityManager, height float64) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	entityID := em.CreateEntity()
	em.AddComponent(entityID, components.NewTransform(mgl64.Vec3{0, height, 0}, mgl64.QuatIdent()))
	em.AddComponent(entityID, &components.SurfaceComponent{
		Shape:  components.SurfacePlane,
		Normal: utils.WorldUp,
		Layer:  config.LayerGround,
	})
	return entityID, nil
}
