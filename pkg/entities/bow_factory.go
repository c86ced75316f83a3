package entities

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/config"
	"github.com/gonewx/archery/pkg/ecs"
)

// Bow 弓相关实体
type Bow struct {
	BowID     ecs.EntityID // 弓（拉弦状态 + 补给点）
	NotchID   ecs.EntityID // 搭箭点，挂在弓下
	PreviewID ecs.EntityID // 瞄准预览射线
}

// NewBow 创建弓、搭箭点和预览射线
//
// 弓实体同时是箭补给点。弓朝向 +Z。
//
// 参数:
//   - em: 实体管理器
//   - cfg: 弓配置（拉弦轴、搭箭点、放置位置）
func NewBow(em *ecs.EntityManager, cfg *config.BowConfig) (*Bow, error) {
	if em == nil {
		return nil, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg == nil {
		return nil, fmt.Errorf("bow config cannot be nil")
	}

	bowID := em.CreateEntity()
	em.AddComponent(bowID, components.NewTransform(cfg.Bow.Position, mgl64.QuatIdent()))

	notchID := em.CreateEntity()
	notch := components.NewTransform(cfg.Bow.Position.Add(cfg.Pull.NotchStart), mgl64.QuatIdent())
	notch.Parent = bowID
	notch.LocalPosition = cfg.Pull.NotchStart
	em.AddComponent(notchID, notch)

	em.AddComponent(bowID, &components.DrawStateComponent{
		Phase:       components.DrawIdle,
		AxisStart:   cfg.Pull.AxisStart,
		AxisEnd:     cfg.Pull.AxisEnd,
		NotchEntity: notchID,
		NotchRest:   cfg.Pull.NotchStart,
	})
	em.AddComponent(bowID, &components.SupplyStationComponent{
		State:       components.StationNoProjectile,
		NotchEntity: notchID,
	})

	previewID := em.CreateEntity()
	em.AddComponent(previewID, &components.TrajectoryPreviewComponent{
		MaxDistance: cfg.Preview.MaxDistance,
	})

	return &Bow{
		BowID:     bowID,
		NotchID:   notchID,
		PreviewID: previewID,
	}, nil
}
