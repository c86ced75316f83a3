package systems

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/config"
	"github.com/gonewx/archery/pkg/ecs"
	"github.com/gonewx/archery/pkg/game"
	"github.com/gonewx/archery/pkg/utils"
)

// ErrInvalidPhase 箭不处于操作要求的阶段
var ErrInvalidPhase = errors.New("projectile in invalid phase")

// ImpactEvent 命中事件（每支箭最多一次）
type ImpactEvent struct {
	Projectile   ecs.EntityID
	Surface      ecs.EntityID
	ContactPoint mgl64.Vec3
	Speed        float64 // 发射速度（由拉力推导）
}

// ProjectileSystem 箭的生命周期
//
// 阶段只能向前推进：Idle → Notched → Launched → Impacted → Disposed。
// 不检查箭数预算：调用方（补给点）在开始拉弦时已经否决。
type ProjectileSystem struct {
	em     *ecs.EntityManager
	launch config.LaunchConfig
	impact config.ImpactConfig

	// Launched 箭被射出
	Launched game.Signal[ecs.EntityID]
	// Impacted 箭命中表面
	Impacted game.Signal[ImpactEvent]
	// Disposed 箭被销毁（命中后停留时间到、飞行超时或被替换）
	Disposed game.Signal[ecs.EntityID]
}

// NewProjectileSystem 创建箭系统
func NewProjectileSystem(em *ecs.EntityManager, cfg *config.BowConfig) *ProjectileSystem {
	if cfg == nil {
		cfg = config.DefaultBowConfig()
	}
	return &ProjectileSystem{
		em:     em,
		launch: cfg.Launch,
		impact: cfg.Impact,
	}
}

func (s *ProjectileSystem) projectile(id ecs.EntityID) (*components.ProjectileComponent, bool) {
	return ecs.GetComponent[*components.ProjectileComponent](s.em, id)
}

// Phase 返回箭的阶段，实体不存在时返回 Disposed
func (s *ProjectileSystem) Phase(id ecs.EntityID) components.ProjectilePhase {
	p, ok := s.projectile(id)
	if !ok {
		return components.ProjectileDisposed
	}
	return p.Phase
}

// Notch 把新箭搭在搭箭点上
//
// 箭变为运动学刚体、关闭碰撞，挂在 anchor 下。只能从 Idle 进入。
func (s *ProjectileSystem) Notch(id, anchor ecs.EntityID) error {
	p, ok := s.projectile(id)
	if !ok {
		return fmt.Errorf("entity %d is not a projectile", id)
	}
	if p.Phase != components.ProjectileIdle {
		return fmt.Errorf("notch projectile %d in phase %s: %w", id, p.Phase, ErrInvalidPhase)
	}
	if !AttachAt(s.em, id, anchor, mgl64.Vec3{}, mgl64.QuatIdent()) {
		return fmt.Errorf("notch anchor %d missing transform", anchor)
	}

	if rb, ok := ecs.GetComponent[*components.RigidbodyComponent](s.em, id); ok {
		rb.IsKinematic = true
		rb.UseGravity = false
		rb.Velocity = mgl64.Vec3{}
	}
	if col, ok := ecs.GetComponent[*components.ColliderComponent](s.em, id); ok {
		col.Enabled = false
	}
	p.Phase = components.ProjectileNotched
	return nil
}

// LaunchForce 根据拉弦值计算发射速度变化量
// force = baseForce * lerp(minMultiplier, maxMultiplier, pull)
func (s *ProjectileSystem) LaunchForce(pull float64) float64 {
	pull = utils.Clamp01(pull)
	return s.launch.BaseForce * utils.Lerp(s.launch.MinForceMultiplier, s.launch.MaxForceMultiplier, pull)
}

// Launch 射出箭
//
// 只能从 Notched 进入；重复调用（已 Launched/Impacted）是无操作，返回 false。
// 箭先沿前方移动 forwardOffset 避开弓体，脱离搭箭点，打开碰撞，
// 沿前方施加瞬时速度变化。
func (s *ProjectileSystem) Launch(id ecs.EntityID, pull float64) bool {
	p, ok := s.projectile(id)
	if !ok || p.Phase != components.ProjectileNotched {
		return false
	}
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.em, id)
	if !ok {
		log.Printf("[ProjectileSystem] ERROR: Projectile %d has no transform", id)
		return false
	}

	forward := transform.Forward()
	Detach(s.em, id)
	transform.Position = transform.Position.Add(forward.Mul(s.launch.ForwardOffset))

	force := s.LaunchForce(pull)
	if rb, ok := ecs.GetComponent[*components.RigidbodyComponent](s.em, id); ok {
		rb.IsKinematic = false
		rb.UseGravity = true
		rb.Velocity = rb.Velocity.Add(forward.Mul(force))
	}
	if col, ok := ecs.GetComponent[*components.ColliderComponent](s.em, id); ok {
		col.Enabled = true
	}

	p.PullAmount = utils.Clamp01(pull)
	p.LaunchForce = force
	p.FlightTime = 0
	p.Phase = components.ProjectileLaunched

	log.Printf("[ProjectileSystem] Projectile %d launched (pull %.2f, force %.2f)", id, p.PullAmount, force)
	s.Launched.Emit(id)
	return true
}

// OnImpact 处理碰撞
//
// 只能从 Launched 进入，并由命中标记保证只处理一次：
// 同一次碰撞的多个回调被合并。返回 true 表示本次调用产生了命中事件。
// 缺少 Transform 的箭无法嵌入表面，直接销毁。
func (s *ProjectileSystem) OnImpact(id ecs.EntityID, contactPoint mgl64.Vec3, surface ecs.EntityID) bool {
	p, ok := s.projectile(id)
	if !ok || p.HasImpacted || p.Phase != components.ProjectileLaunched {
		return false
	}

	transform, ok := ecs.GetComponent[*components.TransformComponent](s.em, id)
	if !ok {
		// 无法放置的箭视为丢失，不再计入飞行中
		log.Printf("[ProjectileSystem] ERROR: Projectile %d has no transform, disposing", id)
		s.Dispose(id)
		return false
	}
	p.HasImpacted = true

	if rb, ok := ecs.GetComponent[*components.RigidbodyComponent](s.em, id); ok {
		rb.IsKinematic = true
		rb.UseGravity = false
		rb.Velocity = mgl64.Vec3{}
	}
	if col, ok := ecs.GetComponent[*components.ColliderComponent](s.em, id); ok {
		col.Enabled = false
	}

	// 嵌入表面一点
	transform.Position = contactPoint.Add(transform.Forward().Mul(s.impact.ImpactDepth))
	if surface != 0 {
		AttachTo(s.em, id, surface)
	}

	p.ImpactPoint = contactPoint
	p.StickTarget = surface
	p.Phase = components.ProjectileImpacted

	if s.impact.StickDuration > 0 {
		s.em.AddComponent(id, &components.LifetimeComponent{MaxLifetime: s.impact.StickDuration})
	}
	if s.impact.EnableExplosion {
		s.explode(id, contactPoint)
	}

	log.Printf("[ProjectileSystem] Projectile %d impacted surface %d at (%.2f, %.2f, %.2f)",
		id, surface, contactPoint.X(), contactPoint.Y(), contactPoint.Z())

	s.Impacted.Emit(ImpactEvent{
		Projectile:   id,
		Surface:      surface,
		ContactPoint: contactPoint,
		Speed:        p.LaunchForce,
	})
	return true
}

// explode 对半径内的非运动学刚体施加径向冲量，强度随距离线性衰减
func (s *ProjectileSystem) explode(source ecs.EntityID, center mgl64.Vec3) int {
	radius := s.impact.ExplosionRadius
	if radius <= 0 {
		return 0
	}
	affected := 0
	for _, id := range ecs.GetEntitiesWith2[*components.RigidbodyComponent, *components.TransformComponent](s.em) {
		if id == source {
			continue
		}
		rb, _ := ecs.GetComponent[*components.RigidbodyComponent](s.em, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.em, id)
		if rb.IsKinematic {
			continue
		}
		offset := transform.Position.Sub(center)
		distance := offset.Len()
		if distance > radius {
			continue
		}
		dir := utils.WorldUp
		if distance > 0 {
			dir = offset.Normalize()
		}
		rb.Velocity = rb.Velocity.Add(dir.Mul(s.impact.ExplosionForce * (1 - distance/radius)))
		affected++
	}
	return affected
}

// Dispose 销毁箭（任意未销毁阶段均可），重复调用无操作
func (s *ProjectileSystem) Dispose(id ecs.EntityID) bool {
	p, ok := s.projectile(id)
	if !ok || p.Phase == components.ProjectileDisposed {
		return false
	}
	p.Phase = components.ProjectileDisposed
	s.em.DestroyEntity(id)
	s.Disposed.Emit(id)
	return true
}

// InFlight 返回处于 Launched 阶段的箭数量
func (s *ProjectileSystem) InFlight() int {
	count := 0
	for _, id := range ecs.GetEntitiesWith1[*components.ProjectileComponent](s.em) {
		p, _ := s.projectile(id)
		if p.Phase == components.ProjectileLaunched {
			count++
		}
	}
	return count
}

// Clear 清除所有订阅者（场景卸载时调用）
func (s *ProjectileSystem) Clear() {
	s.Launched.Clear()
	s.Impacted.Clear()
	s.Disposed.Clear()
}
