package systems

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/config"
	"github.com/gonewx/archery/pkg/ecs"
	"github.com/gonewx/archery/pkg/utils"
)

// Contact 一次线段扫掠命中
type Contact struct {
	Surface ecs.EntityID
	Point   mgl64.Vec3
	T       float64 // 命中点在本帧线段上的参数 [0,1]
}

// FlightSystem 飞行积分与命中检测
//
// 每帧对非运动学刚体做显式欧拉积分（重力 + 速度），飞行中的箭朝向速度方向，
// 并用本帧移动线段扫掠所有表面。一帧内命中多个表面时取线段上最先到达的，
// 相同时按实体 ID 取小者。超过最长飞行时间的箭视为丢失并销毁。
type FlightSystem struct {
	em            *ecs.EntityManager
	projectiles   *ProjectileSystem
	gravity       float64
	maxFlightTime float64
	mask          uint32
}

// NewFlightSystem 创建飞行系统
func NewFlightSystem(em *ecs.EntityManager, projectiles *ProjectileSystem, cfg *config.BowConfig) *FlightSystem {
	if cfg == nil {
		cfg = config.DefaultBowConfig()
	}
	return &FlightSystem{
		em:            em,
		projectiles:   projectiles,
		gravity:       cfg.Flight.Gravity,
		maxFlightTime: cfg.Flight.MaxFlightTime,
		mask:          cfg.Impact.CollisionMask,
	}
}

// Update 积分所有非运动学刚体并检测箭的命中
func (s *FlightSystem) Update(deltaTime float64) {
	if deltaTime <= 0 {
		return
	}
	for _, id := range ecs.GetEntitiesWith2[*components.RigidbodyComponent, *components.TransformComponent](s.em) {
		if s.em.IsMarkedForDestroy(id) {
			continue
		}
		rb, _ := ecs.GetComponent[*components.RigidbodyComponent](s.em, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.em, id)
		if rb.IsKinematic {
			continue
		}

		if rb.UseGravity {
			rb.Velocity = rb.Velocity.Add(mgl64.Vec3{0, s.gravity * deltaTime, 0})
		}
		prev := transform.Position
		next := prev.Add(rb.Velocity.Mul(deltaTime))

		projectile, isProjectile := ecs.GetComponent[*components.ProjectileComponent](s.em, id)
		if !isProjectile {
			transform.Position = next
			continue
		}
		if projectile.Phase != components.ProjectileLaunched {
			continue
		}

		if rb.Velocity.Len() > 0 {
			transform.Rotation = utils.LookRotation(rb.Velocity)
		}
		projectile.FlightTime += deltaTime

		if s.colliderEnabled(id) {
			if contact, ok := s.Sweep(prev, next); ok {
				transform.Position = contact.Point
				s.projectiles.OnImpact(id, contact.Point, contact.Surface)
				continue
			}
		}
		transform.Position = next

		if s.maxFlightTime > 0 && projectile.FlightTime >= s.maxFlightTime {
			log.Printf("[FlightSystem] Projectile %d lost after %.1fs", id, projectile.FlightTime)
			s.projectiles.Dispose(id)
		}
	}
}

func (s *FlightSystem) colliderEnabled(id ecs.EntityID) bool {
	col, ok := ecs.GetComponent[*components.ColliderComponent](s.em, id)
	return ok && col.Enabled
}

// Sweep 返回线段 a→b 与表面的第一个接触
func (s *FlightSystem) Sweep(a, b mgl64.Vec3) (Contact, bool) {
	var best Contact
	found := false

	// 实体按 ID 升序返回，严格小于保证同 t 时取 ID 小者
	for _, id := range ecs.GetEntitiesWith2[*components.SurfaceComponent, *components.TransformComponent](s.em) {
		if s.em.IsMarkedForDestroy(id) {
			continue
		}
		surface, _ := ecs.GetComponent[*components.SurfaceComponent](s.em, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.em, id)
		if surface.Layer&s.mask == 0 {
			continue
		}

		t, point, ok := utils.SegmentPlane(a, b, transform.Position, surface.Normal)
		if !ok {
			continue
		}
		if surface.Shape == components.SurfaceDisc && point.Sub(transform.Position).Len() > surface.Radius {
			continue
		}
		if !found || t < best.T {
			best = Contact{Surface: id, Point: point, T: t}
			found = true
		}
	}
	return best, found
}
