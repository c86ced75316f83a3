package systems

import (
	"log"

	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/ecs"
	"github.com/gonewx/archery/pkg/game"
)

// HitRecorder 接收命中得分（关卡协调器）
// 返回 false 表示命中被拒绝（例如安全确认前）
type HitRecorder interface {
	OnTargetHit(points int) bool
}

// TargetHit 靶子被命中
type TargetHit struct {
	Target     ecs.EntityID
	Projectile ecs.EntityID
	Points     int
}

// TargetScoringSystem 把命中靶子的事件转换为得分
//
// 每个靶子只计一次分（TargetComponent.HasBeenHit）；
// 命中的是非靶子表面（地面）时不计分。
type TargetScoringSystem struct {
	em       *ecs.EntityManager
	recorder HitRecorder

	projectiles *ProjectileSystem
	impactSub   game.SubscriptionID

	// TargetScored 靶子计分后触发
	TargetScored game.Signal[TargetHit]
}

// NewTargetScoringSystem 创建计分系统并订阅命中事件
func NewTargetScoringSystem(em *ecs.EntityManager, projectiles *ProjectileSystem, recorder HitRecorder) *TargetScoringSystem {
	s := &TargetScoringSystem{
		em:          em,
		recorder:    recorder,
		projectiles: projectiles,
	}
	if projectiles != nil {
		s.impactSub = projectiles.Impacted.Subscribe(s.HandleImpact)
	}
	return s
}

// HandleImpact 处理一次命中事件
func (s *TargetScoringSystem) HandleImpact(ev ImpactEvent) {
	if ev.Surface == 0 {
		return
	}
	target, ok := ecs.GetComponent[*components.TargetComponent](s.em, ev.Surface)
	if !ok || target.HasBeenHit {
		return
	}
	transform, ok := ecs.GetComponent[*components.TransformComponent](s.em, ev.Surface)
	if !ok {
		return
	}

	points := game.Score(ev.ContactPoint, transform.Position, target.Radius, target.MaxScore)
	if s.recorder != nil && !s.recorder.OnTargetHit(points) {
		log.Printf("[TargetScoring] Hit on %s not recorded", target.Name)
		return
	}

	target.HasBeenHit = true
	target.Points = points
	log.Printf("[TargetScoring] %s hit for %d points", target.Name, points)

	s.TargetScored.Emit(TargetHit{
		Target:     ev.Surface,
		Projectile: ev.Projectile,
		Points:     points,
	})
}

// Dispose 取消订阅
func (s *TargetScoringSystem) Dispose() {
	if s.projectiles != nil {
		s.projectiles.Impacted.Unsubscribe(s.impactSub)
	}
	s.TargetScored.Clear()
}
