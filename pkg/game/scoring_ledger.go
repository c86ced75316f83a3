package game

import (
	"fmt"
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oklog/ulid/v2"
)

// TickSource 提供当前 tick 序号
type TickSource interface {
	Tick() uint64
}

// ShotRecord 一次命中的得分记录
// 每支到达 Impacted 阶段并命中靶子的箭产生一条
type ShotRecord struct {
	ID     ulid.ULID // 可排序的唯一ID
	Points int       // 得分
	Tick   uint64    // 记录时的 tick 序号
}

// LevelScoreState 得分状态
type LevelScoreState struct {
	CurrentLevelScore int // 本关得分（关卡开始时清零）
	CurrentLevelHits  int // 本关命中数（关卡开始时清零）
	LifetimeScore     int // 累计得分（跨关卡、跨进程保存）
	LifetimeHits      int // 累计命中数（跨关卡、跨进程保存）
}

// Score 根据命中点与靶心距离计算得分
//
// 公式：fraction = clamp((radius - distance) / radius, 0, 1)，得分 = round(fraction * maxScore)
// 距离为 0 得满分，距离 >= radius 得 0 分，之间线性插值。
// radius <= 0 时总是 0 分。
func Score(contactPoint, targetCenter mgl64.Vec3, targetRadius float64, maxScore int) int {
	if targetRadius <= 0 || maxScore <= 0 {
		return 0
	}
	distance := contactPoint.Sub(targetCenter).Len()
	fraction := (targetRadius - distance) / targetRadius
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return int(math.Round(fraction * float64(maxScore)))
}

// ScoringLedger 得分账本（会话级）
//
// 职责：
//   - 累计本关与累计得分/命中
//   - 广播单次得分与本关总分变化
//   - 关卡完成时持久化
//
// 安全确认之前的 RecordShot 被拒绝（不修改状态、不广播）。
type ScoringLedger struct {
	prefs PrefsStore
	gate  *ReadinessGate
	clock TickSource

	state         LevelScoreState
	lastShotScore int
	activated     bool

	// ShotScored 单次得分（先于 RoundTotalChanged 触发）
	ShotScored Signal[ShotRecord]
	// RoundTotalChanged 本关总分变化（重置时为 0）
	RoundTotalChanged Signal[int]
	// LevelCompleted 关卡完成并已持久化，参数为关卡编号
	LevelCompleted Signal[int]
}

// NewScoringLedger 创建得分账本
//
// 参数：
//   - prefs: 持久化存储，可为 nil（仅内存）
//   - gate: 安全确认闸门，可为 nil（不做限制）
//   - clock: tick 来源，可为 nil（记录 tick 为 0）
func NewScoringLedger(prefs PrefsStore, gate *ReadinessGate, clock TickSource) *ScoringLedger {
	return &ScoringLedger{
		prefs: prefs,
		gate:  gate,
		clock: clock,
	}
}

// Activate 首次激活时加载累计得分，重复调用无效果
func (l *ScoringLedger) Activate() {
	if l.activated {
		return
	}
	l.activated = true
	if l.prefs == nil {
		return
	}
	l.state.LifetimeScore = l.prefs.GetInt(PrefKeyTotalScore, 0)
	l.state.LifetimeHits = l.prefs.GetInt(PrefKeyTotalHits, 0)
	log.Printf("[ScoringLedger] Loaded lifetime totals: score=%d hits=%d",
		l.state.LifetimeScore, l.state.LifetimeHits)
}

// RecordShot 记录一次得分
//
// 返回 false 表示被拒绝（安全确认尚未完成）。
// 同一靶子只记录一次由靶子自身的命中标记保证。
func (l *ScoringLedger) RecordShot(points int) bool {
	if l.gate != nil && !l.gate.IsAgreed() {
		log.Printf("[ScoringLedger] Shot rejected: %v", ErrGateNotConfirmed)
		return false
	}
	l.Activate()

	l.lastShotScore = points
	l.state.CurrentLevelScore += points
	l.state.CurrentLevelHits++
	l.state.LifetimeScore += points
	l.state.LifetimeHits++

	var tick uint64
	if l.clock != nil {
		tick = l.clock.Tick()
	}
	record := ShotRecord{
		ID:     ulid.Make(),
		Points: points,
		Tick:   tick,
	}

	log.Printf("[ScoringLedger] +%d (Level Score: %d, Total: %d)",
		points, l.state.CurrentLevelScore, l.state.LifetimeScore)

	l.ShotScored.Emit(record)
	l.RoundTotalChanged.Emit(l.state.CurrentLevelScore)
	return true
}

// ResetLevel 清零本关得分与命中，累计值不变
func (l *ScoringLedger) ResetLevel() {
	l.Activate()
	l.state.CurrentLevelScore = 0
	l.state.CurrentLevelHits = 0
	l.lastShotScore = 0

	l.RoundTotalChanged.Emit(0)
	log.Printf("[ScoringLedger] Level score reset")
}

// CompleteLevel 持久化关卡结果与累计值，并广播关卡完成
func (l *ScoringLedger) CompleteLevel(levelNumber int) error {
	l.Activate()

	var saveErr error
	if l.prefs != nil {
		l.prefs.SetInt(LevelScoreKey(levelNumber), l.state.CurrentLevelScore)
		l.prefs.SetInt(LevelHitsKey(levelNumber), l.state.CurrentLevelHits)
		l.prefs.SetInt(PrefKeyTotalScore, l.state.LifetimeScore)
		l.prefs.SetInt(PrefKeyTotalHits, l.state.LifetimeHits)
		if err := l.prefs.Save(); err != nil {
			saveErr = fmt.Errorf("failed to persist level %d: %w", levelNumber, err)
			log.Printf("[ScoringLedger] ERROR: %v", saveErr)
		}
	}

	log.Printf("[ScoringLedger] Level %d completed! Score: %d, Hits: %d",
		levelNumber, l.state.CurrentLevelScore, l.state.CurrentLevelHits)

	l.LevelCompleted.Emit(levelNumber)
	return saveErr
}

// ClearLifetime 清零累计值（仅用于清除存档）
func (l *ScoringLedger) ClearLifetime() {
	l.state.LifetimeScore = 0
	l.state.LifetimeHits = 0
}

// State 返回得分状态快照
func (l *ScoringLedger) State() LevelScoreState {
	return l.state
}

// CurrentLevelScore 本关得分
func (l *ScoringLedger) CurrentLevelScore() int {
	return l.state.CurrentLevelScore
}

// LifetimeScore 累计得分
func (l *ScoringLedger) LifetimeScore() int {
	return l.state.LifetimeScore
}

// LastShotScore 最近一次得分（关卡重置后为 0）
func (l *ScoringLedger) LastShotScore() int {
	return l.lastShotScore
}

// LevelScore 读取已保存的关卡得分
func (l *ScoringLedger) LevelScore(levelNumber int) int {
	if l.prefs == nil {
		return 0
	}
	return l.prefs.GetInt(LevelScoreKey(levelNumber), 0)
}

// LevelHits 读取已保存的关卡命中数
func (l *ScoringLedger) LevelHits(levelNumber int) int {
	if l.prefs == nil {
		return 0
	}
	return l.prefs.GetInt(LevelHitsKey(levelNumber), 0)
}
