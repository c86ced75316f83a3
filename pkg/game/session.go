package game

import (
	"fmt"
	"log"

	"github.com/google/uuid"
)

// SessionOptions 会话配置
type SessionOptions struct {
	// RememberSafety 读取已保存的安全确认状态
	RememberSafety bool
}

// Session 会话级协调器
//
// 进程启动时创建一次，以引用方式传给各场景。场景重新加载时被销毁重建，
// Session 不会：安全确认状态、累计得分与累计时间都保存在这里。
// 每关的状态（箭数、关卡阶段、箭实体）属于场景，随场景一起丢弃。
type Session struct {
	ID string

	prefs  PrefsStore
	Gate   *ReadinessGate
	Ledger *ScoringLedger
	Timer  *LevelTimer

	ticks   uint64
	elapsed float64
}

// NewSession 创建会话
//
// 参数：
//   - prefs: 持久化存储，可为 nil（仅内存，降级模式）
//   - opts: 会话配置
func NewSession(prefs PrefsStore, opts SessionOptions) *Session {
	s := &Session{
		ID:    uuid.NewString(),
		prefs: prefs,
	}
	s.Gate = NewReadinessGate(prefs, opts.RememberSafety)
	s.Ledger = NewScoringLedger(prefs, s.Gate, s)
	s.Timer = NewLevelTimer(prefs)

	log.Printf("[Session] Session %s started (safety agreed: %v)", s.ID, s.Gate.IsAgreed())
	return s
}

// Advance 推进一个 tick
func (s *Session) Advance(dt float64) {
	s.ticks++
	if dt > 0 {
		s.elapsed += dt
	}
	s.Timer.Update(dt)
}

// Tick 返回已推进的 tick 数（实现 TickSource）
func (s *Session) Tick() uint64 {
	return s.ticks
}

// Elapsed 会话运行时间（秒）
func (s *Session) Elapsed() float64 {
	return s.elapsed
}

// Prefs 返回持久化存储
func (s *Session) Prefs() PrefsStore {
	return s.prefs
}

// ClearPersistedState 清除所有已保存数据（得分、时间、安全确认）
//
// 这是安全确认恢复为未确认的唯一途径。
func (s *Session) ClearPersistedState() error {
	s.Gate.ClearPersisted()
	s.Ledger.ClearLifetime()
	s.Timer.Reset()
	s.Timer.Stop()

	if s.prefs == nil {
		return nil
	}
	s.prefs.DeleteAll()
	if err := s.prefs.Save(); err != nil {
		return fmt.Errorf("failed to clear persisted state: %w", err)
	}
	log.Printf("[Session] Persisted state cleared")
	return nil
}
