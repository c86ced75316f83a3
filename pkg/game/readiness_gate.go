package game

import (
	"context"
	"errors"
	"log"
	"sync"
)

// ErrGateNotConfirmed 安全确认尚未完成时拒绝的操作返回此错误
var ErrGateNotConfirmed = errors.New("readiness gate not confirmed")

// GateWaiter 一个等待安全确认的回调句柄
type GateWaiter struct {
	gate     *ReadinessGate
	fn       func()
	released bool
	canceled bool
}

// Cancel 取消等待（场景卸载时调用），已释放的等待者返回 false
func (w *GateWaiter) Cancel() bool {
	if w == nil {
		return false
	}
	w.gate.mu.Lock()
	defer w.gate.mu.Unlock()
	if w.released || w.canceled {
		return false
	}
	w.canceled = true
	return true
}

// Released 回调是否已执行
func (w *GateWaiter) Released() bool {
	if w == nil {
		return false
	}
	w.gate.mu.Lock()
	defer w.gate.mu.Unlock()
	return w.released
}

// ReadinessGate 安全确认闸门（会话级一次性锁存器）
//
// 进程启动时默认未确认。Confirm 只生效一次，之后所有等待者在同一次调用中
// 按注册顺序被释放；在已确认状态下 Await 立即执行回调。
// 闸门由 Session 持有，场景重新加载不会重置确认状态；
// 只有 ClearPersisted 能把它恢复为未确认。
//
// 游戏逻辑在主循环单线程调用；Done/Wait 允许其他 goroutine 观察，因此内部加锁。
type ReadinessGate struct {
	mu      sync.Mutex
	prefs   PrefsStore
	agreed  bool
	waiters []*GateWaiter
	done    chan struct{}

	// Confirmed 确认完成时触发（在所有等待者释放之后）
	Confirmed Signal[struct{}]
}

// NewReadinessGate 创建安全确认闸门
//
// 参数：
//   - prefs: 持久化存储，可为 nil（不持久化）
//   - remember: 为 true 时读取已保存的确认状态，跳过再次确认
func NewReadinessGate(prefs PrefsStore, remember bool) *ReadinessGate {
	g := &ReadinessGate{
		prefs: prefs,
		done:  make(chan struct{}),
	}
	if remember && prefs != nil && prefs.GetInt(PrefKeySafetyAgreed, 0) == 1 {
		g.agreed = true
		close(g.done)
		log.Printf("[ReadinessGate] Safety agreement restored from prefs")
	}
	return g
}

// IsAgreed 是否已确认
func (g *ReadinessGate) IsAgreed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.agreed
}

// Confirm 确认安全提示
//
// 重复调用无效果。首次调用时持久化确认状态并释放所有等待者。
func (g *ReadinessGate) Confirm() {
	g.mu.Lock()
	if g.agreed {
		g.mu.Unlock()
		return
	}
	g.agreed = true
	close(g.done)
	waiters := g.waiters
	g.waiters = nil
	for _, w := range waiters {
		if !w.canceled {
			w.released = true
		}
	}
	g.mu.Unlock()

	if g.prefs != nil {
		g.prefs.SetInt(PrefKeySafetyAgreed, 1)
		if err := g.prefs.Save(); err != nil {
			log.Printf("[ReadinessGate] Warning: Failed to persist agreement: %v", err)
		}
	}

	log.Printf("[ReadinessGate] Safety confirmed, releasing %d waiters", len(waiters))

	for _, w := range waiters {
		if w.released && w.fn != nil {
			w.fn()
		}
	}
	g.Confirmed.Emit(struct{}{})
}

// Await 注册确认后执行的回调
//
// 已确认时立即同步执行 fn（不挂起）并返回已释放的句柄。
func (g *ReadinessGate) Await(fn func()) *GateWaiter {
	w := &GateWaiter{gate: g, fn: fn}

	g.mu.Lock()
	if !g.agreed {
		g.waiters = append(g.waiters, w)
		g.mu.Unlock()
		return w
	}
	w.released = true
	g.mu.Unlock()

	if fn != nil {
		fn()
	}
	return w
}

// Done 返回确认后关闭的通道
func (g *ReadinessGate) Done() <-chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.done
}

// Wait 阻塞直到确认或 ctx 结束（供主循环之外的 goroutine 使用）
func (g *ReadinessGate) Wait(ctx context.Context) error {
	select {
	case <-g.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PendingWaiters 返回仍在等待的回调数量
func (g *ReadinessGate) PendingWaiters() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	count := 0
	for _, w := range g.waiters {
		if !w.canceled {
			count++
		}
	}
	return count
}

// ClearPersisted 清除已保存的确认状态并恢复为未确认
//
// 这是唯一的重置途径，正常游戏流程不会调用。
func (g *ReadinessGate) ClearPersisted() {
	g.mu.Lock()
	if g.agreed {
		g.agreed = false
		g.done = make(chan struct{})
	}
	g.mu.Unlock()

	if g.prefs != nil {
		g.prefs.DeleteKey(PrefKeySafetyAgreed)
		if err := g.prefs.Save(); err != nil {
			log.Printf("[ReadinessGate] Warning: Failed to clear agreement: %v", err)
		}
	}
	log.Printf("[ReadinessGate] Persisted agreement cleared")
}
