package game

import (
	"fmt"
	"log"
)

// LevelTimer 会话级计时器
//
// 跨关卡累计游戏时间（场景重新加载不会清零），
// 关卡完成时停止并把累计值写入 TotalTime。
type LevelTimer struct {
	prefs   PrefsStore
	elapsed float64
	running bool
}

// NewLevelTimer 创建计时器（初始为停止状态）
func NewLevelTimer(prefs PrefsStore) *LevelTimer {
	return &LevelTimer{prefs: prefs}
}

// Update 计时中时累加 dt
func (t *LevelTimer) Update(dt float64) {
	if t.running && dt > 0 {
		t.elapsed += dt
	}
}

// Start 开始（或继续）计时
func (t *LevelTimer) Start() {
	t.running = true
}

// Stop 暂停计时，累计值保留
func (t *LevelTimer) Stop() {
	t.running = false
}

// Reset 清零并重新开始计时（重玩时使用）
func (t *LevelTimer) Reset() {
	t.elapsed = 0
	t.running = true
}

// Running 是否正在计时
func (t *LevelTimer) Running() bool {
	return t.running
}

// Elapsed 累计时间（秒）
func (t *LevelTimer) Elapsed() float64 {
	return t.elapsed
}

// SaveTotalTime 把累计时间写入 TotalTime 并保存
func (t *LevelTimer) SaveTotalTime() error {
	if t.prefs == nil {
		return nil
	}
	t.prefs.SetFloat(PrefKeyTotalTime, t.elapsed)
	if err := t.prefs.Save(); err != nil {
		return fmt.Errorf("failed to save total time: %w", err)
	}
	log.Printf("[LevelTimer] Total time saved: %.2f seconds", t.elapsed)
	return nil
}

// FormatClock 把秒数格式化为 mm:ss
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
