package game

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// SceneFactory 场景工厂函数类型
// 用于创建指定编号的关卡场景，避免循环依赖
type SceneFactory func(levelNumber int) (Scene, error)

// SceneManager manages which level scene is active.
// It ensures only one scene's Update and Draw methods are called at any given time.
//
// 场景切换时旧场景被 Dispose，会话级状态由 Session 持有，不受影响。
type SceneManager struct {
	currentScene Scene
	currentLevel int
	sceneFactory SceneFactory
	pending      func()
}

// NewSceneManager creates and returns a new SceneManager instance.
// The manager starts with no active scene; use LoadLevel to set the initial scene.
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo changes the active scene, disposing the previous one.
func (sm *SceneManager) SwitchTo(scene Scene) {
	if old, ok := sm.currentScene.(Disposable); ok && sm.currentScene != scene {
		old.Dispose()
	}
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有活动场景时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// CurrentLevel 当前关卡编号（未加载时为 0）
func (sm *SceneManager) CurrentLevel() int {
	return sm.currentLevel
}

// LoadLevel 加载指定编号的关卡场景
//
// 返回：
//   - error: 工厂未设置或场景创建失败时返回错误，当前场景保持不变
func (sm *SceneManager) LoadLevel(levelNumber int) error {
	log.Printf("[SceneManager] Loading level %d", levelNumber)

	if sm.sceneFactory == nil {
		return fmt.Errorf("scene factory not set")
	}

	newScene, err := sm.sceneFactory(levelNumber)
	if err != nil {
		return fmt.Errorf("failed to create level %d: %w", levelNumber, err)
	}
	if newScene == nil {
		return fmt.Errorf("scene factory returned nil for level %d", levelNumber)
	}

	sm.SwitchTo(newScene)
	sm.currentLevel = levelNumber
	log.Printf("[SceneManager] Switched to level %d", levelNumber)
	return nil
}

// Reload 重新加载当前关卡
func (sm *SceneManager) Reload() error {
	if sm.currentLevel == 0 {
		return fmt.Errorf("no level loaded")
	}
	return sm.LoadLevel(sm.currentLevel)
}

// LoadNext 加载下一关，没有下一关时留在当前关卡并返回错误
func (sm *SceneManager) LoadNext() error {
	return sm.LoadLevel(sm.currentLevel + 1)
}

// Defer 在当前帧的场景 Update 结束后执行 fn
//
// 场景在自己的 Update 中请求切换时使用，避免在遍历中销毁自身。
func (sm *SceneManager) Defer(fn func()) {
	sm.pending = fn
}

// Update updates the currently active scene, then runs any deferred switch.
func (sm *SceneManager) Update(deltaTime float64) {
	if sm.currentScene != nil {
		sm.currentScene.Update(deltaTime)
	}
	if fn := sm.pending; fn != nil {
		sm.pending = nil
		fn()
	}
}

// Draw renders the currently active scene to the provided screen.
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}
