package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents one loaded level of the range.
// A scene owns all per-level state and is rebuilt on every reload.
type Scene interface {
	// Update advances the scene by deltaTime seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Disposable 是一个可选接口，场景被替换时调用
//
// 场景在这里取消对会话级对象（闸门、账本）的订阅，
// 避免被销毁的场景继续收到事件。
type Disposable interface {
	Dispose()
}
