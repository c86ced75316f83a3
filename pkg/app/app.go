// Package app 提供靶场应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，桌面端通过 main.go 调用 NewApp()，
// 无界面模拟工具（cmd/simulate）复用 NewSceneFactory。
package app

import (
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"log"

	"github.com/gonewx/archery/pkg/config"
	"github.com/gonewx/archery/pkg/embedded"
	"github.com/gonewx/archery/pkg/game"
	"github.com/gonewx/archery/pkg/scenes"
	"github.com/gonewx/archery/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/quasilyte/gdata/v2"
)

// DefaultAppName gdata 存储使用的应用名
const DefaultAppName = "archery"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Level 指定要加载的关卡编号，0 表示第一关
	Level int
	// Reset 启动时清除所有已保存的数据（得分、时间、安全确认）
	Reset bool
	// AppName gdata 应用名，为空时使用 DefaultAppName
	AppName string
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	session      *game.Session
	keys         utils.KeySource
	verbose      bool

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	dataFS, err := embedded.FS()
	if err != nil {
		return nil, fmt.Errorf("嵌入资源不可用: %w", err)
	}

	bowCfg, err := config.LoadBowConfigFromFS(dataFS, config.BowConfigPath)
	if err != nil {
		log.Printf("[App] Warning: %v (using default bow config)", err)
		bowCfg = config.DefaultBowConfig()
	}

	session := NewSession(cfg.AppName, bowCfg)
	if cfg.Reset {
		if err := session.ClearPersistedState(); err != nil {
			log.Printf("[App] Warning: %v", err)
		}
	}

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(NewSceneFactory(session, bowCfg, dataFS, nil))

	levelToLoad := cfg.Level
	if levelToLoad == 0 {
		levelToLoad = firstLevel()
	}
	log.Printf("[App] Starting level: %d", levelToLoad)
	if err := sceneManager.LoadLevel(levelToLoad); err != nil {
		return nil, fmt.Errorf("关卡加载失败: %w", err)
	}

	return &App{
		sceneManager: sceneManager,
		session:      session,
		keys:         utils.EbitenInput{},
		verbose:      cfg.Verbose,
	}, nil
}

// NewSession 打开 gdata 存储并创建会话
//
// 存储打开失败时进入降级模式（仅内存，不持久化）。
func NewSession(appName string, bowCfg *config.BowConfig) *game.Session {
	if appName == "" {
		appName = DefaultAppName
	}
	if dir, err := utils.PrepareSaveStorage(); err != nil {
		log.Printf("[App] Warning: Failed to prepare save storage: %v", err)
	} else if dir != "" {
		log.Printf("[App] Save dir: %s", dir)
	}

	gdataManager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[App] Warning: Failed to open gdata storage: %v (progress will not be saved)", err)
		gdataManager = nil
	}

	// 加载失败时 NewPrefs 已记录日志并返回空存储
	prefs, _ := game.NewPrefs(gdataManager)
	return game.NewSession(prefs, game.SessionOptions{
		RememberSafety: bowCfg.RememberSafetyAgreement(),
	})
}

// NewSceneFactory 返回按编号从 fsys 加载关卡并创建靶场场景的工厂
//
// 参数：
//   - session: 会话，所有场景共用
//   - bowCfg: 弓参数
//   - fsys: 数据文件系统（路径以 "data/" 开头）
//   - customize: 可选，在创建场景前修改场景参数（模拟工具注入输入）
func NewSceneFactory(session *game.Session, bowCfg *config.BowConfig, fsys fs.FS, customize func(*scenes.RangeSceneOptions)) game.SceneFactory {
	return func(levelNumber int) (game.Scene, error) {
		level, err := config.LoadLevelConfigFromFS(fsys, config.LevelPath(levelNumber))
		if err != nil {
			return nil, err
		}
		opts := scenes.RangeSceneOptions{
			Session: session,
			Bow:     bowCfg,
			Level:   level,
		}
		if customize != nil {
			customize(&opts)
		}
		return scenes.NewRangeScene(opts)
	}
}

// firstLevel 返回最小的关卡编号，没有关卡文件时返回 1
func firstLevel() int {
	levels, err := embedded.LevelNumbers()
	if err != nil || len(levels) == 0 {
		return 1
	}
	return levels[0]
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(scenes.WindowWidth, scenes.WindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if a.keys.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	a.handleLevelKeys()

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

// handleLevelKeys R 重玩本关，N 下一关（在场景 Update 之后切换）
func (a *App) handleLevelKeys() {
	if a.keys.IsKeyJustPressed(ebiten.KeyR) {
		a.sceneManager.Defer(func() {
			if err := a.sceneManager.Reload(); err != nil {
				log.Printf("[App] Warning: %v", err)
			}
		})
	}
	if a.keys.IsKeyJustPressed(ebiten.KeyN) {
		a.sceneManager.Defer(func() {
			if err := a.sceneManager.LoadNext(); err != nil {
				log.Printf("[App] No next level: %v", err)
			}
		})
	}
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return scenes.WindowWidth, scenes.WindowHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// Session 返回会话
func (a *App) Session() *game.Session {
	return a.session
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
