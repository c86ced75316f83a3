// simulate 无界面靶场模拟
//
// 加载一个关卡，用脚本化输入依次瞄准每个靶子射箭，直到关卡结束，
// 然后打印结算数据。用于在没有窗口的环境中检查关卡配置和弓参数。
//
// 用法：
//
//	go run ./cmd/simulate -level 1
//	go run ./cmd/simulate -level 2 -jitter 2 -seed 7 -verbose
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/archery/pkg/app"
	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/config"
	"github.com/gonewx/archery/pkg/ecs"
	"github.com/gonewx/archery/pkg/game"
	"github.com/gonewx/archery/pkg/scenes"
)

const (
	frame = 1.0 / 60.0

	// 每支箭最多等待的帧数（超过时视为卡住）
	maxFramesPerShot = 60 * 10
	// 结算显示前最多等待的帧数
	maxSummaryFrames = 60 * 10
)

var (
	dataDir = flag.String("data", ".", "数据目录（包含 data/levels 和 data/bow.yaml）")
	level   = flag.Int("level", 1, "关卡编号")
	pull    = flag.Float64("pull", 1.0, "拉弦程度 0~1")
	jitter  = flag.Float64("jitter", 0, "瞄准随机偏差（度）")
	seed    = flag.Uint64("seed", 1, "随机种子")
	verbose = flag.Bool("verbose", false, "显示详细日志")
)

// scriptedInput 脚本化的指针和按键输入
type scriptedInput struct {
	pressed bool
	x, y    int
	just    map[ebiten.Key]bool
}

func (in *scriptedInput) PointerState() (bool, int, int) { return in.pressed, in.x, in.y }
func (in *scriptedInput) IsKeyJustPressed(key ebiten.Key) bool { return in.just[key] }
func (in *scriptedInput) IsKeyPressed(key ebiten.Key) bool { return in.just[key] }

// simulator 驱动一个场景
type simulator struct {
	sm     *game.SceneManager
	input  *scriptedInput
	bowCfg *config.BowConfig
	rng    *rand.Rand
	frames int
}

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fsys := os.DirFS(*dataDir)

	bowCfg, err := config.LoadBowConfigFromFS(fsys, config.BowConfigPath)
	if err != nil {
		fmt.Printf("⚠️  %v，使用默认弓参数\n", err)
		bowCfg = config.DefaultBowConfig()
	}

	// 模拟不写存档
	session := game.NewSession(nil, game.SessionOptions{})
	input := &scriptedInput{just: map[ebiten.Key]bool{}}

	sm := game.NewSceneManager()
	sm.SetSceneFactory(app.NewSceneFactory(session, bowCfg, fsys, func(opts *scenes.RangeSceneOptions) {
		opts.Pointer = input
		opts.Keys = input
	}))
	if err := sm.LoadLevel(*level); err != nil {
		return err
	}

	sim := &simulator{
		sm:     sm,
		input:  input,
		bowCfg: bowCfg,
		rng:    rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15)),
	}
	return sim.play()
}

func (s *simulator) scene() *scenes.RangeScene {
	return s.sm.GetCurrentScene().(*scenes.RangeScene)
}

// step 推进 n 帧，按键只保持一帧
func (s *simulator) step(n int) {
	for i := 0; i < n; i++ {
		s.sm.Update(frame)
		s.frames++
		clear(s.input.just)
	}
}

func (s *simulator) play() error {
	scene := s.scene()
	cfg := scene.Coordinator().Config()
	if cfg == nil {
		return fmt.Errorf("关卡 %d 未加载", *level)
	}
	fmt.Printf("🎯 关卡 %d: %s（%d 支箭，需要命中 %d 个靶子）\n",
		cfg.LevelNumber, cfg.LevelName, cfg.MaxArrows, cfg.TargetCount)

	// 确认安全提示
	s.input.just[ebiten.KeyEnter] = true
	s.step(1)

	targets := scene.Targets()
	shot := 0
	for scene.Coordinator().Phase() == game.PhaseInProgress {
		if !scene.Budget().CanLaunch() {
			// 箭已用完，等待关卡在下一次调度中结束
			s.step(1)
			if s.frames > maxSummaryFrames*cfg.MaxArrows {
				return fmt.Errorf("箭用完后关卡仍未结束")
			}
			continue
		}
		if len(targets) == 0 {
			s.aim(scene, 0, 0)
		} else {
			s.aimAt(scene, targets[shot%len(targets)])
		}
		if err := s.shoot(scene); err != nil {
			return err
		}
		shot++
		remaining := scene.Budget().State().Remaining
		fmt.Printf("   第 %d 箭：已命中 %d 个靶子，剩余 %d 支\n", shot, scene.Coordinator().TargetsHit(), remaining)
		if shot > cfg.MaxArrows {
			return fmt.Errorf("射出 %d 支箭后关卡仍未结束", shot)
		}
	}

	for i := 0; i < maxSummaryFrames && scene.ShownSummary() == nil; i++ {
		s.step(1)
	}
	summary := scene.ShownSummary()
	if summary == nil {
		return fmt.Errorf("结算未显示")
	}
	printSummary(*summary, s.frames)
	return nil
}

// shoot 按下、下拉、松开，等待箭落地
func (s *simulator) shoot(scene *scenes.RangeScene) error {
	s.input.x, s.input.y = scenes.WindowWidth/2, 100
	s.input.pressed = true
	s.step(1)

	// 拉弦过程至少持续到箭生成
	drawFrames := int(math.Ceil(s.bowCfg.Spawn.SpawnDelay/frame)) + 4
	target := 100 + int(scenes.PullPixels*math.Max(0, math.Min(1, *pull)))
	for i := 1; i <= drawFrames; i++ {
		s.input.y = 100 + (target-100)*i/drawFrames
		s.step(1)
	}
	s.input.pressed = false
	s.step(1)

	for i := 0; i < maxFramesPerShot; i++ {
		if scene.Projectiles().InFlight() == 0 {
			return nil
		}
		s.step(1)
	}
	return fmt.Errorf("箭飞行超过 %d 帧", maxFramesPerShot)
}

// aim 加上随机偏差后设置瞄准角度
func (s *simulator) aim(scene *scenes.RangeScene, yaw, pitch float64) {
	spread := *jitter * math.Pi / 180
	yaw += (s.rng.Float64()*2 - 1) * spread
	pitch += (s.rng.Float64()*2 - 1) * spread
	scene.Aim(yaw, pitch)
}

// aimAt 计算命中靶心所需的水平角和俯仰角（抛物线低弹道）
func (s *simulator) aimAt(scene *scenes.RangeScene, target ecs.EntityID) {
	em := scene.EntityManager()
	bow, ok1 := ecs.GetComponent[*components.TransformComponent](em, scene.Bow().BowID)
	dst, ok2 := ecs.GetComponent[*components.TransformComponent](em, target)
	if !ok1 || !ok2 {
		s.aim(scene, 0, 0)
		return
	}

	delta := dst.Position.Sub(bow.Position)
	yaw := math.Atan2(delta.X(), delta.Z())
	d := math.Hypot(delta.X(), delta.Z())
	h := delta.Y()

	v := scene.Projectiles().LaunchForce(*pull)
	g := -s.bowCfg.Flight.Gravity
	pitch := math.Atan2(h, d)
	if g > 0 && d > 0 {
		disc := v*v*v*v - g*(g*d*d+2*h*v*v)
		if disc >= 0 {
			pitch = math.Atan((v*v - math.Sqrt(disc)) / (g * d))
		}
	}
	s.aim(scene, yaw, pitch)
}

func printSummary(summary game.LevelSummary, frames int) {
	fmt.Println()
	fmt.Println("📋 结算")
	fmt.Printf("   结束原因: %s\n", summary.Reason)
	fmt.Printf("   本关得分: %d（命中 %d）\n", summary.LevelScore, summary.LevelHits)
	fmt.Printf("   射出箭数: %d / %d\n", summary.ArrowsShot, summary.MaxArrows)
	fmt.Printf("   命中率:   %.0f%%\n", summary.Accuracy*100)
	fmt.Printf("   累计得分: %d（命中 %d）\n", summary.TotalScore, summary.TotalHits)
	fmt.Printf("   模拟帧数: %d（%.1f 秒）\n", frames, float64(frames)*frame)
}
