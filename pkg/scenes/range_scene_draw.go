package scenes

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gonewx/archery/pkg/components"
	"github.com/gonewx/archery/pkg/ecs"
	"github.com/gonewx/archery/pkg/game"
	"github.com/gonewx/archery/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 调试视图参数
const (
	focalLength    = 520.0 // 透视投影焦距（像素）
	nearPlane      = 0.2
	arrowLength    = 0.7
	flashDuration  = 1.2 // 得分提示持续时间（秒）
	summarySlide   = 0.4 // 结算面板滑入时间（秒）
	hudLineSpacing = 16
)

var (
	skyColor       = color.RGBA{R: 28, G: 32, B: 48, A: 255}
	groundColor    = color.RGBA{R: 46, G: 70, B: 40, A: 255}
	targetColor    = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	targetHitColor = color.RGBA{R: 90, G: 210, B: 90, A: 255}
	arrowColor     = color.RGBA{R: 240, G: 190, B: 80, A: 255}
	previewColor   = color.RGBA{R: 255, G: 255, B: 120, A: 160}
	overlayColor   = color.RGBA{R: 0, G: 0, B: 0, A: 180}
)

// cameraOffset 调试相机相对弓的位置（弓后上方），相机固定朝向 +Z
var cameraOffset = mgl64.Vec3{0, 0.4, -2}

// hudState 界面状态
type hudState struct {
	flashPoints    int
	flashRemaining float64
	flashImage     *ebiten.Image
	summary        *game.LevelSummary
	summaryAge     float64
}

func (h *hudState) flashScore(points int) {
	h.flashPoints = points
	h.flashRemaining = flashDuration
}

func (h *hudState) update(deltaTime float64) {
	if h.flashRemaining > 0 {
		h.flashRemaining -= deltaTime
	}
	if h.summary != nil {
		h.summaryAge += deltaTime
	}
}

// summaryOffset 结算面板相对最终位置的纵向偏移，从上方滑入
func (h *hudState) summaryOffset() int {
	progress := math.Min(1, h.summaryAge/summarySlide)
	return int(utils.Lerp(-WindowHeight/2, 0, utils.EaseOutCubic(progress)))
}

// flashAlpha 得分提示透明度，逐渐淡出
func (h *hudState) flashAlpha() float64 {
	if h.flashRemaining <= 0 {
		return 0
	}
	progress := 1 - h.flashRemaining/flashDuration
	return 1 - utils.EaseInCubic(progress)
}

// Draw 绘制调试视图和界面
func (s *RangeScene) Draw(screen *ebiten.Image) {
	if screen == nil {
		return
	}
	screen.Fill(skyColor)

	camera := s.bowCfg.Bow.Position.Add(cameraOffset)
	s.drawGround(screen, camera)
	s.drawTargets(screen, camera)
	s.drawArrows(screen, camera)
	s.drawPreview(screen, camera)
	s.drawHUD(screen)

	if !s.session.Gate.IsAgreed() {
		s.drawSafetyPrompt(screen)
	}
	if s.hud.summary != nil {
		s.drawSummary(screen, *s.hud.summary)
	}
}

// project 把世界坐标投影到屏幕，点在相机后方时返回 false
func project(camera, p mgl64.Vec3) (float32, float32, float64, bool) {
	rel := p.Sub(camera)
	if rel.Z() < nearPlane {
		return 0, 0, 0, false
	}
	x := WindowWidth/2 + focalLength*rel.X()/rel.Z()
	y := WindowHeight/2 - focalLength*rel.Y()/rel.Z()
	return float32(x), float32(y), rel.Z(), true
}

func (s *RangeScene) drawGround(screen *ebiten.Image, camera mgl64.Vec3) {
	ground, ok := ecs.GetComponent[*components.TransformComponent](s.em, s.ground)
	if !ok {
		return
	}
	// 远处地面点的投影作为地平线
	_, horizon, _, ok := project(camera, mgl64.Vec3{camera.X(), ground.Position.Y(), camera.Z() + 1000})
	if !ok || horizon >= WindowHeight {
		return
	}
	vector.DrawFilledRect(screen, 0, horizon, WindowWidth, WindowHeight-horizon, groundColor, false)
}

func (s *RangeScene) drawTargets(screen *ebiten.Image, camera mgl64.Vec3) {
	for _, id := range ecs.GetEntitiesWith2[*components.TargetComponent, *components.TransformComponent](s.em) {
		target, _ := ecs.GetComponent[*components.TargetComponent](s.em, id)
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.em, id)

		x, y, depth, ok := project(camera, transform.Position)
		if !ok {
			continue
		}
		clr := targetColor
		if target.HasBeenHit {
			clr = targetHitColor
		}
		radius := float32(focalLength * target.Radius / depth)
		vector.StrokeCircle(screen, x, y, radius, 2, clr, true)
		vector.StrokeCircle(screen, x, y, radius/2, 1, clr, true)
		vector.DrawFilledCircle(screen, x, y, radius/8+1, clr, true)
		if target.HasBeenHit {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d", target.Points), int(x)-8, int(y-radius)-16)
		}
	}
}

func (s *RangeScene) drawArrows(screen *ebiten.Image, camera mgl64.Vec3) {
	for _, id := range ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.TransformComponent](s.em) {
		projectile, _ := ecs.GetComponent[*components.ProjectileComponent](s.em, id)
		if projectile.Phase == components.ProjectileIdle || projectile.Phase == components.ProjectileDisposed {
			continue
		}
		transform, _ := ecs.GetComponent[*components.TransformComponent](s.em, id)
		tail := transform.Position.Sub(transform.Forward().Mul(arrowLength))

		x0, y0, _, ok0 := project(camera, tail)
		x1, y1, _, ok1 := project(camera, transform.Position)
		if !ok0 || !ok1 {
			continue
		}
		vector.StrokeLine(screen, x0, y0, x1, y1, 2, arrowColor, true)
	}
}

func (s *RangeScene) drawPreview(screen *ebiten.Image, camera mgl64.Vec3) {
	preview, ok := ecs.GetComponent[*components.TrajectoryPreviewComponent](s.em, s.bow.PreviewID)
	if !ok || !preview.Visible {
		return
	}
	x0, y0, _, ok0 := project(camera, preview.Start)
	x1, y1, _, ok1 := project(camera, preview.End)
	if !ok0 || !ok1 {
		return
	}
	vector.StrokeLine(screen, x0, y0, x1, y1, 1, previewColor, true)
}

// hudLines 界面文字（测试可直接检查）
func (s *RangeScene) hudLines() []string {
	ledger := s.session.Ledger.State()
	budget := s.budget.State()

	lines := []string{}
	if cfg := s.coordinator.Config(); cfg != nil {
		lines = append(lines, fmt.Sprintf("Level %d: %s", cfg.LevelNumber, cfg.LevelName))
		lines = append(lines, fmt.Sprintf("Targets: %d/%d", s.coordinator.TargetsHit(), cfg.TargetCount))
	} else {
		lines = append(lines, "No level loaded")
	}
	lines = append(lines,
		fmt.Sprintf("Arrows: %d/%d", budget.Remaining, budget.MaxArrows),
		fmt.Sprintf("Score: %d  (last %d)", ledger.CurrentLevelScore, s.session.Ledger.LastShotScore()),
		fmt.Sprintf("Total: %d", ledger.LifetimeScore),
		fmt.Sprintf("Time: %s", game.FormatClock(s.session.Timer.Elapsed())),
	)
	if remaining := s.coordinator.TimeRemaining(); remaining >= 0 {
		lines = append(lines, fmt.Sprintf("Time left: %s", game.FormatClock(remaining)))
	}
	lines = append(lines, fmt.Sprintf("Pull: %3.0f%%  Station: %s", s.gesture.Pull()*100, s.station.State()))
	return lines
}

func (s *RangeScene) drawHUD(screen *ebiten.Image) {
	for i, line := range s.hudLines() {
		ebitenutil.DebugPrintAt(screen, line, 10, 10+i*hudLineSpacing)
	}

	// 拉弦条
	const barWidth, barHeight = 160, 8
	barY := float32(WindowHeight - 24)
	vector.StrokeRect(screen, 10, barY, barWidth, barHeight, 1, targetColor, false)
	vector.DrawFilledRect(screen, 10, barY, float32(barWidth*s.gesture.Pull()), barHeight, arrowColor, false)

	if alpha := s.hud.flashAlpha(); alpha > 0 {
		// DebugPrint 不支持透明度：先画到临时图像再按透明度合成
		if s.hud.flashImage == nil {
			s.hud.flashImage = ebiten.NewImage(64, 16)
		}
		text := fmt.Sprintf("+%d", s.hud.flashPoints)
		s.hud.flashImage.Clear()
		ebitenutil.DebugPrint(s.hud.flashImage, text)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(3, 3)
		op.GeoM.Translate(WindowWidth/2-float64(len(text))*9, WindowHeight/2-80)
		op.ColorScale.ScaleAlpha(float32(alpha))
		screen.DrawImage(s.hud.flashImage, op)
	}
}

func (s *RangeScene) drawSafetyPrompt(screen *ebiten.Image) {
	vector.DrawFilledRect(screen, WindowWidth/2-220, WindowHeight/2-40, 440, 80, overlayColor, false)
	ebitenutil.DebugPrintAt(screen, "Make sure your play area is clear.", WindowWidth/2-200, WindowHeight/2-24)
	ebitenutil.DebugPrintAt(screen, "Press Enter to confirm and start shooting.", WindowWidth/2-200, WindowHeight/2-4)
}

func (s *RangeScene) drawSummary(screen *ebiten.Image, summary game.LevelSummary) {
	top := WindowHeight/2 - 100 + s.hud.summaryOffset()
	vector.DrawFilledRect(screen, WindowWidth/2-180, float32(top), 360, 200, overlayColor, false)
	lines := []string{
		fmt.Sprintf("Level %d complete (%s)", summary.LevelNumber, summary.Reason),
		fmt.Sprintf("Score: %d", summary.LevelScore),
		fmt.Sprintf("Hits: %d", summary.LevelHits),
		fmt.Sprintf("Arrows: %d/%d  Accuracy: %.0f%%", summary.ArrowsShot, summary.MaxArrows, summary.Accuracy*100),
		fmt.Sprintf("Total score: %d  Total hits: %d", summary.TotalScore, summary.TotalHits),
		fmt.Sprintf("Total time: %s", game.FormatClock(summary.TotalTime)),
		"",
		"R: replay   N: next level",
	}
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, WindowWidth/2-160, top+16+i*hudLineSpacing)
	}
}
