package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gonewx/archery/pkg/app"
	"github.com/gonewx/archery/pkg/embedded"
	"github.com/gonewx/archery/pkg/scenes"
)

func main() {
	verbose := flag.Bool("verbose", false, "启用详细日志输出")
	level := flag.Int("level", 0, "指定关卡编号（0 表示第一关）")
	reset := flag.Bool("reset", false, "清除已保存的得分、时间和安全确认")
	flag.Parse()

	// 初始化嵌入资源（dataFS 在 embed.go 中声明）
	embedded.Init(dataFS)

	cfg := app.Config{
		Verbose: *verbose,
		Level:   *level,
		Reset:   *reset,
	}

	rangeApp, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	ebiten.SetWindowSize(scenes.WindowWidth, scenes.WindowHeight)
	ebiten.SetWindowTitle("Archery Range")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(rangeApp); err != nil {
		log.Fatal(err)
	}
}
