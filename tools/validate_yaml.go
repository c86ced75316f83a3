// validate_yaml 检查 data/ 下的弓参数和关卡文件
//
// 用法：
//
//	go run ./tools
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gonewx/archery/pkg/config"
)

func main() {
	failed := 0

	bowCfg, err := config.LoadBowConfig(config.BowConfigPath)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		failed++
	} else {
		fmt.Printf("✅ %s: 发射力 %.1f（%.1fx ~ %.1fx），重力 %.2f\n", config.BowConfigPath,
			bowCfg.Launch.BaseForce, bowCfg.Launch.MinForceMultiplier, bowCfg.Launch.MaxForceMultiplier, bowCfg.Flight.Gravity)
	}

	files, err := filepath.Glob("data/levels/level-*.yaml")
	if err != nil {
		fmt.Printf("❌ 查找关卡文件失败: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("❌ data/levels 下没有关卡文件\n")
		os.Exit(1)
	}

	seen := make(map[int]string)
	for _, file := range files {
		level, err := config.LoadLevelConfig(file)
		if err != nil {
			fmt.Printf("❌ %v\n", err)
			failed++
			continue
		}
		if filepath.ToSlash(file) != config.LevelPath(level.LevelNumber) {
			fmt.Printf("❌ %s: levelNumber %d 与文件名不一致\n", file, level.LevelNumber)
			failed++
			continue
		}
		if other, ok := seen[level.LevelNumber]; ok {
			fmt.Printf("❌ %s: levelNumber %d 与 %s 重复\n", file, level.LevelNumber, other)
			failed++
			continue
		}
		seen[level.LevelNumber] = file
		fmt.Printf("✅ %s: %s（%d 支箭，%d/%d 个靶子）\n",
			file, level.LevelName, level.MaxArrows, level.TargetCount, len(level.Targets))
	}

	if failed > 0 {
		fmt.Printf("❌ %d 个文件有错误\n", failed)
		os.Exit(1)
	}
	fmt.Printf("✅ 全部通过\n")
}
