package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// ErrNoLevel 找不到关卡配置
var ErrNoLevel = errors.New("level config not found")

// 关卡默认值
const (
	DefaultMaxArrows    = 10
	DefaultTargetCount  = 5
	DefaultMaxScore     = 100
	DefaultTargetRadius = 1.0
)

// LevelConfig 关卡配置数据结构
// 定义关卡的基本信息、箭数预算和靶子布局
type LevelConfig struct {
	LevelNumber int            `yaml:"levelNumber"` // 关卡编号，从 1 开始
	LevelName   string         `yaml:"levelName"`   // 关卡名称，如 "练习场"
	MaxArrows   int            `yaml:"maxArrows"`   // 本关箭数，默认 10
	TargetCount int            `yaml:"targetCount"` // 通关需要命中的靶子数，默认 5
	TimeLimit   float64        `yaml:"timeLimit"`   // 时间限制（秒），0 表示不限时
	Targets     []TargetConfig `yaml:"targets"`     // 靶子布局（可选）
}

// TargetConfig 单个靶子配置
type TargetConfig struct {
	Name           string     `yaml:"name"`           // 靶子名称（日志用）
	Center         mgl64.Vec3 `yaml:"center"`         // 靶心世界坐标 [x, y, z]
	Facing         mgl64.Vec3 `yaml:"facing"`         // 靶面法线（朝向射手），默认 [0, 0, -1]
	Radius         float64    `yaml:"radius"`         // 计分半径，此距离处为 0 分
	ColliderRadius float64    `yaml:"colliderRadius"` // 碰撞半径，默认等于计分半径
	MaxScore       int        `yaml:"maxScore"`       // 靶心满分，默认 100
}

// LoadLevelConfig 从YAML文件加载关卡配置
// 参数：
//
//	filepath - 关卡配置文件的路径（相对或绝对路径）
//
// 返回：
//
//	*LevelConfig - 解析后的关卡配置对象
//	error - 如果文件读取或解析失败，返回错误信息
func LoadLevelConfig(filepath string) (*LevelConfig, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoLevel, filepath)
		}
		return nil, fmt.Errorf("failed to read level config file %s: %w", filepath, err)
	}
	return ParseLevelConfig(data, filepath)
}

// LoadLevelConfigFromFS 从文件系统（如嵌入资源）加载关卡配置
func LoadLevelConfigFromFS(fsys fs.FS, path string) (*LevelConfig, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoLevel, path)
		}
		return nil, fmt.Errorf("failed to read level config file %s: %w", path, err)
	}
	return ParseLevelConfig(data, path)
}

// ParseLevelConfig 解析关卡配置 YAML 数据
// source 仅用于错误信息
func ParseLevelConfig(data []byte, source string) (*LevelConfig, error) {
	var levelConfig LevelConfig
	if err := yaml.Unmarshal(data, &levelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse level config YAML from %s: %w", source, err)
	}

	// 应用默认值（向后兼容性）
	applyDefaults(&levelConfig)

	// 验证必填字段
	if err := validateLevelConfig(&levelConfig); err != nil {
		return nil, fmt.Errorf("invalid level config in %s: %w", source, err)
	}

	return &levelConfig, nil
}

// LevelPath 返回关卡文件的标准路径，如 "data/levels/level-2.yaml"
func LevelPath(levelNumber int) string {
	return fmt.Sprintf("data/levels/level-%d.yaml", levelNumber)
}

// applyDefaults 为 LevelConfig 中缺失的可选字段设置默认值
func applyDefaults(config *LevelConfig) {
	if config.MaxArrows == 0 {
		config.MaxArrows = DefaultMaxArrows
	}

	// 未配置 targetCount 时：有靶子布局则等于靶子数，否则使用默认值
	if config.TargetCount == 0 {
		if len(config.Targets) > 0 {
			config.TargetCount = len(config.Targets)
		} else {
			config.TargetCount = DefaultTargetCount
		}
	}

	for i := range config.Targets {
		target := &config.Targets[i]
		if target.Facing.Len() == 0 {
			target.Facing = mgl64.Vec3{0, 0, -1}
		}
		if target.Radius == 0 {
			target.Radius = DefaultTargetRadius
		}
		if target.ColliderRadius == 0 {
			target.ColliderRadius = target.Radius
		}
		if target.MaxScore == 0 {
			target.MaxScore = DefaultMaxScore
		}
		if target.Name == "" {
			target.Name = fmt.Sprintf("target-%d", i+1)
		}
	}
}

// validateLevelConfig 验证关卡配置的完整性和合法性
func validateLevelConfig(config *LevelConfig) error {
	if config.LevelNumber < 1 {
		return fmt.Errorf("levelNumber must be at least 1, got %d", config.LevelNumber)
	}

	if config.LevelName == "" {
		return fmt.Errorf("levelName is required")
	}

	if config.MaxArrows < 1 {
		return fmt.Errorf("maxArrows must be at least 1, got %d", config.MaxArrows)
	}

	if config.TargetCount < 1 {
		return fmt.Errorf("targetCount must be at least 1, got %d", config.TargetCount)
	}

	if config.TimeLimit < 0 {
		return fmt.Errorf("timeLimit cannot be negative, got %v", config.TimeLimit)
	}

	// 有靶子布局时，通关所需靶子数不能超过靶子总数
	if len(config.Targets) > 0 && config.TargetCount > len(config.Targets) {
		return fmt.Errorf("targetCount %d exceeds number of targets %d", config.TargetCount, len(config.Targets))
	}

	for i, target := range config.Targets {
		if target.Radius < 0 {
			return fmt.Errorf("targets[%d]: radius cannot be negative, got %v", i, target.Radius)
		}
		if target.ColliderRadius < 0 {
			return fmt.Errorf("targets[%d]: colliderRadius cannot be negative, got %v", i, target.ColliderRadius)
		}
		if target.MaxScore < 0 {
			return fmt.Errorf("targets[%d]: maxScore cannot be negative, got %d", i, target.MaxScore)
		}
	}

	return nil
}
