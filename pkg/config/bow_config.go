package config

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// BowConfigPath 弓参数配置文件路径
const BowConfigPath = "data/bow.yaml"

// BowConfig 弓与箭的调参配置
//
// 所有字段都有默认值（见 DefaultBowConfig），YAML 中只需写要覆盖的字段。
type BowConfig struct {
	Pull    PullConfig      `yaml:"pull"`
	Launch  LaunchConfig    `yaml:"launch"`
	Spawn   SpawnConfig     `yaml:"spawn"`
	Impact  ImpactConfig    `yaml:"impact"`
	Flight  FlightConfig    `yaml:"flight"`
	Level   LevelFlowConfig `yaml:"level"`
	Preview PreviewConfig   `yaml:"preview"`
	Safety  SafetyConfig    `yaml:"safety"`
	Bow     BowPlacement    `yaml:"bow"`
}

// PullConfig 拉弦轴（弓本地坐标）
type PullConfig struct {
	AxisStart  mgl64.Vec3 `yaml:"axisStart"`  // 拉弦起点（弦静止位置）
	AxisEnd    mgl64.Vec3 `yaml:"axisEnd"`    // 拉弦终点（满弓位置）
	NotchStart mgl64.Vec3 `yaml:"notchStart"` // 搭箭点静止位置
}

// LaunchConfig 发射参数
// 发射速度 = baseForce * lerp(minForceMultiplier, maxForceMultiplier, pull)
type LaunchConfig struct {
	BaseForce          float64 `yaml:"baseForce"`
	MinForceMultiplier float64 `yaml:"minForceMultiplier"`
	MaxForceMultiplier float64 `yaml:"maxForceMultiplier"`
	ForwardOffset      float64 `yaml:"forwardOffset"` // 发射前向前移动的距离，避开弓体
}

// SpawnConfig 生成参数
type SpawnConfig struct {
	SpawnDelay float64 `yaml:"spawnDelay"` // 开始拉弦到箭出现的延迟（秒）
}

// ImpactConfig 命中参数
type ImpactConfig struct {
	StickDuration   float64 `yaml:"stickDuration"`   // 插在表面上的停留时间（秒），0 表示不销毁
	ImpactDepth     float64 `yaml:"impactDepth"`     // 命中后插入表面的深度
	CollisionMask   uint32  `yaml:"collisionMask"`   // 可碰撞层掩码
	EnableExplosion bool    `yaml:"enableExplosion"` // 命中时是否产生爆炸冲量
	ExplosionRadius float64 `yaml:"explosionRadius"` // 爆炸半径
	ExplosionForce  float64 `yaml:"explosionForce"`  // 爆炸冲量
}

// FlightConfig 飞行参数
type FlightConfig struct {
	Gravity       float64 `yaml:"gravity"`       // 重力加速度（Y 轴，负值向下）
	MaxFlightTime float64 `yaml:"maxFlightTime"` // 最长飞行时间（秒），超时视为丢失
}

// LevelFlowConfig 关卡流程参数
type LevelFlowConfig struct {
	EndScreenDelay float64 `yaml:"endScreenDelay"` // 关卡完成到显示结算的延迟（秒）
}

// PreviewConfig 瞄准预览参数
type PreviewConfig struct {
	MaxDistance float64 `yaml:"maxDistance"` // 满弓时预览射线长度
}

// SafetyConfig 安全提示参数
type SafetyConfig struct {
	// RememberAgreement 为 true 时，已保存的确认状态可跳过再次确认
	RememberAgreement *bool `yaml:"rememberAgreement"`
}

// BowPlacement 弓在世界中的位置
type BowPlacement struct {
	Position mgl64.Vec3 `yaml:"position"`
}

// 碰撞层
const (
	LayerDefault uint32 = 1 << 0
	LayerTarget  uint32 = 1 << 1
	LayerGround  uint32 = 1 << 2

	// LayerAll 全部层
	LayerAll uint32 = ^uint32(0)
)

// DefaultBowConfig 返回默认配置
func DefaultBowConfig() *BowConfig {
	remember := true
	return &BowConfig{
		Pull: PullConfig{
			AxisStart:  mgl64.Vec3{0, 0, 0},
			AxisEnd:    mgl64.Vec3{0, 0, -0.6},
			NotchStart: mgl64.Vec3{0, 0, 0},
		},
		Launch: LaunchConfig{
			BaseForce:          20,
			MinForceMultiplier: 0.5,
			MaxForceMultiplier: 2,
			ForwardOffset:      0.3,
		},
		Spawn: SpawnConfig{
			SpawnDelay: 0.1,
		},
		Impact: ImpactConfig{
			StickDuration:   10,
			ImpactDepth:     0.1,
			CollisionMask:   LayerAll,
			EnableExplosion: false,
			ExplosionRadius: 3,
			ExplosionForce:  10,
		},
		Flight: FlightConfig{
			Gravity:       -9.81,
			MaxFlightTime: 8,
		},
		Level: LevelFlowConfig{
			EndScreenDelay: 2,
		},
		Preview: PreviewConfig{
			MaxDistance: 20,
		},
		Safety: SafetyConfig{
			RememberAgreement: &remember,
		},
		Bow: BowPlacement{
			Position: mgl64.Vec3{0, 1.5, 0},
		},
	}
}

// RememberSafetyAgreement 是否读取已保存的安全确认状态
func (c *BowConfig) RememberSafetyAgreement() bool {
	return c.Safety.RememberAgreement == nil || *c.Safety.RememberAgreement
}

// LoadBowConfig 从YAML文件加载弓配置，文件中未出现的字段保持默认值
func LoadBowConfig(path string) (*BowConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bow config file %s: %w", path, err)
	}
	return ParseBowConfig(data, path)
}

// LoadBowConfigFromFS 从文件系统（如嵌入资源）加载弓配置
func LoadBowConfigFromFS(fsys fs.FS, path string) (*BowConfig, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bow config file %s: %w", path, err)
	}
	return ParseBowConfig(data, path)
}

// ParseBowConfig 在默认配置之上解析 YAML
func ParseBowConfig(data []byte, source string) (*BowConfig, error) {
	cfg := DefaultBowConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse bow config YAML from %s: %w", source, err)
	}
	if err := validateBowConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid bow config in %s: %w", source, err)
	}
	return cfg, nil
}

// validateBowConfig 验证弓配置
func validateBowConfig(cfg *BowConfig) error {
	if cfg.Pull.AxisEnd.Sub(cfg.Pull.AxisStart).Len() == 0 {
		return fmt.Errorf("pull axis start and end must differ")
	}
	if cfg.Launch.BaseForce < 0 {
		return fmt.Errorf("launch.baseForce cannot be negative, got %v", cfg.Launch.BaseForce)
	}
	if cfg.Launch.MinForceMultiplier < 0 || cfg.Launch.MaxForceMultiplier < 0 {
		return fmt.Errorf("launch force multipliers cannot be negative")
	}
	if cfg.Spawn.SpawnDelay < 0 {
		return fmt.Errorf("spawn.spawnDelay cannot be negative, got %v", cfg.Spawn.SpawnDelay)
	}
	if cfg.Impact.StickDuration < 0 {
		return fmt.Errorf("impact.stickDuration cannot be negative, got %v", cfg.Impact.StickDuration)
	}
	if cfg.Flight.MaxFlightTime <= 0 {
		return fmt.Errorf("flight.maxFlightTime must be positive, got %v", cfg.Flight.MaxFlightTime)
	}
	if cfg.Level.EndScreenDelay < 0 {
		return fmt.Errorf("level.endScreenDelay cannot be negative, got %v", cfg.Level.EndScreenDelay)
	}
	return nil
}
