package components

import "github.com/gonewx/archery/pkg/ecs"

// StationState 补给点状态
type StationState int

const (
	// StationNoProjectile 没有箭
	StationNoProjectile StationState = iota
	// StationSpawning 等待生成延迟
	StationSpawning
	// StationReady 箭已搭弦
	StationReady
	// StationLaunched 箭已射出
	StationLaunched
)

// String 返回状态名称
func (s StationState) String() string {
	switch s {
	case StationNoProjectile:
		return "NoProjectile"
	case StationSpawning:
		return "Spawning"
	case StationReady:
		return "Ready"
	case StationLaunched:
		return "Launched"
	default:
		return "Unknown"
	}
}

// SupplyStationComponent 箭补给点
// 同一时刻最多拥有一支 Notched 或 Launched 的箭
type SupplyStationComponent struct {
	State        StationState
	CurrentArrow ecs.EntityID // 当前拥有的箭，0 表示无
	NotchEntity  ecs.EntityID // 搭箭点
	Activated    bool         // 安全确认后才可生成
	Disabled     bool         // 缺少引用时禁用
}
