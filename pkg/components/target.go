package components

// TargetComponent 靶子
// 每个靶子只计一次分，HasBeenHit 由 TargetScoringSystem 设置
type TargetComponent struct {
	Name       string
	Radius     float64 // 计分半径，此距离处为 0 分
	MaxScore   int     // 靶心满分
	HasBeenHit bool    // 是否已被命中
	Points     int     // 命中得分（未命中为 0）
}
