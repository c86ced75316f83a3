package game

//go:generate go tool mockgen -destination=./mocks/summary_presenter_mock.go -package=mocks . SummaryPresenter

// CompletionReason 关卡结束原因
type CompletionReason int

const (
	// CompletionNone 尚未结束
	CompletionNone CompletionReason = iota
	// CompletionAllTargetsHit 命中数达到目标
	CompletionAllTargetsHit
	// CompletionOutOfArrows 箭用完
	CompletionOutOfArrows
	// CompletionTimeUp 超过时间限制
	CompletionTimeUp
)

// String 返回原因名称
func (r CompletionReason) String() string {
	switch r {
	case CompletionAllTargetsHit:
		return "AllTargetsHit"
	case CompletionOutOfArrows:
		return "OutOfArrows"
	case CompletionTimeUp:
		return "TimeUp"
	default:
		return "None"
	}
}

// LevelSummary 关卡结算数据（交给外部结算界面显示）
type LevelSummary struct {
	LevelNumber int
	LevelName   string
	Reason      CompletionReason

	LevelScore int // 本关得分
	LevelHits  int // 本关命中数
	TotalScore int // 累计得分
	TotalHits  int // 累计命中数

	ArrowsShot int     // 本关射出箭数
	MaxArrows  int     // 本关箭数上限
	Accuracy   float64 // 命中率（0~1）
	TotalTime  float64 // 会话累计时间（秒）
}

// SummaryPresenter 结算界面（外部协作者）
type SummaryPresenter interface {
	ShowSummary(summary LevelSummary)
}

// SummaryPresenterFunc 函数适配器
type SummaryPresenterFunc func(summary LevelSummary)

// ShowSummary 实现 SummaryPresenter
func (f SummaryPresenterFunc) ShowSummary(summary LevelSummary) {
	f(summary)
}
