package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

// 薄弱点分类阈值（平均正确率 %）
const (
	WeakAreaAccuracyThreshold = 70.0 // 低于该值的卡片分组才会成为薄弱点
	CriticalAccuracyThreshold = 50.0
	HighAccuracyThreshold     = 60.0
)

// 建议生成：学生没有存量 AI 建议时的缺省行动步骤
var FallbackActionSteps = []string{
	"回顾该主题的基础概念与笔记",
	"完成 10 道针对性练习题",
	"用自己的话向他人解释该主题",
	"三天后再做一轮间隔复习",
}
