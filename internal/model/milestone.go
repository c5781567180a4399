package model

type MilestoneType string

const (
	MilestoneTargetReached MilestoneType = "target_reached"
)

// ImprovementMilestone 不可变的进步事件记录，跨越阈值时由完成追踪器发出。
// swagger:model ImprovementMilestone
type ImprovementMilestone struct {
	UUIDBase
	StudentID  string `gorm:"type:varchar(36);not null;index" json:"studentId"`
	WeakAreaID string `gorm:"type:varchar(36);not null;index" json:"weakAreaId"`

	Type       MilestoneType `gorm:"type:varchar(30);not null" json:"type"`
	MetricName string        `gorm:"column:metric_name;size:100" json:"metricName"`

	PreviousValue float64 `gorm:"column:previous_value" json:"previousValue"`
	CurrentValue  float64 `gorm:"column:current_value" json:"currentValue"`
	// 相对提升幅度（%），previous 为 0 时记 0
	ImprovementPercentage float64 `gorm:"column:improvement_percentage" json:"improvementPercentage"`

	PointsAwarded int    `gorm:"column:points_awarded;default:0" json:"pointsAwarded"`
	Description   string `gorm:"type:text" json:"description"`
}

func (ImprovementMilestone) TableName() string {
	return "improvement_milestones"
}
