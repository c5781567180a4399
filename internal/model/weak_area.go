package model

import "time"

type WeakAreaSeverity string

const (
	SeverityLow      WeakAreaSeverity = "low"
	SeverityMedium   WeakAreaSeverity = "medium"
	SeverityHigh     WeakAreaSeverity = "high"
	SeverityCritical WeakAreaSeverity = "critical"
)

type WeakAreaStatus string

const (
	WeakAreaActive    WeakAreaStatus = "active"
	WeakAreaImproving WeakAreaStatus = "improving"
	WeakAreaResolved  WeakAreaStatus = "resolved"
	WeakAreaIgnored   WeakAreaStatus = "ignored"
)

// WeakArea 学生在某个 (学科, 主题, 子主题) 上的持续性薄弱点。
// 不变式：同一学生同一 (subject, topic, subtopic) 至多一条记录，由复合唯一索引
// 加 upsert 保证，分类器重复运行只会就地更新而不会产生重复行。
// swagger:model WeakArea
type WeakArea struct {
	UUIDBase
	StudentID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_student_subject_topic" json:"studentId"`
	Subject   string `gorm:"size:100;not null;uniqueIndex:idx_student_subject_topic" json:"subject"`
	Topic     string `gorm:"size:100;not null;uniqueIndex:idx_student_subject_topic" json:"topic"`
	Subtopic  string `gorm:"size:100;not null;default:'';uniqueIndex:idx_student_subject_topic" json:"subtopic"`

	Severity WeakAreaSeverity `gorm:"type:varchar(20);not null" json:"severity"`
	Priority int              `gorm:"not null;default:3;index" json:"priority"` // 1 最高

	InitialAccuracy float64 `gorm:"column:initial_accuracy_percentage" json:"initialAccuracyPercentage"`
	CurrentAccuracy float64 `gorm:"column:current_accuracy_percentage" json:"currentAccuracyPercentage"`
	TargetAccuracy  float64 `gorm:"column:target_accuracy_percentage;default:85" json:"targetAccuracyPercentage"`

	AttemptsCount int `gorm:"column:attempts_count;default:0" json:"attemptsCount"`
	FailuresCount int `gorm:"column:failures_count;default:0" json:"failuresCount"`

	Status WeakAreaStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`

	TimesRepeated     int `gorm:"column:times_repeated;default:0" json:"timesRepeated"`
	TargetRepetitions int `gorm:"column:target_repetitions;default:0" json:"targetRepetitions"`

	// 连续达标次数，用于显式的 resolved 状态迁移规则
	ConsecutiveOnTarget int `gorm:"column:consecutive_on_target;default:0" json:"consecutiveOnTarget"`

	IdentificationReason string   `gorm:"column:identification_reason;type:text" json:"identificationReason"`
	AIRecommendations    []string `gorm:"column:ai_recommendations;serializer:json;type:json" json:"aiRecommendations"`

	LastPracticedAt *time.Time `gorm:"column:last_practiced_at" json:"lastPracticedAt"`
	ResolvedAt      *time.Time `gorm:"column:resolved_at;index" json:"resolvedAt"`
}

func (WeakArea) TableName() string {
	return "weak_areas"
}

// Key 返回自然复合键，分类器用它做去重合并
func (w *WeakArea) Key() string {
	return w.Subject + "|" + w.Topic + "|" + w.Subtopic
}
