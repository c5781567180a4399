package model

import "time"

type RecommendationType string

const (
	RecommendationPractice  RecommendationType = "practice"
	RecommendationStudyPlan RecommendationType = "study_plan"
)

type RecommendationPriority string

const (
	RecPriorityLow    RecommendationPriority = "low"
	RecPriorityMedium RecommendationPriority = "medium"
	RecPriorityHigh   RecommendationPriority = "high"
	RecPriorityUrgent RecommendationPriority = "urgent"
)

type RecommendationStatus string

const (
	RecStatusPending    RecommendationStatus = "pending"
	RecStatusInProgress RecommendationStatus = "in_progress"
	RecStatusCompleted  RecommendationStatus = "completed"
	RecStatusDismissed  RecommendationStatus = "dismissed"
)

// CoachingRecommendation 由薄弱点或聚合条件派生的可执行建议。
// 生命周期（开始/完成/忽略）由学生操作驱动，与薄弱点自身的生命周期相互独立。
// swagger:model CoachingRecommendation
type CoachingRecommendation struct {
	UUIDBase
	StudentID         string  `gorm:"type:varchar(36);not null;index" json:"studentId"`
	WeakAreaID        *string `gorm:"type:varchar(36);index" json:"weakAreaId"`
	CoachingSessionID *string `gorm:"type:varchar(36);index" json:"coachingSessionId"`

	Type        RecommendationType     `gorm:"type:varchar(20);not null" json:"type"`
	Priority    RecommendationPriority `gorm:"type:varchar(20);not null" json:"priority"`
	Title       string                 `gorm:"size:255;not null" json:"title"`
	Description string                 `gorm:"type:text" json:"description"`
	ActionSteps []string               `gorm:"column:action_steps;serializer:json;type:json" json:"actionSteps"`

	TutorRequired bool `gorm:"column:tutor_required;default:false" json:"tutorRequired"`

	Status               RecommendationStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CompletionPercentage int                  `gorm:"column:completion_percentage;default:0" json:"completionPercentage"`
	CompletedAt          *time.Time           `gorm:"column:completed_at" json:"completedAt"`
	DismissedAt          *time.Time           `gorm:"column:dismissed_at" json:"dismissedAt"`
}

func (CoachingRecommendation) TableName() string {
	return "coaching_recommendations"
}
