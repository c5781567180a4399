package model

import "time"

type RepetitionContentType string

const (
	ContentFlashcards   RepetitionContentType = "flashcards"
	ContentProblems     RepetitionContentType = "problems"
	ContentTheory       RepetitionContentType = "theory"
	ContentVideo        RepetitionContentType = "video"
	ContentTutorSession RepetitionContentType = "tutor_session"
	ContentMixed        RepetitionContentType = "mixed"
)

type RepetitionStatus string

const (
	RepetitionScheduled   RepetitionStatus = "scheduled"
	RepetitionInProgress  RepetitionStatus = "in_progress"
	RepetitionCompleted   RepetitionStatus = "completed"
	RepetitionSkipped     RepetitionStatus = "skipped"
	RepetitionRescheduled RepetitionStatus = "rescheduled"
)

// RepetitionSchedule 间隔重复计划中的一次练习安排。
// 由调度器批量创建，完成追踪器写入结果；作为历史记录从不删除。
// swagger:model RepetitionSchedule
type RepetitionSchedule struct {
	UUIDBase
	WeakAreaID string `gorm:"type:varchar(36);not null;index" json:"weakAreaId"`
	StudentID  string `gorm:"type:varchar(36);not null;index" json:"studentId"`

	RepetitionNumber int                   `gorm:"column:repetition_number;not null" json:"repetitionNumber"`
	ScheduledDate    time.Time             `gorm:"column:scheduled_date;not null;index" json:"scheduledDate"`
	ContentType      RepetitionContentType `gorm:"column:content_type;type:varchar(20);not null" json:"contentType"`
	EstimatedMinutes int                   `gorm:"column:estimated_duration_minutes" json:"estimatedDurationMinutes"`

	Status RepetitionStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`

	// 完成后填写的结果字段
	AccuracyAchieved  *float64   `gorm:"column:accuracy_achieved" json:"accuracyAchieved"`
	ProblemsAttempted int        `gorm:"column:problems_attempted;default:0" json:"problemsAttempted"`
	ProblemsSolved    int        `gorm:"column:problems_solved;default:0" json:"problemsSolved"`
	Notes             string     `gorm:"type:text" json:"notes"`
	CompletedAt       *time.Time `gorm:"column:completed_at" json:"completedAt"`
}

func (RepetitionSchedule) TableName() string {
	return "repetition_schedules"
}
