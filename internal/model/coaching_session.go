package model

import "time"

// CoachingSession 某个学生某一时刻的教练快照，创建后不可变；
// student_viewed 标志由消费端 UI 置位。
// swagger:model CoachingSession
type CoachingSession struct {
	UUIDBase
	StudentID   string    `gorm:"type:varchar(36);not null;index" json:"studentId"`
	SessionDate time.Time `gorm:"column:session_date;not null;index" json:"sessionDate"`

	ActiveWeakAreas    int `gorm:"column:active_weak_areas;default:0" json:"activeWeakAreas"`
	ImprovingWeakAreas int `gorm:"column:improving_weak_areas;default:0" json:"improvingWeakAreas"`
	ResolvedWeakAreas  int `gorm:"column:resolved_weak_areas;default:0" json:"resolvedWeakAreas"`

	PeriodStudyHours      float64 `gorm:"column:period_study_hours" json:"periodStudyHours"`
	PeriodAverageAccuracy float64 `gorm:"column:period_average_accuracy" json:"periodAverageAccuracy"`

	PriorityActions     []string `gorm:"column:priority_actions;serializer:json;type:json" json:"priorityActions"`
	MotivationalMessage string   `gorm:"column:motivational_message;type:text" json:"motivationalMessage"`

	StudentViewed bool `gorm:"column:student_viewed;default:false" json:"studentViewed"`
}

func (CoachingSession) TableName() string {
	return "coaching_sessions"
}
