package model

import "time"

type AnalyticsPeriod string

const (
	PeriodDaily   AnalyticsPeriod = "daily"
	PeriodWeekly  AnalyticsPeriod = "weekly"
	PeriodMonthly AnalyticsPeriod = "monthly"
)

// PerformanceAnalytics 一个学生在一个滚动窗口内的学习表现汇总。
// (student_id, analysis_date, period_type) 唯一，重算同一天是替换而不是累加。
// swagger:model PerformanceAnalytics
type PerformanceAnalytics struct {
	UUIDBase
	StudentID    string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_student_date_period" json:"studentId"`
	AnalysisDate time.Time       `gorm:"column:analysis_date;not null;uniqueIndex:idx_student_date_period" json:"analysisDate"`
	PeriodType   AnalyticsPeriod `gorm:"column:period_type;type:varchar(20);not null;uniqueIndex:idx_student_date_period" json:"periodType"`
	PeriodDays   int             `gorm:"column:period_days" json:"periodDays"`

	StudyHours       float64            `gorm:"column:study_hours" json:"studyHours"`
	SubjectAccuracy  map[string]float64 `gorm:"column:subject_accuracy;serializer:json;type:json" json:"subjectAccuracy"`
	TotalReviews     int                `gorm:"column:total_reviews;default:0" json:"totalReviews"`
	CorrectReviews   int                `gorm:"column:correct_reviews;default:0" json:"correctReviews"`
	ConsistencyScore float64            `gorm:"column:consistency_score" json:"consistencyScore"` // 学习天数占比（%）
	StudyStreakDays  int                `gorm:"column:study_streak_days;default:0" json:"studyStreakDays"`

	ActiveWeakAreas   int `gorm:"column:active_weak_areas;default:0" json:"activeWeakAreas"`
	NewWeakAreas      int `gorm:"column:new_weak_areas;default:0" json:"newWeakAreas"`
	ResolvedWeakAreas int `gorm:"column:resolved_weak_areas;default:0" json:"resolvedWeakAreas"`

	TutoringSessionsCount int `gorm:"column:tutoring_sessions_count;default:0" json:"tutoringSessionsCount"`
}

func (PerformanceAnalytics) TableName() string {
	return "performance_analytics"
}
