package repository

import (
	"errors"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// Upsert 以 (student_id, analysis_date, period_type) 为冲突键写入，
// 同一天重算是整行替换而不是累加。
func (r *AnalyticsRepository) Upsert(row *model.PerformanceAnalytics) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "student_id"},
			{Name: "analysis_date"},
			{Name: "period_type"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"period_days",
			"study_hours",
			"subject_accuracy",
			"total_reviews",
			"correct_reviews",
			"consistency_score",
			"study_streak_days",
			"active_weak_areas",
			"new_weak_areas",
			"resolved_weak_areas",
			"tutoring_sessions_count",
			"updated_at",
		}),
	}).Create(row).Error
}

func (r *AnalyticsRepository) FindLatest(studentID string, periodType model.AnalyticsPeriod) (*model.PerformanceAnalytics, error) {
	var row model.PerformanceAnalytics
	err := r.DB.
		Where("student_id = ? AND period_type = ?", studentID, periodType).
		Order("analysis_date DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAnalyticsNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *AnalyticsRepository) ListByStudent(studentID string, limit int) ([]model.PerformanceAnalytics, error) {
	var rows []model.PerformanceAnalytics
	err := r.DB.
		Where("student_id = ?", studentID).
		Order("analysis_date DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
