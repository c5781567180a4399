package repository

import (
	"study_coach_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

// StudyRepository 访问学习活动日志：自习、复习事件和辅导课
type StudyRepository struct {
	DB *gorm.DB
}

func NewStudyRepository(db *gorm.DB) *StudyRepository {
	return &StudyRepository{DB: db}
}

func (r *StudyRepository) ListSessionsBetween(studentID string, from, to time.Time) ([]model.StudySession, error) {
	var sessions []model.StudySession
	err := r.DB.
		Where("student_id = ? AND started_at BETWEEN ? AND ?", studentID, from, to).
		Order("started_at ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *StudyRepository) ListReviewsBetween(studentID string, from, to time.Time) ([]model.FlashcardReview, error) {
	var reviews []model.FlashcardReview
	err := r.DB.
		Where("student_id = ? AND reviewed_at BETWEEN ? AND ?", studentID, from, to).
		Find(&reviews).Error
	return reviews, err
}

func (r *StudyRepository) CountTutoringBetween(studentID string, from, to time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TutoringSession{}).
		Where("student_id = ? AND scheduled_at BETWEEN ? AND ?", studentID, from, to).
		Count(&count).Error
	return count, err
}

// DistinctActiveStudents 最近有学习活动的学生，每日教练任务的驱动列表
func (r *StudyRepository) DistinctActiveStudents(since time.Time) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.StudySession{}).
		Distinct("student_id").
		Where("started_at >= ?", since).
		Pluck("student_id", &ids).Error
	return ids, err
}
