package repository

import (
	"errors"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/util"

	"gorm.io/gorm"
)

type CoachingSessionRepository struct {
	DB *gorm.DB
}

func NewCoachingSessionRepository(db *gorm.DB) *CoachingSessionRepository {
	return &CoachingSessionRepository{DB: db}
}

func (r *CoachingSessionRepository) Create(session *model.CoachingSession) error {
	return r.DB.Create(session).Error
}

func (r *CoachingSessionRepository) FindByID(id string) (*model.CoachingSession, error) {
	var session model.CoachingSession
	err := r.DB.First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *CoachingSessionRepository) FindLatest(studentID string) (*model.CoachingSession, error) {
	var session model.CoachingSession
	err := r.DB.
		Where("student_id = ?", studentID).
		Order("session_date DESC").
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// MarkViewed 快照本身不可变，student_viewed 是唯一允许 UI 置位的字段
func (r *CoachingSessionRepository) MarkViewed(id, studentID string) error {
	res := r.DB.Model(&model.CoachingSession{}).
		Where("id = ? AND student_id = ?", id, studentID).
		Update("student_viewed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrSessionNotFound
	}
	return nil
}

func (r *CoachingSessionRepository) ListByStudent(studentID string, limit int) ([]model.CoachingSession, error) {
	var sessions []model.CoachingSession
	err := r.DB.
		Where("student_id = ?", studentID).
		Order("session_date DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}
