package repository

import (
	"study_coach_backend/internal/model"

	"gorm.io/gorm"
)

type MilestoneRepository struct {
	DB *gorm.DB
}

func NewMilestoneRepository(db *gorm.DB) *MilestoneRepository {
	return &MilestoneRepository{DB: db}
}

func (r *MilestoneRepository) Create(m *model.ImprovementMilestone) error {
	return r.DB.Create(m).Error
}

func (r *MilestoneRepository) ListForStudent(studentID string, limit int) ([]model.ImprovementMilestone, error) {
	var milestones []model.ImprovementMilestone
	err := r.DB.
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Limit(limit).
		Find(&milestones).Error
	return milestones, err
}

func (r *MilestoneRepository) CountForWeakArea(weakAreaID string, mType model.MilestoneType) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ImprovementMilestone{}).
		Where("weak_area_id = ? AND type = ?", weakAreaID, mType).
		Count(&count).Error
	return count, err
}
