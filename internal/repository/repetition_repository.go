package repository

import (
	"errors"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type RepetitionRepository struct {
	DB *gorm.DB
}

func NewRepetitionRepository(db *gorm.DB) *RepetitionRepository {
	return &RepetitionRepository{DB: db}
}

// CreateBatch 一次性写入整批重复计划条目
func (r *RepetitionRepository) CreateBatch(entries []model.RepetitionSchedule) error {
	if len(entries) == 0 {
		return nil
	}
	return r.DB.CreateInBatches(entries, len(entries)).Error
}

func (r *RepetitionRepository) FindByID(id string) (*model.RepetitionSchedule, error) {
	var entry model.RepetitionSchedule
	err := r.DB.First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRepetitionNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *RepetitionRepository) Update(entry *model.RepetitionSchedule) error {
	return r.DB.Save(entry).Error
}

// CountScheduledForWeakArea 调用方在创建新批次前必须先检查是否已有未完成的计划
func (r *RepetitionRepository) CountScheduledForWeakArea(weakAreaID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.RepetitionSchedule{}).
		Where("weak_area_id = ? AND status = ?", weakAreaID, model.RepetitionScheduled).
		Count(&count).Error
	return count, err
}

func (r *RepetitionRepository) ListForWeakArea(weakAreaID string) ([]model.RepetitionSchedule, error) {
	var entries []model.RepetitionSchedule
	err := r.DB.
		Where("weak_area_id = ?", weakAreaID).
		Order("repetition_number ASC").
		Find(&entries).Error
	return entries, err
}

// ListUpcomingForStudent 学生视角的待办练习，按日期排序
func (r *RepetitionRepository) ListUpcomingForStudent(studentID string, until time.Time) ([]model.RepetitionSchedule, error) {
	var entries []model.RepetitionSchedule
	err := r.DB.
		Where("student_id = ? AND status = ? AND scheduled_date <= ?", studentID, model.RepetitionScheduled, until).
		Order("scheduled_date ASC").
		Find(&entries).Error
	return entries, err
}
