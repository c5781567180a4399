package repository

import (
	"errors"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/util"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WeakAreaRepository struct {
	DB *gorm.DB
}

func NewWeakAreaRepository(db *gorm.DB) *WeakAreaRepository {
	return &WeakAreaRepository{DB: db}
}

// Upsert 以 (student_id, subject, topic, subtopic) 为冲突键写入薄弱点。
// 冲突时只就地更新分类结果字段；初始正确率、计数器和状态是插入时一次性写入的，
// 后续由完成追踪器维护，分类器重跑不能覆盖。
func (r *WeakAreaRepository) Upsert(area *model.WeakArea) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "student_id"},
			{Name: "subject"},
			{Name: "topic"},
			{Name: "subtopic"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"severity",
			"priority",
			"current_accuracy_percentage",
			"identification_reason",
			"ai_recommendations",
			"updated_at",
		}),
	}).Create(area).Error
}

func (r *WeakAreaRepository) FindByID(id string) (*model.WeakArea, error) {
	var area model.WeakArea
	err := r.DB.First(&area, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrWeakAreaNotFound
		}
		return nil, err
	}
	return &area, nil
}

func (r *WeakAreaRepository) Update(area *model.WeakArea) error {
	return r.DB.Save(area).Error
}

// ListTopPriority 按优先级升序（1 最高）、严重度次序读取学生待处理的薄弱点
func (r *WeakAreaRepository) ListTopPriority(studentID string, limit int) ([]model.WeakArea, error) {
	var areas []model.WeakArea
	err := r.DB.
		Where("student_id = ? AND status IN ?", studentID, []model.WeakAreaStatus{model.WeakAreaActive, model.WeakAreaImproving}).
		Order("priority ASC, current_accuracy_percentage ASC").
		Limit(limit).
		Find(&areas).Error
	return areas, err
}

func (r *WeakAreaRepository) ListByStudent(studentID string) ([]model.WeakArea, error) {
	var areas []model.WeakArea
	err := r.DB.
		Where("student_id = ?", studentID).
		Order("priority ASC, created_at DESC").
		Find(&areas).Error
	return areas, err
}

func (r *WeakAreaRepository) CountByStatus(studentID string, status model.WeakAreaStatus) (int64, error) {
	var count int64
	err := r.DB.Model(&model.WeakArea{}).
		Where("student_id = ? AND status = ?", studentID, status).
		Count(&count).Error
	return count, err
}

// CountResolvedBetween 统计窗口内被标记为 resolved 的薄弱点数量
func (r *WeakAreaRepository) CountResolvedBetween(studentID string, from, to time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.WeakArea{}).
		Where("student_id = ? AND resolved_at BETWEEN ? AND ?", studentID, from, to).
		Count(&count).Error
	return count, err
}

// CountCreatedBetween 统计窗口内新识别出的薄弱点数量
func (r *WeakAreaRepository) CountCreatedBetween(studentID string, from, to time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.WeakArea{}).
		Where("student_id = ? AND created_at BETWEEN ? AND ?", studentID, from, to).
		Count(&count).Error
	return count, err
}
