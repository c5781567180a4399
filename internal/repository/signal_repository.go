package repository

import (
	"study_coach_backend/internal/model"

	"gorm.io/gorm"
)

// SignalRepository 只读地访问两类原始表现信号：练习卡和章节自评。
// 两条路径相互独立，分类器可以并发扫描。
type SignalRepository struct {
	DB *gorm.DB
}

func NewSignalRepository(db *gorm.DB) *SignalRepository {
	return &SignalRepository{DB: db}
}

// ListLowAccuracyCards 返回学生所有累计正确率低于阈值且复习过的练习卡
func (r *SignalRepository) ListLowAccuracyCards(studentID string, threshold float64) ([]model.Flashcard, error) {
	var cards []model.Flashcard
	err := r.DB.
		Where("student_id = ? AND times_reviewed > 0 AND accuracy_percentage < ?", studentID, threshold).
		Order("subject ASC, topic ASC").
		Find(&cards).Error
	return cards, err
}

// ListStrugglingChapters 返回自评理解度不高于 maxUnderstanding，
// 或（信心为 low 且请求了辅导）的章节记录
func (r *SignalRepository) ListStrugglingChapters(studentID string, maxUnderstanding int) ([]model.ChapterProgress, error) {
	var chapters []model.ChapterProgress
	err := r.DB.
		Where("student_id = ?", studentID).
		Where("understanding_level <= ? OR (confidence_level = ? AND needs_tutor_help = ?)",
			maxUnderstanding, model.ConfidenceLow, true).
		Order("subject ASC, chapter ASC").
		Find(&chapters).Error
	return chapters, err
}
