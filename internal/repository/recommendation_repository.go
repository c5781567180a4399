package repository

import (
	"errors"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/util"

	"gorm.io/gorm"
)

type RecommendationRepository struct {
	DB *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{DB: db}
}

func (r *RecommendationRepository) CreateBatch(recs []model.CoachingRecommendation) error {
	if len(recs) == 0 {
		return nil
	}
	return r.DB.CreateInBatches(recs, len(recs)).Error
}

func (r *RecommendationRepository) FindByID(id string) (*model.CoachingRecommendation, error) {
	var rec model.CoachingRecommendation
	err := r.DB.First(&rec, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrRecNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *RecommendationRepository) Update(rec *model.CoachingRecommendation) error {
	return r.DB.Save(rec).Error
}

func (r *RecommendationRepository) ListForStudent(studentID string, status model.RecommendationStatus) ([]model.CoachingRecommendation, error) {
	query := r.DB.Where("student_id = ?", studentID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var recs []model.CoachingRecommendation
	err := query.Order("created_at DESC").Find(&recs).Error
	return recs, err
}

func (r *RecommendationRepository) ListForSession(sessionID string) ([]model.CoachingRecommendation, error) {
	var recs []model.CoachingRecommendation
	err := r.DB.
		Where("coaching_session_id = ?", sessionID).
		Find(&recs).Error
	return recs, err
}
