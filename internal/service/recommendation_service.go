package service

import (
	"fmt"
	"study_coach_backend/internal/config"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/repository"
	"study_coach_backend/internal/util"
	"time"
)

type RecommendationService struct {
	RecRepo      *repository.RecommendationRepository
	WeakAreaRepo *repository.WeakAreaRepository
	Settings     *config.CoachingSettings

	Now func() time.Time
}

func NewRecommendationService(
	recRepo *repository.RecommendationRepository,
	weakAreaRepo *repository.WeakAreaRepository,
	settings *config.CoachingSettings,
) *RecommendationService {
	return &RecommendationService{
		RecRepo:      recRepo,
		WeakAreaRepo: weakAreaRepo,
		Settings:     settings,
		Now:          time.Now,
	}
}

// GenerateForSession 把一次教练会话的高优先级薄弱点转成可执行建议。
// priority ≤ 2 的薄弱点各生成一条 practice 建议；
// 活跃薄弱点超过阈值（默认 5）时额外生成一条 study_plan 建议。
func (s *RecommendationService) GenerateForSession(studentID, sessionID string, areas []model.WeakArea) ([]model.CoachingRecommendation, error) {
	recs := make([]model.CoachingRecommendation, 0, len(areas)+1)

	for i := range areas {
		area := &areas[i]
		if area.Priority > 2 {
			continue
		}

		priority := model.RecPriorityHigh
		if area.Severity == model.SeverityCritical {
			priority = model.RecPriorityUrgent
		}

		steps := area.AIRecommendations
		if len(steps) == 0 {
			steps = util.FallbackActionSteps
		}

		weakAreaID := area.ID
		recs = append(recs, model.CoachingRecommendation{
			StudentID:         studentID,
			WeakAreaID:        &weakAreaID,
			CoachingSessionID: &sessionID,
			Type:              model.RecommendationPractice,
			Priority:          priority,
			Title:             fmt.Sprintf("针对性练习：%s / %s", area.Subject, area.Topic),
			Description: fmt.Sprintf("当前正确率 %.1f%%，目标 %.0f%%。%s",
				area.CurrentAccuracy, area.TargetAccuracy, area.IdentificationReason),
			ActionSteps:          steps,
			TutorRequired:        area.Severity == model.SeverityCritical,
			Status:               model.RecStatusPending,
			CompletionPercentage: 0,
		})
	}

	activeCount, err := s.WeakAreaRepo.CountByStatus(studentID, model.WeakAreaActive)
	if err != nil {
		return nil, err
	}
	if int(activeCount) > s.Settings.Snapshot().StudyPlanThreshold {
		recs = append(recs, model.CoachingRecommendation{
			StudentID:         studentID,
			CoachingSessionID: &sessionID,
			Type:              model.RecommendationStudyPlan,
			Priority:          model.RecPriorityHigh,
			Title:             "薄弱点过多，建议制定学习计划",
			Description: fmt.Sprintf("当前有 %d 个活跃薄弱点，同时推进容易分散精力。", activeCount),
			ActionSteps: []string{
				"按优先级挑出最重要的 3 个薄弱点",
				"给每个薄弱点划定固定的每日时间块",
				"其余薄弱点暂时搁置，两周后再评估",
			},
			Status:               model.RecStatusPending,
			CompletionPercentage: 0,
		})
	}

	if err := s.RecRepo.CreateBatch(recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// UpdateStatus 学生驱动的建议生命周期：pending → in_progress → completed / dismissed。
// completed 与 dismissed 是终态。
func (s *RecommendationService) UpdateStatus(recID, studentID string, update model.RecommendationStatusUpdate) (*model.CoachingRecommendation, error) {
	rec, err := s.RecRepo.FindByID(recID)
	if err != nil {
		return nil, err
	}
	if rec.StudentID != studentID {
		return nil, util.ErrRecNotFound
	}

	if rec.Status == model.RecStatusCompleted || rec.Status == model.RecStatusDismissed {
		return nil, util.ErrInvalidStatus
	}

	now := s.Now()
	switch update.Status {
	case model.RecStatusInProgress:
		rec.Status = model.RecStatusInProgress
		pct := update.CompletionPercentage
		if pct < 0 {
			pct = 0
		}
		if pct > 99 {
			pct = 99
		}
		rec.CompletionPercentage = pct
	case model.RecStatusCompleted:
		rec.Status = model.RecStatusCompleted
		rec.CompletionPercentage = 100
		rec.CompletedAt = &now
	case model.RecStatusDismissed:
		rec.Status = model.RecStatusDismissed
		rec.DismissedAt = &now
	default:
		return nil, util.ErrInvalidStatus
	}

	if err := s.RecRepo.Update(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *RecommendationService) ListForStudent(studentID string, status model.RecommendationStatus) ([]model.CoachingRecommendation, error) {
	return s.RecRepo.ListForStudent(studentID, status)
}
