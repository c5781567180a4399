package service

import (
	"fmt"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/repository"
	"study_coach_backend/pkg/monitoring"
)

type MilestoneService struct {
	MilestoneRepo *repository.MilestoneRepository
}

func NewMilestoneService(milestoneRepo *repository.MilestoneRepository) *MilestoneService {
	return &MilestoneService{MilestoneRepo: milestoneRepo}
}

// 里程碑积分按薄弱点严重度发放：越难啃下来的骨头分越高
func pointsForSeverity(severity model.WeakAreaSeverity) int {
	switch severity {
	case model.SeverityCritical:
		return 100
	case model.SeverityHigh:
		return 75
	case model.SeverityMedium:
		return 50
	default:
		return 25
	}
}

// EmitTargetReached 记录一次达标事件。里程碑不可变，只增不改。
// 同一薄弱点的再次达标会如实区分描述，避免学生看到重复的"首次达成"。
func (s *MilestoneService) EmitTargetReached(area *model.WeakArea, previous, current float64) (*model.ImprovementMilestone, error) {
	improvement := 0.0
	if previous > 0 {
		improvement = (current - previous) / previous * 100
	}

	prior, err := s.MilestoneRepo.CountForWeakArea(area.ID, model.MilestoneTargetReached)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("%s / %s 正确率达到 %.1f%%，达成目标 %.0f%%！",
		area.Subject, area.Topic, current, area.TargetAccuracy)
	if prior > 0 {
		description = fmt.Sprintf("%s / %s 再次达标：正确率 %.1f%%，第 %d 次稳定在目标 %.0f%% 之上。",
			area.Subject, area.Topic, current, prior+1, area.TargetAccuracy)
	}

	milestone := &model.ImprovementMilestone{
		StudentID:             area.StudentID,
		WeakAreaID:            area.ID,
		Type:                  model.MilestoneTargetReached,
		MetricName:            "accuracy_percentage",
		PreviousValue:         previous,
		CurrentValue:          current,
		ImprovementPercentage: improvement,
		PointsAwarded:         pointsForSeverity(area.Severity),
		Description:           description,
	}

	if err := s.MilestoneRepo.Create(milestone); err != nil {
		return nil, err
	}
	monitoring.MilestonesEmitted.Inc()
	return milestone, nil
}

func (s *MilestoneService) ListForStudent(studentID string, limit int) ([]model.ImprovementMilestone, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.MilestoneRepo.ListForStudent(studentID, limit)
}
