package service

import (
	"study_coach_backend/internal/config"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/repository"
	"study_coach_backend/internal/util"
	"study_coach_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
)

type CompletionService struct {
	RepetitionRepo *repository.RepetitionRepository
	WeakAreaRepo   *repository.WeakAreaRepository
	Milestones     *MilestoneService
	Settings       *config.CoachingSettings

	Now func() time.Time
}

func NewCompletionService(
	repetitionRepo *repository.RepetitionRepository,
	weakAreaRepo *repository.WeakAreaRepository,
	milestones *MilestoneService,
	settings *config.CoachingSettings,
) *CompletionService {
	return &CompletionService{
		RepetitionRepo: repetitionRepo,
		WeakAreaRepo:   weakAreaRepo,
		Milestones:     milestones,
		Settings:       settings,
		Now:            time.Now,
	}
}

// CompleteRepetition 记录一次重复练习的结果并把它折算进父薄弱点。
// 先读出计划条目和薄弱点两条记录、校验通过后才开始写：
// 任何一条不存在都直接返回 NotFound，不产生部分更新。
func (s *CompletionService) CompleteRepetition(scheduleID string, outcome model.RepetitionOutcome) (*model.RepetitionSchedule, error) {
	if outcome.AccuracyAchieved < 0 || outcome.AccuracyAchieved > 100 {
		return nil, util.ErrInvalidAccuracy
	}
	if outcome.ProblemsAttempted < 0 || outcome.ProblemsSolved < 0 ||
		outcome.ProblemsSolved > outcome.ProblemsAttempted {
		return nil, util.ErrInvalidOutcome
	}

	entry, err := s.RepetitionRepo.FindByID(scheduleID)
	if err != nil {
		return nil, err
	}
	area, err := s.WeakAreaRepo.FindByID(entry.WeakAreaID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	accuracy := outcome.AccuracyAchieved

	entry.Status = model.RepetitionCompleted
	entry.AccuracyAchieved = &accuracy
	entry.ProblemsAttempted = outcome.ProblemsAttempted
	entry.ProblemsSolved = outcome.ProblemsSolved
	entry.Notes = outcome.Notes
	entry.CompletedAt = &now

	if err := s.RepetitionRepo.Update(entry); err != nil {
		return nil, err
	}

	previousAccuracy := area.CurrentAccuracy

	area.TimesRepeated++
	// 当前正确率取最新观测值覆盖，不做滚动平均
	area.CurrentAccuracy = accuracy
	area.AttemptsCount += outcome.ProblemsAttempted
	failures := outcome.ProblemsAttempted - outcome.ProblemsSolved
	if failures < 0 {
		failures = 0
	}
	area.FailuresCount += failures
	area.LastPracticedAt = &now

	applyStatusTransition(area, accuracy, now, s.Settings.Snapshot().ResolveStreakRequired)

	if err := s.WeakAreaRepo.Update(area); err != nil {
		return nil, err
	}

	if accuracy >= area.TargetAccuracy {
		if _, err := s.Milestones.EmitTargetReached(area, previousAccuracy, accuracy); err != nil {
			// 里程碑是锦上添花，发不出来不应让完成操作整体失败
			logger.Log.Error("failed to emit milestone",
				zap.String("weakAreaId", area.ID), zap.Error(err))
		}
	}

	logger.Log.Info("repetition completed",
		zap.String("scheduleId", entry.ID),
		zap.String("weakAreaId", area.ID),
		zap.Float64("accuracy", accuracy),
		zap.String("status", string(area.Status)))

	return entry, nil
}

// applyStatusTransition 显式的状态迁移规则：
// 连续 N 次（默认 2）达标 → resolved；当前正确率高于初始 → improving。
// ignored 由学生手工设置，这里不碰。
func applyStatusTransition(area *model.WeakArea, accuracy float64, now time.Time, required int) {
	if area.Status == model.WeakAreaIgnored {
		return
	}

	if accuracy >= area.TargetAccuracy {
		area.ConsecutiveOnTarget++
	} else {
		area.ConsecutiveOnTarget = 0
	}

	if required <= 0 {
		required = 2
	}

	switch {
	case area.ConsecutiveOnTarget >= required:
		if area.Status != model.WeakAreaResolved {
			area.Status = model.WeakAreaResolved
			area.ResolvedAt = &now
		}
	case area.CurrentAccuracy > area.InitialAccuracy:
		if area.Status == model.WeakAreaActive {
			area.Status = model.WeakAreaImproving
		}
	}
}

// IgnoreWeakArea 学生主动忽略一个薄弱点
func (s *CompletionService) IgnoreWeakArea(weakAreaID, studentID string) error {
	area, err := s.WeakAreaRepo.FindByID(weakAreaID)
	if err != nil {
		return err
	}
	if area.StudentID != studentID {
		return util.ErrWeakAreaNotFound
	}
	area.Status = model.WeakAreaIgnored
	return s.WeakAreaRepo.Update(area)
}
