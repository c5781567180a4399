package service

import (
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/repository"
	"study_coach_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type completionFixture struct {
	db          *gorm.DB
	svc         *CompletionService
	weakAreas   *repository.WeakAreaRepository
	repetitions *repository.RepetitionRepository
	milestones  *repository.MilestoneRepository
}

func newCompletionFixture(t *testing.T) *completionFixture {
	db := newTestDB(t)
	weakAreas := repository.NewWeakAreaRepository(db)
	repetitions := repository.NewRepetitionRepository(db)
	milestones := repository.NewMilestoneRepository(db)
	svc := NewCompletionService(repetitions, weakAreas,
		NewMilestoneService(milestones), testCoachingSettings())
	return &completionFixture{db, svc, weakAreas, repetitions, milestones}
}

func (f *completionFixture) seed(t *testing.T) (*model.WeakArea, *model.RepetitionSchedule) {
	t.Helper()
	area := &model.WeakArea{
		StudentID:         "stu-1",
		Subject:           "数学",
		Topic:             "代数",
		Severity:          model.SeverityCritical,
		Priority:          1,
		InitialAccuracy:   40,
		CurrentAccuracy:   40,
		TargetAccuracy:    85,
		AttemptsCount:     20,
		FailuresCount:     12,
		Status:            model.WeakAreaActive,
		TargetRepetitions: 5,
	}
	require.NoError(t, f.weakAreas.Upsert(area))

	entry := &model.RepetitionSchedule{
		WeakAreaID:       area.ID,
		StudentID:        "stu-1",
		RepetitionNumber: 1,
		ScheduledDate:    time.Now(),
		ContentType:      model.ContentFlashcards,
		EstimatedMinutes: 30,
		Status:           model.RepetitionScheduled,
	}
	require.NoError(t, f.db.Create(entry).Error)
	return area, entry
}

func TestCompleteRepetition_UpdatesEntryAndWeakArea(t *testing.T) {
	f := newCompletionFixture(t)
	area, entry := f.seed(t)

	updated, err := f.svc.CompleteRepetition(entry.ID, model.RepetitionOutcome{
		AccuracyAchieved:  70,
		ProblemsAttempted: 10,
		ProblemsSolved:    7,
		Notes:             "有进步",
	})
	require.NoError(t, err)

	assert.Equal(t, model.RepetitionCompleted, updated.Status)
	require.NotNil(t, updated.AccuracyAchieved)
	assert.Equal(t, 70.0, *updated.AccuracyAchieved)
	assert.NotNil(t, updated.CompletedAt)

	stored, err := f.weakAreas.FindByID(area.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TimesRepeated)
	assert.Equal(t, 70.0, stored.CurrentAccuracy) // 最新观测值覆盖
	assert.Equal(t, 30, stored.AttemptsCount)
	assert.Equal(t, 15, stored.FailuresCount)
	assert.NotNil(t, stored.LastPracticedAt)
	// 高于初始但未达标 → improving
	assert.Equal(t, model.WeakAreaImproving, stored.Status)
	assert.Equal(t, 0, stored.ConsecutiveOnTarget)

	// 未达标不发里程碑
	var count int64
	require.NoError(t, f.db.Model(&model.ImprovementMilestone{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCompleteRepetition_ResolvesAfterConsecutiveOnTarget(t *testing.T) {
	f := newCompletionFixture(t)
	area, entry := f.seed(t)

	entry2 := &model.RepetitionSchedule{
		WeakAreaID: area.ID, StudentID: "stu-1",
		RepetitionNumber: 2, ScheduledDate: time.Now().AddDate(0, 0, 3),
		ContentType: model.ContentFlashcards, Status: model.RepetitionScheduled,
	}
	require.NoError(t, f.db.Create(entry2).Error)

	outcome := model.RepetitionOutcome{AccuracyAchieved: 90, ProblemsAttempted: 10, ProblemsSolved: 9}

	_, err := f.svc.CompleteRepetition(entry.ID, outcome)
	require.NoError(t, err)

	stored, err := f.weakAreas.FindByID(area.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ConsecutiveOnTarget)
	assert.NotEqual(t, model.WeakAreaResolved, stored.Status)

	_, err = f.svc.CompleteRepetition(entry2.ID, outcome)
	require.NoError(t, err)

	stored, err = f.weakAreas.FindByID(area.ID)
	require.NoError(t, err)
	assert.Equal(t, model.WeakAreaResolved, stored.Status)
	assert.NotNil(t, stored.ResolvedAt)

	// 每次达标各发一条里程碑，critical 薄弱点每条 100 分
	var milestones []model.ImprovementMilestone
	require.NoError(t, f.db.Find(&milestones).Error)
	require.Len(t, milestones, 2)
	for _, m := range milestones {
		assert.Equal(t, model.MilestoneTargetReached, m.Type)
		assert.Equal(t, 100, m.PointsAwarded)
		assert.Equal(t, area.ID, m.WeakAreaID)
	}
	// 从 40 提升到 90 的那条记 +125%；同一薄弱点的第二次达标描述为再次达标
	found := false
	for _, m := range milestones {
		if m.PreviousValue == 40 {
			assert.InDelta(t, 125.0, m.ImprovementPercentage, 0.001)
			assert.Contains(t, m.Description, "达成目标")
			found = true
		} else {
			assert.Contains(t, m.Description, "再次达标")
		}
	}
	assert.True(t, found)
}

func TestCompleteRepetition_MilestoneAtExactTarget(t *testing.T) {
	f := newCompletionFixture(t)
	_, entry := f.seed(t)

	// 恰好达到目标也算达标
	_, err := f.svc.CompleteRepetition(entry.ID,
		model.RepetitionOutcome{AccuracyAchieved: 85, ProblemsAttempted: 20, ProblemsSolved: 17})
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.db.Model(&model.ImprovementMilestone{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCompleteRepetition_OnTargetStreakResetsOnMiss(t *testing.T) {
	f := newCompletionFixture(t)
	area, entry := f.seed(t)

	entry2 := &model.RepetitionSchedule{
		WeakAreaID: area.ID, StudentID: "stu-1",
		RepetitionNumber: 2, ScheduledDate: time.Now().AddDate(0, 0, 3),
		ContentType: model.ContentFlashcards, Status: model.RepetitionScheduled,
	}
	require.NoError(t, f.db.Create(entry2).Error)

	_, err := f.svc.CompleteRepetition(entry.ID,
		model.RepetitionOutcome{AccuracyAchieved: 90, ProblemsAttempted: 10, ProblemsSolved: 9})
	require.NoError(t, err)
	_, err = f.svc.CompleteRepetition(entry2.ID,
		model.RepetitionOutcome{AccuracyAchieved: 60, ProblemsAttempted: 10, ProblemsSolved: 6})
	require.NoError(t, err)

	stored, err := f.weakAreas.FindByID(area.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.ConsecutiveOnTarget)
	assert.NotEqual(t, model.WeakAreaResolved, stored.Status)
}

func TestCompleteRepetition_ValidatesOutcome(t *testing.T) {
	f := newCompletionFixture(t)
	_, entry := f.seed(t)

	_, err := f.svc.CompleteRepetition(entry.ID, model.RepetitionOutcome{AccuracyAchieved: 101})
	assert.ErrorIs(t, err, util.ErrInvalidAccuracy)

	_, err = f.svc.CompleteRepetition(entry.ID, model.RepetitionOutcome{AccuracyAchieved: -1})
	assert.ErrorIs(t, err, util.ErrInvalidAccuracy)

	_, err = f.svc.CompleteRepetition(entry.ID, model.RepetitionOutcome{
		AccuracyAchieved: 50, ProblemsAttempted: 3, ProblemsSolved: 5,
	})
	assert.ErrorIs(t, err, util.ErrInvalidOutcome)
}

func TestCompleteRepetition_UnknownSchedule(t *testing.T) {
	f := newCompletionFixture(t)

	_, err := f.svc.CompleteRepetition("no-such-id", model.RepetitionOutcome{AccuracyAchieved: 50})
	assert.ErrorIs(t, err, util.ErrRepetitionNotFound)
}

func TestCompleteRepetition_IgnoredAreaStaysIgnored(t *testing.T) {
	f := newCompletionFixture(t)
	area, entry := f.seed(t)

	require.NoError(t, f.svc.IgnoreWeakArea(area.ID, "stu-1"))

	_, err := f.svc.CompleteRepetition(entry.ID,
		model.RepetitionOutcome{AccuracyAchieved: 90, ProblemsAttempted: 10, ProblemsSolved: 9})
	require.NoError(t, err)

	stored, err := f.weakAreas.FindByID(area.ID)
	require.NoError(t, err)
	assert.Equal(t, model.WeakAreaIgnored, stored.Status)
}

func TestIgnoreWeakArea_OwnershipEnforced(t *testing.T) {
	f := newCompletionFixture(t)
	area, _ := f.seed(t)

	err := f.svc.IgnoreWeakArea(area.ID, "someone-else")
	assert.ErrorIs(t, err, util.ErrWeakAreaNotFound)
}
