package service

import (
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/repository"
	"study_coach_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) (*SchedulerService, *repository.WeakAreaRepository) {
	db := newTestDB(t)
	weakAreas := repository.NewWeakAreaRepository(db)
	repetitions := repository.NewRepetitionRepository(db)
	svc := NewSchedulerService(weakAreas, repetitions, nil, testCoachingSettings())
	return svc, weakAreas
}

func seedWeakArea(t *testing.T, repo *repository.WeakAreaRepository) *model.WeakArea {
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
		Status:            model.WeakAreaActive,
		TargetRepetitions: 5,
	}
	require.NoError(t, repo.Upsert(area))
	return area
}

func TestCreateRepetitionPlan_SpacingAndContentRotation(t *testing.T) {
	svc, weakAreas := newTestScheduler(t)
	area := seedWeakArea(t, weakAreas)

	now := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	entries, err := svc.CreateRepetitionPlan(area.ID)
	require.NoError(t, err)
	require.Len(t, entries, 5)

	wantTypes := []model.RepetitionContentType{
		model.ContentFlashcards,
		model.ContentFlashcards,
		model.ContentProblems,
		model.ContentProblems,
		model.ContentMixed,
	}
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.RepetitionNumber)
		assert.True(t, entry.ScheduledDate.Equal(now.AddDate(0, 0, 3*(i+1))),
			"entry %d scheduled at %v", i, entry.ScheduledDate)
		assert.Equal(t, wantTypes[i], entry.ContentType)
		assert.Equal(t, 30+10*i, entry.EstimatedMinutes)
		assert.Equal(t, model.RepetitionScheduled, entry.Status)
		assert.Equal(t, area.ID, entry.WeakAreaID)
		assert.Equal(t, "stu-1", entry.StudentID)
	}
}

func TestCreateRepetitionPlan_SecondInvocationRejected(t *testing.T) {
	svc, weakAreas := newTestScheduler(t)
	area := seedWeakArea(t, weakAreas)

	_, err := svc.CreateRepetitionPlan(area.ID)
	require.NoError(t, err)

	_, err = svc.CreateRepetitionPlan(area.ID)
	assert.ErrorIs(t, err, util.ErrScheduleExists)
}

func TestCreateRepetitionPlan_UnknownWeakArea(t *testing.T) {
	svc, _ := newTestScheduler(t)

	_, err := svc.CreateRepetitionPlan("no-such-id")
	assert.ErrorIs(t, err, util.ErrWeakAreaNotFound)
}

func TestCreateRepetitionPlan_FallsBackToDefaultRepetitions(t *testing.T) {
	svc, weakAreas := newTestScheduler(t)
	area := &model.WeakArea{
		StudentID: "stu-2", Subject: "物理", Topic: "电磁",
		Severity: model.SeverityHigh, Priority: 2,
		Status: model.WeakAreaActive,
		// TargetRepetitions 缺省为 0，应回落到配置值
	}
	require.NoError(t, weakAreas.Upsert(area))

	entries, err := svc.CreateRepetitionPlan(area.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestListUpcoming_DefaultHorizonCoversWholePlan(t *testing.T) {
	svc, weakAreas := newTestScheduler(t)
	area := seedWeakArea(t, weakAreas)

	now := time.Date(2026, 8, 26, 10, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	_, err := svc.CreateRepetitionPlan(area.ID)
	require.NoError(t, err)

	entries, err := svc.ListUpcoming("stu-1", 0)
	require.NoError(t, err)
	assert.Len(t, entries, 5)

	entries, err = svc.ListUpcoming("stu-1", 7)
	require.NoError(t, err)
	assert.Len(t, entries, 2) // 第 3、6 天两条
}
