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

func newTestAnalytics(t *testing.T) (*AnalyticsService, *gorm.DB) {
	db := newTestDB(t)
	svc := NewAnalyticsService(
		repository.NewStudyRepository(db),
		repository.NewWeakAreaRepository(db),
		repository.NewAnalyticsRepository(db),
		testCoachingSettings(),
	)
	return svc, db
}

func TestComputePerformance_AggregatesWindow(t *testing.T) {
	svc, db := newTestAnalytics(t)

	now := time.Date(2026, 8, 26, 18, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	// 今天、昨天、前天各一次自习，共 2 小时
	for i, minutes := range []int{60, 30, 30} {
		require.NoError(t, db.Create(&model.StudySession{
			StudentID:       "stu-1",
			StartedAt:       now.AddDate(0, 0, -i),
			DurationMinutes: minutes,
		}).Error)
	}
	// 窗口外的自习不计入
	require.NoError(t, db.Create(&model.StudySession{
		StudentID: "stu-1", StartedAt: now.AddDate(0, 0, -10), DurationMinutes: 120,
	}).Error)

	// 数学 4 次复习对 3 次，物理 2 次对 1 次
	reviews := []struct {
		subject string
		correct bool
	}{
		{"数学", true}, {"数学", true}, {"数学", true}, {"数学", false},
		{"物理", true}, {"物理", false},
	}
	for _, rv := range reviews {
		require.NoError(t, db.Create(&model.FlashcardReview{
			StudentID: "stu-1", Subject: rv.subject,
			IsCorrect: rv.correct, ReviewedAt: now.Add(-time.Hour),
		}).Error)
	}

	// 一个活跃、一个窗口内已解决的薄弱点
	resolvedAt := now.AddDate(0, 0, -1)
	require.NoError(t, db.Create(&model.WeakArea{
		StudentID: "stu-1", Subject: "数学", Topic: "代数",
		Severity: model.SeverityHigh, Priority: 2, Status: model.WeakAreaActive,
	}).Error)
	require.NoError(t, db.Create(&model.WeakArea{
		StudentID: "stu-1", Subject: "物理", Topic: "力学",
		Severity: model.SeverityMedium, Priority: 3,
		Status: model.WeakAreaResolved, ResolvedAt: &resolvedAt,
	}).Error)

	require.NoError(t, db.Create(&model.TutoringSession{
		StudentID: "stu-1", Subject: "数学", ScheduledAt: now.AddDate(0, 0, -2),
	}).Error)

	row, err := svc.ComputePerformance("stu-1", model.PeriodWeekly, 7)
	require.NoError(t, err)

	assert.Equal(t, model.PeriodWeekly, row.PeriodType)
	assert.Equal(t, 7, row.PeriodDays)
	assert.InDelta(t, 2.0, row.StudyHours, 0.001)
	assert.InDelta(t, 3.0/7.0*100, row.ConsistencyScore, 0.001)
	assert.Equal(t, 3, row.StudyStreakDays)
	assert.Equal(t, 6, row.TotalReviews)
	assert.Equal(t, 4, row.CorrectReviews)
	assert.InDelta(t, 75.0, row.SubjectAccuracy["数学"], 0.001)
	assert.InDelta(t, 50.0, row.SubjectAccuracy["物理"], 0.001)
	assert.Equal(t, 1, row.ActiveWeakAreas)
	assert.Equal(t, 1, row.ResolvedWeakAreas)
	assert.Equal(t, 2, row.NewWeakAreas)
	assert.Equal(t, 1, row.TutoringSessionsCount)

	// analysis_date 截断到当天零点
	assert.Equal(t, time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC), row.AnalysisDate)
}

func TestComputePerformance_RecomputeReplacesRow(t *testing.T) {
	svc, db := newTestAnalytics(t)

	now := time.Date(2026, 8, 26, 18, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	_, err := svc.ComputePerformance("stu-1", model.PeriodWeekly, 7)
	require.NoError(t, err)

	// 补录一次自习后重算，应替换同一行而不是新增
	require.NoError(t, db.Create(&model.StudySession{
		StudentID: "stu-1", StartedAt: now.Add(-time.Hour), DurationMinutes: 45,
	}).Error)

	row, err := svc.ComputePerformance("stu-1", model.PeriodWeekly, 7)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, row.StudyHours, 0.001)

	var count int64
	require.NoError(t, db.Model(&model.PerformanceAnalytics{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	latest, err := svc.Latest("stu-1", model.PeriodWeekly)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, latest.StudyHours, 0.001)
}

func TestLatest_NoDataYet(t *testing.T) {
	svc, _ := newTestAnalytics(t)

	_, err := svc.Latest("stu-1", model.PeriodWeekly)
	assert.ErrorIs(t, err, util.ErrAnalyticsNotFound)
}

func TestStudyStreak_FallsBackToYesterday(t *testing.T) {
	now := time.Date(2026, 8, 26, 9, 0, 0, 0, time.UTC)

	days := map[string]bool{
		"2026-08-25": true,
		"2026-08-24": true,
	}
	assert.Equal(t, 2, studyStreak(days, now))

	days["2026-08-26"] = true
	assert.Equal(t, 3, studyStreak(days, now))

	// 断档在前天，昨天没学 → 0
	assert.Equal(t, 0, studyStreak(map[string]bool{"2026-08-23": true}, now))
}
