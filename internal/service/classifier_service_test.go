package service

import (
	"errors"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/repository"
	"study_coach_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityForAccuracy(t *testing.T) {
	cases := []struct {
		accuracy float64
		want     model.WeakAreaSeverity
	}{
		{45, model.SeverityCritical},
		{49.9, model.SeverityCritical},
		{50, model.SeverityHigh},
		{55, model.SeverityHigh},
		{60, model.SeverityMedium},
		{65, model.SeverityMedium},
		{70, model.SeverityLow},
		{85, model.SeverityLow},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, SeverityForAccuracy(tc.accuracy).Severity(),
			"accuracy %.1f", tc.accuracy)
	}
}

type failingCardSource struct{}

func (failingCardSource) ListLowAccuracyCards(string, float64) ([]model.Flashcard, error) {
	return nil, errors.New("card store down")
}

type failingChapterSource struct{}

func (failingChapterSource) ListStrugglingChapters(string, int) ([]model.ChapterProgress, error) {
	return nil, errors.New("chapter store down")
}

func TestClassifyWeakAreas_MergesCardAndChapterSignals(t *testing.T) {
	db := newTestDB(t)
	signals := repository.NewSignalRepository(db)
	weakAreas := repository.NewWeakAreaRepository(db)
	svc := NewClassifierService(signals, signals, weakAreas, testCoachingSettings())

	// 同一 (学科, 主题) 同时有低正确率卡和挣扎章节
	require.NoError(t, db.Create(&model.Flashcard{
		StudentID: "stu-1", Subject: "数学", Topic: "代数",
		TimesReviewed: 10, TimesCorrect: 4, AccuracyPercent: 40,
	}).Error)
	require.NoError(t, db.Create(&model.Flashcard{
		StudentID: "stu-1", Subject: "数学", Topic: "代数",
		TimesReviewed: 10, TimesCorrect: 5, AccuracyPercent: 50,
	}).Error)
	require.NoError(t, db.Create(&model.ChapterProgress{
		StudentID: "stu-1", Subject: "数学", Chapter: "代数",
		UnderstandingLevel: 2, Confidence: model.ConfidenceLow, NeedsTutorHelp: true,
	}).Error)
	// 高理解度章节不应成为候选
	require.NoError(t, db.Create(&model.ChapterProgress{
		StudentID: "stu-1", Subject: "数学", Chapter: "几何",
		UnderstandingLevel: 4, Confidence: model.ConfidenceHigh,
	}).Error)

	areas, err := svc.ClassifyWeakAreas("stu-1")
	require.NoError(t, err)
	require.Len(t, areas, 1)

	var stored []model.WeakArea
	require.NoError(t, db.Find(&stored).Error)
	require.Len(t, stored, 1)

	area := stored[0]
	// 卡路径平均 45% → critical；章节路径请求了辅导 → 优先级 1
	assert.Equal(t, model.SeverityCritical, area.Severity)
	assert.Equal(t, 1, area.Priority)
	assert.InDelta(t, 45.0, area.CurrentAccuracy, 0.001)
	assert.InDelta(t, 45.0, area.InitialAccuracy, 0.001)
	assert.Equal(t, 20, area.AttemptsCount)
	assert.Equal(t, 11, area.FailuresCount) // round(20 × 55%)
	assert.Equal(t, model.WeakAreaActive, area.Status)
	assert.Equal(t, 85.0, area.TargetAccuracy)
	assert.Equal(t, 5, area.TargetRepetitions)
	assert.Contains(t, area.IdentificationReason, "；")
}

func TestClassifyWeakAreas_RerunDoesNotDuplicate(t *testing.T) {
	db := newTestDB(t)
	signals := repository.NewSignalRepository(db)
	weakAreas := repository.NewWeakAreaRepository(db)
	svc := NewClassifierService(signals, signals, weakAreas, testCoachingSettings())

	require.NoError(t, db.Create(&model.Flashcard{
		StudentID: "stu-1", Subject: "物理", Topic: "力学",
		TimesReviewed: 8, TimesCorrect: 4, AccuracyPercent: 50,
	}).Error)

	_, err := svc.ClassifyWeakAreas("stu-1")
	require.NoError(t, err)
	_, err = svc.ClassifyWeakAreas("stu-1")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.WeakArea{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestClassifyWeakAreas_ToleratesSingleSourceFailure(t *testing.T) {
	db := newTestDB(t)
	signals := repository.NewSignalRepository(db)
	weakAreas := repository.NewWeakAreaRepository(db)
	svc := NewClassifierService(failingCardSource{}, signals, weakAreas, testCoachingSettings())

	require.NoError(t, db.Create(&model.ChapterProgress{
		StudentID: "stu-1", Subject: "化学", Chapter: "有机",
		UnderstandingLevel: 1, Confidence: model.ConfidenceLow,
	}).Error)

	areas, err := svc.ClassifyWeakAreas("stu-1")
	require.NoError(t, err)
	require.Len(t, areas, 1)
	assert.Equal(t, model.SeverityCritical, areas[0].Severity)
	assert.Equal(t, "化学", areas[0].Subject)
}

// 配置热更新与分类运行并发发生时不应产生数据竞争，
// 每次运行读到的是一份完整一致的参数快照。依赖 -race 检测。
func TestClassifyWeakAreas_ConcurrentConfigReload(t *testing.T) {
	db := newTestDB(t)
	signals := repository.NewSignalRepository(db)
	weakAreas := repository.NewWeakAreaRepository(db)
	settings := testCoachingSettings()
	svc := NewClassifierService(signals, signals, weakAreas, settings)

	require.NoError(t, db.Create(&model.Flashcard{
		StudentID: "stu-1", Subject: "数学", Topic: "代数",
		TimesReviewed: 10, TimesCorrect: 4, AccuracyPercent: 40,
	}).Error)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			cfg := testCoachingConfig()
			cfg.DefaultTargetAccuracy = 80 + float64(i%10)
			settings.Replace(cfg)
		}
	}()

	for i := 0; i < 20; i++ {
		areas, err := svc.ClassifyWeakAreas("stu-1")
		require.NoError(t, err)
		require.Len(t, areas, 1)
		// 目标正确率来自某一份完整快照
		assert.GreaterOrEqual(t, areas[0].TargetAccuracy, 80.0)
	}
	<-done
}

func TestClassifyWeakAreas_FailsWhenBothSourcesDown(t *testing.T) {
	db := newTestDB(t)
	weakAreas := repository.NewWeakAreaRepository(db)
	svc := NewClassifierService(failingCardSource{}, failingChapterSource{}, weakAreas, testCoachingSettings())

	_, err := svc.ClassifyWeakAreas("stu-1")
	assert.ErrorIs(t, err, util.ErrSignalsUnavailable)
}
