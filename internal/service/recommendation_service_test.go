package service

import (
	"fmt"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/repository"
	"study_coach_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRecommendations(t *testing.T) (*RecommendationService, *gorm.DB) {
	db := newTestDB(t)
	svc := NewRecommendationService(
		repository.NewRecommendationRepository(db),
		repository.NewWeakAreaRepository(db),
		testCoachingSettings(),
	)
	return svc, db
}

func TestGenerateForSession_PracticeRecsForHighPriorityAreas(t *testing.T) {
	svc, db := newTestRecommendations(t)

	areas := []model.WeakArea{
		{
			StudentID: "stu-1", Subject: "数学", Topic: "代数",
			Severity: model.SeverityCritical, Priority: 1,
			CurrentAccuracy: 42.5, TargetAccuracy: 85,
			Status: model.WeakAreaActive, IdentificationReason: "练习卡平均正确率 42.5%",
		},
		{
			StudentID: "stu-1", Subject: "物理", Topic: "力学",
			Severity: model.SeverityHigh, Priority: 2,
			CurrentAccuracy: 55, TargetAccuracy: 85,
			Status: model.WeakAreaActive,
			AIRecommendations: []string{"重做错题", "看一遍公式推导"},
		},
		{
			StudentID: "stu-1", Subject: "化学", Topic: "有机",
			Severity: model.SeverityMedium, Priority: 3,
			CurrentAccuracy: 65, TargetAccuracy: 85,
			Status: model.WeakAreaActive,
		},
	}
	for i := range areas {
		require.NoError(t, db.Create(&areas[i]).Error)
	}

	recs, err := svc.GenerateForSession("stu-1", "sess-1", areas)
	require.NoError(t, err)
	// priority 3 不生成；3 个活跃薄弱点未超过阈值 5，无 study_plan
	require.Len(t, recs, 2)

	critical := recs[0]
	assert.Equal(t, model.RecommendationPractice, critical.Type)
	assert.Equal(t, model.RecPriorityUrgent, critical.Priority)
	assert.True(t, critical.TutorRequired)
	assert.Equal(t, util.FallbackActionSteps, critical.ActionSteps)
	assert.Contains(t, critical.Title, "代数")
	assert.Contains(t, critical.Description, "42.5%")
	require.NotNil(t, critical.CoachingSessionID)
	assert.Equal(t, "sess-1", *critical.CoachingSessionID)
	require.NotNil(t, critical.WeakAreaID)
	assert.Equal(t, areas[0].ID, *critical.WeakAreaID)

	high := recs[1]
	assert.Equal(t, model.RecPriorityHigh, high.Priority)
	assert.False(t, high.TutorRequired)
	assert.Equal(t, []string{"重做错题", "看一遍公式推导"}, high.ActionSteps)
	assert.Equal(t, model.RecStatusPending, high.Status)
}

func TestGenerateForSession_StudyPlanWhenTooManyActiveAreas(t *testing.T) {
	svc, db := newTestRecommendations(t)

	for i := 0; i < 6; i++ {
		require.NoError(t, db.Create(&model.WeakArea{
			StudentID: "stu-1", Subject: "数学", Topic: fmt.Sprintf("主题%d", i),
			Severity: model.SeverityMedium, Priority: 3,
			Status: model.WeakAreaActive,
		}).Error)
	}

	recs, err := svc.GenerateForSession("stu-1", "sess-1", nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	plan := recs[0]
	assert.Equal(t, model.RecommendationStudyPlan, plan.Type)
	assert.Equal(t, model.RecPriorityHigh, plan.Priority)
	assert.Contains(t, plan.Description, "6 个活跃薄弱点")
	assert.Len(t, plan.ActionSteps, 3)
}

func TestUpdateStatus_Lifecycle(t *testing.T) {
	svc, db := newTestRecommendations(t)

	rec := &model.CoachingRecommendation{
		StudentID: "stu-1", Type: model.RecommendationPractice,
		Priority: model.RecPriorityHigh, Title: "练习",
		Status: model.RecStatusPending,
	}
	require.NoError(t, db.Create(rec).Error)

	// pending → in_progress，完成度夹在 0–99
	updated, err := svc.UpdateStatus(rec.ID, "stu-1", model.RecommendationStatusUpdate{
		Status: model.RecStatusInProgress, CompletionPercentage: 150,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RecStatusInProgress, updated.Status)
	assert.Equal(t, 99, updated.CompletionPercentage)

	// in_progress → completed，完成度强制 100
	updated, err = svc.UpdateStatus(rec.ID, "stu-1", model.RecommendationStatusUpdate{
		Status: model.RecStatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, 100, updated.CompletionPercentage)
	assert.NotNil(t, updated.CompletedAt)

	// 终态之后拒绝任何变更
	_, err = svc.UpdateStatus(rec.ID, "stu-1", model.RecommendationStatusUpdate{
		Status: model.RecStatusDismissed,
	})
	assert.ErrorIs(t, err, util.ErrInvalidStatus)
}

func TestUpdateStatus_RejectsUnknownTarget(t *testing.T) {
	svc, db := newTestRecommendations(t)

	rec := &model.CoachingRecommendation{
		StudentID: "stu-1", Type: model.RecommendationPractice,
		Priority: model.RecPriorityHigh, Title: "练习",
		Status: model.RecStatusPending,
	}
	require.NoError(t, db.Create(rec).Error)

	_, err := svc.UpdateStatus("no-such-id", "stu-1", model.RecommendationStatusUpdate{
		Status: model.RecStatusCompleted,
	})
	assert.ErrorIs(t, err, util.ErrRecNotFound)

	// 他人的建议等同于不存在
	_, err = svc.UpdateStatus(rec.ID, "stu-2", model.RecommendationStatusUpdate{
		Status: model.RecStatusCompleted,
	})
	assert.ErrorIs(t, err, util.ErrRecNotFound)

	// pending 不是合法的目标状态
	_, err = svc.UpdateStatus(rec.ID, "stu-1", model.RecommendationStatusUpdate{
		Status: model.RecStatusPending,
	})
	assert.ErrorIs(t, err, util.ErrInvalidStatus)
}
