package service

import (
	"study_coach_backend/internal/config"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/repository"
	"study_coach_backend/internal/util"
	"time"
)

type AnalyticsService struct {
	StudyRepo     *repository.StudyRepository
	WeakAreaRepo  *repository.WeakAreaRepository
	AnalyticsRepo *repository.AnalyticsRepository
	Settings      *config.CoachingSettings

	Now func() time.Time
}

func NewAnalyticsService(
	studyRepo *repository.StudyRepository,
	weakAreaRepo *repository.WeakAreaRepository,
	analyticsRepo *repository.AnalyticsRepository,
	settings *config.CoachingSettings,
) *AnalyticsService {
	return &AnalyticsService{
		StudyRepo:     studyRepo,
		WeakAreaRepo:  weakAreaRepo,
		AnalyticsRepo: analyticsRepo,
		Settings:      settings,
		Now:           time.Now,
	}
}

// ComputePerformance 把一个滚动窗口内的学习活动汇总成一行分析结果。
// 以 (student_id, analysis_date, period_type) upsert，同一天重算等于替换。
func (s *AnalyticsService) ComputePerformance(studentID string, periodType model.AnalyticsPeriod, periodDays int) (*model.PerformanceAnalytics, error) {
	if periodDays <= 0 {
		periodDays = s.Settings.Snapshot().AnalysisPeriodDays
	}

	now := s.Now()
	from := now.AddDate(0, 0, -periodDays)

	sessions, err := s.StudyRepo.ListSessionsBetween(studentID, from, now)
	if err != nil {
		return nil, err
	}

	totalMinutes := 0
	studyDays := make(map[string]bool)
	for _, sess := range sessions {
		totalMinutes += sess.DurationMinutes
		studyDays[sess.StartedAt.Format(util.DateFormat)] = true
	}

	// 一致性分数 = 有学习记录的天数 ÷ 窗口长度 × 100
	consistency := float64(len(studyDays)) / float64(periodDays) * 100

	reviews, err := s.StudyRepo.ListReviewsBetween(studentID, from, now)
	if err != nil {
		return nil, err
	}

	type tally struct{ total, correct int }
	bySubject := make(map[string]*tally)
	totalReviews, correctReviews := 0, 0
	for _, rv := range reviews {
		t, ok := bySubject[rv.Subject]
		if !ok {
			t = &tally{}
			bySubject[rv.Subject] = t
		}
		t.total++
		totalReviews++
		if rv.IsCorrect {
			t.correct++
			correctReviews++
		}
	}

	subjectAccuracy := make(map[string]float64, len(bySubject))
	for subject, t := range bySubject {
		subjectAccuracy[subject] = float64(t.correct) / float64(t.total) * 100
	}

	active, err := s.WeakAreaRepo.CountByStatus(studentID, model.WeakAreaActive)
	if err != nil {
		return nil, err
	}
	newAreas, err := s.WeakAreaRepo.CountCreatedBetween(studentID, from, now)
	if err != nil {
		return nil, err
	}
	resolved, err := s.WeakAreaRepo.CountResolvedBetween(studentID, from, now)
	if err != nil {
		return nil, err
	}

	tutoring, err := s.StudyRepo.CountTutoringBetween(studentID, from, now)
	if err != nil {
		return nil, err
	}

	analysisDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	row := &model.PerformanceAnalytics{
		StudentID:             studentID,
		AnalysisDate:          analysisDate,
		PeriodType:            periodType,
		PeriodDays:            periodDays,
		StudyHours:            float64(totalMinutes) / 60,
		SubjectAccuracy:       subjectAccuracy,
		TotalReviews:          totalReviews,
		CorrectReviews:        correctReviews,
		ConsistencyScore:      consistency,
		StudyStreakDays:       studyStreak(studyDays, now),
		ActiveWeakAreas:       int(active),
		NewWeakAreas:          int(newAreas),
		ResolvedWeakAreas:     int(resolved),
		TutoringSessionsCount: int(tutoring),
	}

	if err := s.AnalyticsRepo.Upsert(row); err != nil {
		return nil, err
	}
	return row, nil
}

// studyStreak 从今天（今天没学则从昨天）起往回数连续学习天数
func studyStreak(days map[string]bool, now time.Time) int {
	cursor := now
	if !days[cursor.Format(util.DateFormat)] {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for days[cursor.Format(util.DateFormat)] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

func (s *AnalyticsService) Latest(studentID string, periodType model.AnalyticsPeriod) (*model.PerformanceAnalytics, error) {
	return s.AnalyticsRepo.FindLatest(studentID, periodType)
}

func (s *AnalyticsService) History(studentID string, limit int) ([]model.PerformanceAnalytics, error) {
	if limit <= 0 {
		limit = 30
	}
	return s.AnalyticsRepo.ListByStudent(studentID, limit)
}
