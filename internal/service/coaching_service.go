package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"study_coach_backend/internal/config"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/repository"
	"study_coach_backend/internal/util"
	"study_coach_backend/pkg/logger"
	"study_coach_backend/pkg/monitoring"
	"study_coach_backend/pkg/tracing"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// CoachingService 编排一次完整的教练运行：
// 分类 → 分析汇总 → 会话快照 → 建议生成。
// 每个学生的运行相互独立，可以跨学生并行。
type CoachingService struct {
	Classifier      *ClassifierService
	Analytics       *AnalyticsService
	Recommendations *RecommendationService
	WeakAreaRepo    *repository.WeakAreaRepository
	SessionRepo     *repository.CoachingSessionRepository
	StudyRepo       *repository.StudyRepository
	Redis           *redis.Client
	Settings        *config.CoachingSettings

	Now func() time.Time
}

func NewCoachingService(
	classifier *ClassifierService,
	analytics *AnalyticsService,
	recommendations *RecommendationService,
	weakAreaRepo *repository.WeakAreaRepository,
	sessionRepo *repository.CoachingSessionRepository,
	studyRepo *repository.StudyRepository,
	rdb *redis.Client,
	settings *config.CoachingSettings,
) *CoachingService {
	return &CoachingService{
		Classifier:      classifier,
		Analytics:       analytics,
		Recommendations: recommendations,
		WeakAreaRepo:    weakAreaRepo,
		SessionRepo:     sessionRepo,
		StudyRepo:       studyRepo,
		Redis:           rdb,
		Settings:        settings,
		Now:             time.Now,
	}
}

// GenerateSession 生成一份教练会话快照并持久化，
// 随后用同一批薄弱点触发建议生成（带上会话 ID 便于追溯）。
func (s *CoachingService) GenerateSession(ctx context.Context, studentID string) (*model.CoachingSession, error) {
	ctx, span := tracing.Tracer.Start(ctx, "coaching.generate_session")
	span.SetAttributes(attribute.String("student.id", studentID))
	defer span.End()

	start := time.Now()
	session, err := s.generateSession(ctx, studentID)
	monitoring.CoachingRunDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		monitoring.CoachingRunCounter.WithLabelValues("error").Inc()
		return nil, err
	}
	monitoring.CoachingRunCounter.WithLabelValues("success").Inc()
	return session, nil
}

func (s *CoachingService) generateSession(ctx context.Context, studentID string) (*model.CoachingSession, error) {
	cfg := s.Settings.Snapshot()

	// 1. 先跑分类器刷新薄弱点（部分失败可容忍，由分类器自己兜底）
	if _, err := s.Classifier.ClassifyWeakAreas(studentID); err != nil {
		// 两个信号源都挂了也不阻断会话生成：用存量薄弱点继续
		logger.Log.Warn("classification skipped for this run",
			zap.String("studentId", studentID), zap.Error(err))
	}

	// 2. 分析汇总
	analytics, err := s.Analytics.ComputePerformance(studentID, model.PeriodWeekly, cfg.AnalysisPeriodDays)
	if err != nil {
		return nil, fmt.Errorf("compute performance analytics: %w", err)
	}

	// 3. 读取优先级最高的薄弱点
	areas, err := s.WeakAreaRepo.ListTopPriority(studentID, cfg.MaxPriorityAreas)
	if err != nil {
		return nil, err
	}

	active, err := s.WeakAreaRepo.CountByStatus(studentID, model.WeakAreaActive)
	if err != nil {
		return nil, err
	}
	improving, err := s.WeakAreaRepo.CountByStatus(studentID, model.WeakAreaImproving)
	if err != nil {
		return nil, err
	}
	resolved, err := s.WeakAreaRepo.CountByStatus(studentID, model.WeakAreaResolved)
	if err != nil {
		return nil, err
	}

	// 4. priority ≤ 2 的薄弱点生成优先行动
	var priorityActions []string
	for _, area := range areas {
		if area.Priority > 2 {
			continue
		}
		priorityActions = append(priorityActions, fmt.Sprintf(
			"优先攻克 %s / %s：当前正确率 %.0f%%，目标 %.0f%%",
			area.Subject, area.Topic, area.CurrentAccuracy, area.TargetAccuracy))
	}

	now := s.Now()
	resolvedToday, err := s.WeakAreaRepo.CountResolvedBetween(studentID,
		time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), now)
	if err != nil {
		return nil, err
	}

	session := &model.CoachingSession{
		StudentID:             studentID,
		SessionDate:           now,
		ActiveWeakAreas:       int(active),
		ImprovingWeakAreas:    int(improving),
		ResolvedWeakAreas:     int(resolved),
		PeriodStudyHours:      analytics.StudyHours,
		PeriodAverageAccuracy: averageAccuracy(analytics.SubjectAccuracy),
		PriorityActions:       priorityActions,
		MotivationalMessage:   buildMotivationalMessage(analytics.StudyStreakDays, resolvedToday, improving),
	}

	if err := s.SessionRepo.Create(session); err != nil {
		return nil, err
	}

	s.cacheLatestSession(ctx, session)

	// 5. 同一批薄弱点交给建议生成器，带上会话 ID
	if _, err := s.Recommendations.GenerateForSession(studentID, session.ID, areas); err != nil {
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}

	logger.Log.Info("coaching session generated",
		zap.String("studentId", studentID),
		zap.String("sessionId", session.ID),
		zap.Int("priorityActions", len(priorityActions)))

	return session, nil
}

// buildMotivationalMessage 规则分支拼装激励语：
// 连续学习和当日解决两条可以叠加；都没有时退化到 improving / 通用鼓励。
func buildMotivationalMessage(streakDays int, resolvedToday, improving int64) string {
	var parts []string

	if streakDays > 3 {
		parts = append(parts, fmt.Sprintf("已经连续学习 %d 天了，这份坚持非常了不起！", streakDays))
	}
	if resolvedToday >= 1 {
		parts = append(parts, fmt.Sprintf("今天攻克了 %d 个薄弱点，为你鼓掌！", resolvedToday))
	}

	if len(parts) == 0 {
		if improving > 0 {
			parts = append(parts, "有几个薄弱点正在好转，保持现在的节奏就对了。")
		} else {
			parts = append(parts, "每一次练习都在积累，从今天的第一个任务开始吧。")
		}
	}

	return strings.Join(parts, " ")
}

func averageAccuracy(bySubject map[string]float64) float64 {
	if len(bySubject) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range bySubject {
		sum += v
	}
	return sum / float64(len(bySubject))
}

const latestSessionTTL = 24 * time.Hour

func (s *CoachingService) cacheLatestSession(ctx context.Context, session *model.CoachingSession) {
	if s.Redis == nil {
		return
	}
	payload, err := json.Marshal(session)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, "coach:session:"+session.StudentID, payload, latestSessionTTL).Err(); err != nil {
		logger.Log.Warn("failed to cache coaching session", zap.Error(err))
	}
}

// LatestSession 优先读缓存，未命中或 redis 不可用时回落到数据库
func (s *CoachingService) LatestSession(ctx context.Context, studentID string) (*model.CoachingSession, error) {
	if s.Redis != nil {
		payload, err := s.Redis.Get(ctx, "coach:session:"+studentID).Bytes()
		if err == nil {
			var session model.CoachingSession
			if json.Unmarshal(payload, &session) == nil {
				return &session, nil
			}
		}
	}
	return s.SessionRepo.FindLatest(studentID)
}

func (s *CoachingService) MarkViewed(sessionID, studentID string) error {
	return s.SessionRepo.MarkViewed(sessionID, studentID)
}

// SessionDetail 返回某次会话的快照以及同一次运行派生的全部建议
func (s *CoachingService) SessionDetail(sessionID, studentID string) (*model.CoachingSessionDetail, error) {
	session, err := s.SessionRepo.FindByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session.StudentID != studentID {
		return nil, util.ErrSessionNotFound
	}

	recs, err := s.Recommendations.RecRepo.ListForSession(sessionID)
	if err != nil {
		return nil, err
	}
	return &model.CoachingSessionDetail{
		Session:         *session,
		Recommendations: recs,
	}, nil
}

// RunDailyCoaching 每日批处理入口：为最近 24 小时有学习活动的学生各跑一次。
// 学生之间的运行相互独立，用固定数量的 worker 并行处理；
// 单个学生失败只记日志，不影响其他学生。
func (s *CoachingService) RunDailyCoaching(ctx context.Context) error {
	students, err := s.StudyRepo.DistinctActiveStudents(s.Now().Add(-24 * time.Hour))
	if err != nil {
		return err
	}

	workers := s.Settings.Snapshot().DailyCoachingWorkers
	if workers <= 0 {
		workers = 4
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for studentID := range jobs {
				if _, err := s.GenerateSession(ctx, studentID); err != nil {
					logger.Log.Error("daily coaching run failed",
						zap.String("studentId", studentID), zap.Error(err))
				}
			}
		}()
	}

	for _, studentID := range students {
		jobs <- studentID
	}
	close(jobs)
	wg.Wait()

	logger.Log.Info("daily coaching sweep finished", zap.Int("students", len(students)))
	return nil
}
