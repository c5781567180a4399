package service

import (
	"context"
	"study_coach_backend/internal/config"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/repository"
	"study_coach_backend/internal/util"
	"study_coach_backend/pkg/logger"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

type SchedulerService struct {
	WeakAreaRepo   *repository.WeakAreaRepository
	RepetitionRepo *repository.RepetitionRepository
	Redis          *redis.Client
	Settings       *config.CoachingSettings

	// Now 可注入，保证计划日期在测试中可复现
	Now func() time.Time
}

func NewSchedulerService(
	weakAreaRepo *repository.WeakAreaRepository,
	repetitionRepo *repository.RepetitionRepository,
	rdb *redis.Client,
	settings *config.CoachingSettings,
) *SchedulerService {
	return &SchedulerService{
		WeakAreaRepo:   weakAreaRepo,
		RepetitionRepo: repetitionRepo,
		Redis:          rdb,
		Settings:       settings,
		Now:            time.Now,
	}
}

// CreateRepetitionPlan 为一个薄弱点生成整批间隔重复计划并一次性落库。
// 批量插入本身只应执行一次，调用方可能重复触发，
// 因此先用 redis SETNX 做短锁（尽力而为），再以已存在 scheduled 条目的数据库检查兜底。
func (s *SchedulerService) CreateRepetitionPlan(weakAreaID string) ([]model.RepetitionSchedule, error) {
	area, err := s.WeakAreaRepo.FindByID(weakAreaID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		ok, err := s.Redis.SetNX(context.Background(), "coach:plan_lock:"+weakAreaID, 1, time.Minute).Result()
		if err != nil {
			logger.Log.Warn("plan lock unavailable, falling back to db check", zap.Error(err))
		} else if !ok {
			return nil, util.ErrScheduleExists
		}
	}

	existing, err := s.RepetitionRepo.CountScheduledForWeakArea(weakAreaID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, util.ErrScheduleExists
	}

	cfg := s.Settings.Snapshot()
	count := area.TargetRepetitions
	if count <= 0 {
		count = cfg.DefaultRepetitions
	}

	now := s.Now()
	entries := make([]model.RepetitionSchedule, 0, count)
	for i := 0; i < count; i++ {
		entries = append(entries, model.RepetitionSchedule{
			WeakAreaID:       area.ID,
			StudentID:        area.StudentID,
			RepetitionNumber: i + 1,
			ScheduledDate:    now.AddDate(0, 0, cfg.DaysBetweenRepetitions*(i+1)),
			ContentType:      contentTypeForRepetition(i),
			EstimatedMinutes: 30 + 10*i,
			Status:           model.RepetitionScheduled,
		})
	}

	if err := s.RepetitionRepo.CreateBatch(entries); err != nil {
		return nil, err
	}

	logger.Log.Info("repetition plan created",
		zap.String("weakAreaId", weakAreaID),
		zap.String("studentId", area.StudentID),
		zap.Int("repetitions", count))

	return entries, nil
}

// contentTypeForRepetition 内容类型轮换：前两次识记（闪卡）、
// 中间两次应用（习题）、其余综合。顺序建模检索难度递增，不可改变。
func contentTypeForRepetition(i int) model.RepetitionContentType {
	switch {
	case i < 2:
		return model.ContentFlashcards
	case i < 4:
		return model.ContentProblems
	default:
		return model.ContentMixed
	}
}

func (s *SchedulerService) ListForWeakArea(weakAreaID string) ([]model.RepetitionSchedule, error) {
	if _, err := s.WeakAreaRepo.FindByID(weakAreaID); err != nil {
		return nil, err
	}
	return s.RepetitionRepo.ListForWeakArea(weakAreaID)
}

func (s *SchedulerService) ListUpcoming(studentID string, horizonDays int) ([]model.RepetitionSchedule, error) {
	if horizonDays <= 0 {
		cfg := s.Settings.Snapshot()
		horizonDays = cfg.DaysBetweenRepetitions * cfg.DefaultRepetitions
	}
	return s.RepetitionRepo.ListUpcomingForStudent(studentID, s.Now().AddDate(0, 0, horizonDays))
}
