package service

import (
	"fmt"
	"sort"
	"study_coach_backend/internal/config"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/repository"
	"study_coach_backend/internal/util"
	"study_coach_backend/pkg/logger"
	"study_coach_backend/pkg/monitoring"
	"sync"

	"go.uber.org/zap"
)

// CardSignalSource / ChapterSignalSource 是分类器的两个独立信号源。
// 以窄接口注入，便于在测试中模拟单个信号源不可用的场景。
type CardSignalSource interface {
	ListLowAccuracyCards(studentID string, threshold float64) ([]model.Flashcard, error)
}

type ChapterSignalSource interface {
	ListStrugglingChapters(studentID string, maxUnderstanding int) ([]model.ChapterProgress, error)
}

type ClassifierService struct {
	Cards        CardSignalSource
	Chapters     ChapterSignalSource
	WeakAreaRepo *repository.WeakAreaRepository
	Settings     *config.CoachingSettings
}

func NewClassifierService(
	cards CardSignalSource,
	chapters ChapterSignalSource,
	weakAreaRepo *repository.WeakAreaRepository,
	settings *config.CoachingSettings,
) *ClassifierService {
	return &ClassifierService{
		Cards:        cards,
		Chapters:     chapters,
		WeakAreaRepo: weakAreaRepo,
		Settings:     settings,
	}
}

// weakAreaCandidate 两条信号路径的统一中间形态，按自然键合并后再落库
type weakAreaCandidate struct {
	Subject  string
	Topic    string
	Subtopic string

	Severity WeakAreaSeverityRank
	Priority int

	Accuracy float64
	Attempts int
	Failures int

	Reason string
}

// WeakAreaSeverityRank 让严重度可比较，合并时取更差的一侧
type WeakAreaSeverityRank int

const (
	rankLow WeakAreaSeverityRank = iota
	rankMedium
	rankHigh
	rankCritical
)

func (r WeakAreaSeverityRank) Severity() model.WeakAreaSeverity {
	switch r {
	case rankCritical:
		return model.SeverityCritical
	case rankHigh:
		return model.SeverityHigh
	case rankMedium:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}

// SeverityForAccuracy 平均正确率到严重度的全函数映射
func SeverityForAccuracy(accuracy float64) WeakAreaSeverityRank {
	switch {
	case accuracy < util.CriticalAccuracyThreshold:
		return rankCritical
	case accuracy < util.HighAccuracyThreshold:
		return rankHigh
	case accuracy < util.WeakAreaAccuracyThreshold:
		return rankMedium
	default:
		return rankLow
	}
}

func priorityForSeverity(rank WeakAreaSeverityRank) int {
	switch rank {
	case rankCritical:
		return 1
	case rankHigh:
		return 2
	default:
		return 3
	}
}

// ClassifyWeakAreas 扫描两类信号并把合并去重后的薄弱点 upsert 到存储。
// 两条扫描路径互不依赖，并发执行；单个信号源失败只记日志，
// 用另一侧的结果继续（部分失败可容忍），两侧都失败才返回错误。
func (s *ClassifierService) ClassifyWeakAreas(studentID string) ([]model.WeakArea, error) {
	cfg := s.Settings.Snapshot()

	var (
		wg        sync.WaitGroup
		cardCands []weakAreaCandidate
		chapCands []weakAreaCandidate
		cardErr   error
		chapErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		cardCands, cardErr = s.collectCardSignals(studentID)
	}()
	go func() {
		defer wg.Done()
		chapCands, chapErr = s.collectChapterSignals(studentID)
	}()
	wg.Wait()

	if cardErr != nil && chapErr != nil {
		logger.Log.Error("both signal sources failed",
			zap.String("studentId", studentID),
			zap.NamedError("cardError", cardErr),
			zap.NamedError("chapterError", chapErr))
		return nil, util.ErrSignalsUnavailable
	}
	if cardErr != nil {
		logger.Log.Warn("card signal source unavailable, proceeding with chapter signals only",
			zap.String("studentId", studentID), zap.Error(cardErr))
	}
	if chapErr != nil {
		logger.Log.Warn("chapter signal source unavailable, proceeding with card signals only",
			zap.String("studentId", studentID), zap.Error(chapErr))
	}

	merged := mergeCandidates(cardCands, chapCands)

	areas := make([]model.WeakArea, 0, len(merged))
	for _, cand := range merged {
		area := model.WeakArea{
			StudentID:            studentID,
			Subject:              cand.Subject,
			Topic:                cand.Topic,
			Subtopic:             cand.Subtopic,
			Severity:             cand.Severity.Severity(),
			Priority:             cand.Priority,
			InitialAccuracy:      cand.Accuracy,
			CurrentAccuracy:      cand.Accuracy,
			TargetAccuracy:       cfg.DefaultTargetAccuracy,
			AttemptsCount:        cand.Attempts,
			FailuresCount:        cand.Failures,
			Status:               model.WeakAreaActive,
			TargetRepetitions:    cfg.DefaultRepetitions,
			IdentificationReason: cand.Reason,
		}
		if err := s.WeakAreaRepo.Upsert(&area); err != nil {
			return nil, fmt.Errorf("upsert weak area %s/%s: %w", cand.Subject, cand.Topic, err)
		}
		monitoring.WeakAreasUpserted.Inc()
		areas = append(areas, area)
	}

	logger.Log.Info("weak areas classified",
		zap.String("studentId", studentID),
		zap.Int("fromCards", len(cardCands)),
		zap.Int("fromChapters", len(chapCands)),
		zap.Int("merged", len(areas)))

	return areas, nil
}

// collectCardSignals 把低正确率的练习卡按 (学科, 主题) 分组，
// 用组内平均正确率推导严重度
func (s *ClassifierService) collectCardSignals(studentID string) ([]weakAreaCandidate, error) {
	cards, err := s.Cards.ListLowAccuracyCards(studentID, util.WeakAreaAccuracyThreshold)
	if err != nil {
		return nil, err
	}

	type group struct {
		accuracySum float64
		attempts    int
		count       int
	}
	groups := make(map[[2]string]*group)
	for _, card := range cards {
		key := [2]string{card.Subject, card.Topic}
		g, ok := groups[key]
		if !ok {
			g = &group{}
			groups[key] = g
		}
		g.accuracySum += card.AccuracyPercent
		g.attempts += card.TimesReviewed
		g.count++
	}

	candidates := make([]weakAreaCandidate, 0, len(groups))
	for key, g := range groups {
		meanAccuracy := g.accuracySum / float64(g.count)
		rank := SeverityForAccuracy(meanAccuracy)
		failures := int(float64(g.attempts)*(100-meanAccuracy)/100 + 0.5)

		candidates = append(candidates, weakAreaCandidate{
			Subject:  key[0],
			Topic:    key[1],
			Severity: rank,
			Priority: priorityForSeverity(rank),
			Accuracy: meanAccuracy,
			Attempts: g.attempts,
			Failures: failures,
			Reason: fmt.Sprintf("练习卡平均正确率 %.1f%%（%d 张卡，共 %d 次复习）",
				meanAccuracy, g.count, g.attempts),
		})
	}

	// map 迭代无序，排序保证结果可复现
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Subject != candidates[j].Subject {
			return candidates[i].Subject < candidates[j].Subject
		}
		return candidates[i].Topic < candidates[j].Topic
	})
	return candidates, nil
}

// collectChapterSignals 章节自评路径：理解度 ≤2，或信心为 low 且请求辅导。
// 理解度为 1 判 critical，其余 high；请求过辅导的优先级为 1。
func (s *ClassifierService) collectChapterSignals(studentID string) ([]weakAreaCandidate, error) {
	chapters, err := s.Chapters.ListStrugglingChapters(studentID, 2)
	if err != nil {
		return nil, err
	}

	candidates := make([]weakAreaCandidate, 0, len(chapters))
	for _, ch := range chapters {
		rank := rankHigh
		if ch.UnderstandingLevel == 1 {
			rank = rankCritical
		}
		priority := 2
		if ch.NeedsTutorHelp {
			priority = 1
		}

		reason := fmt.Sprintf("章节自评理解度 %d/5，信心 %s", ch.UnderstandingLevel, ch.Confidence)
		if ch.NeedsTutorHelp {
			reason += "，已请求辅导"
		}

		candidates = append(candidates, weakAreaCandidate{
			Subject:  ch.Subject,
			Topic:    ch.Chapter,
			Severity: rank,
			Priority: priority,
			Reason:   reason,
		})
	}
	return candidates, nil
}

// mergeCandidates 按 (subject, topic, subtopic) 合并两条路径的候选：
// 严重度取更差一侧，优先级取更高（数字更小）一侧，
// 数值指标以练习卡路径为准，识别原因拼接。
func mergeCandidates(primary, secondary []weakAreaCandidate) []weakAreaCandidate {
	type key struct{ subject, topic, subtopic string }

	index := make(map[key]int, len(primary))
	merged := make([]weakAreaCandidate, 0, len(primary)+len(secondary))

	for _, c := range primary {
		index[key{c.Subject, c.Topic, c.Subtopic}] = len(merged)
		merged = append(merged, c)
	}

	for _, c := range secondary {
		k := key{c.Subject, c.Topic, c.Subtopic}
		i, ok := index[k]
		if !ok {
			index[k] = len(merged)
			merged = append(merged, c)
			continue
		}
		if c.Severity > merged[i].Severity {
			merged[i].Severity = c.Severity
		}
		if c.Priority < merged[i].Priority {
			merged[i].Priority = c.Priority
		}
		if c.Reason != "" {
			merged[i].Reason += "；" + c.Reason
		}
	}
	return merged
}
