// 手动回填表现分析脚本
//
// 分析汇总已集成到主应用的每日教练任务中自动执行。
// 此脚本仅用于手动触发，例如首次部署或导入历史学习数据后。
//
// 用法: go run scripts/backfill_analytics.go

package main

import (
	"log"
	"os"
	"study_coach_backend/internal/config"
	"study_coach_backend/internal/model"
	"study_coach_backend/internal/repository"
	"study_coach_backend/internal/service"
	"study_coach_backend/pkg/database"
	"study_coach_backend/pkg/logger"
	"time"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	// yaml.v3 不识别下划线键，教练参数取不到时用缺省值
	if cfg.Coaching.AnalysisPeriodDays <= 0 {
		cfg.Coaching.AnalysisPeriodDays = 7
	}
	if cfg.Coaching.DefaultRepetitions <= 0 {
		cfg.Coaching.DefaultRepetitions = 5
	}
	if cfg.Coaching.DaysBetweenRepetitions <= 0 {
		cfg.Coaching.DaysBetweenRepetitions = 3
	}
	if cfg.Coaching.DefaultTargetAccuracy <= 0 {
		cfg.Coaching.DefaultTargetAccuracy = 85.0
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	studyRepo := repository.NewStudyRepository(db)
	weakAreaRepo := repository.NewWeakAreaRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	analytics := service.NewAnalyticsService(studyRepo, weakAreaRepo, analyticsRepo,
		config.NewCoachingSettings(cfg.Coaching))

	// 最近 90 天内有学习记录的学生都重算一遍周报
	students, err := studyRepo.DistinctActiveStudents(time.Now().AddDate(0, 0, -90))
	if err != nil {
		log.Fatalf("查询活跃学生失败: %v", err)
	}

	log.Printf("开始回填 %d 名学生的表现分析...", len(students))
	failed := 0
	for _, studentID := range students {
		if _, err := analytics.ComputePerformance(studentID, model.PeriodWeekly, cfg.Coaching.AnalysisPeriodDays); err != nil {
			log.Printf("学生 %s 回填失败: %v", studentID, err)
			failed++
		}
	}
	log.Printf("完成！成功 %d，失败 %d", len(students)-failed, failed)
}
