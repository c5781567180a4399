package service

import (
	"fmt"
	"strings"
	"study_coach_backend/internal/config"
	"study_coach_backend/pkg/database"
	"study_coach_backend/pkg/logger"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 每个测试用独立的内存 sqlite，表结构与生产迁移保持一致
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	logger.Log = zap.NewNop()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	// sqlite 对并发写不友好，单连接串行化，worker 并发的用例也能稳定通过
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db
}

func testCoachingConfig() config.CoachingConfig {
	return config.CoachingConfig{
		DefaultRepetitions:     5,
		DaysBetweenRepetitions: 3,
		DefaultTargetAccuracy:  85.0,
		AnalysisPeriodDays:     7,
		MaxPriorityAreas:       10,
		StudyPlanThreshold:     5,
		ResolveStreakRequired:  2,
		DailyCoachingWorkers:   3,
	}
}

func testCoachingSettings() *config.CoachingSettings {
	return config.NewCoachingSettings(testCoachingConfig())
}
