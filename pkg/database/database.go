package database

import (
	"fmt"
	"log"
	"study_coach_backend/internal/config"
	"study_coach_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if migrate {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	return db, nil
}

// AutoMigrate 迁移教练引擎的全部实体表。
// 信号表（flashcards 等）由外部学习端写入，这里一并迁移以便本地开发和测试。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.WeakArea{},
		&model.RepetitionSchedule{},
		&model.CoachingSession{},
		&model.PerformanceAnalytics{},
		&model.CoachingRecommendation{},
		&model.ImprovementMilestone{},
		&model.Flashcard{},
		&model.FlashcardReview{},
		&model.ChapterProgress{},
		&model.StudySession{},
		&model.TutoringSession{},
	)
}
