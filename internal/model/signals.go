package model

import "time"

// 原始表现信号。这些表由外部学习端写入，教练引擎只读。

// Flashcard 单张练习卡的累计表现
type Flashcard struct {
	BaseModel
	StudentID string `gorm:"type:varchar(36);not null;index"`
	Subject   string `gorm:"size:100;not null;index"`
	Topic     string `gorm:"size:100;not null"`
	Subtopic  string `gorm:"size:100;not null;default:''"`

	TimesReviewed   int     `gorm:"column:times_reviewed;default:0"`
	TimesCorrect    int     `gorm:"column:times_correct;default:0"`
	AccuracyPercent float64 `gorm:"column:accuracy_percentage"`
	LastReviewedAt  *time.Time
}

func (Flashcard) TableName() string {
	return "flashcards"
}

// FlashcardReview 单次复习事件，分析聚合器按窗口统计正确率用
type FlashcardReview struct {
	BaseModel
	StudentID  string    `gorm:"type:varchar(36);not null;index"`
	Subject    string    `gorm:"size:100;not null;index"`
	Topic      string    `gorm:"size:100;not null"`
	IsCorrect  bool      `gorm:"column:is_correct"`
	ReviewedAt time.Time `gorm:"column:reviewed_at;not null;index"`
}

func (FlashcardReview) TableName() string {
	return "flashcard_reviews"
}

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

// ChapterProgress 章节自评记录（五分制理解度 + 信心 + 是否需要辅导）
type ChapterProgress struct {
	BaseModel
	StudentID string `gorm:"type:varchar(36);not null;index"`
	Subject   string `gorm:"size:100;not null"`
	Chapter   string `gorm:"size:100;not null"`

	UnderstandingLevel int             `gorm:"column:understanding_level"` // 1-5
	Confidence         ConfidenceLevel `gorm:"column:confidence_level;type:varchar(10)"`
	NeedsTutorHelp     bool            `gorm:"column:needs_tutor_help"`
	SelfAssessedAt     time.Time       `gorm:"column:self_assessed_at"`
}

func (ChapterProgress) TableName() string {
	return "chapter_progress"
}

// StudySession 一次自习记录
type StudySession struct {
	BaseModel
	StudentID       string    `gorm:"type:varchar(36);not null;index"`
	Subject         string    `gorm:"size:100"`
	StartedAt       time.Time `gorm:"column:started_at;not null;index"`
	DurationMinutes int       `gorm:"column:duration_minutes;default:0"`
	SessionType     string    `gorm:"column:session_type;size:50"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}

// TutoringSession 一次辅导课记录
type TutoringSession struct {
	BaseModel
	StudentID       string    `gorm:"type:varchar(36);not null;index"`
	Subject         string    `gorm:"size:100"`
	Topic           string    `gorm:"size:100"`
	ScheduledAt     time.Time `gorm:"column:scheduled_at;index"`
	DurationMinutes int       `gorm:"column:duration_minutes;default:0"`
	Status          string    `gorm:"size:20;default:'scheduled'"`
}

func (TutoringSession) TableName() string {
	return "tutoring_sessions"
}
