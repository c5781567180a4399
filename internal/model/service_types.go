package model

// RepetitionOutcome 完成一次重复练习时上报的结果
// swagger:model RepetitionOutcome
type RepetitionOutcome struct {
	AccuracyAchieved  float64 `json:"accuracyAchieved"`
	ProblemsAttempted int     `json:"problemsAttempted"`
	ProblemsSolved    int     `json:"problemsSolved"`
	Notes             string  `json:"notes"`
}

// RecommendationStatusUpdate 学生对建议的状态操作
// swagger:model RecommendationStatusUpdate
type RecommendationStatusUpdate struct {
	Status               RecommendationStatus `json:"status" binding:"required"`
	CompletionPercentage int                  `json:"completionPercentage"`
}

// CoachingSessionDetail 会话详情：快照本体加该次运行派生的建议
// swagger:model CoachingSessionDetail
type CoachingSessionDetail struct {
	Session         CoachingSession          `json:"session"`
	Recommendations []CoachingRecommendation `json:"recommendations"`
}
