package util

import "errors"

var (
	ErrWeakAreaNotFound   = errors.New("weak area not found")
	ErrRepetitionNotFound = errors.New("repetition schedule not found")
	ErrSessionNotFound    = errors.New("coaching session not found")
	ErrRecNotFound        = errors.New("recommendation not found")
	ErrAnalyticsNotFound  = errors.New("performance analytics not found")
	ErrScheduleExists     = errors.New("repetition plan already exists for this weak area")
	ErrSignalsUnavailable = errors.New("no performance signal source is available")
	ErrInvalidAccuracy    = errors.New("accuracy must be between 0 and 100")
	ErrInvalidOutcome     = errors.New("problems solved cannot exceed problems attempted")
	ErrInvalidStatus      = errors.New("invalid status transition")
)
