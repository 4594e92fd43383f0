package models

import "time"

// SchedulingState is the spaced-repetition record for one (user, question)
// pair. NextReviewAt is always derived by the scheduler, never set by a
// caller. Records are created on a user's first answer to a question and
// updated on every answer after that; they are never deleted.
type SchedulingState struct {
	UserID       int64     `json:"user_id"`
	QuestionID   int64     `json:"question_id"`
	EaseFactor   float64   `json:"ease_factor"`
	IntervalDays int       `json:"interval_days"`
	Repetitions  int       `json:"repetitions"`
	NextReviewAt time.Time `json:"next_review_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ── API Response Types ────────────────────────────────────

type DueQuestionsResponse struct {
	QuestionIDs []int64 `json:"question_ids"`
	Total       int     `json:"total"`
}
