package models

import "time"

// UserProgress aggregates a user's practice activity: lifetime XP,
// daily streak, daily goal, and answer counters.
type UserProgress struct {
	UserID                 int64      `json:"user_id"`
	TotalXP                int64      `json:"total_xp"`
	CurrentStreak          int        `json:"current_streak"`
	LongestStreak          int        `json:"longest_streak"`
	LastActiveDate         *time.Time `json:"last_active_date,omitempty"`
	DailyGoalTarget        int        `json:"daily_goal_target"`
	DailyGoalProgress      int        `json:"daily_goal_progress"`
	DailyGoalDate          *time.Time `json:"daily_goal_date,omitempty"`
	QuestionsAnsweredTotal int        `json:"questions_answered_total"`
	QuestionsCorrectTotal  int        `json:"questions_correct_total"`
	ExamsCompletedTotal    int        `json:"exams_completed_total"`
	ExamsPassedTotal       int        `json:"exams_passed_total"`
}

type XPEvent struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	EventType string    `json:"event_type"`
	XPAmount  int       `json:"xp_amount"`
	CreatedAt time.Time `json:"created_at"`
}

type ProgressResponse struct {
	TotalXP           int64   `json:"total_xp"`
	CurrentStreak     int     `json:"current_streak"`
	LongestStreak     int     `json:"longest_streak"`
	DailyGoalTarget   int     `json:"daily_goal_target"`
	DailyGoalProgress int     `json:"daily_goal_progress"`
	QuestionsAnswered int     `json:"questions_answered"`
	QuestionsCorrect  int     `json:"questions_correct"`
	OverallAccuracy   float64 `json:"overall_accuracy"`
	ExamsCompleted    int     `json:"exams_completed"`
	ExamsPassed       int     `json:"exams_passed"`
}
