package progress

import (
	"database/sql"
	"fmt"

	"github.com/examtrainer/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetOrCreateProgress(userID int64) (*models.UserProgress, error) {
	_, err := s.db.Exec(
		`INSERT INTO user_progress (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	var p models.UserProgress
	err = s.db.QueryRow(
		`SELECT user_id, total_xp, current_streak, longest_streak, last_active_date,
		        daily_goal_target, daily_goal_progress, daily_goal_date,
		        questions_answered_total, questions_correct_total,
		        exams_completed_total, exams_passed_total
		 FROM user_progress WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.TotalXP, &p.CurrentStreak, &p.LongestStreak, &p.LastActiveDate,
		&p.DailyGoalTarget, &p.DailyGoalProgress, &p.DailyGoalDate,
		&p.QuestionsAnsweredTotal, &p.QuestionsCorrectTotal,
		&p.ExamsCompletedTotal, &p.ExamsPassedTotal)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return &p, nil
}

func (s *Store) UpdateProgress(userID int64, p *models.UserProgress) error {
	_, err := s.db.Exec(
		`UPDATE user_progress SET
		    current_streak = $2, longest_streak = $3, last_active_date = $4,
		    daily_goal_target = $5, daily_goal_progress = $6, daily_goal_date = $7,
		    exams_completed_total = $8, exams_passed_total = $9,
		    updated_at = NOW()
		 WHERE user_id = $1`,
		userID, p.CurrentStreak, p.LongestStreak, p.LastActiveDate,
		p.DailyGoalTarget, p.DailyGoalProgress, p.DailyGoalDate,
		p.ExamsCompletedTotal, p.ExamsPassedTotal,
	)
	return err
}

func (s *Store) IncrementCounters(userID int64, correct bool) error {
	correctInc := 0
	if correct {
		correctInc = 1
	}
	_, err := s.db.Exec(
		`UPDATE user_progress SET
		    questions_answered_total = questions_answered_total + 1,
		    questions_correct_total = questions_correct_total + $2,
		    updated_at = NOW()
		 WHERE user_id = $1`,
		userID, correctInc,
	)
	return err
}

func (s *Store) AddXP(userID int64, amount int) error {
	_, err := s.db.Exec(
		`UPDATE user_progress SET
		    total_xp = total_xp + $2,
		    updated_at = NOW()
		 WHERE user_id = $1`,
		userID, amount,
	)
	return err
}

func (s *Store) LogXPEvent(userID int64, eventType string, xpAmount int) error {
	_, err := s.db.Exec(
		`INSERT INTO xp_events (user_id, event_type, xp_amount)
		 VALUES ($1, $2, $3)`,
		userID, eventType, xpAmount,
	)
	return err
}
