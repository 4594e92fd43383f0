package review

import (
	"database/sql"
	"fmt"

	"github.com/examtrainer/backend/internal/models"
)

// Store persists per-(user, question) scheduling records. Records are
// upserted, never deleted; historical continuity is required for the
// scheduler to be meaningful.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetRecord returns the scheduling record for (userID, questionID), or
// nil when the user has never reviewed the question.
func (s *Store) GetRecord(userID, questionID int64) (*models.SchedulingState, error) {
	var r models.SchedulingState
	err := s.db.QueryRow(
		`SELECT user_id, question_id, ease_factor, interval_days, repetitions, next_review_at, updated_at
		 FROM review_records WHERE user_id = $1 AND question_id = $2`,
		userID, questionID,
	).Scan(&r.UserID, &r.QuestionID, &r.EaseFactor, &r.IntervalDays,
		&r.Repetitions, &r.NextReviewAt, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get review record: %w", err)
	}
	return &r, nil
}

// UpsertRecord writes the record, replacing any previous state for the
// same (user, question) key. Last writer wins; each call is keyed to
// one real answer event.
func (s *Store) UpsertRecord(r models.SchedulingState) error {
	_, err := s.db.Exec(
		`INSERT INTO review_records (user_id, question_id, ease_factor, interval_days, repetitions, next_review_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, question_id)
		 DO UPDATE SET ease_factor = $3, interval_days = $4, repetitions = $5,
		               next_review_at = $6, updated_at = $7`,
		r.UserID, r.QuestionID, r.EaseFactor, r.IntervalDays,
		r.Repetitions, r.NextReviewAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert review record: %w", err)
	}
	return nil
}

// ListRecords returns all scheduling records for a user.
func (s *Store) ListRecords(userID int64) ([]models.SchedulingState, error) {
	rows, err := s.db.Query(
		`SELECT user_id, question_id, ease_factor, interval_days, repetitions, next_review_at, updated_at
		 FROM review_records WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list review records: %w", err)
	}
	defer rows.Close()

	var records []models.SchedulingState
	for rows.Next() {
		var r models.SchedulingState
		if err := rows.Scan(&r.UserID, &r.QuestionID, &r.EaseFactor, &r.IntervalDays,
			&r.Repetitions, &r.NextReviewAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan review record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
