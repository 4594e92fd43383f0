package review

import (
	"fmt"
	"time"

	"github.com/examtrainer/backend/internal/models"
)

type Service struct {
	store   *Store
	quality QualityConfig
}

func NewService(store *Store, quality QualityConfig) *Service {
	return &Service{store: store, quality: quality}
}

// GetOrCreateState returns the scheduling state for (userID, questionID).
// For a question the user has never reviewed it returns the default
// initial state without persisting it; records are only created by the
// first recorded answer.
func (s *Service) GetOrCreateState(userID, questionID int64, now time.Time) (*models.SchedulingState, error) {
	record, err := s.store.GetRecord(userID, questionID)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}
	return &models.SchedulingState{
		UserID:       userID,
		QuestionID:   questionID,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: 1,
		Repetitions:  0,
		NextReviewAt: now,
		UpdatedAt:    now,
	}, nil
}

// RecordAnswer maps the answer outcome to a Quality, advances the
// scheduling state, and persists it. The upsert is last-writer-wins;
// callers treat the update as at-most-once per logical answer event.
func (s *Service) RecordAnswer(userID, questionID int64, isCorrect bool, timeSpentMs int64, now time.Time) (*models.SchedulingState, error) {
	prev, err := s.store.GetRecord(userID, questionID)
	if err != nil {
		return nil, err
	}

	q := QualityFor(isCorrect, timeSpentMs, s.quality)
	next := Next(prev, q, now)
	next.UserID = userID
	next.QuestionID = questionID

	if err := s.store.UpsertRecord(next); err != nil {
		return nil, fmt.Errorf("record review answer: %w", err)
	}
	return &next, nil
}

// ListDue returns the ids of questions due for review, most overdue
// first, capped at limit.
func (s *Service) ListDue(userID int64, now time.Time, limit int) ([]int64, error) {
	records, err := s.store.ListRecords(userID)
	if err != nil {
		return nil, err
	}
	return SelectDue(records, now, limit), nil
}
