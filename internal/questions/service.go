package questions

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/examtrainer/backend/internal/models"
	"github.com/examtrainer/backend/internal/review"
)

// ErrInvalidSelection reports a selected option index outside the
// question's option range.
var ErrInvalidSelection = errors.New("questions: selected option out of range")

// ProgressSink receives the per-answer progress updates. Implemented by
// the progress service; may be nil when progress tracking is disabled.
type ProgressSink interface {
	AwardAnswerXP(userID int64, q review.Quality, now time.Time) int
	UpdateStreak(userID int64, now time.Time)
	UpdateDailyGoal(userID int64, delta int)
	IncrementCounters(userID int64, correct bool)
}

type Service struct {
	store    *Store
	reviews  *review.Service
	progress ProgressSink
	quality  review.QualityConfig
}

func NewService(store *Store, reviews *review.Service, progress ProgressSink, quality review.QualityConfig) *Service {
	return &Service{store: store, reviews: reviews, progress: progress, quality: quality}
}

// GetQuestion returns the client-facing view of a question, with the
// answer key stripped.
func (s *Service) GetQuestion(id int64) (*models.ServedQuestion, error) {
	q, err := s.store.GetQuestion(id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, nil
	}
	served := q.ToServed()
	return &served, nil
}

// SubmitAnswer grades a practice answer, advances the user's review
// schedule for the question, and applies the progress updates. Exam
// answers never pass through here; the two paths are independent.
func (s *Service) SubmitAnswer(userID, questionID int64, req models.SubmitAnswerRequest, now time.Time) (*models.SubmitAnswerResponse, error) {
	q, err := s.store.GetQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, nil
	}
	if req.SelectedIndex < 0 || req.SelectedIndex >= len(q.Options) {
		return nil, fmt.Errorf("question %d: %w", questionID, ErrInvalidSelection)
	}

	isCorrect := req.SelectedIndex == q.CorrectOptionIndex

	if err := s.store.IncrementServed(questionID); err != nil {
		log.Printf("WARN: increment served for question %d: %v", questionID, err)
	}
	if isCorrect {
		if err := s.store.IncrementCorrect(questionID); err != nil {
			log.Printf("WARN: increment correct for question %d: %v", questionID, err)
		}
	}

	state, err := s.reviews.RecordAnswer(userID, questionID, isCorrect, req.TimeSpentMs, now)
	if err != nil {
		return nil, fmt.Errorf("advance review schedule: %w", err)
	}

	var xpAwarded int
	if s.progress != nil {
		quality := review.QualityFor(isCorrect, req.TimeSpentMs, s.quality)
		xpAwarded = s.progress.AwardAnswerXP(userID, quality, now)
		s.progress.UpdateDailyGoal(userID, 1)
		s.progress.UpdateStreak(userID, now)
		s.progress.IncrementCounters(userID, isCorrect)
	}

	return &models.SubmitAnswerResponse{
		Correct:            isCorrect,
		CorrectOptionIndex: q.CorrectOptionIndex,
		Explanation:        q.Explanation,
		Scheduling:         state,
		XPAwarded:          xpAwarded,
	}, nil
}

// Import seeds the corpus from a JSON envelope.
func (s *Service) Import(env models.ImportEnvelope) (*models.ImportResult, error) {
	if len(env.Questions) == 0 {
		return &models.ImportResult{}, nil
	}
	return s.store.ImportQuestions(env)
}
