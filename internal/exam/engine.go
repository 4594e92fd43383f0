package exam

import (
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/examtrainer/backend/internal/models"
)

const (
	// QuestionCount is the fixed size of a mock-exam question set.
	QuestionCount = 24

	// TimeBudgetSeconds is the wall-clock budget per session (45 minutes).
	TimeBudgetSeconds = 2700

	// PassThreshold is the minimum percentage score to pass.
	PassThreshold = 75
)

// QuestionSource supplies verified questions and their answer keys.
// Implemented by the questions store.
type QuestionSource interface {
	SampleVerified(n int) ([]models.Question, error)
	CorrectIndexes(ids []int64) (map[int64]int, error)
}

// ResultSink is notified once per session when finalization settles.
// Implemented by the progress service; may be nil.
type ResultSink interface {
	RecordExamResult(userID int64, passed bool, now time.Time) error
}

// Engine drives the mock-exam session lifecycle: create, answer,
// finalize. Finalization is idempotent no matter how many callers race.
type Engine struct {
	store     Store
	questions QuestionSource
	results   ResultSink
}

func NewEngine(store Store, questions QuestionSource, results ResultSink) *Engine {
	return &Engine{store: store, questions: questions, results: results}
}

// Create samples a fresh question set and opens an active session.
func (e *Engine) Create(userID int64, now time.Time) (*models.ExamSession, error) {
	sampled, err := e.questions.SampleVerified(QuestionCount)
	if err != nil {
		return nil, fmt.Errorf("sample questions: %w", err)
	}
	if len(sampled) < QuestionCount {
		return nil, ErrInsufficientQuestions
	}

	ids := make([]int64, QuestionCount)
	for i, q := range sampled {
		ids[i] = q.ID
	}

	sess := models.ExamSession{
		ID:                uuid.New().String(),
		UserID:            userID,
		QuestionIDs:       ids,
		Answers:           make(map[int64]int),
		Status:            models.SessionActive,
		StartedAt:         now,
		TimeBudgetSeconds: TimeBudgetSeconds,
	}
	if err := e.store.CreateSession(sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Get returns the session by id.
func (e *Engine) Get(sessionID string) (*models.ExamSession, error) {
	return e.store.GetSession(sessionID)
}

// RecordAnswer stores or revises one answer on an active session.
func (e *Engine) RecordAnswer(sessionID string, userID int64, questionID int64, selectedIndex int) error {
	sess, err := e.store.GetSession(sessionID)
	if err != nil {
		return err
	}
	if sess.UserID != userID {
		return ErrSessionNotFound
	}
	if sess.Status != models.SessionActive {
		return ErrSessionCompleted
	}
	if !sess.HasQuestion(questionID) {
		return ErrQuestionNotInSession
	}
	if selectedIndex < 0 {
		return ErrInvalidAnswer
	}
	return e.store.SaveAnswer(sessionID, questionID, selectedIndex)
}

// Finalize scores the session and completes it. The answers argument is
// merged over answers already recorded during the session; keys outside
// the session's question set are ignored. Calling Finalize on an already
// completed session returns the stored result with no error, so manual
// submit and timer-driven auto-submit can race safely.
func (e *Engine) Finalize(sessionID string, answers map[int64]int, now time.Time) (*models.ExamResult, error) {
	sess, err := e.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status == models.SessionCompleted {
		return resultOf(sess), nil
	}

	merged := make(map[int64]int, len(sess.Answers)+len(answers))
	for qid, idx := range sess.Answers {
		merged[qid] = idx
	}
	for qid, idx := range answers {
		if sess.HasQuestion(qid) && idx >= 0 {
			merged[qid] = idx
		}
	}

	key, err := e.questions.CorrectIndexes(sess.QuestionIDs)
	if err != nil {
		return nil, fmt.Errorf("load answer key: %w", err)
	}

	correct := 0
	for qid, idx := range merged {
		if want, ok := key[qid]; ok && idx == want {
			correct++
		}
	}
	score := int(math.Round(float64(correct) / float64(QuestionCount) * 100))
	passed := score >= PassThreshold

	won, err := e.store.FinalizeSession(sessionID, merged, score, passed, now)
	if err != nil {
		return nil, err
	}
	if !won {
		// Lost the race; the winner's result is authoritative.
		final, err := e.store.GetSession(sessionID)
		if err != nil {
			return nil, err
		}
		return resultOf(final), nil
	}

	if e.results != nil {
		if err := e.results.RecordExamResult(sess.UserID, passed, now); err != nil {
			log.Printf("WARN: record exam result for user %d: %v", sess.UserID, err)
		}
	}

	return &models.ExamResult{
		SessionID:    sessionID,
		Score:        score,
		Passed:       passed,
		CorrectCount: correct,
		CompletedAt:  now,
	}, nil
}

// Remaining reports seconds left on the session budget, floored at zero.
func (e *Engine) Remaining(sessionID string, now time.Time) (*models.ExamTimeResponse, error) {
	sess, err := e.store.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status == models.SessionCompleted {
		return &models.ExamTimeResponse{RemainingSeconds: 0, Expired: true}, nil
	}
	deadline := sess.StartedAt.Add(time.Duration(sess.TimeBudgetSeconds) * time.Second)
	left := int(deadline.Sub(now).Seconds())
	if left <= 0 {
		return &models.ExamTimeResponse{RemainingSeconds: 0, Expired: true}, nil
	}
	return &models.ExamTimeResponse{RemainingSeconds: left, Expired: false}, nil
}

func resultOf(sess *models.ExamSession) *models.ExamResult {
	res := &models.ExamResult{SessionID: sess.ID}
	if sess.Score != nil {
		res.Score = *sess.Score
	}
	if sess.Passed != nil {
		res.Passed = *sess.Passed
	}
	if sess.CompletedAt != nil {
		res.CompletedAt = *sess.CompletedAt
	}
	res.CorrectCount = correctFromScore(res.Score)
	return res
}

// correctFromScore inverts the rounding in Finalize. Scores are produced
// only from counts in [0, QuestionCount], so the inverse is exact.
func correctFromScore(score int) int {
	return int(math.Round(float64(score) / 100 * QuestionCount))
}
