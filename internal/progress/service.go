package progress

import (
	"fmt"
	"log"
	"time"

	"github.com/examtrainer/backend/internal/models"
	"github.com/examtrainer/backend/internal/review"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

// ── Per-Answer XP (called from SubmitAnswer) ──────────────

// AwardAnswerXP awards XP for a practice answer, scaled by the user's
// current streak. Returns the XP awarded (0 for wrong answers).
func (s *Service) AwardAnswerXP(userID int64, q review.Quality, now time.Time) int {
	base := AnswerXP(q)
	if base == 0 {
		return 0
	}

	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		log.Printf("[progress] get progress for user %d: %v", userID, err)
		return 0
	}

	awarded := ApplyStreakMultiplier(base, StreakMultiplier(p.CurrentStreak))
	if err := s.store.AddXP(userID, awarded); err != nil {
		log.Printf("[progress] add XP for user %d: %v", userID, err)
		return 0
	}
	s.store.LogXPEvent(userID, "answer_"+q.String(), awarded)
	return awarded
}

// ── Streak ────────────────────────────────────────────────

func (s *Service) UpdateStreak(userID int64, now time.Time) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		log.Printf("[progress] get progress for user %d: %v", userID, err)
		return
	}

	next := AdvanceStreak(p.CurrentStreak, p.LastActiveDate, now)
	today := dateOf(now)
	if next == p.CurrentStreak && p.LastActiveDate != nil && dateOf(*p.LastActiveDate).Equal(today) {
		return
	}

	p.CurrentStreak = next
	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}
	p.LastActiveDate = &today

	if err := s.store.UpdateProgress(userID, p); err != nil {
		log.Printf("[progress] update streak for user %d: %v", userID, err)
	}
}

// ── Daily Goal ────────────────────────────────────────────

func (s *Service) UpdateDailyGoal(userID int64, delta int) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		log.Printf("[progress] get progress for user %d: %v", userID, err)
		return
	}

	today := dateOf(time.Now().UTC())
	if p.DailyGoalDate == nil || !dateOf(*p.DailyGoalDate).Equal(today) {
		p.DailyGoalProgress = 0
		p.DailyGoalDate = &today
	}
	p.DailyGoalProgress += delta

	if err := s.store.UpdateProgress(userID, p); err != nil {
		log.Printf("[progress] update daily goal for user %d: %v", userID, err)
	}
}

// ── Counters ──────────────────────────────────────────────

func (s *Service) IncrementCounters(userID int64, correct bool) {
	if _, err := s.store.GetOrCreateProgress(userID); err != nil {
		log.Printf("[progress] get progress for user %d: %v", userID, err)
		return
	}
	if err := s.store.IncrementCounters(userID, correct); err != nil {
		log.Printf("[progress] increment counters for user %d: %v", userID, err)
	}
}

// ── Exam Results ──────────────────────────────────────────

// RecordExamResult awards exam XP and bumps the exam counters once per
// finalized session.
func (s *Service) RecordExamResult(userID int64, passed bool, now time.Time) error {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return fmt.Errorf("get progress: %w", err)
	}

	xp := ApplyStreakMultiplier(ExamXP(passed), StreakMultiplier(p.CurrentStreak))
	if err := s.store.AddXP(userID, xp); err != nil {
		return fmt.Errorf("add exam XP: %w", err)
	}
	eventType := "exam_completed"
	if passed {
		eventType = "exam_passed"
	}
	s.store.LogXPEvent(userID, eventType, xp)

	p.ExamsCompletedTotal++
	if passed {
		p.ExamsPassedTotal++
	}
	if err := s.store.UpdateProgress(userID, p); err != nil {
		return fmt.Errorf("update exam counters: %w", err)
	}

	s.UpdateStreak(userID, now)
	return nil
}

// ── Summary ───────────────────────────────────────────────

func (s *Service) GetSummary(userID int64) (*models.ProgressResponse, error) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, err
	}

	accuracy := 0.0
	if p.QuestionsAnsweredTotal > 0 {
		accuracy = float64(p.QuestionsCorrectTotal) / float64(p.QuestionsAnsweredTotal)
	}

	return &models.ProgressResponse{
		TotalXP:           p.TotalXP,
		CurrentStreak:     p.CurrentStreak,
		LongestStreak:     p.LongestStreak,
		DailyGoalTarget:   p.DailyGoalTarget,
		DailyGoalProgress: p.DailyGoalProgress,
		QuestionsAnswered: p.QuestionsAnsweredTotal,
		QuestionsCorrect:  p.QuestionsCorrectTotal,
		OverallAccuracy:   accuracy,
		ExamsCompleted:    p.ExamsCompletedTotal,
		ExamsPassed:       p.ExamsPassedTotal,
	}, nil
}
