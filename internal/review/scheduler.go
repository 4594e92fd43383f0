package review

import (
	"math"
	"time"

	"github.com/examtrainer/backend/internal/models"
)

// Scheduling constants. The ease factor floor and the fixed early
// intervals follow the SM-2 family.
const (
	MinEaseFactor     = 1.3
	DefaultEaseFactor = 2.5

	firstInterval  = 1 // days, after the first successful repetition
	secondInterval = 6 // days, after the second

	wrongEasePenalty = 0.20
)

// Next computes the scheduling state that follows the given state after an
// answer of the given quality at time now. A nil state means the user has
// never reviewed this question. The function is pure: it performs no I/O,
// reads no ambient clock, and never fails on a valid Quality; callers
// validate quality range before calling.
func Next(state *models.SchedulingState, q Quality, now time.Time) models.SchedulingState {
	ef := DefaultEaseFactor
	interval := 1
	reps := 0
	if state != nil {
		ef = state.EaseFactor
		interval = state.IntervalDays
		reps = state.Repetitions
	}

	next := models.SchedulingState{UpdatedAt: now}
	if state != nil {
		next.UserID = state.UserID
		next.QuestionID = state.QuestionID
	}

	if !q.Correct() {
		next.Repetitions = 0
		next.IntervalDays = 1
		next.EaseFactor = clampEase(ef - wrongEasePenalty)
		next.NextReviewAt = now.AddDate(0, 0, 1)
		return next
	}

	reps++
	switch {
	case reps == 1:
		interval = firstInterval
	case reps == 2:
		interval = secondInterval
	default:
		// Ceil keeps growth strictly monotonic even at the ease floor.
		interval = int(math.Ceil(float64(interval) * ef))
	}

	next.Repetitions = reps
	next.IntervalDays = interval
	next.EaseFactor = clampEase(ef + easeDelta(q))
	// Calendar days, so the schedule is not sensitive to DST drift.
	next.NextReviewAt = now.AddDate(0, 0, interval)
	return next
}

// easeDelta returns the ease-factor adjustment for a correct answer of
// the given quality: fast +0.10, medium 0, slow -0.14.
func easeDelta(q Quality) float64 {
	miss := float64(QualityCorrectFast - q)
	return 0.1 - miss*(0.08+miss*0.02)
}

func clampEase(ef float64) float64 {
	if ef < MinEaseFactor {
		return MinEaseFactor
	}
	return ef
}
