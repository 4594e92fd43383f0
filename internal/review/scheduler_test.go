package review

import (
	"math"
	"testing"
	"time"

	"github.com/examtrainer/backend/internal/models"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func TestNextFirstAnswer(t *testing.T) {
	// Brand-new (user, question) pair, fast correct answer.
	got := Next(nil, QualityCorrectFast, testNow)

	if got.Repetitions != 1 {
		t.Errorf("Repetitions = %d, want 1", got.Repetitions)
	}
	if got.IntervalDays != 1 {
		t.Errorf("IntervalDays = %d, want 1", got.IntervalDays)
	}
	if want := testNow.AddDate(0, 0, 1); !got.NextReviewAt.Equal(want) {
		t.Errorf("NextReviewAt = %v, want %v", got.NextReviewAt, want)
	}
	if got.EaseFactor <= DefaultEaseFactor {
		t.Errorf("EaseFactor = %f, want > %f after fast answer", got.EaseFactor, DefaultEaseFactor)
	}
}

func TestNextWrongResetsRepetitions(t *testing.T) {
	states := []*models.SchedulingState{
		nil,
		{EaseFactor: 2.5, IntervalDays: 1, Repetitions: 1},
		{EaseFactor: 2.5, IntervalDays: 6, Repetitions: 2},
		{EaseFactor: 2.1, IntervalDays: 40, Repetitions: 7},
	}

	for i, state := range states {
		got := Next(state, QualityWrong, testNow)
		if got.Repetitions != 0 {
			t.Errorf("case %d: Repetitions = %d, want 0", i, got.Repetitions)
		}
		if got.IntervalDays != 1 {
			t.Errorf("case %d: IntervalDays = %d, want 1", i, got.IntervalDays)
		}
		if want := testNow.AddDate(0, 0, 1); !got.NextReviewAt.Equal(want) {
			t.Errorf("case %d: NextReviewAt = %v, want %v", i, got.NextReviewAt, want)
		}
	}
}

func TestNextEaseFactorFloor(t *testing.T) {
	// Repeated failures must never push the ease factor below 1.3.
	var state *models.SchedulingState
	for i := 0; i < 50; i++ {
		next := Next(state, QualityWrong, testNow)
		if next.EaseFactor < MinEaseFactor {
			t.Fatalf("iteration %d: EaseFactor = %f, below floor %f", i, next.EaseFactor, MinEaseFactor)
		}
		state = &next
	}
	if state.EaseFactor != MinEaseFactor {
		t.Errorf("EaseFactor = %f after 50 failures, want exactly %f", state.EaseFactor, MinEaseFactor)
	}
}

func TestNextFixedEarlyIntervals(t *testing.T) {
	first := Next(nil, QualityCorrectMedium, testNow)
	if first.IntervalDays != 1 {
		t.Errorf("first repetition IntervalDays = %d, want 1", first.IntervalDays)
	}

	second := Next(&first, QualityCorrectMedium, testNow)
	if second.IntervalDays != 6 {
		t.Errorf("second repetition IntervalDays = %d, want 6", second.IntervalDays)
	}
	if second.Repetitions != 2 {
		t.Errorf("Repetitions = %d, want 2", second.Repetitions)
	}
}

func TestNextIntervalStrictlyGrows(t *testing.T) {
	// From the second repetition on, a correct answer must strictly
	// increase the interval, even at the ease-factor floor.
	state := models.SchedulingState{EaseFactor: MinEaseFactor, IntervalDays: 1, Repetitions: 2}

	for i := 0; i < 20; i++ {
		next := Next(&state, QualityCorrectSlow, testNow)
		if next.IntervalDays <= state.IntervalDays {
			t.Fatalf("iteration %d: interval %d did not grow past %d", i, next.IntervalDays, state.IntervalDays)
		}
		state = next
	}
}

func TestNextEaseDeltaByQuality(t *testing.T) {
	state := models.SchedulingState{EaseFactor: 2.5, IntervalDays: 6, Repetitions: 2}

	fast := Next(&state, QualityCorrectFast, testNow)
	medium := Next(&state, QualityCorrectMedium, testNow)
	slow := Next(&state, QualityCorrectSlow, testNow)

	if fast.EaseFactor <= medium.EaseFactor {
		t.Errorf("fast ease %f should exceed medium %f", fast.EaseFactor, medium.EaseFactor)
	}
	if medium.EaseFactor <= slow.EaseFactor {
		t.Errorf("medium ease %f should exceed slow %f", medium.EaseFactor, slow.EaseFactor)
	}
	if math.Abs(fast.EaseFactor-2.6) > 1e-9 {
		t.Errorf("fast ease = %f, want 2.6", fast.EaseFactor)
	}
	if math.Abs(medium.EaseFactor-2.5) > 1e-9 {
		t.Errorf("medium ease = %f, want 2.5", medium.EaseFactor)
	}
	if math.Abs(slow.EaseFactor-2.36) > 1e-9 {
		t.Errorf("slow ease = %f, want 2.36", slow.EaseFactor)
	}
}

func TestNextMultiplicativeGrowth(t *testing.T) {
	state := models.SchedulingState{EaseFactor: 2.5, IntervalDays: 6, Repetitions: 2}
	got := Next(&state, QualityCorrectMedium, testNow)

	if got.IntervalDays != 15 { // ceil(6 * 2.5)
		t.Errorf("IntervalDays = %d, want 15", got.IntervalDays)
	}
	if want := testNow.AddDate(0, 0, 15); !got.NextReviewAt.Equal(want) {
		t.Errorf("NextReviewAt = %v, want %v", got.NextReviewAt, want)
	}
}

func TestNextIsDeterministic(t *testing.T) {
	state := models.SchedulingState{EaseFactor: 2.2, IntervalDays: 10, Repetitions: 4}
	a := Next(&state, QualityCorrectFast, testNow)
	b := Next(&state, QualityCorrectFast, testNow)
	if a != b {
		t.Errorf("Next not deterministic: %+v vs %+v", a, b)
	}
	// Input must not be mutated.
	if state.IntervalDays != 10 || state.Repetitions != 4 {
		t.Errorf("input state mutated: %+v", state)
	}
}
