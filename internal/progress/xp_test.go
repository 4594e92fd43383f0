package progress

import (
	"testing"

	"github.com/examtrainer/backend/internal/review"
)

func TestAnswerXP(t *testing.T) {
	tests := []struct {
		quality review.Quality
		want    int
	}{
		{review.QualityWrong, 0},
		{review.QualityCorrectSlow, 5},
		{review.QualityCorrectMedium, 8},
		{review.QualityCorrectFast, 12},
	}
	for _, tt := range tests {
		t.Run(tt.quality.String(), func(t *testing.T) {
			if got := AnswerXP(tt.quality); got != tt.want {
				t.Errorf("AnswerXP(%v) = %d, want %d", tt.quality, got, tt.want)
			}
		})
	}
}

func TestExamXP(t *testing.T) {
	if got := ExamXP(true); got <= ExamXP(false) {
		t.Errorf("passing XP %d should exceed completion XP %d", got, ExamXP(false))
	}
}

func TestStreakMultiplier(t *testing.T) {
	tests := []struct {
		streak int
		want   float64
	}{
		{0, 1.0},
		{2, 1.0},
		{3, 1.15},
		{6, 1.15},
		{7, 1.25},
		{13, 1.25},
		{14, 1.5},
		{29, 1.5},
		{30, 2.0},
		{365, 2.0},
	}
	for _, tt := range tests {
		if got := StreakMultiplier(tt.streak); got != tt.want {
			t.Errorf("StreakMultiplier(%d) = %v, want %v", tt.streak, got, tt.want)
		}
	}
}

func TestApplyStreakMultiplier(t *testing.T) {
	tests := []struct {
		xp         int
		multiplier float64
		want       int
	}{
		{10, 1.0, 10},
		{10, 1.15, 12}, // 11.5 rounds up
		{12, 1.25, 15},
		{5, 2.0, 10},
		{0, 2.0, 0},
	}
	for _, tt := range tests {
		if got := ApplyStreakMultiplier(tt.xp, tt.multiplier); got != tt.want {
			t.Errorf("ApplyStreakMultiplier(%d, %v) = %d, want %d", tt.xp, tt.multiplier, got, tt.want)
		}
	}
}
