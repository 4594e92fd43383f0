package progress

import (
	"math"

	"github.com/examtrainer/backend/internal/review"
)

// AnswerXP returns base XP for a practice answer by review quality.
// Wrong answers earn nothing.
func AnswerXP(q review.Quality) int {
	switch q {
	case review.QualityCorrectFast:
		return 12
	case review.QualityCorrectMedium:
		return 8
	case review.QualityCorrectSlow:
		return 5
	default:
		return 0
	}
}

// ExamXP returns XP for finishing a mock exam. Passing doubles down
// with a flat bonus.
func ExamXP(passed bool) int {
	if passed {
		return 80
	}
	return 30
}

// StreakMultiplier returns the XP multiplier for a daily streak.
func StreakMultiplier(currentStreak int) float64 {
	if currentStreak < 3 {
		return 1.0
	}
	if currentStreak < 7 {
		return 1.15
	}
	if currentStreak < 14 {
		return 1.25
	}
	if currentStreak < 30 {
		return 1.5
	}
	return 2.0
}

// ApplyStreakMultiplier rounds the multiplied XP to the nearest integer.
func ApplyStreakMultiplier(xp int, multiplier float64) int {
	return int(math.Round(float64(xp) * multiplier))
}
