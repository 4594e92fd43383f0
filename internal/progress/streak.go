package progress

import "time"

// AdvanceStreak computes the new streak after activity at now. Days are
// UTC calendar days: activity on the same day leaves the streak alone,
// the next day extends it, any larger gap resets it to 1.
func AdvanceStreak(current int, lastActive *time.Time, now time.Time) int {
	if lastActive == nil {
		return 1
	}
	last := dateOf(*lastActive)
	today := dateOf(now)
	switch int(today.Sub(last).Hours() / 24) {
	case 0:
		return current
	case 1:
		return current + 1
	default:
		return 1
	}
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
