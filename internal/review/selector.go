package review

import (
	"sort"
	"time"

	"github.com/examtrainer/backend/internal/models"
)

// SelectDue returns the question ids of records whose scheduled review
// time has passed, most overdue first, truncated to limit. A limit <= 0
// means no cap. The input slice is not mutated; an empty result is the
// normal "nothing due" outcome, not an error.
func SelectDue(records []models.SchedulingState, now time.Time, limit int) []int64 {
	due := make([]models.SchedulingState, 0, len(records))
	for _, r := range records {
		if !r.NextReviewAt.After(now) {
			due = append(due, r)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].NextReviewAt.Equal(due[j].NextReviewAt) {
			return due[i].QuestionID < due[j].QuestionID
		}
		return due[i].NextReviewAt.Before(due[j].NextReviewAt)
	})

	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	ids := make([]int64, len(due))
	for i, r := range due {
		ids[i] = r.QuestionID
	}
	return ids
}
