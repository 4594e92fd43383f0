package models

import "time"

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// ExamSession is one timed mock-exam attempt. QuestionIDs is fixed at
// creation and defines presentation order. Answers maps question id to
// the selected option index and may be revised until finalization.
// Score, Passed, and CompletedAt are set exactly once, at finalization.
type ExamSession struct {
	ID                string          `json:"id"`
	UserID            int64           `json:"user_id"`
	QuestionIDs       []int64         `json:"question_ids"`
	Answers           map[int64]int   `json:"answers"`
	Status            SessionStatus   `json:"status"`
	StartedAt         time.Time       `json:"started_at"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`
	Score             *int            `json:"score,omitempty"`
	Passed            *bool           `json:"passed,omitempty"`
	TimeBudgetSeconds int             `json:"time_budget_seconds"`
}

// HasQuestion reports whether the session's fixed question set contains id.
func (s ExamSession) HasQuestion(id int64) bool {
	for _, qid := range s.QuestionIDs {
		if qid == id {
			return true
		}
	}
	return false
}

// ── API Request/Response Types ────────────────────────────

type CreateExamResponse struct {
	SessionID         string  `json:"session_id"`
	QuestionIDs       []int64 `json:"question_ids"`
	TimeBudgetSeconds int     `json:"time_budget_seconds"`
}

type ExamAnswerRequest struct {
	QuestionID    int64 `json:"question_id"`
	SelectedIndex int   `json:"selected_index"`
}

type FinalizeExamRequest struct {
	Answers map[int64]int `json:"answers"`
}

type ExamResult struct {
	SessionID    string    `json:"session_id"`
	Score        int       `json:"score"`
	Passed       bool      `json:"passed"`
	CorrectCount int       `json:"correct_count"`
	CompletedAt  time.Time `json:"completed_at"`
}

type ExamTimeResponse struct {
	RemainingSeconds int  `json:"remaining_seconds"`
	Expired          bool `json:"expired"`
}
