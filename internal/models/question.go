package models

import "time"

type Topic string

const (
	TopicRegulations Topic = "regulations"
	TopicSafety      Topic = "safety"
	TopicProcedures  Topic = "procedures"
	TopicEquipment   Topic = "equipment"
	TopicFirstAid    Topic = "first_aid"
)

var ValidTopics = map[Topic]bool{
	TopicRegulations: true,
	TopicSafety:      true,
	TopicProcedures:  true,
	TopicEquipment:   true,
	TopicFirstAid:    true,
}

// ── Core Structs ───────────────────────────────────────

// Question is a multiple-choice item in the corpus. The review scheduler
// and the exam engine read questions but never mutate them.
type Question struct {
	ID                 int64     `json:"id"`
	Topic              Topic     `json:"topic"`
	Prompt             string    `json:"prompt"`
	Options            []string  `json:"options"`
	CorrectOptionIndex int       `json:"correct_option_index"`
	Explanation        string    `json:"explanation,omitempty"`
	Verified           bool      `json:"verified"`
	TimesServed        int       `json:"times_served"`
	TimesCorrect       int       `json:"times_correct"`
	CreatedAt          time.Time `json:"created_at"`
}

// ServedQuestion is the client-facing view of a question with the
// answer key stripped.
type ServedQuestion struct {
	ID      int64    `json:"id"`
	Topic   Topic    `json:"topic"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options"`
}

func (q Question) ToServed() ServedQuestion {
	return ServedQuestion{
		ID:      q.ID,
		Topic:   q.Topic,
		Prompt:  q.Prompt,
		Options: q.Options,
	}
}

// ── API Request/Response Types ────────────────────────────

type SubmitAnswerRequest struct {
	SelectedIndex int    `json:"selected_index"`
	TimeSpentMs   int64  `json:"time_spent_ms"`
	Source        string `json:"source,omitempty"`
}

type SubmitAnswerResponse struct {
	Correct            bool             `json:"correct"`
	CorrectOptionIndex int              `json:"correct_option_index"`
	Explanation        string           `json:"explanation,omitempty"`
	Scheduling         *SchedulingState `json:"scheduling,omitempty"`
	XPAwarded          int              `json:"xp_awarded"`
}

// ── Import ────────────────────────────────────────────────

type ImportQuestion struct {
	Topic              Topic    `json:"topic"`
	Prompt             string   `json:"prompt"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	Explanation        string   `json:"explanation,omitempty"`
	Verified           bool     `json:"verified"`
}

type ImportEnvelope struct {
	Version   int              `json:"version"`
	Questions []ImportQuestion `json:"questions"`
}

type ImportResult struct {
	TotalInPayload int `json:"total_in_payload"`
	Imported       int `json:"imported"`
	Skipped        int `json:"skipped"`
}
