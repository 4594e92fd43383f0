package exam

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/examtrainer/backend/internal/models"
)

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

// fakeQuestions serves n verified questions with ids 1..n. The correct
// option for every question is index 0.
type fakeQuestions struct {
	available int
}

func (f *fakeQuestions) SampleVerified(n int) ([]models.Question, error) {
	if n > f.available {
		n = f.available
	}
	out := make([]models.Question, n)
	for i := range out {
		out[i] = models.Question{
			ID:                 int64(i + 1),
			Topic:              models.TopicSafety,
			Prompt:             fmt.Sprintf("question %d", i+1),
			Options:            []string{"right", "wrong", "wrong", "wrong"},
			CorrectOptionIndex: 0,
			Verified:           true,
		}
	}
	return out, nil
}

func (f *fakeQuestions) CorrectIndexes(ids []int64) (map[int64]int, error) {
	key := make(map[int64]int, len(ids))
	for _, id := range ids {
		key[id] = 0
	}
	return key, nil
}

func newTestEngine(available int) *Engine {
	return NewEngine(NewMemoryStore(), &fakeQuestions{available: available}, nil)
}

func TestCreateSession(t *testing.T) {
	engine := newTestEngine(50)

	sess, err := engine.Create(7, testNow)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if sess.ID == "" {
		t.Error("expected non-empty session ID")
	}
	if sess.UserID != 7 {
		t.Errorf("UserID = %d, want 7", sess.UserID)
	}
	if len(sess.QuestionIDs) != QuestionCount {
		t.Errorf("got %d questions, want %d", len(sess.QuestionIDs), QuestionCount)
	}
	if sess.Status != models.SessionActive {
		t.Errorf("Status = %q, want %q", sess.Status, models.SessionActive)
	}
	if sess.TimeBudgetSeconds != TimeBudgetSeconds {
		t.Errorf("TimeBudgetSeconds = %d, want %d", sess.TimeBudgetSeconds, TimeBudgetSeconds)
	}

	seen := make(map[int64]bool)
	for _, id := range sess.QuestionIDs {
		if seen[id] {
			t.Errorf("duplicate question %d in session", id)
		}
		seen[id] = true
	}
}

func TestCreateInsufficientQuestions(t *testing.T) {
	engine := newTestEngine(QuestionCount - 1)

	_, err := engine.Create(7, testNow)
	if !errors.Is(err, ErrInsufficientQuestions) {
		t.Errorf("Create error = %v, want ErrInsufficientQuestions", err)
	}
}

func TestRecordAnswerAndRevision(t *testing.T) {
	engine := newTestEngine(50)
	sess, err := engine.Create(7, testNow)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	qid := sess.QuestionIDs[0]
	if err := engine.RecordAnswer(sess.ID, 7, qid, 2); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}
	// Same question again overwrites the earlier choice.
	if err := engine.RecordAnswer(sess.ID, 7, qid, 0); err != nil {
		t.Fatalf("RecordAnswer revision: %v", err)
	}

	got, err := engine.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Answers[qid] != 0 {
		t.Errorf("Answers[%d] = %d, want 0 after revision", qid, got.Answers[qid])
	}
	if len(got.Answers) != 1 {
		t.Errorf("got %d answers, want 1", len(got.Answers))
	}
}

func TestRecordAnswerRejections(t *testing.T) {
	engine := newTestEngine(50)
	sess, err := engine.Create(7, testNow)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name       string
		sessionID  string
		userID     int64
		questionID int64
		index      int
		wantErr    error
	}{
		{"unknown session", "no-such-session", 7, sess.QuestionIDs[0], 0, ErrSessionNotFound},
		{"wrong user", sess.ID, 99, sess.QuestionIDs[0], 0, ErrSessionNotFound},
		{"question outside session", sess.ID, 7, 9999, 0, ErrQuestionNotInSession},
		{"negative index", sess.ID, 7, sess.QuestionIDs[0], -1, ErrInvalidAnswer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.RecordAnswer(tt.sessionID, tt.userID, tt.questionID, tt.index)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("RecordAnswer error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRecordAnswerAfterCompletion(t *testing.T) {
	engine := newTestEngine(50)
	sess, err := engine.Create(7, testNow)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := engine.Finalize(sess.ID, nil, testNow.Add(time.Minute)); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	err = engine.RecordAnswer(sess.ID, 7, sess.QuestionIDs[0], 0)
	if !errors.Is(err, ErrSessionCompleted) {
		t.Errorf("RecordAnswer error = %v, want ErrSessionCompleted", err)
	}
}

func TestFinalizeScoring(t *testing.T) {
	tests := []struct {
		name       string
		correct    int
		wrong      int
		wantScore  int
		wantPassed bool
	}{
		{"exactly at threshold", 18, 6, 75, true},
		{"one below threshold", 17, 7, 71, false},
		{"all correct", 24, 0, 100, true},
		{"nothing answered", 0, 0, 0, false},
		{"all wrong", 0, 24, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newTestEngine(50)
			sess, err := engine.Create(7, testNow)
			if err != nil {
				t.Fatalf("Create: %v", err)
			}

			answers := make(map[int64]int)
			for i := 0; i < tt.correct; i++ {
				answers[sess.QuestionIDs[i]] = 0
			}
			for i := tt.correct; i < tt.correct+tt.wrong; i++ {
				answers[sess.QuestionIDs[i]] = 1
			}

			result, err := engine.Finalize(sess.ID, answers, testNow.Add(30*time.Minute))
			if err != nil {
				t.Fatalf("Finalize: %v", err)
			}
			if result.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", result.Score, tt.wantScore)
			}
			if result.Passed != tt.wantPassed {
				t.Errorf("Passed = %v, want %v", result.Passed, tt.wantPassed)
			}
			if result.CorrectCount != tt.correct {
				t.Errorf("CorrectCount = %d, want %d", result.CorrectCount, tt.correct)
			}
		})
	}
}

func TestFinalizeMergesRecordedAnswers(t *testing.T) {
	engine := newTestEngine(50)
	sess, err := engine.Create(7, testNow)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Recorded during the session: first question correct.
	if err := engine.RecordAnswer(sess.ID, 7, sess.QuestionIDs[0], 0); err != nil {
		t.Fatalf("RecordAnswer: %v", err)
	}

	// The finalize body adds one more correct answer, revises nothing,
	// and carries a key outside the session set that must be ignored.
	body := map[int64]int{
		sess.QuestionIDs[1]: 0,
		9999:                0,
	}
	result, err := engine.Finalize(sess.ID, body, testNow.Add(time.Minute))
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if result.CorrectCount != 2 {
		t.Errorf("CorrectCount = %d, want 2", result.CorrectCount)
	}
}

func TestFinalizeIdempotent(t *testing.T) {
	engine := newTestEngine(50)
	sess, err := engine.Create(7, testNow)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	answers := make(map[int64]int)
	for i := 0; i < 20; i++ {
		answers[sess.QuestionIDs[i]] = 0
	}

	first, err := engine.Finalize(sess.ID, answers, testNow.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("first Finalize: %v", err)
	}

	// Second finalize with different answers must return the stored
	// result unchanged, regardless of the new payload or timestamp.
	second, err := engine.Finalize(sess.ID, map[int64]int{sess.QuestionIDs[0]: 1}, testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("second Finalize: %v", err)
	}

	if second.Score != first.Score {
		t.Errorf("second Score = %d, want %d", second.Score, first.Score)
	}
	if second.Passed != first.Passed {
		t.Errorf("second Passed = %v, want %v", second.Passed, first.Passed)
	}
	if !second.CompletedAt.Equal(first.CompletedAt) {
		t.Errorf("second CompletedAt = %v, want %v", second.CompletedAt, first.CompletedAt)
	}

	stored, err := engine.Get(sess.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Score == nil || *stored.Score != first.Score {
		t.Errorf("stored score = %v, want %d", stored.Score, first.Score)
	}
}

func TestFinalizeLosingCASReturnsStoredResult(t *testing.T) {
	store := NewMemoryStore()
	engine := NewEngine(store, &fakeQuestions{available: 50}, nil)

	sess, err := engine.Create(7, testNow)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Simulate another finalizer winning between this caller's read and
	// its conditional write: complete the session at the store directly.
	winAt := testNow.Add(5 * time.Minute)
	won, err := store.FinalizeSession(sess.ID, map[int64]int{sess.QuestionIDs[0]: 0}, 4, false, winAt)
	if err != nil || !won {
		t.Fatalf("store finalize: won=%v err=%v", won, err)
	}

	result, err := engine.Finalize(sess.ID, nil, testNow.Add(6*time.Minute))
	if err != nil {
		t.Fatalf("Finalize after loss: %v", err)
	}
	if result.Score != 4 {
		t.Errorf("Score = %d, want the winner's 4", result.Score)
	}
	if !result.CompletedAt.Equal(winAt) {
		t.Errorf("CompletedAt = %v, want the winner's %v", result.CompletedAt, winAt)
	}
}

func TestRemaining(t *testing.T) {
	engine := newTestEngine(50)
	sess, err := engine.Create(7, testNow)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tests := []struct {
		name        string
		now         time.Time
		wantSeconds int
		wantExpired bool
	}{
		{"just started", testNow, TimeBudgetSeconds, false},
		{"halfway", testNow.Add(TimeBudgetSeconds / 2 * time.Second), TimeBudgetSeconds / 2, false},
		{"at deadline", testNow.Add(TimeBudgetSeconds * time.Second), 0, true},
		{"past deadline", testNow.Add(2 * TimeBudgetSeconds * time.Second), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := engine.Remaining(sess.ID, tt.now)
			if err != nil {
				t.Fatalf("Remaining: %v", err)
			}
			if resp.RemainingSeconds != tt.wantSeconds {
				t.Errorf("RemainingSeconds = %d, want %d", resp.RemainingSeconds, tt.wantSeconds)
			}
			if resp.Expired != tt.wantExpired {
				t.Errorf("Expired = %v, want %v", resp.Expired, tt.wantExpired)
			}
		})
	}
}

func TestRemainingAfterCompletion(t *testing.T) {
	engine := newTestEngine(50)
	sess, err := engine.Create(7, testNow)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := engine.Finalize(sess.ID, nil, testNow.Add(time.Minute)); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	resp, err := engine.Remaining(sess.ID, testNow.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("Remaining: %v", err)
	}
	if resp.RemainingSeconds != 0 || !resp.Expired {
		t.Errorf("got remaining=%d expired=%v, want 0/true for a completed session", resp.RemainingSeconds, resp.Expired)
	}
}
