package exam

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/examtrainer/backend/internal/models"
)

// Store persists exam sessions. FinalizeSession must be a conditional
// write on status = active so that concurrent finalize attempts (manual
// submit vs. auto-submit) resolve to exactly one winner.
type Store interface {
	CreateSession(s models.ExamSession) error
	GetSession(id string) (*models.ExamSession, error)
	SaveAnswer(id string, questionID int64, selectedIndex int) error
	// FinalizeSession transitions the session to completed if and only if
	// it is still active. It reports whether this call won the transition;
	// a false return with nil error means another caller completed the
	// session first.
	FinalizeSession(id string, answers map[int64]int, score int, passed bool, completedAt time.Time) (bool, error)
}

// ── Postgres implementation ─────────────────────────────

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) CreateSession(sess models.ExamSession) error {
	questionIDs, err := json.Marshal(sess.QuestionIDs)
	if err != nil {
		return fmt.Errorf("marshal question ids: %w", err)
	}
	answers, err := marshalAnswers(sess.Answers)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`INSERT INTO exam_sessions
		 (id, user_id, question_ids, answers, status, started_at, time_budget_seconds)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sess.ID, sess.UserID, questionIDs, answers, sess.Status,
		sess.StartedAt, sess.TimeBudgetSeconds,
	)
	if err != nil {
		return fmt.Errorf("create exam session: %w", err)
	}
	return nil
}

func (s *SQLStore) GetSession(id string) (*models.ExamSession, error) {
	var sess models.ExamSession
	var questionIDs, answers []byte
	err := s.db.QueryRow(
		`SELECT id, user_id, question_ids, answers, status, started_at,
		        completed_at, score, passed, time_budget_seconds
		 FROM exam_sessions WHERE id = $1`,
		id,
	).Scan(&sess.ID, &sess.UserID, &questionIDs, &answers, &sess.Status,
		&sess.StartedAt, &sess.CompletedAt, &sess.Score, &sess.Passed,
		&sess.TimeBudgetSeconds)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get exam session: %w", err)
	}

	if err := json.Unmarshal(questionIDs, &sess.QuestionIDs); err != nil {
		return nil, fmt.Errorf("unmarshal question ids: %w", err)
	}
	sess.Answers, err = unmarshalAnswers(answers)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SQLStore) SaveAnswer(id string, questionID int64, selectedIndex int) error {
	// jsonb_set writes one key without re-reading the whole answer map.
	res, err := s.db.Exec(
		`UPDATE exam_sessions
		 SET answers = jsonb_set(answers, ARRAY[$2::text], to_jsonb($3::int))
		 WHERE id = $1 AND status = 'active'`,
		id, strconv.FormatInt(questionID, 10), selectedIndex,
	)
	if err != nil {
		return fmt.Errorf("save exam answer: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save exam answer: %w", err)
	}
	if n == 0 {
		// Distinguish missing from completed for the caller.
		sess, err := s.GetSession(id)
		if err != nil {
			return err
		}
		if sess.Status == models.SessionCompleted {
			return ErrSessionCompleted
		}
		return ErrSessionNotFound
	}
	return nil
}

func (s *SQLStore) FinalizeSession(id string, answers map[int64]int, score int, passed bool, completedAt time.Time) (bool, error) {
	merged, err := marshalAnswers(answers)
	if err != nil {
		return false, err
	}

	// Compare-and-set on status: only one caller can move active → completed.
	res, err := s.db.Exec(
		`UPDATE exam_sessions
		 SET answers = $2, status = 'completed', score = $3, passed = $4, completed_at = $5
		 WHERE id = $1 AND status = 'active'`,
		id, merged, score, passed, completedAt,
	)
	if err != nil {
		return false, fmt.Errorf("finalize exam session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("finalize exam session: %w", err)
	}
	return n > 0, nil
}

// Answers are stored as a JSON object keyed by question id; Go maps with
// int64 keys do not round-trip through encoding/json directly.
func marshalAnswers(answers map[int64]int) ([]byte, error) {
	m := make(map[string]int, len(answers))
	for qid, idx := range answers {
		m[strconv.FormatInt(qid, 10)] = idx
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal answers: %w", err)
	}
	return b, nil
}

func unmarshalAnswers(data []byte) (map[int64]int, error) {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal answers: %w", err)
	}
	out := make(map[int64]int, len(m))
	for k, v := range m {
		qid, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("unmarshal answers: bad key %q", k)
		}
		out[qid] = v
	}
	return out, nil
}

// ── In-memory implementation ────────────────────────────

// MemoryStore is a mutex-guarded map store with the same compare-and-set
// finalize semantics as the SQL store. Used by tests and available for
// single-process deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.ExamSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]models.ExamSession)}
}

func (m *MemoryStore) CreateSession(sess models.ExamSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = cloneSession(sess)
	return nil
}

func (m *MemoryStore) GetSession(id string) (*models.ExamSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := cloneSession(sess)
	return &out, nil
}

func (m *MemoryStore) SaveAnswer(id string, questionID int64, selectedIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if sess.Status == models.SessionCompleted {
		return ErrSessionCompleted
	}
	sess.Answers[questionID] = selectedIndex
	m.sessions[id] = sess
	return nil
}

func (m *MemoryStore) FinalizeSession(id string, answers map[int64]int, score int, passed bool, completedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return false, ErrSessionNotFound
	}
	if sess.Status != models.SessionActive {
		return false, nil
	}
	sess.Answers = make(map[int64]int, len(answers))
	for k, v := range answers {
		sess.Answers[k] = v
	}
	sess.Status = models.SessionCompleted
	sess.Score = &score
	sess.Passed = &passed
	sess.CompletedAt = &completedAt
	m.sessions[id] = sess
	return true, nil
}

func cloneSession(sess models.ExamSession) models.ExamSession {
	out := sess
	out.QuestionIDs = append([]int64(nil), sess.QuestionIDs...)
	out.Answers = make(map[int64]int, len(sess.Answers))
	for k, v := range sess.Answers {
		out.Answers[k] = v
	}
	if sess.Score != nil {
		v := *sess.Score
		out.Score = &v
	}
	if sess.Passed != nil {
		v := *sess.Passed
		out.Passed = &v
	}
	if sess.CompletedAt != nil {
		v := *sess.CompletedAt
		out.CompletedAt = &v
	}
	return out
}
