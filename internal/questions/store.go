package questions

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/examtrainer/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const questionCols = `id, topic, prompt, options, correct_option_index,
	        explanation, verified, times_served, times_correct, created_at`

func scanQuestion(row interface{ Scan(...interface{}) error }) (*models.Question, error) {
	var q models.Question
	var options []byte
	err := row.Scan(&q.ID, &q.Topic, &q.Prompt, &options, &q.CorrectOptionIndex,
		&q.Explanation, &q.Verified, &q.TimesServed, &q.TimesCorrect, &q.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(options, &q.Options); err != nil {
		return nil, fmt.Errorf("unmarshal options: %w", err)
	}
	return &q, nil
}

func (s *Store) GetQuestion(id int64) (*models.Question, error) {
	row := s.db.QueryRow(
		fmt.Sprintf(`SELECT %s FROM questions WHERE id = $1`, questionCols), id,
	)
	q, err := scanQuestion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

func (s *Store) GetQuestionsByIDs(ids []int64) ([]models.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(
		fmt.Sprintf(`SELECT %s FROM questions WHERE id = ANY($1)`, questionCols),
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("get questions by ids: %w", err)
	}
	defer rows.Close()
	return collectQuestions(rows)
}

// SampleVerified returns up to n verified questions in random order.
func (s *Store) SampleVerified(n int) ([]models.Question, error) {
	rows, err := s.db.Query(
		fmt.Sprintf(`SELECT %s FROM questions WHERE verified = TRUE
		 ORDER BY RANDOM() LIMIT $1`, questionCols),
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("sample verified questions: %w", err)
	}
	defer rows.Close()
	return collectQuestions(rows)
}

// CorrectIndexes returns the answer key for the given question ids.
func (s *Store) CorrectIndexes(ids []int64) (map[int64]int, error) {
	if len(ids) == 0 {
		return map[int64]int{}, nil
	}
	rows, err := s.db.Query(
		`SELECT id, correct_option_index FROM questions WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, fmt.Errorf("load answer key: %w", err)
	}
	defer rows.Close()

	key := make(map[int64]int, len(ids))
	for rows.Next() {
		var id int64
		var idx int
		if err := rows.Scan(&id, &idx); err != nil {
			return nil, fmt.Errorf("scan answer key: %w", err)
		}
		key[id] = idx
	}
	return key, rows.Err()
}

func (s *Store) CountVerified() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM questions WHERE verified = TRUE`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count verified questions: %w", err)
	}
	return n, nil
}

func (s *Store) ListByTopic(topic models.Topic, limit int) ([]models.Question, error) {
	rows, err := s.db.Query(
		fmt.Sprintf(`SELECT %s FROM questions WHERE topic = $1
		 ORDER BY id LIMIT $2`, questionCols),
		topic, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list questions by topic: %w", err)
	}
	defer rows.Close()
	return collectQuestions(rows)
}

func (s *Store) IncrementServed(id int64) error {
	_, err := s.db.Exec(
		`UPDATE questions SET times_served = times_served + 1 WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("increment times served: %w", err)
	}
	return nil
}

func (s *Store) IncrementCorrect(id int64) error {
	_, err := s.db.Exec(
		`UPDATE questions SET times_correct = times_correct + 1 WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("increment times correct: %w", err)
	}
	return nil
}

// ImportQuestions inserts the envelope's questions, skipping items whose
// (topic, prompt) pair already exists. Invalid items fail the whole
// import before anything is written.
func (s *Store) ImportQuestions(env models.ImportEnvelope) (*models.ImportResult, error) {
	for i, iq := range env.Questions {
		if err := validateImport(iq); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result := &models.ImportResult{TotalInPayload: len(env.Questions)}
	for _, iq := range env.Questions {
		var exists bool
		err := tx.QueryRow(
			`SELECT EXISTS(SELECT 1 FROM questions WHERE topic = $1 AND prompt = $2)`,
			iq.Topic, iq.Prompt,
		).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("check duplicate: %w", err)
		}
		if exists {
			result.Skipped++
			continue
		}

		options, err := json.Marshal(iq.Options)
		if err != nil {
			return nil, fmt.Errorf("marshal options: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO questions (topic, prompt, options, correct_option_index, explanation, verified)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			iq.Topic, iq.Prompt, options, iq.CorrectOptionIndex, iq.Explanation, iq.Verified,
		)
		if err != nil {
			return nil, fmt.Errorf("insert question: %w", err)
		}
		result.Imported++
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return result, nil
}

func validateImport(iq models.ImportQuestion) error {
	if !models.ValidTopics[iq.Topic] {
		return fmt.Errorf("unknown topic %q", iq.Topic)
	}
	if strings.TrimSpace(iq.Prompt) == "" {
		return fmt.Errorf("empty prompt")
	}
	if len(iq.Options) < 2 {
		return fmt.Errorf("need at least 2 options, got %d", len(iq.Options))
	}
	if iq.CorrectOptionIndex < 0 || iq.CorrectOptionIndex >= len(iq.Options) {
		return fmt.Errorf("correct_option_index %d out of range", iq.CorrectOptionIndex)
	}
	return nil
}

func collectQuestions(rows *sql.Rows) ([]models.Question, error) {
	var out []models.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, *q)
	}
	return out, rows.Err()
}
