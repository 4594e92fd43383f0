package database

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "examtrainer_user")
	password := getEnv("DB_PASSWORD", "examtrainer_password")
	dbname := getEnv("DB_NAME", "examtrainer")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		username VARCHAR(50) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
	CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);

	CREATE TABLE IF NOT EXISTS questions (
		id                   BIGSERIAL PRIMARY KEY,
		topic                VARCHAR(50) NOT NULL,
		prompt               TEXT NOT NULL,
		options              JSONB NOT NULL,
		correct_option_index INT NOT NULL,
		explanation          TEXT NOT NULL DEFAULT '',
		verified             BOOLEAN NOT NULL DEFAULT FALSE,
		times_served         INT NOT NULL DEFAULT 0,
		times_correct        INT NOT NULL DEFAULT 0,
		created_at           TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_questions_topic ON questions(topic);
	CREATE INDEX IF NOT EXISTS idx_questions_verified ON questions(verified) WHERE verified = TRUE;

	CREATE TABLE IF NOT EXISTS review_records (
		id             BIGSERIAL PRIMARY KEY,
		user_id        BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		question_id    BIGINT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		ease_factor    DOUBLE PRECISION NOT NULL DEFAULT 2.5,
		interval_days  INT NOT NULL DEFAULT 1,
		repetitions    INT NOT NULL DEFAULT 0,
		next_review_at TIMESTAMP WITH TIME ZONE NOT NULL,
		updated_at     TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(user_id, question_id)
	);

	CREATE INDEX IF NOT EXISTS idx_review_user ON review_records(user_id);
	CREATE INDEX IF NOT EXISTS idx_review_due ON review_records(user_id, next_review_at);

	CREATE TABLE IF NOT EXISTS exam_sessions (
		id                  VARCHAR(36) PRIMARY KEY,
		user_id             BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		question_ids        JSONB NOT NULL,
		answers             JSONB NOT NULL DEFAULT '{}',
		status              VARCHAR(20) NOT NULL DEFAULT 'active',
		started_at          TIMESTAMP WITH TIME ZONE NOT NULL,
		completed_at        TIMESTAMP WITH TIME ZONE,
		score               INT,
		passed              BOOLEAN,
		time_budget_seconds INT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_exam_user ON exam_sessions(user_id, started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_exam_status ON exam_sessions(status);

	CREATE TABLE IF NOT EXISTS user_progress (
		user_id                  BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		total_xp                 BIGINT NOT NULL DEFAULT 0,
		current_streak           INT NOT NULL DEFAULT 0,
		longest_streak           INT NOT NULL DEFAULT 0,
		last_active_date         DATE,
		daily_goal_target        INT NOT NULL DEFAULT 10,
		daily_goal_progress      INT NOT NULL DEFAULT 0,
		daily_goal_date          DATE DEFAULT CURRENT_DATE,
		questions_answered_total INT NOT NULL DEFAULT 0,
		questions_correct_total  INT NOT NULL DEFAULT 0,
		exams_completed_total    INT NOT NULL DEFAULT 0,
		exams_passed_total       INT NOT NULL DEFAULT 0,
		created_at               TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at               TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS xp_events (
		id          BIGSERIAL PRIMARY KEY,
		user_id     BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		event_type  VARCHAR(50) NOT NULL,
		xp_amount   INT NOT NULL,
		created_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_xp_events_user ON xp_events(user_id, created_at);
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// generateUsernameBase creates a lowercase alphanumeric base from a user's name.
func generateUsernameBase(name string) string {
	var result []byte
	for _, c := range strings.ToLower(name) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			result = append(result, byte(c))
		}
	}
	if len(result) == 0 {
		return "user"
	}
	if len(result) > 12 {
		result = result[:12]
	}
	return string(result)
}

// rng is a seeded random source for username generation.
var rng = rand.New(rand.NewSource(time.Now().UnixNano()))

// GenerateUsername creates a unique username from a name by appending random digits.
// It tries up to 10 times to find a unique one. Caller should handle the unique constraint.
func GenerateUsername(name string) string {
	base := generateUsernameBase(name)
	return fmt.Sprintf("%s%04d", base, rng.Intn(10000))
}
