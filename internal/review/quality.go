package review

import (
	"fmt"
	"os"
	"strconv"
)

// Quality is a discretized measure of how well an answer was given,
// combining correctness and response speed.
type Quality int

const (
	QualityWrong         Quality = 0
	QualityCorrectSlow   Quality = 1
	QualityCorrectMedium Quality = 2
	QualityCorrectFast   Quality = 3
)

var qualityNames = [...]string{
	QualityWrong:         "wrong",
	QualityCorrectSlow:   "correct_slow",
	QualityCorrectMedium: "correct_medium",
	QualityCorrectFast:   "correct_fast",
}

func (q Quality) String() string {
	if q.IsValid() {
		return qualityNames[q]
	}
	return fmt.Sprintf("Quality(%d)", int(q))
}

// IsValid reports whether q is in the supported range.
func (q Quality) IsValid() bool {
	return q >= QualityWrong && q <= QualityCorrectFast
}

// Correct reports whether q counts as a correct answer for scheduling.
func (q Quality) Correct() bool {
	return q >= QualityCorrectSlow
}

// QualityConfig holds the latency thresholds that split correct answers
// into fast/medium/slow. Thresholds are configuration, not policy baked
// into the scheduler.
type QualityConfig struct {
	FastMs int64
	SlowMs int64
}

// DefaultQualityConfig returns the standard thresholds: answers under
// 15 s are fast, answers over 45 s are slow.
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{FastMs: 15000, SlowMs: 45000}
}

// QualityConfigFromEnv reads REVIEW_FAST_MS and REVIEW_SLOW_MS,
// falling back to defaults for unset or malformed values.
func QualityConfigFromEnv() QualityConfig {
	cfg := DefaultQualityConfig()
	if v := os.Getenv("REVIEW_FAST_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.FastMs = n
		}
	}
	if v := os.Getenv("REVIEW_SLOW_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > cfg.FastMs {
			cfg.SlowMs = n
		}
	}
	return cfg
}

// QualityFor maps an answer outcome to a Quality. Incorrect answers are
// always QualityWrong regardless of speed.
func QualityFor(isCorrect bool, timeSpentMs int64, cfg QualityConfig) Quality {
	if !isCorrect {
		return QualityWrong
	}
	switch {
	case timeSpentMs <= cfg.FastMs:
		return QualityCorrectFast
	case timeSpentMs <= cfg.SlowMs:
		return QualityCorrectMedium
	default:
		return QualityCorrectSlow
	}
}
