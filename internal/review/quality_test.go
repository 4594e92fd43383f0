package review

import "testing"

func TestQualityFor(t *testing.T) {
	cfg := DefaultQualityConfig()

	tests := []struct {
		name      string
		isCorrect bool
		timeMs    int64
		want      Quality
	}{
		{"wrong fast", false, 1000, QualityWrong},
		{"wrong slow", false, 120000, QualityWrong},
		{"correct under fast threshold", true, 8000, QualityCorrectFast},
		{"correct at fast threshold", true, 15000, QualityCorrectFast},
		{"correct between thresholds", true, 30000, QualityCorrectMedium},
		{"correct at slow threshold", true, 45000, QualityCorrectMedium},
		{"correct over slow threshold", true, 45001, QualityCorrectSlow},
	}

	for _, tt := range tests {
		if got := QualityFor(tt.isCorrect, tt.timeMs, cfg); got != tt.want {
			t.Errorf("%s: QualityFor(%v, %d) = %v, want %v", tt.name, tt.isCorrect, tt.timeMs, got, tt.want)
		}
	}
}

func TestQualityCorrect(t *testing.T) {
	if QualityWrong.Correct() {
		t.Error("QualityWrong.Correct() = true, want false")
	}
	for _, q := range []Quality{QualityCorrectSlow, QualityCorrectMedium, QualityCorrectFast} {
		if !q.Correct() {
			t.Errorf("%v.Correct() = false, want true", q)
		}
	}
}

func TestQualityIsValid(t *testing.T) {
	for q := QualityWrong; q <= QualityCorrectFast; q++ {
		if !q.IsValid() {
			t.Errorf("%v.IsValid() = false, want true", q)
		}
	}
	if Quality(-1).IsValid() || Quality(4).IsValid() {
		t.Error("out-of-range quality reported valid")
	}
}

func TestQualityString(t *testing.T) {
	if got := QualityCorrectFast.String(); got != "correct_fast" {
		t.Errorf("String() = %q, want %q", got, "correct_fast")
	}
	if got := Quality(9).String(); got != "Quality(9)" {
		t.Errorf("String() = %q, want %q", got, "Quality(9)")
	}
}
