package exam

import (
	"testing"

	"github.com/prepverse/prepverse-backend/internal/pattern"
)

func TestScoreAnswer(t *testing.T) {
	neet, ok := pattern.Get("NEET_PG")
	if !ok {
		t.Fatal("NEET_PG pattern missing from catalog")
	}
	fmge, ok := pattern.Get("FMGE")
	if !ok {
		t.Fatal("FMGE pattern missing from catalog")
	}

	tests := []struct {
		name     string
		selected *int
		correct  int
		p        *pattern.ExamPattern
		want     float64
	}{
		{name: "unanswered scores zero", selected: nil, correct: 2, p: neet, want: 0},
		{name: "correct earns full marks", selected: intPtr(2), correct: 2, p: neet, want: 4},
		{name: "incorrect costs the factor", selected: intPtr(1), correct: 2, p: neet, want: -1},
		{name: "incorrect free without negative marking", selected: intPtr(1), correct: 2, p: fmge, want: 0},
		{name: "correct under flat marks", selected: intPtr(3), correct: 3, p: fmge, want: 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ScoreAnswer(tc.selected, tc.correct, tc.p)
			if got != tc.want {
				t.Errorf("ScoreAnswer(%v, %d, %s) = %v, want %v", tc.selected, tc.correct, tc.p.ID, got, tc.want)
			}
			// Pure function: a second call with identical inputs must agree.
			if again := ScoreAnswer(tc.selected, tc.correct, tc.p); again != got {
				t.Errorf("ScoreAnswer not deterministic: %v then %v", got, again)
			}
		})
	}
}
