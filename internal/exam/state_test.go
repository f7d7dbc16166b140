package exam

import "testing"

func intPtr(n int) *int { return &n }

func TestClassifyAnswer(t *testing.T) {
	tests := []struct {
		name     string
		visited  bool
		selected *int
		marked   bool
		want     AnswerState
	}{
		{name: "never visited", visited: false, selected: nil, marked: false, want: StateNotVisited},
		{name: "never visited ignores flags", visited: false, selected: nil, marked: true, want: StateNotVisited},
		{name: "visited no selection", visited: true, selected: nil, marked: false, want: StateSkipped},
		{name: "selected", visited: true, selected: intPtr(2), marked: false, want: StateAnswered},
		{name: "marked without selection", visited: true, selected: nil, marked: true, want: StateMarkedForReview},
		{name: "selected and marked", visited: true, selected: intPtr(0), marked: true, want: StateAnsweredAndMarked},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyAnswer(tc.visited, tc.selected, tc.marked)
			if got != tc.want {
				t.Errorf("ClassifyAnswer(%v, %v, %v) = %q, want %q", tc.visited, tc.selected, tc.marked, got, tc.want)
			}
		})
	}
}

func TestVerdict(t *testing.T) {
	tests := []struct {
		name     string
		selected *int
		correct  int
		want     string
	}{
		{name: "no selection", selected: nil, correct: 1, want: VerdictUnanswered},
		{name: "right pick", selected: intPtr(1), correct: 1, want: VerdictCorrect},
		{name: "wrong pick", selected: intPtr(3), correct: 1, want: VerdictWrong},
		{name: "zero is a valid option", selected: intPtr(0), correct: 0, want: VerdictCorrect},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Verdict(tc.selected, tc.correct); got != tc.want {
				t.Errorf("Verdict(%v, %d) = %q, want %q", tc.selected, tc.correct, got, tc.want)
			}
		})
	}
}
