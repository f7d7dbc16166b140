package exam

import (
	"testing"

	"github.com/google/uuid"
	"github.com/prepverse/prepverse-backend/internal/model"
	"github.com/prepverse/prepverse-backend/internal/pattern"
)

func boolPtr(b bool) *bool { return &b }

// answerFor builds an AnswerRecord the way the record-answer path would:
// marks come from ScoreAnswer, correctness from comparing options.
func answerFor(section int, selected *int, correct int, p *pattern.ExamPattern) model.AnswerRecord {
	rec := model.AnswerRecord{
		AttemptID:      uuid.Nil,
		QuestionID:     uuid.New(),
		SelectedOption: selected,
		SectionNumber:  section,
		MarksAwarded:   ScoreAnswer(selected, correct, p),
	}
	if selected != nil {
		rec.IsCorrect = boolPtr(*selected == correct)
	}
	return rec
}

func TestTallyNEETScenario(t *testing.T) {
	// 2 sections × 2 questions, 4 marks correct, 1 negative. Q1 correct,
	// Q2 incorrect, section 2 untouched → {3, 1, 1, 2}.
	p := &pattern.ExamPattern{
		ID: "T",
		Sections: []pattern.SectionTemplate{
			{SectionNumber: 1, QuestionCount: 2, DurationSeconds: 60},
			{SectionNumber: 2, QuestionCount: 2, DurationSeconds: 60},
		},
		MarksPerCorrectAnswer: 4,
		NegativeMarkingFactor: 1,
	}

	answers := []model.AnswerRecord{
		answerFor(1, intPtr(1), 1, p),
		answerFor(1, intPtr(0), 2, p),
	}

	got := Tally(answers, p.TotalQuestions())
	want := Summary{Score: 3, Correct: 1, Incorrect: 1, Unanswered: 2}
	if got != want {
		t.Errorf("Tally = %+v, want %+v", got, want)
	}
}

func TestTallyCountsSkippedAsUnanswered(t *testing.T) {
	p, _ := pattern.Get("NEET_PG")

	// A visited-but-cleared question has a record with nil selection;
	// it must count as unanswered, not incorrect.
	answers := []model.AnswerRecord{
		answerFor(1, nil, 2, p),
		answerFor(1, intPtr(2), 2, p),
	}

	got := Tally(answers, 5)
	want := Summary{Score: 4, Correct: 1, Incorrect: 0, Unanswered: 4}
	if got != want {
		t.Errorf("Tally = %+v, want %+v", got, want)
	}
}

func TestTallyMatchesIncrementalSum(t *testing.T) {
	p, _ := pattern.Get("INICET")

	var running float64
	var answers []model.AnswerRecord
	picks := []struct {
		selected *int
		correct  int
	}{
		{intPtr(0), 0},
		{intPtr(1), 3},
		{intPtr(2), 2},
		{nil, 1},
		{intPtr(3), 0},
	}
	for _, pk := range picks {
		rec := answerFor(1, pk.selected, pk.correct, p)
		running += rec.MarksAwarded
		answers = append(answers, rec)
	}

	final := Tally(answers, len(picks))
	if final.Score != running {
		t.Errorf("final score %v drifted from incremental sum %v", final.Score, running)
	}
}

func TestTallyEmpty(t *testing.T) {
	got := Tally(nil, 200)
	want := Summary{Unanswered: 200}
	if got != want {
		t.Errorf("Tally(nil) = %+v, want %+v", got, want)
	}
}
