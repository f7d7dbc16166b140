// Package pattern holds the immutable exam pattern catalog: the named
// templates defining section layout, marks and negative-marking rules
// for each class of test. Pure lookup, no mutable state.
package pattern

import (
	"fmt"
	"sort"
)

// SectionTemplate describes one time-boxed section of a pattern.
type SectionTemplate struct {
	SectionNumber   int `json:"section_number"`
	QuestionCount   int `json:"question_count"`
	DurationSeconds int `json:"duration_seconds"`
}

// ExamPattern is a catalog entry. Section numbers are contiguous starting
// at 1; the total duration of a test is the sum of its section durations.
type ExamPattern struct {
	ID                    string            `json:"id"`
	Name                  string            `json:"name"`
	Sections              []SectionTemplate `json:"sections"`
	MarksPerCorrectAnswer float64           `json:"marks_per_correct_answer"`
	// NegativeMarkingFactor is the magnitude subtracted per incorrect
	// answer. Zero means negative marking is disabled; there is no
	// distinct "enabled at zero" state.
	NegativeMarkingFactor float64 `json:"negative_marking_factor"`
}

// NegativeMarkingEnabled reports whether incorrect answers cost marks.
func (p *ExamPattern) NegativeMarkingEnabled() bool {
	return p.NegativeMarkingFactor > 0
}

// TotalQuestions returns the question count summed over all sections.
func (p *ExamPattern) TotalQuestions() int {
	total := 0
	for _, s := range p.Sections {
		total += s.QuestionCount
	}
	return total
}

// TotalDurationSeconds returns the duration summed over all sections.
func (p *ExamPattern) TotalDurationSeconds() int {
	total := 0
	for _, s := range p.Sections {
		total += s.DurationSeconds
	}
	return total
}

// Section returns the template for the given 1-based section number.
func (p *ExamPattern) Section(n int) (SectionTemplate, bool) {
	if n < 1 || n > len(p.Sections) {
		return SectionTemplate{}, false
	}
	return p.Sections[n-1], true
}

// SectionCount returns the number of sections.
func (p *ExamPattern) SectionCount() int {
	return len(p.Sections)
}

// validate enforces the catalog invariant: at least one section, section
// numbers contiguous from 1, positive counts and durations.
func (p *ExamPattern) validate() error {
	if p.ID == "" {
		return fmt.Errorf("pattern has empty id")
	}
	if len(p.Sections) == 0 {
		return fmt.Errorf("pattern %s has no sections", p.ID)
	}
	for i, s := range p.Sections {
		if s.SectionNumber != i+1 {
			return fmt.Errorf("pattern %s: section %d numbered %d, want %d", p.ID, i, s.SectionNumber, i+1)
		}
		if s.QuestionCount <= 0 {
			return fmt.Errorf("pattern %s section %d: non-positive question count", p.ID, s.SectionNumber)
		}
		if s.DurationSeconds <= 0 {
			return fmt.Errorf("pattern %s section %d: non-positive duration", p.ID, s.SectionNumber)
		}
	}
	if p.MarksPerCorrectAnswer <= 0 {
		return fmt.Errorf("pattern %s: non-positive marks per correct answer", p.ID)
	}
	if p.NegativeMarkingFactor < 0 {
		return fmt.Errorf("pattern %s: negative marking factor below zero", p.ID)
	}
	return nil
}

// catalog is the process-wide set of known patterns, keyed by id.
var catalog = map[string]*ExamPattern{
	"NEET_PG": {
		ID:   "NEET_PG",
		Name: "NEET-PG Mock",
		Sections: []SectionTemplate{
			{SectionNumber: 1, QuestionCount: 100, DurationSeconds: 6300},
			{SectionNumber: 2, QuestionCount: 100, DurationSeconds: 6300},
		},
		MarksPerCorrectAnswer: 4,
		NegativeMarkingFactor: 1,
	},
	"INICET": {
		ID:   "INICET",
		Name: "INI-CET Mock",
		Sections: []SectionTemplate{
			{SectionNumber: 1, QuestionCount: 200, DurationSeconds: 10800},
		},
		MarksPerCorrectAnswer: 1,
		NegativeMarkingFactor: (1.0 / 3.0),
	},
	"FMGE": {
		ID:   "FMGE",
		Name: "FMGE Mock",
		Sections: []SectionTemplate{
			{SectionNumber: 1, QuestionCount: 150, DurationSeconds: 9000},
			{SectionNumber: 2, QuestionCount: 150, DurationSeconds: 9000},
		},
		MarksPerCorrectAnswer: 1,
		NegativeMarkingFactor: 0,
	},
	"GRAND_TEST_MINI": {
		ID:   "GRAND_TEST_MINI",
		Name: "Mini Grand Test",
		Sections: []SectionTemplate{
			{SectionNumber: 1, QuestionCount: 50, DurationSeconds: 2700},
			{SectionNumber: 2, QuestionCount: 50, DurationSeconds: 2700},
		},
		MarksPerCorrectAnswer: 4,
		NegativeMarkingFactor: 1,
	},
}

func init() {
	for _, p := range catalog {
		if err := p.validate(); err != nil {
			panic(err)
		}
	}
}

// Get returns the pattern for the given id.
func Get(id string) (*ExamPattern, bool) {
	p, ok := catalog[id]
	return p, ok
}

// IDs returns all known pattern ids, sorted.
func IDs() []string {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns all patterns ordered by id.
func All() []*ExamPattern {
	patterns := make([]*ExamPattern, 0, len(catalog))
	for _, id := range IDs() {
		patterns = append(patterns, catalog[id])
	}
	return patterns
}
