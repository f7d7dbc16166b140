package pattern

import "testing"

func TestCatalogInvariants(t *testing.T) {
	ids := IDs()
	if len(ids) == 0 {
		t.Fatal("catalog is empty")
	}

	for _, id := range ids {
		p, ok := Get(id)
		if !ok {
			t.Fatalf("Get(%q) missing", id)
		}
		if err := p.validate(); err != nil {
			t.Errorf("pattern %s: %v", id, err)
		}

		total := 0
		for i, s := range p.Sections {
			if s.SectionNumber != i+1 {
				t.Errorf("pattern %s: section numbers not contiguous from 1", id)
			}
			total += s.DurationSeconds
		}
		if p.TotalDurationSeconds() != total {
			t.Errorf("pattern %s: total duration %d != sum of sections %d", id, p.TotalDurationSeconds(), total)
		}
	}
}

func TestGetUnknownPattern(t *testing.T) {
	if _, ok := Get("UPSC"); ok {
		t.Error("unknown pattern id resolved")
	}
}

func TestNEETPGShape(t *testing.T) {
	p, ok := Get("NEET_PG")
	if !ok {
		t.Fatal("NEET_PG missing")
	}
	if p.SectionCount() != 2 || p.TotalQuestions() != 200 {
		t.Errorf("NEET_PG: %d sections %d questions, want 2/200", p.SectionCount(), p.TotalQuestions())
	}
	if p.MarksPerCorrectAnswer != 4 || !p.NegativeMarkingEnabled() {
		t.Errorf("NEET_PG marking scheme wrong: +%v / -%v", p.MarksPerCorrectAnswer, p.NegativeMarkingFactor)
	}
	if _, ok := p.Section(3); ok {
		t.Error("section 3 resolved on a 2-section pattern")
	}
}

func TestNegativeMarkingDisabledPattern(t *testing.T) {
	p, ok := Get("FMGE")
	if !ok {
		t.Fatal("FMGE missing")
	}
	if p.NegativeMarkingEnabled() {
		t.Error("FMGE should not have negative marking")
	}
}
