package model

import (
	"encoding/json"
	"testing"
	"time"
)

// The section_times JSON shape is round-tripped across process restarts
// and must reconstruct identical clock behavior, so the wire form is a
// contract: {section, start_time: ISO-8601|null, remaining_seconds, is_submitted}.
func TestSectionTimeWireShape(t *testing.T) {
	start := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)
	times := []SectionTime{
		{Section: 1, StartTime: &start, RemainingSeconds: 6300, IsSubmitted: false},
		{Section: 2, StartTime: nil, RemainingSeconds: 6300, IsSubmitted: false},
	}

	raw, err := json.Marshal(times)
	if err != nil {
		t.Fatal(err)
	}

	want := `[{"section":1,"start_time":"2026-08-28T09:30:00Z","remaining_seconds":6300,"is_submitted":false},` +
		`{"section":2,"start_time":null,"remaining_seconds":6300,"is_submitted":false}]`
	if string(raw) != want {
		t.Errorf("wire shape drifted:\n got %s\nwant %s", raw, want)
	}

	var back []SectionTime
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if !back[0].StartTime.Equal(start) || back[1].StartTime != nil {
		t.Error("start_time did not survive the round trip")
	}
	if back[0].RemainingSeconds != 6300 || back[1].RemainingSeconds != 6300 {
		t.Error("remaining_seconds did not survive the round trip")
	}
}

func TestAttemptSectionLookup(t *testing.T) {
	two := 2
	a := Attempt{
		CurrentSection: &two,
		Sections: []SectionTime{
			{Section: 1, IsSubmitted: true},
			{Section: 2, RemainingSeconds: 100},
		},
	}

	if st := a.ActiveSection(); st == nil || st.Section != 2 {
		t.Errorf("ActiveSection = %+v, want section 2", st)
	}
	if st := a.Section(3); st != nil {
		t.Errorf("Section(3) = %+v, want nil", st)
	}

	a.CurrentSection = nil
	if st := a.ActiveSection(); st != nil {
		t.Errorf("completed attempt still reports active section %+v", st)
	}
}
