package exam

import (
	"testing"
	"time"

	"github.com/prepverse/prepverse-backend/internal/model"
)

func TestSectionRemaining(t *testing.T) {
	base := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		st   model.SectionTime
		now  time.Time
		want int
	}{
		{
			name: "not yet activated returns checkpoint",
			st:   model.SectionTime{Section: 2, RemainingSeconds: 6300},
			now:  base,
			want: 6300,
		},
		{
			name: "running section counts down",
			st:   model.SectionTime{Section: 1, StartTime: &base, RemainingSeconds: 6300},
			now:  base.Add(100 * time.Second),
			want: 6200,
		},
		{
			name: "resumed from checkpoint, not wall clock since exam start",
			st:   model.SectionTime{Section: 1, StartTime: &base, RemainingSeconds: 90},
			now:  base.Add(30 * time.Second),
			want: 60,
		},
		{
			name: "exhausted clamps to zero",
			st:   model.SectionTime{Section: 1, StartTime: &base, RemainingSeconds: 60},
			now:  base.Add(2 * time.Hour),
			want: 0,
		},
		{
			name: "submitted section is always zero",
			st:   model.SectionTime{Section: 1, RemainingSeconds: 500, IsSubmitted: true},
			now:  base,
			want: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := SectionRemaining(&tc.st, tc.now); got != tc.want {
				t.Errorf("SectionRemaining = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSectionRemainingMonotonic(t *testing.T) {
	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	st := model.SectionTime{Section: 1, StartTime: &start, RemainingSeconds: 300}

	prev := SectionRemaining(&st, start)
	for i := 1; i <= 400; i++ {
		now := start.Add(time.Duration(i) * time.Second)
		got := SectionRemaining(&st, now)
		if got > prev {
			t.Fatalf("remaining increased from %d to %d at t+%ds", prev, got, i)
		}
		if got < 0 {
			t.Fatalf("remaining went negative: %d at t+%ds", got, i)
		}
		prev = got
	}
	if prev != 0 {
		t.Errorf("remaining after expiry = %d, want 0", prev)
	}
}

func TestSectionRemainingSurvivesReload(t *testing.T) {
	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	st := model.SectionTime{Section: 1, StartTime: &start, RemainingSeconds: 600}

	now := start.Add(250 * time.Second)
	before := SectionRemaining(&st, now)

	// Checkpoint and restart: persist remaining, re-anchor the start time.
	checkpointed := model.SectionTime{Section: 1, StartTime: &now, RemainingSeconds: before}
	after := SectionRemaining(&checkpointed, now)

	if before != after {
		t.Errorf("remaining changed across checkpoint reload: %d != %d", before, after)
	}
}

func TestSectionDeadline(t *testing.T) {
	start := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	st := model.SectionTime{Section: 1, StartTime: &start, RemainingSeconds: 120}

	want := start.Add(120 * time.Second)
	if got := SectionDeadline(&st); !got.Equal(want) {
		t.Errorf("SectionDeadline = %v, want %v", got, want)
	}

	idle := model.SectionTime{Section: 2, RemainingSeconds: 120}
	if got := SectionDeadline(&idle); !got.IsZero() {
		t.Errorf("SectionDeadline for inactive section = %v, want zero", got)
	}
}
