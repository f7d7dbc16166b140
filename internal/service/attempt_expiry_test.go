package service

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/prepverse/prepverse-backend/internal/model"
)

func expiryAttempt(sections ...model.SectionTime) *model.Attempt {
	first := sections[0].Section
	return &model.Attempt{
		ID:             uuid.New(),
		TestID:         uuid.New(),
		CandidateID:    1,
		CurrentSection: &first,
		Sections:       sections,
	}
}

func TestApplyExpiry(t *testing.T) {
	base := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	t.Run("running section left untouched", func(t *testing.T) {
		a := expiryAttempt(
			model.SectionTime{Section: 1, StartTime: &base, RemainingSeconds: 2700},
		)

		if applyExpiry(a, base.Add(10*time.Minute)) {
			t.Error("applyExpiry mutated a running attempt")
		}
		if a.CurrentSection == nil || *a.CurrentSection != 1 {
			t.Errorf("CurrentSection = %v, want 1", a.CurrentSection)
		}
		if a.Section(1).IsSubmitted {
			t.Error("running section marked submitted")
		}
	})

	t.Run("last section expiry clears current section", func(t *testing.T) {
		a := expiryAttempt(
			model.SectionTime{Section: 1, StartTime: &base, RemainingSeconds: 2700},
		)

		if !applyExpiry(a, base.Add(time.Hour)) {
			t.Fatal("applyExpiry did not mutate an expired attempt")
		}
		if a.CurrentSection != nil {
			t.Errorf("CurrentSection = %d, want nil", *a.CurrentSection)
		}
		st := a.Section(1)
		if !st.IsSubmitted {
			t.Error("expired section not submitted")
		}
		if st.RemainingSeconds != 0 {
			t.Errorf("RemainingSeconds = %d, want 0", st.RemainingSeconds)
		}
		if st.StartTime != nil {
			t.Error("StartTime not cleared on forced submit")
		}
	})

	t.Run("mid exam expiry activates next section at detection time", func(t *testing.T) {
		a := expiryAttempt(
			model.SectionTime{Section: 1, StartTime: &base, RemainingSeconds: 2700},
			model.SectionTime{Section: 2, RemainingSeconds: 2700},
		)
		// The candidate went quiet; detection happens well past the
		// section 1 deadline.
		now := base.Add(3 * time.Hour)

		if !applyExpiry(a, now) {
			t.Fatal("applyExpiry did not mutate an expired attempt")
		}
		if a.CurrentSection == nil || *a.CurrentSection != 2 {
			t.Errorf("CurrentSection = %v, want 2", a.CurrentSection)
		}
		if !a.Section(1).IsSubmitted {
			t.Error("expired section not submitted")
		}

		next := a.Section(2)
		if next.IsSubmitted {
			t.Error("next section submitted prematurely")
		}
		if next.StartTime == nil || !next.StartTime.Equal(now) {
			t.Errorf("next StartTime = %v, want %v", next.StartTime, now)
		}
		// The successor runs its full allotment from detection, not
		// from when section 1 would have ended.
		if next.RemainingSeconds != 2700 {
			t.Errorf("next RemainingSeconds = %d, want 2700", next.RemainingSeconds)
		}
	})

	t.Run("successor activated at now is not itself expired", func(t *testing.T) {
		a := expiryAttempt(
			model.SectionTime{Section: 1, StartTime: &base, RemainingSeconds: 2700},
			model.SectionTime{Section: 2, RemainingSeconds: 2700},
		)

		applyExpiry(a, base.Add(24*time.Hour))

		// Only section 1 was stale at detection; section 2 starts
		// fresh, so the loop stops after one advance.
		if a.CurrentSection == nil || *a.CurrentSection != 2 {
			t.Errorf("CurrentSection = %v, want 2", a.CurrentSection)
		}
		if a.Section(2).IsSubmitted {
			t.Error("freshly activated section was force-submitted")
		}
	})

	t.Run("exact deadline counts as expired", func(t *testing.T) {
		a := expiryAttempt(
			model.SectionTime{Section: 1, StartTime: &base, RemainingSeconds: 2700},
		)

		if !applyExpiry(a, base.Add(2700*time.Second)) {
			t.Error("attempt at exact deadline not expired")
		}
	})

	t.Run("skips already submitted successor", func(t *testing.T) {
		two := 2
		a := &model.Attempt{
			ID:          uuid.New(),
			TestID:      uuid.New(),
			CandidateID: 1,
			Sections: []model.SectionTime{
				{Section: 1, IsSubmitted: true},
				{Section: 2, StartTime: &base, RemainingSeconds: 2700},
			},
		}
		a.CurrentSection = &two

		if !applyExpiry(a, base.Add(time.Hour)) {
			t.Fatal("applyExpiry did not mutate an expired attempt")
		}
		if a.CurrentSection != nil {
			t.Errorf("CurrentSection = %d, want nil", *a.CurrentSection)
		}
	})
}

func TestAdvanceSectionManualAndForcedIdentical(t *testing.T) {
	base := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)
	now := base.Add(20 * time.Minute)

	build := func() *model.Attempt {
		return expiryAttempt(
			model.SectionTime{Section: 1, StartTime: &base, RemainingSeconds: 2700},
			model.SectionTime{Section: 2, RemainingSeconds: 2700},
		)
	}

	manual := build()
	advanceSection(manual, now)

	forced := build()
	forced.Section(1).RemainingSeconds = 0
	applyExpiry(forced, now)

	for _, a := range []*model.Attempt{manual, forced} {
		st := a.Section(1)
		if !st.IsSubmitted || st.RemainingSeconds != 0 || st.StartTime != nil {
			t.Errorf("closed section = %+v, want submitted with zero remaining", *st)
		}
		next := a.Section(2)
		if next.StartTime == nil || !next.StartTime.Equal(now) {
			t.Errorf("next StartTime = %v, want %v", next.StartTime, now)
		}
		if a.CurrentSection == nil || *a.CurrentSection != 2 {
			t.Errorf("CurrentSection = %v, want 2", a.CurrentSection)
		}
	}
}
