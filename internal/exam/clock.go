package exam

import (
	"time"

	"github.com/prepverse/prepverse-backend/internal/model"
)

// SectionRemaining computes the authoritative seconds remaining for one
// section of an attempt at the given instant. The canonical time source
// is the caller's (server) clock; nothing posted by a client enters here.
//
// RemainingSeconds is the value stored at the last checkpoint, so a
// reload recomputes a consistent value from (RemainingSeconds, StartTime)
// alone. A submitted section is always 0; a not-yet-activated section is
// its full checkpointed duration. Never negative: 0 is the terminal value
// meaning the section must be force-submitted.
func SectionRemaining(st *model.SectionTime, now time.Time) int {
	if st == nil || st.IsSubmitted {
		return 0
	}
	if st.StartTime == nil {
		return st.RemainingSeconds
	}
	elapsed := int(now.Sub(*st.StartTime).Seconds())
	remaining := st.RemainingSeconds - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// SectionDeadline returns the wall-clock instant the section's time runs
// out, or the zero time if the section is not running.
func SectionDeadline(st *model.SectionTime) time.Time {
	if st == nil || st.IsSubmitted || st.StartTime == nil {
		return time.Time{}
	}
	return st.StartTime.Add(time.Duration(st.RemainingSeconds) * time.Second)
}
