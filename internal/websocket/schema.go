package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing   Action = "ping"
	ActionTimeUp Action = "time_up"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// TimeUpRequest is the client's claim that the section countdown hit
// zero. It is a hint only: the server re-derives the clock and either
// forces the transition or keeps counting.
type TimeUpRequest struct {
	Action  Action `json:"action"`
	Section int    `json:"section"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventClock           Event = "clock"
	EventSectionAdvanced Event = "section_advanced"
	EventCompleted       Event = "completed"
	EventError           Event = "error"
	EventPong            Event = "pong"
)

// ClockResponse carries the authoritative remaining seconds of the
// active section.
type ClockResponse struct {
	Event            Event `json:"event"`
	Section          int   `json:"section"`
	RemainingSeconds int   `json:"remaining_seconds"`
}

// SectionAdvancedResponse announces that the active section changed,
// either by submission or by time-up forcing.
type SectionAdvancedResponse struct {
	Event            Event `json:"event"`
	Section          int   `json:"section"`
	RemainingSeconds int   `json:"remaining_seconds"`
}

// CompletedResponse announces that the attempt has been finalized.
type CompletedResponse struct {
	Event Event `json:"event"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
