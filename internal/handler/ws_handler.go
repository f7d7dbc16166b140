package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/prepverse/prepverse-backend/internal/middleware"
	"github.com/prepverse/prepverse-backend/internal/service"
	ws "github.com/prepverse/prepverse-backend/internal/websocket"
)

// clockPushInterval is how often the server pushes the authoritative
// remaining time to connected candidates.
const clockPushInterval = 5 * time.Second

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams the authoritative section clock to candidates.
type WSHandler struct {
	attemptService *service.AttemptService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(attemptService *service.AttemptService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		attemptService: attemptService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// AttemptClockStream godoc
// WS /ws/v1/candidate/attempts/:attempt_id/clock
// Pushes the server-derived remaining seconds on an interval. A client
// "time_up" message only triggers an immediate server-side re-check; the
// transition happens when the server's own clock agrees.
func (h *WSHandler) AttemptClockStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	attemptID, err := uuid.Parse(c.Param("attempt_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid attempt ID"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	candidateID := claims.UserID
	wsLog := h.log.With().
		Int("candidate_id", candidateID).
		Str("attempt_id", attemptID.String()).
		Logger()

	lastSection, open := h.push(c, conn, attemptID, candidateID, 0)
	if !open {
		return
	}
	wsLog.Info().Msg("Clock stream connected")

	// Reads happen on their own goroutine so the push ticker and the
	// client's messages share the single writer below. The writer closes
	// quit on its way out so a reader blocked on the send unblocks even
	// when no receiver will ever arrive.
	msgs := make(chan ws.RequestEnvelope)
	done := make(chan struct{})
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		defer close(done)
		readPump(conn, msgs, quit, wsLog)
	}()

	ticker := time.NewTicker(clockPushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			lastSection, open = h.push(c, conn, attemptID, candidateID, lastSection)
			if !open {
				return
			}
		case env, ok := <-msgs:
			if !ok {
				return
			}
			switch env.Action {
			case ws.ActionPing:
				_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
			case ws.ActionTimeUp:
				// Hint only: re-derive immediately.
				lastSection, open = h.push(c, conn, attemptID, candidateID, lastSection)
				if !open {
					return
				}
			default:
				_ = ws.WriteError(conn, "unknown action")
			}
		}
	}
}

// readPump forwards client envelopes to msgs until the connection fails
// or quit is closed. The quit channel belongs to the writer; closing it
// releases a pump blocked on a send after the writer has stopped
// receiving.
func readPump(conn *websocket.Conn, msgs chan<- ws.RequestEnvelope, quit <-chan struct{}, log zerolog.Logger) {
	for {
		var env ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &env); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("Unexpected close")
			} else {
				log.Debug().Msg("Connection closed")
			}
			return
		}
		select {
		case msgs <- env:
		case <-quit:
			return
		}
	}
}

// clockErrEvent classifies a clock derivation failure for the stream.
// Missing or foreign attempts end it; anything else is assumed
// transient and the next tick retries.
func clockErrEvent(err error) (msg string, terminal bool) {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, service.ErrNotAttemptOwner) {
		return "attempt not available", true
	}
	return "clock temporarily unavailable, retrying", false
}

// push derives the authoritative clock and sends the matching event.
// Returns the active section and whether the stream should stay open.
func (h *WSHandler) push(c *gin.Context, conn *websocket.Conn, attemptID uuid.UUID, candidateID, lastSection int) (int, bool) {
	section, seconds, completed, err := h.attemptService.Remaining(c.Request.Context(), attemptID, candidateID)
	if err != nil {
		msg, terminal := clockErrEvent(err)
		if !terminal {
			h.log.Error().Err(err).Str("attempt_id", attemptID.String()).Msg("Clock derivation failed")
		}
		if ws.WriteError(conn, msg) != nil {
			return lastSection, false
		}
		return lastSection, !terminal
	}
	if completed {
		_ = ws.WriteTyped(conn, ws.CompletedResponse{Event: ws.EventCompleted})
		return section, false
	}

	if lastSection != 0 && section != lastSection {
		_ = ws.WriteTyped(conn, ws.SectionAdvancedResponse{
			Event:            ws.EventSectionAdvanced,
			Section:          section,
			RemainingSeconds: seconds,
		})
		return section, true
	}

	_ = ws.WriteTyped(conn, ws.ClockResponse{
		Event:            ws.EventClock,
		Section:          section,
		RemainingSeconds: seconds,
	})
	return section, true
}
