package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/prepverse/prepverse-backend/internal/service"
	ws "github.com/prepverse/prepverse-backend/internal/websocket"
)

// dialPump upgrades a test connection and runs readPump on the server
// side, returning the client conn plus the pump's channels.
func dialPump(t *testing.T) (*websocket.Conn, chan ws.RequestEnvelope, chan struct{}, chan struct{}) {
	t.Helper()

	upgrader := websocket.Upgrader{}
	msgs := make(chan ws.RequestEnvelope)
	quit := make(chan struct{})
	done := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		go func() {
			defer close(done)
			readPump(conn, msgs, quit, zerolog.Nop())
		}()
	}))
	t.Cleanup(srv.Close)

	client, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return client, msgs, quit, done
}

func TestReadPumpForwardsEnvelopes(t *testing.T) {
	client, msgs, _, _ := dialPump(t)

	if err := client.WriteJSON(ws.TimeUpRequest{Action: ws.ActionTimeUp, Section: 1}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case env := <-msgs:
		if env.Action != ws.ActionTimeUp {
			t.Errorf("Action = %q, want %q", env.Action, ws.ActionTimeUp)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("envelope never forwarded")
	}
}

// A candidate client may fire a follow-up message right behind the one
// that ends the stream. Once the writer stops receiving, closing quit
// must release a pump blocked on its send instead of leaking it.
func TestReadPumpUnblocksWhenWriterQuits(t *testing.T) {
	client, msgs, quit, done := dialPump(t)

	if err := client.WriteJSON(ws.TimeUpRequest{Action: ws.ActionTimeUp, Section: 1}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := client.WriteJSON(ws.RequestEnvelope{Action: ws.ActionPing}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case <-msgs:
	case <-time.After(2 * time.Second):
		t.Fatal("first envelope never forwarded")
	}

	// The writer is gone now: nobody receives the buffered ping.
	close(quit)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pump still running after quit closed")
	}
}

func TestClockErrEvent(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMsg      string
		wantTerminal bool
	}{
		{
			name:         "missing attempt ends the stream",
			err:          pgx.ErrNoRows,
			wantMsg:      "attempt not available",
			wantTerminal: true,
		},
		{
			name:         "wrapped not found ends the stream",
			err:          fmt.Errorf("refresh: %w", pgx.ErrNoRows),
			wantMsg:      "attempt not available",
			wantTerminal: true,
		},
		{
			name:         "foreign attempt ends the stream",
			err:          service.ErrNotAttemptOwner,
			wantMsg:      "attempt not available",
			wantTerminal: true,
		},
		{
			name:         "transient failure keeps the stream open",
			err:          errors.New("dial tcp: connection refused"),
			wantMsg:      "clock temporarily unavailable, retrying",
			wantTerminal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, terminal := clockErrEvent(tt.err)
			if msg != tt.wantMsg {
				t.Errorf("msg = %q, want %q", msg, tt.wantMsg)
			}
			if terminal != tt.wantTerminal {
				t.Errorf("terminal = %v, want %v", terminal, tt.wantTerminal)
			}
		})
	}
}

func TestReadPumpStopsOnClientClose(t *testing.T) {
	client, _, _, done := dialPump(t)

	client.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pump still running after client close")
	}
}
