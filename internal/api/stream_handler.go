package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"whuchat/client/internal/interfaces"
	"whuchat/client/internal/stream"
)

// StreamHandler serves the websocket endpoint that plays the scripted
// assistant response back to the client as JSON frames: a run of content
// frames followed by a single done frame. Delivery pacing goes through an
// injected Scheduler, so tests step the script without real time passing.
type StreamHandler struct {
	fixtures  interfaces.ChatFixtures
	sched     stream.Scheduler
	stepDelay time.Duration
	upgrader  websocket.Upgrader
}

func NewStreamHandler(fixtures interfaces.ChatFixtures, sched stream.Scheduler, stepDelay time.Duration) *StreamHandler {
	return &StreamHandler{
		fixtures:  fixtures,
		sched:     sched,
		stepDelay: stepDelay,
		upgrader: websocket.Upgrader{
			// The fixture server is dev-only and has no origin policy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// HandleStream upgrades GET /ws/tran_ans?uuid&session_id&model_id and
// plays the script. Missing query parameters are rejected before the
// upgrade with the same wire codes the JSON endpoints use.
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("uuid") == "" {
		respondWithWireError(w, http.StatusBadRequest, CodeMissingUUID, "uuid is required")
		return
	}
	if q.Get("session_id") == "" || q.Get("model_id") == "" {
		respondWithWireError(w, http.StatusBadRequest, CodeMissingSession, "session_id and model_id are required")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Websocket upgrade failed", "error", err)
		return
	}
	slog.Info("Stream connected",
		"uuid", q.Get("uuid"),
		"session_id", q.Get("session_id"),
		"model_id", q.Get("model_id"),
	)

	frames := append([]stream.Frame{}, h.fixtures.Script()...)
	frames = append(frames, stream.Frame{Type: stream.FrameDone, MessageID: uuid.NewString()})
	h.play(conn, frames)
}

// play schedules the frames one after another: each write schedules the
// next, so at most one timer is pending and writes never overlap. After
// the done frame the server keeps the socket open and waits for the
// client to close it.
func (h *StreamHandler) play(conn *websocket.Conn, frames []stream.Frame) {
	var (
		mu      sync.Mutex
		cancel  func()
		stopped bool
	)
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		stopped = true
		if cancel != nil {
			cancel()
		}
	}

	var step func(i int)
	step = func(i int) {
		mu.Lock()
		if stopped || i >= len(frames) {
			mu.Unlock()
			return
		}
		mu.Unlock()

		if err := conn.WriteJSON(frames[i]); err != nil {
			slog.Debug("Stream write failed, client likely disconnected.", "error", err)
			stop()
			return
		}

		mu.Lock()
		if !stopped && i+1 < len(frames) {
			cancel = h.sched.After(h.stepDelay, func() { step(i + 1) })
		}
		mu.Unlock()
	}

	mu.Lock()
	cancel = h.sched.After(h.stepDelay, func() { step(0) })
	mu.Unlock()

	// The endpoint never expects client frames; reading only surfaces the
	// close, at which point any pending step is cancelled.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				stop()
				_ = conn.Close()
				return
			}
		}
	}()
}
