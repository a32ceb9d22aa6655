package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"whuchat/client/internal/model"
)

// This file contains the shared DTOs for API responses and helpers for
// sending consistent HTTP responses.

// Wire-level result codes, kept compatible with the original backend.
// Success bodies carry code 0; failures carry the code plus a message and
// an HTTP 4xx status.
const (
	CodeOK             = 0
	CodeBadRequest     = 1
	CodeMissingUUID    = 2001
	CodeMissingSession = 2003
)

// WireError is the standard JSON structure for failed requests.
type WireError struct {
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// HistoryResponse lists a user's sessions, newest first.
type HistoryResponse struct {
	Error    int                      `json:"error"`
	Sessions []model.ConversationInfo `json:"sessions"`
}

// BrowseMessagesResponse lists the messages of one session.
type BrowseMessagesResponse struct {
	Error    int                 `json:"error"`
	Messages []model.MessageItem `json:"messages"`
}

// SendMessageResponse acknowledges a new message with the session it
// landed in.
type SendMessageResponse struct {
	SessionID int64 `json:"session_id"`
}

// GateResponse is the session-bootstrap reply: identity plus the address
// of the chat server the client should talk to.
type GateResponse struct {
	Error    int    `json:"error"`
	UUID     int64  `json:"uuid"`
	Username string `json:"username"`
	Addr     string `json:"addr"`
}

// respondWithWireError writes a coded failure body with the given HTTP
// status. The original error is logged; the client sees code and message.
func respondWithWireError(w http.ResponseWriter, status, code int, message string) {
	slog.Warn("Responding with error", "status_code", status, "code", code, "message", message)
	respondWithJSON(w, status, WireError{Error: code, Message: message})
}

// respondWithJSON is a low-level helper for marshaling a payload to JSON
// and writing it to the http.ResponseWriter with a given status code.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		// This indicates a server-side programming error (e.g., trying to marshal a channel).
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}
