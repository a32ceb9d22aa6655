package api

import (
	"encoding/json"
	"net/http"

	"whuchat/client/internal/interfaces"
	"whuchat/client/internal/model"
)

// ChatHandler serves the fixture chat endpoints: session history, message
// browsing and message submission.
type ChatHandler struct {
	fixtures interfaces.ChatFixtures
}

func NewChatHandler(fixtures interfaces.ChatFixtures) *ChatHandler {
	return &ChatHandler{fixtures: fixtures}
}

// HistoryRequest asks for a user's session list. UUID is a pointer so
// that uuid 0 (the fixture user) still passes the required check.
type HistoryRequest struct {
	UUID *int64 `json:"uuid" validate:"required"`
}

// BrowseMessagesRequest asks for the messages of one session.
type BrowseMessagesRequest struct {
	UUID      *int64 `json:"uuid" validate:"required"`
	SessionID *int64 `json:"session_id" validate:"required"`
}

// HandleHistory godoc
// @Summary      List sessions
// @Description  Returns the user's sessions sorted by updated_at descending.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      HistoryRequest  true  "User identity"
// @Success      200      {object}  HistoryResponse
// @Failure      400      {object}  WireError "error 2001 when uuid is missing"
// @Router       /v1/chat/history [post]
func (h *ChatHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	var req HistoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithWireError(w, http.StatusBadRequest, CodeMissingUUID, "invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithWireError(w, http.StatusBadRequest, CodeMissingUUID, "uuid is required")
		return
	}
	respondWithJSON(w, http.StatusOK, HistoryResponse{
		Error:    CodeOK,
		Sessions: h.fixtures.Sessions(*req.UUID),
	})
}

// HandleBrowseMessages godoc
// @Summary      Browse session messages
// @Description  Returns the messages of a session in persisted order.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      BrowseMessagesRequest  true  "User and session"
// @Success      200      {object}  BrowseMessagesResponse
// @Failure      400      {object}  WireError "error 2003 when uuid or session_id is missing"
// @Router       /v1/chat/browse_messages [post]
func (h *ChatHandler) HandleBrowseMessages(w http.ResponseWriter, r *http.Request) {
	var req BrowseMessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithWireError(w, http.StatusBadRequest, CodeMissingSession, "invalid request body")
		return
	}
	if err := validateRequest(&req); err != nil {
		respondWithWireError(w, http.StatusBadRequest, CodeMissingSession, "uuid and session_id are required")
		return
	}
	respondWithJSON(w, http.StatusOK, BrowseMessagesResponse{
		Error:    CodeOK,
		Messages: h.fixtures.Messages(*req.UUID, *req.SessionID),
	})
}

// HandleSendMessage godoc
// @Summary      Submit a message
// @Description  Accepts a chat request and returns the session it was assigned to. The response itself arrives over the stream endpoint.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      model.ChatRequest  true  "Chat request"
// @Success      200      {object}  SendMessageResponse
// @Failure      400      {object}  WireError
// @Router       /v1/chat/send_message [post]
func (h *ChatHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithWireError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body")
		return
	}
	sessionID := h.fixtures.NewSessionID()
	if req.SessionID != nil {
		sessionID = *req.SessionID
	}
	respondWithJSON(w, http.StatusOK, SendMessageResponse{SessionID: sessionID})
}
