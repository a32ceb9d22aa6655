package api

import (
	"net/http"
	"strings"
)

// GateHandler serves the session-bootstrap endpoint. The real gate server
// validates credentials and picks a chat server instance; the fixture
// version only checks that a bearer token is present and always hands out
// the configured address.
type GateHandler struct {
	addr     string
	username string
}

func NewGateHandler(addr, username string) *GateHandler {
	return &GateHandler{addr: addr, username: username}
}

// HandleGetChatServer godoc
// @Summary      Session bootstrap
// @Description  Resolves the chat server address for an authenticated user.
// @Tags         Gate
// @Produce      json
// @Success      200  {object}  GateResponse
// @Failure      401  {object}  WireError
// @Router       /v1/gate/get_chatserver [get]
func (h *GateHandler) HandleGetChatServer(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	token := strings.TrimPrefix(auth, "Bearer ")
	if auth == "" || token == "" || token == auth {
		respondWithWireError(w, http.StatusUnauthorized, CodeBadRequest, "missing or malformed credentials")
		return
	}
	respondWithJSON(w, http.StatusOK, GateResponse{
		Error:    CodeOK,
		UUID:     0,
		Username: h.username,
		Addr:     h.addr,
	})
}
