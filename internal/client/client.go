// Package client is the headless network layer of the chat client: the
// authenticated HTTP wrapper, the gate bootstrap and the websocket stream
// reader. It owns no state beyond credentials; everything it learns goes
// into the state store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	app_errors "whuchat/client/internal/errors"
	"whuchat/client/internal/model"
)

// StateStore is the slice of the state store the network layer mutates.
type StateStore interface {
	SetUser(u *model.UserProfile)
	SetAddr(addr string)
	Addr() string
}

// TokenSource supplies and clears the persisted auth token.
type TokenSource interface {
	Token(ctx context.Context) string
	ClearToken(ctx context.Context) error
}

// Client talks to the gate and chat endpoints. Every request carries the
// bearer token; a 401 anywhere forces a logout. There is no retry policy:
// failures are returned to the caller, never retried.
type Client struct {
	http   *http.Client
	base   string
	store  StateStore
	tokens TokenSource
}

// New creates a client against baseURL (scheme and host, no trailing
// slash).
func New(baseURL string, store StateStore, tokens TokenSource) *Client {
	return &Client{
		http:   &http.Client{Timeout: 30 * time.Second},
		base:   baseURL,
		store:  store,
		tokens: tokens,
	}
}

// gateResponse mirrors the gate server's bootstrap reply.
type gateResponse struct {
	Error    int    `json:"error"`
	UUID     int64  `json:"uuid"`
	Username string `json:"username"`
	Addr     string `json:"addr"`
}

// Bootstrap performs the session handshake: it resolves the chat server
// address and the user identity, storing both. Any failure clears user
// and addr state so the caller can redirect to login.
func (c *Client) Bootstrap(ctx context.Context) (*model.UserProfile, error) {
	var resp gateResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/gate/get_chatserver", nil, &resp); err != nil {
		c.logout(ctx)
		return nil, err
	}
	if resp.Error != 0 {
		c.logout(ctx)
		return nil, fmt.Errorf("%w: gate returned code %d", app_errors.ErrUnauthorized, resp.Error)
	}

	user := &model.UserProfile{UUID: resp.UUID, Username: resp.Username}
	c.store.SetUser(user)
	c.store.SetAddr(resp.Addr)
	return user, nil
}

type historyRequest struct {
	UUID int64 `json:"uuid"`
}

type historyResponse struct {
	Error    int                      `json:"error"`
	Sessions []model.ConversationInfo `json:"sessions"`
}

// History fetches the user's session list, newest first.
func (c *Client) History(ctx context.Context, uuid int64) ([]model.ConversationInfo, error) {
	var resp historyResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/chat/history", historyRequest{UUID: uuid}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != 0 {
		return nil, fmt.Errorf("history returned code %d", resp.Error)
	}
	return resp.Sessions, nil
}

type browseMessagesRequest struct {
	UUID      int64 `json:"uuid"`
	SessionID int64 `json:"session_id"`
}

type browseMessagesResponse struct {
	Error    int                 `json:"error"`
	Messages []model.MessageItem `json:"messages"`
}

// BrowseMessages fetches the messages of one session in persisted order.
func (c *Client) BrowseMessages(ctx context.Context, uuid, sessionID int64) ([]model.MessageItem, error) {
	var resp browseMessagesResponse
	req := browseMessagesRequest{UUID: uuid, SessionID: sessionID}
	if err := c.do(ctx, http.MethodPost, "/api/v1/chat/browse_messages", req, &resp); err != nil {
		return nil, err
	}
	if resp.Error != 0 {
		return nil, fmt.Errorf("browse_messages returned code %d", resp.Error)
	}
	return resp.Messages, nil
}

type sendMessageResponse struct {
	SessionID int64 `json:"session_id"`
}

// SendMessage submits a chat request and returns the session id the
// backend assigned. The assistant response arrives separately over the
// stream endpoint.
func (c *Client) SendMessage(ctx context.Context, req *model.ChatRequest) (int64, error) {
	var resp sendMessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/chat/send_message", req, &resp); err != nil {
		return 0, err
	}
	return resp.SessionID, nil
}

// do runs one JSON request. A 401 forces the logout before returning
// ErrUnauthorized; other non-2xx statuses are logged and returned as
// plain errors.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not marshal request: %w", err)
		}
		payload = bytes.NewBuffer(raw)
	} else {
		payload = &bytes.Buffer{}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.base+path, payload)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token := c.tokens.Token(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cErr := resp.Body.Close(); cErr != nil {
			slog.Warn("Failed to close response body", "error", cErr)
		}
	}()

	if resp.StatusCode == http.StatusUnauthorized {
		slog.Warn("Request rejected with 401, forcing logout.", "path", path)
		c.logout(ctx)
		return app_errors.ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		slog.Warn("Request failed", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}

// logout is the forced-logout contract: clear the persisted token, the
// authenticated user and the resolved chat-server address.
func (c *Client) logout(ctx context.Context) {
	if err := c.tokens.ClearToken(ctx); err != nil {
		slog.Warn("Failed to clear stored token during logout.", "error", err)
	}
	c.store.SetUser(nil)
	c.store.SetAddr("")
}
