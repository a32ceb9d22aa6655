package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whuchat/client/internal/client"
	app_errors "whuchat/client/internal/errors"
	"whuchat/client/internal/model"
)

type fakeStore struct {
	user *model.UserProfile
	addr string
}

func (f *fakeStore) SetUser(u *model.UserProfile) { f.user = u }
func (f *fakeStore) SetAddr(addr string)          { f.addr = addr }
func (f *fakeStore) Addr() string                 { return f.addr }

type fakeTokens struct {
	token   string
	cleared bool
}

func (f *fakeTokens) Token(context.Context) string { return f.token }
func (f *fakeTokens) ClearToken(context.Context) error {
	f.cleared = true
	f.token = ""
	return nil
}

func setupClient(t *testing.T, handler http.Handler) (*client.Client, *fakeStore, *fakeTokens) {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := &fakeStore{}
	tokens := &fakeTokens{token: "tok-abc"}
	return client.New(srv.URL, store, tokens), store, tokens
}

func TestClient_Bootstrap(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - stores identity and address", func(t *testing.T) {
		c, store, _ := setupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/gate/get_chatserver", r.URL.Path)
			assert.Equal(t, "Bearer tok-abc", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"error":0,"uuid":7,"username":"alice","addr":"10.0.0.5:8866"}`))
		}))

		user, err := c.Bootstrap(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.UUID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, user, store.user)
		assert.Equal(t, "10.0.0.5:8866", store.addr)
	})

	t.Run("Failure - 401 forces logout", func(t *testing.T) {
		c, store, tokens := setupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		store.user = &model.UserProfile{UUID: 7}
		store.addr = "stale:1234"

		_, err := c.Bootstrap(ctx)
		assert.ErrorIs(t, err, app_errors.ErrUnauthorized)
		assert.Nil(t, store.user)
		assert.Empty(t, store.addr)
		assert.True(t, tokens.cleared)
	})

	t.Run("Failure - nonzero gate code clears state", func(t *testing.T) {
		c, store, tokens := setupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":5,"uuid":0,"username":"","addr":""}`))
		}))
		store.user = &model.UserProfile{UUID: 7}

		_, err := c.Bootstrap(ctx)
		assert.ErrorIs(t, err, app_errors.ErrUnauthorized)
		assert.Nil(t, store.user)
		assert.True(t, tokens.cleared)
	})
}

func TestClient_History(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		c, _, _ := setupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/chat/history", r.URL.Path)
			_, _ = w.Write([]byte(`{"error":0,"sessions":[{"uuid":0,"id":15,"title":"t","updated_at":"2025-04-23T09:15:22Z"}]}`))
		}))

		sessions, err := c.History(ctx, 0)
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, int64(15), sessions[0].ID)
	})

	t.Run("Failure - wire error code", func(t *testing.T) {
		c, _, _ := setupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":2001,"sessions":null}`))
		}))

		_, err := c.History(ctx, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2001")
	})

	t.Run("Failure - non-2xx status is returned, not retried", func(t *testing.T) {
		calls := 0
		c, _, _ := setupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusBadGateway)
		}))

		_, err := c.History(ctx, 0)
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}

func TestClient_BrowseMessages(t *testing.T) {
	c, _, _ := setupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chat/browse_messages", r.URL.Path)
		_, _ = w.Write([]byte(`{"error":0,"messages":[{"id":1,"sender":"user","model_id":"m","prompt":[]}]}`))
	}))

	messages, err := c.BrowseMessages(context.Background(), 0, 1)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, model.SenderUser, messages[0].Sender)
}

func TestClient_SendMessage(t *testing.T) {
	c, _, _ := setupClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chat/send_message", r.URL.Path)
		_, _ = w.Write([]byte(`{"session_id":12345}`))
	}))

	sessionID, err := c.SendMessage(context.Background(), &model.ChatRequest{
		UUID:    0,
		Sender:  model.SenderUser,
		ModelID: "claude-3-haiku",
		Prompt:  []model.PromptFragment{model.TextFragment("hi")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12345), sessionID)
}
