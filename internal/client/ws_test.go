package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whuchat/client/internal/client"
	"whuchat/client/internal/model"
)

// streamServer runs a websocket endpoint that feeds raw frames to every
// connecting client.
func streamServer(t *testing.T, frames []string) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		for _, frame := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
				return
			}
		}
		// Wait for the client to hang up.
		_, _, _ = conn.ReadMessage()
		_ = conn.Close()
	}))
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}

func collect(out <-chan model.StreamChunk) []model.StreamChunk {
	var chunks []model.StreamChunk
	for chunk := range out {
		chunks = append(chunks, chunk)
	}
	return chunks
}

func TestClient_StreamMessage(t *testing.T) {
	req := client.StreamRequest{UUID: 0, SessionID: 1, ModelID: "claude-3-haiku"}

	t.Run("Success - accumulates and commits one message", func(t *testing.T) {
		addr := streamServer(t, []string{
			`{"type":"content","content":"Hello, "}`,
			`{"type":"content","content":"world!"}`,
			`{"type":"done","message_id":"msg-1"}`,
		})
		store := &fakeStore{addr: addr}
		c := client.New("http://"+addr, store, &fakeTokens{})

		out := make(chan model.StreamChunk)
		var committed *model.MessageItem
		errCh := make(chan error, 1)
		go func() {
			errCh <- c.StreamMessage(context.Background(), req, out, func(m model.MessageItem) {
				committed = &m
			})
		}()

		chunks := collect(out)
		require.NoError(t, <-errCh)
		require.Len(t, chunks, 3)
		assert.Equal(t, "Hello, ", chunks[0].Content)
		assert.Equal(t, "world!", chunks[1].Content)
		assert.True(t, chunks[2].Done)
		assert.Equal(t, "msg-1", chunks[2].MessageID)

		require.NotNil(t, committed)
		assert.Equal(t, model.SenderAssistant, committed.Sender)
		assert.Equal(t, int64(1), committed.SessionID)
		require.Len(t, committed.Prompt, 1)
		assert.Equal(t, "Hello, world!", committed.Prompt[0].Text())
	})

	t.Run("Stray frames are skipped", func(t *testing.T) {
		addr := streamServer(t, []string{
			`$$$$$`,
			`{"type":"content","content":"ok"}`,
			`{"type":"done","message_id":"msg-2"}`,
		})
		store := &fakeStore{addr: addr}
		c := client.New("http://"+addr, store, &fakeTokens{})

		out := make(chan model.StreamChunk)
		errCh := make(chan error, 1)
		go func() {
			errCh <- c.StreamMessage(context.Background(), req, out, func(model.MessageItem) {})
		}()

		chunks := collect(out)
		require.NoError(t, <-errCh)
		require.Len(t, chunks, 2)
		assert.Equal(t, "ok", chunks[0].Content)
		assert.True(t, chunks[1].Done)
	})

	t.Run("Server close before done - error, no commit", func(t *testing.T) {
		upgrader := websocket.Upgrader{}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			require.NoError(t, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"content","content":"partial"}`))
			_ = conn.Close()
		}))
		defer srv.Close()
		addr := strings.TrimPrefix(srv.URL, "http://")
		store := &fakeStore{addr: addr}
		c := client.New("http://"+addr, store, &fakeTokens{})

		out := make(chan model.StreamChunk)
		committed := false
		errCh := make(chan error, 1)
		go func() {
			errCh <- c.StreamMessage(context.Background(), req, out, func(model.MessageItem) {
				committed = true
			})
		}()

		chunks := collect(out)
		require.Error(t, <-errCh)
		require.Len(t, chunks, 1)
		assert.False(t, committed)
	})

	t.Run("Context cancel aborts the stream", func(t *testing.T) {
		upgrader := websocket.Upgrader{}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			conn, err := upgrader.Upgrade(w, r, nil)
			require.NoError(t, err)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"content","content":"partial"}`))
			// Hold the connection open until the client goes away.
			_, _, _ = conn.ReadMessage()
		}))
		defer srv.Close()
		addr := strings.TrimPrefix(srv.URL, "http://")
		store := &fakeStore{addr: addr}
		c := client.New("http://"+addr, store, &fakeTokens{})

		ctx, cancel := context.WithCancel(context.Background())
		out := make(chan model.StreamChunk)
		committed := false
		errCh := make(chan error, 1)
		go func() {
			errCh <- c.StreamMessage(ctx, req, out, func(model.MessageItem) {
				committed = true
			})
		}()

		<-out
		cancel()
		collect(out)

		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(2 * time.Second):
			t.Fatal("stream did not stop after cancel")
		}
		assert.False(t, committed)
	})

	t.Run("No resolved address", func(t *testing.T) {
		c := client.New("http://unused", &fakeStore{}, &fakeTokens{})
		out := make(chan model.StreamChunk)
		err := c.StreamMessage(context.Background(), req, out, func(model.MessageItem) {})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bootstrap")
	})
}
