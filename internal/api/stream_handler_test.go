package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whuchat/client/internal/api"
	"whuchat/client/internal/stream"
)

func setupStreamServer(t *testing.T, fixtures *mockFixtures) (*httptest.Server, *stream.Manual) {
	sched := stream.NewManual()
	handler := api.NewStreamHandler(fixtures, sched, 500*time.Millisecond)
	srv := httptest.NewServer(http.HandlerFunc(handler.HandleStream))
	t.Cleanup(srv.Close)
	return srv, sched
}

func wsURL(srv *httptest.Server, query string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/?" + query
}

func TestStreamHandler_PlaysScriptedFrames(t *testing.T) {
	fixtures := &mockFixtures{}
	fixtures.On("Script").Return([]stream.Frame{
		{Type: stream.FrameContent, Content: "Hello, "},
		{Type: stream.FrameContent, Content: "world!"},
	}).Once()
	srv, sched := setupStreamServer(t, fixtures)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "uuid=0&session_id=1&model_id=claude-3-haiku"), nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()
	defer func() { _ = resp.Body.Close() }()

	// The handler schedules the first step right after the upgrade.
	require.Eventually(t, func() bool { return sched.Pending() > 0 }, time.Second, time.Millisecond)

	var frame stream.Frame

	require.True(t, sched.Step())
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, stream.Frame{Type: stream.FrameContent, Content: "Hello, "}, frame)

	require.True(t, sched.Step())
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "world!", frame.Content)

	require.True(t, sched.Step())
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, stream.FrameDone, frame.Type)
	assert.NotEmpty(t, frame.MessageID, "done frame carries a generated message id")

	// The server holds the socket open after done; closing is on us.
	assert.Zero(t, sched.Pending())
	fixtures.AssertExpectations(t)
}

func TestStreamHandler_ClientDisconnectStopsScript(t *testing.T) {
	fixtures := &mockFixtures{}
	fixtures.On("Script").Return([]stream.Frame{
		{Type: stream.FrameContent, Content: "never "},
		{Type: stream.FrameContent, Content: "delivered"},
	}).Once()
	srv, sched := setupStreamServer(t, fixtures)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "uuid=0&session_id=1&model_id=claude-3-haiku"), nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	require.Eventually(t, func() bool { return sched.Pending() > 0 }, time.Second, time.Millisecond)
	require.NoError(t, conn.Close())

	// Once the closed socket is noticed, the pending step is cancelled or
	// its write fails; either way the queue drains without progress.
	require.Eventually(t, func() bool { return !sched.Step() }, time.Second, time.Millisecond)
}

func TestStreamHandler_RejectsMissingParams(t *testing.T) {
	fixtures := &mockFixtures{}
	srv, _ := setupStreamServer(t, fixtures)

	t.Run("Missing uuid yields 2001", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/?session_id=1&model_id=m")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Missing session_id yields 2003", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/?uuid=0&model_id=m")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Missing model_id yields 2003", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/?uuid=0&session_id=1")
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
