package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/gorilla/websocket"

	"whuchat/client/internal/model"
	"whuchat/client/internal/stream"
)

// StreamRequest identifies one in-flight response stream.
type StreamRequest struct {
	UUID      int64
	SessionID int64
	ModelID   string
}

// StreamMessage dials the stream endpoint at the resolved chat-server
// address, accumulates the fragments of one assistant response and emits
// them as chunks on out, which is closed when the stream ends however it
// ends. Once the done frame arrives the finalized message is handed to
// commit and the socket is closed from this side.
//
// Cancelling ctx closes the socket; an unfinished buffer is discarded and
// no partial message is ever committed. Only one stream per session is
// assumed; nothing here coordinates concurrent requests.
func (c *Client) StreamMessage(ctx context.Context, req StreamRequest, out chan<- model.StreamChunk, commit func(model.MessageItem)) error {
	defer close(out)

	addr := c.store.Addr()
	if addr == "" {
		return errors.New("no chat server address: bootstrap first")
	}

	q := url.Values{}
	q.Set("uuid", strconv.FormatInt(req.UUID, 10))
	q.Set("session_id", strconv.FormatInt(req.SessionID, 10))
	q.Set("model_id", req.ModelID)
	u := url.URL{Scheme: "ws", Host: addr, Path: "/api/v1/ws/tran_ans", RawQuery: q.Encode()}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("could not connect to stream: %w", err)
	}

	// Closing the socket is the only cancellation mechanism; it unblocks
	// the read below.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	acc := stream.New()
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			acc.Discard()
			_ = conn.Close()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("stream closed before completion: %w", err)
		}

		chunk, err := acc.Feed(raw)
		if err != nil {
			// Stray control messages must not abort the stream.
			slog.Debug("Ignoring stray frame", "error", err)
			continue
		}

		select {
		case out <- chunk:
		case <-ctx.Done():
			acc.Discard()
			_ = conn.Close()
			return ctx.Err()
		}

		if chunk.Done {
			msg, err := acc.Finalize(req.ModelID, req.SessionID)
			if err != nil {
				_ = conn.Close()
				return err
			}
			commit(msg)
			_ = conn.Close()
			return nil
		}
	}
}
