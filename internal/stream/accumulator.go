package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"whuchat/client/internal/model"
)

// The streaming protocol is JSON frames over a single socket:
//
//	{"type":"content","content":"..."}   one text fragment
//	{"type":"done","message_id":"..."}   terminal signal
//
// Fragment order is guaranteed only by the transport's in-order delivery;
// this layer does no reordering.

// Frame types understood by the accumulator.
const (
	FrameContent = "content"
	FrameDone    = "done"
)

// Frame is the wire shape of one streamed unit.
type Frame struct {
	Type      string `json:"type"`
	Content   string `json:"content,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

// ErrStrayFrame marks a frame the accumulator could not interpret. The
// state machine does not advance on it; callers are expected to log and
// keep reading, so stray control messages never abort a stream.
var ErrStrayFrame = errors.New("stray frame")

// ErrNotFinalized is returned by Finalize before the done frame arrived.
var ErrNotFinalized = errors.New("response not finalized")

// State of an accumulator.
type State int

const (
	StateIdle State = iota
	StateAccumulating
	StateFinalized
)

// Accumulator assembles the fragments of one in-flight response into a
// single message. It is owned by exactly one request and is not safe for
// concurrent use.
type Accumulator struct {
	state     State
	buf       strings.Builder
	messageID string
}

// New returns an accumulator in the Idle state.
func New() *Accumulator {
	return &Accumulator{}
}

// State reports where the machine currently is.
func (a *Accumulator) State() State {
	return a.state
}

// Feed consumes one raw frame. It returns the chunk to surface to the
// consumer, or ErrStrayFrame (wrapped) for anything malformed. A frame
// arriving after done is also stray: the buffer is already frozen.
func (a *Accumulator) Feed(raw []byte) (model.StreamChunk, error) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return model.StreamChunk{}, fmt.Errorf("%w: %s", ErrStrayFrame, err)
	}

	switch frame.Type {
	case FrameContent:
		if a.state == StateFinalized {
			return model.StreamChunk{}, fmt.Errorf("%w: content after done", ErrStrayFrame)
		}
		a.state = StateAccumulating
		a.buf.WriteString(frame.Content)
		return model.StreamChunk{Content: frame.Content}, nil
	case FrameDone:
		if a.state == StateFinalized {
			return model.StreamChunk{}, fmt.Errorf("%w: duplicate done", ErrStrayFrame)
		}
		a.state = StateFinalized
		a.messageID = frame.MessageID
		return model.StreamChunk{Done: true, MessageID: frame.MessageID}, nil
	default:
		return model.StreamChunk{}, fmt.Errorf("%w: unknown type %q", ErrStrayFrame, frame.Type)
	}
}

// Text returns the accumulated text so far.
func (a *Accumulator) Text() string {
	return a.buf.String()
}

// MessageID returns the id carried by the done frame, "" before it.
func (a *Accumulator) MessageID() string {
	return a.messageID
}

// Finalize wraps the frozen buffer into an assistant MessageItem. Only
// legal once the done frame has been consumed.
func (a *Accumulator) Finalize(modelID string, sessionID int64) (model.MessageItem, error) {
	if a.state != StateFinalized {
		return model.MessageItem{}, ErrNotFinalized
	}
	return model.MessageItem{
		ModelID:   modelID,
		Sender:    model.SenderAssistant,
		Prompt:    []model.PromptFragment{model.TextFragment(a.buf.String())},
		SessionID: sessionID,
	}, nil
}

// Discard drops whatever has accumulated and resets to Idle. This is the
// cancellation contract: when the socket closes early, the owner discards
// the orphaned buffer and no partial message is committed.
func (a *Accumulator) Discard() {
	a.state = StateIdle
	a.buf.Reset()
	a.messageID = ""
}
