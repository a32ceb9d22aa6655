// Package fixtures holds the static data the development server replies
// with: a small set of sessions and messages, and the scripted stream
// played back for every chat request.
package fixtures

import (
	"sort"

	"github.com/samber/lo"

	"whuchat/client/internal/model"
	"whuchat/client/internal/stream"
)

const fixtureModelID = "claude-3-haiku"

// SendMessageSessionID is the session id returned for every send_message
// call, matching what the web client was developed against.
const SendMessageSessionID = 12345

// Catalog serves the fixture data. It is immutable after construction.
type Catalog struct {
	sessions []model.ConversationInfo
	messages map[int64][]model.MessageItem
	script   []stream.Frame
}

// NewCatalog builds the default catalog: four sessions owned by uuid 0 and
// four messages in session 1, alternating user and assistant.
func NewCatalog() *Catalog {
	return &Catalog{
		sessions: []model.ConversationInfo{
			{UUID: 0, ID: 1, Title: "First steps with Claude", UpdatedAt: "2025-04-15T08:30:00Z"},
			{UUID: 0, ID: 4, Title: "Trip planning", UpdatedAt: "2025-04-18T11:03:45Z"},
			{UUID: 0, ID: 9, Title: "Debugging a websocket issue", UpdatedAt: "2025-04-21T18:42:07Z"},
			{UUID: 0, ID: 15, Title: "Thesis outline review", UpdatedAt: "2025-04-23T09:15:22Z"},
		},
		messages: map[int64][]model.MessageItem{
			1: {
				{ID: 1, ModelID: fixtureModelID, Sender: model.SenderUser, SessionID: 1,
					Prompt: []model.PromptFragment{model.TextFragment("Hello! What can you do?")}},
				{ID: 2, ModelID: fixtureModelID, Sender: model.SenderAssistant, SessionID: 1,
					Prompt: []model.PromptFragment{model.TextFragment("Hi! I can answer questions, help with writing and explain code.")}},
				{ID: 3, ModelID: fixtureModelID, Sender: model.SenderUser, SessionID: 1,
					Prompt: []model.PromptFragment{model.TextFragment("Great, summarize what a websocket is.")}},
				{ID: 4, ModelID: fixtureModelID, Sender: model.SenderAssistant, SessionID: 1,
					Prompt: []model.PromptFragment{model.TextFragment("A websocket is a persistent, bidirectional connection over a single TCP socket.")}},
			},
		},
		script: []stream.Frame{
			{Type: stream.FrameContent, Content: "Hello, "},
			{Type: stream.FrameContent, Content: "I am a test message that simulates "},
			{Type: stream.FrameContent, Content: "an AI response from the server. "},
			{Type: stream.FrameContent, Content: "This confirms your frontend is working correctly!"},
		},
	}
}

// Sessions returns the sessions owned by uuid, most recently updated
// first. UpdatedAt values are RFC 3339 strings, so they sort lexically.
func (c *Catalog) Sessions(uuid int64) []model.ConversationInfo {
	owned := lo.Filter(c.sessions, func(s model.ConversationInfo, _ int) bool {
		return s.UUID == uuid
	})
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].UpdatedAt > owned[j].UpdatedAt
	})
	return owned
}

// Messages returns the stored messages of a session in persisted order,
// nil when the session has none.
func (c *Catalog) Messages(uuid, sessionID int64) []model.MessageItem {
	return lo.Filter(c.messages[sessionID], func(m model.MessageItem, _ int) bool {
		return m.SessionID == sessionID
	})
}

// Script returns the content frames the stream endpoint plays back. The
// terminal done frame is appended by the handler, which owns the message id.
func (c *Catalog) Script() []stream.Frame {
	return c.script
}

// NewSessionID returns the session id handed out by send_message.
func (c *Catalog) NewSessionID() int64 {
	return SendMessageSessionID
}
