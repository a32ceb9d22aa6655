package interfaces

import (
	"whuchat/client/internal/model"
	"whuchat/client/internal/stream"
)

// This file defines the contracts the API layer consumes. Depending on
// these interfaces, instead of concrete implementations, allows for
// decoupling and easier testing via mocking.

// ChatFixtures is the data source behind the development server's chat
// endpoints.
type ChatFixtures interface {
	// Sessions lists the sessions of a user, newest first.
	Sessions(uuid int64) []model.ConversationInfo
	// Messages lists the messages of a session in persisted order.
	Messages(uuid, sessionID int64) []model.MessageItem
	// Script is the content-frame sequence streamed for every request.
	Script() []stream.Frame
	// NewSessionID is the id handed out by send_message.
	NewSessionID() int64
}
