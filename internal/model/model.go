package model

import "encoding/json"

// ModelConfig describes an AI model endpoint: identity, routing info and
// per-model credentials. At most one config is the current one at a time;
// configs are superseded, never deleted.
type ModelConfig struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Logo        string `json:"logo,omitempty"`
	ModelID     string `json:"model_id"`
	ModelClass  string `json:"model_class"`
	APIKey      string `json:"api_key,omitempty"`
	CustomURL   string `json:"custom_url,omitempty"`
	Usable      bool   `json:"usable,omitempty"`
}

// UserProfile is the authenticated identity, set once after a successful
// gate handshake and cleared on logout.
type UserProfile struct {
	UUID      int64  `json:"uuid"`
	Username  string `json:"username"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ConversationInfo is a session as listed in the sidebar. IDs are always
// generated server-side.
type ConversationInfo struct {
	UUID      int64  `json:"uuid"`
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	UpdatedAt string `json:"updated_at"`
}

// Fragment types for PromptFragment.
const (
	FragmentText  = "text"
	FragmentImage = "image"
)

// PromptFragment is one typed unit of a prompt. Content is a string for
// text fragments and {"url": ...} for image fragments, so it is kept as
// raw JSON and interpreted by type.
type PromptFragment struct {
	Type    string          `json:"type"`
	Content json.RawMessage `json:"content"`
}

// TextFragment builds a text prompt fragment.
func TextFragment(text string) PromptFragment {
	content, _ := json.Marshal(text)
	return PromptFragment{Type: FragmentText, Content: content}
}

// Text returns the fragment's string content, or "" for non-text fragments.
func (f PromptFragment) Text() string {
	if f.Type != FragmentText {
		return ""
	}
	var s string
	if err := json.Unmarshal(f.Content, &s); err != nil {
		return ""
	}
	return s
}

// ChatParameters are the per-request generation parameters.
type ChatParameters struct {
	Temperature float64 `json:"temperature"`
	FrugalMode  bool    `json:"frugalMode,omitempty"`
	Online      bool    `json:"online,omitempty"`
	UA          string  `json:"ua,omitempty"`
}

// Senders for MessageItem.
const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// MessageItem is one persisted message of a session. Once stored by the
// backend a message is immutable from the client's perspective.
type MessageItem struct {
	ID         int64            `json:"id"`
	ModelID    string           `json:"model_id"`
	Sender     string           `json:"sender"`
	Prompt     []PromptFragment `json:"prompt"`
	Parameters *ChatParameters  `json:"parameters,omitempty"`
	ModelClass string           `json:"model_class,omitempty"`
	SessionID  int64            `json:"session_id,omitempty"`
	UUID       int64            `json:"uuid,omitempty"`
}

// ChatRequest is the payload for sending a new message. SessionID is nil
// for a brand new conversation.
type ChatRequest struct {
	UUID       int64            `json:"uuid"`
	SessionID  *int64           `json:"session_id"`
	Sender     string           `json:"sender"`
	ModelID    string           `json:"model_id"`
	Prompt     []PromptFragment `json:"prompt"`
	Parameters ChatParameters   `json:"parameters"`
	URL        string           `json:"URL,omitempty"`
	APIKey     string           `json:"api_key,omitempty"`
}

// StreamChunk is one unit of a streamed assistant response as surfaced to
// consumers of the client: incremental content, or the terminal signal.
type StreamChunk struct {
	Content   string `json:"content"`
	Done      bool   `json:"done"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}
