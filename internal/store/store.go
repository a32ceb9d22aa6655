package store

import (
	"context"
	"log/slog"
	"sync"

	"whuchat/client/internal/model"
)

// Bridge is the slice of the persistence layer the store writes through.
// Defined here so the store can be tested against a fake without touching
// SQLite.
type Bridge interface {
	CurrentModel(ctx context.Context) model.ModelConfig
	SaveCurrentModel(ctx context.Context, m model.ModelConfig) error
	ModelConfigs(ctx context.Context) map[string]model.ModelConfig
	SaveModelConfigs(ctx context.Context, configs map[string]model.ModelConfig) error
	Get(ctx context.Context, key string, dest any) (bool, error)
}

// Store is the single authoritative container for current model, per-model
// configs, conversation list, authenticated user and the UI flags. Every
// mutation of a persisted field writes through to the bridge synchronously,
// one storage write per call; there is no batching.
//
// The fetchingResponse flag is advisory only: nothing prevents a second
// request from starting while it is set.
type Store struct {
	mu sync.RWMutex

	bridge Bridge

	currentModel     model.ModelConfig
	modelConfigs     map[string]model.ModelConfig
	legacyAPIKey     string
	conversations    []model.ConversationInfo
	user             *model.UserProfile
	drawer           bool
	fetchingResponse bool
	addr             string

	defaultModelClass string
}

// New creates an empty store over bridge. defaultModelClass is merged into
// models that arrive without one ("anthropic" in the shipped config).
func New(bridge Bridge, defaultModelClass string) *Store {
	return &Store{
		bridge:            bridge,
		modelConfigs:      map[string]model.ModelConfig{},
		defaultModelClass: defaultModelClass,
	}
}

// Hydrate loads the persisted slices of state. Called once at startup,
// before any reader; corruption degrades to defaults inside the bridge.
//
// The flat apiKey value is a leftover of the pre-per-model scheme. It is
// read here so old installations keep their key visible, but new writes
// always go through the per-model config map.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentModel = s.bridge.CurrentModel(ctx)
	s.modelConfigs = s.bridge.ModelConfigs(ctx)

	var legacy string
	if _, err := s.bridge.Get(ctx, "apiKey", &legacy); err != nil {
		slog.Warn("Stored legacy api key is unreadable, ignoring.", "error", err)
	} else {
		s.legacyAPIKey = legacy
	}
}

// SetCurrentModel merges m with defaults and makes it current. The merged
// model is persisted first; if the bridge rejects it the prior state is
// kept and the failure is only logged.
func (s *Store) SetCurrentModel(ctx context.Context, m model.ModelConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ModelID == "" {
		m.ModelID = m.ID
	}
	if m.ModelClass == "" {
		m.ModelClass = s.defaultModelClass
	}

	if err := s.bridge.SaveCurrentModel(ctx, m); err != nil {
		slog.Warn("Could not persist current model, keeping previous.", "error", err)
		return
	}
	s.currentModel = m
}

// CurrentModel returns the active model config.
func (s *Store) CurrentModel() model.ModelConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentModel
}

// SetAPIKey stores key in the config of modelID, creating the config when
// absent, and mirrors it into the current model when that is the one being
// changed. The whole config map is persisted on every call.
func (s *Store) SetAPIKey(ctx context.Context, key, modelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, ok := s.modelConfigs[modelID]
	if !ok {
		cfg = model.ModelConfig{ID: modelID, ModelID: modelID, ModelClass: s.defaultModelClass}
	}
	cfg.APIKey = key
	s.modelConfigs[modelID] = cfg

	if err := s.bridge.SaveModelConfigs(ctx, s.modelConfigs); err != nil {
		slog.Warn("Could not persist model configs.", "error", err)
	}

	if s.currentModel.ID == modelID {
		s.currentModel.APIKey = key
		if err := s.bridge.SaveCurrentModel(ctx, s.currentModel); err != nil {
			slog.Warn("Could not persist current model.", "error", err)
		}
	}
}

// SetModelCustomURL stores a custom endpoint URL for modelID, with the same
// create-if-absent and mirror semantics as SetAPIKey.
func (s *Store) SetModelCustomURL(ctx context.Context, url, modelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, ok := s.modelConfigs[modelID]
	if !ok {
		cfg = model.ModelConfig{ID: modelID, ModelID: modelID, ModelClass: s.defaultModelClass}
	}
	cfg.CustomURL = url
	s.modelConfigs[modelID] = cfg

	if err := s.bridge.SaveModelConfigs(ctx, s.modelConfigs); err != nil {
		slog.Warn("Could not persist model configs.", "error", err)
	}

	if s.currentModel.ID == modelID {
		s.currentModel.CustomURL = url
		if err := s.bridge.SaveCurrentModel(ctx, s.currentModel); err != nil {
			slog.Warn("Could not persist current model.", "error", err)
		}
	}
}

// GetModelAPIKey returns the key stored for modelID, "" when unset.
func (s *Store) GetModelAPIKey(modelID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modelConfigs[modelID].APIKey
}

// LegacyAPIKey returns the flat pre-per-model key read at hydration.
func (s *Store) LegacyAPIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.legacyAPIKey
}

// AddConversation appends to the conversation list. No de-duplication is
// performed; callers must ensure uniqueness.
func (s *Store) AddConversation(c model.ConversationInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = append(s.conversations, c)
}

// SetConversations replaces the conversation list wholesale, as after a
// full fetch.
func (s *Store) SetConversations(list []model.ConversationInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations = list
}

// Conversations returns a snapshot of the conversation list.
func (s *Store) Conversations() []model.ConversationInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ConversationInfo, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// SetUser sets or clears the authenticated identity. Passing nil is the
// logout contract; only the store owns this field.
func (s *Store) SetUser(u *model.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

// User returns the authenticated identity, nil when logged out.
func (s *Store) User() *model.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// ToggleDrawer flips the navigation drawer flag and returns the new value.
func (s *Store) ToggleDrawer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawer = !s.drawer
	return s.drawer
}

// ToggleFetchingResponse flips the in-flight-request flag and returns the
// new value.
func (s *Store) ToggleFetchingResponse() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchingResponse = !s.fetchingResponse
	return s.fetchingResponse
}

// FetchingResponse reports the advisory in-flight flag.
func (s *Store) FetchingResponse() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchingResponse
}

// SetAddr stores the chat-server address resolved by the gate bootstrap.
func (s *Store) SetAddr(addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addr = addr
}

// Addr returns the resolved chat-server address, "" before bootstrap.
func (s *Store) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}
