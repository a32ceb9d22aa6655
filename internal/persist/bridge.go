package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"whuchat/client/internal/model"
)

// Storage keys. Values are JSON-encoded except KeyAuthToken, which is a
// raw string for compatibility with what the web client wrote.
const (
	KeyCurrentModel = "currentModel"
	KeyModelConfigs = "modelConfigs"
	KeyAPIKey       = "apiKey"
	KeyTheme        = "themePreference"
	KeyLanguage     = "languagePreference"
	KeyChatSettings = "chatSettings"
	KeyAuthToken    = "auth_token"
)

// Bridge is a typed get/set codec over the kv table. It never validates
// schema: a hand-edited stored value produces whatever json.Unmarshal
// yields. There is no migration logic.
type Bridge struct {
	db *sql.DB

	defaultModel model.ModelConfig
}

// NewBridge creates a bridge over db. defaultModel is returned by
// CurrentModel whenever nothing usable is stored.
func NewBridge(db *sql.DB, defaultModel model.ModelConfig) *Bridge {
	return &Bridge{db: db, defaultModel: defaultModel}
}

// Get reads and decodes the value at key into dest. It reports false when
// the key is absent; a missing key is never an error.
func (b *Bridge) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, ok, err := b.getRaw(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("failed to decode stored value for %q: %w", key, err)
	}
	return true, nil
}

// Set encodes value and writes it at key. Encoding failures surface to the
// caller; it is the caller's job to catch them.
func (b *Bridge) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for %q: %w", key, err)
	}
	return b.setRaw(ctx, key, string(raw))
}

// CurrentModel returns the persisted current model, or the fixed default
// when nothing is stored or the stored value cannot be parsed. Corruption
// is logged and degraded, never propagated.
func (b *Bridge) CurrentModel(ctx context.Context) model.ModelConfig {
	var m model.ModelConfig
	ok, err := b.Get(ctx, KeyCurrentModel, &m)
	if err != nil {
		slog.Warn("Stored current model is unreadable, using default.", "error", err)
		return b.defaultModel
	}
	if !ok {
		return b.defaultModel
	}
	return m
}

// SaveCurrentModel persists the current model under its fixed key.
func (b *Bridge) SaveCurrentModel(ctx context.Context, m model.ModelConfig) error {
	return b.Set(ctx, KeyCurrentModel, m)
}

// ModelConfigs returns the persisted per-model config map, empty when
// absent or unreadable.
func (b *Bridge) ModelConfigs(ctx context.Context) map[string]model.ModelConfig {
	configs := map[string]model.ModelConfig{}
	if _, err := b.Get(ctx, KeyModelConfigs, &configs); err != nil {
		slog.Warn("Stored model configs are unreadable, starting empty.", "error", err)
		return map[string]model.ModelConfig{}
	}
	return configs
}

// SaveModelConfigs persists the whole per-model config map.
func (b *Bridge) SaveModelConfigs(ctx context.Context, configs map[string]model.ModelConfig) error {
	return b.Set(ctx, KeyModelConfigs, configs)
}

// Token returns the stored auth token, "" when absent.
func (b *Bridge) Token(ctx context.Context) string {
	raw, ok, err := b.getRaw(ctx, KeyAuthToken)
	if err != nil || !ok {
		return ""
	}
	return raw
}

// SetToken stores the auth token as a raw string.
func (b *Bridge) SetToken(ctx context.Context, token string) error {
	return b.setRaw(ctx, KeyAuthToken, token)
}

// ClearToken removes the stored auth token. Part of the logout contract.
func (b *Bridge) ClearToken(ctx context.Context) error {
	_, err := b.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", KeyAuthToken)
	return err
}

// Theme returns the persisted theme preference, "" when unset.
func (b *Bridge) Theme(ctx context.Context) string {
	var theme string
	if _, err := b.Get(ctx, KeyTheme, &theme); err != nil {
		return ""
	}
	return theme
}

// SetTheme persists the theme preference.
func (b *Bridge) SetTheme(ctx context.Context, theme string) error {
	return b.Set(ctx, KeyTheme, theme)
}

// Language returns the persisted language preference, "" when unset.
func (b *Bridge) Language(ctx context.Context) string {
	var lang string
	if _, err := b.Get(ctx, KeyLanguage, &lang); err != nil {
		return ""
	}
	return lang
}

// SetLanguage persists the language preference.
func (b *Bridge) SetLanguage(ctx context.Context, lang string) error {
	return b.Set(ctx, KeyLanguage, lang)
}

func (b *Bridge) getRaw(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := b.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return value, true, nil
}

func (b *Bridge) setRaw(ctx context.Context, key, value string) error {
	_, err := b.db.ExecContext(ctx,
		"INSERT INTO kv (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}
