package app

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/viper"

	"whuchat/client/internal/api"
	"whuchat/client/internal/config"
	"whuchat/client/internal/fixtures"
	"whuchat/client/internal/stream"
)

// GateUsername is the identity the fixture gate hands out.
const GateUsername = "demo"

// Run wires and starts the fixture server. It returns a process exit code.
func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)

	logConfigSource()

	router := NewRouter(cfg, stream.WallClock())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for the websocket endpoint
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("Starting fixture server", "port", cfg.AppPort)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

// NewRouter assembles the fixture server's handler tree. The scheduler is
// a parameter so tests can drive the stream script manually.
func NewRouter(cfg *config.Config, sched stream.Scheduler) *chi.Mux {
	catalog := fixtures.NewCatalog()
	stepDelay := time.Duration(cfg.StreamStepDelayMS) * time.Millisecond

	chatHandler := api.NewChatHandler(catalog)
	gateHandler := api.NewGateHandler(cfg.APIHost, GateUsername)
	streamHandler := api.NewStreamHandler(catalog, sched, stepDelay)

	return api.NewRouter(chatHandler, gateHandler, streamHandler)
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
