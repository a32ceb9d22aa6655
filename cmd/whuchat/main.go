// whuchat is a developer CLI for the chat client core. It drives the same
// store, persistence bridge and network layer the UI would, against a
// running fixture server (or a real backend).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"whuchat/client/internal/client"
	"whuchat/client/internal/config"
	"whuchat/client/internal/database"
	"whuchat/client/internal/model"
	"whuchat/client/internal/persist"
	"whuchat/client/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// env bundles the wired-up client core for the subcommands.
type env struct {
	cfg    *config.Config
	bridge *persist.Bridge
	store  *store.Store
	client *client.Client
}

func setup() (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	db, err := database.InitDB(cfg.DataPath)
	if err != nil {
		return nil, fmt.Errorf("could not open local storage: %w", err)
	}

	defaultModel := model.ModelConfig{
		ID:         cfg.DefaultModelID,
		Name:       "Claude 3 Haiku",
		ModelID:    cfg.DefaultModelID,
		ModelClass: cfg.DefaultModelClass,
	}
	bridge := persist.NewBridge(db, defaultModel)

	st := store.New(bridge, cfg.DefaultModelClass)
	st.Hydrate(context.Background())

	return &env{
		cfg:    cfg,
		bridge: bridge,
		store:  st,
		client: client.New("http://"+cfg.APIHost, st, bridge),
	}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "whuchat",
		Short:         "Talk to a WHUChat backend from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newLoginCmd(), newHistoryCmd(), newMessagesCmd(), newSendCmd())
	return root
}

func newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <token>",
		Short: "Store an auth token for subsequent commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			if err := e.bridge.SetToken(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Token stored.")
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List your sessions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			user, err := e.client.Bootstrap(ctx)
			if err != nil {
				return err
			}
			sessions, err := e.client.History(ctx, user.UUID)
			if err != nil {
				return err
			}
			e.store.SetConversations(sessions)
			for _, s := range sessions {
				fmt.Printf("%4d  %s  %s\n", s.ID, s.UpdatedAt, s.Title)
			}
			return nil
		},
	}
}

func newMessagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "messages <session-id>",
		Short: "Show the messages of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session id %q", args[0])
			}
			e, err := setup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			user, err := e.client.Bootstrap(ctx)
			if err != nil {
				return err
			}
			messages, err := e.client.BrowseMessages(ctx, user.UUID, sessionID)
			if err != nil {
				return err
			}
			for _, m := range messages {
				var text []string
				for _, f := range m.Prompt {
					text = append(text, f.Text())
				}
				fmt.Printf("[%s] %s\n", m.Sender, strings.Join(text, ""))
			}
			return nil
		},
	}
}

func newSendCmd() *cobra.Command {
	var sessionID int64
	cmd := &cobra.Command{
		Use:   "send <prompt>",
		Short: "Send a prompt and stream the assistant response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			user, err := e.client.Bootstrap(ctx)
			if err != nil {
				return err
			}

			current := e.store.CurrentModel()
			req := &model.ChatRequest{
				UUID:    user.UUID,
				Sender:  model.SenderUser,
				ModelID: current.ModelID,
				Prompt: []model.PromptFragment{
					model.TextFragment(strings.Join(args, " ")),
				},
				Parameters: model.ChatParameters{Temperature: 0.7},
				APIKey:     e.store.GetModelAPIKey(current.ID),
				URL:        current.CustomURL,
			}
			if sessionID != 0 {
				req.SessionID = &sessionID
			}

			assigned, err := e.client.SendMessage(ctx, req)
			if err != nil {
				return err
			}

			e.store.ToggleFetchingResponse()
			defer e.store.ToggleFetchingResponse()

			chunks := make(chan model.StreamChunk)
			errCh := make(chan error, 1)
			go func() {
				errCh <- e.client.StreamMessage(ctx, client.StreamRequest{
					UUID:      user.UUID,
					SessionID: assigned,
					ModelID:   current.ModelID,
				}, chunks, func(model.MessageItem) {})
			}()

			for chunk := range chunks {
				if chunk.Done {
					fmt.Println()
					break
				}
				fmt.Print(chunk.Content)
			}
			return <-errCh
		},
	}
	cmd.Flags().Int64Var(&sessionID, "session", 0, "existing session to continue")
	return cmd
}
