package root

import (
	"errors"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/api"
	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/bot"
	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/config"
	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/decompose"
	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/engine"
)

// newServeCmd runs the REST API and the bot loop in one process, sharing the
// service and the database handle.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST API and the chat bot together",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.BotToken == "" {
				return errors.New("bot token is not configured (MAX_BOT_TOKEN)")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, cleanup, err := openService(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer cleanup()

			dec := newDecomposer(svc, cfg, log)
			server := api.NewServer(svc, dec, cfg.CORSOrigins, log)

			errCh := make(chan error, 2)
			go func() {
				log.Info("api listening", "addr", cfg.ListenAddr)
				errCh <- server.Run(cfg.ListenAddr)
			}()
			go func() {
				b := bot.New(bot.NewClient(cfg.BotAPIURL, cfg.BotToken), svc, dec, cfg.WebAppURL, log)
				errCh <- b.Run(ctx)
			}()

			select {
			case <-ctx.Done():
				log.Info("shutting down")
				return nil
			case err := <-errCh:
				return err
			}
		},
	}
}

// newDecomposer wires the model-backed provider when credentials exist and
// leaves only the local fallback otherwise.
func newDecomposer(svc *engine.Service, cfg *config.Config, log *slog.Logger) *decompose.Decomposer {
	var provider decompose.Provider
	if cfg.ChatAuthKey != "" {
		provider = decompose.NewChatClient(
			cfg.ChatAuthKey, cfg.ChatTokenURL, cfg.ChatAPIURL, cfg.ChatScope,
			decompose.WithLogger(log),
		)
	}
	return decompose.NewDecomposer(svc, provider, log)
}
