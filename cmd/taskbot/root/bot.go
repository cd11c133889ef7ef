package root

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/bot"
)

func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run only the chat bot",
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

			b := bot.New(bot.NewClient(cfg.BotAPIURL, cfg.BotToken), svc, newDecomposer(svc, cfg, log), cfg.WebAppURL, log)
			err = b.Run(ctx)
			if errors.Is(err, ctx.Err()) {
				return nil
			}
			return err
		},
	}
}
