package root

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/api"
)

func newAPICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "api",
		Short: "Run only the REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, cleanup, err := openService(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer cleanup()

			server := api.NewServer(svc, newDecomposer(svc, cfg, log), cfg.CORSOrigins, log)
			log.Info("api listening", "addr", cfg.ListenAddr)
			return server.Run(cfg.ListenAddr)
		},
	}
}
