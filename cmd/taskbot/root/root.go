package root

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/config"
)

const Version = "1.0.0"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:           "taskbot",
		Short:         "Task management backend: REST API and MAX chat bot over one store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a yaml config file")

	rootCmd.AddCommand(
		newServeCmd(),
		newAPICmd(),
		newBotCmd(),
		newMigrateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)
	return cfg, log, nil
}
