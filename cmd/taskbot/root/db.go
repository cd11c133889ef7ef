package root

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/config"
	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/engine"
	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/storage"
)

func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, func(), error) {
	path := cfg.DBPath
	if path == "" {
		var err error
		path, err = storage.ResolveDBPath()
		if err != nil {
			return nil, nil, err
		}
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

func openService(ctx context.Context, cfg *config.Config, log *slog.Logger) (*engine.Service, func(), error) {
	db, cleanup, err := openDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return engine.NewService(db, log), cleanup, nil
}
