package engine

import (
	"database/sql"
	"log/slog"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/storage"
)

// Service is the domain layer over the shared relational store. Every
// operation resolves the caller's external identifier to a canonical user
// first and scopes reads/writes to that user's rows.
type Service struct {
	db       *sql.DB
	log      *slog.Logger
	users    *storage.UserRepo
	tasks    *storage.TaskRepo
	projects *storage.ProjectRepo
	columns  *storage.ColumnRepo
	cards    *storage.CardRepo
}

func NewService(db *sql.DB, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:       db,
		log:      logger,
		users:    storage.NewUserRepo(db),
		tasks:    storage.NewTaskRepo(db),
		projects: storage.NewProjectRepo(db),
		columns:  storage.NewColumnRepo(db),
		cards:    storage.NewCardRepo(db),
	}
}
