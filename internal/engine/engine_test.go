package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/storage"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewService(db, nil)
}

func mustCreateTask(t *testing.T, svc *Service, externalID, title string) *storage.Task {
	t.Helper()
	task, err := svc.CreateTask(context.Background(), CreateTaskInput{
		ExternalID: externalID,
		Title:      title,
	})
	if err != nil {
		t.Fatalf("CreateTask(%q): %v", title, err)
	}
	return task
}

func futureDate(days int) *time.Time {
	d := time.Now().UTC().AddDate(0, 0, days)
	d = time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, time.UTC)
	return &d
}
