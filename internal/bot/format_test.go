package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/engine"
	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/storage"
)

func TestFormatTaskListEmpty(t *testing.T) {
	got := formatTaskList(nil, func(int64) (engine.Progress, bool) { return engine.Progress{}, false })
	if !strings.Contains(got, "empty") {
		t.Fatalf("empty list text = %q", got)
	}
}

func TestFormatTaskListIcons(t *testing.T) {
	now := time.Now().UTC()
	tasks := []storage.Task{
		{ID: 1, Title: "pending", Status: "pending", TaskDate: now, CreatedAt: now},
		{ID: 2, Title: "finished", Status: "done", TaskDate: now, CreatedAt: now},
		{ID: 3, Title: "project", IsParent: true, Status: "pending", TaskDate: now, CreatedAt: now},
		{ID: 4, Title: "timed", Status: "pending", EstimatedMinutes: 30, Difficulty: 3, TaskDate: now, CreatedAt: now},
	}
	progress := func(id int64) (engine.Progress, bool) {
		if id == 3 {
			return engine.Progress{Completed: 1, Total: 2, Percent: 50}, true
		}
		return engine.Progress{}, false
	}

	got := formatTaskList(tasks, progress)
	for _, want := range []string{
		"⏳ `01` pending",
		"✅ `02` finished",
		"🟡 `03` project (1/2)",
		"(⏱30m ⚡3)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("list missing %q:\n%s", want, got)
		}
	}
	// Same-day tasks carry no date marker.
	if strings.Contains(got, "📅") {
		t.Errorf("unexpected date marker:\n%s", got)
	}
}

func TestFormatTaskListScheduledDate(t *testing.T) {
	now := time.Now().UTC()
	tasks := []storage.Task{
		{ID: 1, Title: "later", Status: "pending", TaskDate: now.AddDate(0, 0, 3), CreatedAt: now},
	}
	got := formatTaskList(tasks, func(int64) (engine.Progress, bool) { return engine.Progress{}, false })
	if !strings.Contains(got, "📅") {
		t.Fatalf("scheduled task missing date marker:\n%s", got)
	}
}

func TestFormatSubtaskList(t *testing.T) {
	subs := []storage.Task{
		{ID: 1, Title: "done step", Status: "done"},
		{ID: 2, Title: "open step", Status: "pending"},
	}
	got := formatSubtaskList(subs, "Big job")
	for _, want := range []string{"Big job", "✅ done step", "🔲 open step", "Progress: 1/2"} {
		if !strings.Contains(got, want) {
			t.Errorf("subtask list missing %q:\n%s", want, got)
		}
	}

	empty := formatSubtaskList(nil, "Lonely")
	if !strings.Contains(empty, "No subtasks") {
		t.Fatalf("empty subtask list = %q", empty)
	}
}
