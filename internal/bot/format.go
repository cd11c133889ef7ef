package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/engine"
	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/storage"
)

// formatTaskList renders the user's tasks one per line. Parents show derived
// progress instead of their raw status.
func formatTaskList(tasks []storage.Task, progressFor func(id int64) (engine.Progress, bool)) string {
	if len(tasks) == 0 {
		return "📝 Task list is empty."
	}

	var b strings.Builder
	b.WriteString("📋 **Your tasks:**\n\n")
	for _, t := range tasks {
		icon := "⏳"
		progressText := ""
		if t.IsParent {
			icon = "🎯"
			if p, ok := progressFor(t.ID); ok {
				switch {
				case p.Percent == 100:
					icon = "✅"
				case p.Percent > 0:
					icon = "🟡"
				}
				progressText = fmt.Sprintf(" (%d/%d)", p.Completed, p.Total)
			}
		} else if t.Status == string(engine.StatusDone) {
			icon = "✅"
		}

		var info []string
		if t.EstimatedMinutes > 0 {
			info = append(info, fmt.Sprintf("⏱%dm", t.EstimatedMinutes))
		}
		if t.Difficulty > 1 {
			info = append(info, fmt.Sprintf("⚡%d", t.Difficulty))
		}
		infoStr := ""
		if len(info) > 0 {
			infoStr = " (" + strings.Join(info, " ") + ")"
		}

		dateInfo := ""
		if !sameDay(t.TaskDate, t.CreatedAt) {
			dateInfo = " 📅" + t.TaskDate.Format("02.01")
		}

		fmt.Fprintf(&b, "%s `%02d` %s%s%s%s\n", icon, t.ID, t.Title, progressText, infoStr, dateInfo)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSubtaskList(subtasks []storage.Task, parentTitle string) string {
	if len(subtasks) == 0 {
		return fmt.Sprintf("🎯 **%s**\n\n📝 No subtasks found", parentTitle)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎯 **%s**\n\n", parentTitle)
	completed := 0
	for _, st := range subtasks {
		icon := "🔲"
		if st.Status == string(engine.StatusDone) {
			icon = "✅"
			completed++
		}
		fmt.Fprintf(&b, "%s %s\n", icon, st.Title)
	}
	fmt.Fprintf(&b, "\n📊 Progress: %d/%d", completed, len(subtasks))
	return b.String()
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
