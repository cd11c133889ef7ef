package bot

import (
	"fmt"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/storage"
)

// Button is a callback button in an inline keyboard.
type Button struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Payload string `json:"payload"`
}

type keyboard struct {
	Buttons [][]Button `json:"buttons"`
}

// Keyboard accumulates button rows. Add appends to the current row, Row
// starts a new one.
type Keyboard struct {
	rows [][]Button
}

func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

func (k *Keyboard) Add(text, payload string) *Keyboard {
	if len(k.rows) == 0 {
		k.rows = append(k.rows, nil)
	}
	last := len(k.rows) - 1
	k.rows[last] = append(k.rows[last], Button{Type: "callback", Text: text, Payload: payload})
	return k
}

func (k *Keyboard) Row(text, payload string) *Keyboard {
	k.rows = append(k.rows, []Button{{Type: "callback", Text: text, Payload: payload}})
	return k
}

func mainKeyboard() *Keyboard {
	return NewKeyboard().
		Add("📝 Add task", "add_task").
		Add("📋 Task list", "list_tasks").
		Row("✅ Complete task", "complete_task:0").
		Add("💫 Motivation", "motivation").
		Row("🔍 Decompose task", "decompose_task").
		Add("📊 Analyze day", "analyze_day")
}

func addTaskKeyboard() *Keyboard {
	return NewKeyboard().
		Add("📚 Study", "add_study").
		Add("💼 Work", "add_work").
		Row("🏠 Home", "add_home").
		Add("🎯 Personal", "add_personal").
		Row("⬅️ Back", "back_main")
}

func backKeyboard() *Keyboard {
	return NewKeyboard().Row("⬅️ Back", "back_main")
}

func taskDetailsKeyboard(taskID int64) *Keyboard {
	return NewKeyboard().
		Add("🔄 Refresh", fmt.Sprintf("refresh_%d", taskID)).
		Add("✅ Complete all", fmt.Sprintf("complete_parent_%d", taskID)).
		Row("⬅️ Back", "list_tasks")
}

// completePageSize is the number of tasks offered per completion page.
const completePageSize = 3

// completeKeyboard renders one page of the completion picker with prev/next
// paging. progressFor supplies parent progress labels; it may return ok=false
// to skip the counter.
func completeKeyboard(tasks []storage.Task, page int, progressFor func(id int64) (completed, total int, ok bool)) *Keyboard {
	start := page * completePageSize
	if start > len(tasks) {
		start = len(tasks)
	}
	end := start + completePageSize
	if end > len(tasks) {
		end = len(tasks)
	}

	kb := NewKeyboard()
	for _, t := range tasks[start:end] {
		label := "✅ " + truncate(t.Title, 15)
		if t.IsParent {
			if completed, total, ok := progressFor(t.ID); ok {
				label = fmt.Sprintf("🎯 %s (%d/%d)", truncate(t.Title, 12), completed, total)
			} else {
				label = "🎯 " + truncate(t.Title, 12)
			}
		}
		kb.Row(label, fmt.Sprintf("complete_%d", t.ID))
	}

	var nav []string
	if page > 0 {
		kb.Row("⬅️ Prev", fmt.Sprintf("complete_task:%d", page-1))
		nav = append(nav, "prev")
	}
	if end < len(tasks) {
		if len(nav) > 0 {
			kb.Add("Next ➡️", fmt.Sprintf("complete_task:%d", page+1))
		} else {
			kb.Row("Next ➡️", fmt.Sprintf("complete_task:%d", page+1))
		}
	}
	kb.Row("⬅️ Back", "back_main")
	return kb
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
