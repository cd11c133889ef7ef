package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/engine"
)

// handleCallback dispatches inline-button presses. Payloads mirror the text
// commands; paging state rides inside the payload, not in the session.
func (b *Bot) handleCallback(ctx context.Context, cb *Callback, chatID int64) error {
	userID := userKey(cb.User)
	if chatID != 0 {
		b.sessions.Touch(userID, chatID)
	} else if stored, ok := b.sessions.ChatID(userID); ok {
		chatID = stored
	}

	payload := cb.Payload
	switch {
	case payload == "add_task":
		return b.client.AnswerCallback(ctx, cb.CallbackID,
			"📝 **Adding a task**\n\nPick a category or type:\n`/add task title`\n\n"+
				"💡 *With arguments:*\n`/add do the homework est=30 difficulty=2`",
			addTaskKeyboard())

	case payload == "list_tasks":
		text, err := b.taskListText(ctx, userID)
		if err != nil {
			return err
		}
		return b.client.AnswerCallback(ctx, cb.CallbackID, text, mainKeyboard())

	case strings.HasPrefix(payload, "complete_task:"):
		page, _ := strconv.Atoi(strings.TrimPrefix(payload, "complete_task:"))
		return b.showCompletePage(ctx, cb, userID, page)

	case strings.HasPrefix(payload, "complete_parent_"):
		id, err := strconv.ParseInt(strings.TrimPrefix(payload, "complete_parent_"), 10, 64)
		if err != nil {
			return nil
		}
		rec, err := b.svc.CompleteParentTask(ctx, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return b.client.AnswerCallback(ctx, cb.CallbackID, "❌ Task not found", mainKeyboard())
		}
		return b.client.AnswerCallback(ctx, cb.CallbackID,
			fmt.Sprintf("🎉 **Whole task completed!**\n\n'%s'\n✅ Subtasks completed: %d",
				rec.Title, rec.SubtasksCompleted),
			mainKeyboard())

	case strings.HasPrefix(payload, "complete_"):
		id, err := strconv.ParseInt(strings.TrimPrefix(payload, "complete_"), 10, 64)
		if err != nil {
			return nil
		}
		return b.completeFromCallback(ctx, cb, userID, id)

	case strings.HasPrefix(payload, "refresh_"):
		id, err := strconv.ParseInt(strings.TrimPrefix(payload, "refresh_"), 10, 64)
		if err != nil {
			return nil
		}
		return b.showTaskDetails(ctx, cb, userID, id)

	case payload == "motivation":
		return b.client.AnswerCallback(ctx, cb.CallbackID,
			"💫 **Motivation:**\n\n"+b.svc.RandomMotivation(), mainKeyboard())

	case payload == "decompose_task":
		return b.client.AnswerCallback(ctx, cb.CallbackID,
			"🔍 **Task breakdown**\n\nType:\n`/decompose task text`\nor\n`/decompose task id`",
			backKeyboard())

	case payload == "analyze_day":
		if _, err := b.svc.ResolveUser(ctx, userID, nil); err != nil {
			return err
		}
		res, err := b.svc.AnalyzeDay(ctx, userID)
		if err != nil {
			return err
		}
		return b.client.AnswerCallback(ctx, cb.CallbackID,
			"📊 **Day analysis:**\n\n"+res.Text, mainKeyboard())

	case strings.HasPrefix(payload, "add_"):
		category := categoryLabel(strings.TrimPrefix(payload, "add_"))
		return b.client.AnswerCallback(ctx, cb.CallbackID,
			fmt.Sprintf("%s\n\nType:\n`/add task title`", category), backKeyboard())

	case payload == "back_main":
		return b.client.AnswerCallback(ctx, cb.CallbackID,
			"🤖 **Task management bot**\n\nPick an action:", mainKeyboard())
	}
	return nil
}

func categoryLabel(kind string) string {
	switch kind {
	case "study":
		return "📚 **Study task**"
	case "work":
		return "💼 **Work task**"
	case "home":
		return "🏠 **Home task**"
	case "personal":
		return "🎯 **Personal task**"
	}
	return "📝 **New task**"
}

// showCompletePage renders one page of the completion picker, pending tasks
// only, three per page.
func (b *Bot) showCompletePage(ctx context.Context, cb *Callback, userID string, page int) error {
	tasks, err := b.svc.ListTasks(ctx, userID, nil)
	if err != nil {
		return err
	}

	pending := tasks[:0:0]
	for _, t := range tasks {
		if t.Status != string(engine.StatusDone) && !t.IsSubtask() {
			pending = append(pending, t)
		}
	}
	if len(pending) == 0 {
		return b.client.AnswerCallback(ctx, cb.CallbackID,
			"✅ **Nothing to complete!**\n\nAll tasks are done or the list is empty.", mainKeyboard())
	}

	maxPage := (len(pending) - 1) / completePageSize
	if page < 0 {
		page = 0
	}
	if page > maxPage {
		page = maxPage
	}

	kb := completeKeyboard(pending, page, func(id int64) (int, int, bool) {
		p, err := b.svc.TaskProgress(ctx, id)
		if err != nil {
			return 0, 0, false
		}
		return p.Completed, p.Total, true
	})
	return b.client.AnswerCallback(ctx, cb.CallbackID,
		fmt.Sprintf("✅ **Pick a task to complete** (page %d/%d):", page+1, maxPage+1), kb)
}

func (b *Bot) completeFromCallback(ctx context.Context, cb *Callback, userID string, id int64) error {
	task, err := b.svc.GetTaskByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if task == nil {
		return b.client.AnswerCallback(ctx, cb.CallbackID, "❌ Task not found", mainKeyboard())
	}

	// A parent press opens the detail view instead of completing blindly.
	if task.IsParent {
		return b.showTaskDetails(ctx, cb, userID, id)
	}

	rec, err := b.svc.CompleteTask(ctx, userID, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return b.client.AnswerCallback(ctx, cb.CallbackID, "❌ Task not found", mainKeyboard())
	}
	text, err := b.taskListText(ctx, userID)
	if err != nil {
		return err
	}
	return b.client.AnswerCallback(ctx, cb.CallbackID,
		fmt.Sprintf("✅ **Task completed!**\n\n'%s' ✅\n\n%s", rec.Title, text), mainKeyboard())
}

func (b *Bot) showTaskDetails(ctx context.Context, cb *Callback, userID string, id int64) error {
	task, err := b.svc.GetTaskByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if task == nil {
		return b.client.AnswerCallback(ctx, cb.CallbackID, "❌ Task not found", mainKeyboard())
	}
	subs, err := b.svc.ListSubtasks(ctx, userID, id)
	if err != nil {
		return err
	}
	return b.client.AnswerCallback(ctx, cb.CallbackID,
		formatSubtaskList(subs, task.Title), taskDetailsKeyboard(id))
}
