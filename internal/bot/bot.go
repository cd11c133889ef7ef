package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/decompose"
	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/engine"
	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/metrics"
	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/storage"
)

const (
	sessionTTL    = 30 * time.Minute
	evictInterval = 5 * time.Minute
)

// Bot ties the long-poll client to the engine. One instance, one poll loop.
type Bot struct {
	client    *Client
	svc       *engine.Service
	dec       *decompose.Decomposer
	sessions  *SessionStore
	webAppURL string
	log       *slog.Logger
}

func New(client *Client, svc *engine.Service, dec *decompose.Decomposer, webAppURL string, log *slog.Logger) *Bot {
	if log == nil {
		log = slog.Default()
	}
	return &Bot{
		client:    client,
		svc:       svc,
		dec:       dec,
		sessions:  NewSessionStore(sessionTTL),
		webAppURL: webAppURL,
		log:       log,
	}
}

// Run polls for updates until ctx is cancelled. Poll errors back off and
// retry; handler errors are logged per update and never stop the loop.
func (b *Bot) Run(ctx context.Context) error {
	b.sessions.StartEviction(ctx, evictInterval)
	defer b.sessions.Stop()

	b.log.Info("bot loop started")
	var marker int64
	for {
		updates, next, err := b.client.Poll(ctx, marker)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.log.Warn("poll failed", "err", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
			continue
		}
		marker = next

		for _, u := range updates {
			metrics.BotUpdates.Inc()
			if err := b.handleUpdate(ctx, u); err != nil {
				b.log.Error("update failed", "type", u.UpdateType, "err", err)
			}
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, u Update) error {
	switch u.UpdateType {
	case UpdateMessageCreated:
		if u.Message != nil {
			return b.handleMessage(ctx, u.Message)
		}
	case UpdateMessageCallback:
		if u.Callback != nil {
			var chatID int64
			if u.Message != nil {
				chatID = u.Message.Recipient.ChatID
			}
			return b.handleCallback(ctx, u.Callback, chatID)
		}
	case UpdateBotStarted:
		if u.Message != nil {
			return b.sendWelcome(ctx, u.Message.Recipient.ChatID)
		}
	}
	return nil
}

func userKey(u User) string {
	return strconv.FormatInt(u.UserID, 10)
}

func (b *Bot) handleMessage(ctx context.Context, m *Message) error {
	userID := userKey(m.Sender)
	chatID := m.Recipient.ChatID
	b.sessions.Touch(userID, chatID)

	name, args := command(m.Body.Text)
	if name != "" {
		metrics.BotCommands.WithLabelValues(name).Inc()
	}

	switch name {
	case "start":
		return b.cmdStart(ctx, m)
	case "add":
		return b.cmdAdd(ctx, userID, chatID, args)
	case "list_tasks":
		return b.cmdList(ctx, userID, chatID)
	case "complete":
		return b.cmdComplete(ctx, userID, chatID, args)
	case "motivation":
		return b.client.SendMessage(ctx, chatID, "💫 **Motivation:**\n\n"+b.svc.RandomMotivation(), mainKeyboard())
	case "decompose":
		return b.cmdDecompose(ctx, userID, chatID, args)
	case "analyze":
		return b.cmdAnalyze(ctx, userID, chatID)
	default:
		return b.client.SendMessage(ctx, chatID, helpText, mainKeyboard())
	}
}

const helpText = "🤖 **Task management bot**\n\n" +
	"💡 *Available commands:*\n" +
	"`/start` - register\n" +
	"`/add [task]` - add a task\n" +
	"`/list_tasks` - task list\n" +
	"`/complete [id]` - complete a task\n" +
	"`/motivation` - motivation\n" +
	"`/decompose [text/id]` - break down a task\n" +
	"`/analyze` - day analysis\n\n" +
	"🌐 *Tasks are synchronized with the web app*\n\n" +
	"Pick an action:"

func (b *Bot) sendWelcome(ctx context.Context, chatID int64) error {
	return b.client.SendMessage(ctx, chatID,
		"👋 **Welcome!**\n\nI keep your tasks in order. Pick an action:"+b.webAppLine(),
		mainKeyboard())
}

// webAppLine advertises the companion web app when one is configured.
func (b *Bot) webAppLine() string {
	if b.webAppURL == "" {
		return ""
	}
	return "\n\n🌐 Web app: " + b.webAppURL
}

func (b *Bot) cmdStart(ctx context.Context, m *Message) error {
	userID := userKey(m.Sender)
	name := strings.TrimSpace(m.Sender.FirstName + " " + m.Sender.LastName)
	var namePtr *string
	if name != "" {
		namePtr = &name
	}
	user, err := b.svc.ResolveUser(ctx, userID, namePtr)
	if err != nil {
		return err
	}

	greeting := "friend"
	if user.Name != nil && *user.Name != "" {
		greeting = *user.Name
	}
	return b.client.SendMessage(ctx, m.Recipient.ChatID,
		fmt.Sprintf("👋 Hi, **%s**!\n\nI keep your tasks in order. Pick an action:%s", greeting, b.webAppLine()),
		mainKeyboard())
}

func (b *Bot) cmdAdd(ctx context.Context, userID string, chatID int64, args string) error {
	parsed, err := parseAddArgs(args)
	if err != nil {
		return b.client.SendMessage(ctx, chatID,
			"❌ "+err.Error()+"\n\n💡 *Use today's or a future date*", mainKeyboard())
	}
	if parsed.Title == "" {
		return b.client.SendMessage(ctx, chatID,
			"❌ **Give the task a title after /add**\n\n"+
				"💡 *Examples:*\n"+
				"`/add do the homework est=30 difficulty=2`\n"+
				"`/add meet the client date=15.12.2024`\n"+
				"`/add a subtask parent=1`",
			mainKeyboard())
	}

	var task *storage.Task
	if parsed.ParentID != nil {
		task, err = b.svc.CreateSubtask(ctx, userID, *parsed.ParentID, parsed.Title, parsed.EstimatedMinutes, parsed.Difficulty)
	} else {
		task, err = b.svc.CreateTask(ctx, engine.CreateTaskInput{
			ExternalID:       userID,
			Title:            parsed.Title,
			EstimatedMinutes: parsed.EstimatedMinutes,
			Difficulty:       parsed.Difficulty,
			TaskDate:         parsed.TaskDate,
		})
	}
	if err != nil {
		if engine.IsValidation(err) || engine.IsNotFound(err) {
			return b.client.SendMessage(ctx, chatID, "❌ "+err.Error(), mainKeyboard())
		}
		return err
	}

	listText, err := b.taskListText(ctx, userID)
	if err != nil {
		return err
	}

	var response string
	if task.Status == string(engine.StatusQuick) {
		response = fmt.Sprintf("⚡ **Quick task added!**\n\n\"%s\" (<=2 min)\n\n💡 *Do it right now!*\n\n%s",
			parsed.Title, listText)
	} else {
		response = fmt.Sprintf("✅ **Task added**\n\n\"%s\"\n\n%s", parsed.Title, listText)
	}
	return b.client.SendMessage(ctx, chatID, response, mainKeyboard())
}

func (b *Bot) cmdList(ctx context.Context, userID string, chatID int64) error {
	text, err := b.taskListText(ctx, userID)
	if err != nil {
		return err
	}
	return b.client.SendMessage(ctx, chatID, text, mainKeyboard())
}

func (b *Bot) cmdComplete(ctx context.Context, userID string, chatID int64, args string) error {
	id, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		return b.client.SendMessage(ctx, chatID,
			"❌ **Give a task ID**\n\n💡 *Example:*\n`/complete 1`\n\nCheck IDs with `/list_tasks`",
			mainKeyboard())
	}
	return b.completeByID(ctx, userID, chatID, id)
}

// completeByID completes a task, cascading over subtasks when the target is a
// parent.
func (b *Bot) completeByID(ctx context.Context, userID string, chatID int64, id int64) error {
	task, err := b.svc.GetTaskByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if task == nil {
		return b.client.SendMessage(ctx, chatID,
			"❌ **Task not found**\n\nCheck the ID with `/list_tasks`", mainKeyboard())
	}

	var header string
	if task.IsParent {
		rec, err := b.svc.CompleteParentTask(ctx, id)
		if err != nil {
			return err
		}
		header = fmt.Sprintf("🎉 **Whole task completed!**\n\n'%s'\n✅ Subtasks completed: %d",
			rec.Title, rec.SubtasksCompleted)
	} else {
		rec, err := b.svc.CompleteTask(ctx, userID, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return b.client.SendMessage(ctx, chatID,
				"❌ **Task not found**\n\nCheck the ID with `/list_tasks`", mainKeyboard())
		}
		header = fmt.Sprintf("✅ **Task completed!**\n\n'%s' ✅", rec.Title)
	}

	listText, err := b.taskListText(ctx, userID)
	if err != nil {
		return err
	}
	return b.client.SendMessage(ctx, chatID, header+"\n\n"+listText, mainKeyboard())
}

func (b *Bot) cmdDecompose(ctx context.Context, userID string, chatID int64, args string) error {
	if args == "" {
		return b.client.SendMessage(ctx, chatID,
			"❌ **Give me a task to break down**\n\n💡 *Example:*\n`/decompose prepare the project report`",
			mainKeyboard())
	}

	title := args
	if id, err := strconv.ParseInt(args, 10, 64); err == nil {
		task, err := b.svc.GetTaskByID(ctx, userID, id)
		if err != nil {
			return err
		}
		if task == nil {
			return b.client.SendMessage(ctx, chatID, "❌ No task with that ID", mainKeyboard())
		}
		title = task.Title
	}

	res, err := b.dec.Decompose(ctx, userID, title)
	if err != nil {
		return err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🔍 **Task breakdown:**\n'%s'\n\n", title)
	for i, step := range res.Steps {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
	}
	fmt.Fprintf(&sb, "\n✅ **Created %d subtasks!** Check the task list.", len(res.Steps))
	return b.client.SendMessage(ctx, chatID, sb.String(), mainKeyboard())
}

func (b *Bot) cmdAnalyze(ctx context.Context, userID string, chatID int64) error {
	if _, err := b.svc.ResolveUser(ctx, userID, nil); err != nil {
		return err
	}
	res, err := b.svc.AnalyzeDay(ctx, userID)
	if err != nil {
		return err
	}
	return b.client.SendMessage(ctx, chatID, "📊 **Day analysis:**\n\n"+res.Text, mainKeyboard())
}

func (b *Bot) taskListText(ctx context.Context, userID string) (string, error) {
	tasks, err := b.svc.ListTasks(ctx, userID, nil)
	if err != nil {
		return "", err
	}
	return formatTaskList(tasks, func(id int64) (engine.Progress, bool) {
		p, err := b.svc.TaskProgress(ctx, id)
		if err != nil {
			return engine.Progress{}, false
		}
		return p, true
	}), nil
}
