package decompose

import (
	"context"
	"log/slog"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/engine"
	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/metrics"
	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/storage"
)

// taskCreator is the slice of the engine the decomposer writes through.
type taskCreator interface {
	CreateTask(ctx context.Context, in engine.CreateTaskInput) (*storage.Task, error)
	CreateSubtask(ctx context.Context, externalID string, parentID int64, title string, estimatedMinutes, difficulty int) (*storage.Task, error)
}

// Decomposer creates a parent task and one subtask per decomposition step.
// The provider is optional; the fallback always produces something.
type Decomposer struct {
	tasks    taskCreator
	provider Provider
	fallback Fallback
	log      *slog.Logger
}

func NewDecomposer(tasks taskCreator, provider Provider, log *slog.Logger) *Decomposer {
	if log == nil {
		log = slog.Default()
	}
	return &Decomposer{tasks: tasks, provider: provider, log: log}
}

// Result reports the created hierarchy.
type Result struct {
	Parent   *storage.Task  `json:"parent"`
	Subtasks []storage.Task `json:"subtasks"`
	Steps    []string       `json:"steps"`
}

// Decompose creates the parent first so a provider failure still leaves a
// usable task, then attaches one subtask per step. Provider errors degrade to
// the local heuristic, never to the caller.
func (d *Decomposer) Decompose(ctx context.Context, externalID, title string) (*Result, error) {
	parent, err := d.tasks.CreateTask(ctx, engine.CreateTaskInput{
		ExternalID: externalID,
		Title:      title,
		IsParent:   true,
	})
	if err != nil {
		return nil, err
	}

	steps := d.steps(ctx, title)

	res := &Result{Parent: parent, Steps: steps}
	for _, step := range steps {
		sub, err := d.tasks.CreateSubtask(ctx, externalID, parent.ID, step, 0, 0)
		if err != nil {
			return nil, err
		}
		res.Subtasks = append(res.Subtasks, *sub)
	}
	return res, nil
}

func (d *Decomposer) steps(ctx context.Context, title string) []string {
	if d.provider != nil {
		steps, err := d.provider.Decompose(ctx, title)
		if err == nil && len(steps) > 0 {
			return steps
		}
		if err != nil {
			d.log.Warn("provider decomposition failed, using fallback", "title", title, "err", err)
		}
		metrics.DecompositionFallbacks.Inc()
	}
	return FallbackSteps(title)
}
