package engine

import (
	"context"
	"testing"
)

func TestCompleteTaskDoesNotCascade(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	parent := mustCreateTask(t, svc, "max_1", "parent")
	sub, err := svc.CreateSubtask(ctx, "max_1", parent.ID, "child", 0, 0)
	if err != nil {
		t.Fatalf("CreateSubtask: %v", err)
	}

	rec, err := svc.CompleteTask(ctx, "max_1", sub.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if rec == nil || rec.Status != string(StatusDone) {
		t.Fatalf("record = %+v, want done", rec)
	}

	// The parent stays open even at 100% subtask completion.
	p, err := svc.GetTaskByID(ctx, "max_1", parent.ID)
	if err != nil {
		t.Fatalf("GetTaskByID: %v", err)
	}
	if p.Status == string(StatusDone) {
		t.Fatalf("subtask completion cascaded to parent")
	}

	progress, err := svc.TaskProgress(ctx, parent.ID)
	if err != nil {
		t.Fatalf("TaskProgress: %v", err)
	}
	if progress.Completed != 1 || progress.Total != 1 || progress.Percent != 100 {
		t.Fatalf("progress = %+v, want 1/1 100%%", progress)
	}
}

func TestCompleteTaskOwnerScoped(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task := mustCreateTask(t, svc, "max_1", "mine")

	rec, err := svc.CompleteTask(ctx, "max_2", task.ID)
	if err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}
	if rec != nil {
		t.Fatalf("foreign task completed: %+v", rec)
	}
}

func TestCompleteSubtaskPairMismatch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	parentA := mustCreateTask(t, svc, "max_1", "parent a")
	parentB := mustCreateTask(t, svc, "max_1", "parent b")
	sub, err := svc.CreateSubtask(ctx, "max_1", parentA.ID, "child", 0, 0)
	if err != nil {
		t.Fatalf("CreateSubtask: %v", err)
	}

	rec, err := svc.CompleteSubtask(ctx, "max_1", parentB.ID, sub.ID)
	if err != nil {
		t.Fatalf("CompleteSubtask: %v", err)
	}
	if rec != nil {
		t.Fatalf("mismatched pair completed: %+v", rec)
	}

	rec, err = svc.CompleteSubtask(ctx, "max_1", parentA.ID, sub.ID)
	if err != nil {
		t.Fatalf("CompleteSubtask: %v", err)
	}
	if rec == nil || rec.ID != sub.ID {
		t.Fatalf("record = %+v, want subtask %d", rec, sub.ID)
	}
}

func TestCompleteParentTaskCascades(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	parent := mustCreateTask(t, svc, "max_1", "parent")
	for _, title := range []string{"a", "b", "c"} {
		if _, err := svc.CreateSubtask(ctx, "max_1", parent.ID, title, 0, 0); err != nil {
			t.Fatalf("CreateSubtask(%q): %v", title, err)
		}
	}

	rec, err := svc.CompleteParentTask(ctx, parent.ID)
	if err != nil {
		t.Fatalf("CompleteParentTask: %v", err)
	}
	if rec.SubtasksCompleted != 3 {
		t.Fatalf("subtasks completed = %d, want 3", rec.SubtasksCompleted)
	}

	subs, err := svc.ListSubtasks(ctx, "max_1", parent.ID)
	if err != nil {
		t.Fatalf("ListSubtasks: %v", err)
	}
	for _, s := range subs {
		if s.Status != string(StatusDone) {
			t.Fatalf("subtask %d status %q, want done", s.ID, s.Status)
		}
	}
}

func TestTaskProgressShortCircuit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	// A childless parent marked done reports 1/1 100, never 0/0.
	solo := mustCreateTask(t, svc, "max_1", "solo")
	if _, err := svc.CompleteParentTask(ctx, solo.ID); err != nil {
		t.Fatalf("CompleteParentTask: %v", err)
	}
	progress, err := svc.TaskProgress(ctx, solo.ID)
	if err != nil {
		t.Fatalf("TaskProgress: %v", err)
	}
	if progress.Completed != 1 || progress.Total != 1 || progress.Percent != 100 {
		t.Fatalf("childless done progress = %+v, want 1/1 100%%", progress)
	}

	// A done parent overrides uncounted children.
	parent := mustCreateTask(t, svc, "max_1", "parent")
	if _, err := svc.CreateSubtask(ctx, "max_1", parent.ID, "a", 0, 0); err != nil {
		t.Fatalf("CreateSubtask: %v", err)
	}
	if _, err := svc.CreateSubtask(ctx, "max_1", parent.ID, "b", 0, 0); err != nil {
		t.Fatalf("CreateSubtask: %v", err)
	}
	if err := svc.tasks.SetStatus(ctx, parent.ID, string(StatusDone)); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	progress, err = svc.TaskProgress(ctx, parent.ID)
	if err != nil {
		t.Fatalf("TaskProgress: %v", err)
	}
	if progress.Completed != 2 || progress.Total != 2 || progress.Percent != 100 {
		t.Fatalf("done parent progress = %+v, want 2/2 100%%", progress)
	}
}

func TestTaskProgressNoChildrenNotDone(t *testing.T) {
	svc := newTestService(t)

	task := mustCreateTask(t, svc, "max_1", "plain")
	progress, err := svc.TaskProgress(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("TaskProgress: %v", err)
	}
	if progress != (Progress{}) {
		t.Fatalf("progress = %+v, want zero", progress)
	}
}
