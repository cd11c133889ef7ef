package engine

import (
	"context"
	"testing"
	"time"
)

func TestCreateTaskStatusFromEstimate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		est  int
		want Status
	}{
		{0, StatusPending},
		{1, StatusQuick},
		{2, StatusQuick},
		{3, StatusPending},
	}
	for _, c := range cases {
		task, err := svc.CreateTask(ctx, CreateTaskInput{
			ExternalID:       "max_1",
			Title:            "t",
			EstimatedMinutes: c.est,
		})
		if err != nil {
			t.Fatalf("CreateTask(est=%d): %v", c.est, err)
		}
		if task.Status != string(c.want) {
			t.Errorf("est=%d: status %q, want %q", c.est, task.Status, c.want)
		}
	}
}

func TestCreateTaskValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateTask(ctx, CreateTaskInput{ExternalID: "max_1", Title: "  "}); !IsValidation(err) {
		t.Fatalf("blank title: got %v, want validation error", err)
	}

	past := time.Now().UTC().AddDate(0, 0, -1)
	if _, err := svc.CreateTask(ctx, CreateTaskInput{ExternalID: "max_1", Title: "t", TaskDate: &past}); !IsValidation(err) {
		t.Fatalf("past date: got %v, want validation error", err)
	}

	today := time.Now().UTC()
	if _, err := svc.CreateTask(ctx, CreateTaskInput{ExternalID: "max_1", Title: "t", TaskDate: &today}); err != nil {
		t.Fatalf("today's date rejected: %v", err)
	}
}

func TestCreateSubtaskRejections(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateSubtask(ctx, "max_1", 999, "child", 0, 0); !IsNotFound(err) {
		t.Fatalf("missing parent: got %v, want not-found", err)
	}

	parent := mustCreateTask(t, svc, "max_1", "parent")
	sub, err := svc.CreateSubtask(ctx, "max_1", parent.ID, "child", 0, 0)
	if err != nil {
		t.Fatalf("CreateSubtask: %v", err)
	}
	if sub.ParentID == nil || *sub.ParentID != parent.ID {
		t.Fatalf("subtask parent = %v, want %d", sub.ParentID, parent.ID)
	}
	if !sub.TaskDate.Equal(parent.TaskDate) {
		t.Fatalf("subtask date %v, want inherited %v", sub.TaskDate, parent.TaskDate)
	}

	// Parent flag is set once children exist.
	got, err := svc.GetTaskByID(ctx, "max_1", parent.ID)
	if err != nil {
		t.Fatalf("GetTaskByID: %v", err)
	}
	if !got.IsParent {
		t.Fatalf("parent flag not set after subtask creation")
	}

	if _, err := svc.CreateSubtask(ctx, "max_1", sub.ID, "grandchild", 0, 0); !IsValidation(err) {
		t.Fatalf("nested subtask: got %v, want validation error", err)
	}

	if _, err := svc.CompleteParentTask(ctx, parent.ID); err != nil {
		t.Fatalf("CompleteParentTask: %v", err)
	}
	if _, err := svc.CreateSubtask(ctx, "max_1", parent.ID, "late child", 0, 0); !IsValidation(err) {
		t.Fatalf("done parent: got %v, want validation error", err)
	}
}

func TestCreateSubtaskOwnerScoped(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	parent := mustCreateTask(t, svc, "max_1", "mine")

	// Another user's parent reads as missing, never as attachable.
	if _, err := svc.CreateSubtask(ctx, "max_2", parent.ID, "intruder", 0, 0); !IsNotFound(err) {
		t.Fatalf("foreign parent: got %v, want not-found", err)
	}

	got, err := svc.GetTaskByID(ctx, "max_1", parent.ID)
	if err != nil {
		t.Fatalf("GetTaskByID: %v", err)
	}
	if got.IsParent {
		t.Fatalf("foreign attempt flipped the parent flag")
	}
	subs, err := svc.ListSubtasks(ctx, "max_1", parent.ID)
	if err != nil {
		t.Fatalf("ListSubtasks: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("foreign subtask attached: %+v", subs)
	}
}

func TestListTasksOrderAndDateFilter(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tomorrow := futureDate(1)
	nextWeek := futureDate(7)

	first := mustCreateTask(t, svc, "max_1", "today task")
	second, err := svc.CreateTask(ctx, CreateTaskInput{ExternalID: "max_1", Title: "tomorrow task", TaskDate: tomorrow})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	third, err := svc.CreateTask(ctx, CreateTaskInput{ExternalID: "max_1", Title: "next week task", TaskDate: nextWeek})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	tasks, err := svc.ListTasks(ctx, "max_1", nil)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(tasks))
	}
	// Newest target date first.
	if tasks[0].ID != third.ID || tasks[1].ID != second.ID || tasks[2].ID != first.ID {
		t.Fatalf("order = %d,%d,%d want %d,%d,%d",
			tasks[0].ID, tasks[1].ID, tasks[2].ID, third.ID, second.ID, first.ID)
	}

	dayTasks, err := svc.ListTasks(ctx, "max_1", tomorrow)
	if err != nil {
		t.Fatalf("ListTasks filtered: %v", err)
	}
	if len(dayTasks) != 1 || dayTasks[0].ID != second.ID {
		t.Fatalf("filtered list = %+v, want only task %d", dayTasks, second.ID)
	}

	ranged, err := svc.ListTasksByDateRange(ctx, "max_1", *tomorrow, *nextWeek)
	if err != nil {
		t.Fatalf("ListTasksByDateRange: %v", err)
	}
	if len(ranged) != 2 {
		t.Fatalf("range list has %d tasks, want 2", len(ranged))
	}
}

func TestListTasksUnknownUser(t *testing.T) {
	svc := newTestService(t)

	tasks, err := svc.ListTasks(context.Background(), "ghost", nil)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if tasks != nil {
		t.Fatalf("got %v, want nil for unknown user", tasks)
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task := mustCreateTask(t, svc, "max_1", "original")

	title := "renamed"
	diff := 4
	got, err := svc.UpdateTask(ctx, "max_1", task.ID, UpdateTaskInput{Title: &title, Difficulty: &diff})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if got.Title != "renamed" || got.Difficulty != 4 {
		t.Fatalf("updated = %+v, want renamed/4", got)
	}
	if got.Status != task.Status || got.EstimatedMinutes != task.EstimatedMinutes {
		t.Fatalf("untouched fields changed: %+v", got)
	}

	past := time.Now().UTC().AddDate(0, 0, -2)
	if _, err := svc.UpdateTask(ctx, "max_1", task.ID, UpdateTaskInput{TaskDate: &past}); !IsValidation(err) {
		t.Fatalf("past date update: got %v, want validation error", err)
	}

	if _, err := svc.UpdateTask(ctx, "max_2", task.ID, UpdateTaskInput{Title: &title}); !IsNotFound(err) {
		t.Fatalf("foreign task update: got %v, want not-found", err)
	}

	bogus := "archived"
	if _, err := svc.UpdateTask(ctx, "max_1", task.ID, UpdateTaskInput{Status: &bogus}); !IsValidation(err) {
		t.Fatalf("unknown status update: got %v, want validation error", err)
	}
}

func TestDeleteTaskCascades(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	parent := mustCreateTask(t, svc, "max_1", "parent")
	sub, err := svc.CreateSubtask(ctx, "max_1", parent.ID, "child", 0, 0)
	if err != nil {
		t.Fatalf("CreateSubtask: %v", err)
	}

	deleted, err := svc.DeleteTask(ctx, "max_1", parent.ID)
	if err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if !deleted {
		t.Fatalf("DeleteTask returned false")
	}

	subs, err := svc.ListSubtasks(ctx, "max_1", parent.ID)
	if err != nil {
		t.Fatalf("ListSubtasks: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("subtasks survived parent delete: %+v", subs)
	}
	got, err := svc.GetTaskByID(ctx, "max_1", sub.ID)
	if err != nil {
		t.Fatalf("GetTaskByID: %v", err)
	}
	if got != nil {
		t.Fatalf("child still present after cascade: %+v", got)
	}
}

func TestGetTaskByIDOwnerScoped(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	task := mustCreateTask(t, svc, "max_1", "mine")

	got, err := svc.GetTaskByID(ctx, "max_2", task.ID)
	if err != nil {
		t.Fatalf("GetTaskByID: %v", err)
	}
	if got != nil {
		t.Fatalf("foreign task visible: %+v", got)
	}
}
