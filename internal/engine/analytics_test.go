package engine

import (
	"context"
	"testing"
)

func TestUserStatsBuckets(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, c := range []struct {
		title string
		diff  int
	}{
		{"easy one", 1}, {"easy two", 2}, {"medium", 3}, {"hard", 4}, {"harder", 5},
	} {
		if _, err := svc.CreateTask(ctx, CreateTaskInput{
			ExternalID: "max_1", Title: c.title, Difficulty: c.diff,
		}); err != nil {
			t.Fatalf("CreateTask(%q): %v", c.title, err)
		}
	}

	tasks, err := svc.ListTasks(ctx, "max_1", nil)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, "max_1", tasks[0].ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	stats, err := svc.UserStatsFor(ctx, "max_1")
	if err != nil {
		t.Fatalf("UserStatsFor: %v", err)
	}
	if stats.TotalTasks != 5 || stats.CompletedTasks != 1 || stats.PendingTasks != 4 {
		t.Fatalf("counts = %d/%d/%d, want 5/1/4", stats.TotalTasks, stats.CompletedTasks, stats.PendingTasks)
	}
	if stats.CompletionRate != 20.0 {
		t.Fatalf("completion rate = %v, want 20.0", stats.CompletionRate)
	}
	if stats.DifficultyStats["low"] != 2 || stats.DifficultyStats["medium"] != 1 || stats.DifficultyStats["high"] != 2 {
		t.Fatalf("difficulty buckets = %v", stats.DifficultyStats)
	}
}

func TestUserStatsUnknownUser(t *testing.T) {
	svc := newTestService(t)

	stats, err := svc.UserStatsFor(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("UserStatsFor: %v", err)
	}
	if stats != nil {
		t.Fatalf("stats for unknown user: %+v", stats)
	}
}

func TestAnalyzeDayScore(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a := mustCreateTask(t, svc, "max_1", "a")
	b := mustCreateTask(t, svc, "max_1", "b")
	mustCreateTask(t, svc, "max_1", "c")
	for _, id := range []int64{a.ID, b.ID} {
		if _, err := svc.CompleteTask(ctx, "max_1", id); err != nil {
			t.Fatalf("CompleteTask: %v", err)
		}
	}

	// 2 done, 1 pending: score 1, a success verdict.
	res, err := svc.AnalyzeDay(ctx, "max_1")
	if err != nil {
		t.Fatalf("AnalyzeDay: %v", err)
	}
	if res.Stats.Done != 2 || res.Stats.Pending != 1 || res.Stats.Score != 1 {
		t.Fatalf("stats = %+v, want 2/1/1", res.Stats)
	}
	if res.Result != "success" {
		t.Fatalf("result = %q, want success", res.Result)
	}
}

func TestTodayAndDailyStats(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	done := mustCreateTask(t, svc, "max_1", "done today")
	mustCreateTask(t, svc, "max_1", "open today")
	if _, err := svc.CompleteTask(ctx, "max_1", done.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	today, err := svc.TodayStatsFor(ctx, "max_1")
	if err != nil {
		t.Fatalf("TodayStatsFor: %v", err)
	}
	if today.CompletedToday != 1 || today.PendingToday != 1 || today.TotalToday != 2 {
		t.Fatalf("today stats = %+v, want 1/1/2", today)
	}

	daily, err := svc.DailyStats(ctx, "max_1")
	if err != nil {
		t.Fatalf("DailyStats: %v", err)
	}
	// Equal counts means the pep-talk verdict, not a positive one.
	if daily.Analysis.IsPositive {
		t.Fatalf("verdict = %+v, want non-positive at 1/1", daily.Analysis)
	}
}

func TestProductivityStats(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	hard, err := svc.CreateTask(ctx, CreateTaskInput{ExternalID: "max_1", Title: "hard", Difficulty: 4})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := svc.CreateTask(ctx, CreateTaskInput{ExternalID: "max_1", Title: "easy", Difficulty: 1}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := svc.CompleteTask(ctx, "max_1", hard.ID); err != nil {
		t.Fatalf("CompleteTask: %v", err)
	}

	stats, err := svc.ProductivityStatsFor(ctx, "max_1")
	if err != nil {
		t.Fatalf("ProductivityStatsFor: %v", err)
	}
	// 4 of 5 energy completed.
	if stats.ProductivityScore != 80 {
		t.Fatalf("score = %d, want 80", stats.ProductivityScore)
	}
	if stats.Temperature != 5 {
		t.Fatalf("temperature = %d, want 5", stats.Temperature)
	}
	// One completed task created today: streak of one day.
	if stats.Streak != 1 {
		t.Fatalf("streak = %d, want 1", stats.Streak)
	}
}

func TestEnhancedDailyAnalysisEmptyDay(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.ResolveUser(ctx, "max_1", nil); err != nil {
		t.Fatalf("ResolveUser: %v", err)
	}
	res, err := svc.EnhancedDailyAnalysis(ctx, "max_1")
	if err != nil {
		t.Fatalf("EnhancedDailyAnalysis: %v", err)
	}
	if res.Result != "neutral" || res.Stats != nil {
		t.Fatalf("empty day analysis = %+v, want neutral without stats", res)
	}
}

func TestRandomMotivationNonEmpty(t *testing.T) {
	svc := newTestService(t)
	for i := 0; i < 10; i++ {
		if svc.RandomMotivation() == "" {
			t.Fatalf("empty motivation quote")
		}
	}
}
