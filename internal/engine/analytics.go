package engine

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/storage"
)

// quotes backs RandomMotivation.
var quotes = []string{
	"Take one step and the road will appear.",
	"The best time to start is now.",
	"Break the big task into small steps.",
	"Small progress is still progress.",
	"Discipline is doing what needs doing even when you do not feel like it.",
	"Success is the sum of small efforts repeated day after day.",
	"Do not put off until tomorrow what takes two minutes today.",
}

func (s *Service) RandomMotivation() string {
	return quotes[rand.Intn(len(quotes))]
}

// DayAnalysis is the /analyze verdict. Score is completed minus pending over
// the tasks created today; the verdict buckets the score.
type DayAnalysis struct {
	Result string `json:"result"`
	Text   string `json:"text"`
	Stats  struct {
		Done    int `json:"done"`
		Pending int `json:"pending"`
		Score   int `json:"score"`
	} `json:"stats"`
}

// AnalyzeDay scores today's created tasks: done minus pending. Tasks created
// on earlier days never count, whatever their target date.
func (s *Service) AnalyzeDay(ctx context.Context, externalID string) (*DayAnalysis, error) {
	tasks, err := s.ListTasks(ctx, externalID, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var done, pending int
	for _, t := range tasks {
		if !sameUTCDay(t.CreatedAt, now) {
			continue
		}
		if t.Status == string(StatusDone) {
			done++
		} else {
			pending++
		}
	}
	score := done - pending

	a := &DayAnalysis{}
	a.Stats.Done = done
	a.Stats.Pending = pending
	a.Stats.Score = score
	switch {
	case score >= 3:
		a.Result = "success"
		a.Text = fmt.Sprintf("Excellent! %d tasks done today. You are a productivity machine!", done)
	case score >= 1:
		a.Result = "success"
		a.Text = fmt.Sprintf("Good! %d tasks done. Keep it up!", done)
	case score == 0:
		a.Result = "neutral"
		a.Text = fmt.Sprintf("Okay. %d done, %d still pending. Tomorrow will be better!", done, pending)
	default:
		a.Result = "fail"
		a.Text = fmt.Sprintf("Hmm... %d done but %d left undone. Start small!", done, pending)
	}
	return a, nil
}

// UserStats is the all-time snapshot for a user.
type UserStats struct {
	UserID          string         `json:"user_id"`
	Name            *string        `json:"name"`
	Energy          int            `json:"energy"`
	Level           int            `json:"level"`
	TotalTasks      int            `json:"total_tasks"`
	CompletedTasks  int            `json:"completed_tasks"`
	PendingTasks    int            `json:"pending_tasks"`
	CompletionRate  float64        `json:"completion_rate"`
	DifficultyStats map[string]int `json:"difficulty_stats"`
}

// UserStatsFor buckets difficulty as low (<=2), medium (3), high (>=4) and
// reports the completion rate to one decimal place. Nil for an unknown user.
func (s *Service) UserStatsFor(ctx context.Context, externalID string) (*UserStats, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	tasks, err := s.tasks.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	st := &UserStats{
		UserID:          user.ExternalID,
		Name:            user.Name,
		Energy:          user.Energy,
		Level:           user.Level,
		TotalTasks:      len(tasks),
		DifficultyStats: map[string]int{"high": 0, "medium": 0, "low": 0},
	}
	for _, t := range tasks {
		if t.Status == string(StatusDone) {
			st.CompletedTasks++
		} else {
			st.PendingTasks++
		}
		switch {
		case t.Difficulty >= 4:
			st.DifficultyStats["high"]++
		case t.Difficulty == 3:
			st.DifficultyStats["medium"]++
		default:
			st.DifficultyStats["low"]++
		}
	}
	if st.TotalTasks > 0 {
		st.CompletionRate = round1(float64(st.CompletedTasks) / float64(st.TotalTasks) * 100)
	}
	return st, nil
}

// TodayStats counts tasks created today by completion.
type TodayStats struct {
	CompletedToday int `json:"completed_today"`
	PendingToday   int `json:"pending_today"`
	TotalToday     int `json:"total_today"`
}

func (s *Service) TodayStatsFor(ctx context.Context, externalID string) (*TodayStats, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	tasks, err := s.tasks.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	st := &TodayStats{}
	for _, t := range tasks {
		if !sameUTCDay(t.CreatedAt, now) {
			continue
		}
		st.TotalToday++
		if t.Status == string(StatusDone) {
			st.CompletedToday++
		} else {
			st.PendingToday++
		}
	}
	return st, nil
}

// DailyVerdict pairs today's counts with a one-line verdict for the web UI.
type DailyVerdict struct {
	CompletedToday int `json:"completed_today"`
	PendingToday   int `json:"pending_today"`
	TotalToday     int `json:"total_today"`
	Analysis       struct {
		Message    string `json:"message"`
		Emoji      string `json:"emoji"`
		IsPositive bool   `json:"is_positive"`
	} `json:"analysis"`
}

func (s *Service) DailyStats(ctx context.Context, externalID string) (*DailyVerdict, error) {
	today, err := s.TodayStatsFor(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if today == nil {
		return nil, nil
	}

	v := &DailyVerdict{
		CompletedToday: today.CompletedToday,
		PendingToday:   today.PendingToday,
		TotalToday:     today.TotalToday,
	}
	switch {
	case today.TotalToday == 0:
		v.Analysis.Message = "No tasks yet today. Start with something small!"
		v.Analysis.Emoji = "🤔"
	case today.CompletedToday >= today.PendingToday*2:
		v.Analysis.Message = "Great work! You are a productivity machine today!"
		v.Analysis.Emoji = "🎉"
		v.Analysis.IsPositive = true
	case today.CompletedToday > today.PendingToday:
		v.Analysis.Message = "Good day! Keep it up!"
		v.Analysis.Emoji = "👍"
		v.Analysis.IsPositive = true
	default:
		v.Analysis.Message = "More unfinished tasks than finished ones. Pull yourself together!"
		v.Analysis.Emoji = "💀"
	}
	return v, nil
}

// ProductivityStats is the difficulty-weighted all-time view with the
// temperature tier and the consecutive-day completion streak.
type ProductivityStats struct {
	CompletedTasks    int    `json:"completed_tasks"`
	PendingTasks      int    `json:"pending_tasks"`
	CompletionRate    int    `json:"completion_rate"`
	ProductivityScore int    `json:"productivity_score"`
	Temperature       int    `json:"temperature"`
	TemperatureLabel  string `json:"temperature_label"`
	Streak            int    `json:"streak"`
	TotalTasks        int    `json:"total_tasks"`
}

// ProductivityStatsFor weights each task by its difficulty: the score is
// completed energy over total energy. The streak counts consecutive UTC days
// ending today on which at least one completed task was created.
func (s *Service) ProductivityStatsFor(ctx context.Context, externalID string) (*ProductivityStats, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	tasks, err := s.tasks.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	st := &ProductivityStats{TotalTasks: len(tasks)}
	totalEnergy, completedEnergy := 0, 0
	var completedDays []time.Time
	seen := map[time.Time]bool{}
	for _, t := range tasks {
		totalEnergy += t.Difficulty
		if t.Status == string(StatusDone) {
			st.CompletedTasks++
			completedEnergy += t.Difficulty
			day := truncateDay(t.CreatedAt)
			if !seen[day] {
				seen[day] = true
				completedDays = append(completedDays, day)
			}
		} else {
			st.PendingTasks++
		}
	}

	if len(tasks) > 0 {
		st.CompletionRate = int(math.Round(float64(st.CompletedTasks) / float64(len(tasks)) * 100))
	}
	if totalEnergy > 0 {
		st.ProductivityScore = int(math.Round(float64(completedEnergy) / float64(totalEnergy) * 100))
	}

	switch {
	case st.ProductivityScore >= 80:
		st.Temperature, st.TemperatureLabel = 5, "🔥 Red-hot perfectionist!"
	case st.ProductivityScore >= 60:
		st.Temperature, st.TemperatureLabel = 4, "😎 Warm professional"
	case st.ProductivityScore >= 40:
		st.Temperature, st.TemperatureLabel = 3, "😊 Steady worker"
	case st.ProductivityScore >= 20:
		st.Temperature, st.TemperatureLabel = 2, "🤔 Warming up"
	default:
		st.Temperature, st.TemperatureLabel = 1, "❄️ Cooled down"
	}

	sort.Slice(completedDays, func(i, j int) bool { return completedDays[i].After(completedDays[j]) })
	today := truncateDay(time.Now().UTC())
	for i, day := range completedDays {
		if int(today.Sub(day).Hours()/24) == i {
			st.Streak++
		} else {
			break
		}
	}
	return st, nil
}

// EnhancedAnalysis is the richer bot-side verdict over today's created tasks.
type EnhancedAnalysis struct {
	Result         string `json:"result"`
	Text           string `json:"text"`
	Recommendation string `json:"recommendation"`
	Emoji          string `json:"emoji"`
	Stats          *struct {
		Completed       int     `json:"completed"`
		Pending         int     `json:"pending"`
		Total           int     `json:"total"`
		CompletionRatio int     `json:"completion_ratio"`
		AvgDifficulty   float64 `json:"avg_difficulty"`
	} `json:"stats,omitempty"`
}

// EnhancedDailyAnalysis grades today's completion ratio and nudges toward
// decomposition when hard tasks are piling up unfinished.
func (s *Service) EnhancedDailyAnalysis(ctx context.Context, externalID string) (*EnhancedAnalysis, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	tasks, err := s.tasks.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	var today []storage.Task
	for _, t := range tasks {
		if sameUTCDay(t.CreatedAt, now) {
			today = append(today, t)
		}
	}

	if len(today) == 0 {
		return &EnhancedAnalysis{
			Result:         "neutral",
			Text:           "📝 No tasks yet today. Start with one small step!",
			Recommendation: "Try adding a quick two-minute task.",
			Emoji:          "🤔",
		}, nil
	}

	completed := 0
	difficultySum := 0
	for _, t := range today {
		difficultySum += t.Difficulty
		if t.Status == string(StatusDone) {
			completed++
		}
	}
	ratio := float64(completed) / float64(len(today))
	avgDifficulty := float64(difficultySum) / float64(len(today))

	a := &EnhancedAnalysis{}
	switch {
	case ratio >= 0.8:
		a.Result = "success"
		a.Emoji = "🎉"
		a.Text = fmt.Sprintf("Excellent! %d of %d tasks done!", completed, len(today))
		a.Recommendation = "You are on fire today! Take on something hard."
	case ratio >= 0.5:
		a.Result = "success"
		a.Emoji = "👍"
		a.Text = fmt.Sprintf("Good! %d of %d tasks done.", completed, len(today))
		a.Recommendation = "Keep going! You are close to a great result."
	case ratio > 0:
		a.Result = "neutral"
		a.Emoji = "💪"
		a.Text = fmt.Sprintf("Not bad, but you can do better. %d of %d done.", completed, len(today))
		a.Recommendation = "Focus on one task at a time. Try a Pomodoro timer!"
	default:
		a.Result = "fail"
		a.Emoji = "💀"
		a.Text = fmt.Sprintf("0 of %d tasks done. Pull yourself together!", len(today))
		a.Recommendation = "Start with the easiest task. Even two minutes of work is progress!"
	}
	if avgDifficulty > 3 && ratio < 0.5 {
		a.Recommendation += " Tasks too hard? Break them down with /decompose"
	}

	a.Stats = &struct {
		Completed       int     `json:"completed"`
		Pending         int     `json:"pending"`
		Total           int     `json:"total"`
		CompletionRatio int     `json:"completion_ratio"`
		AvgDifficulty   float64 `json:"avg_difficulty"`
	}{
		Completed:       completed,
		Pending:         len(today) - completed,
		Total:           len(today),
		CompletionRatio: int(math.Round(ratio * 100)),
		AvgDifficulty:   round1(avgDifficulty),
	}
	return a, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
