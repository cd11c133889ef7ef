package engine

import (
	"context"
	"strings"
	"time"

	"github.com/heitonbg/WebServiceWithChatBotForMaxHack/internal/storage"
)

const (
	DefaultProjectColor = "#3b82f6"
	DefaultColumnColor  = "#6b7280"
	DefaultCardColor    = "#ffffff"
)

// defaultColumns seed every new project at positions 0, 1, 2.
var defaultColumns = []storage.SeedColumn{
	{Title: "Backlog", Color: "#6b7280", Position: 0},
	{Title: "In Progress", Color: "#f59e0b", Position: 1},
	{Title: "Done", Color: "#10b981", Position: 2},
}

type CreateProjectInput struct {
	ExternalID  string
	Title       string
	Description *string
	Color       string
}

func (s *Service) CreateProject(ctx context.Context, in CreateProjectInput) (*storage.Project, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ValidationError{Msg: "title is required"}
	}
	user, err := s.LookupUser(ctx, in.ExternalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFoundError{Resource: "user"}
	}
	color := in.Color
	if color == "" {
		color = DefaultProjectColor
	}
	id, err := s.projects.InsertWithColumns(ctx, storage.ProjectInsert{
		UserID:      user.ID,
		Title:       title,
		Description: in.Description,
		Color:       color,
	}, defaultColumns)
	if err != nil {
		return nil, err
	}
	return s.projects.GetForUser(ctx, id, user.ID)
}

// CreateColumn appends a column at max(position)+1 within the project.
func (s *Service) CreateColumn(ctx context.Context, externalID string, projectID int64, title, color string) (*storage.BoardColumn, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFoundError{Resource: "user"}
	}
	project, err := s.projects.GetForUser(ctx, projectID, user.ID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, NotFoundError{Resource: "project"}
	}
	maxPos, err := s.columns.MaxPosition(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if color == "" {
		color = DefaultColumnColor
	}
	id, err := s.columns.Insert(ctx, storage.ColumnInsert{
		ProjectID: projectID,
		Title:     title,
		Position:  maxPos + 1,
		Color:     color,
	})
	if err != nil {
		return nil, err
	}
	return s.columns.Get(ctx, id)
}

type CreateCardInput struct {
	ExternalID       string
	ColumnID         int64
	Title            string
	Description      *string
	Color            string
	Tags             []string
	DueDate          *time.Time
	EstimatedMinutes int
	Priority         int
}

func (s *Service) CreateCard(ctx context.Context, in CreateCardInput) (*storage.BoardCard, error) {
	user, err := s.LookupUser(ctx, in.ExternalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFoundError{Resource: "user"}
	}
	column, err := s.columns.GetForUser(ctx, in.ColumnID, user.ID)
	if err != nil {
		return nil, err
	}
	if column == nil {
		return nil, NotFoundError{Resource: "column"}
	}
	maxPos, err := s.cards.MaxPosition(ctx, in.ColumnID)
	if err != nil {
		return nil, err
	}
	color := in.Color
	if color == "" {
		color = DefaultCardColor
	}
	priority := in.Priority
	if priority == 0 {
		priority = 1
	}
	id, err := s.cards.Insert(ctx, storage.CardInsert{
		ColumnID:         in.ColumnID,
		Title:            in.Title,
		Description:      in.Description,
		Position:         maxPos + 1,
		Color:            color,
		Tags:             JoinTags(in.Tags),
		DueDate:          in.DueDate,
		EstimatedMinutes: in.EstimatedMinutes,
		Priority:         priority,
	})
	if err != nil {
		return nil, err
	}
	return s.cards.Get(ctx, id)
}

// UpdateCardInput is a partial card update; Tags non-nil replaces the whole
// tag set.
type UpdateCardInput struct {
	Title            *string
	Description      *string
	Color            *string
	Tags             []string
	DueDate          *time.Time
	EstimatedMinutes *int
	Priority         *int
	ColumnID         *int64
	Position         *int
}

func (s *Service) UpdateCard(ctx context.Context, externalID string, cardID int64, upd UpdateCardInput) (*storage.BoardCard, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFoundError{Resource: "user"}
	}
	card, err := s.cards.GetForUser(ctx, cardID, user.ID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, NotFoundError{Resource: "card"}
	}

	if upd.Title != nil {
		card.Title = *upd.Title
	}
	if upd.Description != nil {
		card.Description = upd.Description
	}
	if upd.Color != nil {
		card.Color = *upd.Color
	}
	if upd.Tags != nil {
		card.Tags = JoinTags(upd.Tags)
	}
	if upd.DueDate != nil {
		card.DueDate = upd.DueDate
	}
	if upd.EstimatedMinutes != nil {
		card.EstimatedMinutes = *upd.EstimatedMinutes
	}
	if upd.Priority != nil {
		card.Priority = *upd.Priority
	}
	if upd.ColumnID != nil {
		target, err := s.columns.GetForUser(ctx, *upd.ColumnID, user.ID)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, NotFoundError{Resource: "column"}
		}
		card.ColumnID = *upd.ColumnID
	}
	if upd.Position != nil {
		card.Position = *upd.Position
	}

	if err := s.cards.Update(ctx, card); err != nil {
		return nil, err
	}
	return s.cards.Get(ctx, card.ID)
}

func (s *Service) UpdateColumn(ctx context.Context, externalID string, columnID int64, title, color *string) (*storage.BoardColumn, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFoundError{Resource: "user"}
	}
	column, err := s.columns.GetForUser(ctx, columnID, user.ID)
	if err != nil {
		return nil, err
	}
	if column == nil {
		return nil, NotFoundError{Resource: "column"}
	}
	if title != nil {
		column.Title = *title
	}
	if color != nil {
		column.Color = *color
	}
	if err := s.columns.Update(ctx, column); err != nil {
		return nil, err
	}
	return s.columns.Get(ctx, columnID)
}

func (s *Service) UpdateProject(ctx context.Context, externalID string, projectID int64, title, description, color *string) (*storage.Project, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFoundError{Resource: "user"}
	}
	project, err := s.projects.GetForUser(ctx, projectID, user.ID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, NotFoundError{Resource: "project"}
	}
	if title != nil {
		project.Title = *title
	}
	if description != nil {
		project.Description = description
	}
	if color != nil {
		project.Color = *color
	}
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return s.projects.GetForUser(ctx, projectID, user.ID)
}

// ReorderEntry names a column or card and its new position; card entries may
// also name a target column for a cross-column move.
type ReorderEntry struct {
	ID       int64  `json:"id"`
	Position int    `json:"position"`
	ColumnID *int64 `json:"column_id,omitempty"`
}

// ReorderColumns overwrites positions for the listed columns. Entries naming
// columns outside the project are silently skipped; positions are advisory
// display order, not a dense index.
func (s *Service) ReorderColumns(ctx context.Context, externalID string, projectID int64, entries []ReorderEntry) error {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return err
	}
	if user == nil {
		return NotFoundError{Resource: "user"}
	}
	project, err := s.projects.GetForUser(ctx, projectID, user.ID)
	if err != nil {
		return err
	}
	if project == nil {
		return NotFoundError{Resource: "project"}
	}
	for _, e := range entries {
		if err := s.columns.SetPosition(ctx, e.ID, projectID, e.Position); err != nil {
			return err
		}
	}
	return nil
}

// ReorderCards sets positions (and optionally moves cards across columns
// owned by the same user). Entries failing ownership checks are skipped
// without surfacing a partial-application error.
func (s *Service) ReorderCards(ctx context.Context, externalID string, columnID int64, entries []ReorderEntry) error {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return err
	}
	if user == nil {
		return NotFoundError{Resource: "user"}
	}
	column, err := s.columns.GetForUser(ctx, columnID, user.ID)
	if err != nil {
		return err
	}
	if column == nil {
		return NotFoundError{Resource: "column"}
	}
	for _, e := range entries {
		card, err := s.cards.GetForUser(ctx, e.ID, user.ID)
		if err != nil {
			return err
		}
		if card == nil {
			continue
		}
		if err := s.cards.SetPosition(ctx, e.ID, e.Position); err != nil {
			return err
		}
		if e.ColumnID != nil && *e.ColumnID != columnID {
			target, err := s.columns.GetForUser(ctx, *e.ColumnID, user.ID)
			if err != nil {
				return err
			}
			if target == nil {
				continue
			}
			if err := s.cards.Move(ctx, e.ID, *e.ColumnID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) DeleteColumn(ctx context.Context, externalID string, columnID int64) (bool, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	column, err := s.columns.GetForUser(ctx, columnID, user.ID)
	if err != nil {
		return false, err
	}
	if column == nil {
		return false, nil
	}
	if err := s.columns.DeleteWithCards(ctx, columnID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) DeleteProject(ctx context.Context, externalID string, projectID int64) (bool, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return s.projects.Delete(ctx, projectID, user.ID)
}

func (s *Service) DeleteCard(ctx context.Context, externalID string, cardID int64) (bool, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	card, err := s.cards.GetForUser(ctx, cardID, user.ID)
	if err != nil {
		return false, err
	}
	if card == nil {
		return false, nil
	}
	if err := s.cards.Delete(ctx, cardID); err != nil {
		return false, err
	}
	return true, nil
}

// CardView is a card with its tag string decoded for transport.
type CardView struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Description      *string    `json:"description"`
	Color            string     `json:"color"`
	Tags             []string   `json:"tags"`
	DueDate          *time.Time `json:"due_date"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	Priority         int        `json:"priority"`
	Position         int        `json:"position"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type ColumnView struct {
	ID       int64      `json:"id"`
	Title    string     `json:"title"`
	Color    string     `json:"color"`
	Position int        `json:"position"`
	Cards    []CardView `json:"cards"`
}

type ProjectView struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	Color       string       `json:"color"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Columns     []ColumnView `json:"columns"`
}

// ProjectDetails assembles the full board: columns by position, cards by
// position within each column.
func (s *Service) ProjectDetails(ctx context.Context, externalID string, projectID int64) (*ProjectView, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	project, err := s.projects.GetForUser(ctx, projectID, user.ID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}

	columns, err := s.columns.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	view := &ProjectView{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		Color:       project.Color,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
		Columns:     []ColumnView{},
	}
	for _, col := range columns {
		cards, err := s.cards.ListByColumn(ctx, col.ID)
		if err != nil {
			return nil, err
		}
		cv := ColumnView{
			ID:       col.ID,
			Title:    col.Title,
			Color:    col.Color,
			Position: col.Position,
			Cards:    []CardView{},
		}
		for _, card := range cards {
			cv.Cards = append(cv.Cards, NewCardView(&card))
		}
		view.Columns = append(view.Columns, cv)
	}
	return view, nil
}

// ListProjectViews returns every board of the user with full details.
func (s *Service) ListProjectViews(ctx context.Context, externalID string) ([]ProjectView, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	projects, err := s.projects.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	out := []ProjectView{}
	for _, p := range projects {
		view, err := s.ProjectDetails(ctx, externalID, p.ID)
		if err != nil {
			return nil, err
		}
		if view != nil {
			out = append(out, *view)
		}
	}
	return out, nil
}

// ProjectStats aggregates the board's cards by priority and column.
type ProjectStats struct {
	ProjectID           int64          `json:"project_id"`
	TotalCards          int            `json:"total_cards"`
	PriorityStats       map[int]int    `json:"priority_stats"`
	ColumnStats         map[string]int `json:"column_stats"`
	TotalEstimatedMin   int            `json:"total_estimated_minutes"`
	TotalEstimatedHours float64        `json:"total_estimated_hours"`
}

func (s *Service) ProjectStatsFor(ctx context.Context, externalID string, projectID int64) (*ProjectStats, error) {
	user, err := s.LookupUser(ctx, externalID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, NotFoundError{Resource: "user"}
	}
	project, err := s.projects.GetForUser(ctx, projectID, user.ID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, NotFoundError{Resource: "project"}
	}

	cards, err := s.cards.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	columns, err := s.columns.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	stats := &ProjectStats{
		ProjectID:     projectID,
		TotalCards:    len(cards),
		PriorityStats: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
		ColumnStats:   map[string]int{},
	}
	for _, c := range cards {
		if c.Priority >= 1 && c.Priority <= 5 {
			stats.PriorityStats[c.Priority]++
		}
		stats.TotalEstimatedMin += c.EstimatedMinutes
	}
	for _, col := range columns {
		cards, err := s.cards.ListByColumn(ctx, col.ID)
		if err != nil {
			return nil, err
		}
		stats.ColumnStats[col.Title] = len(cards)
	}
	stats.TotalEstimatedHours = round1(float64(stats.TotalEstimatedMin) / 60)
	return stats, nil
}

// NewCardView decodes the stored tag string into a list. Tags are joined with
// bare commas on write, so a tag containing a comma does not survive the
// round trip.
func NewCardView(c *storage.BoardCard) CardView {
	return CardView{
		ID:               c.ID,
		Title:            c.Title,
		Description:      c.Description,
		Color:            c.Color,
		Tags:             SplitTags(c.Tags),
		DueDate:          c.DueDate,
		EstimatedMinutes: c.EstimatedMinutes,
		Priority:         c.Priority,
		Position:         c.Position,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func JoinTags(tags []string) *string {
	if len(tags) == 0 {
		return nil
	}
	joined := strings.Join(tags, ",")
	return &joined
}

func SplitTags(s *string) []string {
	if s == nil || *s == "" {
		return []string{}
	}
	return strings.Split(*s, ",")
}
