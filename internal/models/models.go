package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// GoalType is the advisory recurrence of a goal
type GoalType string

const (
	Daily   GoalType = "daily"
	Weekly  GoalType = "weekly"
	Monthly GoalType = "monthly"
)

// GoalTypes lists the accepted recurrences in display order
var GoalTypes = []GoalType{Daily, Weekly, Monthly}

// Priority of a goal
type Priority string

const (
	Low    Priority = "low"
	Medium Priority = "medium"
	High   Priority = "high"
)

// Priorities lists the accepted priorities in display order
var Priorities = []Priority{Low, Medium, High}

// DefaultCategory is used when a draft leaves the category blank
const DefaultCategory = "general"

// DateLayout is the calendar date format used for target dates
const DateLayout = "2006-01-02"

// ErrInvalidDraft is returned when a goal draft cannot be submitted
var ErrInvalidDraft = errors.New("invalid goal draft")

// Goal represents a single tracked goal
type Goal struct {
	ID            string     `json:"id"`
	Text          string     `json:"goal"`
	Description   string     `json:"description,omitempty"`
	Type          GoalType   `json:"type"`
	Category      string     `json:"category"`
	Priority      Priority   `json:"priority"`
	TargetDate    string     `json:"target_date,omitempty"`
	Completed     bool       `json:"completed"`
	Progress      int        `json:"progress"`
	Streak        int        `json:"streak"`
	CreatedAt     Timestamp  `json:"created_at"`
	UpdatedAt     *Timestamp `json:"updated_at,omitempty"`
	LastCompleted *Timestamp `json:"last_completed,omitempty"`
}

// WithCompletion returns a copy with completed set and progress pinned to 0 or 100
func (g Goal) WithCompletion(completed bool) Goal {
	g.Completed = completed
	g.Progress = 0
	if completed {
		g.Progress = 100
	}
	return g
}

// WithProgress returns a copy with progress set and completion derived from it
func (g Goal) WithProgress(progress int) Goal {
	g.Progress = progress
	g.Completed = progress == 100
	return g
}

// Draft returns the form content that recreates this goal
func (g Goal) Draft() GoalDraft {
	return GoalDraft{
		Text:        g.Text,
		Description: g.Description,
		Type:        g.Type,
		Category:    g.Category,
		Priority:    g.Priority,
		TargetDate:  g.TargetDate,
	}
}

// GoalDraft is the content of the create/edit goal form
type GoalDraft struct {
	Text        string
	Description string
	Type        GoalType
	Category    string
	Priority    Priority
	TargetDate  string
}

// Normalize trims whitespace and fills defaults
func (d GoalDraft) Normalize() GoalDraft {
	d.Text = strings.TrimSpace(d.Text)
	d.Description = strings.TrimSpace(d.Description)
	d.Category = strings.TrimSpace(d.Category)
	d.TargetDate = strings.TrimSpace(d.TargetDate)
	if d.Type == "" {
		d.Type = Daily
	}
	if d.Category == "" {
		d.Category = DefaultCategory
	}
	if d.Priority == "" {
		d.Priority = Medium
	}
	return d
}

// Validate reports whether the draft can be submitted. Call Normalize first.
func (d GoalDraft) Validate() error {
	if d.Text == "" {
		return fmt.Errorf("%w: goal text is required", ErrInvalidDraft)
	}
	if !validType(d.Type) {
		return fmt.Errorf("%w: unknown goal type %q", ErrInvalidDraft, d.Type)
	}
	if !validPriority(d.Priority) {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidDraft, d.Priority)
	}
	if d.TargetDate != "" {
		if _, err := time.Parse(DateLayout, d.TargetDate); err != nil {
			return fmt.Errorf("%w: target date must be YYYY-MM-DD", ErrInvalidDraft)
		}
	}
	return nil
}

func validType(t GoalType) bool {
	for _, gt := range GoalTypes {
		if gt == t {
			return true
		}
	}
	return false
}

func validPriority(p Priority) bool {
	for _, pr := range Priorities {
		if pr == p {
			return true
		}
	}
	return false
}

// StatsSource tells where a StatsSummary came from
type StatsSource string

const (
	SourceNone   StatsSource = ""
	SourceRemote StatsSource = "remote"
	SourceLocal  StatsSource = "local"
)

// StatsSummary holds the derived goal metrics
type StatsSummary struct {
	TotalGoals      int
	CompletedGoals  int
	CompletionRate  float64
	AverageProgress float64
	TotalStreak     int
	Source          StatsSource
}

// HasDetail reports whether AverageProgress and TotalStreak carry real values.
// Local summaries cannot compute them.
func (s StatsSummary) HasDetail() bool {
	return s.Source == SourceRemote
}

// Role of a transcript message author
type Role string

const (
	RoleUser Role = "user"
	RoleAI   Role = "ai"
)

// Message is one entry of the coaching transcript
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp Timestamp `json:"timestamp"`
}

// timestampLayouts are tried in order. The service emits naive ISO datetimes.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	DateLayout,
}

// Timestamp is a time that tolerates the service's naive ISO format
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t, normalized to UTC
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = NewTimestamp(parsed)
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}
