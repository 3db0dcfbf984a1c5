package remote

import "github.com/tgienger/hbt/internal/models"

// CreateGoalRequest is the request body for POST /goals.
type CreateGoalRequest struct {
	Goal        string  `json:"goal"`
	GoalType    string  `json:"goal_type"`
	Category    string  `json:"category"`
	Priority    string  `json:"priority"`
	TargetDate  *string `json:"target_date"`
	Description *string `json:"description"`
}

// CompletionRequest is the request body for PUT /goals/{id}.
type CompletionRequest struct {
	GoalID    string `json:"goal_id"`
	Completed bool   `json:"completed"`
}

// ProgressRequest is the request body for PUT /goals/{id}/progress.
type ProgressRequest struct {
	GoalID   string `json:"goal_id"`
	Progress int    `json:"progress"`
}

// HistoryItem is one prior transcript turn sent to the coach.
type HistoryItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CoachRequest is the request body for POST /coach.
type CoachRequest struct {
	Message             string        `json:"message"`
	ConversationHistory []HistoryItem `json:"conversation_history"`
}

// GoalResponse wraps a single goal.
type GoalResponse struct {
	Success bool         `json:"success"`
	Goal    *models.Goal `json:"goal"`
}

func (r *GoalResponse) succeeded() bool { return r.Success && r.Goal != nil }

// StatsResponse is the body of GET /goals/stats.
type StatsResponse struct {
	Success         bool    `json:"success"`
	TotalGoals      int     `json:"total_goals"`
	CompletedGoals  int     `json:"completed_goals"`
	CompletionRate  float64 `json:"completion_rate"`
	AverageProgress float64 `json:"average_progress"`
	TotalStreak     int     `json:"total_streak"`
}

func (r *StatsResponse) succeeded() bool { return r.Success }

// Summary converts the response into a remote-sourced summary.
func (r *StatsResponse) Summary() models.StatsSummary {
	return models.StatsSummary{
		TotalGoals:      r.TotalGoals,
		CompletedGoals:  r.CompletedGoals,
		CompletionRate:  r.CompletionRate,
		AverageProgress: r.AverageProgress,
		TotalStreak:     r.TotalStreak,
		Source:          models.SourceRemote,
	}
}

// MotivationResponse is the body of GET /motivation.
type MotivationResponse struct {
	Success  bool   `json:"success"`
	Quote    string `json:"quote"`
	Fallback bool   `json:"fallback,omitempty"`
}

func (r *MotivationResponse) succeeded() bool { return r.Success }

// CoachResponse is the body of POST /coach.
type CoachResponse struct {
	Success  bool   `json:"success"`
	Reply    string `json:"reply"`
	Fallback bool   `json:"fallback,omitempty"`
}

func (r *CoachResponse) succeeded() bool { return r.Success }

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
