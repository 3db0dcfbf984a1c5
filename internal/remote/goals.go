package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tgienger/hbt/internal/models"
)

// CreateGoal submits a new goal. The OK payload carries the server-assigned id.
func (c *Client) CreateGoal(ctx context.Context, draft models.GoalDraft) Result[models.Goal] {
	req := CreateGoalRequest{
		Goal:        draft.Text,
		GoalType:    string(draft.Type),
		Category:    draft.Category,
		Priority:    string(draft.Priority),
		TargetDate:  nullable(draft.TargetDate),
		Description: nullable(draft.Description),
	}
	var resp GoalResponse
	status, kind, err := c.exchange(ctx, "create", http.MethodPost, "/goals", req, &resp)
	if kind != KindOK {
		return result(status, kind, err, models.Goal{})
	}
	return OK(status, *resp.Goal)
}

// SetCompleted marks a goal complete or incomplete. Only the status is used.
func (c *Client) SetCompleted(ctx context.Context, id string, completed bool) Result[struct{}] {
	req := CompletionRequest{GoalID: id, Completed: completed}
	status, kind, err := c.exchange(ctx, "complete", http.MethodPut, "/goals/"+url.PathEscape(id), req, nil)
	return result(status, kind, err, struct{}{})
}

// SetProgress updates a goal's progress. The OK payload is the server's goal.
func (c *Client) SetProgress(ctx context.Context, id string, progress int) Result[models.Goal] {
	req := ProgressRequest{GoalID: id, Progress: progress}
	var resp GoalResponse
	status, kind, err := c.exchange(ctx, "progress", http.MethodPut, "/goals/"+url.PathEscape(id)+"/progress", req, &resp)
	if kind != KindOK {
		return result(status, kind, err, models.Goal{})
	}
	return OK(status, *resp.Goal)
}

// DeleteGoal removes a goal. Only the status is used.
func (c *Client) DeleteGoal(ctx context.Context, id string) Result[struct{}] {
	status, kind, err := c.exchange(ctx, "delete", http.MethodDelete, "/goals/"+url.PathEscape(id), nil, nil)
	return result(status, kind, err, struct{}{})
}

// FetchStats queries the service-side summary.
func (c *Client) FetchStats(ctx context.Context) Result[models.StatsSummary] {
	var resp StatsResponse
	status, kind, err := c.exchange(ctx, "stats", http.MethodGet, "/goals/stats", nil, &resp)
	if kind != KindOK {
		return result(status, kind, err, models.StatsSummary{})
	}
	return OK(status, resp.Summary())
}

// FetchMotivation returns a motivational line.
func (c *Client) FetchMotivation(ctx context.Context) Result[string] {
	var resp MotivationResponse
	status, kind, err := c.exchange(ctx, "motivation", http.MethodGet, "/motivation", nil, &resp)
	return result(status, kind, err, resp.Quote)
}

// Coach sends a chat message with the prior conversation and returns the reply.
func (c *Client) Coach(ctx context.Context, message string, history []HistoryItem) Result[string] {
	if history == nil {
		history = []HistoryItem{}
	}
	req := CoachRequest{Message: message, ConversationHistory: history}
	var resp CoachResponse
	status, kind, err := c.exchange(ctx, "coach", http.MethodPost, "/coach", req, &resp)
	return result(status, kind, err, resp.Reply)
}
