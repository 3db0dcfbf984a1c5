package goals

import (
	"context"

	"github.com/tgienger/hbt/internal/db"
	"github.com/tgienger/hbt/internal/models"
	"github.com/tgienger/hbt/internal/remote"
	"github.com/tgienger/hbt/internal/stats"
)

// ProgressStep is the increment used by AdjustProgress callers.
const ProgressStep = 10

// idAttempts bounds how often the configured generator may collide before
// falling back to NewLocalID.
const idAttempts = 3

// Create submits a new goal. When the service is unreachable the goal is kept
// locally under a local id and is never synced afterwards.
func (r *Repository) Create(ctx context.Context, draft models.GoalDraft) (Outcome, error) {
	return r.create(ctx, "create", draft)
}

// Edit commits an edited draft through the create flow: the result is a new
// goal with a new identity and the goal the draft was taken from is left as is.
func (r *Repository) Edit(ctx context.Context, draft models.GoalDraft) (Outcome, error) {
	return r.create(ctx, "edit", draft)
}

func (r *Repository) create(ctx context.Context, op string, draft models.GoalDraft) (Outcome, error) {
	draft = draft.Normalize()
	if err := draft.Validate(); err != nil {
		return Outcome{}, err
	}
	ctx = context.WithoutCancel(ctx)

	res := r.gateway.CreateGoal(ctx, draft)
	out := Outcome{Kind: res.Kind, Status: res.Status}

	switch res.Kind {
	case remote.KindOK:
		g := res.Payload
		out.Goal = g
		out.Applied = r.commit(res.Kind, func(goals models.GoalCollection) (models.GoalCollection, bool) {
			if goals.Replace(g) {
				return goals, true
			}
			return append(goals, g), true
		})
	case remote.KindUnreachable:
		out.Applied = r.commit(res.Kind, func(goals models.GoalCollection) (models.GoalCollection, bool) {
			out.Goal = r.synthesize(goals, draft)
			return append(goals, out.Goal), true
		})
	}

	return r.settle(ctx, op, out.Goal.ID, res.Err, out), nil
}

// synthesize builds the local-only goal for an unreachable create.
func (r *Repository) synthesize(goals models.GoalCollection, draft models.GoalDraft) models.Goal {
	id := r.newID()
	for i := 1; goals.Index(id) >= 0; i++ {
		if i < idAttempts {
			id = r.newID()
		} else {
			id = NewLocalID()
		}
	}
	return models.Goal{
		ID:          id,
		Text:        draft.Text,
		Description: draft.Description,
		Type:        draft.Type,
		Category:    draft.Category,
		Priority:    draft.Priority,
		TargetDate:  draft.TargetDate,
		CreatedAt:   models.NewTimestamp(r.now()),
	}
}

// Toggle flips the completion of a goal.
func (r *Repository) Toggle(ctx context.Context, id string) Outcome {
	g, ok := r.Goal(id)
	if !ok {
		return Outcome{}
	}
	return r.SetCompleted(ctx, id, !g.Completed)
}

// SetCompleted marks a goal complete (progress 100) or incomplete (progress 0).
// The copy is computed before the call and applied wholesale on OK or when
// the service is unreachable.
func (r *Repository) SetCompleted(ctx context.Context, id string, completed bool) Outcome {
	g, ok := r.Goal(id)
	if !ok {
		return Outcome{}
	}
	ctx = context.WithoutCancel(ctx)
	optimistic := g.WithCompletion(completed)

	res := r.gateway.SetCompleted(ctx, id, completed)
	out := Outcome{Kind: res.Kind, Status: res.Status, Goal: g}

	if res.Kind == remote.KindOK || res.Kind == remote.KindUnreachable {
		out.Applied = r.commit(res.Kind, func(goals models.GoalCollection) (models.GoalCollection, bool) {
			return goals, goals.Replace(optimistic)
		})
		if out.Applied {
			out.Goal = optimistic
		}
	}

	return r.settle(ctx, "complete", id, res.Err, out)
}

// AdjustProgress moves progress by delta, clamped to 0..100.
func (r *Repository) AdjustProgress(ctx context.Context, id string, delta int) Outcome {
	g, ok := r.Goal(id)
	if !ok {
		return Outcome{}
	}
	return r.SetProgress(ctx, id, g.Progress+delta)
}

// SetProgress sets a goal's progress. The service's goal is authoritative on
// OK; when unreachable the value is applied locally with completed = progress==100.
func (r *Repository) SetProgress(ctx context.Context, id string, progress int) Outcome {
	g, ok := r.Goal(id)
	if !ok {
		return Outcome{}
	}
	ctx = context.WithoutCancel(ctx)
	progress = clampProgress(progress)

	res := r.gateway.SetProgress(ctx, id, progress)
	out := Outcome{Kind: res.Kind, Status: res.Status, Goal: g}

	switch res.Kind {
	case remote.KindOK:
		server := res.Payload
		if server.ID != id {
			r.logger.Warn().Str("goal_id", id).Str("payload_id", server.ID).Msg("progress payload id mismatch, keeping local id")
			server.ID = id
		}
		out.Applied = r.commit(res.Kind, func(goals models.GoalCollection) (models.GoalCollection, bool) {
			return goals, goals.Replace(server)
		})
		if out.Applied {
			out.Goal = server
		}
	case remote.KindUnreachable:
		out.Applied = r.commit(res.Kind, func(goals models.GoalCollection) (models.GoalCollection, bool) {
			current, ok := goals.Find(id)
			if !ok {
				return goals, false
			}
			out.Goal = current.WithProgress(progress)
			return goals, goals.Replace(out.Goal)
		})
	}

	return r.settle(ctx, "progress", id, res.Err, out)
}

// Delete removes a goal. Unknown ids, including already deleted ones, are a no-op.
func (r *Repository) Delete(ctx context.Context, id string) Outcome {
	g, ok := r.Goal(id)
	if !ok {
		return Outcome{}
	}
	ctx = context.WithoutCancel(ctx)

	res := r.gateway.DeleteGoal(ctx, id)
	out := Outcome{Kind: res.Kind, Status: res.Status, Goal: g}

	if res.Kind == remote.KindOK || res.Kind == remote.KindUnreachable {
		out.Applied = r.commit(res.Kind, func(goals models.GoalCollection) (models.GoalCollection, bool) {
			return goals.Without(id)
		})
	}

	return r.settle(ctx, "delete", id, res.Err, out)
}

// commit applies mutate to a copy of the collection and, if it changed, swaps
// it in and writes the snapshot before releasing the lock. Unreachable
// outcomes also recompute stats locally.
func (r *Repository) commit(kind remote.Kind, mutate func(models.GoalCollection) (models.GoalCollection, bool)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	next, changed := mutate(r.goals.Clone())
	if !changed {
		return false
	}
	r.goals = next
	r.metrics.SetGoals(len(next))

	err := r.store.SaveGoals(next)
	r.metrics.RecordSnapshotWrite(db.GoalsKey, err)
	if err != nil {
		r.logger.Error().Err(err).Msg("writing goal snapshot")
	}

	if kind == remote.KindUnreachable {
		r.summary = stats.Local(next)
	}
	return true
}

// settle journals the outcome and refreshes remote stats after an applied OK.
func (r *Repository) settle(ctx context.Context, op, id string, cause error, out Outcome) Outcome {
	r.metrics.RecordReconciliation(op, out.Kind.String(), out.Applied)

	r.logger.Debug().
		Str("op", op).
		Str("goal_id", id).
		Str("outcome", out.Kind.String()).
		Int("status", out.Status).
		Bool("applied", out.Applied).
		Msg("reconciled")

	if r.journal != nil {
		entry := db.Activity{Op: op, GoalID: id, Outcome: out.Kind.String(), Status: out.Status}
		if cause != nil {
			entry.Detail = cause.Error()
		}
		if err := r.journal.RecordActivity(entry); err != nil {
			r.logger.Warn().Err(err).Msg("recording activity")
		}
	}

	if out.Applied && out.Kind == remote.KindOK {
		r.RefreshStats(ctx)
	}
	return out
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
