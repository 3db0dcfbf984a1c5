// Package goals owns the canonical goal collection. Every mutation issues one
// gateway call and reconciles its outcome into local state:
//
//	op            ok                     rejected    unreachable
//	create        append server goal     no change   append local goal
//	setCompleted  apply optimistic copy  no change   apply optimistic copy
//	setProgress   apply server goal      no change   apply progress locally
//	delete        remove                 no change   remove
//
// Rejected calls never change state. Every change is written through to the
// snapshot store before the operation returns.
package goals

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tgienger/hbt/internal/db"
	"github.com/tgienger/hbt/internal/logging"
	"github.com/tgienger/hbt/internal/metrics"
	"github.com/tgienger/hbt/internal/models"
	"github.com/tgienger/hbt/internal/remote"
	"github.com/tgienger/hbt/internal/stats"
)

// LocalIDPrefix marks goals that were created while the service was unreachable.
const LocalIDPrefix = "local-"

// Gateway is the subset of the remote client the repository needs.
type Gateway interface {
	CreateGoal(ctx context.Context, draft models.GoalDraft) remote.Result[models.Goal]
	SetCompleted(ctx context.Context, id string, completed bool) remote.Result[struct{}]
	SetProgress(ctx context.Context, id string, progress int) remote.Result[models.Goal]
	DeleteGoal(ctx context.Context, id string) remote.Result[struct{}]
}

// SnapshotStore persists the goal collection.
type SnapshotStore interface {
	LoadGoals() (models.GoalCollection, bool, error)
	SaveGoals(goals models.GoalCollection) error
}

// Journal records reconciliation outcomes. It never influences goal state.
type Journal interface {
	RecordActivity(a db.Activity) error
}

// Outcome reports what an operation did. Kind is remote.KindNone when no call
// was issued, e.g. for an unknown id.
type Outcome struct {
	Kind    remote.Kind
	Status  int
	Applied bool
	Goal    models.Goal
}

// Option configures a Repository.
type Option func(*Repository)

// WithJournal records every outcome in j.
func WithJournal(j Journal) Option {
	return func(r *Repository) { r.journal = j }
}

// WithMetrics enables reconciliation counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Repository) { r.metrics = m }
}

// WithClock overrides time.Now for CreatedAt of local goals.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDGenerator overrides the local id generator.
func WithIDGenerator(gen func() string) Option {
	return func(r *Repository) { r.newID = gen }
}

// Repository is the single owner of the goal collection.
type Repository struct {
	gateway Gateway
	store   SnapshotStore
	stats   *stats.Aggregator
	journal Journal
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
	newID   func() string

	mu      sync.RWMutex
	goals   models.GoalCollection
	summary models.StatsSummary
}

// New creates a Repository with an empty collection. Call Load to restore the snapshot.
func New(gateway Gateway, store SnapshotStore, agg *stats.Aggregator, logger zerolog.Logger, opts ...Option) *Repository {
	r := &Repository{
		gateway: gateway,
		store:   store,
		stats:   agg,
		logger:  logging.Component(logger, "goals"),
		now:     time.Now,
		newID:   NewLocalID,
		goals:   models.GoalCollection{},
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.stats == nil {
		r.stats = stats.NewAggregator(nil, logger)
	}
	r.summary = stats.Local(r.goals)
	return r
}

// NewLocalID returns a timestamp-ordered id for a goal the service never saw.
func NewLocalID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("%s%d", LocalIDPrefix, time.Now().UnixNano())
	}
	return LocalIDPrefix + id.String()
}

// IsLocal reports whether a goal only exists on this device.
func IsLocal(g models.Goal) bool {
	return strings.HasPrefix(g.ID, LocalIDPrefix)
}

// Load restores the persisted collection. On error the collection stays empty.
func (r *Repository) Load() error {
	goals, ok, err := r.store.LoadGoals()
	if err != nil {
		r.logger.Error().Err(err).Msg("loading goal snapshot")
		return fmt.Errorf("loading goals: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.goals = dedupe(goals)
	r.summary = stats.Local(r.goals)
	r.metrics.SetGoals(len(r.goals))
	r.logger.Info().Int("goals", len(r.goals)).Bool("found", ok).Msg("goal snapshot loaded")
	return nil
}

// Goals returns a copy of the collection.
func (r *Repository) Goals() models.GoalCollection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.goals.Clone()
}

// Goal returns the goal with the given id.
func (r *Repository) Goal(id string) (models.Goal, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.goals.Find(id)
}

// Stats returns the latest summary.
func (r *Repository) Stats() models.StatsSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.summary
}

// RefreshStats replaces the summary from the service, falling back to local.
func (r *Repository) RefreshStats(ctx context.Context) models.StatsSummary {
	s := r.stats.Remote(context.WithoutCancel(ctx), r.Goals())
	r.mu.Lock()
	r.summary = s
	r.mu.Unlock()
	return s
}

// dedupe drops later goals whose id was already seen.
func dedupe(goals models.GoalCollection) models.GoalCollection {
	seen := make(map[string]bool, len(goals))
	out := make(models.GoalCollection, 0, len(goals))
	for _, g := range goals {
		if seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		out = append(out, g)
	}
	return out
}
