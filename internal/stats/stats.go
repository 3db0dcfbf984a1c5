// Package stats derives goal summary metrics, either from the service or from
// the local collection. The two sources are never merged.
package stats

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tgienger/hbt/internal/logging"
	"github.com/tgienger/hbt/internal/models"
	"github.com/tgienger/hbt/internal/remote"
)

// Fetcher queries the service-side summary.
type Fetcher interface {
	FetchStats(ctx context.Context) remote.Result[models.StatsSummary]
}

// Aggregator produces StatsSummary values.
type Aggregator struct {
	fetcher Fetcher
	logger  zerolog.Logger
}

// NewAggregator creates an Aggregator. A nil fetcher makes Remote always fall back.
func NewAggregator(fetcher Fetcher, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logging.Component(logger, "stats"),
	}
}

// Remote returns the service's summary verbatim, or the local summary of goals
// when the service does not answer with one.
func (a *Aggregator) Remote(ctx context.Context, goals models.GoalCollection) models.StatsSummary {
	if a.fetcher == nil {
		return Local(goals)
	}
	res := a.fetcher.FetchStats(ctx)
	if res.IsOK() {
		s := res.Payload
		s.Source = models.SourceRemote
		return s
	}
	a.logger.Debug().Str("outcome", res.String()).Msg("remote stats unavailable, computing locally")
	return Local(goals)
}

// Local computes the summary from the collection alone. Average progress and
// total streak have no local formula and stay zero.
func Local(goals models.GoalCollection) models.StatsSummary {
	total := len(goals)
	completed := goals.CompletedCount()
	rate := 0.0
	if total > 0 {
		rate = 100 * float64(completed) / float64(total)
	}
	return models.StatsSummary{
		TotalGoals:     total,
		CompletedGoals: completed,
		CompletionRate: rate,
		Source:         models.SourceLocal,
	}
}
