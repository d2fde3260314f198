package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/homebudget/homebudget/internal/molit"
	"github.com/homebudget/homebudget/internal/source"
)

// Purger drops expired cache entries.
type Purger interface {
	Purge() (int64, error)
}

// PurgeJob removes expired lookups from the cache.
type PurgeJob struct {
	cache Purger
	log   zerolog.Logger
}

// NewPurgeJob creates a PurgeJob.
func NewPurgeJob(cache Purger, log zerolog.Logger) *PurgeJob {
	return &PurgeJob{cache: cache, log: log}
}

func (j *PurgeJob) Name() string { return "cache_purge" }

func (j *PurgeJob) Run() error {
	n, err := j.cache.Purge()
	if err != nil {
		return err
	}
	if n > 0 {
		j.log.Info().Int64("removed", n).Msg("expired lookups purged")
	}
	return nil
}

// Loader is satisfied by source.Provider.
type Loader interface {
	Load(ctx context.Context, q molit.Query) source.Outcome
}

// WarmJob loads the default query so the first request after startup or
// expiry is served from the cache.
type WarmJob struct {
	loader  Loader
	query   molit.Query
	timeout time.Duration
	log     zerolog.Logger
}

// NewWarmJob creates a WarmJob for q.
func NewWarmJob(loader Loader, q molit.Query, timeout time.Duration, log zerolog.Logger) *WarmJob {
	return &WarmJob{loader: loader, query: q, timeout: timeout, log: log}
}

func (j *WarmJob) Name() string { return "cache_warm" }

// Run never fails; a degraded load is logged.
func (j *WarmJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	out := j.loader.Load(ctx, j.query)
	ev := j.log.Debug()
	if out.Failure != nil {
		ev = j.log.Warn().Str("reason", string(out.Failure.Reason))
	}
	ev.Str("region", j.query.RegionCode).
		Str("period", j.query.YearMonth).
		Str("origin", string(out.Origin)).
		Int("rows", len(out.Batch.Rows)).
		Msg("cache warmed")
	return nil
}
