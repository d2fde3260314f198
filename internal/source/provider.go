// Package source loads listing batches for an analysis run, falling back to
// sample data whenever the live lookup cannot be used.
package source

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/homebudget/homebudget/internal/listing"
	"github.com/homebudget/homebudget/internal/model"
	"github.com/homebudget/homebudget/internal/molit"
)

// Fetcher performs the live transaction lookup.
type Fetcher interface {
	FetchTrades(ctx context.Context, q molit.Query) ([]model.RawListing, error)
}

// Cache stores successful lookups keyed by region and period.
type Cache interface {
	GetTrades(regionCode, yearMonth string) ([]model.RawListing, bool, error)
	PutTrades(regionCode, yearMonth string, rows []model.RawListing) error
}

// Fallback selects what a failed load substitutes.
type Fallback string

const (
	FallbackSample Fallback = "sample"
	FallbackEmpty  Fallback = "empty"
)

// Provider loads listings. It never returns an error; failures are carried
// in Outcome.Failure.
type Provider struct {
	fetcher  Fetcher
	cache    Cache
	fallback Fallback
	offline  bool
	log      zerolog.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithCache enables the response cache.
func WithCache(c Cache) Option { return func(p *Provider) { p.cache = c } }

// WithFallback picks the substitute for failed loads.
func WithFallback(f Fallback) Option {
	return func(p *Provider) {
		if f == FallbackEmpty {
			p.fallback = FallbackEmpty
		}
	}
}

// WithOffline skips the live lookup entirely.
func WithOffline(offline bool) Option { return func(p *Provider) { p.offline = offline } }

// NewProvider creates a Provider. A nil fetcher means no service key is
// configured.
func NewProvider(fetcher Fetcher, log zerolog.Logger, opts ...Option) *Provider {
	p := &Provider{
		fetcher:  fetcher,
		fallback: FallbackSample,
		log:      log.With().Str("component", "source").Logger(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Load returns the listings for q.
func (p *Provider) Load(ctx context.Context, q molit.Query) Outcome {
	if p.offline {
		return p.fail(ReasonOffline, nil)
	}
	if p.fetcher == nil {
		return p.fail(ReasonMissingKey, nil)
	}
	if err := q.Validate(); err != nil {
		return p.fail(ReasonInvalidQuery, err)
	}

	if p.cache != nil {
		rows, ok, err := p.cache.GetTrades(q.RegionCode, q.YearMonth)
		switch {
		case err != nil:
			p.log.Warn().Err(err).Msg("cache read failed, fetching live")
		case ok:
			p.log.Debug().Str("region", q.RegionCode).Str("period", q.YearMonth).Int("rows", len(rows)).Msg("cache hit")
			return Outcome{Batch: listing.Batch{Schema: listing.SchemaTenThousand, Rows: rows}, Origin: OriginCache}
		}
	}

	rows, err := p.fetcher.FetchTrades(ctx, q)
	if err != nil {
		return p.fail(reasonFor(err), err)
	}

	p.log.Info().Str("region", q.RegionCode).Str("period", q.YearMonth).Int("rows", len(rows)).Msg("fetched trades")
	if p.cache != nil {
		if err := p.cache.PutTrades(q.RegionCode, q.YearMonth, rows); err != nil {
			p.log.Warn().Err(err).Msg("cache write failed")
		}
	}
	return Outcome{Batch: listing.Batch{Schema: listing.SchemaTenThousand, Rows: rows}, Origin: OriginLive}
}

func (p *Provider) fail(reason Reason, err error) Outcome {
	ev := p.log.Warn().Str("reason", string(reason))
	if err != nil {
		ev = ev.Err(err)
	}
	ev.Msg("live listings unavailable")

	out := Outcome{Failure: &Failure{Reason: reason, Err: err}}
	if p.fallback == FallbackEmpty {
		out.Origin = OriginEmpty
		out.Batch = listing.Batch{Schema: listing.SchemaBaseCurrency}
		return out
	}
	out.Origin = OriginSample
	out.Batch = SampleBatch()
	return out
}
