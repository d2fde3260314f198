// Package analysis runs one affordability analysis: estimate the budget,
// load listings, classify them, and compare the optional target.
package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/homebudget/homebudget/internal/budget"
	"github.com/homebudget/homebudget/internal/listing"
	"github.com/homebudget/homebudget/internal/model"
	"github.com/homebudget/homebudget/internal/molit"
	"github.com/homebudget/homebudget/internal/region"
	"github.com/homebudget/homebudget/internal/source"
)

// Loader supplies listings for a query. Implementations never fail; a
// degraded load is reported through the Outcome.
type Loader interface {
	Load(ctx context.Context, q molit.Query) source.Outcome
}

// Request is the input snapshot for one run.
type Request struct {
	Profile model.FinancialProfile `json:"profile"`
	Query   molit.Query            `json:"query"`
	Target  *listing.Target        `json:"target,omitempty"`
}

// Report is the full output of one run.
type Report struct {
	RunID     uuid.UUID          `json:"run_id"`
	StartedAt time.Time          `json:"started_at"`
	Budget    model.BudgetResult `json:"budget"`
	Result    listing.Result     `json:"result"`
	Origin    source.Origin      `json:"origin"`
	Reason    source.Reason      `json:"reason,omitempty"`
	Warning   string             `json:"warning,omitempty"`
	Target    *listing.TargetGap `json:"target,omitempty"`
	Query     molit.Query        `json:"query"`
	Region    *region.Region     `json:"region,omitempty"`
	ByDong    []DongStat         `json:"by_dong,omitempty"`
}

// Runner executes analysis runs. It is safe for concurrent use; runs share
// no state.
type Runner struct {
	policy budget.Policy
	loader Loader
	log    zerolog.Logger
	now    func() time.Time
}

// NewRunner creates a Runner with the given lending policy and loader.
func NewRunner(policy budget.Policy, loader Loader, log zerolog.Logger) *Runner {
	return &Runner{
		policy: policy,
		loader: loader,
		log:    log.With().Str("component", "analysis").Logger(),
		now:    time.Now,
	}
}

// Policy returns the lending policy the runner estimates with.
func (r *Runner) Policy() budget.Policy { return r.policy }

// Run estimates the budget and classifies the listings for req. Only input
// validation fails a run.
func (r *Runner) Run(ctx context.Context, req Request) (Report, error) {
	est, err := budget.Estimate(req.Profile, r.policy)
	if err != nil {
		return Report{}, err
	}

	rep := Report{
		RunID:     uuid.New(),
		StartedAt: r.now(),
		Budget:    est,
		Query:     req.Query,
	}
	if reg, ok := region.ByCode(req.Query.RegionCode); ok {
		rep.Region = &reg
	}
	log := r.log.With().Str("run_id", rep.RunID.String()).Logger()

	out := r.loader.Load(ctx, req.Query)
	rep.Origin = out.Origin
	rep.Warning = out.Warning()
	if out.Failure != nil {
		rep.Reason = out.Failure.Reason
	}

	rep.Result = listing.Classify(out.Batch, est.BuyablePrice)
	rep.ByDong = GroupByDong(rep.Result.Listings)
	if req.Target != nil {
		gap := listing.CompareTarget(*req.Target, est.BuyablePrice)
		rep.Target = &gap
	}

	log.Info().
		Float64("buyable", est.BuyablePrice).
		Str("origin", string(rep.Origin)).
		Int("listings", rep.Result.Summary.Total).
		Int("within", rep.Result.Summary.WithinBudget).
		Int("excluded", rep.Result.Summary.Excluded).
		Msg("analysis complete")
	return rep, nil
}
