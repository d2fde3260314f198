package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homebudget/homebudget/internal/molit"
	"github.com/homebudget/homebudget/internal/source"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run() error {
	j.runs.Add(1)
	return j.err
}

type stubPurger struct {
	n   int64
	err error
}

func (p stubPurger) Purge() (int64, error) { return p.n, p.err }

type stubLoader struct {
	got molit.Query
	ctx context.Context
}

func (l *stubLoader) Load(ctx context.Context, q molit.Query) source.Outcome {
	l.got, l.ctx = q, ctx
	return source.Outcome{Origin: source.OriginSample, Failure: &source.Failure{Reason: source.ReasonMissingKey}}
}

func TestAddJob_RejectsBadSchedule(t *testing.T) {
	s := New(zerolog.Nop())
	assert.Error(t, s.AddJob("every tuesday", &countingJob{}))
	assert.NoError(t, s.AddJob("@hourly", &countingJob{}))
	assert.NoError(t, s.AddJob("*/5 * * * *", &countingJob{}))
}

func TestRunAsync_SurvivesJobError(t *testing.T) {
	s := New(zerolog.Nop())
	s.Start()
	job := &countingJob{err: errors.New("boom")}
	s.RunAsync(job)
	s.RunAsync(job)
	s.Stop()
	assert.Equal(t, int32(2), job.runs.Load())
}

type blockingJob struct {
	release chan struct{}
	done    atomic.Bool
}

func (j *blockingJob) Name() string { return "blocking" }

func (j *blockingJob) Run() error {
	<-j.release
	j.done.Store(true)
	return nil
}

func TestRunAsync_DoesNotBlockAndStopWaits(t *testing.T) {
	s := New(zerolog.Nop())
	s.Start()
	job := &blockingJob{release: make(chan struct{})}

	s.RunAsync(job)
	assert.False(t, job.done.Load())

	close(job.release)
	s.Stop()
	assert.True(t, job.done.Load())
}

func TestScheduledJobRuns(t *testing.T) {
	s := New(zerolog.Nop())
	job := &countingJob{}
	require.NoError(t, s.AddJob("@every 1s", job))
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return job.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

func TestPurgeJob(t *testing.T) {
	assert.NoError(t, NewPurgeJob(stubPurger{n: 3}, zerolog.Nop()).Run())
	assert.Error(t, NewPurgeJob(stubPurger{err: errors.New("locked")}, zerolog.Nop()).Run())
}

func TestWarmJob_LoadsQueryWithDeadline(t *testing.T) {
	l := &stubLoader{}
	q := molit.Query{Category: molit.CategoryApartment, TradeKind: molit.TradeSale, RegionCode: "11350", YearMonth: "202403"}

	require.NoError(t, NewWarmJob(l, q, time.Minute, zerolog.Nop()).Run())
	assert.Equal(t, q, l.got)
	_, ok := l.ctx.Deadline()
	assert.True(t, ok)
}
