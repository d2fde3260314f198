// Package scheduler runs background maintenance for the API server.
package scheduler

import (
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a unit of scheduled work.
type Job interface {
	Run() error
	Name() string
}

// Scheduler runs jobs on cron schedules.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
	wg   sync.WaitGroup
}

// New creates a scheduler. Schedules use the five-field cron format or a
// descriptor such as "@hourly" or "@every 30m".
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Start begins running registered jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Debug().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
}

// Stop waits for running jobs to finish, including ones started by
// RunAsync.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.wg.Wait()
	s.log.Debug().Msg("scheduler stopped")
}

// AddJob registers job under schedule.
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() { s.run(job) })
	if err != nil {
		return err
	}
	s.log.Debug().Str("schedule", schedule).Str("job", job.Name()).Msg("job registered")
	return nil
}

// RunAsync executes a job immediately in its own goroutine.
func (s *Scheduler) RunAsync(job Job) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(job)
	}()
}

func (s *Scheduler) run(job Job) {
	if err := job.Run(); err != nil {
		s.log.Error().Err(err).Str("job", job.Name()).Msg("job failed")
		return
	}
	s.log.Debug().Str("job", job.Name()).Msg("job completed")
}
