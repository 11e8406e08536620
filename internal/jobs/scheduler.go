// Package jobs runs periodic maintenance work on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler wraps a cron runner and keeps jobs addressable by name
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
	mu     sync.Mutex
	jobs   map[string]cron.EntryID
}

// NewScheduler creates a scheduler that accepts six-field expressions (with
// seconds) as well as descriptors like "@every 1h". Overlapping runs of the
// same job are skipped and panics are recovered.
func NewScheduler(logger *zap.Logger) *Scheduler {
	cl := &cronLogger{logger: logger.Named("cron")}
	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cl),
			cron.WithChain(cron.SkipIfStillRunning(cl), cron.Recover(cl)),
		),
		logger: logger,
		jobs:   make(map[string]cron.EntryID),
	}
}

func (s *Scheduler) Start() {
	s.logger.Info("starting job scheduler", zap.Int("jobs", len(s.JobNames())))
	s.cron.Start()
}

// Stop halts scheduling. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("stopping job scheduler")
	return s.cron.Stop()
}

// AddJob registers job under a unique name
func (s *Scheduler) AddJob(name, spec string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already exists", name)
	}

	id, err := s.cron.AddFunc(spec, func() {
		s.logger.Debug("running scheduled job", zap.String("job_name", name))
		job()
	})
	if err != nil {
		return fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobs[name] = id
	s.logger.Info("added scheduled job",
		zap.String("job_name", name),
		zap.String("schedule", spec))
	return nil
}

func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, exists := s.jobs[name]
	if !exists {
		return fmt.Errorf("job %s not found", name)
	}
	s.cron.Remove(id)
	delete(s.jobs, name)
	return nil
}

// JobNames returns the registered job names in sorted order
func (s *Scheduler) JobNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// cronLogger routes cron's internal logging to zap
type cronLogger struct {
	logger *zap.Logger
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
