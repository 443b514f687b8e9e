package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"crudgate/internal/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs named background jobs on cron schedules
type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger

	mu   sync.Mutex
	jobs map[string]cron.EntryID
}

// New creates a scheduler. Jobs that panic are recovered and logged, and a
// job still running when its next tick arrives is skipped.
func New(log *logger.Logger) *Scheduler {
	cl := cronLogger{log: log}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	return &Scheduler{
		cron:   c,
		logger: log,
		jobs:   make(map[string]cron.EntryID),
	}
}

// Register adds fn under name. An empty spec disables the job.
func (s *Scheduler) Register(name, spec string, fn func()) error {
	if spec == "" {
		s.logger.Info("Job disabled", zap.String("job", name))
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}

	id, err := s.cron.AddFunc(spec, fn)
	if err != nil {
		return fmt.Errorf("invalid schedule %q for job %q: %w", spec, name, err)
	}
	s.jobs[name] = id

	s.logger.Info("Job registered", zap.String("job", name), zap.String("schedule", spec))
	return nil
}

// Jobs returns the registered job names in sorted order
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start begins running jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs or ctx, whichever is first
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
