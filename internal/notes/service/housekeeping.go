package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/notes/pkg/slogx"
)

// Task is one periodic cleanup. Run reports how many records it removed.
type Task struct {
	Name string
	Run  func(ctx context.Context) (int, error)
}

// HousekeepingService periodically runs cleanup tasks, such as dropping
// expired sign-in codes held by the local identity provider.
type HousekeepingService struct {
	Tasks    []Task
	Logger   *slog.Logger
	Interval time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a service. A non-positive interval
// defaults to one hour.
func NewHousekeepingService(logger *slog.Logger, interval time.Duration, tasks ...Task) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Tasks:    tasks,
		Logger:   slogx.OrDiscard(logger),
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "tasks", len(s.Tasks))
}

// Stop blocks until any in-progress cleanup has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.RunOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce runs every task once. Failures in one task don't stop the others.
func (s *HousekeepingService) RunOnce(ctx context.Context) (removed int, failed int) {
	for _, task := range s.Tasks {
		n, err := task.Run(ctx)
		if err != nil {
			s.Logger.Error("housekeeping task failed", "task", task.Name, "error", err)
			failed++
			continue
		}
		s.Logger.Debug("housekeeping task done", "task", task.Name, "removed", n)
		removed += n
	}
	s.Logger.Info("housekeeping cleanup completed", "removed", removed, "failed", failed)
	return removed, failed
}
