package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookshelf/internal/tasks"
)

// TaskEnqueuer adds a task to the queue.
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
}

// AuditCleanupScheduler periodically enqueues the audit retention task.
type AuditCleanupScheduler struct {
	enqueuer      TaskEnqueuer
	schedule      string
	retentionDays int

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewAuditCleanupScheduler creates a new scheduler instance. An empty
// schedule uses DefaultAuditCleanupSchedule.
func NewAuditCleanupScheduler(enqueuer TaskEnqueuer, schedule string, retentionDays int) *AuditCleanupScheduler {
	if schedule == "" {
		schedule = DefaultAuditCleanupSchedule
	}
	return &AuditCleanupScheduler{
		enqueuer:      enqueuer,
		schedule:      schedule,
		retentionDays: retentionDays,
		cron:          cron.New(cron.WithParser(parser)),
	}
}

// Start begins the scheduler. It stops by itself when ctx is cancelled.
func (s *AuditCleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunNow(context.Background()); err != nil {
			log.Printf("Audit cleanup scheduler: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule audit cleanup: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := NextRun(s.schedule, time.Now())
	log.Printf("Audit cleanup scheduler: started with schedule '%s' (%s), retention %d days. Next run: %v",
		s.schedule,
		DescribeSchedule(s.schedule),
		s.retentionDays,
		nextRun)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *AuditCleanupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false

	log.Printf("Audit cleanup scheduler: stopped")
}

// RunNow enqueues a cleanup immediately and returns the task ID.
func (s *AuditCleanupScheduler) RunNow(ctx context.Context) (string, error) {
	id, err := s.enqueuer.Enqueue(ctx, tasks.CleanupAuditEventsTask{RetentionDays: s.retentionDays})
	if err != nil {
		return "", fmt.Errorf("enqueue audit cleanup: %w", err)
	}
	log.Printf("Audit cleanup scheduler: enqueued task %s", id)
	return id, nil
}

// IsRunning returns whether the scheduler is active
func (s *AuditCleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next cleanup will be enqueued, or nil when stopped.
func (s *AuditCleanupScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	t := entry.Next
	return &t
}
