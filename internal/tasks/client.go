package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

const queueDSNParams = "?_journal=WAL&_timeout=5000&_busy_timeout=5000"

// Every worker holds a connection while it runs a task; the spare ones
// serve the dispatcher, Enqueue and Status.
const spareConns = 3

// Client is the bookshelf background queue. Tasks live in their own SQLite
// file so queue writes never contend with book writes.
type Client struct {
	queue   *backlite.Client
	db      *sql.DB
	workers int

	mu      sync.Mutex
	running bool
}

// TasksDBPath returns the queue database path for a main database path:
// the same file name with a "-tasks" suffix before the extension.
func TasksDBPath(mainDBPath string) string {
	ext := filepath.Ext(mainDBPath)
	return strings.TrimSuffix(mainDBPath, ext) + "-tasks" + ext
}

func openQueueDB(path string, workers int) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+queueDSNParams)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(workers + spareConns)
	db.SetMaxIdleConns(workers)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// NewClient opens the queue database next to mainDBPath and installs the
// backlite schema. Queues must be registered before Start.
func NewClient(mainDBPath string, cfg Config) (*Client, error) {
	defaults := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = defaults.Workers
	}

	db, err := openQueueDB(TasksDBPath(mainDBPath), cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to open tasks database: %w", err)
	}

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          taskLogger{},
	})
	if err == nil {
		err = queue.Install()
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set up task queue: %w", err)
	}

	return &Client{queue: queue, db: db, workers: cfg.Workers}, nil
}

// Register adds task queues. Call it before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.queue.Register(q)
	}
}

// Start launches the workers. Calling it again is a no-op.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.mu.Unlock()

	c.queue.Start(ctx)
	log.Printf("Task queue: %d workers running", c.workers)
}

// Stop waits for running tasks until ctx expires and reports whether the
// workers finished in time.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running {
		return true
	}
	c.running = false

	finished := c.queue.Stop(ctx)
	if !finished {
		log.Printf("Task queue: stop timed out, some tasks were interrupted")
		return false
	}
	log.Printf("Task queue: stopped")
	return true
}

// Close closes the queue database. Stop the workers first.
func (c *Client) Close() error {
	return c.db.Close()
}

// Enqueue adds a single task and returns its ID.
func (c *Client) Enqueue(ctx context.Context, task backlite.Task) (string, error) {
	name := task.Config().Name
	ids, err := c.queue.Add(task).Ctx(ctx).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", name, err)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("enqueue %s: no task id returned", name)
	}
	return ids[0], nil
}

// Status returns the status of a task by ID.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.queue.Status(ctx, taskID)
}

// taskLogger routes backlite's logs through the standard logger.
type taskLogger struct{}

func (taskLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (taskLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}
