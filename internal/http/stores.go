package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	auditRepo "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/query"
	"github.com/mrlokans/bookshelf/internal/services"
)

// This file collects the interfaces HTTP controllers depend on.

// BookService is the book collection as seen by the books controller.
type BookService interface {
	Create(ctx context.Context, in services.BookInput) (*entities.Book, error)
	List(ctx context.Context, params query.Params) ([]entities.Book, error)
	Get(ctx context.Context, id string) (*entities.Book, error)
	Update(ctx context.Context, id string, patch services.BookPatch) (*entities.Book, error)
	Delete(ctx context.Context, id string) (*entities.Book, error)
	Stats(ctx context.Context) (*entities.BookStats, error)
}

// AuditReader provides read access to the audit trail.
type AuditReader interface {
	GetEvents(ctx context.Context, filter auditRepo.Filter, limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEvent(ctx context.Context, id uint) (*entities.AuditEvent, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TaskQueue enqueues background tasks and reports their status.
type TaskQueue interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}
