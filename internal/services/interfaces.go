package services

import (
	"context"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/query"
)

// BookStore is the document store the book service runs against.
// Lookups return a nil book and a nil error when no record matches.
type BookStore interface {
	Insert(ctx context.Context, book *entities.Book) error
	FindByID(ctx context.Context, id string) (*entities.Book, error)
	Find(ctx context.Context, plan query.Plan) ([]entities.Book, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) (*entities.Book, error)
	DeleteByID(ctx context.Context, id string) (*entities.Book, error)
	Stats(ctx context.Context) (*entities.BookStats, error)
}

// ChangeRecorder receives every successful mutation. Implementations must
// not block the caller.
type ChangeRecorder interface {
	LogBookChange(ctx context.Context, eventType entities.AuditEventType, book *entities.Book)
}

// BookInput is the payload for creating a book.
type BookInput struct {
	Title  string `json:"title" validate:"notblank,max=512"`
	Author string `json:"author" validate:"max=256"`
	Genre  string `json:"genre" validate:"max=64"`
	Read   *bool  `json:"read"`
}

// BookPatch is a partial update. Nil fields are left unchanged.
type BookPatch struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
	Genre  *string `json:"genre"`
	Read   *bool   `json:"read"`
}

// ImportResult contains the outcome of an import operation.
type ImportResult struct {
	Imported   int             `json:"imported"`
	Duplicates int             `json:"duplicates"`
	Failed     int             `json:"failed"`
	Errors     []ImportError   `json:"errors,omitempty"`
	Books      []entities.Book `json:"-"`
}

// ImportError describes one rejected entry of an import.
type ImportError struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Error string `json:"error"`
}
