package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/entities"
)

const maxMessageLen = 500

// Service provides high-level audit logging functionality.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	if event.RequestID == "" {
		event.RequestID = RequestIDFrom(ctx)
	}
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
// The write outlives ctx cancellation but keeps its values.
func (s *Service) LogAsync(ctx context.Context, event *entities.AuditEvent) {
	ctx = context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.Log(ctx, event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Flush blocks until every pending async write has finished.
func (s *Service) Flush() {
	s.pending.Wait()
}

// LogBookChange records a create, update or delete of a book.
func (s *Service) LogBookChange(ctx context.Context, eventType entities.AuditEventType, book *entities.Book) {
	event := &entities.AuditEvent{
		EventType:   eventType,
		Action:      "book_" + string(eventType),
		Description: truncate(describeBookChange(eventType, book.Title), maxMessageLen),
		EntityType:  "book",
		EntityID:    book.ID,
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{
		"title":  book.Title,
		"author": book.Author,
		"genre":  book.Genre,
	}
	if book.Read != nil {
		metadata["read"] = *book.Read
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	s.LogAsync(ctx, event)
}

func describeBookChange(eventType entities.AuditEventType, title string) string {
	switch eventType {
	case entities.AuditEventCreate:
		return "Created book: " + title
	case entities.AuditEventUpdate:
		return "Updated book: " + title
	case entities.AuditEventDelete:
		return "Deleted book: " + title
	default:
		return string(eventType) + " book: " + title
	}
}

// LogImport records a bulk import.
func (s *Service) LogImport(ctx context.Context, source string, imported, skipped int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventImport,
		Action:      "books_import",
		Description: truncate(fmt.Sprintf("Imported %d books from %s", imported, source), maxMessageLen),
		EntityType:  "book",
		Status:      entities.AuditStatusSuccess,
	}

	metadata := map[string]any{
		"source":   source,
		"imported": imported,
		"skipped":  skipped,
	}
	if mdBytes, e := json.Marshal(metadata); e == nil {
		event.Metadata = string(mdBytes)
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), maxMessageLen)
	}

	s.LogAsync(ctx, event)
}

// LogCleanup records a retention sweep. It writes synchronously since it
// runs from a background worker.
func (s *Service) LogCleanup(ctx context.Context, deleted int64, retention time.Duration, err error) error {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCleanup,
		Action:      "audit_cleanup",
		Description: fmt.Sprintf("Removed %d audit events older than %s", deleted, retention),
		Status:      entities.AuditStatusSuccess,
	}
	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), maxMessageLen)
	}
	return s.Log(ctx, event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, filter audit.Filter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, filter, limit, offset)
}

// GetEvent retrieves a single audit event, or nil if none exists.
func (s *Service) GetEvent(ctx context.Context, id uint) (*entities.AuditEvent, error) {
	return s.repo.GetEventByID(ctx, id)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

// truncate shortens a string to at most maxLen runes.
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
