package services

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/query"
)

// BookService implements the CRUD operations of the collection on top of a
// BookStore, mapping store outcomes to ErrNotFound, *ValidationError and
// *ServiceError.
type BookService struct {
	store    BookStore
	recorder ChangeRecorder
	validate *validator.Validate
}

// NewBookService creates a new BookService. recorder may be nil.
func NewBookService(store BookStore, recorder ChangeRecorder) *BookService {
	return &BookService{
		store:    store,
		recorder: recorder,
		validate: newValidator(),
	}
}

// Create validates the input and stores a new book with a fresh ID.
func (s *BookService) Create(ctx context.Context, in BookInput) (*entities.Book, error) {
	if err := s.validateInput(in); err != nil {
		return nil, err
	}

	book := &entities.Book{
		Title:  in.Title,
		Author: in.Author,
		Genre:  in.Genre,
		Read:   in.Read,
	}
	if err := s.store.Insert(ctx, book); err != nil {
		return nil, storeError("create book", err)
	}

	s.record(ctx, entities.AuditEventCreate, book)
	return book, nil
}

// List returns every book matching params, in the requested order.
func (s *BookService) List(ctx context.Context, params query.Params) ([]entities.Book, error) {
	books, err := s.store.Find(ctx, query.Build(params))
	if err != nil {
		return nil, storeError("list books", err)
	}
	return books, nil
}

// Get looks up a single book.
func (s *BookService) Get(ctx context.Context, id string) (*entities.Book, error) {
	key, ok := normalizeID(id)
	if !ok {
		return nil, ErrNotFound
	}

	book, err := s.store.FindByID(ctx, key)
	if err != nil {
		return nil, storeError("get book", err)
	}
	if book == nil {
		return nil, ErrNotFound
	}
	return book, nil
}

// Update applies a partial update; fields absent from the patch keep their
// stored values.
func (s *BookService) Update(ctx context.Context, id string, patch BookPatch) (*entities.Book, error) {
	key, ok := normalizeID(id)
	if !ok {
		return nil, ErrNotFound
	}
	if err := s.validatePatch(patch); err != nil {
		return nil, err
	}

	fields := make(map[string]any, 4)
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Author != nil {
		fields["author"] = *patch.Author
	}
	if patch.Genre != nil {
		fields["genre"] = *patch.Genre
	}
	if patch.Read != nil {
		fields["read"] = *patch.Read
	}

	book, err := s.store.UpdateFields(ctx, key, fields)
	if err != nil {
		return nil, storeError("update book", err)
	}
	if book == nil {
		return nil, ErrNotFound
	}

	if len(fields) > 0 {
		s.record(ctx, entities.AuditEventUpdate, book)
	}
	return book, nil
}

// Delete removes a book and returns the removed record.
func (s *BookService) Delete(ctx context.Context, id string) (*entities.Book, error) {
	key, ok := normalizeID(id)
	if !ok {
		return nil, ErrNotFound
	}

	book, err := s.store.DeleteByID(ctx, key)
	if err != nil {
		return nil, storeError("delete book", err)
	}
	if book == nil {
		return nil, ErrNotFound
	}

	s.record(ctx, entities.AuditEventDelete, book)
	return book, nil
}

// Stats summarises the collection.
func (s *BookService) Stats(ctx context.Context) (*entities.BookStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, storeError("book stats", err)
	}
	return stats, nil
}

func (s *BookService) record(ctx context.Context, eventType entities.AuditEventType, book *entities.Book) {
	if s.recorder != nil {
		s.recorder.LogBookChange(ctx, eventType, book)
	}
}

// normalizeID returns the canonical form of a book ID. IDs that are not
// UUIDs cannot exist in the store.
func normalizeID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}
