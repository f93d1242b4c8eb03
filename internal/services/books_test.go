package services

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/database"
	auditRepo "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/query"
)

func setupTestDatabase(t *testing.T) *database.Database {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), database.Options{LogLevel: database.ParseLogLevel("silent")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTestService(t *testing.T) *BookService {
	t.Helper()
	db := setupTestDatabase(t)
	return NewBookService(books.NewRepository(db.DB), nil)
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func createAll(t *testing.T, svc *BookService, inputs ...BookInput) []entities.Book {
	t.Helper()
	out := make([]entities.Book, 0, len(inputs))
	for _, in := range inputs {
		book, err := svc.Create(context.Background(), in)
		require.NoError(t, err)
		out = append(out, *book)
	}
	return out
}

func TestBookService_Create(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	book, err := svc.Create(ctx, BookInput{Title: "Test Book", Author: "John Doe", Genre: "Fiction", Read: boolPtr(false)})
	require.NoError(t, err)
	assert.NotEmpty(t, book.ID)
	assert.Equal(t, "Test Book", book.Title)
	assert.Equal(t, "John Doe", book.Author)
	assert.Equal(t, "Fiction", book.Genre)
	require.NotNil(t, book.Read)
	assert.False(t, *book.Read)

	found, err := svc.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.ID, found.ID)
	assert.Equal(t, book.Title, found.Title)

	t.Run("missing title", func(t *testing.T) {
		_, err := svc.Create(ctx, BookInput{Author: "John Doe"})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields, 1)
		assert.Equal(t, "title", verr.Fields[0].Field)
		assert.Equal(t, "is required", verr.Fields[0].Message)
	})

	t.Run("blank title", func(t *testing.T) {
		_, err := svc.Create(ctx, BookInput{Title: "   "})
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("over-long fields", func(t *testing.T) {
		_, err := svc.Create(ctx, BookInput{
			Title:  "ok",
			Author: strings.Repeat("a", maxAuthorLen+1),
			Genre:  strings.Repeat("g", maxGenreLen+1),
		})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		require.Len(t, verr.Fields, 2)
		assert.Equal(t, "author", verr.Fields[0].Field)
		assert.Equal(t, "must be at most 256 characters", verr.Fields[0].Message)
		assert.Equal(t, "genre", verr.Fields[1].Field)
	})

	t.Run("failed validation writes nothing", func(t *testing.T) {
		list, err := svc.List(ctx, query.Params{})
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})
}

func TestBookService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("no params returns every book", func(t *testing.T) {
		svc := setupTestService(t)
		created := createAll(t, svc,
			BookInput{Title: "One"},
			BookInput{Title: "Two"},
			BookInput{Title: "Three"},
		)
		_, err := svc.Delete(ctx, created[1].ID)
		require.NoError(t, err)

		list, err := svc.List(ctx, query.Params{})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, created[0].ID, list[0].ID)
		assert.Equal(t, created[2].ID, list[1].ID)
	})

	t.Run("search", func(t *testing.T) {
		svc := setupTestService(t)
		createAll(t, svc,
			BookInput{Title: "Book One", Author: "Alice Wonderland", Genre: "Fiction", Read: boolPtr(false)},
			BookInput{Title: "Another Book", Author: "Bob Builder", Genre: "Non-fiction", Read: boolPtr(true)},
		)

		list, err := svc.List(ctx, query.Params{Search: "another"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Another Book", list[0].Title)
	})

	t.Run("read filter", func(t *testing.T) {
		svc := setupTestService(t)
		createAll(t, svc,
			BookInput{Title: "A", Read: boolPtr(true)},
			BookInput{Title: "B", Read: boolPtr(false)},
			BookInput{Title: "C", Read: boolPtr(true)},
			BookInput{Title: "D", Read: boolPtr(false)},
		)

		list, err := svc.List(ctx, query.Params{Read: "true"})
		require.NoError(t, err)
		require.Len(t, list, 2)
		for _, b := range list {
			assert.True(t, b.IsRead())
		}

		// Anything but "true" means false.
		list, err = svc.List(ctx, query.Params{Read: "yes"})
		require.NoError(t, err)
		assert.Len(t, list, 2)
		for _, b := range list {
			assert.False(t, b.IsRead())
		}
	})

	t.Run("sort by title", func(t *testing.T) {
		svc := setupTestService(t)
		createAll(t, svc, BookInput{Title: "Charlie"}, BookInput{Title: "Alpha"}, BookInput{Title: "Bravo"})

		list, err := svc.List(ctx, query.Params{Sort: "title_asc"})
		require.NoError(t, err)
		assert.Equal(t, "Alpha", list[0].Title)
		assert.Equal(t, "Bravo", list[1].Title)
		assert.Equal(t, "Charlie", list[2].Title)
	})

	t.Run("sort by author surname", func(t *testing.T) {
		svc := setupTestService(t)
		for _, a := range []string{"Anna Smith", "John Doe", "Bob Builder", "Carol Jones"} {
			createAll(t, svc, BookInput{Title: "Book by " + a, Author: a})
		}

		list, err := svc.List(ctx, query.Params{Sort: "author_asc"})
		require.NoError(t, err)
		authors := make([]string, len(list))
		for i, b := range list {
			authors[i] = b.Author
		}
		assert.Equal(t, []string{"Bob Builder", "John Doe", "Carol Jones", "Anna Smith"}, authors)
	})

	t.Run("empty collection", func(t *testing.T) {
		svc := setupTestService(t)

		list, err := svc.List(ctx, query.Params{Search: "nothing"})
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})
}

func TestBookService_Get(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	created := createAll(t, svc, BookInput{Title: "Findable"})

	t.Run("upper-case id resolves", func(t *testing.T) {
		book, err := svc.Get(ctx, strings.ToUpper(created[0].ID))
		require.NoError(t, err)
		assert.Equal(t, created[0].ID, book.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Get(ctx, "9b2e4c1a-0000-4000-8000-000000000000")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.Get(ctx, "not-an-id")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBookService_Update(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	created := createAll(t, svc, BookInput{Title: "Book to Update", Author: "Jane Roe", Genre: "History", Read: boolPtr(false)})
	id := created[0].ID

	t.Run("partial update keeps other fields", func(t *testing.T) {
		book, err := svc.Update(ctx, id, BookPatch{Read: boolPtr(true)})
		require.NoError(t, err)
		assert.True(t, book.IsRead())
		assert.Equal(t, "Book to Update", book.Title)
		assert.Equal(t, "Jane Roe", book.Author)
		assert.Equal(t, "History", book.Genre)

		found, err := svc.Get(ctx, id)
		require.NoError(t, err)
		assert.True(t, found.IsRead())
	})

	t.Run("several fields", func(t *testing.T) {
		book, err := svc.Update(ctx, id, BookPatch{Title: strPtr("Renamed"), Genre: strPtr("")})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", book.Title)
		assert.Equal(t, "", book.Genre)
		assert.Equal(t, "Jane Roe", book.Author)
	})

	t.Run("empty patch returns the record", func(t *testing.T) {
		book, err := svc.Update(ctx, id, BookPatch{})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", book.Title)
	})

	t.Run("blank title rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, id, BookPatch{Title: strPtr("")})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "title", verr.Fields[0].Field)

		found, err := svc.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", found.Title)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(ctx, "9b2e4c1a-0000-4000-8000-000000000000", BookPatch{Read: boolPtr(true)})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		_, err := svc.Update(ctx, "12345", BookPatch{Read: boolPtr(true)})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestBookService_Delete(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	created := createAll(t, svc, BookInput{Title: "Book to Delete"})

	deleted, err := svc.Delete(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Book to Delete", deleted.Title)

	_, err = svc.Get(ctx, created[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Delete(ctx, created[0].ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Delete(ctx, "bogus")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookService_Stats(t *testing.T) {
	svc := setupTestService(t)
	createAll(t, svc,
		BookInput{Title: "A", Genre: "Fiction", Read: boolPtr(true)},
		BookInput{Title: "B", Genre: "Fiction"},
		BookInput{Title: "C", Genre: "Poetry", Read: boolPtr(false)},
	)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Read)
	assert.Equal(t, int64(2), stats.Unread)
	assert.Equal(t, int64(2), stats.ByGenre["Fiction"])
}

func TestBookService_StoreFailure(t *testing.T) {
	db := setupTestDatabase(t)
	svc := NewBookService(books.NewRepository(db.DB), nil)
	ctx := context.Background()
	created := createAll(t, svc, BookInput{Title: "Before close"})

	require.NoError(t, db.Close())

	_, err := svc.List(ctx, query.Params{})
	var serr *ServiceError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "list books", serr.Op)

	_, err = svc.Get(ctx, created[0].ID)
	assert.ErrorAs(t, err, &serr)
	assert.False(t, errors.Is(err, ErrNotFound))

	_, err = svc.Update(ctx, created[0].ID, BookPatch{Read: boolPtr(true)})
	assert.ErrorAs(t, err, &serr)

	_, err = svc.Create(ctx, BookInput{Title: "After close"})
	assert.ErrorAs(t, err, &serr)
}

func TestBookService_RecordsChanges(t *testing.T) {
	db := setupTestDatabase(t)
	auditSvc := audit.NewService(auditRepo.NewRepository(db.DB))
	svc := NewBookService(books.NewRepository(db.DB), auditSvc)
	ctx := context.Background()

	book, err := svc.Create(ctx, BookInput{Title: "Audited"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, book.ID, BookPatch{Read: boolPtr(true)})
	require.NoError(t, err)
	_, err = svc.Update(ctx, book.ID, BookPatch{})
	require.NoError(t, err)
	_, err = svc.Delete(ctx, book.ID)
	require.NoError(t, err)
	auditSvc.Flush()

	events, total, err := auditSvc.GetEvents(ctx, auditRepo.Filter{EntityID: book.ID}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	types := map[entities.AuditEventType]bool{}
	for _, e := range events {
		types[e.EventType] = true
	}
	assert.True(t, types[entities.AuditEventCreate])
	assert.True(t, types[entities.AuditEventUpdate])
	assert.True(t, types[entities.AuditEventDelete])
}
