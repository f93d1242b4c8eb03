package services

import (
	"context"
	"errors"
	"strings"

	"github.com/mrlokans/bookshelf/internal/entities"
)

// ImportService bulk-creates books through the BookService, so imported
// entries obey the same validation as the API.
type ImportService struct {
	books *BookService
}

// NewImportService creates a new ImportService.
func NewImportService(books *BookService) *ImportService {
	return &ImportService{books: books}
}

// Import creates every valid entry. Entries repeating an earlier
// title/author pair in the same batch are counted as duplicates. With
// dryRun set nothing is written. A store failure aborts the import and is
// returned together with the partial result.
func (s *ImportService) Import(ctx context.Context, inputs []BookInput, dryRun bool) (ImportResult, error) {
	result := ImportResult{Books: []entities.Book{}}
	seen := make(map[string]bool, len(inputs))

	for i, in := range inputs {
		key := strings.ToLower(strings.TrimSpace(in.Author)) + "|" + strings.ToLower(strings.TrimSpace(in.Title))
		if seen[key] {
			result.Duplicates++
			continue
		}

		if dryRun {
			if err := s.books.validateInput(in); err != nil {
				result.reject(i, in, err)
				continue
			}
			seen[key] = true
			result.Imported++
			continue
		}

		book, err := s.books.Create(ctx, in)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				result.reject(i, in, err)
				continue
			}
			return result, err
		}
		seen[key] = true
		result.Imported++
		result.Books = append(result.Books, *book)
	}

	return result, nil
}

func (r *ImportResult) reject(index int, in BookInput, err error) {
	r.Failed++
	r.Errors = append(r.Errors, ImportError{Index: index, Title: in.Title, Error: err.Error()})
}
