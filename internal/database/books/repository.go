// Package books is the document store for the book collection.
//
// Lookups by id return (nil, nil) when no record matches; callers decide what
// a missing record means.
//
//	repo := books.NewRepository(db)
//	plan := query.Build(query.Params{Search: "doe", Sort: "author_asc"})
//	list, err := repo.Find(ctx, plan)
package books

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/query"
)

// naturalOrder is insertion order; it also breaks ties for native sorts.
const naturalOrder = "rowid ASC"

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert stores a new book, assigning its ID.
func (r *Repository) Insert(ctx context.Context, book *entities.Book) error {
	book.ID = uuid.NewString()
	return r.db.WithContext(ctx).Create(book).Error
}

// FindByID retrieves a book by ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*entities.Book, error) {
	return findByID(r.db.WithContext(ctx), id)
}

func findByID(tx *gorm.DB, id string) (*entities.Book, error) {
	var book entities.Book
	err := tx.Where("id = ?", id).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Find returns every book matching the plan's filter, in the plan's order.
func (r *Repository) Find(ctx context.Context, plan query.Plan) ([]entities.Book, error) {
	tx := applyFilter(r.db.WithContext(ctx).Model(&entities.Book{}), plan.Filter)

	if plan.Order.Kind == query.NativeOrder {
		tx = tx.Order(clause.OrderByColumn{
			Column: clause.Column{Name: string(plan.Order.Field)},
			Desc:   plan.Order.Direction == query.Descending,
		})
	}
	tx = tx.Order(naturalOrder)

	books := []entities.Book{}
	if err := tx.Find(&books).Error; err != nil {
		return nil, err
	}
	if plan.Filter.HasSearch() {
		books = filterBySearch(books, plan.Filter.Search)
	}

	if plan.Order.Kind == query.DerivedOrder {
		query.SortBySurname(books, plan.Order.Direction)
	}
	return books, nil
}

// applyFilter adds the SQL part of the filter. The search match runs in
// filterBySearch since SQLite's LOWER only folds ASCII.
func applyFilter(tx *gorm.DB, filter query.Filter) *gorm.DB {
	if filter.HasRead() {
		tx = tx.Where("read = ?", filter.Read)
	}
	return tx
}

// filterBySearch keeps books whose title or author contains search,
// ignoring case. Order is preserved.
func filterBySearch(books []entities.Book, search string) []entities.Book {
	needle := strings.ToLower(search)
	matched := books[:0]
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), needle) || strings.Contains(strings.ToLower(b.Author), needle) {
			matched = append(matched, b)
		}
	}
	return matched
}

// UpdateFields applies a partial update and returns the updated book.
// Only the columns present in fields change.
func (r *Repository) UpdateFields(ctx context.Context, id string, fields map[string]any) (*entities.Book, error) {
	var updated *entities.Book
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			result := tx.Model(&entities.Book{}).Where("id = ?", id).Updates(fields)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return nil
			}
		}

		book, err := findByID(tx, id)
		if err != nil {
			return err
		}
		updated = book
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteByID removes a book and returns the deleted record.
func (r *Repository) DeleteByID(ctx context.Context, id string) (*entities.Book, error) {
	var deleted *entities.Book
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		book, err := findByID(tx, id)
		if err != nil || book == nil {
			return err
		}
		if err := tx.Delete(&entities.Book{}, "id = ?", id).Error; err != nil {
			return err
		}
		deleted = book
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// Stats counts books overall, by read flag and by genre.
func (r *Repository) Stats(ctx context.Context) (*entities.BookStats, error) {
	db := r.db.WithContext(ctx)
	stats := &entities.BookStats{ByGenre: map[string]int64{}}

	if err := db.Model(&entities.Book{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entities.Book{}).Where("read = ?", true).Count(&stats.Read).Error; err != nil {
		return nil, err
	}
	stats.Unread = stats.Total - stats.Read

	var rows []struct {
		Genre string
		Count int64
	}
	err := db.Model(&entities.Book{}).
		Select("genre, COUNT(*) AS count").
		Where("genre <> ''").
		Group("genre").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByGenre[row.Genre] = row.Count
	}
	return stats, nil
}
