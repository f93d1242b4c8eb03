package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/query"
	"github.com/mrlokans/bookshelf/internal/services"
)

type BooksController struct {
	books BookService
}

func NewBooksController(books BookService) *BooksController {
	return &BooksController{books: books}
}

// CreateBook stores a new book.
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var in services.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBadRequest(c, describeBindError(err))
		return
	}

	book, err := bc.books.Create(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err, "create book")
		return
	}
	respondCreated(c, book)
}

// ListBooks returns all books matching the search, read and sort parameters.
// GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	params := query.ParamsFromValues(c.Request.URL.Query())

	books, err := bc.books.List(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, err, "list books")
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetBook returns a single book.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	book, err := bc.books.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// UpdateBook applies a partial update. An empty body is an empty patch.
// PUT /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	var patch services.BookPatch
	if err := c.ShouldBindJSON(&patch); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, describeBindError(err))
		return
	}

	book, err := bc.books.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondServiceError(c, err, "update book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a book.
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	if _, err := bc.books.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err, "delete book")
		return
	}
	respondSuccess(c, "Book deleted")
}

// GetBookStats returns collection counters.
// GET /api/books/stats
func (bc *BooksController) GetBookStats(c *gin.Context) {
	stats, err := bc.books.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "book stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func describeBindError(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return "invalid value for " + typeErr.Field
	}
	return "invalid request body"
}
