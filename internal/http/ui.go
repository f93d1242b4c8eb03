package http

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/query"
)

//go:embed templates/*.html
var templatesFS embed.FS

// SortOption is one entry of the sort selector.
type SortOption struct {
	Value string
	Label string
}

var sortOptions = []SortOption{
	{"", "Added"},
	{"title_asc", "Title A-Z"},
	{"title_desc", "Title Z-A"},
	{"author_asc", "Author surname A-Z"},
	{"author_desc", "Author surname Z-A"},
	{"genre_asc", "Genre"},
	{"read_asc", "Unread first"},
	{"read_desc", "Read first"},
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"isRead": func(b entities.Book) bool { return b.IsRead() },
	}
	return template.New("").Funcs(funcMap).ParseFS(templatesFS, "templates/*.html")
}

type UIController struct {
	books   BookService
	version string
}

func NewUIController(books BookService, version string) *UIController {
	return &UIController{
		books:   books,
		version: version,
	}
}

// BooksPage renders the collection. The page then talks to the JSON API.
// GET /
func (controller *UIController) BooksPage(c *gin.Context) {
	params := query.ParamsFromValues(c.Request.URL.Query())

	books, err := controller.books.List(c.Request.Context(), params)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books")
		return
	}

	c.HTML(http.StatusOK, "index", gin.H{
		"Books":       books,
		"TotalBooks":  len(books),
		"Params":      params,
		"Genres":      entities.Genres,
		"SortOptions": sortOptions,
		"Version":     controller.version,
	})
}
