package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/query"
	"github.com/mrlokans/bookshelf/internal/services"
)

// ExportCommand prints the book list as JSON, accepting the same
// search/read/sort parameters as GET /api/books.
type ExportCommand struct {
	DatabasePath string
	Params       query.Params

	Out io.Writer
}

func NewExportCommand() *ExportCommand {
	return &ExportCommand{Out: os.Stdout}
}

func (cmd *ExportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.Params.Search, "search", "", "Case-insensitive match on title or author")
	fs.StringVar(&cmd.Params.Read, "read", "", "Filter by read status (true/false)")
	fs.StringVar(&cmd.Params.Sort, "sort", "", "Sort as field_direction, e.g. author_asc or title_desc")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s export [options] > books.json\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ExportCommand) Run(ctx context.Context) error {
	if _, err := os.Stat(cmd.DatabasePath); os.IsNotExist(err) {
		return fmt.Errorf("database not found: %s", cmd.DatabasePath)
	}

	db, err := database.Open(cmd.DatabasePath, database.Options{LogLevel: database.ParseLogLevel("error")})
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	bookService := services.NewBookService(books.NewRepository(db.DB), nil)
	list, err := bookService.List(ctx, cmd.Params)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(list)
}
