package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mrlokans/bookshelf/internal/audit"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	auditRepo "github.com/mrlokans/bookshelf/internal/database/audit"
	"github.com/mrlokans/bookshelf/internal/database/books"
	"github.com/mrlokans/bookshelf/internal/services"
)

// ImportCommand bulk-creates books from a JSON array file
type ImportCommand struct {
	FilePath     string
	DatabasePath string
	ArchiveDir   string
	Verbose      bool
	DryRun       bool

	Out io.Writer
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{Out: os.Stdout}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to a JSON file with an array of books (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.ArchiveDir, "archive-dir", config.NewConfig().Audit.Dir, "Directory to keep a copy of the imported payload (default from AUDIT_DIR)")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every rejected entry")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate the file without writing to the database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Import books from a JSON array such as:\n")
		fmt.Fprintf(os.Stderr, "  [{\"title\": \"Dune\", \"author\": \"Frank Herbert\", \"genre\": \"Fiction\", \"read\": true}]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *ImportCommand) Run(ctx context.Context) error {
	out := cmd.Out
	fmt.Fprintln(out, "Book Import")
	fmt.Fprintln(out, "===========")

	if cmd.DryRun {
		fmt.Fprintln(out, "DRY RUN MODE - No changes will be made")
	}

	inputs, err := readBookInputs(cmd.FilePath)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "File: %s (%d entries)\n", cmd.FilePath, len(inputs))

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	auditService := audit.NewService(auditRepo.NewRepository(db.DB))
	defer auditService.Flush()

	bookService := services.NewBookService(books.NewRepository(db.DB), auditService)
	importer := services.NewImportService(bookService)

	result, importErr := importer.Import(ctx, inputs, cmd.DryRun)

	if !cmd.DryRun {
		source := filepath.Base(cmd.FilePath)
		auditService.LogImport(ctx, source, result.Imported, result.Duplicates+result.Failed, importErr)

		if cmd.ArchiveDir != "" {
			name, err := audit.NewArchive(cmd.ArchiveDir).SaveJSON(inputs)
			if err != nil {
				fmt.Fprintf(out, "Warning: failed to archive import: %v\n", err)
			} else {
				fmt.Fprintf(out, "Archived payload as %s\n", filepath.Join(cmd.ArchiveDir, name))
			}
		}
	}

	fmt.Fprintln(out, "\n=== Import Summary ===")
	fmt.Fprintf(out, "Imported:   %d\n", result.Imported)
	fmt.Fprintf(out, "Duplicates: %d\n", result.Duplicates)
	fmt.Fprintf(out, "Failed:     %d\n", result.Failed)

	if cmd.Verbose {
		for _, e := range result.Errors {
			fmt.Fprintf(out, "  [ERROR] #%d %q: %s\n", e.Index, e.Title, e.Error)
		}
	}

	if importErr != nil {
		return fmt.Errorf("import aborted: %w", importErr)
	}
	return nil
}

func readBookInputs(path string) ([]services.BookInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var inputs []services.BookInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("failed to parse import file: %w", err)
	}
	return inputs, nil
}
