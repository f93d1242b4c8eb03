package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Archive keeps raw copies of imported payloads on disk, one JSON file
// per import named by a random UUID.
type Archive struct {
	Dir string
}

func NewArchive(dir string) *Archive {
	return &Archive{Dir: dir}
}

// SaveJSON writes data as indented JSON and returns the file name.
func (a *Archive) SaveJSON(data any) (string, error) {
	if err := os.MkdirAll(a.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	filename := uuid.NewString() + ".json"
	path := filepath.Join(a.Dir, filename)

	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal archive data: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}

	return filename, nil
}
