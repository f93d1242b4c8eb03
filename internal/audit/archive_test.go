package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchive_SaveJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "archive")
	archive := NewArchive(dir)

	payload := []map[string]any{
		{"title": "Dune", "author": "Frank Herbert"},
		{"title": "Emma", "read": true},
	}

	filename, err := archive.SaveJSON(payload)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(filename, ".json"))

	content, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)

	var saved []map[string]any
	require.NoError(t, json.Unmarshal(content, &saved))
	require.Len(t, saved, 2)
	assert.Equal(t, "Dune", saved[0]["title"])
	assert.Equal(t, true, saved[1]["read"])

	t.Run("each save gets its own file", func(t *testing.T) {
		second, err := archive.SaveJSON(map[string]string{"k": "v"})
		require.NoError(t, err)
		assert.NotEqual(t, filename, second)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("unmarshalable data", func(t *testing.T) {
		_, err := archive.SaveJSON(map[string]any{"ch": make(chan int)})
		assert.Error(t, err)
	})
}
