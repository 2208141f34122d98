package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "one.txt"), []byte("first document"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "two.txt"), []byte("second document"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignore.pdf"), []byte("%PDF"), 0o644))

	l := NewLoader()
	docs, skipped, err := l.Load([]string{filepath.Join(dir, "*")})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "file_one.txt", docs[0].ID)
	assert.Equal(t, "one.txt", docs[0].Title)
	assert.Equal(t, "first document", docs[0].Text)
	require.Len(t, skipped, 1)
	assert.Contains(t, skipped[0], "ignore.pdf")
}

func TestLoader_MissingFile(t *testing.T) {
	l := NewLoader()
	docs, skipped, err := l.Load([]string{"/does/not/exist.txt"})
	require.NoError(t, err)
	assert.Empty(t, docs)
	require.Len(t, skipped, 1)
}
