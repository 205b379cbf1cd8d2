package batch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pie-lang/pie/internal/batch"
)

func TestExpand_GlobMatchesAndDedupes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.pie"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.pie"), []byte(""), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.txt"), []byte(""), 0o644))

	matches, err := batch.Expand([]string{filepath.Join(dir, "*.pie"), filepath.Join(dir, "a.pie")})

	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.pie"), filepath.Join(dir, "b.pie")}, matches)
}

func TestExpand_NonMatchingPlainPathPassesThrough(t *testing.T) {
	matches, err := batch.Expand([]string{"/no/such/file.pie"})

	require.NoError(t, err)
	assert.Equal(t, []string{"/no/such/file.pie"}, matches)
}
