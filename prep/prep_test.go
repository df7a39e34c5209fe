package prep

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehrlich-b/go-4c/internal/logging"
)

func TestCreateFileWritesRequestedSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.img")

	// CreateFile takes whole gigabytes; a 0 GB request keeps the test fast
	// and checks that the file is created with exactly the requested size.
	require.NoError(t, CreateFile(path, 0, logging.Default()))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fi.Size())
}

func TestCreateFileFailsOnUnwritableDir(t *testing.T) {
	err := CreateFile("/nonexistent-dir-for-go-4c/bench.img", 1, logging.Default())
	assert.Error(t, err)
}
