package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS(t *testing.T) {
	tmp := t.TempDir()
	lfs := LocalFS{}

	// Test MkdirAll
	dir := filepath.Join(tmp, "subdir")
	assert.NoError(t, lfs.MkdirAll(dir, 0755))

	// Test OpenFile (Create)
	fpath := filepath.Join(dir, "test.txt")
	f, err := lfs.OpenFile(fpath, os.O_CREATE|os.O_RDWR, 0644)
	require.NoError(t, err)

	// Write
	_, err = f.Write([]byte("hello"))
	assert.NoError(t, err)

	// Sync
	assert.NoError(t, f.Sync())

	// Stat via File
	info, err := f.Stat()
	assert.NoError(t, err)
	assert.Equal(t, int64(5), info.Size())

	assert.NoError(t, f.Close())

	// Stat via FS
	info2, err := lfs.Stat(fpath)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), info2.Size())

	// ReadDir
	entries, err := lfs.ReadDir(dir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCountingFS(t *testing.T) {
	tmp := t.TempDir()
	cfs := NewCountingFS(nil)

	a := filepath.Join(tmp, "a.txt")
	b := filepath.Join(tmp, "b.txt")
	for _, p := range []string{a, b} {
		f, err := cfs.OpenFile(p, os.O_CREATE|os.O_WRONLY, 0644)
		require.NoError(t, err)
		require.NoError(t, f.Close())
	}

	assert.Equal(t, int64(2), cfs.Opens())
	assert.Equal(t, []string{a, b}, cfs.Opened())

	// Non-open operations are not counted.
	_, err := cfs.Stat(a)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), cfs.Opens())
}
