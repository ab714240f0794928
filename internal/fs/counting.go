package fs

import (
	"os"
	"sync"
	"sync/atomic"
)

// CountingFS wraps a FileSystem and records every file it opens.
//
// Scan pruning guarantees are verified against it: a partition outside the
// filter set must never show up in Opened.
type CountingFS struct {
	FileSystem

	opens atomic.Int64

	mu     sync.Mutex
	opened []string
}

// NewCountingFS wraps fsys. If fsys is nil, the local file system is used.
func NewCountingFS(fsys FileSystem) *CountingFS {
	if fsys == nil {
		fsys = Default
	}
	return &CountingFS{FileSystem: fsys}
}

func (c *CountingFS) OpenFile(name string, flag int, perm os.FileMode) (File, error) {
	c.opens.Add(1)
	c.mu.Lock()
	c.opened = append(c.opened, name)
	c.mu.Unlock()
	return c.FileSystem.OpenFile(name, flag, perm)
}

// Opens returns the number of OpenFile calls observed.
func (c *CountingFS) Opens() int64 { return c.opens.Load() }

// Opened returns the paths passed to OpenFile, in call order.
func (c *CountingFS) Opened() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.opened))
	copy(out, c.opened)
	return out
}
