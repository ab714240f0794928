// Package partition discovers and loads the batch files relevant to a query.
//
// Partitions are directory subtrees whose path segments encode filterable
// `key=value` attributes (`org=<organism>`, `source=<Term>`). Discovery
// walks the tree and selects a file only if every recognized key segment on
// its path satisfies the corresponding allow-set, so filtered-out partitions
// are never opened.
package partition

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/genostore/batch"
	"github.com/hupe1980/genostore/internal/fs"
	"github.com/hupe1980/genostore/record"
	"github.com/hupe1980/genostore/term"
)

// Scanner loads all batch files under a root directory that pass its path
// filters, concatenating them into one in-memory table.
type Scanner struct {
	dir         string
	fsys        fs.FileSystem
	filters     map[string][]string
	parallelism int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithFS sets the file system the scanner reads through.
func WithFS(fsys fs.FileSystem) Option {
	return func(s *Scanner) { s.fsys = fsys }
}

// WithOrganisms restricts the scan to `org=` segments with the given values.
// A nil or empty set means any organism.
func WithOrganisms(orgs []string) Option {
	return func(s *Scanner) {
		if len(orgs) > 0 {
			s.filters["org"] = orgs
		}
	}
}

// WithSources restricts the scan to `source=` segments with the given Terms.
// A nil or empty set means any source.
func WithSources(terms []term.Term) Option {
	return func(s *Scanner) {
		if len(terms) == 0 {
			return
		}
		values := make([]string, len(terms))
		for i, t := range terms {
			values[i] = t.String()
		}
		s.filters["source"] = values
	}
}

// WithParallelism bounds the number of files decoded concurrently. Values
// below one fall back to the available parallelism.
func WithParallelism(n int) Option {
	return func(s *Scanner) { s.parallelism = n }
}

// NewScanner creates a scanner rooted at dir.
func NewScanner(dir string, opts ...Option) *Scanner {
	s := &Scanner{
		dir:         dir,
		fsys:        fs.Default,
		filters:     make(map[string][]string),
		parallelism: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.parallelism < 1 {
		s.parallelism = runtime.GOMAXPROCS(0)
	}
	return s
}

// Scan discovers the matching batch files and loads them in parallel. The
// result is the vertical concatenation of all loaded tables; across files no
// row order is guaranteed beyond each file's internal append order. Scanning
// an absent root or an empty match set yields an empty table.
func (s *Scanner) Scan(ctx context.Context) (*batch.Table, error) {
	paths, err := s.selectPaths()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return &batch.Table{}, nil
	}

	tables := make([]*batch.Table, len(paths))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			t, err := s.load(path)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return batch.Concat(tables)
}

// selectPaths walks the partition tree and keeps batch files whose paths
// pass the key=value filters. Only the selected files are ever opened.
func (s *Scanner) selectPaths() ([]string, error) {
	var out []string
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := s.fsys.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			if e.IsDir() {
				if err := walk(path); err != nil {
					return err
				}
				continue
			}
			if filepath.Ext(e.Name()) != record.FileExt {
				continue
			}
			if s.checkPath(path) {
				out = append(out, path)
			}
		}
		return nil
	}
	if err := walk(s.dir); err != nil {
		return nil, err
	}
	return out, nil
}

// checkPath decomposes every `key=value` path segment and requires each
// filtered key to hit its allow-set. Segments for unfiltered keys, and
// segments that are not key=value at all, do not filter.
func (s *Scanner) checkPath(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		k, v, ok := strings.Cut(seg, "=")
		if !ok {
			continue
		}
		allowed, filtered := s.filters[k]
		if !filtered {
			continue
		}
		found := false
		for _, a := range allowed {
			if a == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func (s *Scanner) load(path string) (*batch.Table, error) {
	f, err := s.fsys.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := batch.Read(bufio.NewReader(f))
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return t, nil
}
