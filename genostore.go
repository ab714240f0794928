package genostore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hupe1980/genostore/query"
	"github.com/hupe1980/genostore/record"
	"github.com/hupe1980/genostore/term"
)

// Store is an embedded partitioned columnar store rooted at one directory.
//
// Registrations append immutable partitions; queries read them. Files are
// immutable once written, so reads and writes never block each other.
// Concurrent registrations of different organisms touch disjoint subtrees
// and are safe; registering the same organism concurrently is the caller's
// responsibility to prevent (the duplicate guard is check-then-act).
type Store struct {
	root string
	opts options
}

// Open opens (or designates) a store rooted at root. The directory itself is
// owned by the caller and is created lazily on first registration.
func Open(root string, opts ...Option) (*Store, error) {
	if root == "" {
		return nil, fmt.Errorf("genostore: empty root directory")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Store{root: root, opts: o}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

func (s *Store) domainDir(org string) string {
	return filepath.Join(s.root, "domain", "org="+org)
}

func (s *Store) geneDir(org string) string {
	return filepath.Join(s.root, "gene", "org="+org)
}

// NewRegistration starts the ingestion of one organism.
//
// The duplicate-organism guard runs here, before any write: a second
// registration of the same organism fails with ErrAlreadyRegistered and
// leaves the first registration's files untouched.
func (s *Store) NewRegistration(org string) (*Registration, error) {
	if org == "" {
		return nil, ErrEmptyOrganism
	}
	for _, dir := range []string{s.domainDir(org), s.geneDir(org)} {
		_, err := s.opts.fsys.Stat(dir)
		if err == nil {
			return nil, fmt.Errorf("%w: %s", ErrAlreadyRegistered, org)
		}
		if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return &Registration{
		store:   s,
		org:     org,
		domains: record.NewDomainRecords(s.opts.chunkSize),
		genes:   record.NewGeneRecords(s.opts.chunkSize),
	}, nil
}

// Find runs a domain expression against the store. See the query package
// for options; by default all organisms are searched and gene identifiers
// are returned.
func (s *Store) Find(ctx context.Context, expression string, opts ...query.Option) (*query.Result, error) {
	all := append([]query.Option{
		query.WithFS(s.opts.fsys),
		query.WithParallelism(s.opts.parallelism),
	}, opts...)

	res, err := query.Run(ctx, s.root, expression, all...)
	s.opts.logger.LogFind(ctx, expression, resultLen(res), err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func resultLen(res *query.Result) int {
	if res == nil {
		return 0
	}
	return len(res.IDs)
}

// Organisms lists the registered organisms, sorted.
func (s *Store) Organisms() ([]string, error) {
	entries, err := s.opts.fsys.ReadDir(filepath.Join(s.root, "domain"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var orgs []string
	for _, e := range entries {
		if org, ok := strings.CutPrefix(e.Name(), "org="); ok && e.IsDir() {
			orgs = append(orgs, org)
		}
	}
	sort.Strings(orgs)
	return orgs, nil
}

// Registration accumulates one organism's rows and commits them as new
// partitions. It is not safe for concurrent use.
type Registration struct {
	store     *Store
	org       string
	domains   *record.DomainRecords
	genes     *record.GeneRecords
	committed bool
}

// Organism returns the organism being registered.
func (r *Registration) Organism() string { return r.org }

// AppendDomainRow adds one annotation hit. Rows whose source is the ID
// sentinel are skipped. desc may be nil.
func (r *Registration) AppendDomainRow(source term.Term, start, end int16, name string, desc *string, geneID string) error {
	if r.committed {
		return ErrAlreadyCommitted
	}
	return r.domains.Append(record.DomainRow{
		Source: source,
		Start:  start,
		End:    end,
		Name:   name,
		Desc:   desc,
		GeneID: geneID,
	})
}

// AppendGeneRow adds one gene record. desc may be nil; the organism column
// is filled from the registration.
func (r *Registration) AppendGeneRow(id, seq string, desc *string) error {
	if r.committed {
		return ErrAlreadyCommitted
	}
	return r.genes.Append(record.GeneRow{
		GeneID:   id,
		Seq:      seq,
		Desc:     desc,
		Organism: r.org,
	})
}

// Commit writes the accumulated rows to disk: one partition directory per
// annotation source that occurred, plus one gene batch file. Partial
// partitions already written before a failure remain on disk; there is no
// rollback.
func (r *Registration) Commit(ctx context.Context) error {
	if r.committed {
		return ErrAlreadyCommitted
	}
	r.committed = true

	s := r.store
	domainRows, geneRows := r.domains.Len(), r.genes.Len()

	err := r.domains.Write(ctx, s.opts.fsys, s.domainDir(r.org), s.opts.codec, s.opts.parallelism)
	if err == nil {
		err = r.genes.Write(s.opts.fsys, s.geneDir(r.org), s.opts.codec)
	}
	s.opts.logger.LogRegister(ctx, r.org, domainRows, geneRows, err)
	return err
}
