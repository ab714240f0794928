// Package query runs domain expressions against a partitioned store.
//
// A query parses the expression, scans only the domain partitions the
// expression and organism filter allow, aggregates matched domain names per
// gene, and keeps the genes whose name set satisfies the expression. The
// result is either the surviving gene ids or, after a join against the gene
// partitions, FASTA records.
package query

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/genostore/batch"
	"github.com/hupe1980/genostore/expr"
	"github.com/hupe1980/genostore/internal/fs"
	"github.com/hupe1980/genostore/partition"
	"github.com/hupe1980/genostore/term"
)

// Mode selects the output of a query.
type Mode uint8

const (
	// ModeIdentifiers emits the surviving gene ids.
	ModeIdentifiers Mode = iota
	// ModeSequence joins survivors against the gene partitions and emits
	// FASTA records.
	ModeSequence
)

type config struct {
	orgs        []string
	mode        Mode
	parallelism int
	fsys        fs.FileSystem
}

// Option configures a query run.
type Option func(*config)

// WithOrganisms restricts the query to the given organisms.
func WithOrganisms(orgs []string) Option {
	return func(c *config) { c.orgs = orgs }
}

// WithMode selects the output mode.
func WithMode(mode Mode) Option {
	return func(c *config) { c.mode = mode }
}

// WithParallelism bounds concurrent partition decodes.
func WithParallelism(n int) Option {
	return func(c *config) { c.parallelism = n }
}

// WithFS sets the file system the query reads through.
func WithFS(fsys fs.FileSystem) Option {
	return func(c *config) { c.fsys = fsys }
}

// GeneRecord is one joined gene with its sequence.
type GeneRecord struct {
	ID  string
	Seq string
}

// Result holds a query's output. IDs follows scan order; across partition
// files that order is not significant.
type Result struct {
	Mode    Mode
	IDs     []string
	Records []GeneRecord
}

// WriteFASTA writes the joined records as FASTA. Only populated in
// ModeSequence.
func (r *Result) WriteFASTA(w io.Writer) error {
	for _, rec := range r.Records {
		if _, err := fmt.Fprintf(w, ">%s\n%s\n", rec.ID, rec.Seq); err != nil {
			return err
		}
	}
	return nil
}

// Run executes one query against the store rooted at root.
func Run(ctx context.Context, root, expression string, opts ...Option) (*Result, error) {
	cfg := &config{
		parallelism: runtime.GOMAXPROCS(0),
		fsys:        fs.Default,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	e, err := expr.Parse(expression)
	if err != nil {
		return nil, err
	}

	// Pruning hints are best effort: if any atom fails to classify, the
	// pruned set could exclude partitions that atom needs, so fall back to
	// scanning every source.
	var sources []term.Term
	if terms, complete := expr.InferTerms(expression); complete {
		sources = terms
	}

	domains, err := partition.NewScanner(
		filepath.Join(root, "domain"),
		partition.WithFS(cfg.fsys),
		partition.WithOrganisms(cfg.orgs),
		partition.WithSources(sources),
		partition.WithParallelism(cfg.parallelism),
	).Scan(ctx)
	if err != nil {
		return nil, err
	}

	res := &Result{Mode: cfg.mode}
	if domains.NumRows() > 0 {
		ids, names, err := domainColumns(domains)
		if err != nil {
			return nil, err
		}
		res.IDs = matchGenes(e, ids, names)
	}

	if cfg.mode == ModeIdentifiers {
		return res, nil
	}
	if err := joinSequences(ctx, root, cfg, res); err != nil {
		return nil, err
	}
	return res, nil
}

func domainColumns(t *batch.Table) (ids, names *batch.StringColumn, err error) {
	if ids, err = t.Strings("gene_id"); err != nil {
		return nil, nil, err
	}
	if names, err = t.Strings("domain_name"); err != nil {
		return nil, nil, err
	}
	return ids, names, nil
}

// matchGenes groups domain rows by gene id, aggregates each group's domain
// names in scan order, and keeps the genes whose names satisfy e. Genes with
// no domain rows never enter a group and so never reach the matcher.
func matchGenes(e expr.Expr, ids, names *batch.StringColumn) []string {
	groups := make(map[string][]string)
	var order []string
	for i, id := range ids.Values {
		if _, ok := groups[id]; !ok {
			order = append(order, id)
		}
		groups[id] = append(groups[id], names.Values[i])
	}

	var surviving []string
	for _, id := range order {
		if e.Matches(groups[id]) {
			surviving = append(surviving, id)
		}
	}
	return surviving
}

// joinSequences inner-joins the surviving gene ids against the gene
// partitions. Survivors without a sequence row are silently excluded.
func joinSequences(ctx context.Context, root string, cfg *config, res *Result) error {
	genes, err := partition.NewScanner(
		filepath.Join(root, "gene"),
		partition.WithFS(cfg.fsys),
		partition.WithOrganisms(cfg.orgs),
		partition.WithParallelism(cfg.parallelism),
	).Scan(ctx)
	if err != nil {
		return err
	}
	if genes.NumRows() == 0 || len(res.IDs) == 0 {
		return nil
	}

	ids, err := genes.Strings("gene_id")
	if err != nil {
		return err
	}
	seqs, err := genes.Strings("seq")
	if err != nil {
		return err
	}

	keep := make(map[string]struct{}, len(res.IDs))
	for _, id := range res.IDs {
		keep[id] = struct{}{}
	}

	sel := roaring.New()
	for i, id := range ids.Values {
		if _, ok := keep[id]; ok {
			sel.Add(uint32(i))
		}
	}

	res.Records = make([]GeneRecord, 0, sel.GetCardinality())
	it := sel.Iterator()
	for it.HasNext() {
		i := it.Next()
		res.Records = append(res.Records, GeneRecord{
			ID:  ids.Values[i],
			Seq: seqs.Values[i],
		})
	}
	return nil
}
