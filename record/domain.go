package record

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/genostore/batch"
	"github.com/hupe1980/genostore/internal/fs"
	"github.com/hupe1980/genostore/term"
)

// DomainSchema describes the per-Term domain partition layout. The source
// column is implied by the `source=<Term>` directory and not stored.
func DomainSchema() batch.Schema {
	return batch.Schema{
		{Name: "start", Type: batch.TypeInt16},
		{Name: "end", Type: batch.TypeInt16},
		{Name: "domain_name", Type: batch.TypeString},
		{Name: "domain_desc", Type: batch.TypeString, Nullable: true},
		{Name: "gene_id", Type: batch.TypeString},
	}
}

// DomainRow is one annotation hit for a gene.
type DomainRow struct {
	Source term.Term
	Start  int16
	End    int16
	Name   string
	Desc   *string
	GeneID string
}

func domainColumns(rows []DomainRow) (*batch.ColumnSet, error) {
	n := len(rows)
	starts := &batch.Int16Column{Values: make([]int16, 0, n)}
	ends := &batch.Int16Column{Values: make([]int16, 0, n)}
	names := &batch.StringColumn{Values: make([]string, 0, n)}
	descs := &batch.StringColumn{
		Values: make([]string, 0, n),
		Valid:  make([]bool, 0, n),
	}
	geneIDs := &batch.StringColumn{Values: make([]string, 0, n)}

	for _, r := range rows {
		starts.Values = append(starts.Values, r.Start)
		ends.Values = append(ends.Values, r.End)
		names.Values = append(names.Values, r.Name)
		if r.Desc != nil {
			descs.Values = append(descs.Values, *r.Desc)
			descs.Valid = append(descs.Valid, true)
		} else {
			descs.Values = append(descs.Values, "")
			descs.Valid = append(descs.Valid, false)
		}
		geneIDs.Values = append(geneIDs.Values, r.GeneID)
	}

	return batch.NewColumnSet([]batch.Column{starts, ends, names, descs, geneIDs})
}

// DomainRecords accumulates annotation rows, one batch builder per Term.
//
// The builders live in a fixed table indexed by the Term ordinal; rows for a
// source land in that source's builder in ingestion order, so each Term
// produces an independent partition directory on write.
type DomainRecords struct {
	builders [term.Count]*batch.Builder[DomainRow]
	total    int
}

// NewDomainRecords creates accumulators for every Term with the given chunk
// size.
func NewDomainRecords(chunkSize int) *DomainRecords {
	r := &DomainRecords{}
	for i := range r.builders {
		r.builders[i] = batch.NewBuilder(chunkSize, domainColumns)
	}
	return r
}

// Append routes one row to its source's builder.
//
// Rows with the ID sentinel source denote a record's own identifier line and
// are skipped, never stored. An out-of-range source is fatal; missing
// required fields fail with *MalformedRowError.
func (r *DomainRecords) Append(row DomainRow) error {
	if !row.Source.Valid() {
		return fmt.Errorf("record: %w", &term.UnknownTermError{Name: row.Source.String()})
	}
	if row.Source == term.ID {
		return nil
	}
	if row.Name == "" {
		return &MalformedRowError{Field: "domain_name"}
	}
	if row.GeneID == "" {
		return &MalformedRowError{Field: "gene_id"}
	}
	if err := r.builders[row.Source].Append(row); err != nil {
		return err
	}
	r.total++
	return nil
}

// Len returns the number of rows appended across all sources.
func (r *DomainRecords) Len() int { return r.total }

// Write finalizes every builder and writes one partition directory per Term
// that received rows, under dir/source=<Term>/. Partitions are independent,
// so they are encoded and written in parallel; the first error aborts the
// remaining work. The receiver is consumed.
func (r *DomainRecords) Write(ctx context.Context, fsys fs.FileSystem, dir string, codec batch.Compression, parallelism int) error {
	schema := DomainSchema()

	type part struct {
		t    term.Term
		sets []*batch.ColumnSet
	}
	var parts []part
	for _, t := range term.All() {
		sets, err := r.builders[t].Finalize()
		if err != nil {
			return err
		}
		if len(sets) == 0 {
			continue
		}
		parts = append(parts, part{t: t, sets: sets})
	}

	g, _ := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for _, p := range parts {
		p := p
		g.Go(func() error {
			pdir := filepath.Join(dir, "source="+p.t.String())
			return writeBatchFile(fsys, pdir, schema, p.sets, codec)
		})
	}
	return g.Wait()
}
