package record

import (
	"math"

	"github.com/hupe1980/genostore/batch"
	"github.com/hupe1980/genostore/internal/fs"
)

// GeneSchema describes the gene partition layout.
func GeneSchema() batch.Schema {
	return batch.Schema{
		{Name: "gene_id", Type: batch.TypeString},
		{Name: "seq", Type: batch.TypeString},
		{Name: "length", Type: batch.TypeInt16},
		{Name: "desc", Type: batch.TypeString, Nullable: true},
		{Name: "organism", Type: batch.TypeString},
	}
}

// GeneRow is one gene record with its sequence.
type GeneRow struct {
	GeneID   string
	Seq      string
	Desc     *string
	Organism string
}

func geneColumns(rows []GeneRow) (*batch.ColumnSet, error) {
	n := len(rows)
	geneIDs := &batch.StringColumn{Values: make([]string, 0, n)}
	seqs := &batch.StringColumn{Values: make([]string, 0, n)}
	lengths := &batch.Int16Column{Values: make([]int16, 0, n)}
	descs := &batch.StringColumn{
		Values: make([]string, 0, n),
		Valid:  make([]bool, 0, n),
	}
	organisms := &batch.StringColumn{Values: make([]string, 0, n)}

	for _, r := range rows {
		geneIDs.Values = append(geneIDs.Values, r.GeneID)
		seqs.Values = append(seqs.Values, r.Seq)
		lengths.Values = append(lengths.Values, seqLength(r.Seq))
		if r.Desc != nil {
			descs.Values = append(descs.Values, *r.Desc)
			descs.Valid = append(descs.Valid, true)
		} else {
			descs.Values = append(descs.Values, "")
			descs.Valid = append(descs.Valid, false)
		}
		organisms.Values = append(organisms.Values, r.Organism)
	}

	return batch.NewColumnSet([]batch.Column{geneIDs, seqs, lengths, descs, organisms})
}

// seqLength derives the stored length column. Sequences longer than the
// int16 range saturate at the maximum instead of wrapping.
func seqLength(seq string) int16 {
	if len(seq) > math.MaxInt16 {
		return math.MaxInt16
	}
	return int16(len(seq))
}

// GeneRecords accumulates gene rows into a single chunked batch.
//
// gene_id is expected to be unique within one registration; uniqueness
// across organisms is not enforced here.
type GeneRecords struct {
	builder *batch.Builder[GeneRow]
}

// NewGeneRecords creates an accumulator with the given chunk size.
func NewGeneRecords(chunkSize int) *GeneRecords {
	return &GeneRecords{builder: batch.NewBuilder(chunkSize, geneColumns)}
}

// Append adds one gene row. Missing required fields fail with
// *MalformedRowError.
func (r *GeneRecords) Append(row GeneRow) error {
	if row.GeneID == "" {
		return &MalformedRowError{Field: "gene_id"}
	}
	if row.Seq == "" {
		return &MalformedRowError{Field: "seq"}
	}
	if row.Organism == "" {
		return &MalformedRowError{Field: "organism"}
	}
	return r.builder.Append(row)
}

// Len returns the number of rows appended so far.
func (r *GeneRecords) Len() int { return r.builder.Len() }

// Write finalizes the accumulator and writes a single batch file under dir.
// The receiver is consumed.
func (r *GeneRecords) Write(fsys fs.FileSystem, dir string, codec batch.Compression) error {
	sets, err := r.builder.Finalize()
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		return nil
	}
	return writeBatchFile(fsys, dir, GeneSchema(), sets, codec)
}
