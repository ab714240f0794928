package query

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/genostore/batch"
	"github.com/hupe1980/genostore/expr"
	"github.com/hupe1980/genostore/internal/fs"
	"github.com/hupe1980/genostore/record"
	"github.com/hupe1980/genostore/term"
)

// seedStore writes one organism: gene A with a Pfam and a GO hit, gene B
// with a Pfam hit only.
func seedStore(t *testing.T, root, org string) {
	t.Helper()
	ctx := context.Background()

	domains := record.NewDomainRecords(8)
	rows := []record.DomainRow{
		{Source: term.Pfam, Start: 10, End: 120, Name: "PF00069", GeneID: "A"},
		{Source: term.GoTerm, Start: 1, End: 1, Name: "GO:0008150", GeneID: "A"},
		{Source: term.Pfam, Start: 5, End: 80, Name: "PF00069", GeneID: "B"},
	}
	for _, r := range rows {
		require.NoError(t, domains.Append(r))
	}
	require.NoError(t, domains.Write(ctx, fs.Default,
		filepath.Join(root, "domain", "org="+org), batch.CompressionLZ4, 1))

	genes := record.NewGeneRecords(8)
	require.NoError(t, genes.Append(record.GeneRow{GeneID: "A", Seq: "ATGAAA", Organism: org}))
	require.NoError(t, genes.Append(record.GeneRow{GeneID: "B", Seq: "ATGCCC", Organism: org}))
	require.NoError(t, genes.Write(fs.Default,
		filepath.Join(root, "gene", "org="+org), batch.CompressionLZ4))
}

func TestRunIdentifiers(t *testing.T) {
	root := t.TempDir()
	seedStore(t, root, "ecoli")
	ctx := context.Background()

	res, err := Run(ctx, root, "GO:0008150", WithParallelism(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, res.IDs)

	res, err = Run(ctx, root, "PF00069", WithParallelism(1))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, res.IDs)

	res, err = Run(ctx, root, "PF00069 AND GO:0008150", WithParallelism(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, res.IDs)

	res, err = Run(ctx, root, "PF00069 AND NOT GO:0008150", WithParallelism(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, res.IDs)
}

func TestRunSequenceMode(t *testing.T) {
	root := t.TempDir()
	seedStore(t, root, "ecoli")

	res, err := Run(context.Background(), root, "GO:0008150",
		WithMode(ModeSequence), WithParallelism(1))
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "A", res.Records[0].ID)
	assert.Equal(t, "ATGAAA", res.Records[0].Seq)

	var buf bytes.Buffer
	require.NoError(t, res.WriteFASTA(&buf))
	assert.Equal(t, ">A\nATGAAA\n", buf.String())
}

// Survivors without a sequence row drop out of the join silently.
func TestRunSequenceInnerJoin(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	domains := record.NewDomainRecords(8)
	require.NoError(t, domains.Append(record.DomainRow{
		Source: term.Pfam, Start: 1, End: 2, Name: "PF00069", GeneID: "orphan",
	}))
	require.NoError(t, domains.Write(ctx, fs.Default,
		filepath.Join(root, "domain", "org=ecoli"), batch.CompressionNone, 1))

	res, err := Run(ctx, root, "PF00069", WithMode(ModeSequence), WithParallelism(1))
	require.NoError(t, err)
	assert.Equal(t, []string{"orphan"}, res.IDs)
	assert.Empty(t, res.Records)
}

func TestRunOrganismFilter(t *testing.T) {
	root := t.TempDir()
	seedStore(t, root, "ecoli")
	seedStore(t, root, "yeast")
	ctx := context.Background()

	res, err := Run(ctx, root, "PF00069",
		WithOrganisms([]string{"yeast"}), WithParallelism(1))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, res.IDs)

	// Across organisms, rows sharing a gene id fold into one group.
	res, err = Run(ctx, root, "PF00069", WithParallelism(1))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, res.IDs)
}

// An unclassifiable atom disables pruning but not the query.
func TestRunUnclassifiableAtomScansAll(t *testing.T) {
	root := t.TempDir()
	seedStore(t, root, "ecoli")

	res, err := Run(context.Background(), root, "PF00069 OR xyz123", WithParallelism(1))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, res.IDs)
}

func TestRunPruningLimitsReads(t *testing.T) {
	root := t.TempDir()
	seedStore(t, root, "ecoli")

	cfs := fs.NewCountingFS(nil)
	_, err := Run(context.Background(), root, "GO:0008150",
		WithFS(cfs), WithParallelism(1))
	require.NoError(t, err)

	require.Equal(t, int64(1), cfs.Opens())
	assert.Contains(t, cfs.Opened()[0], "source=GoTerm")
}

func TestRunParseError(t *testing.T) {
	_, err := Run(context.Background(), t.TempDir(), "PF00069 AND")
	var pe *expr.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 11, pe.Pos)
}

func TestRunEmptyStore(t *testing.T) {
	res, err := Run(context.Background(), t.TempDir(), "PF00069", WithParallelism(1))
	require.NoError(t, err)
	assert.Empty(t, res.IDs)
}
