package record

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/genostore/batch"
	"github.com/hupe1980/genostore/internal/fs"
	"github.com/hupe1980/genostore/term"
)

func domainRow(src term.Term, name, geneID string) DomainRow {
	return DomainRow{Source: src, Start: 1, End: 10, Name: name, GeneID: geneID}
}

func TestDomainRecordsAppend(t *testing.T) {
	r := NewDomainRecords(4)

	require.NoError(t, r.Append(domainRow(term.Pfam, "PF00069", "g1")))
	require.NoError(t, r.Append(domainRow(term.GoTerm, "GO:0008150", "g1")))

	// ID sentinel rows are skipped, not stored.
	require.NoError(t, r.Append(domainRow(term.ID, "g1", "g1")))
	assert.Equal(t, 2, r.Len())
}

func TestDomainRecordsMalformed(t *testing.T) {
	r := NewDomainRecords(4)

	var mre *MalformedRowError
	err := r.Append(domainRow(term.Pfam, "", "g1"))
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "domain_name", mre.Field)

	err = r.Append(domainRow(term.Pfam, "PF00069", ""))
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "gene_id", mre.Field)
}

func TestDomainRecordsWritePerTermPartitions(t *testing.T) {
	dir := t.TempDir()
	r := NewDomainRecords(2)

	require.NoError(t, r.Append(domainRow(term.Pfam, "PF00069", "g1")))
	require.NoError(t, r.Append(domainRow(term.Pfam, "PF00072", "g1")))
	require.NoError(t, r.Append(domainRow(term.Pfam, "PF00512", "g2")))
	require.NoError(t, r.Append(domainRow(term.GoTerm, "GO:0008150", "g2")))

	err := r.Write(context.Background(), fs.Default, dir, batch.CompressionLZ4, 1)
	require.NoError(t, err)

	for _, src := range []term.Term{term.Pfam, term.GoTerm} {
		pdir := filepath.Join(dir, "source="+src.String())
		entries, err := fs.Default.ReadDir(pdir)
		require.NoError(t, err, "partition for %v missing", src)
		require.Len(t, entries, 1)
		assert.Equal(t, FileExt, filepath.Ext(entries[0].Name()))
	}

	// Terms without rows produce no directory.
	_, err = fs.Default.ReadDir(filepath.Join(dir, "source="+term.SMART.String()))
	assert.Error(t, err)
}

func TestGeneRecordsMalformed(t *testing.T) {
	r := NewGeneRecords(4)

	var mre *MalformedRowError
	err := r.Append(GeneRow{Seq: "ATG", Organism: "ecoli"})
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "gene_id", mre.Field)

	err = r.Append(GeneRow{GeneID: "g1", Organism: "ecoli"})
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "seq", mre.Field)

	err = r.Append(GeneRow{GeneID: "g1", Seq: "ATG"})
	require.True(t, errors.As(err, &mre))
	assert.Equal(t, "organism", mre.Field)
}

func TestSeqLengthSaturates(t *testing.T) {
	assert.Equal(t, int16(3), seqLength("ATG"))

	long := make([]byte, math.MaxInt16+100)
	assert.Equal(t, int16(math.MaxInt16), seqLength(string(long)))
}

func TestGeneRecordsWriteEmpty(t *testing.T) {
	dir := t.TempDir()
	r := NewGeneRecords(4)
	require.NoError(t, r.Write(fs.Default, filepath.Join(dir, "gene"), batch.CompressionNone))

	// No rows, no file, no directory.
	_, err := fs.Default.ReadDir(filepath.Join(dir, "gene"))
	assert.Error(t, err)
}
