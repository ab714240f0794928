package record

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/hupe1980/genostore/batch"
	"github.com/hupe1980/genostore/internal/fs"
)

// FileExt is the extension of batch files inside a partition directory.
const FileExt = ".batch"

// writeBatchFile writes the column sets into a freshly named batch file
// under dir, creating the directory if needed. Files are named by a fresh
// uuid so repeated registrations into sibling partitions never collide.
func writeBatchFile(fsys fs.FileSystem, dir string, schema batch.Schema, sets []*batch.ColumnSet, codec batch.Compression) error {
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	path := filepath.Join(dir, uuid.NewString()+FileExt)
	f, err := fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(f)
	if err := batch.Write(bw, schema, sets, codec); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
