package genostore

import (
	"runtime"

	"github.com/hupe1980/genostore/batch"
	"github.com/hupe1980/genostore/internal/fs"
)

type options struct {
	chunkSize   int
	codec       batch.Compression
	parallelism int
	fsys        fs.FileSystem
	logger      *Logger
}

func defaultOptions() options {
	return options{
		chunkSize:   batch.DefaultChunkSize,
		codec:       batch.CompressionLZ4,
		parallelism: runtime.GOMAXPROCS(0),
		fsys:        fs.Default,
		logger:      NoopLogger(),
	}
}

// Option configures a Store.
type Option func(*options)

// WithChunkSize sets the batch capacity used during ingestion.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithCompression sets the codec for batch column chunks.
func WithCompression(codec batch.Compression) Option {
	return func(o *options) { o.codec = codec }
}

// WithParallelism bounds the worker fan-out for partition encodes and
// decodes. Use 1 for deterministic single-threaded runs.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.parallelism = n
		}
	}
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func withFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		if fsys != nil {
			o.fsys = fsys
		}
	}
}
