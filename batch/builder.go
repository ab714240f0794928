package batch

import "errors"

// DefaultChunkSize is the batch capacity used when none is configured.
const DefaultChunkSize = 4096

var (
	// ErrCapacityInvariant is returned when a builder's internal row count
	// exceeds its chunk size. It indicates a bug, not a caller error.
	ErrCapacityInvariant = errors.New("batch: builder over capacity")

	// ErrBuilderFinalized is returned when appending to a finalized builder.
	ErrBuilderFinalized = errors.New("batch: builder already finalized")
)

// Builder accumulates rows of type T and flushes them into immutable column
// sets of at most chunkSize rows.
//
// The capacity check runs before each append, so a flushed batch never
// exceeds chunkSize rows. Finalize emits a trailing partial batch if one is
// pending; a non-empty builder never drops rows.
type Builder[T any] struct {
	chunkSize int
	toColumns func([]T) (*ColumnSet, error)
	rows      []T
	flushed   []*ColumnSet
	total     int
	finalized bool
}

// NewBuilder creates a builder that converts row slices into column sets via
// toColumns. A non-positive chunkSize falls back to DefaultChunkSize.
func NewBuilder[T any](chunkSize int, toColumns func([]T) (*ColumnSet, error)) *Builder[T] {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Builder[T]{
		chunkSize: chunkSize,
		toColumns: toColumns,
	}
}

// Append adds one row, flushing the pending batch first if it is full.
func (b *Builder[T]) Append(row T) error {
	if b.finalized {
		return ErrBuilderFinalized
	}
	if len(b.rows) > b.chunkSize {
		return ErrCapacityInvariant
	}
	if len(b.rows) == b.chunkSize {
		if err := b.flush(); err != nil {
			return err
		}
	}
	b.rows = append(b.rows, row)
	b.total++
	return nil
}

// Len returns the total number of rows appended so far.
func (b *Builder[T]) Len() int { return b.total }

// Finalize flushes any pending partial batch and returns all column sets in
// append order. The builder is consumed and rejects further appends.
func (b *Builder[T]) Finalize() ([]*ColumnSet, error) {
	if b.finalized {
		return nil, ErrBuilderFinalized
	}
	b.finalized = true
	if len(b.rows) > 0 {
		if err := b.flush(); err != nil {
			return nil, err
		}
	}
	return b.flushed, nil
}

func (b *Builder[T]) flush() error {
	cs, err := b.toColumns(b.rows)
	if err != nil {
		return err
	}
	b.flushed = append(b.flushed, cs)
	b.rows = b.rows[:0]
	return nil
}
