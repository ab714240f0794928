// Package batch implements the chunked columnar batch format.
//
// A Builder accumulates rows and flushes them into immutable column sets of
// at most chunkSize rows each. Finalized column sets are serialized into a
// self-describing binary container: a checksummed file header, a schema
// block, and one compressed column chunk per flushed batch, in append order.
package batch
