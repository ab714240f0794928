// Package record turns annotation and gene rows into on-disk partitions.
//
// DomainRecords routes each row to a per-source batch builder, so every
// annotation source gets its own `source=<Term>/` partition directory.
// GeneRecords accumulates gene rows into a single batch file. Both write
// through the batch container format.
package record
