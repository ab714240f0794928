// Package genostore is an embedded analytical store for genome annotations.
//
// Annotation and gene records are ingested once per organism into
// write-once, Hive-style partitioned columnar batch files:
//
//	<root>/domain/org=<organism>/source=<Term>/<uuid>.batch
//	<root>/gene/org=<organism>/<uuid>.batch
//
// Queries evaluate a boolean domain expression against the set of matched
// domain identifiers of each gene, reading only the partitions the
// expression and organism filter allow:
//
//	store, _ := genostore.Open("/data/annotations")
//	reg, _ := store.NewRegistration("ecoli")
//	// feed rows from an annotation parser ...
//	_ = reg.Commit(ctx)
//
//	res, _ := store.Find(ctx, "PF00069 AND GO:0008150",
//		query.WithOrganisms([]string{"ecoli"}))
package genostore
