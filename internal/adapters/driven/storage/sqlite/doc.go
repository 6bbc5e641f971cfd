// Package sqlite provides the SQLite-backed document store.
//
// The store owns the documents and chunks tables. Schema changes are
// applied through embedded migrations at startup. Each logical write
// (document plus all of its chunks) runs in a single transaction, so a
// crash mid-write cannot leave a document without its chunks.
package sqlite
