package driving

import "context"

// LoadReport summarises a reference-library load.
type LoadReport struct {
	// Loaded lists the filenames ingested.
	Loaded []string

	// Failed maps filenames to their load errors.
	Failed map[string]error
}

// Librarian loads and watches the reference document library.
type Librarian interface {
	// LoadDirectory ingests every .txt file in dir into the global
	// scope with reference_library provenance metadata.
	LoadDirectory(ctx context.Context, dir string) (*LoadReport, error)

	// Watch re-ingests reference files as they are created or modified.
	// Blocks until ctx is cancelled.
	Watch(ctx context.Context, dir string) error
}
