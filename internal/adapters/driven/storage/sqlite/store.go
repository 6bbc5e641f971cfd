package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/shiro-FFFFFF/loan-assistant/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driven"
)

// Store is the SQLite-based storage for the document index.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.loan-assistant/data/documents.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".loan-assistant", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "documents.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument upserts a document row and all of its chunks in a single
// transaction. A document whose content hash matches an existing document
// under a different id replaces that document entirely (last write wins),
// chunks included, so the file_hash uniqueness invariant holds without
// leaving orphaned chunk rows behind.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	if doc.ID == "" {
		return domain.ErrInvalidInput
	}

	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	if doc.UploadTime.IsZero() {
		doc.UploadTime = time.Now().UTC()
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Displace any prior document holding the same content hash.
	var priorID string
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM documents WHERE file_hash = ? AND id != ?",
		doc.FileHash, doc.ID).Scan(&priorID)
	switch {
	case err == sql.ErrNoRows:
		// No duplicate content
	case err != nil:
		return fmt.Errorf("checking content hash: %w", err)
	default:
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM chunks WHERE document_id = ?", priorID); err != nil {
			return fmt.Errorf("removing displaced chunks: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM documents WHERE id = ?", priorID); err != nil {
			return fmt.Errorf("removing displaced document: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, filename, content, content_type, upload_time, file_hash, metadata, session_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			content = excluded.content,
			content_type = excluded.content_type,
			upload_time = excluded.upload_time,
			file_hash = excluded.file_hash,
			metadata = excluded.metadata,
			session_id = excluded.session_id
	`, doc.ID, doc.Filename, doc.Content, string(doc.ContentType),
		doc.UploadTime, doc.FileHash, string(metadataJSON), nullString(doc.SessionID))

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	// Clear chunks from a previous version of this document so a shorter
	// re-ingest does not leave stale tail chunks behind.
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM chunks WHERE document_id = ?", doc.ID); err != nil {
		return fmt.Errorf("clearing previous chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, chunk_text, chunk_index)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id,
			chunk_text = excluded.chunk_text,
			chunk_index = excluded.chunk_index
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.DocumentID,
			chunk.Text, chunk.Index); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, filename, content, content_type, upload_time, file_hash, metadata, session_id
		FROM documents WHERE id = ?
	`, id)

	return scanDocument(row)
}

// ChunksForSession returns all chunks visible to a session joined with
// their owning document. Global documents (NULL session) are always
// visible; session-scoped documents only within their own session.
// Ordered by chunk id so tie-breaking downstream is deterministic.
func (s *documentStore) ChunksForSession(
	ctx context.Context, session domain.SessionContext,
) ([]domain.ChunkRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT c.id, c.document_id, c.chunk_text, c.chunk_index,
		       d.filename, d.content_type, d.metadata, d.session_id
		FROM chunks c
		JOIN documents d ON c.document_id = d.id
		WHERE d.session_id IS NULL OR d.session_id = ?
		ORDER BY c.id
	`, session.ID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var records []domain.ChunkRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.ChunkRecord
		var contentType, metadataJSON string
		var sessionID sql.NullString
		if err := rows.Scan(&rec.Chunk.ID, &rec.Chunk.DocumentID, &rec.Chunk.Text,
			&rec.Chunk.Index, &rec.Filename, &contentType, &metadataJSON, &sessionID); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}

		rec.ContentType = domain.ContentType(contentType)
		rec.SessionID = sessionID.String

		if metadataJSON != "" {
			if err := json.Unmarshal([]byte(metadataJSON), &rec.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshaling metadata: %w", err)
			}
		}

		src, _ := rec.Metadata[domain.MetadataSource].(string)
		rec.IsReference = src == domain.SourceReferenceLibrary

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return records, nil
}

// ListDocuments returns the documents visible to a session.
func (s *documentStore) ListDocuments(
	ctx context.Context, session domain.SessionContext,
) ([]domain.Document, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, filename, content, content_type, upload_time, file_hash, metadata, session_id
		FROM documents
		WHERE session_id IS NULL OR session_id = ?
		ORDER BY upload_time, id
	`, session.ID)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocumentRows(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// Counts reports the number of document and chunk rows.
func (s *documentStore) Counts(ctx context.Context) (int, int, error) {
	var documents, chunks int
	if err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents").Scan(&documents); err != nil {
		return 0, 0, fmt.Errorf("counting documents: %w", err)
	}
	if err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks").Scan(&chunks); err != nil {
		return 0, 0, fmt.Errorf("counting chunks: %w", err)
	}
	return documents, chunks, nil
}

// DeleteAll truncates both tables. Chunks go first to satisfy the
// foreign key constraint.
func (s *documentStore) DeleteAll(ctx context.Context) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks"); err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("deleting documents: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Helper Functions ====================

// nullString converts an empty string to a NULL-able value.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (*domain.Document, error) {
	var doc domain.Document
	var contentType, metadataJSON string
	var sessionID sql.NullString
	var uploadTime sql.NullTime

	if err := row.Scan(&doc.ID, &doc.Filename, &doc.Content, &contentType,
		&uploadTime, &doc.FileHash, &metadataJSON, &sessionID); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.ContentType = domain.ContentType(contentType)
	doc.SessionID = sessionID.String
	if uploadTime.Valid {
		doc.UploadTime = uploadTime.Time
	}

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}

	return &doc, nil
}

// scanDocumentRows scans a document from *sql.Rows.
func scanDocumentRows(rows *sql.Rows) (*domain.Document, error) {
	var doc domain.Document
	var contentType, metadataJSON string
	var sessionID sql.NullString
	var uploadTime sql.NullTime

	if err := rows.Scan(&doc.ID, &doc.Filename, &doc.Content, &contentType,
		&uploadTime, &doc.FileHash, &metadataJSON, &sessionID); err != nil {
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.ContentType = domain.ContentType(contentType)
	doc.SessionID = sessionID.String
	if uploadTime.Valid {
		doc.UploadTime = uploadTime.Time
	}

	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}

	return &doc, nil
}
