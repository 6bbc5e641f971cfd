package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driving"
	"github.com/shiro-FFFFFF/loan-assistant/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.Librarian = (*LibraryService)(nil)

// LibraryService loads the reference document library: a directory of
// .txt loan guides ingested into the global scope so every session can
// retrieve them.
type LibraryService struct {
	ingestor driving.Ingestor
}

// NewLibraryService creates a new library service.
func NewLibraryService(ingestor driving.Ingestor) *LibraryService {
	return &LibraryService{ingestor: ingestor}
}

// LoadDirectory ingests every .txt file in dir as a reference document.
// Individual file failures are collected in the report, not fatal.
func (s *LibraryService) LoadDirectory(ctx context.Context, dir string) (*driving.LoadReport, error) {
	logger.Section("Reference Library")
	logger.Debug("Loading directory: %s", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read library directory: %w", err)
	}

	report := &driving.LoadReport{Failed: make(map[string]error)}
	for _, entry := range entries {
		if entry.IsDir() || !isReferenceFile(entry.Name()) {
			continue
		}
		if err := s.loadFile(ctx, dir, entry.Name()); err != nil {
			logger.Warn("Reference load failed for %s: %v", entry.Name(), err)
			report.Failed[entry.Name()] = err
			continue
		}
		report.Loaded = append(report.Loaded, entry.Name())
	}

	sort.Strings(report.Loaded)
	logger.Info("Reference library: %d loaded, %d failed", len(report.Loaded), len(report.Failed))

	return report, nil
}

// Watch re-ingests reference files as they are created or modified.
// Blocks until ctx is cancelled.
func (s *LibraryService) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Info("Watching reference library: %s", dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			name := filepath.Base(event.Name)
			if !isReferenceFile(name) {
				continue
			}
			if err := s.loadFile(ctx, dir, name); err != nil {
				logger.Warn("Reference reload failed for %s: %v", name, err)
				continue
			}
			logger.Info("Reloaded reference document: %s", name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// loadFile ingests one reference file under a stable ref_ document id so
// reloading the same file replaces rather than duplicates it.
func (s *LibraryService) loadFile(ctx context.Context, dir, name string) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	upload := &domain.Upload{
		Filename:    name,
		ContentType: domain.ContentTypeText,
		Data:        data,
		Metadata: map[string]any{
			domain.MetadataSource: domain.SourceReferenceLibrary,
			"file_type":           "loan_guide",
		},
	}

	_, err = s.ingestor.Ingest(ctx, domain.SessionContext{}, ReferenceDocumentID(name), upload)
	return err
}

// ReferenceDocumentID derives the stable document id for a reference
// library file, e.g. "loan_basics.txt" -> "ref_loan_basics".
func ReferenceDocumentID(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	return "ref_" + base
}

// isReferenceFile reports whether a file belongs to the library.
func isReferenceFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".txt")
}
