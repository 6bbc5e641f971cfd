package extractors

import (
	"fmt"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry selects the extractor for an upload's content type.
type Registry struct {
	extractors map[domain.ContentType]driven.Extractor
}

// NewRegistry creates a registry holding the given extractors.
// A later extractor for the same content type wins.
func NewRegistry(extractors ...driven.Extractor) *Registry {
	r := &Registry{extractors: make(map[domain.ContentType]driven.Extractor, len(extractors))}
	for _, e := range extractors {
		r.extractors[e.ContentType()] = e
	}
	return r
}

// Get returns the extractor for a content type.
func (r *Registry) Get(contentType domain.ContentType) (driven.Extractor, error) {
	e, ok := r.extractors[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: no extractor for %q", domain.ErrUnsupportedType, contentType)
	}
	return e, nil
}

// ContentTypes lists the registered content types.
func (r *Registry) ContentTypes() []domain.ContentType {
	types := make([]domain.ContentType, 0, len(r.extractors))
	for ct := range r.extractors {
		types = append(types, ct)
	}
	return types
}
