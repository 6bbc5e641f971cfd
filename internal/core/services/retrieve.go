package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shiro-FFFFFF/loan-assistant/internal/core/domain"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driven"
	"github.com/shiro-FFFFFF/loan-assistant/internal/core/ports/driving"
	"github.com/shiro-FFFFFF/loan-assistant/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.Retriever = (*RetrievalService)(nil)

// RetrievalService ranks stored chunks against a query using keyword
// overlap. Session-owned chunks form the priority pool; reference-library
// chunks only fill the remainder when the session pool runs short, so
// user uploads are never crowded out by reference matches even when the
// reference matches score higher.
type RetrievalService struct {
	docStore driven.DocumentStore
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(docStore driven.DocumentStore) *RetrievalService {
	return &RetrievalService{docStore: docStore}
}

// Retrieve returns up to TopK chunks visible to the session, ordered by
// keyword-overlap score with the two-pool priority split.
func (s *RetrievalService) Retrieve(
	ctx context.Context, session domain.SessionContext, query string, opts domain.RetrieveOptions,
) ([]domain.RetrievedChunk, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q, session: %q", query, session.ID)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.RetrievedChunk{}, nil
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = domain.DefaultTopK
	}

	records, err := s.docStore.ChunksForSession(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	logger.Debug("Candidate chunks: %d", len(records))

	queryWords := wordSet(query)

	var priority, fallback []domain.RetrievedChunk
	for _, rec := range records {
		score := overlapScore(queryWords, rec.Chunk.Text)
		if score < opts.MinScore {
			continue
		}
		scored := domain.RetrievedChunk{ChunkRecord: rec, Score: score}
		if rec.IsReference {
			fallback = append(fallback, scored)
		} else {
			priority = append(priority, scored)
		}
	}

	sortByScore(priority)
	sortByScore(fallback)

	// Take from the priority pool first, then fill from the fallback
	// pool. With MinScore zero this returns low-value filler rather
	// than an empty result when nothing overlaps.
	results := make([]domain.RetrievedChunk, 0, topK)
	for _, c := range priority {
		if len(results) == topK {
			break
		}
		results = append(results, c)
	}
	for _, c := range fallback {
		if len(results) == topK {
			break
		}
		results = append(results, c)
	}

	logger.Info("Retrieved %d chunks (%d session, %d reference candidates)",
		len(results), len(priority), len(fallback))

	return results, nil
}

// wordSet lowercases and splits text into a set of words.
func wordSet(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// overlapScore counts the distinct query words present in the chunk text.
// Pure set-intersection cardinality: no term frequency, no length
// normalisation, no stemming.
func overlapScore(queryWords map[string]struct{}, text string) int {
	score := 0
	for w := range wordSet(text) {
		if _, ok := queryWords[w]; ok {
			score++
		}
	}
	return score
}

// sortByScore orders a pool descending by score. Ties break on chunk id
// so results are deterministic regardless of store iteration order.
func sortByScore(pool []domain.RetrievedChunk) {
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].Score != pool[j].Score {
			return pool[i].Score > pool[j].Score
		}
		return pool[i].Chunk.ID < pool[j].Chunk.ID
	})
}
