package retrieval

import (
	"context"
	"time"

	"docent/internal/vector"
)

// Segment is one retrieved grounding unit: chunk text, the document it came
// from, and its rank in the result (0 = most similar). Segments are
// per-query and never persisted.
type Segment struct {
	Text       string  `json:"text"`
	SourceID   string  `json:"source_id"`
	Rank       int     `json:"rank"`
	Similarity float32 `json:"similarity"`
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type VectorStore interface {
	Query(ctx context.Context, vec []float32, topK int, namespace string) ([]vector.Match, error)
}

// Service turns a natural-language query into ranked grounded segments. It
// holds the same Embedder instance the ingestion pipeline uses, which keeps
// query vectors in the index's embedding space.
type Service struct {
	embedder  Embedder
	store     VectorStore
	namespace string
	logger    *QueryLogger
}

func NewService(e Embedder, s VectorStore, namespace string, l *QueryLogger) *Service {
	return &Service{embedder: e, store: s, namespace: namespace, logger: l}
}

// Retrieve embeds the query, runs the nearest-neighbor lookup and maps the
// matches to segments, preserving rank order.
func (s *Service) Retrieve(ctx context.Context, query string, topK int) ([]Segment, error) {
	start := time.Now()

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	matches, err := s.store.Query(ctx, vec, topK, s.namespace)
	if err != nil {
		return nil, err
	}

	segments := make([]Segment, 0, len(matches))
	for i, m := range matches {
		segments = append(segments, Segment{
			Text:       m.Text,
			SourceID:   m.SourceID,
			Rank:       i,
			Similarity: m.Similarity,
		})
	}

	if s.logger != nil {
		s.logger.Log(QueryLogEntry{
			Query:      query,
			TopK:       topK,
			NumResults: len(segments),
			Duration:   time.Since(start),
		})
	}
	return segments, nil
}
