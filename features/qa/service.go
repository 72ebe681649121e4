// Package qa answers user questions strictly from indexed document content.
package qa

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"docent/internal/retrieval"
)

// Answer carries the generated text plus the deduplicated set of source
// documents the contributing segments came from.
type Answer struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]retrieval.Segment, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GroundingPolicy decides whether a generated answer carries an explicit
// grounding reference. It is a heuristic, not a verifier; stricter policies
// can be substituted without touching the synthesis path.
type GroundingPolicy interface {
	Grounded(answer string) bool
}

// PhraseGrounding accepts an answer that contains any of a small set of
// citation phrasings, case-insensitively.
type PhraseGrounding struct{}

var groundingMarkers = []string{
	"supported by",
	"according to",
	"section",
	"paragraph",
	"quote",
}

func (PhraseGrounding) Grounded(answer string) bool {
	lower := strings.ToLower(answer)
	for _, marker := range groundingMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

type Service struct {
	retriever Retriever
	gen       Generator
	grounding GroundingPolicy
	topK      int
}

func NewService(retriever Retriever, gen Generator, topK int) *Service {
	return &Service{
		retriever: retriever,
		gen:       gen,
		grounding: PhraseGrounding{},
		topK:      topK,
	}
}

// WithGroundingPolicy replaces the default phrase matcher.
func (s *Service) WithGroundingPolicy(p GroundingPolicy) *Service {
	s.grounding = p
	return s
}

// Ask answers a question from retrieved context. A failed retrieval or
// generation degrades to the fallback answer with no sources; a single bad
// question must not take down the session.
func (s *Service) Ask(ctx context.Context, query string) Answer {
	segments, err := s.retriever.Retrieve(ctx, query, s.topK)
	if err != nil {
		slog.ErrorContext(ctx, "retrieval failed, degrading to fallback", "error", err)
		return Answer{Answer: FallbackAnswer, Sources: []string{}}
	}
	if len(segments) == 0 {
		return Answer{Answer: FallbackAnswer, Sources: []string{}}
	}

	generated, err := s.gen.Generate(ctx, fmt.Sprintf(answerPrompt, joinContext(segments), query))
	if err != nil {
		slog.ErrorContext(ctx, "answer generation failed, degrading to fallback", "error", err)
		return Answer{Answer: FallbackAnswer, Sources: []string{}}
	}

	answer := strings.TrimSpace(generated)
	if answer == "" || strings.Contains(answer, FallbackAnswer) {
		return Answer{Answer: FallbackAnswer, Sources: []string{}}
	}
	if !s.grounding.Grounded(answer) {
		answer = answer + "\n\n" + groundingDisclaimer
	}

	return Answer{Answer: answer, Sources: uniqueSources(segments)}
}

func joinContext(segments []retrieval.Segment) string {
	parts := make([]string, len(segments))
	for i, seg := range segments {
		parts[i] = seg.Text
	}
	return strings.Join(parts, "\n")
}

func uniqueSources(segments []retrieval.Segment) []string {
	seen := make(map[string]struct{}, len(segments))
	sources := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.SourceID == "" {
			continue
		}
		if _, ok := seen[seg.SourceID]; ok {
			continue
		}
		seen[seg.SourceID] = struct{}{}
		sources = append(sources, seg.SourceID)
	}
	sort.Strings(sources)
	return sources
}
