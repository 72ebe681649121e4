// Package challenge generates comprehension quizzes from indexed content and
// grades submitted answers.
package challenge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"docent/features/qa"
	"docent/internal/retrieval"
	"docent/internal/text"
)

// probeQuery is the topic-agnostic retrieval query used to pull broad context
// for question generation.
const probeQuery = "main ideas, logic, and comprehension points"

const challengePrompt = `You are an AI assistant. Based only on the following document context, generate %d logic-based or comprehension-focused questions that test understanding of the material. Do not use external knowledge. Number each question.
Context:
%s
Questions:`

const evaluatePrompt = `You are an AI tutor. Given the document context, a question, and a user's answer, evaluate the answer for correctness.
Provide a short, simple feedback (2-3 sentences) and a brief justification, referencing the context (e.g., "This is supported by section/paragraph X").
Avoid long explanations. Be concise and easy to understand.
Context:
%s
Question:
%s
User's Answer:
%s
Feedback (with justification):`

// ErrNoContext is returned when question generation is attempted before any
// document has been indexed.
var ErrNoContext = errors.New("no indexed content available")

// GradeResult reports one graded submission. Score is a lexical similarity
// between the user's answer and the reference answer, an integer 0 to 100.
// It measures textual overlap, not semantic correctness: a correct answer
// phrased differently from the reference can score low.
type GradeResult struct {
	Feedback        string `json:"feedback"`
	Justification   string `json:"justification"`
	ReferenceAnswer string `json:"reference_answer"`
	Score           int    `json:"score"`
}

type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]retrieval.Segment, error)
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Answerer produces the reference answer for grading. It is the same
// grounded-answering path exposed to users.
type Answerer interface {
	Ask(ctx context.Context, query string) qa.Answer
}

type Service struct {
	retriever Retriever
	gen       Generator
	answerer  Answerer

	// genTopK favors coverage for the probe query; gradeTopK favors
	// precision when retrieving against one specific question.
	genTopK   int
	gradeTopK int
	count     int
}

func NewService(retriever Retriever, gen Generator, answerer Answerer, genTopK, gradeTopK, count int) *Service {
	if count <= 0 {
		count = 3
	}
	return &Service{
		retriever: retriever,
		gen:       gen,
		answerer:  answerer,
		genTopK:   genTopK,
		gradeTopK: gradeTopK,
		count:     count,
	}
}

// Generate produces exactly n questions from broad document context; n <= 0
// falls back to the configured default batch size. Generation output
// formatting is not guaranteed, so the raw text goes through the tolerant
// list parser.
func (s *Service) Generate(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		n = s.count
	}

	segments, err := s.retriever.Retrieve(ctx, probeQuery, s.genTopK)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve challenge context: %w", err)
	}
	if len(segments) == 0 {
		return nil, ErrNoContext
	}

	parts := make([]string, len(segments))
	for i, seg := range segments {
		parts[i] = seg.Text
	}

	raw, err := s.gen.Generate(ctx, fmt.Sprintf(challengePrompt, n, strings.Join(parts, "\n")))
	if err != nil {
		return nil, fmt.Errorf("failed to generate questions: %w", err)
	}

	questions, err := text.ParseListItems(raw, n)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated questions: %w", err)
	}
	return questions, nil
}

// Grade computes the reference answer through the grounded-answering path,
// asks the generator for qualitative feedback, and scores the submission by
// lexical similarity against the reference.
func (s *Service) Grade(ctx context.Context, question, userAnswer string) GradeResult {
	reference := s.answerer.Ask(ctx, question).Answer

	feedback, justification := s.evaluate(ctx, question, userAnswer)

	return GradeResult{
		Feedback:        feedback,
		Justification:   justification,
		ReferenceAnswer: reference,
		Score:           text.SimilarityScore(userAnswer, reference),
	}
}

func (s *Service) evaluate(ctx context.Context, question, userAnswer string) (string, string) {
	segments, err := s.retriever.Retrieve(ctx, question, s.gradeTopK)
	if err != nil {
		slog.ErrorContext(ctx, "retrieval failed during grading", "error", err)
		return "Unable to evaluate the answer at this time.", ""
	}

	parts := make([]string, len(segments))
	for i, seg := range segments {
		parts[i] = seg.Text
	}

	raw, err := s.gen.Generate(ctx, fmt.Sprintf(evaluatePrompt, strings.Join(parts, "\n"), question, userAnswer))
	if err != nil {
		slog.ErrorContext(ctx, "feedback generation failed", "error", err)
		return "Unable to evaluate the answer at this time.", ""
	}
	return splitFeedback(strings.TrimSpace(raw))
}

var justificationMarkers = []string{
	"this is supported by",
	"supported by",
	"according to",
}

// splitFeedback separates the evaluation text from its citation. The
// justification starts at the sentence containing the first citation marker;
// without a marker the whole text is feedback.
func splitFeedback(raw string) (string, string) {
	lower := strings.ToLower(raw)
	idx := -1
	for _, marker := range justificationMarkers {
		if i := strings.Index(lower, marker); i >= 0 && (idx < 0 || i < idx) {
			idx = i
		}
	}
	if idx < 0 {
		return raw, ""
	}

	start := 0
	if i := strings.LastIndex(raw[:idx], ". "); i >= 0 {
		start = i + 2
	}
	if i := strings.LastIndex(raw[:idx], "\n"); i+1 > start {
		start = i + 1
	}

	feedback := strings.TrimSpace(raw[:start])
	justification := strings.TrimSpace(raw[start:])
	if feedback == "" {
		return justification, ""
	}
	return feedback, justification
}
