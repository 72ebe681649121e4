package text

import (
	"strings"
	"unicode"
)

// Chunk is the atomic unit of indexing: a bounded slice of one document's
// text plus the identity of the document it came from.
type Chunk struct {
	Text     string
	SourceID string
}

// SplitDocument splits one document into overlapping chunks of at most size
// characters, each tagged with sourceID. A document that is empty after
// trimming yields no chunks.
func SplitDocument(sourceID, text string, size, overlap int) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	parts := SplitText(text, size, overlap)
	chunks := make([]Chunk, 0, len(parts))
	for _, p := range parts {
		chunks = append(chunks, Chunk{Text: p, SourceID: sourceID})
	}
	return chunks
}

// SplitText slices text into windows of at most size characters, with
// consecutive windows sharing overlap characters so context survives chunk
// boundaries. Cuts prefer a paragraph break, then a sentence end, then a word
// boundary, and only fall back to a hard cut when the window contains no
// boundary at all. Slices are taken verbatim: no trimming, so the
// concatenated output always covers the full input.
func SplitText(text string, size, overlap int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = 500
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	var parts []string
	pos := 0
	for pos < len(runes) {
		end := pos + size
		if end >= len(runes) {
			parts = append(parts, string(runes[pos:]))
			break
		}

		cut := findCut(runes, pos, end)
		parts = append(parts, string(runes[pos:cut]))

		next := cut - overlap
		if next <= pos {
			// Overlap must never stall the walk.
			next = pos + 1
		}
		pos = next
	}
	return parts
}

// findCut picks the best boundary in (pos, end]. Boundary preference:
// paragraph > sentence > word > hard cut at end.
func findCut(runes []rune, pos, end int) int {
	if i := lastParagraphBreak(runes, pos, end); i > pos {
		return i
	}
	if i := lastSentenceEnd(runes, pos, end); i > pos {
		return i
	}
	if i := lastSpace(runes, pos, end); i > pos {
		return i
	}
	return end
}

func lastParagraphBreak(runes []rune, pos, end int) int {
	for i := end; i > pos+1; i-- {
		if runes[i-1] == '\n' && runes[i-2] == '\n' {
			return i
		}
	}
	return -1
}

func lastSentenceEnd(runes []rune, pos, end int) int {
	for i := end; i > pos+1; i-- {
		r := runes[i-1]
		if r == '\n' {
			return i
		}
		if (r == ' ' || r == '\t') && isSentenceTerminator(runes[i-2]) {
			return i
		}
	}
	return -1
}

func isSentenceTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func lastSpace(runes []rune, pos, end int) int {
	for i := end; i > pos; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return -1
}
