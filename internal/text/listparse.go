package text

import (
	"errors"
	"regexp"
	"strings"
)

var ErrNoItems = errors.New("no list items found")

// enumRe matches leading enumeration markers: "1.", "2)", "-", "*", "Q3:" etc.
var enumRe = regexp.MustCompile(`^\s*(?:[Qq]?\d+[.):]|\d+\s*[-–]|[-*•])\s*`)

// ParseListItems extracts exactly n items from free-form generated text.
// Generated output formatting is not contractually guaranteed, so parsing is
// deliberately lenient, with a fixed fallback ladder:
//
//  1. structured: lines carrying an enumeration marker, marker stripped
//  2. heuristic: the first n non-empty lines
//  3. pad/truncate: cycle parsed items up to n, or drop extras beyond n
//
// Padding reuses parsed items rather than inventing text. Only a fully blank
// input is an error.
func ParseListItems(raw string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}

	lines := strings.Split(raw, "\n")

	var structured []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if enumRe.MatchString(trimmed) {
			item := strings.TrimSpace(enumRe.ReplaceAllString(trimmed, ""))
			if item != "" {
				structured = append(structured, item)
			}
		}
	}

	items := structured
	if len(items) == 0 {
		for _, line := range lines {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			items = append(items, trimmed)
			if len(items) == n {
				break
			}
		}
	}

	if len(items) == 0 {
		return nil, ErrNoItems
	}

	if len(items) > n {
		return items[:n], nil
	}
	if len(items) < n {
		base := append([]string(nil), items...)
		for i := 0; len(items) < n; i++ {
			items = append(items, base[i%len(base)])
		}
	}
	return items, nil
}
