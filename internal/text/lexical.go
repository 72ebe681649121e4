package text

import "strings"

// SimilarityScore maps a pair of answers to an integer 0-100 using a
// normalized longest-common-subsequence ratio over case-folded,
// whitespace-collapsed runes: 2*LCS/(len(a)+len(b)).
//
// This is a lexical-similarity proxy, not a semantic-correctness judgment: a
// semantically correct answer phrased differently from the reference scores
// low. That is the documented contract of the score, kept deliberately free
// of fuzzy heuristics.
func SimilarityScore(a, b string) int {
	x := []rune(normalize(a))
	y := []rune(normalize(b))

	if len(x) == 0 || len(y) == 0 {
		return 0
	}

	lcs := lcsLength(x, y)
	ratio := float64(2*lcs) / float64(len(x)+len(y))
	return int(ratio*100 + 0.5)
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// lcsLength is the classic two-row DP, O(len(x)*len(y)) time and O(len(y))
// space. Answers are short interactive texts, so quadratic time is fine.
func lcsLength(x, y []rune) int {
	prev := make([]int, len(y)+1)
	curr := make([]int, len(y)+1)

	for i := 1; i <= len(x); i++ {
		for j := 1; j <= len(y); j++ {
			if x[i-1] == y[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(y)]
}
