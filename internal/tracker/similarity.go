package tracker

import "strings"

// titleSimilarity scores how close two titles are, 0 to 1, using a
// normalized Levenshtein distance over lower-cased input.
func titleSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1.0
	}

	distance := levenshteinDistance(a, b)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

func levenshteinDistance(source, target string) int {
	if len(source) == 0 {
		return len(target)
	}
	if len(target) == 0 {
		return len(source)
	}

	// Keep source the shorter string so the rows stay small.
	if len(source) > len(target) {
		source, target = target, source
	}

	prevRow := make([]int, len(source)+1)
	currRow := make([]int, len(source)+1)

	for i := range prevRow {
		prevRow[i] = i
	}

	for j := 1; j <= len(target); j++ {
		currRow[0] = j
		for i := 1; i <= len(source); i++ {
			cost := 1
			if source[i-1] == target[j-1] {
				cost = 0
			}
			currRow[i] = min(
				prevRow[i]+1,      // deletion
				currRow[i-1]+1,    // insertion
				prevRow[i-1]+cost, // substitution
			)
		}
		prevRow, currRow = currRow, prevRow
	}

	return prevRow[len(source)]
}
