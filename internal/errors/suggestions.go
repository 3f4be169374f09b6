package errors

import (
	"sort"
	"strings"
)

// maxSuggestionDistance bounds how different a candidate may be from the
// input before it stops being offered as a suggestion.
const maxSuggestionDistance = 2

// Suggest returns the candidates closest to input, best first. Candidates
// that merely share a prefix or contain the input are offered as well.
func Suggest(input string, candidates []string) []string {
	type scored struct {
		name     string
		distance int
	}

	lowered := strings.ToLower(input)
	var matches []scored
	for _, candidate := range candidates {
		lc := strings.ToLower(candidate)
		d := levenshtein(lowered, lc)
		switch {
		case d <= maxSuggestionDistance:
			matches = append(matches, scored{candidate, d})
		case lowered != "" && (strings.HasPrefix(lc, lowered) || strings.Contains(lowered, lc)):
			matches = append(matches, scored{candidate, maxSuggestionDistance + 1})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].distance != matches[j].distance {
			return matches[i].distance < matches[j].distance
		}
		return matches[i].name < matches[j].name
	})

	result := make([]string, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.name)
	}
	return result
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}
