// Completion: 100% - Utility module complete
package engine

import (
	"sort"
	"strings"
)

// utils.go - name similarity helpers used for "did you mean" diagnostics

// maxSuggestionDistance is the largest edit distance still offered as a suggestion
const maxSuggestionDistance = 3

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	// Two rows are enough, the full matrix is never read back
	prev := make([]int, len(s2)+1)
	cur := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		cur[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}

	return prev[len(s2)]
}

// SimilarNames returns up to maxSuggestions candidates close to name, closest first
func SimilarNames(name string, candidates []string, maxSuggestions int) []string {
	type suggestion struct {
		name     string
		distance int
	}

	var suggestions []suggestion
	for _, candidate := range candidates {
		dist := levenshteinDistance(strings.ToLower(name), strings.ToLower(candidate))
		if dist <= maxSuggestionDistance && candidate != name {
			suggestions = append(suggestions, suggestion{candidate, dist})
		}
	}

	// Sort by distance (closest first)
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].distance == suggestions[j].distance {
			return suggestions[i].name < suggestions[j].name
		}
		return suggestions[i].distance < suggestions[j].distance
	})

	result := make([]string, 0, maxSuggestions)
	for i := 0; i < len(suggestions) && i < maxSuggestions; i++ {
		result = append(result, suggestions[i].name)
	}
	return result
}

// DidYouMean formats the closest candidate as a suggestion, or returns ""
func DidYouMean(name string, candidates []string) string {
	similar := SimilarNames(name, candidates, 1)
	if len(similar) == 0 {
		return ""
	}
	return "did you mean '" + similar[0] + "'?"
}
