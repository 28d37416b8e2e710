package manager

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxSuggestionDistance is the largest edit distance still offered as a
// "did you mean" suggestion.
const maxSuggestionDistance = 3

// NotFoundError means an entity could not be resolved even after a
// sync. Name lookups may carry a fuzzy suggestion.
type NotFoundError struct {
	// Resource is the entity kind, e.g. "Project".
	Resource string

	// Identifier is the name or ID that was searched for.
	Identifier string

	// Suggestion is the closest active name, when one is near enough.
	Suggestion string
}

func (e *NotFoundError) Error() string {
	base := fmt.Sprintf("%s '%s' not found. Try running 'td sync' to refresh your cache.",
		e.Resource, e.Identifier)
	if e.Suggestion != "" {
		return fmt.Sprintf("%s Did you mean '%s'?", base, e.Suggestion)
	}
	return base
}

// AmbiguousError means an item ID prefix or collaborator query matched
// more than one entity.
type AmbiguousError struct {
	Message string
}

func (e *AmbiguousError) Error() string {
	return e.Message
}

// findSimilarName returns the candidate with the smallest Levenshtein
// distance to the query (case-insensitive), provided the distance is
// between 1 and maxSuggestionDistance. An exact match or a far miss
// returns the empty string.
func findSimilarName(query string, candidates []string) string {
	queryLower := strings.ToLower(query)

	best := ""
	bestDistance := -1
	for _, name := range candidates {
		if name == "" {
			continue
		}
		distance := levenshtein.ComputeDistance(queryLower, strings.ToLower(name))
		if bestDistance < 0 || distance < bestDistance {
			best = name
			bestDistance = distance
		}
	}

	if bestDistance >= 1 && bestDistance <= maxSuggestionDistance {
		return best
	}
	return ""
}
