package selection

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/popsearch/popsearch/internal/models"
)

// filterDestinations narrows items to those matching query. Names are
// matched fuzzily; targets and categories by substring. When nothing
// matches, all items are kept: the query is usually selected text meant
// for the destination, not a name to search for.
func filterDestinations(items []models.Destination, query string) []models.Destination {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" || len(items) == 0 {
		return items
	}

	matches := make(map[int]struct{})
	names := make([]string, len(items))
	for i := range items {
		names[i] = items[i].Name
	}
	for _, rank := range fuzzy.RankFindNormalizedFold(trimmed, names) {
		matches[rank.OriginalIndex] = struct{}{}
	}

	lower := strings.ToLower(trimmed)
	for i := range items {
		if strings.Contains(strings.ToLower(items[i].Target), lower) ||
			strings.Contains(strings.ToLower(items[i].CategoryName()), lower) {
			matches[i] = struct{}{}
		}
	}

	if len(matches) == 0 {
		return items
	}
	filtered := make([]models.Destination, 0, len(matches))
	for i := range items {
		if _, ok := matches[i]; ok {
			filtered = append(filtered, items[i])
		}
	}
	return filtered
}
