package filter

import (
	"github.com/sahilm/fuzzy"

	"trickadex/internal/catalog"
)

const maxSuggestions = 5

// Suggest returns registered filter names that fuzzily match search, best
// first. It is only a typing aid; filtering never uses it.
func Suggest(search string) []string {
	if search == "" {
		return nil
	}
	names := catalog.FilterNames()
	matches := fuzzy.Find(search, names)
	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, names[m.Index])
	}
	return out
}
