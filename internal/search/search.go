package search

import (
	"github.com/sahilm/fuzzy"

	"linkstash/internal/model"
)

// Result is a single fuzzy match against a bookmark title.
type Result struct {
	Bookmark       *model.Bookmark
	MatchedIndexes []int
	Score          int
}

// bookmarkTitles implements fuzzy.Source over a bookmark slice.
type bookmarkTitles []*model.Bookmark

func (bt bookmarkTitles) String(i int) string {
	return bt[i].Title
}

func (bt bookmarkTitles) Len() int {
	return len(bt)
}

// Bookmarks fuzzy-matches query against bookmark titles and returns the
// matches best-score first. Trashed bookmarks never appear in results.
func Bookmarks(store *model.Store, query string) []Result {
	if query == "" {
		return nil
	}

	candidates := make(bookmarkTitles, 0, len(store.Bookmarks))
	for i := range store.Bookmarks {
		if store.Bookmarks[i].Trashed {
			continue
		}
		candidates = append(candidates, &store.Bookmarks[i])
	}

	matches := fuzzy.FindFrom(query, candidates)

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Bookmark:       candidates[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
