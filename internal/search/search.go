package search

import (
	"fmt"
	"sort"
	"strings"

	lfuzzy "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/reverig/internal/domain"
)

// FilterResult is a history entry matched by a filter query
type FilterResult struct {
	Entry          domain.HistoryEntry
	Text           string // The searched text (see Haystack)
	MatchedIndexes []int  // Positions in Text that matched (for highlighting)
	Score          int
}

// Haystack is the text an entry is searched by
func Haystack(e domain.HistoryEntry) string {
	return fmt.Sprintf("%s %d %s %s", e.DisplayTitle(), e.AppID, e.Operation, e.Outcome)
}

// FilterIndex implements sahilm/fuzzy.Source for zero-allocation fuzzy matching
type FilterIndex struct {
	entries    []domain.HistoryEntry
	texts      []string
	lowerTexts []string // Pre-computed lowercase haystacks
}

// NewFilterIndex indexes entries for repeated filtering
func NewFilterIndex(entries []domain.HistoryEntry) *FilterIndex {
	idx := &FilterIndex{
		entries:    entries,
		texts:      make([]string, len(entries)),
		lowerTexts: make([]string, len(entries)),
	}
	for i, e := range entries {
		idx.texts[i] = Haystack(e)
		idx.lowerTexts[i] = strings.ToLower(idx.texts[i])
	}
	return idx
}

// String returns the lowercase haystack at index i (implements fuzzy.Source)
func (idx *FilterIndex) String(i int) string { return idx.lowerTexts[i] }

// Len returns the number of entries (implements fuzzy.Source)
func (idx *FilterIndex) Len() int { return len(idx.entries) }

// Filter returns entries matching query, best first. An empty query
// returns every entry in index order.
func (idx *FilterIndex) Filter(query string) []FilterResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		results := make([]FilterResult, len(idx.entries))
		for i, e := range idx.entries {
			results[i] = FilterResult{Entry: e, Text: idx.texts[i]}
		}
		return results
	}

	matches := fuzzy.FindFrom(query, idx)
	results := make([]FilterResult, len(matches))
	for i, m := range matches {
		results[i] = FilterResult{
			Entry:          idx.entries[m.Index],
			Text:           idx.texts[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}
	return results
}

// Rank orders entries by how well their haystack matches query.
// Entries that do not contain the query's characters in order are dropped.
func Rank(query string, entries []domain.HistoryEntry) []domain.HistoryEntry {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return entries
	}

	haystacks := make([]string, len(entries))
	for i, e := range entries {
		haystacks[i] = strings.ToLower(Haystack(e))
	}

	ranks := lfuzzy.RankFindFold(query, haystacks)

	type rankedEntry struct {
		entry domain.HistoryEntry
		score int
	}
	ranked := make([]rankedEntry, len(ranks))
	for i, r := range ranks {
		ranked[i] = rankedEntry{
			entry: entries[r.OriginalIndex],
			score: matchScore(r.Target, query, r.Distance),
		}
	}

	// Sort by score (lower is better); ties keep input order
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score < ranked[j].score
	})

	results := make([]domain.HistoryEntry, len(ranked))
	for i, r := range ranked {
		results[i] = r.entry
	}
	return results
}

// matchScore calculates a match score for ranking
// Lower score = better match
func matchScore(haystack, query string, distance int) int {
	// Prefix match is best
	if strings.HasPrefix(haystack, query) {
		return 0
	}

	// Whole word match is very good
	for _, field := range strings.Fields(haystack) {
		if field == query {
			return 10
		}
	}

	// Contains match is good
	if strings.Contains(haystack, query) {
		return 50
	}

	// Subsequence match, ranked by distance
	return 100 + distance
}
