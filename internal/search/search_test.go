package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/reverig/internal/domain"
)

func sampleEntries() []domain.HistoryEntry {
	return []domain.HistoryEntry{
		{ID: "1", AppID: 440, Title: "Team Fortress 2", Operation: domain.OperationAdd, Outcome: domain.OutcomeSucceeded},
		{ID: "2", AppID: 570, Title: "Dota 2", Operation: domain.OperationAdd, Outcome: domain.OutcomeFailed},
		{ID: "3", AppID: 730, Operation: domain.OperationRemove, Outcome: domain.OutcomeSucceeded},
	}
}

func TestHaystack(t *testing.T) {
	t.Parallel()

	entries := sampleEntries()
	assert.Equal(t, "Team Fortress 2 440 add succeeded", Haystack(entries[0]))
	assert.Equal(t, "App 730 730 remove succeeded", Haystack(entries[2]))
}

func TestFilterIndex(t *testing.T) {
	t.Parallel()

	idx := NewFilterIndex(sampleEntries())
	assert.Equal(t, 3, idx.Len())

	all := idx.Filter("  ")
	require.Len(t, all, 3)
	assert.Nil(t, all[0].MatchedIndexes)

	results := idx.Filter("dota")
	require.NotEmpty(t, results)
	assert.Equal(t, "2", results[0].Entry.ID)
	assert.Equal(t, []int{0, 1, 2, 3}, results[0].MatchedIndexes)

	results = idx.Filter("FORTRESS")
	require.NotEmpty(t, results)
	assert.Equal(t, "1", results[0].Entry.ID)

	assert.Empty(t, idx.Filter("zzzz"))
}

func TestRank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty keeps order", query: "", want: []string{"1", "2", "3"}},
		{name: "prefix", query: "dota", want: []string{"2"}},
		{name: "word", query: "remove", want: []string{"3"}},
		{name: "appid", query: "440", want: []string{"1"}},
		{name: "shared word", query: "succeeded", want: []string{"1", "3"}},
		{name: "no match", query: "portal", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Rank(tt.query, sampleEntries())
			ids := make([]string, len(got))
			for i, e := range got {
				ids[i] = e.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}
