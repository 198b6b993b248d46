package processing

import (
	"context"
	"sort"

	"github.com/spacesedan/reviewcloud/internal/models"
	"github.com/spacesedan/reviewcloud/internal/nlp"
)

// FrequencyTable counts terms and remembers the order in which each term
// was first seen. That order breaks ties when ranking.
type FrequencyTable struct {
	counts map[string]int
	order  []string
}

func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{counts: make(map[string]int)}
}

func (f *FrequencyTable) Add(term string) {
	if _, seen := f.counts[term]; !seen {
		f.order = append(f.order, term)
	}
	f.counts[term]++
}

func (f *FrequencyTable) Count(term string) int {
	return f.counts[term]
}

// Len is the number of distinct terms.
func (f *FrequencyTable) Len() int {
	return len(f.order)
}

// Top returns up to n entries by descending count, ties in first-seen
// order. n <= 0 returns every entry.
func (f *FrequencyTable) Top(n int) []models.TermCount {
	items := make([]models.TermCount, len(f.order))
	for i, term := range f.order {
		items[i] = models.TermCount{Term: term, Count: f.counts[term]}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

// Aggregate counts the extracted terms of every text, in text order.
func Aggregate(ctx context.Context, extractor *nlp.Extractor, texts []string) *FrequencyTable {
	table := NewFrequencyTable()
	for _, text := range texts {
		for term := range extractor.Terms(ctx, text) {
			table.Add(term)
		}
	}
	return table
}
