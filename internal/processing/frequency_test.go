package processing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spacesedan/reviewcloud/internal/lexicon"
	"github.com/spacesedan/reviewcloud/internal/models"
	"github.com/spacesedan/reviewcloud/internal/nlp"
)

func TestTopBreaksTiesByInsertionOrder(t *testing.T) {
	f := NewFrequencyTable()
	for _, term := range []string{"A", "B", "C", "B", "A", "C", "C"} {
		f.Add(term)
	}

	assert.Equal(t, []models.TermCount{
		{Term: "C", Count: 3},
		{Term: "A", Count: 2},
		{Term: "B", Count: 2},
	}, f.Top(0))
	assert.Equal(t, []models.TermCount{{Term: "C", Count: 3}}, f.Top(1))
}

func TestTopOnEmptyTable(t *testing.T) {
	assert.Empty(t, NewFrequencyTable().Top(10))
}

func TestAggregateCountsAreOrderIndependent(t *testing.T) {
	e := nlp.NewExtractor(nlp.NewRuleTagger(), lexicon.Default().StopSet(nil), 2)
	rows := []string{"피부 크림 최고", "크림 향기", "피부 보습 크림"}
	permuted := []string{rows[2], rows[0], rows[1]}

	a := Aggregate(context.Background(), e, rows)
	b := Aggregate(context.Background(), e, permuted)

	assert.Equal(t, a.Len(), b.Len())
	for _, tc := range a.Top(0) {
		assert.Equal(t, tc.Count, b.Count(tc.Term), tc.Term)
	}
	assert.Equal(t, 3, a.Count("크림"))
	// Tie order follows accumulation order, so it differs between runs.
	assert.Equal(t, "피부", a.Top(2)[1].Term)
	assert.Equal(t, "피부", b.Top(2)[1].Term)
	assert.Equal(t, "최고", a.Top(0)[2].Term)
	assert.Equal(t, "보습", b.Top(0)[2].Term)
}
