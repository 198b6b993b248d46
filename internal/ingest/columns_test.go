package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindColumnCaseAndWhitespace(t *testing.T) {
	col, ok := FindColumn([]string{"id", "  Review ", "Stars"}, ReviewAliases)
	assert.True(t, ok)
	assert.Equal(t, "  Review ", col)

	col, ok = FindColumn([]string{"id", "  Review ", "Stars"}, RatingAliases)
	assert.True(t, ok)
	assert.Equal(t, "Stars", col)
}

func TestFindColumnFollowsAliasOrder(t *testing.T) {
	// "내용" precedes "review" in the alias list regardless of column order.
	col, ok := FindColumn([]string{"review", "내용"}, ReviewAliases)
	assert.True(t, ok)
	assert.Equal(t, "내용", col)
}

func TestResolveColumnsNeedsSelection(t *testing.T) {
	res := ResolveColumns([]string{"메모", "날짜"})

	assert.True(t, res.NeedsReviewSelection)
	assert.False(t, res.HasRating())

	res = res.WithReview("메모")
	assert.False(t, res.NeedsReviewSelection)
	assert.Equal(t, "메모", res.Review)
}

func TestResolveColumnsWithRating(t *testing.T) {
	res := ResolveColumns([]string{"후기", "평점"})

	assert.False(t, res.NeedsReviewSelection)
	assert.Equal(t, "후기", res.Review)
	assert.Equal(t, "평점", res.Rating)
}
