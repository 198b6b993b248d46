package ingest

import "strings"

// Aliases are matched in listed order, case-insensitively, against
// whitespace-trimmed column names.
var (
	ReviewAliases = []string{"리뷰", "내용", "리뷰내용", "리뷰 내용", "후기", "review", "content", "text", "comment", "body"}
	RatingAliases = []string{"별점", "평점", "점수", "rating", "score", "star", "stars"}
)

// FindColumn returns the first column matching an alias, trying aliases in
// order. When two columns normalize to the same key the later one wins.
func FindColumn(columns []string, aliases []string) (string, bool) {
	byKey := make(map[string]string, len(columns))
	for _, c := range columns {
		byKey[strings.ToLower(strings.TrimSpace(c))] = c
	}
	for _, alias := range aliases {
		if c, ok := byKey[strings.ToLower(alias)]; ok {
			return c, true
		}
	}
	return "", false
}

// Resolution is the outcome of column detection. When
// NeedsReviewSelection is set the caller has to ask the user for the
// review column; there is no silent default.
type Resolution struct {
	Review               string
	Rating               string
	NeedsReviewSelection bool
}

func (r Resolution) HasRating() bool {
	return r.Rating != ""
}

func ResolveColumns(columns []string) Resolution {
	var res Resolution
	review, ok := FindColumn(columns, ReviewAliases)
	if ok {
		res.Review = review
	} else {
		res.NeedsReviewSelection = true
	}
	if rating, ok := FindColumn(columns, RatingAliases); ok {
		res.Rating = rating
	}
	return res
}

// WithReview applies a user-selected review column.
func (r Resolution) WithReview(column string) Resolution {
	r.Review = column
	r.NeedsReviewSelection = column == ""
	return r
}
