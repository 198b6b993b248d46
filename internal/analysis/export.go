package analysis

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/spacesedan/reviewcloud/internal/models"
)

const (
	CONTENT_TYPE_PNG      = "image/png"
	CONTENT_TYPE_CSV      = "text/csv; charset=utf-8"
	CONTENT_TYPE_MARKDOWN = "text/markdown; charset=utf-8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// KeywordCSV writes a ranked keyword table as UTF-8 CSV with a byte order
// mark so spreadsheet tools detect the encoding. Ranks start at 1.
func KeywordCSV(items []models.TermCount) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"순위", "키워드", "빈도"}); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for i, item := range items {
		row := []string{strconv.Itoa(i + 1), item.Term, strconv.Itoa(item.Count)}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// CloudFileName is the download name of a bucket's word cloud.
func CloudFileName(b models.Bucket) string {
	switch b {
	case models.BucketPositive:
		return "pos_wc.png"
	case models.BucketNegative:
		return "neg_wc.png"
	default:
		return "all_wc.png"
	}
}

// KeywordFileName is the download name of a bucket's keyword table.
func KeywordFileName(b models.Bucket) string {
	return b.Label() + "_keywords.csv"
}
