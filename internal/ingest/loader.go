package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoHeader          = errors.New("file has no header row")
	ErrUnknownColumn     = errors.New("unknown column")
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat derives the format hint from a file name extension.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Load parses an uploaded spreadsheet. name only serves as the format hint.
func Load(name string, data []byte) (*Table, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var table *Table
	switch format {
	case FormatXLSX:
		table, err = loadXLSX(data)
	default:
		table, err = loadCSV(data)
	}
	if err != nil {
		slog.Error("[Loader] Failed to load file",
			slog.String("file", name),
			slog.String("error", err.Error()))
		return nil, err
	}

	slog.Info("[Loader] File loaded",
		slog.String("file", name),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.Columns)),
		slog.Duration("elapsed", time.Since(start)))
	return table, nil
}

// loadXLSX reads the first sheet; its first row is the header.
func loadXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open excel: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("open excel: no sheets found")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return newTable(rows, isBlank)
}

func loadCSV(data []byte) (*Table, error) {
	text, encoding := decodeText(data)
	slog.Debug("[Loader] Decoded CSV", slog.String("encoding", encoding))

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		records = append(records, rec)
	}
	return newTable(records, isBlankLine)
}
