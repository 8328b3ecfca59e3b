package adapters

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"pricepoint/internal/feature/stocks/usecase"
)

// requiredColumns are the header names the source file must carry.
// Matching is case-insensitive and order-independent.
var requiredColumns = []string{"date", "ticker", "open", "high", "low", "close", "volume"}

type csvSource struct {
	path string
}

var _ usecase.StockSource = (*csvSource)(nil)

// NewCSVSource returns a source that reads delimited daily-stock records
// from the file at path. The file is opened and fully read on each Rows
// call; one Load processes one full source.
func NewCSVSource(path string) *csvSource {
	return &csvSource{path: path}
}

// Rows reads every record in the file. A missing file or an unusable
// header makes the whole source unreadable and returns an error; rows with
// the wrong field count are returned with Malformed set so the validator
// can reject them individually instead of losing the rest of the batch.
func (s *csvSource) Rows(ctx context.Context) ([]usecase.SourceRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // field-count problems are per-row, not fatal

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("source is missing required columns: %s", strings.Join(missing, ", "))
	}

	field := func(rec []string, name string) string {
		return rec[idx[name]]
	}
	inBounds := func(rec []string) bool {
		for _, col := range requiredColumns {
			if idx[col] >= len(rec) {
				return false
			}
		}
		return true
	}

	rows := make([]usecase.SourceRow, 0)
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rows = append(rows, usecase.SourceRow{Line: line, Malformed: true})
			continue
		}
		if !inBounds(rec) {
			rows = append(rows, usecase.SourceRow{Line: line, Malformed: true})
			continue
		}
		rows = append(rows, usecase.SourceRow{
			Line:   line,
			Date:   strings.TrimSpace(field(rec, "date")),
			Ticker: field(rec, "ticker"),
			Open:   field(rec, "open"),
			High:   field(rec, "high"),
			Low:    field(rec, "low"),
			Close:  field(rec, "close"),
			Volume: field(rec, "volume"),
		})
	}
	return rows, nil
}
