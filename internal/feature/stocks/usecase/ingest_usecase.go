// Package usecase implements the business logic for the stocks feature.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"pricepoint/internal/feature/stocks/domain"
	"pricepoint/internal/feature/stocks/domain/entity"
)

const dateLayout = "2006-01-02"

// SourceRow is one raw record from an external source, all fields still in
// string form. Line is the 1-based line number in the source file, kept so
// rejections can point back at the offending input.
type SourceRow struct {
	Line   int
	Date   string
	Ticker string
	Open   string
	High   string
	Low    string
	Close  string
	Volume string

	// Malformed marks a row whose field count did not match the header;
	// its values are unusable and the row is rejected as a whole.
	Malformed bool
}

// StockSource abstracts where raw records come from.
// Following Go convention: interfaces are defined by the consumer (usecase),
// not the provider (adapters).
type StockSource interface {
	Rows(ctx context.Context) ([]SourceRow, error)
}

// SourceFactory builds a StockSource for a source path. The wiring layer
// decides what a path means (a CSV file, in practice).
type SourceFactory func(sourcePath string) StockSource

// StockWriter is the append side of the store. Insert returns
// domain.ErrDuplicateKey on a (Date, Ticker) collision and leaves the
// existing row untouched.
type StockWriter interface {
	Insert(ctx context.Context, rec entity.StockRecord) error
}

// LoadSummary reports the outcome of one ingestion batch. It is produced
// once per Load call and not modified afterwards.
type LoadSummary struct {
	Attempted  int
	Committed  int
	Rejected   int
	Rejections []domain.Rejection
}

// IngestUsecase validates external rows and commits the admissible ones.
type IngestUsecase struct {
	newSource SourceFactory
	writer    StockWriter
}

// NewIngestUsecase creates a new IngestUsecase.
func NewIngestUsecase(newSource SourceFactory, writer StockWriter) *IngestUsecase {
	return &IngestUsecase{newSource: newSource, writer: writer}
}

// Load processes one full source in order. Data-quality problems never
// abort the batch: each bad row is recorded in the summary and processing
// continues. The only error Load returns alongside a partial summary is a
// store-connectivity failure (domain.ErrStoreUnavailable); an unreadable
// source fails before any row is attempted.
func (iu *IngestUsecase) Load(ctx context.Context, sourcePath string) (LoadSummary, error) {
	rows, err := iu.newSource(sourcePath).Rows(ctx)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("read source: %w", err)
	}

	summary := LoadSummary{Attempted: len(rows), Rejections: make([]domain.Rejection, 0)}
	for _, row := range rows {
		rec, rej := validateRow(row)
		if rej != nil {
			summary.Rejected++
			summary.Rejections = append(summary.Rejections, *rej)
			continue
		}

		if err := iu.writer.Insert(ctx, rec); err != nil {
			if errors.Is(err, domain.ErrDuplicateKey) {
				summary.Rejected++
				summary.Rejections = append(summary.Rejections, domain.Rejection{
					Line:   row.Line,
					Field:  "date,ticker",
					Reason: domain.ReasonDuplicateKey,
				})
				continue
			}
			slog.Error("load aborted, store unreachable", "line", row.Line, "error", err)
			return summary, err
		}
		summary.Committed++
	}

	slog.Info("load finished",
		"source", sourcePath,
		"attempted", summary.Attempted,
		"committed", summary.Committed,
		"rejected", summary.Rejected)
	return summary, nil
}

// validateRow parses and range-checks one raw row. The first problem found
// wins; a row is rejected for exactly one reason.
func validateRow(row SourceRow) (entity.StockRecord, *domain.Rejection) {
	reject := func(field string, reason domain.RejectReason) (entity.StockRecord, *domain.Rejection) {
		return entity.StockRecord{}, &domain.Rejection{Line: row.Line, Field: field, Reason: reason}
	}

	if row.Malformed {
		return reject("record", domain.ReasonFieldParse)
	}

	// Dates are stored as text and every query orders or filters on them
	// lexicographically, so only the canonical zero-padded ISO form is
	// admitted.
	t, err := time.Parse(dateLayout, row.Date)
	if err != nil || t.Format(dateLayout) != row.Date {
		return reject("date", domain.ReasonFieldParse)
	}

	ticker := strings.ToUpper(strings.TrimSpace(row.Ticker))
	if ticker == "" {
		return reject("ticker", domain.ReasonFieldParse)
	}

	prices := make(map[string]float64, 4)
	for _, f := range []struct {
		name string
		raw  string
	}{
		{"open", row.Open},
		{"high", row.High},
		{"low", row.Low},
		{"close", row.Close},
	} {
		v, err := strconv.ParseFloat(strings.TrimSpace(f.raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return reject(f.name, domain.ReasonFieldParse)
		}
		prices[f.name] = v
	}

	volume, err := strconv.ParseInt(strings.TrimSpace(row.Volume), 10, 64)
	if err != nil {
		return reject("volume", domain.ReasonFieldParse)
	}

	for _, f := range []string{"open", "high", "low", "close"} {
		if prices[f] < 0 {
			return reject(f, domain.ReasonRange)
		}
	}
	if volume < 0 {
		return reject("volume", domain.ReasonRange)
	}

	return entity.StockRecord{
		Date:   row.Date,
		Ticker: ticker,
		Open:   prices["open"],
		High:   prices["high"],
		Low:    prices["low"],
		Close:  prices["close"],
		Volume: volume,
	}, nil
}
