package usecase

import (
	"context"
	"math"
	"time"

	"pricepoint/internal/feature/stocks/domain"
	"pricepoint/internal/feature/stocks/domain/entity"
)

// DefaultTopN is the number of rows TopVolumeDays returns when the caller
// does not ask for a specific count.
const DefaultTopN = 5

// StockReader is the read side of the store, consumed by the analytics
// usecase. Interfaces are defined by the consumer (usecase), not the
// provider (adapters).
type StockReader interface {
	CloseAggregates(ctx context.Context, ticker string) (entity.CloseAggregates, error)
	TopVolumeDays(ctx context.Context, ticker string, n int) ([]entity.StockRecord, error)
	PriceIncreasesOn(ctx context.Context, date string) ([]entity.StockRecord, error)
	Series(ctx context.Context, ticker string) ([]entity.SeriesPoint, error)
	ListTickers(ctx context.Context) ([]string, error)
}

// AnalyticsUsecase computes the fixed analytical reports. Every call
// recomputes from the store; there is no caching layer.
type AnalyticsUsecase struct {
	reader StockReader
}

// NewAnalyticsUsecase creates a new AnalyticsUsecase.
func NewAnalyticsUsecase(reader StockReader) *AnalyticsUsecase {
	return &AnalyticsUsecase{reader: reader}
}

// AverageClose returns the arithmetic mean of Close over all rows for a
// ticker. Zero matching rows yields domain.ErrNoDataForTicker.
func (au *AnalyticsUsecase) AverageClose(ctx context.Context, ticker string) (float64, error) {
	agg, err := au.reader.CloseAggregates(ctx, ticker)
	if err != nil {
		return 0, err
	}
	if agg.N == 0 {
		return 0, domain.ErrNoDataForTicker
	}
	return agg.Sum / float64(agg.N), nil
}

// Volatility returns the sample standard deviation of Close for a ticker:
//
//	sqrt( (Σclose² - (Σclose)²/N) / (N-1) )
//
// computed from the single-pass aggregates because the store has no native
// stddev primitive. One row is zero volatility by definition, not an error;
// zero rows is domain.ErrNoDataForTicker.
func (au *AnalyticsUsecase) Volatility(ctx context.Context, ticker string) (float64, error) {
	agg, err := au.reader.CloseAggregates(ctx, ticker)
	if err != nil {
		return 0, err
	}
	switch agg.N {
	case 0:
		return 0, domain.ErrNoDataForTicker
	case 1:
		return 0, nil
	}
	n := float64(agg.N)
	variance := (agg.SumSq - agg.Sum*agg.Sum/n) / (n - 1)
	if variance < 0 {
		// Rounding in the subtraction can push an all-equal series a hair
		// below zero.
		variance = 0
	}
	return math.Sqrt(variance), nil
}

// TopVolumeDays returns up to n rows for a ticker, ordered by volume
// descending with ties broken by ascending date. Fewer than n rows is not
// an error; n <= 0 falls back to DefaultTopN.
func (au *AnalyticsUsecase) TopVolumeDays(ctx context.Context, ticker string, n int) ([]entity.StockRecord, error) {
	if n <= 0 {
		n = DefaultTopN
	}
	return au.reader.TopVolumeDays(ctx, ticker, n)
}

// PriceIncreasesOn returns the rows for one date where Close > Open, across
// all tickers, ordered by ticker ascending. The date must be in YYYY-MM-DD
// form.
func (au *AnalyticsUsecase) PriceIncreasesOn(ctx context.Context, date string) ([]entity.StockRecord, error) {
	if t, err := time.Parse(dateLayout, date); err != nil || t.Format(dateLayout) != date {
		return nil, domain.ErrInvalidDate
	}
	return au.reader.PriceIncreasesOn(ctx, date)
}

// Series returns the ordered (date, close) sequence for a ticker, ascending
// by date. An absent ticker yields an empty sequence, not an error. This is
// the sole hand-off to whatever renders the series.
func (au *AnalyticsUsecase) Series(ctx context.Context, ticker string) ([]entity.SeriesPoint, error) {
	return au.reader.Series(ctx, ticker)
}

// ListTickers returns the distinct tickers present in the store, ascending.
func (au *AnalyticsUsecase) ListTickers(ctx context.Context) ([]string, error) {
	return au.reader.ListTickers(ctx)
}
