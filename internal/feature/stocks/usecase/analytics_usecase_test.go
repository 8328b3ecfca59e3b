package usecase_test

import (
	"context"
	"errors"
	"testing"

	"pricepoint/internal/feature/stocks/domain"
	"pricepoint/internal/feature/stocks/domain/entity"
	"pricepoint/internal/feature/stocks/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ErrStore is the sentinel shared between mocks and expectations.
var ErrStore = errors.New("store error")

// mockReader is a StockReader with overridable func fields.
type mockReader struct {
	CloseAggregatesFunc  func(ctx context.Context, ticker string) (entity.CloseAggregates, error)
	TopVolumeDaysFunc    func(ctx context.Context, ticker string, n int) ([]entity.StockRecord, error)
	PriceIncreasesOnFunc func(ctx context.Context, date string) ([]entity.StockRecord, error)
	SeriesFunc           func(ctx context.Context, ticker string) ([]entity.SeriesPoint, error)
	ListTickersFunc      func(ctx context.Context) ([]string, error)
}

func (m *mockReader) CloseAggregates(ctx context.Context, ticker string) (entity.CloseAggregates, error) {
	return m.CloseAggregatesFunc(ctx, ticker)
}

func (m *mockReader) TopVolumeDays(ctx context.Context, ticker string, n int) ([]entity.StockRecord, error) {
	return m.TopVolumeDaysFunc(ctx, ticker, n)
}

func (m *mockReader) PriceIncreasesOn(ctx context.Context, date string) ([]entity.StockRecord, error) {
	return m.PriceIncreasesOnFunc(ctx, date)
}

func (m *mockReader) Series(ctx context.Context, ticker string) ([]entity.SeriesPoint, error) {
	return m.SeriesFunc(ctx, ticker)
}

func (m *mockReader) ListTickers(ctx context.Context) ([]string, error) {
	return m.ListTickersFunc(ctx)
}

// aggOf computes the aggregates a store would return for these closes.
func aggOf(closes ...float64) entity.CloseAggregates {
	agg := entity.CloseAggregates{N: int64(len(closes))}
	for _, c := range closes {
		agg.Sum += c
		agg.SumSq += c * c
	}
	return agg
}

func fixedAgg(agg entity.CloseAggregates) *mockReader {
	return &mockReader{
		CloseAggregatesFunc: func(ctx context.Context, ticker string) (entity.CloseAggregates, error) {
			return agg, nil
		},
	}
}

func TestAnalyticsUsecase_AverageClose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		agg     entity.CloseAggregates
		want    float64
		wantErr error
	}{
		{name: "two closes", agg: aggOf(100, 200), want: 150.0},
		{name: "single close", agg: aggOf(42), want: 42.0},
		{name: "no rows", agg: aggOf(), wantErr: domain.ErrNoDataForTicker},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			au := usecase.NewAnalyticsUsecase(fixedAgg(tt.agg))
			got, err := au.AverageClose(context.Background(), "AAPL")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestAnalyticsUsecase_Volatility(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		agg     entity.CloseAggregates
		want    float64
		wantErr error
	}{
		// Sample standard deviation of [10, 12, 14] is exactly 2.
		{name: "three closes", agg: aggOf(10, 12, 14), want: 2.0},
		{name: "single close is zero, not an error", agg: aggOf(10), want: 0},
		{name: "no rows", agg: aggOf(), wantErr: domain.ErrNoDataForTicker},
		{name: "constant closes", agg: aggOf(5, 5, 5, 5), want: 0},
		{
			// Sum²/N marginally exceeding SumSq from float rounding must
			// clamp to zero instead of producing NaN.
			name: "rounding below zero",
			agg:  entity.CloseAggregates{N: 2, Sum: 20, SumSq: 199.99999999999997},
			want: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			au := usecase.NewAnalyticsUsecase(fixedAgg(tt.agg))
			got, err := au.Volatility(context.Background(), "AAPL")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestAnalyticsUsecase_Volatility_ReaderError(t *testing.T) {
	t.Parallel()

	au := usecase.NewAnalyticsUsecase(&mockReader{
		CloseAggregatesFunc: func(ctx context.Context, ticker string) (entity.CloseAggregates, error) {
			return entity.CloseAggregates{}, ErrStore
		},
	})

	_, err := au.Volatility(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrStore)
}

func TestAnalyticsUsecase_TopVolumeDays_DefaultsN(t *testing.T) {
	t.Parallel()

	var gotN int
	au := usecase.NewAnalyticsUsecase(&mockReader{
		TopVolumeDaysFunc: func(ctx context.Context, ticker string, n int) ([]entity.StockRecord, error) {
			gotN = n
			return nil, nil
		},
	})

	_, err := au.TopVolumeDays(context.Background(), "AAPL", 0)
	require.NoError(t, err)
	assert.Equal(t, usecase.DefaultTopN, gotN)

	_, err = au.TopVolumeDays(context.Background(), "AAPL", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, gotN, "an explicit n must pass through untouched")
}

func TestAnalyticsUsecase_PriceIncreasesOn_ValidatesDate(t *testing.T) {
	t.Parallel()

	called := false
	au := usecase.NewAnalyticsUsecase(&mockReader{
		PriceIncreasesOnFunc: func(ctx context.Context, date string) ([]entity.StockRecord, error) {
			called = true
			return []entity.StockRecord{{Ticker: "AAPL", Date: date}}, nil
		},
	})

	for _, bad := range []string{"02-01-2023", "2023-1-2", "yesterday", ""} {
		_, err := au.PriceIncreasesOn(context.Background(), bad)
		assert.ErrorIs(t, err, domain.ErrInvalidDate, "date %q", bad)
	}
	assert.False(t, called, "an invalid date must never reach the store")

	rows, err := au.PriceIncreasesOn(context.Background(), "2023-01-02")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2023-01-02", rows[0].Date)
}

func TestAnalyticsUsecase_Series_EmptyIsNotAnError(t *testing.T) {
	t.Parallel()

	au := usecase.NewAnalyticsUsecase(&mockReader{
		SeriesFunc: func(ctx context.Context, ticker string) ([]entity.SeriesPoint, error) {
			return []entity.SeriesPoint{}, nil
		},
	})

	pts, err := au.Series(context.Background(), "NONE")
	require.NoError(t, err)
	assert.Empty(t, pts)
}
