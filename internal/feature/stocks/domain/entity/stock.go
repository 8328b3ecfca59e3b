// Package entity defines the domain models for the stocks feature.
package entity

// StockRecord represents one daily OHLCV (Open, High, Low, Close, Volume)
// observation for a ticker. A record is identified by its (Date, Ticker)
// pair and is never mutated after it has been committed to the store.
type StockRecord struct {
	Date   string  // Trading day in ISO form, e.g. "2023-01-02"
	Ticker string  // Stock ticker symbol, normalized to uppercase (e.g., "AAPL")
	Open   float64 // Opening price
	High   float64 // Highest price of the day
	Low    float64 // Lowest price of the day
	Close  float64 // Closing price
	Volume int64   // Trading volume
}

// SeriesPoint is one (date, close) observation in a price series.
// The series extractor hands an ordered slice of these to the caller;
// rendering them is not this engine's concern.
type SeriesPoint struct {
	Date  string
	Close float64
}

// CloseAggregates holds the single-pass aggregates over the Close column
// for one ticker. Mean and sample standard deviation both derive from it,
// so the SQL that produces it lives in exactly one place.
type CloseAggregates struct {
	N     int64   // Number of rows for the ticker
	Sum   float64 // Sum of Close
	SumSq float64 // Sum of Close*Close
}

// QueryResult is the outcome of an ad-hoc read statement: column names in
// statement order plus the rows, each cell as the driver returned it.
type QueryResult struct {
	Columns []string
	Rows    [][]any
}
