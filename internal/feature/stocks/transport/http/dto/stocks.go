// Package dto defines the request and response shapes of the stocks API.
package dto

// ErrorResponse carries a failure message to the caller.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LoadRequest asks the engine to ingest the file at Path.
type LoadRequest struct {
	Path string `json:"path" binding:"required"`
}

// RejectionItem is one refused row inside a load summary.
type RejectionItem struct {
	Line   int    `json:"line"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// LoadSummaryResponse reports the outcome of an ingestion batch.
type LoadSummaryResponse struct {
	Attempted  int             `json:"attempted"`
	Committed  int             `json:"committed"`
	Rejected   int             `json:"rejected"`
	Rejections []RejectionItem `json:"rejections"`
}

// StockRow is one daily record in a report response.
type StockRow struct {
	Date   string  `json:"date"`
	Ticker string  `json:"ticker"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// MetricResponse carries one computed per-ticker value, such as the average
// close or the volatility.
type MetricResponse struct {
	Ticker string  `json:"ticker"`
	Value  float64 `json:"value"`
}

// SeriesPointItem is one (date, close) observation in a price series.
type SeriesPointItem struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// QueryRequest carries one ad-hoc SQL statement.
type QueryRequest struct {
	SQL string `json:"sql" binding:"required"`
}

// QueryResultResponse holds the rows of an ad-hoc statement with their
// column names in statement order.
type QueryResultResponse struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}
