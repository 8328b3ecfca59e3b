// Package handler provides the HTTP handlers for the stocks feature.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"pricepoint/internal/feature/stocks/domain"
	"pricepoint/internal/feature/stocks/domain/entity"
	"pricepoint/internal/feature/stocks/transport/http/dto"
	"pricepoint/internal/feature/stocks/usecase"

	"github.com/gin-gonic/gin"
)

// Ingestor loads one external source into the store.
// Following Go convention: interfaces are defined by the consumer (handler),
// not the provider (usecase).
type Ingestor interface {
	Load(ctx context.Context, sourcePath string) (usecase.LoadSummary, error)
}

// Analytics exposes the fixed analytical reports and the series extractor.
type Analytics interface {
	AverageClose(ctx context.Context, ticker string) (float64, error)
	Volatility(ctx context.Context, ticker string) (float64, error)
	TopVolumeDays(ctx context.Context, ticker string, n int) ([]entity.StockRecord, error)
	PriceIncreasesOn(ctx context.Context, date string) ([]entity.StockRecord, error)
	Series(ctx context.Context, ticker string) ([]entity.SeriesPoint, error)
	ListTickers(ctx context.Context) ([]string, error)
}

// Querier executes ad-hoc SQL.
type Querier interface {
	Execute(ctx context.Context, sqlText string) (entity.QueryResult, error)
}

// StocksHandler processes the HTTP requests of the stocks feature.
type StocksHandler struct {
	ingest    Ingestor
	analytics Analytics
	query     Querier
}

// NewStocksHandler creates a new StocksHandler.
func NewStocksHandler(ingest Ingestor, analytics Analytics, query Querier) *StocksHandler {
	return &StocksHandler{ingest: ingest, analytics: analytics, query: query}
}

// fail maps a domain error onto an HTTP status and writes the error body.
// Only store-connectivity problems are reported as gateway failures; every
// other condition leaves the session usable.
func fail(c *gin.Context, err error) {
	var qe *domain.QueryError
	switch {
	case errors.Is(err, domain.ErrNoDataForTicker):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidDate), errors.As(err, &qe):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrStoreUnavailable):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}

func toStockRows(recs []entity.StockRecord) []dto.StockRow {
	out := make([]dto.StockRow, 0, len(recs))
	for _, r := range recs {
		out = append(out, dto.StockRow{
			Date:   r.Date,
			Ticker: r.Ticker,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	return out
}

// Load ingests the file named in the request body and returns the load
// summary. Per-row rejections are part of the summary, not an error.
//
// POST /load {"path": "stocks.csv"}
func (h *StocksHandler) Load(c *gin.Context) {
	var req dto.LoadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	summary, err := h.ingest.Load(c.Request.Context(), req.Path)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			fail(c, err)
			return
		}
		// Unreadable source: the file or its header, not the store.
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	out := dto.LoadSummaryResponse{
		Attempted:  summary.Attempted,
		Committed:  summary.Committed,
		Rejected:   summary.Rejected,
		Rejections: make([]dto.RejectionItem, 0, len(summary.Rejections)),
	}
	for _, r := range summary.Rejections {
		out.Rejections = append(out.Rejections, dto.RejectionItem{
			Line:   r.Line,
			Field:  r.Field,
			Reason: string(r.Reason),
		})
	}
	c.JSON(http.StatusOK, out)
}

// AverageClose returns the mean closing price for a ticker.
//
// GET /stocks/:ticker/average-close
func (h *StocksHandler) AverageClose(c *gin.Context) {
	ticker := c.Param("ticker")
	avg, err := h.analytics.AverageClose(c.Request.Context(), ticker)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MetricResponse{Ticker: ticker, Value: avg})
}

// Volatility returns the sample standard deviation of the closing price
// for a ticker.
//
// GET /stocks/:ticker/volatility
func (h *StocksHandler) Volatility(c *gin.Context) {
	ticker := c.Param("ticker")
	vol, err := h.analytics.Volatility(c.Request.Context(), ticker)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MetricResponse{Ticker: ticker, Value: vol})
}

// TopVolume returns the highest-volume days for a ticker.
//
// GET /stocks/:ticker/top-volume?n=5
func (h *StocksHandler) TopVolume(c *gin.Context) {
	ticker := c.Param("ticker")
	n, _ := strconv.Atoi(c.DefaultQuery("n", "0")) // 0 lets the usecase pick its default

	rows, err := h.analytics.TopVolumeDays(c.Request.Context(), ticker, n)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toStockRows(rows))
}

// Increases returns the rows for one date where the close beat the open.
//
// GET /increases/:date
func (h *StocksHandler) Increases(c *gin.Context) {
	rows, err := h.analytics.PriceIncreasesOn(c.Request.Context(), c.Param("date"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toStockRows(rows))
}

// Series returns the ordered (date, close) sequence for a ticker. The
// caller renders it however it likes; this engine only supplies the data.
//
// GET /stocks/:ticker/series
func (h *StocksHandler) Series(c *gin.Context) {
	pts, err := h.analytics.Series(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]dto.SeriesPointItem, 0, len(pts))
	for _, p := range pts {
		out = append(out, dto.SeriesPointItem{Date: p.Date, Close: p.Close})
	}
	c.JSON(http.StatusOK, out)
}

// Tickers returns the distinct tickers present in the store.
//
// GET /tickers
func (h *StocksHandler) Tickers(c *gin.Context) {
	tickers, err := h.analytics.ListTickers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tickers)
}

// Query executes one ad-hoc SQL statement and returns its rows.
//
// POST /query {"sql": "SELECT ..."}
func (h *StocksHandler) Query(c *gin.Context) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	res, err := h.query.Execute(c.Request.Context(), req.SQL)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.QueryResultResponse{Columns: res.Columns, Rows: res.Rows})
}
