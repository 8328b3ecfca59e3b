package router

import (
	stockshandler "pricepoint/internal/feature/stocks/transport/handler"
	platformhandler "pricepoint/internal/platform/http/handler"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the engine's operation surface onto HTTP routes.
// Every route is read-only except /load and /query; /query is the
// trusted-caller SQL passthrough.
func NewRouter(stocks *stockshandler.StocksHandler) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", platformhandler.Health)

	r.POST("/load", stocks.Load)
	r.POST("/query", stocks.Query)

	r.GET("/tickers", stocks.Tickers)
	r.GET("/increases/:date", stocks.Increases)
	r.GET("/stocks/:ticker/average-close", stocks.AverageClose)
	r.GET("/stocks/:ticker/volatility", stocks.Volatility)
	r.GET("/stocks/:ticker/top-volume", stocks.TopVolume)
	r.GET("/stocks/:ticker/series", stocks.Series)

	return r
}
