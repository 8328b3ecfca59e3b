package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"pricepoint/internal/app/router"
	"pricepoint/internal/feature/stocks/adapters"
	"pricepoint/internal/feature/stocks/transport/handler"
	"pricepoint/internal/feature/stocks/usecase"
	"pricepoint/internal/platform/db"
)

func main() {
	// .env is optional; real env vars win either way.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}

	gdb, err := db.Open(db.LoadConfigFromEnv())
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Println("[ERROR] failed to close store:", err)
		}
	}()

	// Repository
	stockRepo := adapters.NewStockRepository(gdb)
	if err := stockRepo.EnsureSchema(context.Background()); err != nil {
		log.Fatal(err)
	}

	// Usecase
	ingestUC := usecase.NewIngestUsecase(func(path string) usecase.StockSource {
		return adapters.NewCSVSource(path)
	}, stockRepo)
	analyticsUC := usecase.NewAnalyticsUsecase(stockRepo)
	queryUC := usecase.NewQueryUsecase(stockRepo)

	// Handler
	stocksH := handler.NewStocksHandler(ingestUC, analyticsUC, queryUC)

	r := router.NewRouter(stocksH)

	addr := os.Getenv("PRICEPOINT_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
