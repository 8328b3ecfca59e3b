// Command pricepoint is the interactive front end of the stock data query
// engine: it loads a CSV file into the sqlite store, then offers the
// predefined reports, free-form SQL, and price-series extraction from a
// menu loop.
package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"pricepoint/internal/feature/stocks/adapters"
	"pricepoint/internal/feature/stocks/domain"
	"pricepoint/internal/feature/stocks/domain/entity"
	"pricepoint/internal/feature/stocks/usecase"
	"pricepoint/internal/platform/db"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Println("loaded settings from .env")
	}

	defaultDB := db.LoadConfigFromEnv().Path
	dbPath := flag.String("db", defaultDB, "sqlite database file")
	csvPath := flag.String("csv", "stocks.csv", "CSV file to load at startup")
	flag.Parse()

	gdb, err := db.Open(db.Config{Path: *dbPath})
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err := db.Close(gdb); err != nil {
			log.Println("[ERROR] failed to close store:", err)
		}
		fmt.Println("\nDatabase connection closed")
	}()

	repo := adapters.NewStockRepository(gdb)
	ctx := context.Background()
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal(err)
	}

	ingest := usecase.NewIngestUsecase(func(path string) usecase.StockSource {
		return adapters.NewCSVSource(path)
	}, repo)
	analytics := usecase.NewAnalyticsUsecase(repo)
	query := usecase.NewQueryUsecase(repo)

	summary, err := ingest.Load(ctx, *csvPath)
	if err != nil {
		log.Fatal(err)
	}
	printSummary(summary)

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Println("\nPricePoint: Stock Data Query Engine")
		fmt.Println("1. Run predefined queries")
		fmt.Println("2. Run custom SQL query")
		fmt.Println("3. Show price series")
		fmt.Println("4. Exit")

		switch prompt(in, "Select an option (1-4): ", "") {
		case "1":
			runPredefined(ctx, analytics, in)
		case "2":
			runCustomSQL(ctx, query, in)
		case "3":
			runSeries(ctx, analytics, in)
		case "4":
			return
		default:
			fmt.Println("Invalid choice. Try again.")
		}
	}
}

// prompt reads one trimmed line, substituting fallback for empty input.
func prompt(in *bufio.Scanner, label, fallback string) string {
	fmt.Print(label)
	if !in.Scan() {
		return fallback
	}
	s := strings.TrimSpace(in.Text())
	if s == "" {
		return fallback
	}
	return s
}

func printSummary(s usecase.LoadSummary) {
	fmt.Printf("Loaded %d of %d rows (%d rejected)\n", s.Committed, s.Attempted, s.Rejected)
	for _, r := range s.Rejections {
		fmt.Println("  rejected:", r)
	}
}

// fatalIfStoreDown ends the session on a connectivity failure and reports
// anything else. Every other error leaves the menu loop usable.
func fatalIfStoreDown(err error) {
	if errors.Is(err, domain.ErrStoreUnavailable) {
		log.Fatal(err)
	}
	fmt.Println("Error:", err)
}

func runPredefined(ctx context.Context, analytics *usecase.AnalyticsUsecase, in *bufio.Scanner) {
	ticker := strings.ToUpper(prompt(in, "Enter ticker (e.g., AAPL): ", "AAPL"))
	date := prompt(in, "Enter date (YYYY-MM-DD, e.g., 2023-01-01): ", "2023-01-01")

	tickers, err := analytics.ListTickers(ctx)
	if err != nil {
		fatalIfStoreDown(err)
		return
	}
	if !slices.Contains(tickers, ticker) {
		fmt.Printf("Invalid ticker: %s. No data found.\n", ticker)
		return
	}

	avg, err := analytics.AverageClose(ctx, ticker)
	if err != nil {
		fatalIfStoreDown(err)
		return
	}
	fmt.Printf("\nAverage closing price for %s: $%.2f\n", ticker, avg)

	top, err := analytics.TopVolumeDays(ctx, ticker, usecase.DefaultTopN)
	if err != nil {
		fatalIfStoreDown(err)
		return
	}
	fmt.Printf("\nTop %d high-volume days for %s:\n", usecase.DefaultTopN, ticker)
	for _, r := range top {
		fmt.Printf("Date: %s, Volume: %d\n", r.Date, r.Volume)
	}

	ups, err := analytics.PriceIncreasesOn(ctx, date)
	if err != nil {
		fatalIfStoreDown(err)
		return
	}
	fmt.Printf("\nStocks with price increase on %s:\n", date)
	if len(ups) == 0 {
		fmt.Println("No stocks with price increase found.")
	}
	for _, r := range ups {
		fmt.Printf("Ticker: %s, Open: $%.2f, Close: $%.2f\n", r.Ticker, r.Open, r.Close)
	}

	vol, err := analytics.Volatility(ctx, ticker)
	if err != nil {
		fatalIfStoreDown(err)
		return
	}
	fmt.Printf("\nVolatility (sample stddev of Close) for %s: $%.2f\n", ticker, vol)
}

func runCustomSQL(ctx context.Context, query *usecase.QueryUsecase, in *bufio.Scanner) {
	fmt.Println("\nEnter your SQL query (or 'exit' to return):")
	stmt := prompt(in, "> ", "")
	if stmt == "" || strings.EqualFold(stmt, "exit") {
		return
	}

	res, err := query.Execute(ctx, stmt)
	if err != nil {
		fmt.Println("Error executing query:", err)
		return
	}
	if len(res.Rows) == 0 {
		fmt.Println("No results returned.")
		return
	}
	fmt.Println("\n" + strings.Join(res.Columns, " | "))
	for _, row := range res.Rows {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			cells = append(cells, fmt.Sprint(v))
		}
		fmt.Println(strings.Join(cells, " | "))
	}
}

func runSeries(ctx context.Context, analytics *usecase.AnalyticsUsecase, in *bufio.Scanner) {
	ticker := strings.ToUpper(prompt(in, "Enter ticker for price series (e.g., AAPL): ", "AAPL"))

	pts, err := analytics.Series(ctx, ticker)
	if err != nil {
		fatalIfStoreDown(err)
		return
	}
	if len(pts) == 0 {
		fmt.Printf("No data found for ticker %s\n", ticker)
		return
	}

	fmt.Printf("\n%s closing prices:\n", ticker)
	for _, p := range pts {
		fmt.Printf("%s  %.2f\n", p.Date, p.Close)
	}

	if strings.EqualFold(prompt(in, "Save series to file? (y/n): ", "n"), "y") {
		name := ticker + "_series.csv"
		if err := saveSeries(name, pts); err != nil {
			fmt.Println("Error saving series:", err)
			return
		}
		fmt.Println("Series saved as", name)
	}
}

// saveSeries writes the (date, close) sequence as CSV for whatever tool
// renders the chart.
func saveSeries(name string, pts []entity.SeriesPoint) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Date", "Close"}); err != nil {
		return err
	}
	for _, p := range pts {
		if err := w.Write([]string{p.Date, strconv.FormatFloat(p.Close, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
