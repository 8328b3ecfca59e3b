package adapters

import (
	"context"
	"fmt"

	"pricepoint/internal/feature/stocks/domain"
	"pricepoint/internal/feature/stocks/domain/entity"
	"pricepoint/internal/feature/stocks/usecase"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type stockSQLite struct {
	db *gorm.DB
}

var _ usecase.StockWriter = (*stockSQLite)(nil)
var _ usecase.StockReader = (*stockSQLite)(nil)
var _ usecase.RawQuerier = (*stockSQLite)(nil)

// NewStockRepository returns the sqlite-backed stocks repository.
func NewStockRepository(db *gorm.DB) *stockSQLite {
	return &stockSQLite{db: db}
}

// StockModel is the persisted form of entity.StockRecord. Column names and
// types are pinned so the table is exactly
//
//	stocks(Date TEXT, Ticker TEXT, Open REAL, High REAL, Low REAL,
//	       Close REAL, Volume INTEGER, PRIMARY KEY(Date, Ticker))
//
// with non-unique indexes on Ticker and Date. External tooling reads this
// table directly, so the shape is a contract, not an implementation detail.
type StockModel struct {
	Date   string  `gorm:"column:Date;type:TEXT;primaryKey;index:idx_date"`
	Ticker string  `gorm:"column:Ticker;type:TEXT;primaryKey;index:idx_ticker"`
	Open   float64 `gorm:"column:Open;type:REAL"`
	High   float64 `gorm:"column:High;type:REAL"`
	Low    float64 `gorm:"column:Low;type:REAL"`
	Close  float64 `gorm:"column:Close;type:REAL"`
	Volume int64   `gorm:"column:Volume;type:INTEGER"`
}

func (StockModel) TableName() string {
	return "stocks"
}

func toModel(e entity.StockRecord) StockModel {
	return StockModel{
		Date:   e.Date,
		Ticker: e.Ticker,
		Open:   e.Open,
		High:   e.High,
		Low:    e.Low,
		Close:  e.Close,
		Volume: e.Volume,
	}
}

func toEntity(m StockModel) entity.StockRecord {
	return entity.StockRecord{
		Date:   m.Date,
		Ticker: m.Ticker,
		Open:   m.Open,
		High:   m.High,
		Low:    m.Low,
		Close:  m.Close,
		Volume: m.Volume,
	}
}

// storeErr marks an error as a store-connectivity failure, the one condition
// callers treat as fatal.
func storeErr(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

// EnsureSchema creates the stocks table and its indexes if absent.
// Running it against an already-initialized store is a no-op.
func (r *stockSQLite) EnsureSchema(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&StockModel{}); err != nil {
		return storeErr(err)
	}
	return nil
}

// Insert commits one record. A (Date, Ticker) collision leaves the existing
// row untouched and reports domain.ErrDuplicateKey: the insert runs with
// ON CONFLICT DO NOTHING, so zero affected rows means the key was taken.
func (r *stockSQLite) Insert(ctx context.Context, rec entity.StockRecord) error {
	m := toModel(rec)
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrDuplicateKey
	}
	return nil
}

// CloseAggregates runs the single aggregation pass over Close for a ticker.
// Mean and sample standard deviation are both derived from this result, so
// the formula inputs are computed in exactly one query.
func (r *stockSQLite) CloseAggregates(ctx context.Context, ticker string) (entity.CloseAggregates, error) {
	var agg entity.CloseAggregates
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(Close) AS n,
		        COALESCE(SUM(Close), 0) AS sum,
		        COALESCE(SUM(Close * Close), 0) AS sum_sq
		 FROM stocks WHERE Ticker = ?`, ticker).Scan(&agg).Error
	if err != nil {
		return entity.CloseAggregates{}, storeErr(err)
	}
	return agg, nil
}

// TopVolumeDays returns up to n rows for a ticker ordered by volume
// descending, ties broken by ascending date.
func (r *stockSQLite) TopVolumeDays(ctx context.Context, ticker string, n int) ([]entity.StockRecord, error) {
	var rows []StockModel
	err := r.db.WithContext(ctx).
		Where("Ticker = ?", ticker).
		Order("Volume DESC, Date ASC").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	out := make([]entity.StockRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// PriceIncreasesOn returns the rows for one date where the close beat the
// open, across all tickers, ordered by ticker ascending.
func (r *stockSQLite) PriceIncreasesOn(ctx context.Context, date string) ([]entity.StockRecord, error) {
	var rows []StockModel
	err := r.db.WithContext(ctx).
		Where("Date = ? AND Close > Open", date).
		Order("Ticker ASC").
		Find(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	out := make([]entity.StockRecord, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}

// Series returns the (date, close) sequence for a ticker, ascending by date.
// An absent ticker yields an empty slice, not an error.
func (r *stockSQLite) Series(ctx context.Context, ticker string) ([]entity.SeriesPoint, error) {
	pts := make([]entity.SeriesPoint, 0)
	err := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Select("Date, Close").
		Where("Ticker = ?", ticker).
		Order("Date ASC").
		Scan(&pts).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return pts, nil
}

// ListTickers returns the distinct tickers present in the store, ascending.
func (r *stockSQLite) ListTickers(ctx context.Context) ([]string, error) {
	tickers := make([]string, 0)
	err := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Distinct().
		Order("Ticker ASC").
		Pluck("Ticker", &tickers).Error
	if err != nil {
		return nil, storeErr(err)
	}
	return tickers, nil
}

// RawQuery executes a caller-supplied statement verbatim and returns the
// rows with their column names in statement order. Any parse or execution
// failure comes back as a domain.QueryError carrying the store's own
// message; nothing is sanitized or rewritten on the way in or out.
func (r *stockSQLite) RawQuery(ctx context.Context, sqlText string) (entity.QueryResult, error) {
	rows, err := r.db.WithContext(ctx).Raw(sqlText).Rows()
	if err != nil {
		return entity.QueryResult{}, &domain.QueryError{Message: err.Error()}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return entity.QueryResult{}, &domain.QueryError{Message: err.Error()}
	}

	result := entity.QueryResult{Columns: cols, Rows: make([][]any, 0)}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return entity.QueryResult{}, &domain.QueryError{Message: err.Error()}
		}
		// The sqlite driver hands TEXT back as []byte; callers want strings.
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, vals)
	}
	if err := rows.Err(); err != nil {
		return entity.QueryResult{}, &domain.QueryError{Message: err.Error()}
	}
	return result, nil
}
