package usecase

import (
	"context"
	"strings"

	"pricepoint/internal/feature/stocks/domain"
	"pricepoint/internal/feature/stocks/domain/entity"
)

// RawQuerier executes caller-supplied SQL verbatim. Failures come back as
// *domain.QueryError carrying the store's own message.
type RawQuerier interface {
	RawQuery(ctx context.Context, sqlText string) (entity.QueryResult, error)
}

// QueryUsecase is the ad-hoc query executor. The caller is trusted to
// supply read-intent SQL; nothing beyond the store's own parser restricts
// the statement shape. Our job is reliable pass-through and error
// surfacing, not a SQL firewall.
type QueryUsecase struct {
	querier RawQuerier
}

// NewQueryUsecase creates a new QueryUsecase.
func NewQueryUsecase(querier RawQuerier) *QueryUsecase {
	return &QueryUsecase{querier: querier}
}

// Execute runs one statement and returns its rows with their column names
// in statement order. A blank statement is refused up front; everything
// else goes straight to the store.
func (qu *QueryUsecase) Execute(ctx context.Context, sqlText string) (entity.QueryResult, error) {
	if strings.TrimSpace(sqlText) == "" {
		return entity.QueryResult{}, &domain.QueryError{Message: "empty statement"}
	}
	return qu.querier.RawQuery(ctx, sqlText)
}
