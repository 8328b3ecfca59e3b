package usecase_test

import (
	"context"
	"testing"

	"pricepoint/internal/feature/stocks/domain"
	"pricepoint/internal/feature/stocks/domain/entity"
	"pricepoint/internal/feature/stocks/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockQuerier is a RawQuerier with an overridable func field.
type mockQuerier struct {
	RawQueryFunc func(ctx context.Context, sqlText string) (entity.QueryResult, error)
}

func (m *mockQuerier) RawQuery(ctx context.Context, sqlText string) (entity.QueryResult, error) {
	return m.RawQueryFunc(ctx, sqlText)
}

func TestQueryUsecase_Execute_PassesStatementThrough(t *testing.T) {
	t.Parallel()

	want := entity.QueryResult{
		Columns: []string{"Ticker", "Close"},
		Rows:    [][]any{{"AAPL", 105.0}},
	}
	var gotSQL string
	qu := usecase.NewQueryUsecase(&mockQuerier{
		RawQueryFunc: func(ctx context.Context, sqlText string) (entity.QueryResult, error) {
			gotSQL = sqlText
			return want, nil
		},
	})

	res, err := qu.Execute(context.Background(), "SELECT Ticker, Close FROM stocks")
	require.NoError(t, err)
	assert.Equal(t, want, res)
	assert.Equal(t, "SELECT Ticker, Close FROM stocks", gotSQL, "the statement must not be rewritten")
}

func TestQueryUsecase_Execute_BlankStatement(t *testing.T) {
	t.Parallel()

	qu := usecase.NewQueryUsecase(&mockQuerier{
		RawQueryFunc: func(ctx context.Context, sqlText string) (entity.QueryResult, error) {
			t.Fatal("a blank statement must not reach the store")
			return entity.QueryResult{}, nil
		},
	})

	for _, blank := range []string{"", "   ", "\n\t"} {
		_, err := qu.Execute(context.Background(), blank)
		var qe *domain.QueryError
		assert.ErrorAs(t, err, &qe, "statement %q", blank)
	}
}

func TestQueryUsecase_Execute_StoreErrorSurfaces(t *testing.T) {
	t.Parallel()

	qu := usecase.NewQueryUsecase(&mockQuerier{
		RawQueryFunc: func(ctx context.Context, sqlText string) (entity.QueryResult, error) {
			return entity.QueryResult{}, &domain.QueryError{Message: `near "SELEC": syntax error`}
		},
	})

	_, err := qu.Execute(context.Background(), "SELEC nonsense")
	var qe *domain.QueryError
	require.ErrorAs(t, err, &qe)
	assert.Contains(t, qe.Message, "syntax error", "the store's own message must survive")
}
