package querier

import (
	"context"
	"errors"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var queryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "marketplace_db_query_duration_seconds",
		Help:    "Время выполнения запросов к Postgres",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"kind", "status"},
)

// Querier выполняет запросы в транзакции из контекста (если она есть) или
// напрямую в пуле и замеряет их длительность.
type Querier struct {
	pool   *pgxpool.Pool
	getter *pgxv5.CtxGetter
}

func New(pool *pgxpool.Pool, getter *pgxv5.CtxGetter) *Querier {
	return &Querier{
		pool:   pool,
		getter: getter,
	}
}

func (q *Querier) Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	start := time.Now()
	tag, err := q.get(ctx).Exec(ctx, sql, args...)
	observe("exec", start, err)
	return tag, err
}

func (q *Querier) Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	start := time.Now()
	rows, err := q.get(ctx).Query(ctx, sql, args...)
	observe("query", start, err)
	return rows, err
}

// QueryRow откладывает ошибку до Scan, поэтому замер идет вместе со сканированием.
func (q *Querier) QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row {
	return &timedRow{
		row:   q.get(ctx).QueryRow(ctx, sql, args...),
		start: time.Now(),
	}
}

func (q *Querier) get(ctx context.Context) pgxv5.Tr {
	return q.getter.DefaultTrOrDB(ctx, q.pool)
}

type timedRow struct {
	row   pgx.Row
	start time.Time
}

func (r *timedRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	observe("query_row", r.start, err)
	return err
}

func observe(kind string, start time.Time, err error) {
	queryDuration.WithLabelValues(kind, status(err)).Observe(time.Since(start).Seconds())
}

// status не считает отсутствие строки ошибкой: для CAS-обновлений
// это штатный исход.
func status(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, pgx.ErrNoRows):
		return "no_rows"
	default:
		return "error"
	}
}
