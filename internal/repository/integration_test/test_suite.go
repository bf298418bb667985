package integration_test

import (
	"context"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/avito-tech/go-transaction-manager/pgxv5"
	"github.com/stretchr/testify/require"
	"marketplace/internal/pkg/config"
	"marketplace/internal/pkg/postgres"
	"marketplace/pkg/logger/zap_adapter"
	"marketplace/pkg/querier"
	"marketplace/pkg/tx"
)

// env - общее на весь пакет подключение к тестовой базе со схемой,
// накатанной встроенными миграциями.
type env struct {
	querier   *querier.Querier
	txManager *tx.Manager
}

var (
	shared     env
	sharedOnce sync.Once
)

func setup() env {
	sharedOnce.Do(func() {
		// POSTGRES_* подгружает Makefile из .env.test
		cfg, err := config.LoadDatabase()
		if err != nil {
			log.Fatalf("integration database config: %v", err)
		}

		zapLogger, err := zap_adapter.NewZapAdapter()
		if err != nil {
			log.Fatalf("failed to initialize logger: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := postgres.Migrate(ctx, zapLogger, cfg); err != nil {
			log.Fatalf("integration migrations: %v", err)
		}

		pool, err := postgres.NewConnPool(ctx, zapLogger, cfg)
		if err != nil {
			log.Fatalf("integration pool: %v", err)
		}

		shared = env{
			querier:   querier.New(pool, pgxv5.DefaultCtxGetter),
			txManager: tx.New(pool),
		}
	})

	return shared
}

func GetQuerier() *querier.Querier {
	return setup().querier
}

// GetTxManager отдает менеджер транзакций на том же пуле, что и GetQuerier,
// поэтому запросы репозиториев внутри Do попадают в транзакцию.
func GetTxManager() *tx.Manager {
	return setup().txManager
}

// SetupDB наполняет базу фикстурой. Пустая строка только поднимает окружение.
func SetupDB(t *testing.T, setupSql string) {
	t.Helper()

	q := GetQuerier()
	if setupSql == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := q.Exec(ctx, setupSql)
	require.NoError(t, err)
}

func TeardownDB(t *testing.T) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := GetQuerier().Exec(ctx, `
		TRUNCATE TABLE deliveries, wallet_transactions, wallets, outbox RESTART IDENTITY CASCADE;
	`)
	require.NoError(t, err)
}
