//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=wallet_transactions_get_test
package wallet_transactions_get

import (
	"context"

	"marketplace/internal/entities"
	"marketplace/pkg/logger"
)

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Info(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	Error(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}

type Service interface {
	GetHistory(ctx context.Context, userID string, limit, offset int) (*entities.WalletHistoryPage, error)
}
