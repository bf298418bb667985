//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=wallet_withdraw_post_test
package wallet_withdraw_post

import (
	"context"

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
	Debit(ctx context.Context, userID string, amount int64) (int64, error)
}
