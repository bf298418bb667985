//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=driver_earnings_get_test
package driver_earnings_get

import (
	"context"
	"time"

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
	DriverEarnings(ctx context.Context, driverID string, now time.Time) (*entities.DriverEarnings, error)
}
