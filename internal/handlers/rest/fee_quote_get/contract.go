//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=fee_quote_get_test
package fee_quote_get

import (
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
	ComputeFee(distanceKm, weightKg float64, fragile bool, paymentType entities.PaymentType) (int64, error)
}
