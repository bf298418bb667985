//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=deliveries_bulk_post_test
package deliveries_bulk_post

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
	BulkCreate(ctx context.Context, session entities.Session, creates []entities.DeliveryCreate) ([]entities.Delivery, error)
}
