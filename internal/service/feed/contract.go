//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=feed_test
package feed

import (
	"context"

	"marketplace/internal/entities"
	"marketplace/pkg/logger"
	"marketplace/pkg/pubsub"
)

type Hub interface {
	Subscribe(topic string, buffer int) *pubsub.Subscription[entities.ChangeNotification]
	Publish(topic string, msg entities.ChangeNotification) int
}

type DeliveryReader interface {
	GetDelivery(ctx context.Context, deliveryID string) (*entities.Delivery, error)
	ListByStatus(ctx context.Context, status entities.DeliveryStatus) ([]entities.Delivery, error)
	ListByParty(ctx context.Context, role entities.Role, userID string) ([]entities.Delivery, error)
}

type WalletReader interface {
	GetBalance(ctx context.Context, userID string) (int64, error)
	GetHistory(ctx context.Context, userID string, limit, offset int) (*entities.WalletHistoryPage, error)
}

type handlerLogger interface {
	Debug(msg string, fields ...logger.Field)
	Warn(msg string, fields ...logger.Field)
	With(fields ...logger.Field) logger.Logger
}
