//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=feed_get_test
package feed_get

import (
	"context"

	"marketplace/internal/entities"
	"marketplace/internal/service/feed"
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
	SubscribeDelivery(ctx context.Context, deliveryID string, onChange func(*entities.Delivery), onError func(error)) (*feed.Subscription, error)
	SubscribePending(ctx context.Context, onChange func([]entities.Delivery), onError func(error)) (*feed.Subscription, error)
	SubscribeParty(ctx context.Context, role entities.Role, userID string, onChange func([]entities.Delivery), onError func(error)) (*feed.Subscription, error)
	SubscribeWallet(ctx context.Context, userID string, onChange func(feed.WalletSnapshot), onError func(error)) (*feed.Subscription, error)
}
