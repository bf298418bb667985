//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=settlement_test
package settlement

import (
	"context"

	"marketplace/internal/entities"
)

type DeliveryReader interface {
	GetDelivery(ctx context.Context, deliveryID string) (*entities.Delivery, error)
}

type WalletService interface {
	Credit(ctx context.Context, userID string, amount int64, deliveryID string, kind entities.TransactionType) (int64, error)
}

// IdempotencyGuard не дает двум воркерам обрабатывать одно событие одновременно
// и помнит уже обработанные события.
type IdempotencyGuard interface {
	Acquire(ctx context.Context, eventID string) error
	MarkProcessed(ctx context.Context, eventID string) error
	MarkFailed(ctx context.Context, eventID string) error
}

type (
	ExecuteFn      func(ctx context.Context, deliveryID string) error
	HandlerFactory interface {
		GetHandler(eventType entities.DeliveryEventType) (ExecuteFn, error)
	}
)
