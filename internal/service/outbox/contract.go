//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=outbox_test
package outbox

import (
	"context"
	"time"

	"marketplace/internal/entities"
	"marketplace/internal/pkg/kafka"
)

type Repository interface {
	FetchPending(ctx context.Context, limit int) ([]entities.DeliveryEvent, error)
	MarkSent(ctx context.Context, ids []string, sentAt time.Time) (int64, error)
	DeleteSentBefore(ctx context.Context, before time.Time) (int64, error)
}

type Producer interface {
	SendMessages(ctx context.Context, messages []kafka.Message) error
}

type TxManager interface {
	DoReadCommitted(ctx context.Context, fn func(ctx context.Context) error) error
}
