package outbox_relay

import (
	"context"
	"time"

	"marketplace/pkg/logger"
)

type Service interface {
	RelayPending(ctx context.Context) (int64, error)
}

type OutboxRelay struct {
	log      logger.Logger
	service  Service
	interval time.Duration
}

func NewOutboxRelay(log logger.Logger, service Service, interval time.Duration) *OutboxRelay {
	return &OutboxRelay{
		log:      log,
		service:  service,
		interval: interval,
	}
}

// TTL возвращает интервал между выполнениями задачи.
func (o *OutboxRelay) TTL() time.Duration {
	return o.interval
}

// Do отправляет одну пачку событий. Ошибка брокера не останавливает задачу:
// неотправленные события будут выбраны на следующем тике.
func (o *OutboxRelay) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, o.interval)
	defer cancel()

	sent, err := o.service.RelayPending(ctxWithTimeout)
	if err != nil {
		o.log.With(
			logger.NewField("error", err),
		).Warn("outbox relay")
		return nil
	}

	if sent > 0 {
		o.log.With(
			logger.NewField("sent_events", sent),
		).Info("outbox relay")
	}

	return nil
}

func (o *OutboxRelay) Info() string {
	return "outbox relay"
}
