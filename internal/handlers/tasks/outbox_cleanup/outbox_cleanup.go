package outbox_cleanup

import (
	"context"
	"time"

	"marketplace/pkg/logger"
)

type Service interface {
	CleanupSent(ctx context.Context) (int64, error)
}

type OutboxCleanup struct {
	log      logger.Logger
	service  Service
	interval time.Duration
}

func NewOutboxCleanup(log logger.Logger, service Service, interval time.Duration) *OutboxCleanup {
	return &OutboxCleanup{
		log:      log,
		service:  service,
		interval: interval,
	}
}

func (o *OutboxCleanup) TTL() time.Duration {
	return o.interval
}

func (o *OutboxCleanup) Do(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, o.interval)
	defer cancel()

	deleted, err := o.service.CleanupSent(ctxWithTimeout)

	if deleted > 0 {
		o.log.With(
			logger.NewField("deleted_events", deleted),
		).Info("outbox cleanup")
	}

	return err
}

func (o *OutboxCleanup) Info() string {
	return "outbox cleanup"
}
