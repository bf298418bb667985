package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"marketplace/internal/entities"
	"marketplace/pkg/logger"
	retrierconfig "marketplace/pkg/retrier"
	"marketplace/pkg/retrier/backoff_adapter"
)

const (
	listenInitialInterval = 500 * time.Millisecond
	listenMaxInterval     = 10 * time.Second
)

type Notifier func(entities.ChangeNotification)

type retrier interface {
	ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error
}

// Listener держит отдельное соединение с LISTEN на каналах изменений и
// пересылает уведомления в notify. Соединение переподключается с backoff.
type Listener struct {
	log      logger.Logger
	pool     *pgxpool.Pool
	notify   Notifier
	channels []string
	retrier  retrier
}

func NewListener(log logger.Logger, pool *pgxpool.Pool, notify Notifier, channels ...string) *Listener {
	listenLog := log.With(logger.NewField("channels", channels))

	return &Listener{
		log:      listenLog,
		pool:     pool,
		notify:   notify,
		channels: channels,
		retrier: backoff_adapter.New(retrierconfig.Config{
			InitialInterval: listenInitialInterval,
			MaxInterval:     listenMaxInterval,
			MaxElapsedTime:  0, // без ограничения, останавливает только ctx
			Randomization:   randomization,
			Multiplier:      multiplier,
			ShouldRetry: func(err error) bool {
				return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
			},
			OnRetry: func(err error, wait time.Duration) {
				listenLog.Warn("listen connection lost, reconnecting",
					logger.NewField("error", err),
					logger.NewField("wait", wait),
				)
			},
		}),
	}
}

// Run блокируется до отмены ctx.
func (l *Listener) Run(ctx context.Context) error {
	err := l.retrier.ExecuteWithContext(ctx, l.listen)
	if ctx.Err() != nil {
		l.log.Info("listener stopped")
		return nil
	}
	return fmt.Errorf("listen: %w", err)
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	for _, channel := range l.channels {
		_, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize())
		if err != nil {
			return fmt.Errorf("listen %s: %w", channel, err)
		}
	}
	l.log.Info("listening for changes")

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		l.notify(entities.ChangeNotification{
			Topic: notification.Channel,
			Key:   notification.Payload,
		})
	}
}
