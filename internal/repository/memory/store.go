// Package memory хранит доставки и кошельки в памяти процесса.
// Используется в тестах и для локального запуска без Postgres.
package memory

import (
	"context"
	"sync"

	"marketplace/internal/entities"
)

type Notifier func(entities.ChangeNotification)

type Option func(*options)

type options struct {
	notify Notifier
}

// WithNotifier вызывает notify после каждой записи, аналогично pg_notify.
func WithNotifier(notify Notifier) Option {
	return func(o *options) {
		o.notify = notify
	}
}

func buildOptions(opts []Option) options {
	o := options{notify: func(entities.ChangeNotification) {}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

type txKey struct{}

// TxManager сериализует транзакции. Вложенный Do выполняется внутри внешнего без повторной блокировки.
type TxManager struct {
	mu sync.Mutex
}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}
