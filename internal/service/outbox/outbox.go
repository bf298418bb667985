package outbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/pkg/kafka"
)

const (
	DefaultBatchSize = 100
	DefaultRetention = 7 * 24 * time.Hour
)

var ErrInvalidSettings = errors.New("outbox: batch size and retention must be positive")

type Service struct {
	repository Repository
	producer   Producer
	txManager  TxManager
	batchSize  int
	retention  time.Duration
	now        func() time.Time
}

func New(repository Repository, producer Producer, txManager TxManager, batchSize int, retention time.Duration) (*Service, error) {
	if batchSize <= 0 || retention <= 0 {
		return nil, ErrInvalidSettings
	}

	return &Service{
		repository: repository,
		producer:   producer,
		txManager:  txManager,
		batchSize:  batchSize,
		retention:  retention,
		now:        time.Now,
	}, nil
}

// RelayPending отправляет одну пачку событий и помечает их отправленными.
// Если отметка не закоммитилась, пачка уйдет повторно: доставка at-least-once,
// получатели дедуплицируют по id события.
func (s *Service) RelayPending(ctx context.Context) (int64, error) {
	var sent int64
	err := s.txManager.DoReadCommitted(ctx, func(ctx context.Context) error {
		events, err := s.repository.FetchPending(ctx, s.batchSize)
		if err != nil {
			return fmt.Errorf("fetch pending events: %w", err)
		}
		if len(events) == 0 {
			return nil
		}

		ids := make([]string, 0, len(events))
		for _, event := range events {
			ids = append(ids, event.ID)
		}

		messages := make([]kafka.Message, 0, len(events))
		for _, event := range events {
			message, err := toMessage(event)
			if err != nil {
				return fmt.Errorf("encode event %s: %w", event.ID, err)
			}
			messages = append(messages, message)
		}

		err = s.producer.SendMessages(ctx, messages)
		if err != nil {
			return fmt.Errorf("send events: %w", err)
		}

		sent, err = s.repository.MarkSent(ctx, ids, s.now().UTC())
		if err != nil {
			return fmt.Errorf("mark events sent: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return sent, nil
}

// CleanupSent удаляет отправленные события старше срока хранения.
func (s *Service) CleanupSent(ctx context.Context) (int64, error) {
	deleted, err := s.repository.DeleteSentBefore(ctx, s.now().UTC().Add(-s.retention))
	if err != nil {
		return 0, fmt.Errorf("delete sent events: %w", err)
	}
	return deleted, nil
}
