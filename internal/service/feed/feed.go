package feed

import (
	"context"
	"errors"
	"strings"

	"marketplace/internal/entities"
	"marketplace/pkg/logger"
)

const (
	kindDelivery = "delivery"
	kindPending  = "pending"
	kindParty    = "party"
	kindWallet   = "wallet"

	topicAllDeliveries  = "deliveries"
	topicDeliveryPrefix = "delivery:"
	topicWalletPrefix   = "wallet:"

	walletRecentLimit = 20
)

type WalletSnapshot struct {
	Balance      int64
	Transactions []entities.WalletTransaction
}

type Service struct {
	log        handlerLogger
	hub        Hub
	deliveries DeliveryReader
	wallets    WalletReader
}

func New(log handlerLogger, hub Hub, deliveries DeliveryReader, wallets WalletReader) *Service {
	return &Service{
		log:        log,
		hub:        hub,
		deliveries: deliveries,
		wallets:    wallets,
	}
}

// Notify раскладывает уведомление хранилища по топикам подписчиков.
func (s *Service) Notify(notification entities.ChangeNotification) {
	switch notification.Topic {
	case entities.ChannelDeliveryChanges:
		s.hub.Publish(topicDeliveryPrefix+notification.Key, notification)
		s.hub.Publish(topicAllDeliveries, notification)
	case entities.ChannelWalletChanges:
		s.hub.Publish(topicWalletPrefix+notification.Key, notification)
	default:
		s.log.Warn("unknown change channel", logger.NewField("channel", notification.Topic))
	}
}

func (s *Service) SubscribeDelivery(
	ctx context.Context,
	deliveryID string,
	onChange func(*entities.Delivery),
	onError func(error),
) (*Subscription, error) {
	if strings.TrimSpace(deliveryID) == "" {
		return nil, ErrInvalidKey
	}
	if onChange == nil {
		return nil, ErrMissingCallback
	}

	load := func(ctx context.Context) (*entities.Delivery, error) {
		return s.deliveries.GetDelivery(ctx, deliveryID)
	}
	return run(ctx, s, kindDelivery, topicDeliveryPrefix+deliveryID, load, onChange, onError), nil
}

// SubscribePending - лента свободных доставок для водителей.
func (s *Service) SubscribePending(
	ctx context.Context,
	onChange func([]entities.Delivery),
	onError func(error),
) (*Subscription, error) {
	if onChange == nil {
		return nil, ErrMissingCallback
	}

	load := func(ctx context.Context) ([]entities.Delivery, error) {
		return s.deliveries.ListByStatus(ctx, entities.StatusPending)
	}
	return run(ctx, s, kindPending, topicAllDeliveries, load, onChange, onError), nil
}

// SubscribeParty - доставки продавца или водителя.
func (s *Service) SubscribeParty(
	ctx context.Context,
	role entities.Role,
	userID string,
	onChange func([]entities.Delivery),
	onError func(error),
) (*Subscription, error) {
	if role != entities.RoleSeller && role != entities.RoleDriver {
		return nil, ErrInvalidRole
	}
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidKey
	}
	if onChange == nil {
		return nil, ErrMissingCallback
	}

	load := func(ctx context.Context) ([]entities.Delivery, error) {
		return s.deliveries.ListByParty(ctx, role, userID)
	}
	return run(ctx, s, kindParty, topicAllDeliveries, load, onChange, onError), nil
}

func (s *Service) SubscribeWallet(
	ctx context.Context,
	userID string,
	onChange func(WalletSnapshot),
	onError func(error),
) (*Subscription, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidKey
	}
	if onChange == nil {
		return nil, ErrMissingCallback
	}

	load := func(ctx context.Context) (WalletSnapshot, error) {
		balance, err := s.wallets.GetBalance(ctx, userID)
		if err != nil {
			return WalletSnapshot{}, err
		}
		page, err := s.wallets.GetHistory(ctx, userID, walletRecentLimit, 0)
		if err != nil {
			return WalletSnapshot{}, err
		}
		return WalletSnapshot{Balance: balance, Transactions: page.Transactions}, nil
	}
	return run(ctx, s, kindWallet, topicWalletPrefix+userID, load, onChange, onError), nil
}

// run подписывается на топик до чтения снимка, поэтому изменение между
// чтением и подпиской не теряется. Уведомления схлопываются буфером 1.
func run[T any](
	ctx context.Context,
	s *Service,
	kind string,
	topic string,
	load func(context.Context) (T, error),
	onChange func(T),
	onError func(error),
) *Subscription {
	changes := s.hub.Subscribe(topic, 1)

	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{
		kind:   kind,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	ActiveSubscriptions.WithLabelValues(kind).Inc()

	emit := func() {
		snapshot, err := load(ctx)
		if !sub.active() || ctx.Err() != nil {
			return
		}
		if err != nil {
			SnapshotsTotal.WithLabelValues(kind, "error").Inc()
			if onError != nil {
				onError(err)
			}
			return
		}
		SnapshotsTotal.WithLabelValues(kind, "success").Inc()
		onChange(snapshot)
	}

	go func() {
		defer close(sub.done)
		defer ActiveSubscriptions.WithLabelValues(kind).Dec()
		defer changes.Unsubscribe()
		defer cancel()

		emit()
		for {
			select {
			case <-ctx.Done():
				s.log.Debug("subscription stopped",
					logger.NewField("kind", kind),
					logger.NewField("topic", topic),
					logger.NewField("reason", stopReason(ctx.Err())),
				)
				return
			case _, ok := <-changes.C():
				if !ok {
					return
				}
				emit()
			}
		}
	}()

	return sub
}

func stopReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "deadline"
	}
	return "cancelled"
}
