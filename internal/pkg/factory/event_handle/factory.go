package event_handle

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/entities"
	"marketplace/internal/service/settlement"
	"marketplace/internal/service/wallet"
)

type EventHandlerFactory struct {
	deliveries settlement.DeliveryReader
	wallets    settlement.WalletService
}

func NewEventHandlerFactory(deliveries settlement.DeliveryReader, wallets settlement.WalletService) *EventHandlerFactory {
	return &EventHandlerFactory{
		deliveries: deliveries,
		wallets:    wallets,
	}
}

func (f *EventHandlerFactory) GetHandler(eventType entities.DeliveryEventType) (settlement.ExecuteFn, error) {
	switch eventType {
	case entities.EventDeliveryDelivered:
		return f.deliveredHandler, nil
	default:
		return nil, fmt.Errorf("%w: %s", settlement.ErrUndefinedEventType, eventType)
	}
}

// deliveredHandler начисляет водителю стоимость доставки. Повторное начисление
// за ту же доставку кошелек отклоняет, такой случай считается уже оплаченным.
func (f *EventHandlerFactory) deliveredHandler(ctx context.Context, deliveryID string) error {
	delivery, err := f.deliveries.GetDelivery(ctx, deliveryID)
	if err != nil {
		return fmt.Errorf("get delivered delivery %s: %w", deliveryID, err)
	}

	if delivery.Status != entities.StatusDelivered {
		return fmt.Errorf("%w: %s is %s", settlement.ErrNotDelivered, deliveryID, delivery.Status)
	}
	if delivery.Driver == nil {
		return fmt.Errorf("%w: %s", settlement.ErrNoDriver, deliveryID)
	}

	kind := entities.CreditKindFor(delivery.PaymentType)
	_, err = f.wallets.Credit(ctx, delivery.Driver.ID, delivery.Fee, delivery.ID, kind)
	if err != nil {
		if errors.Is(err, wallet.ErrDuplicateCredit) {
			return nil
		}
		return fmt.Errorf("credit driver %s for delivery %s: %w", delivery.Driver.ID, deliveryID, err)
	}
	return nil
}
