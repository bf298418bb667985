package delivery_events

import (
	"time"

	"marketplace/internal/entities"
)

// deliveryEventMessage - тело сообщения в топике событий доставки.
type deliveryEventMessage struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	DeliveryID string    `json:"delivery_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (m deliveryEventMessage) toEntity() entities.DeliveryEvent {
	return entities.DeliveryEvent{
		ID:         m.ID,
		Type:       entities.DeliveryEventType(m.Type),
		DeliveryID: m.DeliveryID,
		Status:     entities.DeliveryStatus(m.Status),
		OccurredAt: m.OccurredAt,
	}
}
