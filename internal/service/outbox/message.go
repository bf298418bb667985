package outbox

import (
	"encoding/json"
	"time"

	"marketplace/internal/entities"
	"marketplace/internal/pkg/kafka"
)

// eventMessage - тело сообщения в топике событий доставки, ключ - id доставки.
type eventMessage struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	DeliveryID string    `json:"delivery_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

func toMessage(event entities.DeliveryEvent) (kafka.Message, error) {
	value, err := json.Marshal(eventMessage{
		ID:         event.ID,
		Type:       event.Type.String(),
		DeliveryID: event.DeliveryID,
		Status:     event.Status.String(),
		OccurredAt: event.OccurredAt.UTC(),
	})
	if err != nil {
		return kafka.Message{}, err
	}

	return kafka.Message{
		Key:   event.DeliveryID,
		Value: value,
	}, nil
}
