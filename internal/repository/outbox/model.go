package outbox

import "time"

type EventDB struct {
	ID         string
	EventType  string
	DeliveryID string
	Status     string
	OccurredAt time.Time
	SentAt     *time.Time
}
