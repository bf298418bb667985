package memory

import (
	"context"
	"sync"

	"marketplace/internal/entities"
)

// EventLog собирает исходящие события доставки вместо outbox.
type EventLog struct {
	mu     sync.Mutex
	events []entities.DeliveryEvent
}

func NewEventLog() *EventLog {
	return &EventLog{}
}

func (l *EventLog) Publish(ctx context.Context, event entities.DeliveryEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = append(l.events, event)
	return nil
}

func (l *EventLog) Events() []entities.DeliveryEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]entities.DeliveryEvent(nil), l.events...)
}

func (l *EventLog) ByType(eventType entities.DeliveryEventType) []entities.DeliveryEvent {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]entities.DeliveryEvent, 0)
	for _, event := range l.events {
		if event.Type == eventType {
			result = append(result, event)
		}
	}
	return result
}
