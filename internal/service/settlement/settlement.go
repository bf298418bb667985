package settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/entities"
)

type Service struct {
	guard         IdempotencyGuard
	eventsFactory HandlerFactory
}

func New(guard IdempotencyGuard, eventsFactory HandlerFactory) *Service {
	return &Service{
		guard:         guard,
		eventsFactory: eventsFactory,
	}
}

// ProcessEvent выполняет обработчик события доставки. Возвращает true, если
// событие было обработано, и false, если его пропустили.
func (s *Service) ProcessEvent(ctx context.Context, event entities.DeliveryEvent) (bool, error) {
	if strings.TrimSpace(event.ID) == "" || event.Type == "" || strings.TrimSpace(event.DeliveryID) == "" {
		return false, ErrInvalidEvent
	}

	executeFn, err := s.eventsFactory.GetHandler(event.Type)
	if err != nil {
		// события, на которые не нужно реагировать, пропускаем
		if errors.Is(err, ErrUndefinedEventType) {
			return false, nil
		}
		return false, err
	}

	err = s.guard.Acquire(ctx, event.ID)
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			return false, nil
		}
		return false, fmt.Errorf("acquire event %s: %w", event.ID, err)
	}

	if err := executeFn(ctx, event.DeliveryID); err != nil {
		// отметку о неудаче ставим без отмененного контекста обработки
		markErr := s.guard.MarkFailed(context.WithoutCancel(ctx), event.ID)
		if markErr != nil {
			return false, fmt.Errorf("%w (mark failed: %w)", err, markErr)
		}
		return false, err
	}

	err = s.guard.MarkProcessed(context.WithoutCancel(ctx), event.ID)
	if err != nil {
		return true, fmt.Errorf("mark event %s processed: %w", event.ID, err)
	}

	return true, nil
}
