package settlement

import (
	"errors"
	"fmt"

	"marketplace/internal/entities"
)

var (
	ErrInvalidEvent       = fmt.Errorf("%w: event id, type and delivery id are required", entities.ErrValidation)
	ErrUndefinedEventType = errors.New("undefined delivery event type")

	ErrNotDelivered = fmt.Errorf("%w: delivery is not delivered yet", entities.ErrConflict)
	ErrNoDriver     = fmt.Errorf("%w: delivered delivery has no driver", entities.ErrConflict)

	ErrAlreadyProcessed = errors.New("event already processed")
	ErrEventInProgress  = errors.New("event is being processed by another worker")
	ErrRetriesExhausted = errors.New("event retries exhausted")
)
