package feed

import (
	"fmt"

	"marketplace/internal/entities"
)

var (
	ErrInvalidKey      = fmt.Errorf("%w: subscription key is required", entities.ErrValidation)
	ErrInvalidRole     = fmt.Errorf("%w: role cannot be subscribed to", entities.ErrValidation)
	ErrMissingCallback = fmt.Errorf("%w: onChange callback is required", entities.ErrValidation)
)
