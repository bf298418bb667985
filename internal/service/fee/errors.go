package fee

import (
	"fmt"

	"marketplace/internal/entities"
)

var (
	ErrInvalidDistance    = fmt.Errorf("%w: distance must be a non-negative number", entities.ErrValidation)
	ErrInvalidWeight      = fmt.Errorf("%w: weight must be a non-negative number", entities.ErrValidation)
	ErrInvalidPaymentType = fmt.Errorf("%w: unknown payment type", entities.ErrValidation)
)
