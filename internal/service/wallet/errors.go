package wallet

import (
	"fmt"

	"marketplace/internal/entities"
)

var (
	ErrInvalidUserID     = fmt.Errorf("%w: invalid user id", entities.ErrValidation)
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be positive", entities.ErrValidation)
	ErrInvalidCreditKind = fmt.Errorf("%w: credit kind must be earning or cod_settlement", entities.ErrValidation)
	ErrMissingDeliveryID = fmt.Errorf("%w: delivery id is required for a credit", entities.ErrValidation)
	ErrInvalidPagination = fmt.Errorf("%w: invalid pagination", entities.ErrValidation)

	ErrWalletNotFound      = fmt.Errorf("%w: wallet not found", entities.ErrNotFound)
	ErrWalletAlreadyExists = fmt.Errorf("%w: wallet already exists", entities.ErrConflict)
	ErrDuplicateCredit     = fmt.Errorf("%w: delivery already credited", entities.ErrConflict)

	ErrInsufficientFunds = fmt.Errorf("%w: balance is lower than the requested amount", entities.ErrInsufficientFunds)
)
