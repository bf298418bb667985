package delivery

import (
	"fmt"

	"marketplace/internal/entities"
)

var (
	ErrMissingRequiredFields = fmt.Errorf("%w: missing required fields", entities.ErrValidation)
	ErrInvalidDeliveryID     = fmt.Errorf("%w: invalid delivery id", entities.ErrValidation)
	ErrInvalidDriver         = fmt.Errorf("%w: invalid driver", entities.ErrValidation)
	ErrInvalidWeight         = fmt.Errorf("%w: item weight must be positive", entities.ErrValidation)
	ErrInvalidDistance       = fmt.Errorf("%w: distance must be non-negative", entities.ErrValidation)
	ErrInvalidPaymentType    = fmt.Errorf("%w: unknown payment type", entities.ErrValidation)
	ErrInvalidStatus         = fmt.Errorf("%w: unknown delivery status", entities.ErrValidation)
	ErrInvalidRole           = fmt.Errorf("%w: unknown role", entities.ErrValidation)
	ErrInvalidCoordinate     = fmt.Errorf("%w: coordinate out of range", entities.ErrValidation)
	ErrInvalidProof          = fmt.Errorf("%w: invalid proof of delivery", entities.ErrValidation)
	ErrInvalidRating         = fmt.Errorf("%w: rating must be between 1 and 5", entities.ErrValidation)
	ErrInvalidFeedbackAuthor = fmt.Errorf("%w: feedback can be given by a customer or a seller", entities.ErrValidation)
	ErrEmptyBatch            = fmt.Errorf("%w: batch is empty", entities.ErrValidation)
	ErrBatchTooLarge         = fmt.Errorf("%w: batch is too large", entities.ErrValidation)

	ErrSellerRequired    = fmt.Errorf("%w: only sellers can create deliveries", entities.ErrAuthorization)
	ErrNotAssignedDriver = fmt.Errorf("%w: delivery is assigned to another driver", entities.ErrAuthorization)
	ErrNotDeliverySeller = fmt.Errorf("%w: delivery belongs to another seller", entities.ErrAuthorization)

	ErrDeliveryNotFound = fmt.Errorf("%w: delivery not found", entities.ErrNotFound)

	ErrNotClaimed       = fmt.Errorf("%w: delivery is not claimed yet", entities.ErrInvalidTransition)
	ErrAlreadyDelivered = fmt.Errorf("%w: delivery is already delivered", entities.ErrInvalidTransition)

	ErrDeliveryAlreadyExists = fmt.Errorf("%w: delivery already exists", entities.ErrConflict)
	ErrAlreadyClaimed        = fmt.Errorf("%w: delivery already claimed", entities.ErrConflict)
	ErrStaleStatus           = fmt.Errorf("%w: delivery status changed concurrently", entities.ErrConflict)
	ErrStatusMismatch        = fmt.Errorf("%w: delivery status does not match", entities.ErrConflict)
	ErrNotDelivered          = fmt.Errorf("%w: delivery is not delivered", entities.ErrConflict)
	ErrProofAlreadyAttached  = fmt.Errorf("%w: proof of delivery already attached", entities.ErrConflict)
	ErrFeedbackAlreadyGiven  = fmt.Errorf("%w: feedback already given", entities.ErrConflict)
)
