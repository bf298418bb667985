package delivery

import (
	"math"
	"strings"

	"marketplace/internal/entities"
)

const maxRating = 5

func isValidID(id string) bool {
	return strings.TrimSpace(id) != ""
}

func isValidCoordinate(c *entities.Coordinate) bool {
	if c == nil {
		return true
	}
	return !math.IsNaN(c.Lat) && !math.IsNaN(c.Lng) &&
		c.Lat >= -90 && c.Lat <= 90 &&
		c.Lng >= -180 && c.Lng <= 180
}

func validateCreate(create entities.DeliveryCreate) error {
	if !isValidID(create.Route.PickupAddress) ||
		!isValidID(create.Route.DropoffAddress) ||
		!isValidID(create.Item.Name) {
		return ErrMissingRequiredFields
	}
	if math.IsNaN(create.Item.WeightKg) || math.IsInf(create.Item.WeightKg, 0) || create.Item.WeightKg <= 0 {
		return ErrInvalidWeight
	}
	if !create.PaymentType.Valid() {
		return ErrInvalidPaymentType
	}
	if create.DistanceKm != nil {
		d := *create.DistanceKm
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return ErrInvalidDistance
		}
	}
	if !isValidCoordinate(create.Route.Pickup) || !isValidCoordinate(create.Route.Dropoff) {
		return ErrInvalidCoordinate
	}
	return nil
}

func validateProof(proof entities.ProofOfDelivery) error {
	if !proof.Type.Valid() || strings.TrimSpace(proof.Payload) == "" {
		return ErrInvalidProof
	}
	if !isValidID(proof.UploadedBy) {
		return ErrMissingRequiredFields
	}
	return nil
}

func validateFeedback(feedback entities.Feedback) error {
	if feedback.Rating < 1 || feedback.Rating > maxRating {
		return ErrInvalidRating
	}
	if feedback.GivenBy != entities.RoleCustomer && feedback.GivenBy != entities.RoleSeller {
		return ErrInvalidFeedbackAuthor
	}
	if !isValidID(feedback.AuthorID) {
		return ErrMissingRequiredFields
	}
	return nil
}
