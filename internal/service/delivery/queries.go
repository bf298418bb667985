package delivery

import (
	"context"
	"fmt"

	"marketplace/internal/entities"
)

func (d *Delivery) GetDelivery(ctx context.Context, deliveryID string) (*entities.Delivery, error) {
	if !isValidID(deliveryID) {
		return nil, ErrInvalidDeliveryID
	}

	delivery, err := d.repository.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, fmt.Errorf("get delivery: %w", err)
	}
	return delivery, nil
}

func (d *Delivery) ListByStatus(ctx context.Context, status entities.DeliveryStatus) ([]entities.Delivery, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	deliveries, err := d.repository.GetByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("get deliveries by status: %w", err)
	}
	return deliveries, nil
}

func (d *Delivery) ListByParty(ctx context.Context, role entities.Role, userID string) ([]entities.Delivery, error) {
	if role != entities.RoleSeller && role != entities.RoleDriver {
		return nil, ErrInvalidRole
	}
	if !isValidID(userID) {
		return nil, ErrMissingRequiredFields
	}

	deliveries, err := d.repository.GetByParty(ctx, role, userID)
	if err != nil {
		return nil, fmt.Errorf("get deliveries by party: %w", err)
	}
	return deliveries, nil
}
