//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=delivery_test
package delivery

import (
	"context"

	"marketplace/internal/entities"
)

type Repository interface {
	Create(ctx context.Context, delivery entities.Delivery) (*entities.Delivery, error)
	CreateBatch(ctx context.Context, deliveries []entities.Delivery) error
	GetByID(ctx context.Context, deliveryID string) (*entities.Delivery, error)

	// UpdateConditional применяет патч только если текущий статус равен expected.
	// Возвращает ErrStatusMismatch, ErrDeliveryNotFound, а для повторного
	// прикрепления подтверждения или отзыва ErrProofAlreadyAttached / ErrFeedbackAlreadyGiven.
	UpdateConditional(ctx context.Context, deliveryID string, expected entities.DeliveryStatus, modify entities.DeliveryModify) (*entities.Delivery, error)

	GetByStatus(ctx context.Context, status entities.DeliveryStatus) ([]entities.Delivery, error)
	GetByParty(ctx context.Context, role entities.Role, userID string) ([]entities.Delivery, error)
}

type FeeCalculator interface {
	ComputeFee(distanceKm, weightKg float64, fragile bool, paymentType entities.PaymentType) (int64, error)
}

type DistanceEstimator interface {
	EstimateKm(route entities.Route) float64
}

type EventPublisher interface {
	Publish(ctx context.Context, event entities.DeliveryEvent) error
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
