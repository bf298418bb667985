package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"marketplace/internal/entities"
)

const (
	DefaultOperationTimeout = 10 * time.Second
	MaxBulkSize             = 500
)

type Delivery struct {
	repository        Repository
	feeCalculator     FeeCalculator
	distanceEstimator DistanceEstimator
	publisher         EventPublisher
	txManager         TxManager
	opTimeout         time.Duration
}

func New(
	repository Repository,
	feeCalculator FeeCalculator,
	distanceEstimator DistanceEstimator,
	publisher EventPublisher,
	txManager TxManager,
	opTimeout time.Duration,
) *Delivery {
	if opTimeout <= 0 {
		opTimeout = DefaultOperationTimeout
	}
	return &Delivery{
		repository:        repository,
		feeCalculator:     feeCalculator,
		distanceEstimator: distanceEstimator,
		publisher:         publisher,
		txManager:         txManager,
		opTimeout:         opTimeout,
	}
}

func (d *Delivery) Create(ctx context.Context, session entities.Session, create entities.DeliveryCreate) (*entities.Delivery, error) {
	seller, ok := session.Seller()
	if !ok || !isValidID(seller.ID) {
		return nil, ErrSellerRequired
	}
	if err := validateCreate(create); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	newDelivery, err := d.buildPending(seller, create, now)
	if err != nil {
		return nil, err
	}

	var created *entities.Delivery
	err = d.withTimeout(ctx, func(ctx context.Context) error {
		return d.txManager.Do(ctx, func(ctx context.Context) error {
			created, err = d.repository.Create(ctx, newDelivery)
			if err != nil {
				return fmt.Errorf("create delivery: %w", err)
			}
			return d.publish(ctx, entities.EventDeliveryNewPending, created.ID, created.Status, now)
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// BulkCreate создает все доставки одной транзакцией: либо все, либо ни одной.
func (d *Delivery) BulkCreate(ctx context.Context, session entities.Session, creates []entities.DeliveryCreate) ([]entities.Delivery, error) {
	seller, ok := session.Seller()
	if !ok || !isValidID(seller.ID) {
		return nil, ErrSellerRequired
	}
	if len(creates) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(creates) > MaxBulkSize {
		return nil, fmt.Errorf("%w: %d rows, limit %d", ErrBatchTooLarge, len(creates), MaxBulkSize)
	}

	now := time.Now().UTC()
	deliveries := make([]entities.Delivery, 0, len(creates))
	for i, create := range creates {
		if err := validateCreate(create); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	for i, create := range creates {
		newDelivery, err := d.buildPending(seller, create, now)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		deliveries = append(deliveries, newDelivery)
	}

	err := d.withTimeout(ctx, func(ctx context.Context) error {
		return d.txManager.Do(ctx, func(ctx context.Context) error {
			if err := d.repository.CreateBatch(ctx, deliveries); err != nil {
				return fmt.Errorf("create deliveries batch: %w", err)
			}
			for _, created := range deliveries {
				if err := d.publish(ctx, entities.EventDeliveryNewPending, created.ID, created.Status, now); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return deliveries, nil
}

// Claim закрепляет доставку за водителем. Из двух одновременных попыток
// успешна ровно одна, вторая получает ErrAlreadyClaimed.
func (d *Delivery) Claim(ctx context.Context, deliveryID string, driver entities.DriverParty) (*entities.Delivery, error) {
	if !isValidID(deliveryID) {
		return nil, ErrInvalidDeliveryID
	}
	if !isValidID(driver.ID) {
		return nil, ErrInvalidDriver
	}

	var claimed *entities.Delivery
	err := d.withTimeout(ctx, func(ctx context.Context) error {
		return d.txManager.Do(ctx, func(ctx context.Context) error {
			now := time.Now().UTC()
			assigned := entities.StatusAssigned
			modify := entities.DeliveryModify{
				Status:    &assigned,
				Driver:    &driver,
				Tracking:  &entities.TrackingEntry{Status: assigned, Timestamp: now},
				UpdatedAt: now,
			}

			var err error
			claimed, err = d.repository.UpdateConditional(ctx, deliveryID, entities.StatusPending, modify)
			if err != nil {
				if errors.Is(err, ErrStatusMismatch) {
					return ErrAlreadyClaimed
				}
				return fmt.Errorf("claim delivery: %w", err)
			}
			return d.publish(ctx, entities.EventDeliveryClaimed, claimed.ID, claimed.Status, now)
		})
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// Advance переводит доставку в следующий статус. Кошелек водителя здесь
// не пополняется, начисление делает подписчик события delivered.
func (d *Delivery) Advance(ctx context.Context, deliveryID, actingDriverID string, location *entities.Coordinate) (*entities.Delivery, error) {
	if !isValidID(deliveryID) {
		return nil, ErrInvalidDeliveryID
	}
	if !isValidID(actingDriverID) {
		return nil, ErrInvalidDriver
	}
	if !isValidCoordinate(location) {
		return nil, ErrInvalidCoordinate
	}

	var advanced *entities.Delivery
	err := d.withTimeout(ctx, func(ctx context.Context) error {
		return d.txManager.Do(ctx, func(ctx context.Context) error {
			current, err := d.repository.GetByID(ctx, deliveryID)
			if err != nil {
				return fmt.Errorf("get delivery: %w", err)
			}

			switch current.Status {
			case entities.StatusPending:
				return ErrNotClaimed
			case entities.StatusDelivered:
				return ErrAlreadyDelivered
			}
			if current.Driver == nil || current.Driver.ID != actingDriverID {
				return ErrNotAssignedDriver
			}

			next, ok := current.Status.Next()
			if !ok {
				return fmt.Errorf("%w: %s", entities.ErrInvalidTransition, current.Status)
			}

			now := time.Now().UTC()
			modify := entities.DeliveryModify{
				Status:          &next,
				CurrentLocation: location,
				Tracking:        &entities.TrackingEntry{Status: next, Location: location, Timestamp: now},
				UpdatedAt:       now,
			}

			advanced, err = d.repository.UpdateConditional(ctx, deliveryID, current.Status, modify)
			if err != nil {
				if errors.Is(err, ErrStatusMismatch) {
					return ErrStaleStatus
				}
				return fmt.Errorf("advance delivery: %w", err)
			}

			if next == entities.StatusDelivered {
				return d.publish(ctx, entities.EventDeliveryDelivered, advanced.ID, advanced.Status, now)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return advanced, nil
}

func (d *Delivery) AttachProof(ctx context.Context, deliveryID string, proof entities.ProofOfDelivery) (*entities.Delivery, error) {
	if !isValidID(deliveryID) {
		return nil, ErrInvalidDeliveryID
	}
	if err := validateProof(proof); err != nil {
		return nil, err
	}

	var updated *entities.Delivery
	err := d.withTimeout(ctx, func(ctx context.Context) error {
		return d.txManager.Do(ctx, func(ctx context.Context) error {
			current, err := d.repository.GetByID(ctx, deliveryID)
			if err != nil {
				return fmt.Errorf("get delivery: %w", err)
			}
			if current.Status != entities.StatusDelivered {
				return ErrNotDelivered
			}
			if current.Proof != nil {
				return ErrProofAlreadyAttached
			}
			if current.Driver == nil || current.Driver.ID != proof.UploadedBy {
				return ErrNotAssignedDriver
			}

			now := time.Now().UTC()
			if proof.Timestamp.IsZero() {
				proof.Timestamp = now
			}

			updated, err = d.repository.UpdateConditional(ctx, deliveryID, entities.StatusDelivered, entities.DeliveryModify{
				Proof:     &proof,
				UpdatedAt: now,
			})
			if err != nil {
				if errors.Is(err, ErrStatusMismatch) {
					return ErrNotDelivered
				}
				return fmt.Errorf("attach proof: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (d *Delivery) AttachFeedback(ctx context.Context, deliveryID string, feedback entities.Feedback) (*entities.Delivery, error) {
	if !isValidID(deliveryID) {
		return nil, ErrInvalidDeliveryID
	}
	if err := validateFeedback(feedback); err != nil {
		return nil, err
	}

	var updated *entities.Delivery
	err := d.withTimeout(ctx, func(ctx context.Context) error {
		return d.txManager.Do(ctx, func(ctx context.Context) error {
			current, err := d.repository.GetByID(ctx, deliveryID)
			if err != nil {
				return fmt.Errorf("get delivery: %w", err)
			}
			if current.Status != entities.StatusDelivered {
				return ErrNotDelivered
			}
			if current.Feedback != nil {
				return ErrFeedbackAlreadyGiven
			}
			if feedback.GivenBy == entities.RoleSeller && current.Seller.ID != feedback.AuthorID {
				return ErrNotDeliverySeller
			}

			now := time.Now().UTC()
			if feedback.Timestamp.IsZero() {
				feedback.Timestamp = now
			}

			updated, err = d.repository.UpdateConditional(ctx, deliveryID, entities.StatusDelivered, entities.DeliveryModify{
				Feedback:  &feedback,
				UpdatedAt: now,
			})
			if err != nil {
				if errors.Is(err, ErrStatusMismatch) {
					return ErrNotDelivered
				}
				return fmt.Errorf("attach feedback: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateDriverLocation обновляет текущую позицию во всех активных доставках водителя.
// Доставки, сменившие статус между чтением и записью, пропускаются.
func (d *Delivery) UpdateDriverLocation(ctx context.Context, driverID string, location entities.Coordinate) (int, error) {
	if !isValidID(driverID) {
		return 0, ErrInvalidDriver
	}
	if !isValidCoordinate(&location) {
		return 0, ErrInvalidCoordinate
	}

	updatedCount := 0
	err := d.withTimeout(ctx, func(ctx context.Context) error {
		deliveries, err := d.repository.GetByParty(ctx, entities.RoleDriver, driverID)
		if err != nil {
			return fmt.Errorf("get driver deliveries: %w", err)
		}

		for _, delivery := range deliveries {
			if !delivery.Status.Active() {
				continue
			}
			_, err := d.repository.UpdateConditional(ctx, delivery.ID, delivery.Status, entities.DeliveryModify{
				CurrentLocation: &location,
				UpdatedAt:       time.Now().UTC(),
			})
			if err != nil {
				if errors.Is(err, ErrStatusMismatch) || errors.Is(err, ErrDeliveryNotFound) {
					continue
				}
				return fmt.Errorf("update location of delivery %s: %w", delivery.ID, err)
			}
			updatedCount++
		}
		return nil
	})
	if err != nil {
		return updatedCount, err
	}
	return updatedCount, nil
}

func (d *Delivery) buildPending(seller entities.SellerParty, create entities.DeliveryCreate, now time.Time) (entities.Delivery, error) {
	var distanceKm float64
	if create.DistanceKm != nil {
		distanceKm = *create.DistanceKm
	} else {
		distanceKm = d.distanceEstimator.EstimateKm(create.Route)
	}

	fee, err := d.feeCalculator.ComputeFee(distanceKm, create.Item.WeightKg, create.Item.Fragile, create.PaymentType)
	if err != nil {
		return entities.Delivery{}, fmt.Errorf("compute fee: %w", err)
	}

	return entities.Delivery{
		ID:          uuid.NewString(),
		Seller:      seller,
		Route:       create.Route,
		Item:        create.Item,
		PaymentType: create.PaymentType,
		DistanceKm:  distanceKm,
		Fee:         fee,
		Status:      entities.StatusPending,
		TrackingHistory: []entities.TrackingEntry{
			{Status: entities.StatusPending, Location: create.Route.Pickup, Timestamp: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (d *Delivery) publish(ctx context.Context, eventType entities.DeliveryEventType, deliveryID string, status entities.DeliveryStatus, at time.Time) error {
	event := entities.DeliveryEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		DeliveryID: deliveryID,
		Status:     status,
		OccurredAt: at,
	}
	if err := d.publisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}
	return nil
}

// withTimeout ограничивает операцию по времени. Истечение срока отдается как
// ErrTimeout: результат на стороне хранилища в этом случае неизвестен.
func (d *Delivery) withTimeout(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, d.opTimeout)
	defer cancel()

	err := fn(ctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", entities.ErrTimeout, err)
	}
	return err
}
