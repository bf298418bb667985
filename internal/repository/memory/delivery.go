package memory

import (
	"context"
	"sort"
	"sync"

	"marketplace/internal/entities"
	"marketplace/internal/service/delivery"
)

type DeliveryStore struct {
	mu         sync.RWMutex
	deliveries map[string]*entities.Delivery
	opts       options
}

func NewDeliveryStore(opts ...Option) *DeliveryStore {
	return &DeliveryStore{
		deliveries: make(map[string]*entities.Delivery),
		opts:       buildOptions(opts),
	}
}

func (s *DeliveryStore) Create(ctx context.Context, d entities.Delivery) (*entities.Delivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if _, ok := s.deliveries[d.ID]; ok {
		s.mu.Unlock()
		return nil, delivery.ErrDeliveryAlreadyExists
	}
	stored := cloneDelivery(d)
	s.deliveries[d.ID] = &stored
	s.mu.Unlock()

	s.notify(d.ID)
	created := cloneDelivery(stored)
	return &created, nil
}

func (s *DeliveryStore) CreateBatch(ctx context.Context, deliveries []entities.Delivery) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	for _, d := range deliveries {
		if _, ok := s.deliveries[d.ID]; ok {
			s.mu.Unlock()
			return delivery.ErrDeliveryAlreadyExists
		}
	}
	for _, d := range deliveries {
		stored := cloneDelivery(d)
		s.deliveries[d.ID] = &stored
	}
	s.mu.Unlock()

	for _, d := range deliveries {
		s.notify(d.ID)
	}
	return nil
}

func (s *DeliveryStore) GetByID(ctx context.Context, deliveryID string) (*entities.Delivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.deliveries[deliveryID]
	if !ok {
		return nil, delivery.ErrDeliveryNotFound
	}
	found := cloneDelivery(*d)
	return &found, nil
}

func (s *DeliveryStore) UpdateConditional(ctx context.Context, deliveryID string, expected entities.DeliveryStatus, modify entities.DeliveryModify) (*entities.Delivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	d, ok := s.deliveries[deliveryID]
	if !ok {
		s.mu.Unlock()
		return nil, delivery.ErrDeliveryNotFound
	}
	if d.Status != expected {
		s.mu.Unlock()
		return nil, delivery.ErrStatusMismatch
	}
	if modify.Proof != nil && d.Proof != nil {
		s.mu.Unlock()
		return nil, delivery.ErrProofAlreadyAttached
	}
	if modify.Feedback != nil && d.Feedback != nil {
		s.mu.Unlock()
		return nil, delivery.ErrFeedbackAlreadyGiven
	}

	applyModify(d, modify)
	updated := cloneDelivery(*d)
	s.mu.Unlock()

	s.notify(deliveryID)
	return &updated, nil
}

func (s *DeliveryStore) GetByStatus(ctx context.Context, status entities.DeliveryStatus) ([]entities.Delivery, error) {
	return s.filter(ctx, func(d *entities.Delivery) bool {
		return d.Status == status
	})
}

func (s *DeliveryStore) GetByParty(ctx context.Context, role entities.Role, userID string) ([]entities.Delivery, error) {
	return s.filter(ctx, func(d *entities.Delivery) bool {
		switch role {
		case entities.RoleSeller:
			return d.Seller.ID == userID
		case entities.RoleDriver:
			return d.Driver != nil && d.Driver.ID == userID
		default:
			return false
		}
	})
}

func (s *DeliveryStore) filter(ctx context.Context, match func(d *entities.Delivery) bool) ([]entities.Delivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	result := make([]entities.Delivery, 0)
	for _, d := range s.deliveries {
		if match(d) {
			result = append(result, cloneDelivery(*d))
		}
	}
	s.mu.RUnlock()

	// новые сверху, как в Postgres
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *DeliveryStore) notify(deliveryID string) {
	s.opts.notify(entities.ChangeNotification{Topic: entities.ChannelDeliveryChanges, Key: deliveryID})
}

func applyModify(d *entities.Delivery, modify entities.DeliveryModify) {
	if modify.Status != nil {
		d.Status = *modify.Status
	}
	if modify.Driver != nil {
		driver := *modify.Driver
		d.Driver = &driver
	}
	if modify.CurrentLocation != nil {
		location := *modify.CurrentLocation
		d.CurrentLocation = &location
	}
	if modify.Proof != nil {
		proof := *modify.Proof
		d.Proof = &proof
	}
	if modify.Feedback != nil {
		feedback := *modify.Feedback
		d.Feedback = &feedback
	}
	if modify.Tracking != nil {
		d.TrackingHistory = append(d.TrackingHistory, cloneTracking(*modify.Tracking))
	}
	if !modify.UpdatedAt.IsZero() {
		d.UpdatedAt = modify.UpdatedAt
	}
}

func cloneDelivery(d entities.Delivery) entities.Delivery {
	c := d
	if d.Driver != nil {
		driver := *d.Driver
		c.Driver = &driver
	}
	c.Route.Pickup = cloneCoordinate(d.Route.Pickup)
	c.Route.Dropoff = cloneCoordinate(d.Route.Dropoff)
	c.CurrentLocation = cloneCoordinate(d.CurrentLocation)
	if d.Proof != nil {
		proof := *d.Proof
		c.Proof = &proof
	}
	if d.Feedback != nil {
		feedback := *d.Feedback
		c.Feedback = &feedback
	}
	c.TrackingHistory = make([]entities.TrackingEntry, 0, len(d.TrackingHistory))
	for _, entry := range d.TrackingHistory {
		c.TrackingHistory = append(c.TrackingHistory, cloneTracking(entry))
	}
	return c
}

func cloneTracking(entry entities.TrackingEntry) entities.TrackingEntry {
	entry.Location = cloneCoordinate(entry.Location)
	return entry
}

func cloneCoordinate(c *entities.Coordinate) *entities.Coordinate {
	if c == nil {
		return nil
	}
	coordinate := *c
	return &coordinate
}
