package delivery

import (
	"encoding/json"

	"marketplace/internal/entities"
)

func ToDomain(d *DeliveryDB) *entities.Delivery {
	if d == nil {
		return nil
	}

	delivery := &entities.Delivery{
		ID: d.ID,
		Seller: entities.SellerParty{
			ID:   d.SellerID,
			Name: d.SellerName,
		},
		Route: entities.Route{
			PickupAddress:  d.PickupAddress,
			DropoffAddress: d.DropoffAddress,
			Pickup:         coordinateToDomain(d.PickupLocation),
			Dropoff:        coordinateToDomain(d.DropoffLocation),
		},
		CurrentLocation: coordinateToDomain(d.CurrentLocation),
		Item: entities.Item{
			Name:     d.ItemName,
			Size:     d.ItemSize,
			WeightKg: d.ItemWeightKg,
			Fragile:  d.ItemFragile,
		},
		PaymentType:     entities.PaymentType(d.PaymentType),
		DistanceKm:      d.DistanceKm,
		Fee:             d.Fee,
		Status:          entities.DeliveryStatus(d.Status),
		TrackingHistory: make([]entities.TrackingEntry, 0, len(d.TrackingHistory)),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}

	if d.DriverID != nil {
		driver := &entities.DriverParty{ID: *d.DriverID}
		if d.DriverName != nil {
			driver.Name = *d.DriverName
		}
		if d.DriverPhone != nil {
			driver.Phone = *d.DriverPhone
		}
		delivery.Driver = driver
	}

	for _, entry := range d.TrackingHistory {
		delivery.TrackingHistory = append(delivery.TrackingHistory, trackingToDomain(entry))
	}

	if d.Proof != nil {
		delivery.Proof = &entities.ProofOfDelivery{
			Type:       entities.ProofType(d.Proof.Type),
			Payload:    d.Proof.Payload,
			UploadedBy: d.Proof.UploadedBy,
			Timestamp:  d.Proof.Timestamp,
		}
	}
	if d.Feedback != nil {
		delivery.Feedback = &entities.Feedback{
			Rating:    d.Feedback.Rating,
			Comment:   d.Feedback.Comment,
			GivenBy:   entities.Role(d.Feedback.GivenBy),
			AuthorID:  d.Feedback.AuthorID,
			Timestamp: d.Feedback.Timestamp,
		}
	}

	return delivery
}

func FromDomain(d *entities.Delivery) *DeliveryDB {
	if d == nil {
		return nil
	}

	deliveryDB := &DeliveryDB{
		ID:              d.ID,
		SellerID:        d.Seller.ID,
		SellerName:      d.Seller.Name,
		PickupAddress:   d.Route.PickupAddress,
		DropoffAddress:  d.Route.DropoffAddress,
		PickupLocation:  coordinateFromDomain(d.Route.Pickup),
		DropoffLocation: coordinateFromDomain(d.Route.Dropoff),
		CurrentLocation: coordinateFromDomain(d.CurrentLocation),
		ItemName:        d.Item.Name,
		ItemSize:        d.Item.Size,
		ItemWeightKg:    d.Item.WeightKg,
		ItemFragile:     d.Item.Fragile,
		PaymentType:     d.PaymentType.String(),
		DistanceKm:      d.DistanceKm,
		Fee:             d.Fee,
		Status:          d.Status.String(),
		TrackingHistory: make([]TrackingEntryDB, 0, len(d.TrackingHistory)),
		Proof:           proofFromDomain(d.Proof),
		Feedback:        feedbackFromDomain(d.Feedback),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}

	if d.Driver != nil {
		deliveryDB.DriverID = &d.Driver.ID
		deliveryDB.DriverName = &d.Driver.Name
		deliveryDB.DriverPhone = &d.Driver.Phone
	}

	for _, entry := range d.TrackingHistory {
		deliveryDB.TrackingHistory = append(deliveryDB.TrackingHistory, trackingFromDomain(entry))
	}

	return deliveryDB
}

func coordinateToDomain(c *CoordinateDB) *entities.Coordinate {
	if c == nil {
		return nil
	}
	return &entities.Coordinate{Lat: c.Lat, Lng: c.Lng}
}

func coordinateFromDomain(c *entities.Coordinate) *CoordinateDB {
	if c == nil {
		return nil
	}
	return &CoordinateDB{Lat: c.Lat, Lng: c.Lng}
}

func trackingToDomain(entry TrackingEntryDB) entities.TrackingEntry {
	return entities.TrackingEntry{
		Status:    entities.DeliveryStatus(entry.Status),
		Location:  coordinateToDomain(entry.Location),
		Timestamp: entry.Timestamp,
	}
}

func trackingFromDomain(entry entities.TrackingEntry) TrackingEntryDB {
	return TrackingEntryDB{
		Status:    entry.Status.String(),
		Location:  coordinateFromDomain(entry.Location),
		Timestamp: entry.Timestamp,
	}
}

func proofFromDomain(p *entities.ProofOfDelivery) *ProofDB {
	if p == nil {
		return nil
	}
	return &ProofDB{
		Type:       string(p.Type),
		Payload:    p.Payload,
		UploadedBy: p.UploadedBy,
		Timestamp:  p.Timestamp,
	}
}

func feedbackFromDomain(f *entities.Feedback) *FeedbackDB {
	if f == nil {
		return nil
	}
	return &FeedbackDB{
		Rating:    f.Rating,
		Comment:   f.Comment,
		GivenBy:   f.GivenBy.String(),
		AuthorID:  f.AuthorID,
		Timestamp: f.Timestamp,
	}
}

// nullableJSON кодирует значение для jsonb колонки, nil превращается в NULL, а не в 'null'.
func nullableJSON[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
