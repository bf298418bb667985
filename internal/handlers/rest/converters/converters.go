package converters

import (
	"github.com/AlekSi/pointer"
	"marketplace/internal/entities"
	"marketplace/internal/generated/dto"
	"marketplace/internal/service/feed"
)

func CoordinateFromDTO(c *dto.Coordinate) *entities.Coordinate {
	if c == nil {
		return nil
	}
	return &entities.Coordinate{Lat: c.Lat, Lng: c.Lng}
}

func CoordinateToDTO(c *entities.Coordinate) *dto.Coordinate {
	if c == nil {
		return nil
	}
	return &dto.Coordinate{Lat: c.Lat, Lng: c.Lng}
}

func DeliveryCreateFromDTO(in dto.DeliveryCreate) entities.DeliveryCreate {
	return entities.DeliveryCreate{
		Route: entities.Route{
			PickupAddress:  in.PickupAddress,
			DropoffAddress: in.DropoffAddress,
			Pickup:         CoordinateFromDTO(in.PickupLocation),
			Dropoff:        CoordinateFromDTO(in.DropoffLocation),
		},
		Item: entities.Item{
			Name:     in.ItemName,
			Size:     pointer.Get(in.ItemSize),
			WeightKg: in.ItemWeightKg,
			Fragile:  pointer.Get(in.ItemFragile),
		},
		PaymentType: entities.PaymentType(in.PaymentType),
		DistanceKm:  in.DistanceKm,
	}
}

func DeliveryToDTO(d *entities.Delivery) dto.Delivery {
	out := dto.Delivery{
		ID: d.ID,
		Seller: dto.SellerParty{
			ID:   d.Seller.ID,
			Name: d.Seller.Name,
		},
		PickupAddress:   d.Route.PickupAddress,
		DropoffAddress:  d.Route.DropoffAddress,
		PickupLocation:  CoordinateToDTO(d.Route.Pickup),
		DropoffLocation: CoordinateToDTO(d.Route.Dropoff),
		CurrentLocation: CoordinateToDTO(d.CurrentLocation),
		ItemName:        d.Item.Name,
		ItemSize:        d.Item.Size,
		ItemWeightKg:    d.Item.WeightKg,
		ItemFragile:     d.Item.Fragile,
		PaymentType:     dto.PaymentType(d.PaymentType),
		DistanceKm:      d.DistanceKm,
		Fee:             d.Fee,
		Status:          dto.DeliveryStatus(d.Status),
		TrackingHistory: make([]dto.TrackingEntry, len(d.TrackingHistory)),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}

	if d.Driver != nil {
		out.Driver = &dto.DriverParty{
			ID:    d.Driver.ID,
			Name:  d.Driver.Name,
			Phone: d.Driver.Phone,
		}
	}

	for i, entry := range d.TrackingHistory {
		out.TrackingHistory[i] = dto.TrackingEntry{
			Status:    dto.DeliveryStatus(entry.Status),
			Location:  CoordinateToDTO(entry.Location),
			Timestamp: entry.Timestamp,
		}
	}

	if d.Proof != nil {
		out.Proof = &dto.ProofOfDelivery{
			Type:       dto.ProofType(d.Proof.Type),
			Payload:    d.Proof.Payload,
			UploadedBy: d.Proof.UploadedBy,
			Timestamp:  d.Proof.Timestamp,
		}
	}

	if d.Feedback != nil {
		out.Feedback = &dto.Feedback{
			Rating:    d.Feedback.Rating,
			Comment:   pointer.ToStringOrNil(d.Feedback.Comment),
			GivenBy:   dto.Role(d.Feedback.GivenBy),
			AuthorID:  d.Feedback.AuthorID,
			Timestamp: d.Feedback.Timestamp,
		}
	}

	return out
}

func DeliveriesToDTO(deliveries []entities.Delivery) dto.DeliveryList {
	out := dto.DeliveryList{
		Deliveries: make([]dto.Delivery, len(deliveries)),
	}
	for i := range deliveries {
		out.Deliveries[i] = DeliveryToDTO(&deliveries[i])
	}
	return out
}

func TransactionToDTO(t entities.WalletTransaction) dto.WalletTransaction {
	return dto.WalletTransaction{
		ID:          t.ID,
		Type:        dto.TransactionType(t.Type),
		Amount:      t.Amount,
		Description: t.Description,
		DeliveryID:  t.DeliveryID,
		Timestamp:   t.Timestamp,
	}
}

func TransactionsToDTO(transactions []entities.WalletTransaction) []dto.WalletTransaction {
	out := make([]dto.WalletTransaction, len(transactions))
	for i, t := range transactions {
		out[i] = TransactionToDTO(t)
	}
	return out
}

func HistoryPageToDTO(page *entities.WalletHistoryPage) dto.WalletTransactionsPage {
	return dto.WalletTransactionsPage{
		Transactions: TransactionsToDTO(page.Transactions),
		Total:        page.Total,
		Limit:        page.Limit,
		Offset:       page.Offset,
	}
}

func WalletSnapshotToDTO(s feed.WalletSnapshot) dto.WalletSnapshot {
	return dto.WalletSnapshot{
		Balance:      s.Balance,
		Transactions: TransactionsToDTO(s.Transactions),
	}
}

func SellerAnalyticsToDTO(a *entities.SellerAnalytics) dto.SellerAnalytics {
	return dto.SellerAnalytics{
		TotalDeliveries:     a.TotalDeliveries,
		TotalSpent:          a.TotalSpent,
		CodDeliveries:       a.CODDeliveries,
		PrepaidDeliveries:   a.PrepaidDeliveries,
		CompletedDeliveries: a.CompletedDeliveries,
		PendingDeliveries:   a.PendingDeliveries,
		AverageRating:       a.AverageRating,
	}
}

func DriverEarningsToDTO(e *entities.DriverEarnings) dto.DriverEarnings {
	return dto.DriverEarnings{
		Daily:           e.Daily,
		Weekly:          e.Weekly,
		Monthly:         e.Monthly,
		CodEarnings:     e.CODEarnings,
		PrepaidEarnings: e.PrepaidEarnings,
		TotalEarnings:   e.TotalEarnings,
	}
}
