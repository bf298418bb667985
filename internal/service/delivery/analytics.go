package delivery

import (
	"context"
	"fmt"
	"time"

	"marketplace/internal/entities"
)

func (d *Delivery) SellerAnalytics(ctx context.Context, sellerID string) (*entities.SellerAnalytics, error) {
	deliveries, err := d.ListByParty(ctx, entities.RoleSeller, sellerID)
	if err != nil {
		return nil, err
	}

	analytics := &entities.SellerAnalytics{
		TotalDeliveries: len(deliveries),
	}

	ratingSum, ratingCount := 0, 0
	for _, delivery := range deliveries {
		analytics.TotalSpent += delivery.Fee

		switch delivery.PaymentType {
		case entities.PaymentCashOnDelivery:
			analytics.CODDeliveries++
		case entities.PaymentPrepaid:
			analytics.PrepaidDeliveries++
		}

		if delivery.Status == entities.StatusDelivered {
			analytics.CompletedDeliveries++
		} else {
			analytics.PendingDeliveries++
		}

		if delivery.Feedback != nil {
			ratingSum += delivery.Feedback.Rating
			ratingCount++
		}
	}

	if ratingCount > 0 {
		analytics.AverageRating = float64(ratingSum) / float64(ratingCount)
	}
	return analytics, nil
}

// DriverEarnings считает заработок по завершенным доставкам. Окна дня, недели
// (с воскресенья) и месяца берутся в часовом поясе now по времени перехода в delivered.
func (d *Delivery) DriverEarnings(ctx context.Context, driverID string, now time.Time) (*entities.DriverEarnings, error) {
	deliveries, err := d.ListByParty(ctx, entities.RoleDriver, driverID)
	if err != nil {
		return nil, fmt.Errorf("driver earnings: %w", err)
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	startOfWeek := startOfDay.AddDate(0, 0, -int(startOfDay.Weekday()))
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	earnings := &entities.DriverEarnings{}
	for _, delivery := range deliveries {
		if delivery.Status != entities.StatusDelivered {
			continue
		}
		deliveredAt, ok := delivery.DeliveredAt()
		if !ok {
			deliveredAt = delivery.UpdatedAt
		}

		earnings.TotalEarnings += delivery.Fee
		if delivery.PaymentType == entities.PaymentCashOnDelivery {
			earnings.CODEarnings += delivery.Fee
		} else {
			earnings.PrepaidEarnings += delivery.Fee
		}

		if !deliveredAt.Before(startOfDay) {
			earnings.Daily += delivery.Fee
		}
		if !deliveredAt.Before(startOfWeek) {
			earnings.Weekly += delivery.Fee
		}
		if !deliveredAt.Before(startOfMonth) {
			earnings.Monthly += delivery.Fee
		}
	}
	return earnings, nil
}
