package entities

type SellerAnalytics struct {
	TotalDeliveries     int
	TotalSpent          int64
	CODDeliveries       int
	PrepaidDeliveries   int
	CompletedDeliveries int
	PendingDeliveries   int
	AverageRating       float64
}

type DriverEarnings struct {
	Daily           int64
	Weekly          int64
	Monthly         int64
	CODEarnings     int64
	PrepaidEarnings int64
	TotalEarnings   int64
}
