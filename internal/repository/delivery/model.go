package delivery

import "time"

type DeliveryDB struct {
	ID              string
	SellerID        string
	SellerName      string
	DriverID        *string
	DriverName      *string
	DriverPhone     *string
	PickupAddress   string
	DropoffAddress  string
	PickupLocation  *CoordinateDB
	DropoffLocation *CoordinateDB
	CurrentLocation *CoordinateDB
	ItemName        string
	ItemSize        string
	ItemWeightKg    float64
	ItemFragile     bool
	PaymentType     string
	DistanceKm      float64
	Fee             int64
	Status          string
	TrackingHistory []TrackingEntryDB
	Proof           *ProofDB
	Feedback        *FeedbackDB
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// jsonb колонки

type CoordinateDB struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type TrackingEntryDB struct {
	Status    string        `json:"status"`
	Location  *CoordinateDB `json:"location,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

type ProofDB struct {
	Type       string    `json:"type"`
	Payload    string    `json:"payload"`
	UploadedBy string    `json:"uploaded_by"`
	Timestamp  time.Time `json:"timestamp"`
}

type FeedbackDB struct {
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	GivenBy   string    `json:"given_by"`
	AuthorID  string    `json:"author_id"`
	Timestamp time.Time `json:"timestamp"`
}
