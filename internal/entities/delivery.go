package entities

import "time"

type DeliveryStatus string

const (
	StatusPending   DeliveryStatus = "pending"
	StatusAssigned  DeliveryStatus = "assigned"
	StatusPickedUp  DeliveryStatus = "picked_up"
	StatusInTransit DeliveryStatus = "in_transit"
	StatusDelivered DeliveryStatus = "delivered"
)

// порядок статусов, история трекинга не может идти назад
var statusRank = map[DeliveryStatus]int{
	StatusPending:   0,
	StatusAssigned:  1,
	StatusPickedUp:  2,
	StatusInTransit: 3,
	StatusDelivered: 4,
}

// переходы для Advance, pending -> assigned делается только через Claim
var advanceSuccessor = map[DeliveryStatus]DeliveryStatus{
	StatusAssigned:  StatusPickedUp,
	StatusPickedUp:  StatusInTransit,
	StatusInTransit: StatusDelivered,
}

func (s DeliveryStatus) String() string {
	return string(s)
}

func (s DeliveryStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Rank возвращает позицию статуса в жизненном цикле, -1 для неизвестного.
func (s DeliveryStatus) Rank() int {
	rank, ok := statusRank[s]
	if !ok {
		return -1
	}
	return rank
}

// Next возвращает следующий статус для Advance.
func (s DeliveryStatus) Next() (DeliveryStatus, bool) {
	next, ok := advanceSuccessor[s]
	return next, ok
}

// Active - доставка закреплена за водителем и еще не завершена.
func (s DeliveryStatus) Active() bool {
	return s == StatusAssigned || s == StatusPickedUp || s == StatusInTransit
}

var ActiveStatuses = []DeliveryStatus{StatusAssigned, StatusPickedUp, StatusInTransit}

type PaymentType string

const (
	PaymentPrepaid        PaymentType = "prepaid"
	PaymentCashOnDelivery PaymentType = "cash_on_delivery"
)

func (p PaymentType) String() string {
	return string(p)
}

func (p PaymentType) Valid() bool {
	return p == PaymentPrepaid || p == PaymentCashOnDelivery
}

type Coordinate struct {
	Lat float64
	Lng float64
}

type Route struct {
	PickupAddress  string
	DropoffAddress string
	Pickup         *Coordinate
	Dropoff        *Coordinate
}

type Item struct {
	Name     string
	Size     string
	WeightKg float64
	Fragile  bool
}

type TrackingEntry struct {
	Status    DeliveryStatus
	Location  *Coordinate
	Timestamp time.Time
}

type ProofType string

const (
	ProofSignature ProofType = "signature"
	ProofPhoto     ProofType = "photo"
)

func (p ProofType) Valid() bool {
	return p == ProofSignature || p == ProofPhoto
}

type ProofOfDelivery struct {
	Type       ProofType
	Payload    string // data URL с подписью или фото
	UploadedBy string
	Timestamp  time.Time
}

type Feedback struct {
	Rating    int
	Comment   string
	GivenBy   Role
	AuthorID  string
	Timestamp time.Time
}

type Delivery struct {
	ID              string
	Seller          SellerParty
	Driver          *DriverParty
	Route           Route
	CurrentLocation *Coordinate
	Item            Item
	PaymentType     PaymentType
	DistanceKm      float64
	Fee             int64
	Status          DeliveryStatus
	TrackingHistory []TrackingEntry
	Proof           *ProofOfDelivery
	Feedback        *Feedback
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DeliveredAt возвращает время перехода в delivered из истории трекинга.
func (d *Delivery) DeliveredAt() (time.Time, bool) {
	for i := len(d.TrackingHistory) - 1; i >= 0; i-- {
		if d.TrackingHistory[i].Status == StatusDelivered {
			return d.TrackingHistory[i].Timestamp, true
		}
	}
	return time.Time{}, false
}

// DeliveryCreate - входные данные продавца для новой доставки.
type DeliveryCreate struct {
	Route       Route
	Item        Item
	PaymentType PaymentType
	DistanceKm  *float64 // если nil, дистанция оценивается по координатам
}

// DeliveryModify - патч для условного обновления. nil поля не меняются,
// Tracking добавляется в конец истории.
type DeliveryModify struct {
	Status          *DeliveryStatus
	Driver          *DriverParty
	CurrentLocation *Coordinate
	Proof           *ProofOfDelivery
	Feedback        *Feedback
	Tracking        *TrackingEntry
	UpdatedAt       time.Time
}

// DeliveryQuery описывает живую выборку для подписок.
type DeliveryQuery struct {
	DeliveryID string
	Status     *DeliveryStatus
	Role       Role
	UserID     string
}
