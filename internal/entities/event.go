package entities

import "time"

type DeliveryEventType string

const (
	EventDeliveryNewPending DeliveryEventType = "delivery.new_pending"
	EventDeliveryClaimed    DeliveryEventType = "delivery.claimed"
	EventDeliveryDelivered  DeliveryEventType = "delivery.delivered"
)

func (t DeliveryEventType) String() string {
	return string(t)
}

type DeliveryEvent struct {
	ID         string
	Type       DeliveryEventType
	DeliveryID string
	Status     DeliveryStatus
	OccurredAt time.Time
}

// ChangeNotification - сигнал подписочному слою, что запись изменилась.
type ChangeNotification struct {
	Topic string
	Key   string
}

// Каналы уведомлений об изменениях записей.
const (
	ChannelDeliveryChanges = "delivery_changes"
	ChannelWalletChanges   = "wallet_changes"
)
