package wallet

import "time"

type WalletDB struct {
	UserID    string
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TransactionDB struct {
	ID          string
	UserID      string
	Type        string
	Amount      int64
	Description string
	DeliveryID  *string
	CreatedAt   time.Time
}
