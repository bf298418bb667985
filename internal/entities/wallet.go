package entities

import "time"

type TransactionType string

const (
	TransactionDeposit       TransactionType = "deposit"
	TransactionWithdrawal    TransactionType = "withdrawal"
	TransactionCODSettlement TransactionType = "cod_settlement"
	TransactionEarning       TransactionType = "earning"
)

func (t TransactionType) String() string {
	return string(t)
}

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionDeposit, TransactionWithdrawal, TransactionCODSettlement, TransactionEarning:
		return true
	default:
		return false
	}
}

// Sign возвращает +1 для пополнений и -1 для списаний.
func (t TransactionType) Sign() int64 {
	if t == TransactionWithdrawal {
		return -1
	}
	return 1
}

// CreditKindFor выбирает тип начисления водителю по способу оплаты доставки.
func CreditKindFor(payment PaymentType) TransactionType {
	if payment == PaymentCashOnDelivery {
		return TransactionCODSettlement
	}
	return TransactionEarning
}

type Wallet struct {
	UserID    string
	Balance   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WalletTransaction struct {
	ID          string
	UserID      string
	Type        TransactionType
	Amount      int64
	Description string
	Timestamp   time.Time
	DeliveryID  *string
}

// SignedAmount - вклад транзакции в баланс.
func (t WalletTransaction) SignedAmount() int64 {
	return t.Type.Sign() * t.Amount
}

type WalletHistoryPage struct {
	Transactions []WalletTransaction
	Total        int64
	Limit        int
	Offset       int
}
