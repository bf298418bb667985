//go:generate mockgen -source=contract.go -destination=./contract_mocks_test.go -package=wallet_test
package wallet

import (
	"context"

	"marketplace/internal/entities"
)

type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*entities.Wallet, error)
	Create(ctx context.Context, wallet entities.Wallet) (*entities.Wallet, error)

	// AppendTransactionAndSetBalance одной записью добавляет транзакцию в журнал
	// и выставляет новый баланс кошелька.
	AppendTransactionAndSetBalance(ctx context.Context, transaction entities.WalletTransaction, newBalance int64) (*entities.Wallet, error)

	// GetTransactions возвращает транзакции от новых к старым.
	GetTransactions(ctx context.Context, userID string, limit, offset int) ([]entities.WalletTransaction, error)
	CountTransactions(ctx context.Context, userID string) (int64, error)
	HasDeliveryCredit(ctx context.Context, userID, deliveryID string, kind entities.TransactionType) (bool, error)
}

type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
