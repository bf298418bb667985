package memory

import (
	"context"
	"sync"

	"marketplace/internal/entities"
	"marketplace/internal/service/wallet"
)

type WalletStore struct {
	mu           sync.RWMutex
	wallets      map[string]*entities.Wallet
	transactions map[string][]entities.WalletTransaction // от старых к новым
	opts         options
}

func NewWalletStore(opts ...Option) *WalletStore {
	return &WalletStore{
		wallets:      make(map[string]*entities.Wallet),
		transactions: make(map[string][]entities.WalletTransaction),
		opts:         buildOptions(opts),
	}
}

func (s *WalletStore) GetByUserID(ctx context.Context, userID string) (*entities.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.wallets[userID]
	if !ok {
		return nil, wallet.ErrWalletNotFound
	}
	found := *w
	return &found, nil
}

func (s *WalletStore) Create(ctx context.Context, w entities.Wallet) (*entities.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.wallets[w.UserID]; ok {
		return nil, wallet.ErrWalletAlreadyExists
	}
	stored := w
	s.wallets[w.UserID] = &stored
	created := stored
	return &created, nil
}

func (s *WalletStore) AppendTransactionAndSetBalance(ctx context.Context, transaction entities.WalletTransaction, newBalance int64) (*entities.Wallet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	w, ok := s.wallets[transaction.UserID]
	if !ok {
		s.mu.Unlock()
		return nil, wallet.ErrWalletNotFound
	}
	if transaction.DeliveryID != nil {
		deliveryID := *transaction.DeliveryID
		transaction.DeliveryID = &deliveryID
	}
	s.transactions[transaction.UserID] = append(s.transactions[transaction.UserID], transaction)
	w.Balance = newBalance
	w.UpdatedAt = transaction.Timestamp
	updated := *w
	s.mu.Unlock()

	s.opts.notify(entities.ChangeNotification{Topic: entities.ChannelWalletChanges, Key: transaction.UserID})
	return &updated, nil
}

func (s *WalletStore) GetTransactions(ctx context.Context, userID string, limit, offset int) ([]entities.WalletTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.transactions[userID]
	result := make([]entities.WalletTransaction, 0, limit)
	for i := len(stored) - 1 - offset; i >= 0 && len(result) < limit; i-- {
		result = append(result, stored[i])
	}
	return result, nil
}

func (s *WalletStore) CountTransactions(ctx context.Context, userID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.transactions[userID])), nil
}

func (s *WalletStore) HasDeliveryCredit(ctx context.Context, userID, deliveryID string, kind entities.TransactionType) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, transaction := range s.transactions[userID] {
		if transaction.Type == kind && transaction.DeliveryID != nil && *transaction.DeliveryID == deliveryID {
			return true, nil
		}
	}
	return false, nil
}

// Transactions возвращает журнал пользователя в порядке записи.
func (s *WalletStore) Transactions(userID string) []entities.WalletTransaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]entities.WalletTransaction(nil), s.transactions[userID]...)
}
