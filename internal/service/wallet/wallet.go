package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"marketplace/internal/entities"
)

const (
	DefaultOperationTimeout = 10 * time.Second

	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100

	transactionIDPrefix = "txn_"
	shortIDLength       = 8
)

type Option func(*Wallet)

// WithCreditDeduplication запрещает повторное начисление по той же доставке
// и тому же виду начисления. Без опции повторный Credit создает вторую транзакцию.
func WithCreditDeduplication() Option {
	return func(w *Wallet) {
		w.dedupCredits = true
	}
}

// WithOperationTimeout ограничивает Credit и Debit по времени.
func WithOperationTimeout(d time.Duration) Option {
	return func(w *Wallet) {
		if d > 0 {
			w.opTimeout = d
		}
	}
}

type Wallet struct {
	repository   Repository
	txManager    TxManager
	dedupCredits bool
	opTimeout    time.Duration
}

func New(repository Repository, txManager TxManager, opts ...Option) *Wallet {
	w := &Wallet{
		repository: repository,
		txManager:  txManager,
		opTimeout:  DefaultOperationTimeout,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Credit начисляет сумму водителю за доставку и возвращает новый баланс.
// Кошелек создается при первом начислении.
func (w *Wallet) Credit(ctx context.Context, userID string, amount int64, deliveryID string, kind entities.TransactionType) (int64, error) {
	if !isNonBlank(userID) {
		return 0, ErrInvalidUserID
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if !isCreditKind(kind) {
		return 0, ErrInvalidCreditKind
	}
	if !isNonBlank(deliveryID) {
		return 0, ErrMissingDeliveryID
	}

	var balance int64
	err := w.withTimeout(ctx, func(ctx context.Context) error {
		return w.txManager.Do(ctx, func(ctx context.Context) error {
			if w.dedupCredits {
				credited, err := w.repository.HasDeliveryCredit(ctx, userID, deliveryID, kind)
				if err != nil {
					return fmt.Errorf("check delivery credit: %w", err)
				}
				if credited {
					return ErrDuplicateCredit
				}
			}

			wallet, err := w.getOrCreate(ctx, userID)
			if err != nil {
				return err
			}

			transaction := entities.WalletTransaction{
				ID:          newTransactionID(),
				UserID:      userID,
				Type:        kind,
				Amount:      amount,
				Description: creditDescription(kind, deliveryID),
				Timestamp:   time.Now().UTC(),
				DeliveryID:  &deliveryID,
			}

			updated, err := w.repository.AppendTransactionAndSetBalance(ctx, transaction, wallet.Balance+amount)
			if err != nil {
				return fmt.Errorf("append credit transaction: %w", err)
			}
			balance = updated.Balance
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// Debit списывает сумму (вывод средств). Отсутствующий кошелек считается пустым.
func (w *Wallet) Debit(ctx context.Context, userID string, amount int64) (int64, error) {
	if !isNonBlank(userID) {
		return 0, ErrInvalidUserID
	}
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var balance int64
	err := w.withTimeout(ctx, func(ctx context.Context) error {
		return w.txManager.Do(ctx, func(ctx context.Context) error {
			wallet, err := w.repository.GetByUserID(ctx, userID)
			if err != nil {
				if errors.Is(err, ErrWalletNotFound) {
					return fmt.Errorf("%w: balance 0, requested %d", ErrInsufficientFunds, amount)
				}
				return fmt.Errorf("get wallet: %w", err)
			}
			if amount > wallet.Balance {
				return fmt.Errorf("%w: balance %d, requested %d", ErrInsufficientFunds, wallet.Balance, amount)
			}

			transaction := entities.WalletTransaction{
				ID:          newTransactionID(),
				UserID:      userID,
				Type:        entities.TransactionWithdrawal,
				Amount:      amount,
				Description: "Withdrawal",
				Timestamp:   time.Now().UTC(),
			}

			updated, err := w.repository.AppendTransactionAndSetBalance(ctx, transaction, wallet.Balance-amount)
			if err != nil {
				return fmt.Errorf("append withdrawal transaction: %w", err)
			}
			balance = updated.Balance
			return nil
		})
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (w *Wallet) GetBalance(ctx context.Context, userID string) (int64, error) {
	if !isNonBlank(userID) {
		return 0, ErrInvalidUserID
	}

	wallet, err := w.repository.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get wallet: %w", err)
	}
	return wallet.Balance, nil
}

// GetHistory возвращает страницу транзакций от новых к старым.
func (w *Wallet) GetHistory(ctx context.Context, userID string, limit, offset int) (*entities.WalletHistoryPage, error) {
	if !isNonBlank(userID) {
		return nil, ErrInvalidUserID
	}
	if limit < 0 || offset < 0 {
		return nil, ErrInvalidPagination
	}
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	transactions, err := w.repository.GetTransactions(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get transactions: %w", err)
	}
	total, err := w.repository.CountTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count transactions: %w", err)
	}

	return &entities.WalletHistoryPage{
		Transactions: transactions,
		Total:        total,
		Limit:        limit,
		Offset:       offset,
	}, nil
}

func (w *Wallet) getOrCreate(ctx context.Context, userID string) (*entities.Wallet, error) {
	wallet, err := w.repository.GetByUserID(ctx, userID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, ErrWalletNotFound) {
		return nil, fmt.Errorf("get wallet: %w", err)
	}

	now := time.Now().UTC()
	wallet, err = w.repository.Create(ctx, entities.Wallet{
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		// кошелек успел создать параллельный вызов
		if errors.Is(err, ErrWalletAlreadyExists) {
			wallet, err = w.repository.GetByUserID(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("get wallet: %w", err)
			}
			return wallet, nil
		}
		return nil, fmt.Errorf("create wallet: %w", err)
	}
	return wallet, nil
}

// withTimeout ограничивает операцию по времени. Истечение срока отдается как
// ErrTimeout: записана ли транзакция, в этом случае неизвестно.
func (w *Wallet) withTimeout(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, w.opTimeout)
	defer cancel()

	err := fn(ctx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", entities.ErrTimeout, err)
	}
	return err
}

func newTransactionID() string {
	return transactionIDPrefix + uuid.NewString()
}

func creditDescription(kind entities.TransactionType, deliveryID string) string {
	shortID := deliveryID
	if len(shortID) > shortIDLength {
		shortID = shortID[:shortIDLength]
	}
	if kind == entities.TransactionCODSettlement {
		return "COD Collection - Delivery #" + shortID
	}
	return "Delivery Fee - Delivery #" + shortID
}
