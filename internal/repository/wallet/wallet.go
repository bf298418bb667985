package wallet

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"marketplace/internal/entities"
	"marketplace/internal/repository"
	"marketplace/internal/service/wallet"
)

var qb sq.StatementBuilderType = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Repository struct {
	querier Querier
}

func New(querier Querier) *Repository {
	return &Repository{
		querier: querier,
	}
}

func (r *Repository) GetByUserID(ctx context.Context, userID string) (*entities.Wallet, error) {
	query, args, err := qb.
		Select("user_id", "balance", "created_at", "updated_at").
		From("wallets").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected wallet repository get error: %w", err)
	}

	var w WalletDB
	err = r.querier.QueryRow(ctx, query, args...).Scan(&w.UserID, &w.Balance, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wallet.ErrWalletNotFound
		}
		return nil, fmt.Errorf("unexpected wallet repository get error: %w", err)
	}

	return ToDomain(&w), nil
}

// Create вставляет кошелек. Существующий кошелек дает ErrWalletAlreadyExists без
// ошибки на стороне Postgres, поэтому транзакция остается рабочей.
func (r *Repository) Create(ctx context.Context, walletEntity entities.Wallet) (*entities.Wallet, error) {
	query, args, err := qb.
		Insert("wallets").
		Columns("user_id", "balance", "created_at", "updated_at").
		Values(walletEntity.UserID, walletEntity.Balance, walletEntity.CreatedAt, walletEntity.UpdatedAt).
		Suffix("ON CONFLICT (user_id) DO NOTHING RETURNING user_id, balance, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected wallet repository create error: %w", err)
	}

	var w WalletDB
	err = r.querier.QueryRow(ctx, query, args...).Scan(&w.UserID, &w.Balance, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, wallet.ErrWalletAlreadyExists
		}
		return nil, fmt.Errorf("unexpected wallet repository create error: %w", err)
	}

	err = repository.Notify(ctx, r.querier, entities.ChannelWalletChanges, w.UserID)
	if err != nil {
		return nil, err
	}

	return ToDomain(&w), nil
}

// AppendTransactionAndSetBalance вставляет транзакцию и меняет баланс одним запросом:
// строка журнала без изменения баланса (или наоборот) невозможна.
func (r *Repository) AppendTransactionAndSetBalance(ctx context.Context, transaction entities.WalletTransaction, newBalance int64) (*entities.Wallet, error) {
	t := TransactionFromDomain(transaction)

	query := `
		WITH appended AS (
			INSERT INTO wallet_transactions (id, user_id, type, amount, description, delivery_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING user_id, created_at
		)
		UPDATE wallets w
		SET balance = $8, updated_at = appended.created_at
		FROM appended
		WHERE w.user_id = appended.user_id
		RETURNING w.user_id, w.balance, w.created_at, w.updated_at
	`

	var w WalletDB
	err := r.querier.QueryRow(ctx, query,
		t.ID, t.UserID, t.Type, t.Amount, t.Description, t.DeliveryID, t.CreatedAt, newBalance,
	).Scan(&w.UserID, &w.Balance, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		switch {
		case repository.IsPgErrorWithCode(err, repository.PgErrForeignKeyViolation):
			return nil, wallet.ErrWalletNotFound
		case repository.IsPgErrorWithCode(err, repository.PgErrCheckViolation):
			return nil, fmt.Errorf("%w: balance would become %d", wallet.ErrInsufficientFunds, newBalance)
		case errors.Is(err, pgx.ErrNoRows):
			return nil, wallet.ErrWalletNotFound
		}
		return nil, fmt.Errorf("unexpected wallet repository append error: %w", err)
	}

	err = repository.Notify(ctx, r.querier, entities.ChannelWalletChanges, w.UserID)
	if err != nil {
		return nil, err
	}

	return ToDomain(&w), nil
}

func (r *Repository) GetTransactions(ctx context.Context, userID string, limit, offset int) ([]entities.WalletTransaction, error) {
	query, args, err := qb.
		Select("id", "user_id", "type", "amount", "description", "delivery_id", "created_at").
		From("wallet_transactions").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("seq DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("unexpected wallet repository transactions error: %w", err)
	}

	rows, err := r.querier.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("unexpected wallet repository transactions error: %w", err)
	}
	defer rows.Close()

	result := make([]entities.WalletTransaction, 0, limit)
	for rows.Next() {
		var t TransactionDB
		err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Description, &t.DeliveryID, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unexpected wallet repository scan error: %w", err)
		}
		result = append(result, TransactionToDomain(&t))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("unexpected wallet repository rows error: %w", err)
	}

	return result, nil
}

func (r *Repository) CountTransactions(ctx context.Context, userID string) (int64, error) {
	query, args, err := qb.
		Select("COUNT(*)").
		From("wallet_transactions").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("unexpected wallet repository count error: %w", err)
	}

	var total int64
	err = r.querier.QueryRow(ctx, query, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("unexpected wallet repository count error: %w", err)
	}
	return total, nil
}

func (r *Repository) HasDeliveryCredit(ctx context.Context, userID, deliveryID string, kind entities.TransactionType) (bool, error) {
	query, args, err := qb.
		Select("1").
		Prefix("SELECT EXISTS (").
		From("wallet_transactions").
		Where(sq.Eq{"user_id": userID, "delivery_id": deliveryID, "type": kind.String()}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("unexpected wallet repository credit check error: %w", err)
	}

	var exists bool
	err = r.querier.QueryRow(ctx, query, args...).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("unexpected wallet repository credit check error: %w", err)
	}
	return exists, nil
}
