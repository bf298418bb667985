package wallet

import "marketplace/internal/entities"

func ToDomain(w *WalletDB) *entities.Wallet {
	return &entities.Wallet{
		UserID:    w.UserID,
		Balance:   w.Balance,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func TransactionToDomain(t *TransactionDB) entities.WalletTransaction {
	return entities.WalletTransaction{
		ID:          t.ID,
		UserID:      t.UserID,
		Type:        entities.TransactionType(t.Type),
		Amount:      t.Amount,
		Description: t.Description,
		Timestamp:   t.CreatedAt,
		DeliveryID:  t.DeliveryID,
	}
}

func TransactionFromDomain(t entities.WalletTransaction) *TransactionDB {
	return &TransactionDB{
		ID:          t.ID,
		UserID:      t.UserID,
		Type:        t.Type.String(),
		Amount:      t.Amount,
		Description: t.Description,
		DeliveryID:  t.DeliveryID,
		CreatedAt:   t.Timestamp,
	}
}
