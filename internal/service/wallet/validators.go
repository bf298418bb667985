package wallet

import (
	"strings"

	"marketplace/internal/entities"
)

func isNonBlank(s string) bool {
	return strings.TrimSpace(s) != ""
}

func isCreditKind(kind entities.TransactionType) bool {
	return kind == entities.TransactionEarning || kind == entities.TransactionCODSettlement
}
