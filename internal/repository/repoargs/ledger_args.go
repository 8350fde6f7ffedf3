package repoargs

import (
	"github.com/autogiro/credits/internal/domain"
	"github.com/shopspring/decimal"
)

type LedgerEntryCreate struct {
	UserID        int64
	Kind          domain.LedgerKind
	Amount        decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	ProposalID    *int64
	PurchaseID    *int64
	Description   string
}
