package repoargs

import (
	"github.com/shopspring/decimal"
)

// BalanceDelta - аргументы условного изменения баланса. Amount со знаком:
// отрицательное значение - списание, положительное - начисление.
type BalanceDelta struct {
	UserID int64
	Amount decimal.Decimal
	// IncludeInPurchasedTotal добавляет Amount к total_credits_purchased тем же UPDATE.
	// Используется только при зачислении реальных оплат.
	IncludeInPurchasedTotal bool
}

// BalanceChange - результат успешного изменения баланса.
type BalanceChange struct {
	NewBalance            decimal.Decimal
	TotalCreditsPurchased decimal.Decimal
}
