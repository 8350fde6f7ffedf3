package repoargs

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseCreate struct {
	UserID          int64
	AmountRequested decimal.Decimal
	CreditsToAdd    decimal.Decimal
	ExternalRef     string
	PayCode         string
	QRCodeURL       string
	ExpiresAt       time.Time
}
