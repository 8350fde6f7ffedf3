package pix

import (
	"context"

	"github.com/autogiro/credits/internal/domain"
	"github.com/autogiro/credits/internal/service"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// Servicer - срез PurchaseService, нужный фоновому процессору.
type Servicer interface {
	ListForReconciliation(ctx context.Context, limit uint) ([]domain.PendingPurchase, error)
	CheckAndSettle(ctx context.Context, userID int64, purchaseID int64) (*service.SettleResult, error)
	ExpireOverdue(ctx context.Context, limit uint) (int64, error)
}
