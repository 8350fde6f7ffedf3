package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/autogiro/credits/internal/domain"
	"github.com/autogiro/credits/internal/service"
	"github.com/shopspring/decimal"
)

type BalanceServicer interface {
	GetBalance(ctx context.Context, userID int64) (*service.UserBalance, error)
	GetHistory(ctx context.Context, userID int64, limit uint) ([]domain.LedgerEntry, error)
	GetAllHistory(ctx context.Context, limit uint) ([]domain.LedgerEntry, error)
	AdminAdjust(
		ctx context.Context,
		adminID int64,
		userID int64,
		amount decimal.Decimal,
		description string,
	) (*domain.LedgerEntry, error)
}

type ProposalServicer interface {
	Create(
		ctx context.Context,
		userID int64,
		itemRef string,
		amountOffered decimal.Decimal,
	) (*service.CreateProposalResult, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Proposal, error)
	TransitionStatus(
		ctx context.Context,
		actor domain.Principal,
		proposalID int64,
		newStatus domain.ProposalStatusType,
	) (*service.TransitionResult, error)
}

type PurchaseServicer interface {
	RequestTopUp(ctx context.Context, userID int64, amount decimal.Decimal) (*domain.PendingPurchase, error)
	CheckAndSettle(ctx context.Context, userID int64, purchaseID int64) (*service.SettleResult, error)
	ListPending(ctx context.Context, userID int64, limit uint) ([]domain.PendingPurchase, error)
	UpdateCPF(ctx context.Context, userID int64, cpf string) error
}
