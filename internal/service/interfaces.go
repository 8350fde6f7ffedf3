package service

import (
	"context"
	"time"

	"github.com/autogiro/credits/internal/domain"
	"github.com/autogiro/credits/internal/repository/repoargs"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	ApplyDelta(ctx context.Context, args repoargs.BalanceDelta) (*repoargs.BalanceChange, error)
	UpdateCPF(ctx context.Context, userID int64, cpf string) error
}

type LedgerRepository interface {
	Create(ctx context.Context, entry repoargs.LedgerEntryCreate) (*domain.LedgerEntry, error)
	GetByUserID(ctx context.Context, userID int64, limit uint) ([]domain.LedgerEntry, error)
	GetAll(ctx context.Context, limit uint) ([]domain.LedgerEntry, error)
}

type ProposalRepository interface {
	Create(ctx context.Context, args repoargs.ProposalCreate) (*domain.Proposal, error)
	FindByID(ctx context.Context, id int64) (*domain.Proposal, error)
	GetByUserID(ctx context.Context, userID int64) ([]domain.Proposal, error)
	UpdateStatusIf(ctx context.Context, args repoargs.ProposalStatusFlip) (bool, error)
	RejectPendingByItem(
		ctx context.Context,
		itemID int64,
		excludeProposalID int64,
		decidedBy int64,
	) ([]domain.Proposal, error)
}

type PurchaseRepository interface {
	Create(ctx context.Context, args repoargs.PurchaseCreate) (*domain.PendingPurchase, error)
	FindByID(ctx context.Context, id int64) (*domain.PendingPurchase, error)
	MarkPaidIf(ctx context.Context, id int64) (bool, error)
	GetPendingByUserID(ctx context.Context, userID int64, limit uint) ([]domain.PendingPurchase, error)
	GetPendingBatch(ctx context.Context, limit uint) ([]domain.PendingPurchase, error)
	ExpireOverdue(ctx context.Context, limit uint) (int64, error)
}

type ItemRepository interface {
	FindByRef(ctx context.Context, externalRef string) (*domain.Item, error)
	MarkWinningProposal(ctx context.Context, itemID int64) error
}

// PaymentProvider - контракт внешнего платежного провайдера (PIX). Обе операции
// выполняются строго вне транзакций БД, чтобы не держать блокировки на время
// сетевых запросов.
type PaymentProvider interface {
	CreateInvoice(ctx context.Context, args CreateInvoiceArgs) (*ProviderInvoice, error)
	GetInvoiceStatus(ctx context.Context, externalRef string) (*ProviderInvoiceStatus, error)
}

type CreateInvoiceArgs struct {
	PayerName   string
	PayerEmail  string
	PayerCPF    string
	Amount      decimal.Decimal
	Description string
}

type ProviderInvoice struct {
	ExternalRef string
	PayCode     string
	QRCodeURL   string
	DueAt       time.Time
}

type ProviderStatus string

// ProviderStatusPaid - выделенное значение "полностью оплачено". Остальные статусы
// провайдера ядро не интерпретирует и возвращает как есть.
const ProviderStatusPaid ProviderStatus = "PAID"

type ProviderInvoiceStatus struct {
	Status ProviderStatus
	PaidAt *time.Time
}

func (s *ProviderInvoiceStatus) IsPaid() bool {
	return s.Status == ProviderStatusPaid
}
