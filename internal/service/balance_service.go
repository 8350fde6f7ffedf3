package service

import (
	"context"

	"github.com/autogiro/credits/internal/domain"
	"github.com/autogiro/credits/internal/repository/repoargs"
	"github.com/autogiro/credits/pkg/uow"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// BalanceService - единственная точка изменения баланса. Любая операция над
// кредитами (списание за предложение, возврат, зачисление оплаты, ручная
// корректировка) выражается ровно одним вызовом ApplyDelta.
type BalanceService struct {
	uow        uow.UOW
	userRepo   UserRepository
	ledgerRepo LedgerRepository
}

func NewBalanceService(u uow.UOW) (*BalanceService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	ledgerRepo, ledgerRepoErr := uow.GetRepositoryAs[LedgerRepository](u, uow.RepositoryName(repoargs.LedgerRepoName))
	if ledgerRepoErr != nil {
		return nil, ledgerRepoErr
	}
	return &BalanceService{
		uow:        u,
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
	}, nil
}

type ApplyDeltaArgs struct {
	UserID      int64
	Amount      decimal.Decimal
	Kind        domain.LedgerKind
	Description string
	ProposalID  *int64
	PurchaseID  *int64
	// IncludeInPurchasedTotal увеличивает total_credits_purchased. Выставляется
	// только при зачислении реальных оплат (kind=purchase).
	IncludeInPurchasedTotal bool
}

// ApplyDelta применяет изменение баланса внутри переданной транзакции tx и пишет
// запись журнала с фактическими balance_before/balance_after тем же атомарным блоком.
//
// Алгоритм работы:
//  1. Условный UPDATE баланса: списание, уводящее баланс в минус, не применяется -
//     репозиторий вернет domain.ErrInsufficientCredits, и записи журнала не будет.
//  2. balance_before восстанавливается из RETURNING-значения: before = after - amount,
//     поэтому пара в журнале всегда соответствует реально примененным значениям.
func (b *BalanceService) ApplyDelta(
	ctx context.Context,
	tx uow.TX,
	args ApplyDeltaArgs,
) (*domain.LedgerEntry, error) {
	userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr //nolint:wrapcheck
	}
	ledgerRepo, ledgerRepoErr := uow.GetAs[LedgerRepository](tx, uow.RepositoryName(repoargs.LedgerRepoName))
	if ledgerRepoErr != nil {
		return nil, ledgerRepoErr //nolint:wrapcheck
	}

	change, changeErr := userRepo.ApplyDelta(ctx, repoargs.BalanceDelta{
		UserID:                  args.UserID,
		Amount:                  args.Amount,
		IncludeInPurchasedTotal: args.IncludeInPurchasedTotal,
	})
	if changeErr != nil {
		return nil, changeErr //nolint:wrapcheck
	}

	entry, entryErr := ledgerRepo.Create(ctx, repoargs.LedgerEntryCreate{
		UserID:        args.UserID,
		Kind:          args.Kind,
		Amount:        args.Amount,
		BalanceBefore: change.NewBalance.Sub(args.Amount),
		BalanceAfter:  change.NewBalance,
		ProposalID:    args.ProposalID,
		PurchaseID:    args.PurchaseID,
		Description:   args.Description,
	})
	if entryErr != nil {
		return nil, errors.Wrap(entryErr, "applying balance delta")
	}
	return entry, nil
}

type UserBalance struct {
	UserID         int64
	Credits        decimal.Decimal
	TotalPurchased decimal.Decimal
}

func (b *BalanceService) GetBalance(ctx context.Context, userID int64) (*UserBalance, error) {
	user, err := b.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &UserBalance{
		UserID:         user.ID,
		Credits:        user.Credits,
		TotalPurchased: user.TotalCreditsPurchased,
	}, nil
}

// GetHistory возвращает записи журнала юзера, новые первыми.
func (b *BalanceService) GetHistory(ctx context.Context, userID int64, limit uint) ([]domain.LedgerEntry, error) {
	entries, err := b.ledgerRepo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return entries, nil
}

// GetAllHistory возвращает записи журнала по всем юзерам. Для админки.
func (b *BalanceService) GetAllHistory(ctx context.Context, limit uint) ([]domain.LedgerEntry, error) {
	entries, err := b.ledgerRepo.GetAll(ctx, limit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return entries, nil
}

// AdminAdjust - ручная корректировка баланса администратором. Знак amount произвольный,
// но отрицательная корректировка подчиняется общему запрету на минусовой баланс.
// total_credits_purchased не меняется: это не реальная оплата.
func (b *BalanceService) AdminAdjust(
	ctx context.Context,
	adminID int64,
	userID int64,
	amount decimal.Decimal,
	description string,
) (*domain.LedgerEntry, error) {
	var entry *domain.LedgerEntry
	txErr := b.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		var applyErr error
		entry, applyErr = b.ApplyDelta(c, tx, ApplyDeltaArgs{
			UserID:      userID,
			Amount:      amount,
			Kind:        domain.LedgerKindAdminAdjustment,
			Description: description,
		})
		return applyErr
	})
	if txErr != nil {
		return nil, errors.Wrapf(txErr, "admin %d adjusting balance of user %d", adminID, userID)
	}
	return entry, nil
}
