package service

import (
	"context"
	"fmt"

	"github.com/autogiro/credits/internal/domain"
	"github.com/autogiro/credits/internal/repository/repoargs"
	"github.com/autogiro/credits/pkg/uow"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type SettleOutcome string

const (
	// SettleOutcomeSettled - оплата подтверждена и зачислена этим вызовом.
	SettleOutcomeSettled SettleOutcome = "settled"
	// SettleOutcomeAlreadySettled - заявка уже была оплачена ранее (или конкурирующий
	// вызов успел первым). Не ошибка: вызывающий получает кэшированный результат.
	SettleOutcomeAlreadySettled SettleOutcome = "already_settled"
	// SettleOutcomeStillPending - провайдер еще не видит оплату, ничего не изменилось.
	SettleOutcomeStillPending SettleOutcome = "still_pending"
	// SettleOutcomeExpired - заявка просрочена и оплачена не будет.
	SettleOutcomeExpired SettleOutcome = "expired"
)

type SettleResult struct {
	Outcome  SettleOutcome
	Purchase *domain.PendingPurchase
	// ProviderStatus заполняется для SettleOutcomeStillPending.
	ProviderStatus ProviderStatus
	// NewBalance заполняется для SettleOutcomeSettled.
	NewBalance decimal.Decimal
}

type PurchaseServiceConfig struct {
	// CreditPrice - цена одного кредита в валюте оплаты.
	CreditPrice decimal.Decimal
	// MinRechargeAmount - минимальная сумма пополнения.
	MinRechargeAmount decimal.Decimal
}

// PurchaseService сверяет заявки на пополнение с внешним платежным провайдером
// и зачисляет подтвержденные оплаты ровно один раз.
type PurchaseService struct {
	uow          uow.UOW
	balance      *BalanceService
	purchaseRepo PurchaseRepository
	userRepo     UserRepository
	provider     PaymentProvider
	conf         PurchaseServiceConfig
}

func NewPurchaseService(
	u uow.UOW,
	balance *BalanceService,
	provider PaymentProvider,
	conf PurchaseServiceConfig,
) (*PurchaseService, error) {
	purchaseRepo, pErr := uow.GetRepositoryAs[PurchaseRepository](u, uow.RepositoryName(repoargs.PurchaseRepoName))
	if pErr != nil {
		return nil, pErr
	}
	userRepo, uErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if uErr != nil {
		return nil, uErr
	}
	return &PurchaseService{
		uow:          u,
		balance:      balance,
		purchaseRepo: purchaseRepo,
		userRepo:     userRepo,
		provider:     provider,
		conf:         conf,
	}, nil
}

// RequestTopUp создает заявку на пополнение: выставляет счет у провайдера и
// сохраняет pending строку с его реквизитами. Баланс здесь не меняется - зачисление
// произойдет только после подтверждения оплаты в CheckAndSettle.
func (p *PurchaseService) RequestTopUp(
	ctx context.Context,
	userID int64,
	amountRequested decimal.Decimal,
) (*domain.PendingPurchase, error) {
	if amountRequested.LessThan(p.conf.MinRechargeAmount) {
		return nil, domain.ErrAmountBelowMinimum
	}

	user, userErr := p.userRepo.FindByID(ctx, userID)
	if userErr != nil {
		return nil, userErr //nolint:wrapcheck
	}
	if user.CPF == "" {
		return nil, domain.ErrCPFRequired
	}

	creditsToAdd := amountRequested.Div(p.conf.CreditPrice)

	// Счет выставляется до какой-либо записи в БД: сетевой вызов не должен жить
	// внутри транзакции.
	invoice, invoiceErr := p.provider.CreateInvoice(ctx, CreateInvoiceArgs{
		PayerName:   user.Name,
		PayerCPF:    user.CPF,
		Amount:      amountRequested,
		Description: fmt.Sprintf("Recarga de %s créditos", creditsToAdd.StringFixed(1)),
	})
	if invoiceErr != nil {
		return nil, errors.Wrap(invoiceErr, "creating provider invoice")
	}

	purchase, createErr := p.purchaseRepo.Create(ctx, repoargs.PurchaseCreate{
		UserID:          userID,
		AmountRequested: amountRequested,
		CreditsToAdd:    creditsToAdd,
		ExternalRef:     invoice.ExternalRef,
		PayCode:         invoice.PayCode,
		QRCodeURL:       invoice.QRCodeURL,
		ExpiresAt:       invoice.DueAt,
	})
	if createErr != nil {
		return nil, createErr //nolint:wrapcheck
	}
	return purchase, nil
}

// CheckAndSettle сверяет заявку с провайдером и, если тот подтверждает полную оплату,
// зачисляет кредиты.
//
// Алгоритм работы:
//  1. Уже оплаченная заявка - короткий идемпотентный выход с кэшированным результатом,
//     повторного зачисления не бывает.
//  2. Запрос статуса у провайдера выполняется до открытия транзакции.
//  3. Перевод pending -> paid выполняется условным UPDATE; зачисление применяется
//     только если UPDATE изменил строку. Из гонки конкурирующих опросов одной заявки
//     выходит ровно один победитель, остальные получают SettleOutcomeAlreadySettled;
//     проигрыш фоновой чистке просроченных - SettleOutcomeExpired.
//     Перевод статуса и зачисление - одна транзакция: либо оба, либо ни одного.
func (p *PurchaseService) CheckAndSettle(
	ctx context.Context,
	userID int64,
	purchaseID int64,
) (*SettleResult, error) {
	purchase, findErr := p.purchaseRepo.FindByID(ctx, purchaseID)
	if findErr != nil {
		return nil, findErr //nolint:wrapcheck
	}
	// Чужая заявка неотличима от несуществующей.
	if purchase.UserID != userID {
		return nil, domain.ErrRecordNotFound
	}

	switch purchase.Status {
	case domain.PurchaseStatusPaid:
		return &SettleResult{Outcome: SettleOutcomeAlreadySettled, Purchase: purchase}, nil
	case domain.PurchaseStatusExpired:
		return &SettleResult{Outcome: SettleOutcomeExpired, Purchase: purchase}, nil
	case domain.PurchaseStatusPending:
	}

	status, statusErr := p.provider.GetInvoiceStatus(ctx, purchase.ExternalRef)
	if statusErr != nil {
		return nil, errors.Wrapf(statusErr, "getting invoice status for purchase %d", purchaseID)
	}

	if !status.IsPaid() {
		return &SettleResult{
			Outcome:        SettleOutcomeStillPending,
			Purchase:       purchase,
			ProviderStatus: status.Status,
		}, nil
	}

	var result SettleResult
	txErr := p.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		purchaseRepo, repoErr := uow.GetAs[PurchaseRepository](tx, uow.RepositoryName(repoargs.PurchaseRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		changed, markErr := purchaseRepo.MarkPaidIf(c, purchase.ID)
		if markErr != nil {
			return markErr //nolint:wrapcheck
		}
		if !changed {
			// Строка ушла из pending без нашего участия: либо конкурирующий опрос
			// зачислил оплату первым, либо фоновая чистка успела просрочить заявку.
			current, reReadErr := purchaseRepo.FindByID(c, purchase.ID)
			if reReadErr != nil {
				return reReadErr //nolint:wrapcheck
			}
			if current.Status == domain.PurchaseStatusExpired {
				result = SettleResult{Outcome: SettleOutcomeExpired, Purchase: current}
				return nil
			}
			result = SettleResult{Outcome: SettleOutcomeAlreadySettled, Purchase: current}
			return nil
		}

		entry, creditErr := p.balance.ApplyDelta(c, tx, ApplyDeltaArgs{
			UserID:                  purchase.UserID,
			Amount:                  purchase.CreditsToAdd,
			Kind:                    domain.LedgerKindPurchase,
			Description:             fmt.Sprintf("Recarga via PIX - %s créditos", purchase.CreditsToAdd.StringFixed(1)),
			PurchaseID:              &purchase.ID,
			IncludeInPurchasedTotal: true,
		})
		if creditErr != nil {
			return creditErr //nolint:wrapcheck
		}

		settled, reReadErr := purchaseRepo.FindByID(c, purchase.ID)
		if reReadErr != nil {
			return reReadErr //nolint:wrapcheck
		}
		result = SettleResult{
			Outcome:    SettleOutcomeSettled,
			Purchase:   settled,
			NewBalance: entry.BalanceAfter,
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr //nolint:wrapcheck
	}
	return &result, nil
}

// UpdateCPF сохраняет CPF юзера - без него провайдер не выставит счет.
func (p *PurchaseService) UpdateCPF(ctx context.Context, userID int64, cpf string) error {
	if err := p.userRepo.UpdateCPF(ctx, userID, cpf); err != nil {
		return err //nolint:wrapcheck
	}
	return nil
}

// ListPending возвращает неоплаченные заявки юзера, новые первыми.
func (p *PurchaseService) ListPending(
	ctx context.Context,
	userID int64,
	limit uint,
) ([]domain.PendingPurchase, error) {
	purchases, err := p.purchaseRepo.GetPendingByUserID(ctx, userID, limit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return purchases, nil
}

// ListForReconciliation возвращает партию pending заявок для фонового опроса провайдера.
func (p *PurchaseService) ListForReconciliation(
	ctx context.Context,
	limit uint,
) ([]domain.PendingPurchase, error) {
	purchases, err := p.purchaseRepo.GetPendingBatch(ctx, limit)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return purchases, nil
}

// ExpireOverdue помечает просроченные заявки. Возврата нет: при создании заявки
// ничего не списывалось.
func (p *PurchaseService) ExpireOverdue(ctx context.Context, limit uint) (int64, error) {
	count, err := p.purchaseRepo.ExpireOverdue(ctx, limit)
	if err != nil {
		return 0, err //nolint:wrapcheck
	}
	return count, nil
}
