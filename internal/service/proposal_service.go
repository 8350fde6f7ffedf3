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

// proposalCreditCost - стоимость подачи предложения. Фиксируется в credits_charged
// при создании: именно столько вернет последующий возврат, даже если стоимость
// когда-нибудь изменится.
var proposalCreditCost = decimal.NewFromInt(1)

type ProposalService struct {
	uow          uow.UOW
	balance      *BalanceService
	proposalRepo ProposalRepository
	itemRepo     ItemRepository
}

func NewProposalService(u uow.UOW, balance *BalanceService) (*ProposalService, error) {
	proposalRepo, pErr := uow.GetRepositoryAs[ProposalRepository](u, uow.RepositoryName(repoargs.ProposalRepoName))
	if pErr != nil {
		return nil, pErr
	}
	itemRepo, iErr := uow.GetRepositoryAs[ItemRepository](u, uow.RepositoryName(repoargs.ItemRepoName))
	if iErr != nil {
		return nil, iErr
	}
	return &ProposalService{
		uow:          u,
		balance:      balance,
		proposalRepo: proposalRepo,
		itemRepo:     itemRepo,
	}, nil
}

type CreateProposalResult struct {
	Proposal         *domain.Proposal
	RemainingCredits decimal.Decimal
}

// Create создает предложение и списывает кредит одним атомарным блоком: либо
// коммитятся и строка предложения, и списание с записью журнала, либо ничего.
// При нехватке кредитов возвращает domain.ErrInsufficientCredits, предложение
// не создается.
//
// Проверка открытости лота до транзакции - быстрый отказ с различением
// ErrRecordNotFound и ErrItemClosed. Сам INSERT проверяет открытость повторно,
// уже внутри транзакции: лот, закрытый конкурирующим принятием, не получит
// нового pending предложения.
func (p *ProposalService) Create(
	ctx context.Context,
	userID int64,
	itemRef string,
	amountOffered decimal.Decimal,
) (*CreateProposalResult, error) {
	item, itemErr := p.itemRepo.FindByRef(ctx, itemRef)
	if itemErr != nil {
		return nil, itemErr //nolint:wrapcheck
	}
	if !item.IsActive || item.HasWinningProposal {
		return nil, domain.ErrItemClosed
	}

	var result CreateProposalResult
	txErr := p.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		proposalRepo, repoErr := uow.GetAs[ProposalRepository](tx, uow.RepositoryName(repoargs.ProposalRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		proposal, createErr := proposalRepo.Create(c, repoargs.ProposalCreate{
			UserID:         userID,
			ItemID:         item.ID,
			ItemRef:        item.ExternalRef,
			AmountOffered:  amountOffered,
			CreditsCharged: proposalCreditCost,
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}

		entry, debitErr := p.balance.ApplyDelta(c, tx, ApplyDeltaArgs{
			UserID:      userID,
			Amount:      proposalCreditCost.Neg(),
			Kind:        domain.LedgerKindProposalDebit,
			Description: fmt.Sprintf("Débito por proposta - %s", item.Title),
			ProposalID:  &proposal.ID,
		})
		if debitErr != nil {
			return debitErr //nolint:wrapcheck
		}

		result.Proposal = proposal
		result.RemainingCredits = entry.BalanceAfter
		return nil
	})
	if txErr != nil {
		return nil, txErr //nolint:wrapcheck
	}
	return &result, nil
}

// GetByUserID возвращает предложения юзера, новые первыми.
func (p *ProposalService) GetByUserID(ctx context.Context, userID int64) ([]domain.Proposal, error) {
	proposals, err := p.proposalRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return proposals, nil
}

type TransitionResult struct {
	Proposal *domain.Proposal
	// Applied false означает идемпотентный повтор: предложение уже находилось в
	// запрошенном терминальном статусе, ничего не изменилось и возврат не выдавался.
	Applied      bool
	Refunded     bool
	RefundAmount decimal.Decimal
}

// TransitionStatus переводит предложение в новый статус.
//
// Права: владелец или администратор; переводы в accepted и outbid - только
// администратор. Допустимость перехода определяет машина состояний
// (domain.ProposalStatusType.CanTransitionTo).
//
// Возврат кредитов выдается ровно один раз: он привязан к успеху условного UPDATE
// статуса. Повторный запрос того же терминального перехода не меняет строку и потому
// не порождает второго возврата.
//
// Принятие предложения дополнительно, в той же транзакции: ставит is_winner, помечает
// лот выигранным и отклоняет остальные ожидающие предложения по лоту - каждое со своим
// возвратом.
func (p *ProposalService) TransitionStatus(
	ctx context.Context,
	actor domain.Principal,
	proposalID int64,
	newStatus domain.ProposalStatusType,
) (*TransitionResult, error) {
	proposal, findErr := p.proposalRepo.FindByID(ctx, proposalID)
	if findErr != nil {
		return nil, findErr //nolint:wrapcheck
	}

	if !actor.IsAdmin && proposal.UserID != actor.UserID {
		return nil, domain.ErrForbidden
	}
	if !actor.IsAdmin &&
		(newStatus == domain.ProposalStatusAccepted || newStatus == domain.ProposalStatusOutbid) {
		return nil, domain.ErrForbidden
	}

	// Повтор уже примененного терминального перехода - no-op, а не ошибка и не второй
	// возврат: ретраи клиента безопасны.
	if proposal.Status == newStatus {
		return &TransitionResult{Proposal: proposal, Applied: false}, nil
	}
	if !proposal.Status.CanTransitionTo(newStatus) {
		return nil, domain.NewInvalidTransitionError(proposal.Status, newStatus)
	}

	var result TransitionResult
	txErr := p.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		proposalRepo, repoErr := uow.GetAs[ProposalRepository](tx, uow.RepositoryName(repoargs.ProposalRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}

		changed, flipErr := proposalRepo.UpdateStatusIf(c, repoargs.ProposalStatusFlip{
			ProposalID: proposal.ID,
			From:       proposal.Status,
			To:         newStatus,
			DecidedBy:  actor.UserID,
			SetWinner:  newStatus == domain.ProposalStatusAccepted,
		})
		if flipErr != nil {
			return flipErr //nolint:wrapcheck
		}

		if !changed {
			// Конкурирующий запрос успел раньше. Перечитываем строку: тот же статус -
			// идемпотентный повтор, иной - переход более невозможен.
			current, reReadErr := proposalRepo.FindByID(c, proposal.ID)
			if reReadErr != nil {
				return reReadErr //nolint:wrapcheck
			}
			if current.Status == newStatus {
				result = TransitionResult{Proposal: current, Applied: false}
				return nil
			}
			return domain.NewInvalidTransitionError(current.Status, newStatus)
		}

		if proposal.Status.Refundable(newStatus) {
			if refundErr := p.refund(c, tx, proposal, newStatus); refundErr != nil {
				return refundErr
			}
			result.Refunded = true
			result.RefundAmount = proposal.CreditsCharged
		}

		if newStatus == domain.ProposalStatusAccepted {
			if acceptErr := p.applyAcceptCascade(c, tx, proposalRepo, proposal, actor.UserID); acceptErr != nil {
				return acceptErr
			}
		}

		updated, updatedErr := proposalRepo.FindByID(c, proposal.ID)
		if updatedErr != nil {
			return updatedErr //nolint:wrapcheck
		}
		result.Proposal = updated
		result.Applied = true
		return nil
	})
	if txErr != nil {
		return nil, txErr //nolint:wrapcheck
	}
	return &result, nil
}

func (p *ProposalService) refund(
	ctx context.Context,
	tx uow.TX,
	proposal *domain.Proposal,
	newStatus domain.ProposalStatusType,
) error {
	reason := "rejeitada"
	if newStatus == domain.ProposalStatusOutbid {
		reason = "superada"
	}
	_, err := p.balance.ApplyDelta(ctx, tx, ApplyDeltaArgs{
		UserID:      proposal.UserID,
		Amount:      proposal.CreditsCharged,
		Kind:        domain.LedgerKindRefund,
		Description: fmt.Sprintf("Reembolso - Proposta %s", reason),
		ProposalID:  &proposal.ID,
	})
	if err != nil {
		return errors.Wrapf(err, "refunding proposal %d", proposal.ID)
	}
	return nil
}

// applyAcceptCascade помечает лот выигранным и отклоняет остальные ожидающие
// предложения по нему, выдавая возврат по каждому. Флаг победителя ставится
// условным UPDATE: если лот уже выигран, MarkWinningProposal вернет
// domain.ErrItemClosed и вся транзакция принятия откатится - второго accepted
// по одному лоту не бывает.
func (p *ProposalService) applyAcceptCascade(
	ctx context.Context,
	tx uow.TX,
	proposalRepo ProposalRepository,
	winner *domain.Proposal,
	actorID int64,
) error {
	itemRepo, itemRepoErr := uow.GetAs[ItemRepository](tx, uow.RepositoryName(repoargs.ItemRepoName))
	if itemRepoErr != nil {
		return itemRepoErr //nolint:wrapcheck
	}

	if markErr := itemRepo.MarkWinningProposal(ctx, winner.ItemID); markErr != nil {
		return markErr //nolint:wrapcheck
	}

	losers, rejectErr := proposalRepo.RejectPendingByItem(ctx, winner.ItemID, winner.ID, actorID)
	if rejectErr != nil {
		return rejectErr //nolint:wrapcheck
	}

	for i := range losers {
		loser := losers[i]
		_, refundErr := p.balance.ApplyDelta(ctx, tx, ApplyDeltaArgs{
			UserID:      loser.UserID,
			Amount:      loser.CreditsCharged,
			Kind:        domain.LedgerKindRefund,
			Description: "Reembolso - Proposta rejeitada",
			ProposalID:  &loser.ID,
		})
		if refundErr != nil {
			return errors.Wrapf(refundErr, "refunding outbid proposal %d", loser.ID)
		}
	}
	return nil
}
