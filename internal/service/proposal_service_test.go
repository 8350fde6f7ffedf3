package service_test

import (
	"context"
	"testing"

	"github.com/autogiro/credits/internal/domain"
	"github.com/autogiro/credits/internal/repository/repoargs"
	"github.com/autogiro/credits/internal/service"
	"github.com/autogiro/credits/internal/service/mocks"
	"github.com/autogiro/credits/pkg/uow"
	uowmocks "github.com/autogiro/credits/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ProposalServiceTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	mockUOW          *uowmocks.MockUOW
	mockTX           *uowmocks.MockTX
	mockUserRepo     *mocks.MockUserRepository
	mockLedgerRepo   *mocks.MockLedgerRepository
	mockProposalRepo *mocks.MockProposalRepository
	mockItemRepo     *mocks.MockItemRepository
	service          *service.ProposalService
}

func TestProposalServiceSuite(t *testing.T) {
	suite.Run(t, new(ProposalServiceTestSuite))
}

func (s *ProposalServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockLedgerRepo = mocks.NewMockLedgerRepository(s.mockCtrl)
	s.mockProposalRepo = mocks.NewMockProposalRepository(s.mockCtrl)
	s.mockItemRepo = mocks.NewMockItemRepository(s.mockCtrl)

	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.LedgerRepoName)).
		Return(s.mockLedgerRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.ProposalRepoName)).
		Return(s.mockProposalRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.ItemRepoName)).
		Return(s.mockItemRepo, nil).AnyTimes()

	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.LedgerRepoName)).
		Return(s.mockLedgerRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.ProposalRepoName)).
		Return(s.mockProposalRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.ItemRepoName)).
		Return(s.mockItemRepo, nil).AnyTimes()

	balance, balanceErr := service.NewBalanceService(s.mockUOW)
	s.Require().NoError(balanceErr)

	var err error
	s.service, err = service.NewProposalService(s.mockUOW, balance)
	s.Require().NoError(err)
}

func (s *ProposalServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectUOWDo прокидывает вызов Do напрямую в fn с моком транзакции.
func (s *ProposalServiceTestSuite) expectUOWDo() {
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		},
	).AnyTimes()
}

func (s *ProposalServiceTestSuite) TestCreate_DebitsOneCredit() {
	s.expectUOWDo()

	var userID int64 = 42
	item := &domain.Item{ID: 7, ExternalRef: "CAR-007", Title: "Gol 1.6", IsActive: true}
	offered := decimal.NewFromInt(15000)

	s.mockItemRepo.EXPECT().FindByRef(gomock.Any(), item.ExternalRef).Return(item, nil)

	proposal := &domain.Proposal{
		ID:             1,
		UserID:         userID,
		ItemID:         item.ID,
		ItemRef:        item.ExternalRef,
		AmountOffered:  offered,
		CreditsCharged: decimal.NewFromInt(1),
		Status:         domain.ProposalStatusPending,
	}
	s.mockProposalRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.ProposalCreate) (*domain.Proposal, error) {
			s.Equal(userID, args.UserID)
			s.Equal(item.ID, args.ItemID)
			s.Equal(decimal.NewFromInt(1), args.CreditsCharged)
			return proposal, nil
		})

	s.mockUserRepo.EXPECT().
		ApplyDelta(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.BalanceDelta) (*repoargs.BalanceChange, error) {
			// списание ровно одного кредита, не зависящее от суммы предложения.
			s.Equal(decimal.NewFromInt(-1), args.Amount)
			s.False(args.IncludeInPurchasedTotal)
			return &repoargs.BalanceChange{NewBalance: decimal.NewFromInt(4)}, nil
		})

	s.mockLedgerRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.LedgerEntryCreate) (*domain.LedgerEntry, error) {
			s.Equal(domain.LedgerKindProposalDebit, args.Kind)
			s.Require().NotNil(args.ProposalID)
			s.Equal(proposal.ID, *args.ProposalID)
			return &domain.LedgerEntry{BalanceAfter: args.BalanceAfter}, nil
		})

	result, err := s.service.Create(s.T().Context(), userID, item.ExternalRef, offered)
	s.Require().NoError(err)
	s.Equal(proposal.ID, result.Proposal.ID)
	s.Equal(decimal.NewFromInt(4), result.RemainingCredits)
}

func (s *ProposalServiceTestSuite) TestCreate_InsufficientCreditsCreatesNothing() {
	s.expectUOWDo()

	item := &domain.Item{ID: 7, ExternalRef: "CAR-007", IsActive: true}
	s.mockItemRepo.EXPECT().FindByRef(gomock.Any(), item.ExternalRef).Return(item, nil)

	s.mockProposalRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(&domain.Proposal{ID: 1, CreditsCharged: decimal.NewFromInt(1)}, nil)

	// транзакция откатится: списание не прошло, запись журнала не создается.
	s.mockUserRepo.EXPECT().
		ApplyDelta(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrInsufficientCredits)
	s.mockLedgerRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.service.Create(s.T().Context(), 42, item.ExternalRef, decimal.NewFromInt(100))
	s.Require().ErrorIs(err, domain.ErrInsufficientCredits)
}

func (s *ProposalServiceTestSuite) TestCreate_ItemClosed() {
	cases := []struct {
		name string
		item domain.Item
	}{
		{name: "inactive", item: domain.Item{ID: 7, ExternalRef: "CAR-007", IsActive: false}},
		{
			name: "already has winner",
			item: domain.Item{ID: 7, ExternalRef: "CAR-007", IsActive: true, HasWinningProposal: true},
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			item := t.item
			s.mockItemRepo.EXPECT().FindByRef(gomock.Any(), item.ExternalRef).Return(&item, nil)

			_, err := s.service.Create(s.T().Context(), 42, item.ExternalRef, decimal.NewFromInt(100))
			s.Require().ErrorIs(err, domain.ErrItemClosed)
		})
	}
}

func (s *ProposalServiceTestSuite) TestCreate_ItemClosedInsideTransaction() {
	s.expectUOWDo()

	item := &domain.Item{ID: 7, ExternalRef: "CAR-007", IsActive: true}
	s.mockItemRepo.EXPECT().FindByRef(gomock.Any(), item.ExternalRef).Return(item, nil)

	// лот закрылся между предварительной проверкой и вставкой: условный INSERT
	// не прошел, списания и записи журнала нет.
	s.mockProposalRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrItemClosed)
	s.mockUserRepo.EXPECT().ApplyDelta(gomock.Any(), gomock.Any()).Times(0)
	s.mockLedgerRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.service.Create(s.T().Context(), 42, item.ExternalRef, decimal.NewFromInt(100))
	s.Require().ErrorIs(err, domain.ErrItemClosed)
}

func (s *ProposalServiceTestSuite) TestTransitionStatus_RejectRefunds() {
	s.expectUOWDo()

	owner := domain.Principal{UserID: 42}
	proposal := &domain.Proposal{
		ID:             10,
		UserID:         owner.UserID,
		ItemID:         7,
		CreditsCharged: decimal.NewFromInt(1),
		Status:         domain.ProposalStatusPending,
	}
	rejected := &domain.Proposal{ID: 10, UserID: owner.UserID, Status: domain.ProposalStatusRejected}

	gomock.InOrder(
		s.mockProposalRepo.EXPECT().FindByID(gomock.Any(), proposal.ID).Return(proposal, nil),
		s.mockProposalRepo.EXPECT().
			UpdateStatusIf(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, args repoargs.ProposalStatusFlip) (bool, error) {
				s.Equal(domain.ProposalStatusPending, args.From)
				s.Equal(domain.ProposalStatusRejected, args.To)
				s.False(args.SetWinner)
				return true, nil
			}),
		s.mockProposalRepo.EXPECT().FindByID(gomock.Any(), proposal.ID).Return(rejected, nil),
	)

	s.mockUserRepo.EXPECT().
		ApplyDelta(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.BalanceDelta) (*repoargs.BalanceChange, error) {
			s.Equal(proposal.CreditsCharged, args.Amount)
			return &repoargs.BalanceChange{NewBalance: decimal.NewFromInt(5)}, nil
		})
	s.mockLedgerRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.LedgerEntryCreate) (*domain.LedgerEntry, error) {
			s.Equal(domain.LedgerKindRefund, args.Kind)
			return &domain.LedgerEntry{BalanceAfter: args.BalanceAfter}, nil
		})

	result, err := s.service.TransitionStatus(s.T().Context(), owner, proposal.ID, domain.ProposalStatusRejected)
	s.Require().NoError(err)
	s.True(result.Applied)
	s.True(result.Refunded)
	s.Equal(proposal.CreditsCharged, result.RefundAmount)
}

func (s *ProposalServiceTestSuite) TestTransitionStatus_RepeatIsNoOp() {
	owner := domain.Principal{UserID: 42}
	proposal := &domain.Proposal{
		ID:     10,
		UserID: owner.UserID,
		Status: domain.ProposalStatusRejected,
	}
	s.mockProposalRepo.EXPECT().FindByID(gomock.Any(), proposal.ID).Return(proposal, nil)

	// ни транзакции, ни второго возврата.
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).Times(0)

	result, err := s.service.TransitionStatus(s.T().Context(), owner, proposal.ID, domain.ProposalStatusRejected)
	s.Require().NoError(err)
	s.False(result.Applied)
	s.False(result.Refunded)
}

func (s *ProposalServiceTestSuite) TestTransitionStatus_LostRaceIsNoOp() {
	s.expectUOWDo()

	owner := domain.Principal{UserID: 42}
	proposal := &domain.Proposal{
		ID:             10,
		UserID:         owner.UserID,
		CreditsCharged: decimal.NewFromInt(1),
		Status:         domain.ProposalStatusPending,
	}
	rejected := &domain.Proposal{ID: 10, UserID: owner.UserID, Status: domain.ProposalStatusRejected}

	gomock.InOrder(
		s.mockProposalRepo.EXPECT().FindByID(gomock.Any(), proposal.ID).Return(proposal, nil),
		// конкурирующий запрос перевел статус первым.
		s.mockProposalRepo.EXPECT().UpdateStatusIf(gomock.Any(), gomock.Any()).Return(false, nil),
		s.mockProposalRepo.EXPECT().FindByID(gomock.Any(), proposal.ID).Return(rejected, nil),
	)
	s.mockUserRepo.EXPECT().ApplyDelta(gomock.Any(), gomock.Any()).Times(0)

	result, err := s.service.TransitionStatus(s.T().Context(), owner, proposal.ID, domain.ProposalStatusRejected)
	s.Require().NoError(err)
	s.False(result.Applied)
	s.False(result.Refunded)
}

func (s *ProposalServiceTestSuite) TestTransitionStatus_Permissions() {
	proposal := &domain.Proposal{
		ID:     10,
		UserID: 42,
		Status: domain.ProposalStatusPending,
	}
	s.mockProposalRepo.EXPECT().FindByID(gomock.Any(), proposal.ID).Return(proposal, nil).AnyTimes()

	cases := []struct {
		name      string
		actor     domain.Principal
		newStatus domain.ProposalStatusType
	}{
		{name: "stranger rejects", actor: domain.Principal{UserID: 99}, newStatus: domain.ProposalStatusRejected},
		{name: "owner accepts", actor: domain.Principal{UserID: 42}, newStatus: domain.ProposalStatusAccepted},
		{name: "owner outbids", actor: domain.Principal{UserID: 42}, newStatus: domain.ProposalStatusOutbid},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			_, err := s.service.TransitionStatus(s.T().Context(), t.actor, proposal.ID, t.newStatus)
			s.Require().ErrorIs(err, domain.ErrForbidden)
		})
	}
}

func (s *ProposalServiceTestSuite) TestTransitionStatus_InvalidTransition() {
	admin := domain.Principal{UserID: 1, IsAdmin: true}
	proposal := &domain.Proposal{
		ID:     10,
		UserID: 42,
		Status: domain.ProposalStatusOutbid,
	}
	s.mockProposalRepo.EXPECT().FindByID(gomock.Any(), proposal.ID).Return(proposal, nil)

	_, err := s.service.TransitionStatus(s.T().Context(), admin, proposal.ID, domain.ProposalStatusAccepted)
	s.Require().ErrorIs(err, domain.ErrInvalidTransition)
}

func (s *ProposalServiceTestSuite) TestTransitionStatus_AcceptCascade() {
	s.expectUOWDo()

	admin := domain.Principal{UserID: 1, IsAdmin: true}
	winner := &domain.Proposal{
		ID:             10,
		UserID:         42,
		ItemID:         7,
		CreditsCharged: decimal.NewFromInt(1),
		Status:         domain.ProposalStatusPending,
	}
	loser := domain.Proposal{
		ID:             11,
		UserID:         43,
		ItemID:         7,
		CreditsCharged: decimal.NewFromInt(1),
		Status:         domain.ProposalStatusRejected,
	}
	accepted := &domain.Proposal{
		ID:       10,
		UserID:   42,
		ItemID:   7,
		Status:   domain.ProposalStatusAccepted,
		IsWinner: true,
	}

	gomock.InOrder(
		s.mockProposalRepo.EXPECT().FindByID(gomock.Any(), winner.ID).Return(winner, nil),
		s.mockProposalRepo.EXPECT().
			UpdateStatusIf(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, args repoargs.ProposalStatusFlip) (bool, error) {
				s.Equal(domain.ProposalStatusAccepted, args.To)
				s.True(args.SetWinner)
				s.Equal(admin.UserID, args.DecidedBy)
				return true, nil
			}),
		s.mockProposalRepo.EXPECT().
			RejectPendingByItem(gomock.Any(), winner.ItemID, winner.ID, admin.UserID).
			Return([]domain.Proposal{loser}, nil),
		s.mockProposalRepo.EXPECT().FindByID(gomock.Any(), winner.ID).Return(accepted, nil),
	)

	s.mockItemRepo.EXPECT().MarkWinningProposal(gomock.Any(), winner.ItemID).Return(nil)

	// возврат выдается проигравшему, победителю - нет.
	s.mockUserRepo.EXPECT().
		ApplyDelta(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.BalanceDelta) (*repoargs.BalanceChange, error) {
			s.Equal(loser.UserID, args.UserID)
			s.Equal(loser.CreditsCharged, args.Amount)
			return &repoargs.BalanceChange{NewBalance: decimal.NewFromInt(3)}, nil
		}).Times(1)
	s.mockLedgerRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.LedgerEntryCreate) (*domain.LedgerEntry, error) {
			s.Equal(domain.LedgerKindRefund, args.Kind)
			s.Equal(loser.UserID, args.UserID)
			return &domain.LedgerEntry{}, nil
		}).Times(1)

	result, err := s.service.TransitionStatus(s.T().Context(), admin, winner.ID, domain.ProposalStatusAccepted)
	s.Require().NoError(err)
	s.True(result.Applied)
	s.False(result.Refunded)
	s.True(result.Proposal.IsWinner)
}

func (s *ProposalServiceTestSuite) TestTransitionStatus_AcceptOnAlreadyWonItem() {
	s.expectUOWDo()

	admin := domain.Principal{UserID: 1, IsAdmin: true}
	proposal := &domain.Proposal{
		ID:             10,
		UserID:         42,
		ItemID:         7,
		CreditsCharged: decimal.NewFromInt(1),
		Status:         domain.ProposalStatusPending,
	}

	gomock.InOrder(
		s.mockProposalRepo.EXPECT().FindByID(gomock.Any(), proposal.ID).Return(proposal, nil),
		s.mockProposalRepo.EXPECT().UpdateStatusIf(gomock.Any(), gomock.Any()).Return(true, nil),
	)

	// у лота уже есть победитель: условный UPDATE флага не прошел, транзакция
	// принятия откатывается целиком - ни каскада, ни второго accepted.
	s.mockItemRepo.EXPECT().
		MarkWinningProposal(gomock.Any(), proposal.ItemID).
		Return(domain.ErrItemClosed)
	s.mockProposalRepo.EXPECT().
		RejectPendingByItem(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Times(0)
	s.mockUserRepo.EXPECT().ApplyDelta(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.service.TransitionStatus(s.T().Context(), admin, proposal.ID, domain.ProposalStatusAccepted)
	s.Require().ErrorIs(err, domain.ErrItemClosed)
}
