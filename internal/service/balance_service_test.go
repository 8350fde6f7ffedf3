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

type BalanceServiceTestSuite struct {
	suite.Suite
	mockCtrl       *gomock.Controller
	mockUOW        *uowmocks.MockUOW
	mockTX         *uowmocks.MockTX
	mockUserRepo   *mocks.MockUserRepository
	mockLedgerRepo *mocks.MockLedgerRepository
	service        *service.BalanceService
}

func TestBalanceServiceSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}

func (s *BalanceServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockLedgerRepo = mocks.NewMockLedgerRepository(s.mockCtrl)

	// Настроить возврат репозиториев при инициализации сервиса.
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.LedgerRepoName)).
		Return(s.mockLedgerRepo, nil).AnyTimes()

	var err error
	s.service, err = service.NewBalanceService(s.mockUOW)
	s.Require().NoError(err)
}

func (s *BalanceServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

// expectTXRepos настраивает выдачу репозиториев из мока транзакции.
func (s *BalanceServiceTestSuite) expectTXRepos() {
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.LedgerRepoName)).
		Return(s.mockLedgerRepo, nil).AnyTimes()
}

func (s *BalanceServiceTestSuite) TestGetBalance() {
	user := &domain.User{
		ID:                    42,
		Credits:               decimal.NewFromInt(7),
		TotalCreditsPurchased: decimal.NewFromInt(30),
	}
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)

	balance, err := s.service.GetBalance(s.T().Context(), user.ID)
	s.Require().NoError(err)

	s.Equal(user.ID, balance.UserID)
	s.Equal(user.Credits, balance.Credits)
	s.Equal(user.TotalCreditsPurchased, balance.TotalPurchased)
}

func (s *BalanceServiceTestSuite) TestApplyDelta_LedgerPairMatchesBalance() {
	s.expectTXRepos()

	var userID int64 = 42
	delta := decimal.NewFromInt(5)
	newBalance := decimal.NewFromInt(12)

	s.mockUserRepo.EXPECT().
		ApplyDelta(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.BalanceDelta) (*repoargs.BalanceChange, error) {
			s.Equal(userID, args.UserID)
			s.Equal(delta, args.Amount)
			s.False(args.IncludeInPurchasedTotal)
			return &repoargs.BalanceChange{NewBalance: newBalance}, nil
		})

	s.mockLedgerRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.LedgerEntryCreate) (*domain.LedgerEntry, error) {
			// балансовая пара журнала всегда сходится: before + amount = after.
			s.Equal(newBalance.Sub(delta), args.BalanceBefore)
			s.Equal(newBalance, args.BalanceAfter)
			s.Equal(domain.LedgerKindRefund, args.Kind)
			return &domain.LedgerEntry{
				UserID:        args.UserID,
				Kind:          args.Kind,
				Amount:        args.Amount,
				BalanceBefore: args.BalanceBefore,
				BalanceAfter:  args.BalanceAfter,
			}, nil
		})

	entry, err := s.service.ApplyDelta(s.T().Context(), s.mockTX, service.ApplyDeltaArgs{
		UserID: userID,
		Amount: delta,
		Kind:   domain.LedgerKindRefund,
	})
	s.Require().NoError(err)
	s.Equal(newBalance, entry.BalanceAfter)
}

func (s *BalanceServiceTestSuite) TestApplyDelta_InsufficientCreditsWritesNothing() {
	s.expectTXRepos()

	s.mockUserRepo.EXPECT().
		ApplyDelta(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrInsufficientCredits)

	// запись журнала не создается вовсе.
	s.mockLedgerRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.service.ApplyDelta(s.T().Context(), s.mockTX, service.ApplyDeltaArgs{
		UserID: 42,
		Amount: decimal.NewFromInt(-100),
		Kind:   domain.LedgerKindProposalDebit,
	})
	s.Require().ErrorIs(err, domain.ErrInsufficientCredits)
}

func (s *BalanceServiceTestSuite) TestAdminAdjust() {
	s.expectTXRepos()
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		},
	)

	amount := decimal.NewFromInt(-3)

	s.mockUserRepo.EXPECT().
		ApplyDelta(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.BalanceDelta) (*repoargs.BalanceChange, error) {
			// корректировка не относится к реальным оплатам.
			s.False(args.IncludeInPurchasedTotal)
			return &repoargs.BalanceChange{NewBalance: decimal.NewFromInt(2)}, nil
		})

	s.mockLedgerRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.LedgerEntryCreate) (*domain.LedgerEntry, error) {
			s.Equal(domain.LedgerKindAdminAdjustment, args.Kind)
			s.Equal("ajuste manual", args.Description)
			return &domain.LedgerEntry{Kind: args.Kind, BalanceAfter: args.BalanceAfter}, nil
		})

	entry, err := s.service.AdminAdjust(s.T().Context(), 1, 42, amount, "ajuste manual")
	s.Require().NoError(err)
	s.Equal(domain.LedgerKindAdminAdjustment, entry.Kind)
}
