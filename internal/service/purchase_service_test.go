package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/autogiro/credits/internal/domain"
	"github.com/autogiro/credits/internal/repository/repoargs"
	"github.com/autogiro/credits/internal/service"
	"github.com/autogiro/credits/internal/service/mocks"
	"github.com/autogiro/credits/pkg/uow"
	uowmocks "github.com/autogiro/credits/pkg/uow/mocks"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PurchaseServiceTestSuite struct {
	suite.Suite
	mockCtrl         *gomock.Controller
	mockUOW          *uowmocks.MockUOW
	mockTX           *uowmocks.MockTX
	mockUserRepo     *mocks.MockUserRepository
	mockLedgerRepo   *mocks.MockLedgerRepository
	mockPurchaseRepo *mocks.MockPurchaseRepository
	mockProvider     *mocks.MockPaymentProvider
	service          *service.PurchaseService
}

func TestPurchaseServiceSuite(t *testing.T) {
	suite.Run(t, new(PurchaseServiceTestSuite))
}

func (s *PurchaseServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockLedgerRepo = mocks.NewMockLedgerRepository(s.mockCtrl)
	s.mockPurchaseRepo = mocks.NewMockPurchaseRepository(s.mockCtrl)
	s.mockProvider = mocks.NewMockPaymentProvider(s.mockCtrl)

	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.LedgerRepoName)).
		Return(s.mockLedgerRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		GetRepository(uow.RepositoryName(repoargs.PurchaseRepoName)).
		Return(s.mockPurchaseRepo, nil).AnyTimes()

	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.LedgerRepoName)).
		Return(s.mockLedgerRepo, nil).AnyTimes()
	s.mockTX.EXPECT().
		Get(uow.RepositoryName(repoargs.PurchaseRepoName)).
		Return(s.mockPurchaseRepo, nil).AnyTimes()

	balance, balanceErr := service.NewBalanceService(s.mockUOW)
	s.Require().NoError(balanceErr)

	var err error
	s.service, err = service.NewPurchaseService(s.mockUOW, balance, s.mockProvider, service.PurchaseServiceConfig{
		CreditPrice:       decimal.NewFromInt(2),
		MinRechargeAmount: decimal.NewFromInt(5),
	})
	s.Require().NoError(err)
}

func (s *PurchaseServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *PurchaseServiceTestSuite) expectUOWDo() {
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(s.T().Context(), s.mockTX)
		},
	).AnyTimes()
}

func (s *PurchaseServiceTestSuite) TestRequestTopUp_BelowMinimum() {
	s.mockProvider.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.service.RequestTopUp(s.T().Context(), 42, decimal.NewFromFloat(4.99))
	s.Require().ErrorIs(err, domain.ErrAmountBelowMinimum)
}

func (s *PurchaseServiceTestSuite) TestRequestTopUp_RequiresCPF() {
	user := &domain.User{ID: 42, Name: gofakeit.Name(), CPF: ""}
	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)
	s.mockProvider.EXPECT().CreateInvoice(gomock.Any(), gomock.Any()).Times(0)

	_, err := s.service.RequestTopUp(s.T().Context(), user.ID, decimal.NewFromInt(10))
	s.Require().ErrorIs(err, domain.ErrCPFRequired)
}

func (s *PurchaseServiceTestSuite) TestRequestTopUp_CreatesInvoiceAndPending() {
	user := &domain.User{ID: 42, Name: gofakeit.Name(), CPF: "52998224725"}
	amount := decimal.NewFromInt(10)
	dueAt := time.Now().Add(24 * time.Hour)

	s.mockUserRepo.EXPECT().FindByID(gomock.Any(), user.ID).Return(user, nil)

	s.mockProvider.EXPECT().
		CreateInvoice(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args service.CreateInvoiceArgs) (*service.ProviderInvoice, error) {
			s.Equal(user.Name, args.PayerName)
			s.Equal(user.CPF, args.PayerCPF)
			s.Equal(amount, args.Amount)
			return &service.ProviderInvoice{
				ExternalRef: "inv-001",
				PayCode:     "00020126...",
				QRCodeURL:   "https://pix.example/qr/inv-001",
				DueAt:       dueAt,
			}, nil
		})

	s.mockPurchaseRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.PurchaseCreate) (*domain.PendingPurchase, error) {
			s.Equal(user.ID, args.UserID)
			s.Equal(amount, args.AmountRequested)
			// при цене кредита 2 за 10 зачислится 5.
			s.True(args.CreditsToAdd.Equal(decimal.NewFromInt(5)))
			s.Equal("inv-001", args.ExternalRef)
			return &domain.PendingPurchase{
				ID:              1,
				UserID:          args.UserID,
				AmountRequested: args.AmountRequested,
				CreditsToAdd:    args.CreditsToAdd,
				ExternalRef:     args.ExternalRef,
				Status:          domain.PurchaseStatusPending,
				ExpiresAt:       args.ExpiresAt,
			}, nil
		})

	purchase, err := s.service.RequestTopUp(s.T().Context(), user.ID, amount)
	s.Require().NoError(err)
	s.Equal(domain.PurchaseStatusPending, purchase.Status)
}

func (s *PurchaseServiceTestSuite) TestCheckAndSettle_Settles() {
	s.expectUOWDo()

	purchase := &domain.PendingPurchase{
		ID:           1,
		UserID:       42,
		CreditsToAdd: decimal.NewFromInt(5),
		ExternalRef:  "inv-001",
		Status:       domain.PurchaseStatusPending,
		ExpiresAt:    time.Now().Add(time.Hour),
	}
	paidAt := time.Now()
	paid := &domain.PendingPurchase{
		ID:           1,
		UserID:       42,
		CreditsToAdd: purchase.CreditsToAdd,
		Status:       domain.PurchaseStatusPaid,
		PaidAt:       &paidAt,
	}

	gomock.InOrder(
		s.mockPurchaseRepo.EXPECT().FindByID(gomock.Any(), purchase.ID).Return(purchase, nil),
		s.mockPurchaseRepo.EXPECT().MarkPaidIf(gomock.Any(), purchase.ID).Return(true, nil),
		s.mockPurchaseRepo.EXPECT().FindByID(gomock.Any(), purchase.ID).Return(paid, nil),
	)

	s.mockProvider.EXPECT().
		GetInvoiceStatus(gomock.Any(), purchase.ExternalRef).
		Return(&service.ProviderInvoiceStatus{Status: service.ProviderStatusPaid, PaidAt: &paidAt}, nil)

	s.mockUserRepo.EXPECT().
		ApplyDelta(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.BalanceDelta) (*repoargs.BalanceChange, error) {
			s.Equal(purchase.CreditsToAdd, args.Amount)
			// только реальная оплата растит total_credits_purchased.
			s.True(args.IncludeInPurchasedTotal)
			return &repoargs.BalanceChange{
				NewBalance:            decimal.NewFromInt(9),
				TotalCreditsPurchased: decimal.NewFromInt(25),
			}, nil
		})
	s.mockLedgerRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, args repoargs.LedgerEntryCreate) (*domain.LedgerEntry, error) {
			s.Equal(domain.LedgerKindPurchase, args.Kind)
			s.Require().NotNil(args.PurchaseID)
			s.Equal(purchase.ID, *args.PurchaseID)
			return &domain.LedgerEntry{BalanceAfter: args.BalanceAfter}, nil
		})

	result, err := s.service.CheckAndSettle(s.T().Context(), purchase.UserID, purchase.ID)
	s.Require().NoError(err)
	s.Equal(service.SettleOutcomeSettled, result.Outcome)
	s.Equal(decimal.NewFromInt(9), result.NewBalance)
}

func (s *PurchaseServiceTestSuite) TestCheckAndSettle_AlreadyPaidShortCircuits() {
	paidAt := time.Now()
	purchase := &domain.PendingPurchase{
		ID:     1,
		UserID: 42,
		Status: domain.PurchaseStatusPaid,
		PaidAt: &paidAt,
	}
	s.mockPurchaseRepo.EXPECT().FindByID(gomock.Any(), purchase.ID).Return(purchase, nil)

	// провайдер не опрашивается, повторного зачисления нет.
	s.mockProvider.EXPECT().GetInvoiceStatus(gomock.Any(), gomock.Any()).Times(0)
	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).Times(0)

	result, err := s.service.CheckAndSettle(s.T().Context(), purchase.UserID, purchase.ID)
	s.Require().NoError(err)
	s.Equal(service.SettleOutcomeAlreadySettled, result.Outcome)
}

func (s *PurchaseServiceTestSuite) TestCheckAndSettle_LostRace() {
	s.expectUOWDo()

	purchase := &domain.PendingPurchase{
		ID:          1,
		UserID:      42,
		ExternalRef: "inv-001",
		Status:      domain.PurchaseStatusPending,
	}
	paid := &domain.PendingPurchase{ID: 1, UserID: 42, Status: domain.PurchaseStatusPaid}

	gomock.InOrder(
		s.mockPurchaseRepo.EXPECT().FindByID(gomock.Any(), purchase.ID).Return(purchase, nil),
		// конкурирующий опрос зачислил первым.
		s.mockPurchaseRepo.EXPECT().MarkPaidIf(gomock.Any(), purchase.ID).Return(false, nil),
		s.mockPurchaseRepo.EXPECT().FindByID(gomock.Any(), purchase.ID).Return(paid, nil),
	)
	s.mockProvider.EXPECT().
		GetInvoiceStatus(gomock.Any(), purchase.ExternalRef).
		Return(&service.ProviderInvoiceStatus{Status: service.ProviderStatusPaid}, nil)

	s.mockUserRepo.EXPECT().ApplyDelta(gomock.Any(), gomock.Any()).Times(0)

	result, err := s.service.CheckAndSettle(s.T().Context(), purchase.UserID, purchase.ID)
	s.Require().NoError(err)
	s.Equal(service.SettleOutcomeAlreadySettled, result.Outcome)
}

func (s *PurchaseServiceTestSuite) TestCheckAndSettle_ExpiredDuringFlip() {
	s.expectUOWDo()

	purchase := &domain.PendingPurchase{
		ID:          1,
		UserID:      42,
		ExternalRef: "inv-001",
		Status:      domain.PurchaseStatusPending,
	}
	expired := &domain.PendingPurchase{ID: 1, UserID: 42, Status: domain.PurchaseStatusExpired}

	gomock.InOrder(
		s.mockPurchaseRepo.EXPECT().FindByID(gomock.Any(), purchase.ID).Return(purchase, nil),
		// фоновая чистка просрочила заявку между чтением и условным UPDATE.
		s.mockPurchaseRepo.EXPECT().MarkPaidIf(gomock.Any(), purchase.ID).Return(false, nil),
		s.mockPurchaseRepo.EXPECT().FindByID(gomock.Any(), purchase.ID).Return(expired, nil),
	)
	s.mockProvider.EXPECT().
		GetInvoiceStatus(gomock.Any(), purchase.ExternalRef).
		Return(&service.ProviderInvoiceStatus{Status: service.ProviderStatusPaid}, nil)

	s.mockUserRepo.EXPECT().ApplyDelta(gomock.Any(), gomock.Any()).Times(0)

	result, err := s.service.CheckAndSettle(s.T().Context(), purchase.UserID, purchase.ID)
	s.Require().NoError(err)
	// просроченная заявка не выдается за оплаченную.
	s.Equal(service.SettleOutcomeExpired, result.Outcome)
	s.Equal(domain.PurchaseStatusExpired, result.Purchase.Status)
}

func (s *PurchaseServiceTestSuite) TestCheckAndSettle_StillPending() {
	purchase := &domain.PendingPurchase{
		ID:          1,
		UserID:      42,
		ExternalRef: "inv-001",
		Status:      domain.PurchaseStatusPending,
	}
	s.mockPurchaseRepo.EXPECT().FindByID(gomock.Any(), purchase.ID).Return(purchase, nil)
	s.mockProvider.EXPECT().
		GetInvoiceStatus(gomock.Any(), purchase.ExternalRef).
		Return(&service.ProviderInvoiceStatus{Status: "OPEN"}, nil)

	s.mockUOW.EXPECT().Do(gomock.Any(), gomock.Any()).Times(0)

	result, err := s.service.CheckAndSettle(s.T().Context(), purchase.UserID, purchase.ID)
	s.Require().NoError(err)
	s.Equal(service.SettleOutcomeStillPending, result.Outcome)
	s.Equal(service.ProviderStatus("OPEN"), result.ProviderStatus)
}

func (s *PurchaseServiceTestSuite) TestCheckAndSettle_ForeignPurchase() {
	purchase := &domain.PendingPurchase{ID: 1, UserID: 42, Status: domain.PurchaseStatusPending}
	s.mockPurchaseRepo.EXPECT().FindByID(gomock.Any(), purchase.ID).Return(purchase, nil)

	// чужая заявка неотличима от несуществующей.
	_, err := s.service.CheckAndSettle(s.T().Context(), 99, purchase.ID)
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}

func (s *PurchaseServiceTestSuite) TestCheckAndSettle_Expired() {
	purchase := &domain.PendingPurchase{
		ID:     1,
		UserID: 42,
		Status: domain.PurchaseStatusExpired,
	}
	s.mockPurchaseRepo.EXPECT().FindByID(gomock.Any(), purchase.ID).Return(purchase, nil)
	s.mockProvider.EXPECT().GetInvoiceStatus(gomock.Any(), gomock.Any()).Times(0)

	result, err := s.service.CheckAndSettle(s.T().Context(), purchase.UserID, purchase.ID)
	s.Require().NoError(err)
	s.Equal(service.SettleOutcomeExpired, result.Outcome)
}
