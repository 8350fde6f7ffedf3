package api

import (
	"time"

	"github.com/autogiro/credits/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
	// DefaultProviderTimeout для хэндлеров с сетевым вызовом к платежному провайдеру.
	DefaultProviderTimeout = 10 * time.Second
)

const (
	RouteGroup             = "/api"
	BalanceRoute           = "/credits/balance"
	TransactionsRoute      = "/credits/transactions"
	RequestRechargeRoute   = "/credits/request-recharge"
	CheckPaymentRoute      = "/credits/check-payment/:purchaseID"
	PendingPurchasesRoute  = "/credits/pending-purchases"
	UpdateCPFRoute         = "/credits/update-cpf"
	ProposalsRoute         = "/proposals"
	MyProposalsRoute       = "/proposals/my"
	ProposalStatusRoute    = "/proposals/:id/status"
	AdminAdjustRoute       = "/admin/users/:userID/credits"
	AdminTransactionsRoute = "/admin/transactions"
)

type RouterArgs struct {
	Logger          *logrus.Logger
	BalanceService  BalanceServicer
	ProposalService ProposalServicer
	PurchaseService PurchaseServicer
	JWTSecretKey    []byte
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Errors())

	balanceHandler := NewBalanceHandler(args.BalanceService)
	proposalsHandler := NewProposalsHandler(args.ProposalService)
	purchasesHandler := NewPurchasesHandler(args.PurchaseService)
	adminHandler := NewAdminHandler(args.BalanceService)

	api := r.Group(RouteGroup)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(BalanceRoute, balanceHandler.Index)
	api.GET(TransactionsRoute, balanceHandler.Transactions)

	api.POST(RequestRechargeRoute, purchasesHandler.RequestRecharge)
	api.GET(CheckPaymentRoute, purchasesHandler.CheckPayment)
	api.GET(PendingPurchasesRoute, purchasesHandler.PendingPurchases)
	api.PATCH(UpdateCPFRoute, purchasesHandler.UpdateCPF)

	api.POST(ProposalsRoute, proposalsHandler.Create)
	api.GET(MyProposalsRoute, proposalsHandler.Index)
	api.PATCH(ProposalStatusRoute, proposalsHandler.TransitionStatus)

	admin := api.Group("")
	admin.Use(middlewares.AdminRequired())
	admin.POST(AdminAdjustRoute, adminHandler.AdjustCredits)
	admin.GET(AdminTransactionsRoute, adminHandler.Transactions)

	return r, nil
}
