package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/autogiro/credits/internal/config"
	"github.com/autogiro/credits/internal/repository/pgrepo"
	"github.com/autogiro/credits/internal/repository/repoargs"
	"github.com/autogiro/credits/internal/service"
	"github.com/autogiro/credits/internal/transport/api"
	"github.com/autogiro/credits/internal/transport/pix"
	"github.com/autogiro/credits/internal/transport/pix/client"
	"github.com/autogiro/credits/pkg/uow"
	"github.com/sirupsen/logrus"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app on %s", a.Config.RunAddress)
	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	provider := pix.NewProvider(client.New(a.Config.PixAPIBaseURL, a.Config.PixAPIToken))

	services, sErr := service.Factory(unitOfWork, provider, service.PurchaseServiceConfig{
		CreditPrice:       a.Config.CreditPriceDecimal(),
		MinRechargeAmount: a.Config.MinRechargeAmountDecimal(),
	})
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	router, routerErr := api.New(api.RouterArgs{
		Logger:          a.Logger,
		BalanceService:  services.BalanceService,
		ProposalService: services.ProposalService,
		PurchaseService: services.PurchaseService,
		JWTSecretKey:    []byte(a.Config.JWTUserSecret),
	})
	if routerErr != nil {
		return fmt.Errorf("app run: %s", routerErr.Error())
	}

	errChan := make(chan error, 1)

	go func() {
		if runErr := router.Run(a.Config.RunAddress); runErr != nil {
			errChan <- runErr
		}
	}()

	processor := pix.New(services.PurchaseService, a.Logger).
		SetSettleWorkers(5).     //nolint:mnd
		SetLimitPerIteration(50) //nolint:mnd

	go processor.Run(notifyCtx)

	select {
	case <-notifyCtx.Done():
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	factories := map[repoargs.RepositoryName]uow.RepositoryFactory{
		repoargs.UserRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewUserRepository(dbtx)
		},
		repoargs.LedgerRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewLedgerRepository(dbtx)
		},
		repoargs.ProposalRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewProposalRepository(dbtx)
		},
		repoargs.PurchaseRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewPurchaseRepository(dbtx)
		},
		repoargs.ItemRepoName: func(dbtx uow.DBTX) uow.Repository {
			return pgrepo.NewItemRepository(dbtx)
		},
	}

	for name, factoryFn := range factories {
		if regErr := unitOfWork.Register(uow.RepositoryName(name), factoryFn); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}

	return unitOfWork, nil
}
