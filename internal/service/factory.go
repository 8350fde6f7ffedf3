package service

import (
	"fmt"

	"github.com/autogiro/credits/pkg/uow"
)

type AppServices struct {
	BalanceService  *BalanceService
	ProposalService *ProposalService
	PurchaseService *PurchaseService
}

func Factory(
	unitOfWork uow.UOW,
	provider PaymentProvider,
	purchaseConf PurchaseServiceConfig,
) (*AppServices, error) {
	balanceService, balanceErr := NewBalanceService(unitOfWork)
	if balanceErr != nil {
		return nil, fmt.Errorf("service factory: %s", balanceErr.Error())
	}

	proposalService, proposalErr := NewProposalService(unitOfWork, balanceService)
	if proposalErr != nil {
		return nil, fmt.Errorf("service factory: %s", proposalErr.Error())
	}

	purchaseService, purchaseErr := NewPurchaseService(unitOfWork, balanceService, provider, purchaseConf)
	if purchaseErr != nil {
		return nil, fmt.Errorf("service factory: %s", purchaseErr.Error())
	}

	return &AppServices{
		BalanceService:  balanceService,
		ProposalService: proposalService,
		PurchaseService: purchaseService,
	}, nil
}
