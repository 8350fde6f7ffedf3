package pix

import (
	"context"

	"github.com/autogiro/credits/internal/service"
	"github.com/autogiro/credits/internal/transport/pix/client"
)

// Provider адаптирует HTTP клиент провайдера к контракту service.PaymentProvider.
type Provider struct {
	client *client.HTTPClient
}

func NewProvider(c *client.HTTPClient) *Provider {
	return &Provider{client: c}
}

func (p *Provider) CreateInvoice(
	ctx context.Context,
	args service.CreateInvoiceArgs,
) (*service.ProviderInvoice, error) {
	invoice, err := p.client.CreateInvoice(ctx, client.PayerInfo{
		Name:  args.PayerName,
		Email: args.PayerEmail,
		CPF:   args.PayerCPF,
	}, args.Amount, args.Description)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &service.ProviderInvoice{
		ExternalRef: invoice.InvoiceID,
		PayCode:     invoice.PayCode,
		QRCodeURL:   invoice.QRCodeURL,
		DueAt:       invoice.DueAt,
	}, nil
}

func (p *Provider) GetInvoiceStatus(
	ctx context.Context,
	externalRef string,
) (*service.ProviderInvoiceStatus, error) {
	status, err := p.client.GetInvoiceStatus(ctx, externalRef)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &service.ProviderInvoiceStatus{
		Status: service.ProviderStatus(status.Status),
		PaidAt: status.PaidAt,
	}, nil
}
