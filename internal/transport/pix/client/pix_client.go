// Package client реализует HTTP клиент платежного провайдера (PIX инвойсы).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	RouteInvoices      = "/v2/invoices/"
	RouteInvoiceStatus = "/v2/invoices/%s"
)

// Константы минимального и максимального значения в заголовке Retry-After.
const (
	minRetryAfter = 1
	maxRetryAfter = 120
)

type StatusType string

const (
	StatusOpen      StatusType = "OPEN"
	StatusPaid      StatusType = "PAID"
	StatusLate      StatusType = "LATE"
	StatusCancelled StatusType = "CANCELLED"
)

type PayerInfo struct {
	Name  string
	Email string
	CPF   string
}

type Invoice struct {
	InvoiceID string
	Status    StatusType
	// PayCode - EMV строка "copia e cola".
	PayCode   string
	QRCodeURL string
	DueAt     time.Time
}

type InvoiceStatus struct {
	InvoiceID string
	Status    StatusType
	PaidAt    *time.Time
}

// HTTPClient делает запросы к API провайдера. Аутентификация токеном; mTLS и обновление
// токена остаются за пределами ядра.
type HTTPClient struct {
	baseURL    string
	apiToken   string
	httpClient *http.Client
}

func New(baseURL, apiToken string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		apiToken:   apiToken,
		httpClient: http.DefaultClient,
	}
}

type invoiceRequest struct {
	Code     string `json:"code"`
	Customer struct {
		Name     string `json:"name"`
		Email    string `json:"email,omitempty"`
		Document struct {
			Identity string `json:"identity"`
			Type     string `json:"type"`
		} `json:"document"`
	} `json:"customer"`
	Services     []invoiceService `json:"services"`
	PaymentTerms struct {
		DueDate string `json:"due_date"`
	} `json:"payment_terms"`
	PaymentForms []string `json:"payment_forms"`
}

type invoiceService struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Amount      int64  `json:"amount"`
}

type invoiceResponse struct {
	ID      string     `json:"id"`
	Status  StatusType `json:"status"`
	Payment struct {
		Pix struct {
			EMV       string `json:"emv"`
			QRCodeURL string `json:"qr_code_url"`
		} `json:"pix"`
	} `json:"payment_options"`
	PaymentTerms struct {
		DueDate string `json:"due_date"`
	} `json:"payment_terms"`
	Occurrence struct {
		PaidAt *time.Time `json:"paid_at"`
	} `json:"occurrence"`
}

// CreateInvoice выставляет PIX счет. Сумма передается провайдеру в центах.
// Срок оплаты - следующий день, как и в личном кабинете провайдера.
func (c *HTTPClient) CreateInvoice(
	ctx context.Context,
	payer PayerInfo,
	amount decimal.Decimal,
	description string,
) (*Invoice, error) {
	dueAt := time.Now().Add(24 * time.Hour)

	var reqBody invoiceRequest
	reqBody.Code = "AUTOGIRO-" + uuid.NewString()
	reqBody.Customer.Name = payer.Name
	reqBody.Customer.Email = payer.Email
	reqBody.Customer.Document.Identity = payer.CPF
	reqBody.Customer.Document.Type = "CPF"
	reqBody.Services = []invoiceService{{
		Name:        "Recarga de Créditos",
		Description: description,
		Amount:      amount.Mul(decimal.NewFromInt(100)).IntPart(),
	}}
	reqBody.PaymentTerms.DueDate = dueAt.Format("2006-01-02")
	reqBody.PaymentForms = []string{"PIX"}

	resp, err := c.doJSON(ctx, http.MethodPost, c.baseURL+RouteInvoices, &reqBody)
	if err != nil {
		return nil, err
	}

	return &Invoice{
		InvoiceID: resp.ID,
		Status:    resp.Status,
		PayCode:   resp.Payment.Pix.EMV,
		QRCodeURL: resp.Payment.Pix.QRCodeURL,
		DueAt:     dueAt,
	}, nil
}

// GetInvoiceStatus запрашивает текущий статус счета по его идентификатору.
// При ответе сервера со статусом отличным от http.StatusOK возвращает ошибку
// StatusCodeError, или TooManyRequestError в случае http.StatusTooManyRequests.
func (c *HTTPClient) GetInvoiceStatus(ctx context.Context, invoiceID string) (*InvoiceStatus, error) {
	url := c.baseURL + fmt.Sprintf(RouteInvoiceStatus, invoiceID)

	resp, err := c.doJSON(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	return &InvoiceStatus{
		InvoiceID: resp.ID,
		Status:    resp.Status,
		PaidAt:    resp.Occurrence.PaidAt,
	}, nil
}

//nolint:nonamedreturns
func (c *HTTPClient) doJSON(
	ctx context.Context,
	method, url string,
	payload any,
) (response *invoiceResponse, err error) {
	var body io.Reader
	if payload != nil {
		raw, marshalErr := json.Marshal(payload)
		if marshalErr != nil {
			return nil, fmt.Errorf("marshal request: %s", marshalErr.Error())
		}
		body = bytes.NewReader(raw)
	}

	req, reqErr := http.NewRequestWithContext(ctx, method, url, body)
	if reqErr != nil {
		return nil, fmt.Errorf("create request: %s", reqErr.Error())
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	// Провайдер дедуплицирует повторные POST по этому заголовку.
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return nil, fmt.Errorf("do request: %s", doErr.Error())
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, NewTooManyRequestError(parseRetryAfter(resp.Header.Get("Retry-After")))
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		err = NewStatusCodeError(resp.StatusCode)
		return nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		err = fmt.Errorf("read response: %s", readErr.Error())
		return nil, err
	}

	if jsonErr := json.Unmarshal(raw, &response); jsonErr != nil {
		err = fmt.Errorf("parse response: %s", jsonErr.Error())
		return nil, err
	}

	return response, nil
}

func parseRetryAfter(header string) time.Duration {
	minValue := decimal.NewFromInt(minRetryAfter)
	maxValue := decimal.NewFromInt(maxRetryAfter)

	retryAfter, parseErr := decimal.NewFromString(header)
	if parseErr != nil || retryAfter.LessThan(minValue) || retryAfter.GreaterThan(maxValue) {
		// в случае ошибки или неверных данных ставим 60 секунд
		retryAfter = decimal.NewFromInt(60) //nolint:mnd
	}
	return time.Duration(retryAfter.IntPart()) * time.Second
}
