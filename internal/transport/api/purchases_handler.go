package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/autogiro/credits/internal/domain"
	"github.com/autogiro/credits/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const defaultPendingLimit = 10

type PurchasesHandler struct {
	svs PurchaseServicer
}

func NewPurchasesHandler(svs PurchaseServicer) *PurchasesHandler {
	return &PurchasesHandler{
		svs: svs,
	}
}

type RequestRechargeParams struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type PurchaseResponse struct {
	ID              int64   `json:"id"`
	AmountRequested float64 `json:"amount_requested"`
	CreditsToAdd    float64 `json:"credits_to_add"`
	PayCode         string  `json:"copy_paste_code,omitempty"`
	QRCodeURL       string  `json:"qr_code_image,omitempty"`
	Status          string  `json:"status"`
	ExpiresAt       string  `json:"expires_at"`
	CreatedAt       string  `json:"created_at"`
}

// RequestRecharge POST RouteGroup + RequestRechargeRoute. Выставляет PIX счет
// и создает pending заявку; баланс не меняется.
func (h *PurchasesHandler) RequestRecharge(c *gin.Context) {
	principal := getPrincipalFromContext(c)

	var params RequestRechargeParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	// Выставление счета - внешний сетевой вызов, таймаут шире сервисного.
	reqCtx, cancel := context.WithTimeout(c, DefaultProviderTimeout)
	defer cancel()

	purchase, err := h.svs.RequestTopUp(reqCtx, principal.UserID, params.Amount)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAmountBelowMinimum):
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": "Valor abaixo do mínimo para recarga"})
		case errors.Is(err, domain.ErrCPFRequired):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error":        "CPF não cadastrado",
				"requires_cpf": true,
			})
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatus(http.StatusNotFound)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"purchase": convertPurchase(purchase)})
}

// CheckPayment GET RouteGroup + CheckPaymentRoute. Идемпотентная проверка оплаты:
// сколько бы раз клиент ни опрашивал заявку, зачисление произойдет не более одного раза.
func (h *PurchasesHandler) CheckPayment(c *gin.Context) {
	principal := getPrincipalFromContext(c)

	purchaseID, parseErr := strconv.ParseInt(c.Param("purchaseID"), 10, 64)
	if parseErr != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultProviderTimeout)
	defer cancel()

	result, err := h.svs.CheckAndSettle(reqCtx, principal.UserID, purchaseID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, convertSettleResult(result))
}

// PendingPurchases GET RouteGroup + PendingPurchasesRoute.
func (h *PurchasesHandler) PendingPurchases(c *gin.Context) {
	principal := getPrincipalFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	purchases, err := h.svs.ListPending(reqCtx, principal.UserID, defaultPendingLimit)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]PurchaseResponse, len(purchases))
	for i := range purchases {
		response[i] = *convertPurchase(&purchases[i])
	}
	c.JSON(http.StatusOK, gin.H{"pending_purchases": response})
}

type UpdateCPFParams struct {
	CPF string `json:"cpf" binding:"required,cpf"`
}

// UpdateCPF PATCH RouteGroup + UpdateCPFRoute.
func (h *PurchasesHandler) UpdateCPF(c *gin.Context) {
	principal := getPrincipalFromContext(c)

	var params UpdateCPFParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	if err := h.svs.UpdateCPF(reqCtx, principal.UserID, params.CPF); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateKey):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "CPF já cadastrado por outro usuário"})
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatus(http.StatusNotFound)
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.Status(http.StatusOK)
}

func convertPurchase(p *domain.PendingPurchase) *PurchaseResponse {
	return &PurchaseResponse{
		ID:              p.ID,
		AmountRequested: p.AmountRequested.InexactFloat64(),
		CreditsToAdd:    p.CreditsToAdd.InexactFloat64(),
		PayCode:         p.PayCode,
		QRCodeURL:       p.QRCodeURL,
		Status:          string(p.Status),
		ExpiresAt:       p.ExpiresAt.Format(time.RFC3339),
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
	}
}

func convertSettleResult(result *service.SettleResult) gin.H {
	response := gin.H{
		"status": string(result.Purchase.Status),
	}
	switch result.Outcome {
	case service.SettleOutcomeSettled:
		response["credits_added"] = result.Purchase.CreditsToAdd.InexactFloat64()
		response["new_balance"] = result.NewBalance.InexactFloat64()
		if result.Purchase.PaidAt != nil {
			response["paid_at"] = result.Purchase.PaidAt.Format(time.RFC3339)
		}
	case service.SettleOutcomeAlreadySettled:
		response["credits_added"] = result.Purchase.CreditsToAdd.InexactFloat64()
		if result.Purchase.PaidAt != nil {
			response["paid_at"] = result.Purchase.PaidAt.Format(time.RFC3339)
		}
	case service.SettleOutcomeStillPending:
		response["provider_status"] = string(result.ProviderStatus)
		response["message"] = "Aguardando pagamento"
	case service.SettleOutcomeExpired:
		response["message"] = "Cobrança expirada"
	}
	return response
}
