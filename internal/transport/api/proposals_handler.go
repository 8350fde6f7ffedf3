package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/autogiro/credits/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProposalsHandler struct {
	svs ProposalServicer
}

func NewProposalsHandler(svs ProposalServicer) *ProposalsHandler {
	return &ProposalsHandler{
		svs: svs,
	}
}

type CreateProposalParams struct {
	ItemRef       string          `json:"item_ref" binding:"required,max=64"`
	AmountOffered decimal.Decimal `json:"amount_offered" binding:"required"`
}

type ProposalResponse struct {
	ID             int64   `json:"id"`
	ItemRef        string  `json:"item_ref"`
	AmountOffered  float64 `json:"amount_offered"`
	CreditsCharged float64 `json:"credits_charged"`
	Status         string  `json:"status"`
	IsWinner       bool    `json:"is_winner"`
	CreatedAt      string  `json:"created_at"`
}

// Create POST RouteGroup + ProposalsRoute. Создание предложения со списанием кредита.
func (h *ProposalsHandler) Create(c *gin.Context) {
	principal := getPrincipalFromContext(c)

	var params CreateProposalParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}
	if params.AmountOffered.LessThanOrEqual(decimal.Zero) {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	result, err := h.svs.Create(reqCtx, principal.UserID, params.ItemRef, params.AmountOffered)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientCredits):
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "Créditos insuficientes"})
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatus(http.StatusNotFound)
		case errors.Is(err, domain.ErrItemClosed):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Item não está aberto para propostas"})
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"proposal":          convertProposal(result.Proposal),
		"remaining_credits": result.RemainingCredits.InexactFloat64(),
	})
}

// Index GET RouteGroup + MyProposalsRoute.
func (h *ProposalsHandler) Index(c *gin.Context) {
	principal := getPrincipalFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	proposals, err := h.svs.GetByUserID(reqCtx, principal.UserID)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]ProposalResponse, len(proposals))
	for i := range proposals {
		response[i] = *convertProposal(&proposals[i])
	}
	c.JSON(http.StatusOK, gin.H{"proposals": response})
}

type TransitionStatusParams struct {
	Status domain.ProposalStatusType `json:"status" binding:"required,oneof=accepted rejected outbid"`
}

// TransitionStatus PATCH RouteGroup + ProposalStatusRoute.
//
// Повтор уже примененного терминального перехода возвращает 200 с refunded=false:
// ретраи клиента не порождают второго возврата.
func (h *ProposalsHandler) TransitionStatus(c *gin.Context) {
	principal := getPrincipalFromContext(c)

	proposalID, parseErr := strconv.ParseInt(c.Param("id"), 10, 64)
	if parseErr != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	var params TransitionStatusParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	result, err := h.svs.TransitionStatus(reqCtx, principal, proposalID, params.Status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatus(http.StatusNotFound)
		case errors.Is(err, domain.ErrForbidden):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Sem permissão"})
		case errors.Is(err, domain.ErrInvalidTransition):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrItemClosed):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Item já possui proposta vencedora"})
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"proposal":      convertProposal(result.Proposal),
		"applied":       result.Applied,
		"refunded":      result.Refunded,
		"refund_amount": result.RefundAmount.InexactFloat64(),
	})
}

func convertProposal(p *domain.Proposal) *ProposalResponse {
	return &ProposalResponse{
		ID:             p.ID,
		ItemRef:        p.ItemRef,
		AmountOffered:  p.AmountOffered.InexactFloat64(),
		CreditsCharged: p.CreditsCharged.InexactFloat64(),
		Status:         string(p.Status),
		IsWinner:       p.IsWinner,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}
