package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/autogiro/credits/internal/domain"
	"github.com/gin-gonic/gin"
)

const defaultHistoryLimit = 50

type BalanceHandler struct {
	svs BalanceServicer
}

func NewBalanceHandler(svs BalanceServicer) *BalanceHandler {
	return &BalanceHandler{
		svs: svs,
	}
}

type BalanceResponse struct {
	Credits        float64 `json:"credits"`
	TotalPurchased float64 `json:"total_purchased"`
}

// Index GET RouteGroup + BalanceRoute.
func (b *BalanceHandler) Index(c *gin.Context) {
	principal := getPrincipalFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	balance, err := b.svs.GetBalance(reqCtx, principal.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, &BalanceResponse{
		Credits:        balance.Credits.InexactFloat64(),
		TotalPurchased: balance.TotalPurchased.InexactFloat64(),
	})
}

type TransactionResponseItem struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"user_id"`
	Kind          string  `json:"type"`
	Amount        float64 `json:"amount"`
	BalanceBefore float64 `json:"balance_before"`
	BalanceAfter  float64 `json:"balance_after"`
	ProposalID    *int64  `json:"proposal_id,omitempty"`
	PurchaseID    *int64  `json:"purchase_id,omitempty"`
	Description   string  `json:"description"`
	CreatedAt     string  `json:"created_at"`
}

// Transactions GET RouteGroup + TransactionsRoute. Журнал юзера, новые первыми.
func (b *BalanceHandler) Transactions(c *gin.Context) {
	principal := getPrincipalFromContext(c)

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	entries, err := b.svs.GetHistory(reqCtx, principal.UserID, defaultHistoryLimit)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": convertLedgerEntries(entries)})
}

func convertLedgerEntries(entries []domain.LedgerEntry) []TransactionResponseItem {
	response := make([]TransactionResponseItem, len(entries))
	for i, entry := range entries {
		response[i] = TransactionResponseItem{
			ID:            entry.ID,
			UserID:        entry.UserID,
			Kind:          string(entry.Kind),
			Amount:        entry.Amount.InexactFloat64(),
			BalanceBefore: entry.BalanceBefore.InexactFloat64(),
			BalanceAfter:  entry.BalanceAfter.InexactFloat64(),
			ProposalID:    entry.ProposalID,
			PurchaseID:    entry.PurchaseID,
			Description:   entry.Description,
			CreatedAt:     entry.CreatedAt.Format(time.RFC3339),
		}
	}
	return response
}
