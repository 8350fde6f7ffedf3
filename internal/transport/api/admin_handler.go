package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/autogiro/credits/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const defaultAdminHistoryLimit = 100

type AdminHandler struct {
	svs BalanceServicer
}

func NewAdminHandler(svs BalanceServicer) *AdminHandler {
	return &AdminHandler{
		svs: svs,
	}
}

type AdjustCreditsParams struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description" binding:"required,max_bytes=255"`
}

// AdjustCredits POST RouteGroup + AdminAdjustRoute. Ручная корректировка баланса
// администратором, amount может быть отрицательным.
func (a *AdminHandler) AdjustCredits(c *gin.Context) {
	principal := getPrincipalFromContext(c)

	userID, parseErr := strconv.ParseInt(c.Param("userID"), 10, 64)
	if parseErr != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	var params AdjustCreditsParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}
	if params.Amount.IsZero() {
		c.AbortWithStatus(http.StatusUnprocessableEntity)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	entry, err := a.svs.AdminAdjust(reqCtx, principal.UserID, userID, params.Amount, params.Description)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			c.AbortWithStatus(http.StatusNotFound)
		case errors.Is(err, domain.ErrInsufficientCredits):
			c.AbortWithStatusJSON(http.StatusPaymentRequired, gin.H{"error": "Créditos insuficientes"})
		default:
			_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entry":       convertLedgerEntries([]domain.LedgerEntry{*entry})[0],
		"new_balance": entry.BalanceAfter.InexactFloat64(),
	})
}

// Transactions GET RouteGroup + AdminTransactionsRoute. Сквозной журнал по всем юзерам.
func (a *AdminHandler) Transactions(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	entries, err := a.svs.GetAllHistory(reqCtx, defaultAdminHistoryLimit)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": convertLedgerEntries(entries)})
}
