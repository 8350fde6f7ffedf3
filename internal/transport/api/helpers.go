package api

import (
	"github.com/autogiro/credits/internal/domain"
	"github.com/autogiro/credits/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
)

func getPrincipalFromContext(c *gin.Context) domain.Principal {
	principal, _ := c.Value(middlewares.CurrentPrincipalKey).(domain.Principal)
	return principal
}
