package middlewares

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/autogiro/credits/internal/domain"
	"github.com/autogiro/credits/internal/transport/api/tokens"
	"github.com/gin-gonic/gin"
)

var ErrTokenNotExist = errors.New("token not exist")

const CurrentPrincipalKey = "currentPrincipal"

// checkAuthorization извлекает токен из заголовка Authorization и проверяет его.
// Если токен не передан, вернется ошибка ErrTokenNotExist.
func checkAuthorization(c *gin.Context, jwtTokenSecret []byte) (*tokens.UserClaims, error) {
	tokenHeader := c.GetHeader("Authorization")
	bearer := "Bearer "

	if len(tokenHeader) < len(bearer) || tokenHeader[:len(bearer)] != bearer {
		return nil, ErrTokenNotExist
	}

	token, err := tokens.ValidateUserJWT(tokenHeader[len(bearer):], jwtTokenSecret)
	if err != nil {
		return nil, fmt.Errorf("check authorization: %w", err)
	}

	claims, ok := token.Claims.(*tokens.UserClaims)
	if !ok {
		return nil, errors.New("invalid jwt claims type")
	}
	return claims, nil
}

// AuthRequired проверяет, что запрос авторизован, и кладет в контекст
// (поле CurrentPrincipalKey) субъекта запроса.
func AuthRequired(jwtTokenSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := checkAuthorization(c, jwtTokenSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			if !errors.Is(err, ErrTokenNotExist) {
				_ = c.Error(err).SetType(gin.ErrorTypePrivate)
			}
			return
		}
		c.Set(CurrentPrincipalKey, domain.Principal{UserID: claims.ID, IsAdmin: claims.IsAdmin})
		c.Next()
	}
}

// AdminRequired пропускает только администраторов. Вешается после AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := c.Value(CurrentPrincipalKey).(domain.Principal)
		if !ok || !principal.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
