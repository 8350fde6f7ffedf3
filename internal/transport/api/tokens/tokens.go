// Package tokens кодирует аутентифицированного субъекта в JWT. Выдачей токенов
// занимается внешний сервис аутентификации, ядро их только проверяет и читает.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type UserClaims struct {
	jwt.RegisteredClaims
	ID      int64 `json:"uid"`
	IsAdmin bool  `json:"adm"`
}

// NewUserJWT выписывает токен субъекта. В проде используется внешним сервисом
// аутентификации, здесь - тестами и служебными скриптами.
func NewUserJWT(userID int64, isAdmin bool, secret []byte, ttl time.Duration) (string, error) {
	claims := UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		ID:      userID,
		IsAdmin: isAdmin,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("signing user jwt: %s", err.Error())
	}
	return signed, nil
}

// ValidateUserJWT проверяет подпись и срок действия токена.
func ValidateUserJWT(tokenStr string, secret []byte) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &UserClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing user jwt: %w", err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return token, nil
}
