package tokens

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserJWTRoundTrip(t *testing.T) {
	secret := []byte("super secret key")

	signed, err := NewUserJWT(42, true, secret, time.Hour)
	require.NoError(t, err)

	token, err := ValidateUserJWT(signed, secret)
	require.NoError(t, err)

	claims, ok := token.Claims.(*UserClaims)
	require.True(t, ok)
	assert.Equal(t, int64(42), claims.ID)
	assert.True(t, claims.IsAdmin)
}

func TestValidateUserJWT_WrongSecret(t *testing.T) {
	signed, err := NewUserJWT(42, false, []byte("super secret key"), time.Hour)
	require.NoError(t, err)

	_, err = ValidateUserJWT(signed, []byte("another key"))
	require.Error(t, err)
}

func TestValidateUserJWT_Expired(t *testing.T) {
	secret := []byte("super secret key")
	signed, err := NewUserJWT(42, false, secret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateUserJWT(signed, secret)
	require.Error(t, err)
}
