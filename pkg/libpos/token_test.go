package libpos_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"washpos/pkg/libpos"
)

func TestIntrospectToken(t *testing.T) {
	expiry := time.Now().Add(time.Hour).Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-42",
		ExpiresAt: jwt.NewNumericDate(expiry),
	})
	raw, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	subject, expiresAt, err := libpos.IntrospectToken(raw)
	assert.NoError(t, err)
	assert.Equal(t, "user-42", subject)
	assert.Equal(t, expiry.Unix(), expiresAt)
}

func TestIntrospectTokenInvalid(t *testing.T) {
	_, _, err := libpos.IntrospectToken("not-a-jwt")
	assert.Error(t, err)
}
