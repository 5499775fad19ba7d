package tokens

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerifyRoundTrip(t *testing.T) {
	raw, err := Generate("secret", "u1", time.Hour)
	require.NoError(t, err)

	userID, err := NewVerifier("secret").Verify(context.Background(), raw)
	require.NoError(t, err)
	require.Equal(t, "u1", userID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	raw, err := Generate("secret", "u1", time.Hour)
	require.NoError(t, err)

	_, err = NewVerifier("other-secret").Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	raw, err := Generate("secret", "u1", -time.Minute)
	require.NoError(t, err)

	_, err = NewVerifier("secret").Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := jt.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewVerifier("secret").Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	jt := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u1"})
	raw, err := jt.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewVerifier("secret").Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	_, err := NewVerifier("secret").Verify(context.Background(), "not.a.token")
	require.Error(t, err)
}
