package middleware

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gitchat-ai/gitchat/internal/domain"
)

var testJWTConfig = JWTConfig{Secret: "test-secret", Issuer: "gitchat"}

func testUser() *domain.User {
	return &domain.User{ID: "user-1", Email: "dev@example.com", Username: "dev"}
}

func TestSignAndValidateRoundTrip(t *testing.T) {
	token, err := SignJWT(testUser(), testJWTConfig, time.Hour)
	require.NoError(t, err)

	claims, err := validateJWT(token, testJWTConfig.Secret, testJWTConfig.Issuer)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "dev@example.com", claims.Email)
	require.Equal(t, "dev", claims.Username)
}

func TestValidate_ExpiredToken(t *testing.T) {
	token, err := SignJWT(testUser(), testJWTConfig, -time.Minute)
	require.NoError(t, err)

	_, err = validateJWT(token, testJWTConfig.Secret, testJWTConfig.Issuer)
	require.ErrorContains(t, err, "expired")
}

func TestValidate_WrongIssuer(t *testing.T) {
	token, err := SignJWT(testUser(), testJWTConfig, time.Hour)
	require.NoError(t, err)

	_, err = validateJWT(token, testJWTConfig.Secret, "someone-else")
	require.ErrorContains(t, err, "issuer")
}

func TestValidate_TamperedSignature(t *testing.T) {
	token, err := SignJWT(testUser(), testJWTConfig, time.Hour)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "." + "x" + parts[2]

	_, err = validateJWT(tampered, testJWTConfig.Secret, testJWTConfig.Issuer)
	require.ErrorContains(t, err, "signature")
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := SignJWT(testUser(), testJWTConfig, time.Hour)
	require.NoError(t, err)

	_, err = validateJWT(token, "other-secret", testJWTConfig.Issuer)
	require.ErrorContains(t, err, "signature")
}

func TestValidate_MalformedToken(t *testing.T) {
	_, err := validateJWT("not-a-token", testJWTConfig.Secret, testJWTConfig.Issuer)
	require.ErrorContains(t, err, "format")
}
