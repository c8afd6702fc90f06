package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/overlaykit/streamrelay/internal/ierr"
	"github.com/stretchr/testify/assert"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)

	return tokenString
}

func TestAuthenticator_Authenticate(t *testing.T) {
	authenticator := NewAuthenticator("test-secret", []string{"test-api-key"})

	t.Run("valid jwt", func(t *testing.T) {
		tokenString := signToken(t, "test-secret", jwt.MapClaims{
			"sub":   "test-operator",
			"exp":   time.Now().Add(time.Hour).Unix(),
			"iat":   time.Now().Unix(),
			"aud":   "streamrelay",
			"scope": []string{"read"},
		})

		auth, err := authenticator.Authenticate(tokenString)

		assert.NoError(t, err)
		assert.NotNil(t, auth)
		assert.Equal(t, "test-operator", auth.Subject)
		assert.True(t, auth.CanRead())
		assert.False(t, auth.CanManage())
	})

	t.Run("manage scope implies read", func(t *testing.T) {
		tokenString := signToken(t, "test-secret", jwt.MapClaims{
			"sub":   "test-operator",
			"exp":   time.Now().Add(time.Hour).Unix(),
			"iat":   time.Now().Unix(),
			"aud":   "streamrelay",
			"scope": []string{"manage"},
		})

		auth, err := authenticator.Authenticate(tokenString)

		assert.NoError(t, err)
		assert.True(t, auth.CanRead())
		assert.True(t, auth.CanManage())
	})

	t.Run("invalid jwt signature", func(t *testing.T) {
		tokenString := signToken(t, "invalid-secret", jwt.MapClaims{
			"sub":   "test-operator",
			"exp":   time.Now().Add(time.Hour).Unix(),
			"iat":   time.Now().Unix(),
			"aud":   "streamrelay",
			"scope": []string{"read"},
		})

		auth, err := authenticator.Authenticate(tokenString)

		assert.Error(t, err)
		assert.Nil(t, auth)
		assert.IsType(t, ierr.Error{}, err)
		assert.Equal(t, ierr.ErrorCodeUnauthenticated, err.(ierr.Error).Code)
	})

	t.Run("expired jwt", func(t *testing.T) {
		tokenString := signToken(t, "test-secret", jwt.MapClaims{
			"sub":   "test-operator",
			"exp":   time.Now().Add(-time.Hour).Unix(),
			"iat":   time.Now().Add(-2 * time.Hour).Unix(),
			"aud":   "streamrelay",
			"scope": []string{"read"},
		})

		auth, err := authenticator.Authenticate(tokenString)

		assert.Error(t, err)
		assert.Nil(t, auth)
		assert.IsType(t, ierr.Error{}, err)
		assert.Equal(t, ierr.ErrorCodeUnauthenticated, err.(ierr.Error).Code)
	})

	t.Run("wrong audience", func(t *testing.T) {
		tokenString := signToken(t, "test-secret", jwt.MapClaims{
			"sub":   "test-operator",
			"exp":   time.Now().Add(time.Hour).Unix(),
			"iat":   time.Now().Unix(),
			"aud":   "another-service",
			"scope": []string{"read"},
		})

		auth, err := authenticator.Authenticate(tokenString)

		assert.Error(t, err)
		assert.Nil(t, auth)
	})

	t.Run("missing subject", func(t *testing.T) {
		tokenString := signToken(t, "test-secret", jwt.MapClaims{
			"exp":   time.Now().Add(time.Hour).Unix(),
			"iat":   time.Now().Unix(),
			"aud":   "streamrelay",
			"scope": []string{"read"},
		})

		auth, err := authenticator.Authenticate(tokenString)

		assert.Error(t, err)
		assert.Nil(t, auth)
		assert.IsType(t, ierr.Error{}, err)
		assert.Equal(t, ierr.ErrorCodeInvalidArgument, err.(ierr.Error).Code)
	})

	t.Run("missing scope", func(t *testing.T) {
		tokenString := signToken(t, "test-secret", jwt.MapClaims{
			"sub": "test-operator",
			"exp": time.Now().Add(time.Hour).Unix(),
			"iat": time.Now().Unix(),
			"aud": "streamrelay",
		})

		auth, err := authenticator.Authenticate(tokenString)

		assert.Error(t, err)
		assert.Nil(t, auth)
		assert.IsType(t, ierr.Error{}, err)
		assert.Equal(t, ierr.ErrorCodeInvalidArgument, err.(ierr.Error).Code)
	})

	t.Run("valid api key", func(t *testing.T) {
		auth, err := authenticator.Authenticate("test-api-key")

		assert.NoError(t, err)
		assert.NotNil(t, auth)
		assert.Equal(t, "api", auth.Subject)
		assert.True(t, auth.CanManage())
	})

	t.Run("unknown token is not an api key", func(t *testing.T) {
		auth, err := authenticator.Authenticate("invalid-api-key")

		assert.Error(t, err)
		assert.Nil(t, auth)
	})
}
