package auth

import (
	"context"
	"testing"
	"time"

	"cinebook/internal/shared/config"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthConfig(t *testing.T, password string) *config.Config {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Admin.Email = "admin@cinebook.local"
	cfg.Admin.PasswordHash = string(hash)
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpiresIn = time.Hour
	return cfg
}

func TestLogin_IssuesAdminAccessToken(t *testing.T) {
	cfg := newAuthConfig(t, "correct horse")
	svc := NewService(cfg)

	result, err := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@cinebook.local",
		Password: "correct horse",
	})

	require.NoError(t, err)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "admin", result.Role)
	assert.Equal(t, int64(3600), result.ExpiresIn)

	token, err := jwt.Parse(result.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWT.Secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, "admin@cinebook.local", claims["email"])
	assert.Equal(t, "admin", claims["role"])
	assert.Equal(t, "access", claims["type"])
}

func TestLogin_RejectsWrongPassword(t *testing.T) {
	svc := NewService(newAuthConfig(t, "correct horse"))

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@cinebook.local",
		Password: "battery staple",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RejectsUnknownEmail(t *testing.T) {
	svc := NewService(newAuthConfig(t, "correct horse"))

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "someone@else.local",
		Password: "correct horse",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DisabledWithoutConfiguredHash(t *testing.T) {
	cfg := newAuthConfig(t, "correct horse")
	cfg.Admin.PasswordHash = ""
	svc := NewService(cfg)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "admin@cinebook.local",
		Password: "correct horse",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
