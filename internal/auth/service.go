package auth

import (
	"context"
	"errors"
	"time"

	"cinebook/internal/shared/config"
	"cinebook/pkg/logger"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
}

// service authenticates the single back-office admin identity configured
// through the environment. There is no user store: customers book without
// accounts.
type service struct {
	config *config.Config
	log    *logger.Logger
}

func NewService(cfg *config.Config) Service {
	return &service{
		config: cfg,
		log:    logger.GetDefault(),
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if s.config.Admin.PasswordHash == "" {
		s.log.LogAuthFailure(ctx, "admin login disabled, no password hash configured", "")
		return nil, ErrInvalidCredentials
	}

	if req.Email != s.config.Admin.Email {
		s.log.LogAuthFailure(ctx, "unknown admin email", "")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.config.Admin.PasswordHash), []byte(req.Password)); err != nil {
		s.log.LogAuthFailure(ctx, "admin password mismatch", "")
		return nil, ErrInvalidCredentials
	}

	token, expiresIn, err := s.generateAccessToken(req.Email)
	if err != nil {
		return nil, err
	}

	s.log.LogAuthSuccess(ctx, req.Email, "password")

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Email:       req.Email,
		Role:        "admin",
	}, nil
}

func (s *service) generateAccessToken(email string) (string, int64, error) {
	now := time.Now()
	ttl := s.config.JWT.ExpiresIn

	claims := jwt.MapClaims{
		"email": email,
		"role":  "admin",
		"type":  "access",
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWT.Secret))
	if err != nil {
		return "", 0, err
	}
	return signed, int64(ttl.Seconds()), nil
}
