package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"dently/internal/shared/config"
	"dently/pkg/logger"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a wrong email or password. The two
// cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginRequest is the admin login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service authenticates the single administrative account configured from
// the environment. There is no user store; the clinic has one admin.
type Service interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
}

type service struct {
	admin config.AdminConfig
	jwt   config.JWTConfig
	log   *logger.Logger
}

// NewService creates a new auth service
func NewService(admin config.AdminConfig, jwtCfg config.JWTConfig, log *logger.Logger) Service {
	return &service{
		admin: admin,
		jwt:   jwtCfg,
		log:   log,
	}
}

// Login verifies the credentials against the configured admin account and
// issues a signed access token.
func (s *service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if s.admin.Email == "" || s.admin.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}

	emailMatch := subtle.ConstantTimeCompare([]byte(req.Email), []byte(s.admin.Email)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(req.Password))
	if !emailMatch || passwordErr != nil {
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(s.jwt.JWTExpiresIn)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": s.admin.Email,
		"role":  "admin",
		"type":  "access",
		"iat":   time.Now().Unix(),
		"exp":   expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte(s.jwt.Secret))
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}
