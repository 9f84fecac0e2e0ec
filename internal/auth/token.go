package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jbweber/homelab/northwind/internal/config"
	"github.com/jbweber/homelab/northwind/internal/domain"
)

const clockSkew = 30 * time.Second

type claims struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Token is a signed access token
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// TokenService issues and validates HS256 access tokens
type TokenService struct {
	secret   []byte
	issuer   string
	lifetime time.Duration
	now      func() time.Time
}

// NewTokenService creates a token service from the auth configuration
func NewTokenService(cfg config.AuthConfig) (*TokenService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if cfg.TokenLifetime <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive")
	}
	return &TokenService{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.Issuer,
		lifetime: cfg.TokenLifetime,
		now:      time.Now,
	}, nil
}

// Issue signs a token for user
func (s *TokenService) Issue(user domain.User) (Token, error) {
	now := s.now()
	expires := now.Add(s.lifetime)
	c := claims{
		Name:  user.UserName,
		Roles: []string{user.Role},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: expires.UTC()}, nil
}

// Parse validates token and returns the caller it identifies
func (s *TokenService) Parse(token string) (RequestContext, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{},
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(s.issuer),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return RequestContext{}, ErrExpiredToken
		}
		return RequestContext{}, ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return RequestContext{}, ErrInvalidToken
	}
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return RequestContext{}, ErrInvalidToken
	}
	return RequestContext{UserID: id, UserName: c.Name, Roles: c.Roles}, nil
}
