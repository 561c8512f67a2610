package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/01moynul/reboot-golang/internal/models"
	"github.com/01moynul/reboot-golang/internal/store"
)

// TokenTTL is how long an issued access token stays valid.
const TokenTTL = 72 * time.Hour

var (
	ErrUnknownUser  = errors.New("auth: no user with that email")
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrExpiredToken = errors.New("auth: token expired")
)

// Claims is the payload of an access token.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// UserLookup is the slice of the user repository the token service needs.
type UserLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// TokenService signs and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
	users  UserLookup
	now    func() time.Time
}

// NewTokenService returns a TokenService signing with secret. An empty secret is rejected.
func NewTokenService(secret string, users UserLookup) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: empty signing secret")
	}
	return &TokenService{secret: []byte(secret), users: users, now: time.Now}, nil
}

// WithClock replaces the clock used for iat/exp and for expiry checks.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// IssueToken signs a token for the user registered under email.
func (s *TokenService) IssueToken(ctx context.Context, email string) (string, error) {
	// 1. --- Find the User ---
	if _, err := s.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUnknownUser
		}
		return "", fmt.Errorf("lookup user: %w", err)
	}

	// 2. --- Build the Claims ---
	issuedAt := s.now()
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(TokenTTL)),
		},
	}

	// 3. --- Sign ---
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses tokenString and returns its claims.
// Expired tokens yield ErrExpiredToken; every other failure yields ErrInvalidToken.
func (s *TokenService) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
