package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("no token provided")
	ErrInvalidToken = errors.New("invalid token")
)

const defaultIssuer = "okrtracker"

// Claims identify the company a bearer token was minted for.
type Claims struct {
	CompanyID string `json:"companyID"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 bearer tokens. Tokens are not stored
// anywhere; expiry is the only way a token stops being valid.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

type TokenOption func(*TokenManager)

// WithClock replaces the wall clock used for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		tm.now = now
	}
}

func WithIssuer(issuer string) TokenOption {
	return func(tm *TokenManager) {
		tm.issuer = issuer
	}
}

func NewTokenManager(secret string, ttl time.Duration, opts ...TokenOption) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	tm := &TokenManager{
		secret: []byte(secret),
		issuer: defaultIssuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(tm)
	}
	return tm, nil
}

func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue signs a token for the company that expires after the configured ttl.
func (tm *TokenManager) Issue(companyID, email string) (string, time.Time, error) {
	if companyID == "" {
		return "", time.Time{}, errors.New("company id is required")
	}

	now := tm.now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		CompanyID: companyID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   companyID,
			Issuer:    tm.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, issuer and expiry. Every failure wraps ErrInvalidToken.
func (tm *TokenManager) Verify(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tm.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(tm.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.CompanyID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractBearerToken returns the token from an "Authorization: Bearer <token>" header value.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrNoToken
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", fmt.Errorf("%w: malformed authorization header", ErrInvalidToken)
	}
	return parts[1], nil
}
