// Package security provides bearer token authentication and request validation
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/weeklydish/planner/internal/infrastructure/config"
	"go.uber.org/zap"
)

// TokenType distinguishes token purposes
type TokenType string

const (
	AccessToken TokenType = "access"
)

const audience = "weeklydish-api"

var (
	// ErrInvalidToken covers malformed, expired and wrongly signed tokens
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingSubject is returned for tokens without a user id
	ErrMissingSubject = errors.New("token has no user id")
)

// Claims represents JWT claims structure
type Claims struct {
	UserID    string    `json:"user_id"`
	TokenType TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// AuthService issues and validates HS256 bearer tokens
type AuthService struct {
	issuer     string
	expiration time.Duration
	jwtSecret  []byte
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(cfg config.AuthConfig, logger *zap.Logger) *AuthService {
	expiration := cfg.JWTExpiration
	if expiration <= 0 {
		expiration = time.Hour
	}
	return &AuthService{
		issuer:     cfg.Issuer,
		expiration: expiration,
		jwtSecret:  []byte(cfg.JWTSecret),
		logger:     logger.Named("auth"),
		now:        time.Now,
	}
}

// GenerateAccessToken creates a new access token for userID
func (a *AuthService) GenerateAccessToken(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, ErrMissingSubject
	}

	now := a.now()
	expiresAt := now.Add(a.expiration)
	claims := &Claims{
		UserID:    userID,
		TokenType: AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   userID,
			Audience:  []string{audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(a.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates and parses an access token
func (a *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithAudience(audience),
		jwt.WithTimeFunc(a.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.jwtSecret, nil
	}, opts...)
	if err != nil {
		a.logger.Debug("Token rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.TokenType != AccessToken {
		return nil, fmt.Errorf("%w: unexpected token type %q", ErrInvalidToken, claims.TokenType)
	}
	if claims.UserID == "" {
		return nil, ErrMissingSubject
	}

	return claims, nil
}
