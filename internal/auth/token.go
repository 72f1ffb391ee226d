// Package auth validates access tokens issued by the identity provider
package auth

import (
	"fmt"
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenValidator handles JWT access token validation
type TokenValidator struct {
	secret string
}

// NewTokenValidator creates a new token validator for HS256 tokens signed with secret
func NewTokenValidator(secret string) *TokenValidator {
	return &TokenValidator{
		secret: secret,
	}
}

// GenerateAccessToken creates an access token for the learner.
// The identity provider issues tokens in production, this is used by tooling and tests.
func (tv *TokenValidator) GenerateAccessToken(userID int, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(expiry).Unix(),
		"iat":     time.Now().Unix(),
		"type":    "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(tv.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken validates an access token and returns the learner ID
func (tv *TokenValidator) ValidateAccessToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(tv.secret), nil
	})

	if err != nil {
		return 0, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return 0, fmt.Errorf("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	// Check token type
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != "access" {
		return 0, fmt.Errorf("token is not an access token")
	}

	// JWT claims decode numbers as float64
	userID, ok := claims["user_id"].(float64)
	if !ok {
		return 0, fmt.Errorf("user_id not found in token")
	}
	if userID <= 0 || userID != math.Trunc(userID) || userID > math.MaxInt32 {
		return 0, fmt.Errorf("invalid user_id in token")
	}

	return int(userID), nil
}
