package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of a session token.
const TokenTTL = time.Hour

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// IssueToken signs a session token carrying the user id.
func IssueToken(secret, userID string) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
		UserID: userID,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(secret))
}

// VerifyToken validates signature and expiry and returns the embedded user id.
func VerifyToken(secret, raw string) (string, error) {
	claims := &sessionClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || tok == nil || !tok.Valid {
		return "", E(CodeUnauthorized, "VerifyToken", "invalid token", err)
	}
	if claims.UserID == "" {
		return "", E(CodeUnauthorized, "VerifyToken", "missing userId claim", nil)
	}
	return claims.UserID, nil
}
