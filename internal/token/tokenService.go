package token

import "time"

type TokenService interface {
	GenerateRandomRefreshToken(length int) (raw string, hash []byte, err error)
	HashRefreshToken(raw string) []byte
	GenerateAccessToken(userID uint, role string, ttl time.Duration) (string, error)
	// ParseAccessToken verifies signature and expiry and returns the claims.
	// Errors are ErrTokenExpired or ErrTokenInvalid.
	ParseAccessToken(raw string) (*Claims, error)
}
