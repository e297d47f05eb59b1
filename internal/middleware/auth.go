package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/surafel-47/blog-mmcy/internal/policy"
	"github.com/surafel-47/blog-mmcy/internal/token"
)

const identityKey = "identity"

// TokenVerifier is the part of token.TokenService the middleware needs.
type TokenVerifier interface {
	ParseAccessToken(raw string) (*token.Claims, error)
}

// Verify resolves an Authorization header value. An absent token yields the
// anonymous identity; a present token that fails verification yields
// token.ErrTokenExpired or token.ErrTokenInvalid.
func Verify(verifier TokenVerifier, header string) (policy.Identity, error) {
	raw := strings.TrimSpace(header)
	if scheme, rest, ok := strings.Cut(raw, " "); ok && strings.EqualFold(scheme, "Bearer") {
		raw = strings.TrimSpace(rest)
	} else if strings.EqualFold(raw, "Bearer") {
		raw = ""
	}
	if raw == "" {
		return policy.Anonymous, nil
	}

	claims, err := verifier.ParseAccessToken(raw)
	if err != nil {
		if errors.Is(err, token.ErrTokenExpired) {
			return policy.Anonymous, token.ErrTokenExpired
		}
		return policy.Anonymous, token.ErrTokenInvalid
	}
	return policy.Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// JWTAuthMiddleware attaches the caller's identity when a valid token is
// presented and lets anonymous requests through. A rejected token ends the
// request with 410.
func JWTAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := Verify(verifier, c.GetHeader("Authorization"))
		if err != nil {
			message := "Invalid token"
			if errors.Is(err, token.ErrTokenExpired) {
				message = "Token has expired"
			}
			c.AbortWithStatusJSON(http.StatusGone, gin.H{
				"success": false,
				"message": message,
			})
			return
		}
		if !identity.IsAnonymous() {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
}

// IdentityFrom returns the identity attached by JWTAuthMiddleware, or
// policy.Anonymous.
func IdentityFrom(c *gin.Context) policy.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(policy.Identity); ok {
			return identity
		}
	}
	return policy.Anonymous
}
