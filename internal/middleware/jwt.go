package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sams-api/internal/models"
	appErrors "github.com/noah-isme/sams-api/pkg/errors"
	"github.com/noah-isme/sams-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	ValidateToken(ctx context.Context, token string) (*models.JWTClaims, error)
}

// TokenRenewer signs a fresh token for an authenticated identity.
type TokenRenewer interface {
	Renew(claims *models.JWTClaims) (string, error)
}

// Auth protects routes by requiring a valid bearer token. When roles are
// given the caller's role must be one of them.
func Auth(verifier TokenVerifier, roles ...models.UserRole) gin.HandlerFunc {
	allowed := roleSet(roles)
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Abort(c, appErrors.ErrUnauthorized)
			return
		}

		claims, err := verifier.ValidateToken(c.Request.Context(), token)
		if err != nil {
			response.Abort(c, err)
			return
		}
		c.Set(ContextUserKey, claims)

		if !allowed.permits(claims.Role) {
			response.Abort(c, appErrors.ErrForbiddenRole)
			return
		}
		c.Next()
	}
}

// RenewToken re-signs the caller's token and exposes it in header.
// Renewal failures never fail the request.
func RenewToken(renewer TokenRenewer, header string) gin.HandlerFunc {
	if header == "" {
		header = "X-Renewed-Token"
	}
	return func(c *gin.Context) {
		if claims, ok := CurrentUser(c); ok {
			if token, err := renewer.Renew(claims); err == nil {
				c.Header(header, token)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the claims attached by Auth.
func CurrentUser(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
