package mw

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"repair-shop-backend/internal/apperr"
	"repair-shop-backend/internal/auth"
)

const principalKey = "mw.principal"

var (
	ErrNoToken          = apperr.Authentication("Unauthorized: No token provided")
	ErrInvalidToken     = apperr.Authorization("Forbidden: Invalid token")
	ErrInsufficientRole = apperr.Authorization("Forbidden: Insufficient permissions")
	errServer           = &apperr.Error{Kind: apperr.KindServer, Message: "Server error"}
)

func abort(c *gin.Context, err *apperr.Error) {
	c.AbortWithStatusJSON(err.Kind.Status(), gin.H{"error": err.Message})
}

// Principal is the caller of an authenticated request.
type Principal struct {
	UserID   int64
	FullName string
	Role     auth.Role
	TokenID  string
}

// Verifier checks session tokens and resolves the caller's current role.
type Verifier interface {
	Verify(ctx context.Context, raw string) (*auth.Claims, error)
	ResolveRole(ctx context.Context, userID int64) (auth.Role, error)
}

// TokenFromRequest reads the session token from the cookie, falling back to an
// "Authorization: Bearer" header.
func TokenFromRequest(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// Authenticate rejects requests without a valid session token and stores the
// caller with a freshly resolved role in the context.
func Authenticate(v Verifier, cookieName string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := TokenFromRequest(c, cookieName)
		if raw == "" {
			abort(c, ErrNoToken)
			return
		}

		claims, err := v.Verify(c.Request.Context(), raw)
		if err != nil {
			if auth.IsInvalidToken(err) {
				abort(c, ErrInvalidToken)
				return
			}
			log.Error("token verification failed", zap.Error(err))
			abort(c, errServer)
			return
		}

		role, err := v.ResolveRole(c.Request.Context(), claims.UserID)
		if err != nil {
			log.Error("role lookup failed", zap.Int64("user_id", claims.UserID), zap.Error(err))
			abort(c, errServer)
			return
		}

		c.Set(principalKey, &Principal{
			UserID:   claims.UserID,
			FullName: claims.FullName,
			Role:     role,
			TokenID:  claims.ID,
		})
		c.Next()
	}
}

// RequireRole lets the request through only when the caller's role is one of allowed.
func RequireRole(allowed ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			abort(c, ErrNoToken)
			return
		}
		if !p.Role.In(allowed...) {
			abort(c, ErrInsufficientRole)
			return
		}
		c.Next()
	}
}

// CurrentPrincipal returns the caller stored by Authenticate.
func CurrentPrincipal(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok
}
