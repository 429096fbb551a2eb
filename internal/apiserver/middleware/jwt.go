package middleware

import (
	"strings"

	"github.com/dharashakti/backoffice/internal/auth/jwt"
	"github.com/dharashakti/backoffice/internal/common/cnst"
	"github.com/dharashakti/backoffice/internal/common/errorx"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware validates the bearer token signature and stores its
// claims. It does not look at the session registry.
func JWTAuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(cnst.HeaderAuthorization))
		if !ok {
			abort(c, errorx.ErrUnauthenticated.Clone().WithDetail("reason", "missing bearer token"))
			return
		}

		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			abort(c, errorx.ErrUnauthenticated.Clone().WithCause(err))
			return
		}

		c.Set(cnst.CtxKeyClaims, claims)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// ClaimsFrom returns the claims stored by JWTAuthMiddleware
func ClaimsFrom(c *gin.Context) (*jwt.Claims, bool) {
	v, ok := c.Get(cnst.CtxKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok && claims != nil
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
