package middleware

import (
	"context"

	"github.com/dharashakti/backoffice/internal/apiserver/service"
	"github.com/dharashakti/backoffice/internal/auth/jwt"
	"github.com/dharashakti/backoffice/internal/common/cnst"
	"github.com/dharashakti/backoffice/internal/common/errorx"

	"github.com/gin-gonic/gin"
)

// Authenticator checks that a token still belongs to the employee's live
// session
type Authenticator interface {
	Authenticate(ctx context.Context, claims *jwt.Claims) (service.Actor, error)
}

// SessionMiddleware runs after JWTAuthMiddleware. Blocked employees and
// evicted sessions are turned away here, on every request.
func SessionMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abort(c, errorx.ErrUnauthenticated.Clone())
			return
		}

		actor, err := auth.Authenticate(c.Request.Context(), claims)
		if err != nil {
			abort(c, err)
			return
		}

		c.Set(cnst.CtxKeyActor, actor)
		c.Next()
	}
}

// ActorFrom returns the caller. Behind SessionMiddleware it is the verified
// actor; behind JWTAuthMiddleware alone it is built from the token claims.
func ActorFrom(c *gin.Context) (service.Actor, bool) {
	if v, ok := c.Get(cnst.CtxKeyActor); ok {
		if actor, ok := v.(service.Actor); ok {
			return actor, true
		}
	}
	if claims, ok := ClaimsFrom(c); ok {
		return service.ActorFromClaims(claims), true
	}
	return service.Actor{}, false
}
