package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/campusdesk/campusdesk/internal/common"
	"github.com/campusdesk/campusdesk/internal/httpx"
	"github.com/campusdesk/campusdesk/internal/logging"
	"github.com/campusdesk/campusdesk/internal/server/auth"
)

const (
	msgAuthRequired = "Authentication required."
	msgTokenExpired = "Session expired."
)

// TokenVerifier validates session tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type claimsKey struct{}

// ClaimsFromContext returns the claims stored by RequireBearer.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// RequireBearer rejects requests without a valid "Authorization: Bearer"
// token with 401.
func RequireBearer(v TokenVerifier, l logging.Logger) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get(common.AuthorizationHeaderName)
			if !strings.HasPrefix(h, common.BearerPrefix) {
				httpx.WriteError(w, http.StatusUnauthorized, msgAuthRequired)
				return
			}

			claims, err := v.Verify(strings.TrimSpace(strings.TrimPrefix(h, common.BearerPrefix)))
			if err != nil {
				l.Debug(r.Context(), "bearer token rejected", "error", err)
				if errors.Is(err, common.ErrTokenExpired) {
					httpx.WriteError(w, http.StatusUnauthorized, msgTokenExpired)
					return
				}
				httpx.WriteError(w, http.StatusUnauthorized, msgAuthRequired)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
