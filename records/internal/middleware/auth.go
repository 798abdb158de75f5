package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dialdesk-systems/dialdesk-stack/common/httputil"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/cache"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/metrics"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/service"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	UserKey   contextKey = "user"
)

// UserFromContext retrieves the authenticated user placed by RequireAuth.
func UserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

type AuthMiddleware struct {
	svc        *service.Service
	tokenCache *cache.TokenCache
}

func NewAuthMiddleware(svc *service.Service, tokenCache *cache.TokenCache) *AuthMiddleware {
	return &AuthMiddleware{
		svc:        svc,
		tokenCache: tokenCache,
	}
}

// RequireAuth validates the bearer token, loads the user and stores it in the
// request context. Validation results are cached when a token cache is
// configured.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			httputil.WriteError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			httputil.WriteError(w, http.StatusUnauthorized, "invalid authorization header")
			return
		}
		token := parts[1]

		resp, err := m.tokenCache.Get(r.Context(), token)
		if err != nil {
			// Any cache error counts as a miss; validation happens
			// locally either way.
			metrics.TokenCacheMisses.Inc()
			resp = m.svc.Validate(r.Context(), token)
			if resp.Valid {
				_ = m.tokenCache.Set(r.Context(), token, resp)
			}
		} else {
			metrics.TokenCacheHits.Inc()
		}

		if !resp.Valid {
			httputil.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		user, err := m.svc.GetUser(r.Context(), resp.UserID)
		if err != nil {
			httputil.WriteError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		if !user.IsActive() {
			httputil.WriteError(w, http.StatusUnauthorized, "account disabled")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, user.ID)
		ctx = context.WithValue(ctx, UserKey, user)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
