package middleware

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/dialdesk-systems/dialdesk-stack/common/httputil"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/metrics"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
)

// Check inspects the authenticated user and reports whether the request may
// proceed. A failed check returns a human-readable denial reason.
type Check func(user *models.User, r *http.Request) (bool, string)

// Authenticated passes for any signed-in user. It exists so a policy entry
// can be explicit about requiring nothing beyond a valid token.
func Authenticated() Check {
	return func(user *models.User, _ *http.Request) (bool, string) {
		if user == nil {
			return false, "authentication required"
		}
		return true, ""
	}
}

// Role passes when the user holds any of the given roles. Superusers always
// pass.
func Role(roles ...models.Role) Check {
	return func(user *models.User, _ *http.Request) (bool, string) {
		if user == nil {
			return false, "authentication required"
		}
		if user.Superuser {
			return true, ""
		}
		for _, role := range roles {
			if user.HasRole(string(role)) {
				return true, ""
			}
		}
		return false, fmt.Sprintf("one of roles %v required", roles)
	}
}

// Permission passes when the user holds the given "resource:action"
// permission through any role.
func Permission(permission string) Check {
	return func(user *models.User, _ *http.Request) (bool, string) {
		if user == nil {
			return false, "authentication required"
		}
		if !user.Can(permission) {
			return false, fmt.Sprintf("%s permission required", permission)
		}
		return true, ""
	}
}

// OfficeMember passes when the user has any access relationship to the
// office named by the request's officeID path segment: superuser, office
// administrator, or holder of at least one active grant there. A missing
// office passes the check so the handler can answer 404 rather than leaking
// a 403.
func (m *AuthMiddleware) OfficeMember() Check {
	return func(user *models.User, r *http.Request) (bool, string) {
		if user == nil {
			return false, "authentication required"
		}
		officeID := r.PathValue("officeID")
		if officeID == "" {
			return false, "office scope required"
		}

		member, err := m.svc.IsOfficeMember(r.Context(), user, officeID)
		if err != nil {
			return true, ""
		}
		if !member {
			return false, "office membership required"
		}
		return true, ""
	}
}

// Policy maps an HTTP method to the ordered list of checks requests with
// that method must pass. Methods absent from the map are rejected with 405
// rather than falling back to a default.
type Policy map[string][]Check

// Method wires a per-verb policy in front of a handler. Every listed check
// must pass, in order; the first failure ends the request. An unmapped verb
// yields 405 with an Allow header naming the mapped verbs.
func (m *AuthMiddleware) Method(policy Policy) func(http.HandlerFunc) http.HandlerFunc {
	allowed := make([]string, 0, len(policy))
	for method := range policy {
		allowed = append(allowed, method)
	}
	sort.Strings(allowed)

	return func(next http.HandlerFunc) http.HandlerFunc {
		return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
			checks, ok := policy[r.Method]
			if !ok {
				httputil.WriteMethodNotAllowed(w, allowed...)
				return
			}

			user := UserFromContext(r.Context())
			for _, check := range checks {
				if passed, reason := check(user, r); !passed {
					metrics.PermissionDenials.WithLabelValues(r.URL.Path).Inc()
					m.svc.LogDenied(r.Context(), user, r.URL.Path, reason, httputil.GetClientIP(r))
					httputil.WriteError(w, http.StatusForbidden, reason)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
