// Package server wires handlers, middleware and the HTTP mux together.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	commonmw "github.com/dialdesk-systems/dialdesk-stack/common/middleware"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/handlers"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/middleware"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
)

// NewRouter constructs the records service mux. Policy-guarded routes are
// registered without a method pattern so the per-verb policy performs method
// selection and answers unmapped verbs with 405.
func NewRouter(h *handlers.Handler, auth *middleware.AuthMiddleware) http.Handler {
	mux := http.NewServeMux()

	// Authentication endpoints, no token required.
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", h.Refresh)
	mux.HandleFunc("POST /api/v1/auth/validate", h.Validate)

	// Office lines: readers list, operators create.
	mux.HandleFunc("/api/v1/offices/{officeID}/lines", auth.Method(middleware.Policy{
		http.MethodGet:  {middleware.Permission("lines:read")},
		http.MethodPost: {middleware.Permission("lines:create")},
	})(h.Lines))

	// Enterprise history feed and record ingest.
	mux.HandleFunc("/api/v1/enterprises/{enterpriseID}/history", auth.Method(middleware.Policy{
		http.MethodGet: {middleware.Permission("history:read")},
	})(h.History))
	mux.HandleFunc("/api/v1/enterprises/{enterpriseID}/records", auth.Method(middleware.Policy{
		http.MethodPost: {middleware.Permission("history:write")},
	})(h.IngestRecord))

	// Admin surface.
	mux.HandleFunc("/api/v1/offices", auth.Method(middleware.Policy{
		http.MethodPost: {middleware.Permission("offices:create")},
	})(h.CreateOffice))
	mux.HandleFunc("/api/v1/offices/{officeID}/grants", auth.Method(middleware.Policy{
		http.MethodPost: {middleware.Role(models.RoleAdmin), auth.OfficeMember(), middleware.Permission("grants:create")},
	})(h.CreateGrant))
	mux.HandleFunc("/api/v1/enterprises", auth.Method(middleware.Policy{
		http.MethodPost: {middleware.Permission("enterprises:create")},
	})(h.CreateEnterprise))
	mux.HandleFunc("/api/v1/users", auth.Method(middleware.Policy{
		http.MethodPost: {middleware.Role(models.RoleAdmin), middleware.Permission("users:create")},
	})(h.CreateUser))

	// Operational endpoints.
	mux.HandleFunc("GET /healthz", h.HealthCheck)
	mux.Handle("GET /metrics", promhttp.Handler())

	return commonmw.RequestID(commonmw.CORS(commonmw.DefaultCORSConfig())(observeRequests(mux)))
}
