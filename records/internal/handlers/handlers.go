// Package handlers contains the HTTP handlers for the records service.
package handlers

import (
	"net/http"

	"github.com/dialdesk-systems/dialdesk-stack/common/httputil"
	"github.com/dialdesk-systems/dialdesk-stack/common/logging"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/service"
)

type Handler struct {
	svc *service.Service
	log *logging.Logger
}

func New(svc *service.Service, log *logging.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "records",
	})
}
