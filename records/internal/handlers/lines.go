package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dialdesk-systems/dialdesk-stack/common/httputil"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/middleware"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/repository"
)

// Lines dispatches GET (list) and POST (create) on the office lines
// collection. Method selection happens in the policy middleware; by the time
// a request lands here its verb is one of the two.
func (h *Handler) Lines(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listLines(w, r)
	case http.MethodPost:
		h.createLine(w, r)
	default:
		httputil.WriteMethodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *Handler) listLines(w http.ResponseWriter, r *http.Request) {
	officeID := r.PathValue("officeID")
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	lines, err := h.svc.ListOfficeLines(r.Context(), user, officeID, httputil.GetClientIP(r))
	if err != nil {
		if errors.Is(err, repository.ErrOfficeNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "office not found")
			return
		}
		h.log.ErrorContext(r.Context(), "failed to list lines", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to list lines")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, &models.LineListResponse{
		OfficeID: officeID,
		Lines:    lines,
	})
}

func (h *Handler) createLine(w http.ResponseWriter, r *http.Request) {
	officeID := r.PathValue("officeID")
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.CreateLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Number == "" {
		httputil.WriteError(w, http.StatusBadRequest, "name and number are required")
		return
	}

	line, err := h.svc.CreateLine(r.Context(), officeID, &req, user.ID, httputil.GetClientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOfficeNotFound):
			httputil.WriteError(w, http.StatusNotFound, "office not found")
		case errors.Is(err, repository.ErrLineExists):
			httputil.WriteError(w, http.StatusConflict, "line number already exists in office")
		default:
			h.log.ErrorContext(r.Context(), "failed to create line", "error", err)
			httputil.WriteError(w, http.StatusInternalServerError, "failed to create line")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, line)
}
