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

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	created, err := h.svc.CreateUser(r.Context(), &req, user.ID, httputil.GetClientIP(r))
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			httputil.WriteError(w, http.StatusConflict, "username already exists")
			return
		}
		h.log.ErrorContext(r.Context(), "failed to create user", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) CreateOffice(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.CreateOfficeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		httputil.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.AdminID == "" {
		req.AdminID = user.ID
	}

	office, err := h.svc.CreateOffice(r.Context(), &req, user.ID, httputil.GetClientIP(r))
	if err != nil {
		if errors.Is(err, repository.ErrOfficeExists) {
			httputil.WriteError(w, http.StatusConflict, "office name already exists")
			return
		}
		h.log.ErrorContext(r.Context(), "failed to create office", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create office")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, office)
}

func (h *Handler) CreateGrant(w http.ResponseWriter, r *http.Request) {
	officeID := r.PathValue("officeID")
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.CreateGrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.ResourceID == "" {
		httputil.WriteError(w, http.StatusBadRequest, "user_id and resource_id are required")
		return
	}

	grant, err := h.svc.CreateGrant(r.Context(), officeID, &req, user.ID, httputil.GetClientIP(r))
	if err != nil {
		if errors.Is(err, repository.ErrOfficeNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "office not found")
			return
		}
		h.log.ErrorContext(r.Context(), "failed to create grant", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create grant")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, grant)
}

func (h *Handler) CreateEnterprise(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.CreateEnterpriseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OfficeID == "" || req.Name == "" {
		httputil.WriteError(w, http.StatusBadRequest, "office_id and name are required")
		return
	}

	enterprise, err := h.svc.CreateEnterprise(r.Context(), &req, user.ID, httputil.GetClientIP(r))
	if err != nil {
		if errors.Is(err, repository.ErrOfficeNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "office not found")
			return
		}
		h.log.ErrorContext(r.Context(), "failed to create enterprise", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to create enterprise")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, enterprise)
}
