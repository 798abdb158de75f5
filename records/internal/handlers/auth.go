package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dialdesk-systems/dialdesk-stack/common/httputil"
	"github.com/dialdesk-systems/dialdesk-stack/common/logging"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		httputil.WriteError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	resp, err := h.svc.Login(r.Context(), &req, httputil.GetClientIP(r))
	if err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.log.InfoContext(r.Context(), "user logged in",
		logging.Username(req.Username),
		logging.IP(httputil.GetClientIP(r)),
	)
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req models.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RefreshToken == "" {
		httputil.WriteError(w, http.StatusBadRequest, "refresh_token is required")
		return
	}

	resp, err := h.svc.Refresh(r.Context(), req.RefreshToken, httputil.GetClientIP(r))
	if err != nil {
		httputil.WriteError(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var req models.ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Token == "" {
		httputil.WriteError(w, http.StatusBadRequest, "token is required")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, h.svc.Validate(r.Context(), req.Token))
}
