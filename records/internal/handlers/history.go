package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dialdesk-systems/dialdesk-stack/common/httputil"
	"github.com/dialdesk-systems/dialdesk-stack/common/logging"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/metrics"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/middleware"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/models"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/repository"
	"github.com/dialdesk-systems/dialdesk-stack/records/internal/service"
)

// History returns the merged record feed for an enterprise, newest first.
// date_start and date_end narrow the window only when both are present.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	enterpriseID := r.PathValue("enterpriseID")

	dateStart, err := httputil.ParseTimeParam(r.URL.Query().Get("date_start"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid date_start")
		return
	}
	dateEnd, err := httputil.ParseTimeParam(r.URL.Query().Get("date_end"))
	if err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid date_end")
		return
	}

	filter := repository.HistoryFilter{DateStart: dateStart, DateEnd: dateEnd}

	user := middleware.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	items, err := h.svc.EnterpriseHistory(r.Context(), enterpriseID, filter, user.ID, httputil.GetClientIP(r))
	if err != nil {
		if errors.Is(err, repository.ErrEnterpriseNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "enterprise not found")
			return
		}
		h.log.ErrorContext(r.Context(), "failed to assemble history", "error", err)
		httputil.WriteError(w, http.StatusInternalServerError, "failed to assemble history")
		return
	}

	history := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		wrapped, err := item.Wrap()
		if err != nil {
			// Items with no recognizable kind are logged and dropped
			// rather than rendered as null.
			metrics.HistoryUnknownKinds.Inc()
			h.log.WarnContext(r.Context(), "dropping history item of unknown kind",
				logging.EnterpriseID(enterpriseID),
				logging.Error(err),
			)
			continue
		}
		history = append(history, wrapped)
	}

	httputil.WriteJSON(w, http.StatusOK, &models.HistoryResponse{
		EnterpriseID: enterpriseID,
		Count:        len(history),
		History:      history,
	})
}

// IngestRecord accepts one tagged record body and appends it to the
// enterprise feed.
func (h *Handler) IngestRecord(w http.ResponseWriter, r *http.Request) {
	enterpriseID := r.PathValue("enterpriseID")
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		httputil.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req models.IngestRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.svc.AddRecord(r.Context(), enterpriseID, &req, user.ID, httputil.GetClientIP(r))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEnterpriseNotFound):
			httputil.WriteError(w, http.StatusNotFound, "enterprise not found")
		case errors.Is(err, service.ErrEmptyRecord):
			httputil.WriteError(w, http.StatusBadRequest, "request must carry exactly one record")
		default:
			h.log.ErrorContext(r.Context(), "failed to ingest record", "error", err)
			httputil.WriteError(w, http.StatusInternalServerError, "failed to ingest record")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, item)
}
