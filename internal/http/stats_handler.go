package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/service"
)

// StatsHandler serves the dashboard summary and the delete-policy metadata.
type StatsHandler struct {
	svc    *service.StatsService
	logger *zap.Logger
}

func NewStatsHandler(svc *service.StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{svc: svc, logger: logger}
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/admin/api/v1/stats" && r.Method == http.MethodGet:
		h.getStats(w, r)
	case r.URL.Path == "/admin/api/v1/meta/delete-policies" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, Ok(service.DeleteRules()))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *StatsHandler) getStats(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh") == "true"
	stats, err := h.svc.GetStats(r.Context(), refresh)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(stats))
}
