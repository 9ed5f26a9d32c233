package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthHandler answers liveness probes with a database ping.
type HealthHandler struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewHealthHandler(db *sql.DB, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("health check: database unreachable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, Fail("database unreachable"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
}
