package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/domain"
	"github.com/namenice/kamui/internal/repository"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the domain taxonomy to HTTP statuses. Anything outside the
// taxonomy is an internal error: logged in full, reported opaquely.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case domain.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, Fail(err.Error()))
	case domain.IsConflict(err):
		writeJSON(w, http.StatusConflict, Fail(err.Error()))
	case domain.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, Fail(err.Error()))
	default:
		logger.Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
	}
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func readBodyJSON(r *http.Request, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return domain.Invalid("invalid request body")
	}
	return nil
}

// listOptionsFromReq reads the shared pagination and sorting query params.
// Garbage values fall back to defaults downstream.
func listOptionsFromReq(r *http.Request) repository.ListOptions {
	q := r.URL.Query()
	return repository.ListOptions{
		Page:      parseInt(q.Get("page"), 0),
		Limit:     parseInt(q.Get("limit"), 0),
		SortBy:    strings.TrimSpace(q.Get("sortBy")),
		SortOrder: strings.TrimSpace(q.Get("sortOrder")),
	}
}

// pathID extracts the trailing id segment after prefix, rejecting nested paths.
func pathID(path, prefix string) (string, bool) {
	id := strings.TrimPrefix(path, prefix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
