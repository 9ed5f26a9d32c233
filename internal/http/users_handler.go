package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/repository"
	"github.com/namenice/kamui/internal/service"
)

// UsersHandler serves operator accounts.
type UsersHandler struct {
	svc    *service.UserService
	logger *zap.Logger
}

func NewUsersHandler(svc *service.UserService, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{svc: svc, logger: logger}
}

func (h *UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const base = "/admin/api/v1/users"
	switch {
	case r.URL.Path == base && r.Method == http.MethodGet:
		h.list(w, r)
	case r.URL.Path == base && r.Method == http.MethodPost:
		h.create(w, r)
	default:
		id, ok := pathID(r.URL.Path, base+"/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodPut, http.MethodPatch:
			h.update(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.UserFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Role:   strings.TrimSpace(q.Get("role")),
		Status: strings.TrimSpace(q.Get("status")),
	}
	page, err := h.svc.ListUsers(r.Context(), f, listOptionsFromReq(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *UsersHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	user, err := h.svc.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(user))
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateUserInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	user, err := h.svc.CreateUser(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(user))
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var in service.UpdateUserInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	user, err := h.svc.UpdateUser(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(user))
}

func (h *UsersHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.DeleteUser(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
