package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/repository"
	"github.com/namenice/kamui/internal/service"
)

// TenancyHandler serves tenant groups and tenants.
type TenancyHandler struct {
	svc    *service.TenancyService
	logger *zap.Logger
}

func NewTenancyHandler(svc *service.TenancyService, logger *zap.Logger) *TenancyHandler {
	return &TenancyHandler{svc: svc, logger: logger}
}

func (h *TenancyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasPrefix(r.URL.Path, "/admin/api/v1/tenant-groups"):
		h.serveGroups(w, r)
	case strings.HasPrefix(r.URL.Path, "/admin/api/v1/tenants"):
		h.serveTenants(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *TenancyHandler) serveGroups(w http.ResponseWriter, r *http.Request) {
	const base = "/admin/api/v1/tenant-groups"
	switch {
	case r.URL.Path == base && r.Method == http.MethodGet:
		h.listGroups(w, r)
	case r.URL.Path == base && r.Method == http.MethodPost:
		h.createGroup(w, r)
	default:
		id, ok := pathID(r.URL.Path, base+"/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.getGroup(w, r, id)
		case http.MethodPut, http.MethodPatch:
			h.updateGroup(w, r, id)
		case http.MethodDelete:
			h.deleteGroup(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func (h *TenancyHandler) listGroups(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.TenantGroupFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Name:   strings.TrimSpace(q.Get("name")),
	}
	page, err := h.svc.ListTenantGroups(r.Context(), f, listOptionsFromReq(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *TenancyHandler) getGroup(w http.ResponseWriter, r *http.Request, id string) {
	group, err := h.svc.GetTenantGroup(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(group))
}

func (h *TenancyHandler) createGroup(w http.ResponseWriter, r *http.Request) {
	var in service.CreateTenantGroupInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	group, err := h.svc.CreateTenantGroup(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(group))
}

func (h *TenancyHandler) updateGroup(w http.ResponseWriter, r *http.Request, id string) {
	var in service.UpdateTenantGroupInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	group, err := h.svc.UpdateTenantGroup(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(group))
}

func (h *TenancyHandler) deleteGroup(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.DeleteTenantGroup(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

func (h *TenancyHandler) serveTenants(w http.ResponseWriter, r *http.Request) {
	const base = "/admin/api/v1/tenants"
	switch {
	case r.URL.Path == base && r.Method == http.MethodGet:
		h.listTenants(w, r)
	case r.URL.Path == base && r.Method == http.MethodPost:
		h.createTenant(w, r)
	default:
		id, ok := pathID(r.URL.Path, base+"/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.getTenant(w, r, id)
		case http.MethodPut, http.MethodPatch:
			h.updateTenant(w, r, id)
		case http.MethodDelete:
			h.deleteTenant(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func (h *TenancyHandler) listTenants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.TenantFilter{
		Search:        strings.TrimSpace(q.Get("search")),
		Name:          strings.TrimSpace(q.Get("name")),
		TenantGroupID: strings.TrimSpace(q.Get("tenantGroupId")),
	}
	page, err := h.svc.ListTenants(r.Context(), f, listOptionsFromReq(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *TenancyHandler) getTenant(w http.ResponseWriter, r *http.Request, id string) {
	tenant, err := h.svc.GetTenant(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(tenant))
}

func (h *TenancyHandler) createTenant(w http.ResponseWriter, r *http.Request) {
	var in service.CreateTenantInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	tenant, err := h.svc.CreateTenant(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(tenant))
}

func (h *TenancyHandler) updateTenant(w http.ResponseWriter, r *http.Request, id string) {
	var in service.UpdateTenantInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	tenant, err := h.svc.UpdateTenant(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(tenant))
}

func (h *TenancyHandler) deleteTenant(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.DeleteTenant(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
