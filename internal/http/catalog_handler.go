package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/repository"
	"github.com/namenice/kamui/internal/service"
)

// CatalogHandler serves hardware types and hardware infos.
type CatalogHandler struct {
	svc    *service.CatalogService
	logger *zap.Logger
}

func NewCatalogHandler(svc *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{svc: svc, logger: logger}
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasPrefix(r.URL.Path, "/admin/api/v1/hardware-types"):
		h.serveTypes(w, r)
	case strings.HasPrefix(r.URL.Path, "/admin/api/v1/hardware-infos"):
		h.serveInfos(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *CatalogHandler) serveTypes(w http.ResponseWriter, r *http.Request) {
	const base = "/admin/api/v1/hardware-types"
	switch {
	case r.URL.Path == base && r.Method == http.MethodGet:
		h.listTypes(w, r)
	case r.URL.Path == base && r.Method == http.MethodPost:
		h.createType(w, r)
	case strings.HasSuffix(r.URL.Path, "/can-delete") && r.Method == http.MethodGet:
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, base+"/"), "/can-delete")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.canDelete(w, r, "hardwareType", id)
	default:
		id, ok := pathID(r.URL.Path, base+"/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.getType(w, r, id)
		case http.MethodPut, http.MethodPatch:
			h.updateType(w, r, id)
		case http.MethodDelete:
			h.deleteType(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func (h *CatalogHandler) listTypes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.HardwareTypeFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		Name:     strings.TrimSpace(q.Get("name")),
		Category: strings.TrimSpace(q.Get("category")),
	}
	page, err := h.svc.ListHardwareTypes(r.Context(), f, listOptionsFromReq(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *CatalogHandler) getType(w http.ResponseWriter, r *http.Request, id string) {
	t, err := h.svc.GetHardwareType(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(t))
}

func (h *CatalogHandler) createType(w http.ResponseWriter, r *http.Request) {
	var in service.CreateHardwareTypeInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	t, err := h.svc.CreateHardwareType(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(t))
}

func (h *CatalogHandler) updateType(w http.ResponseWriter, r *http.Request, id string) {
	var in service.UpdateHardwareTypeInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	t, err := h.svc.UpdateHardwareType(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(t))
}

func (h *CatalogHandler) deleteType(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.DeleteHardwareType(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

func (h *CatalogHandler) serveInfos(w http.ResponseWriter, r *http.Request) {
	const base = "/admin/api/v1/hardware-infos"
	switch {
	case r.URL.Path == base && r.Method == http.MethodGet:
		h.listInfos(w, r)
	case r.URL.Path == base && r.Method == http.MethodPost:
		h.createInfo(w, r)
	case strings.HasSuffix(r.URL.Path, "/can-delete") && r.Method == http.MethodGet:
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, base+"/"), "/can-delete")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.canDelete(w, r, "hardwareInfo", id)
	default:
		id, ok := pathID(r.URL.Path, base+"/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.getInfo(w, r, id)
		case http.MethodPut, http.MethodPatch:
			h.updateInfo(w, r, id)
		case http.MethodDelete:
			h.deleteInfo(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func (h *CatalogHandler) listInfos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.HardwareInfoFilter{
		Search:         strings.TrimSpace(q.Get("search")),
		Manufacturer:   strings.TrimSpace(q.Get("manufacturer")),
		Model:          strings.TrimSpace(q.Get("model")),
		HardwareTypeID: strings.TrimSpace(q.Get("hardwareTypeId")),
	}
	page, err := h.svc.ListHardwareInfos(r.Context(), f, listOptionsFromReq(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *CatalogHandler) getInfo(w http.ResponseWriter, r *http.Request, id string) {
	info, err := h.svc.GetHardwareInfo(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(info))
}

func (h *CatalogHandler) createInfo(w http.ResponseWriter, r *http.Request) {
	var in service.CreateHardwareInfoInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	info, err := h.svc.CreateHardwareInfo(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(info))
}

func (h *CatalogHandler) updateInfo(w http.ResponseWriter, r *http.Request, id string) {
	var in service.UpdateHardwareInfoInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	info, err := h.svc.UpdateHardwareInfo(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(info))
}

// canDelete answers GET .../{id}/can-delete with the restrict-edge verdict.
func (h *CatalogHandler) canDelete(w http.ResponseWriter, r *http.Request, kind, id string) {
	allowed, dependents, err := h.svc.CanDelete(r.Context(), kind, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(map[string]any{
		"allowed":    allowed,
		"dependents": dependents,
	}))
}

func (h *CatalogHandler) deleteInfo(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.DeleteHardwareInfo(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
