package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/repository"
	"github.com/namenice/kamui/internal/service"
)

// InterfacesHandler serves interface connections.
type InterfacesHandler struct {
	svc    *service.InterfaceService
	logger *zap.Logger
}

func NewInterfacesHandler(svc *service.InterfaceService, logger *zap.Logger) *InterfacesHandler {
	return &InterfacesHandler{svc: svc, logger: logger}
}

func (h *InterfacesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const base = "/admin/api/v1/interfaces"
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

func (h *InterfacesHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.InterfaceFilter{
		Search:            strings.TrimSpace(q.Get("search")),
		HardwareID:        strings.TrimSpace(q.Get("hardwareId")),
		ConnectedSwitchID: strings.TrimSpace(q.Get("connectedSwitchId")),
	}
	page, err := h.svc.ListInterfaces(r.Context(), f, listOptionsFromReq(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *InterfacesHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	conn, err := h.svc.GetInterface(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(conn))
}

func (h *InterfacesHandler) create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateInterfaceInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	conn, err := h.svc.CreateInterface(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(conn))
}

func (h *InterfacesHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var in service.UpdateInterfaceInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	conn, err := h.svc.UpdateInterface(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(conn))
}

func (h *InterfacesHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.DeleteInterface(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}
