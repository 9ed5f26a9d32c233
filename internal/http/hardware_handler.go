package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/repository"
	"github.com/namenice/kamui/internal/service"
)

// HardwareHandler serves physical inventory items, including the Excel
// export of the full inventory.
type HardwareHandler struct {
	svc    *service.HardwareService
	logger *zap.Logger
}

func NewHardwareHandler(svc *service.HardwareService, logger *zap.Logger) *HardwareHandler {
	return &HardwareHandler{svc: svc, logger: logger}
}

func (h *HardwareHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const base = "/admin/api/v1/hardwares"
	switch {
	case r.URL.Path == base && r.Method == http.MethodGet:
		h.list(w, r)
	case r.URL.Path == base && r.Method == http.MethodPost:
		h.create(w, r)
	case r.URL.Path == base+"/export" && r.Method == http.MethodGet:
		h.export(w, r)
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

func hardwareFilterFromReq(r *http.Request) repository.HardwareFilter {
	q := r.URL.Query()
	return repository.HardwareFilter{
		Search:         strings.TrimSpace(q.Get("search")),
		Name:           strings.TrimSpace(q.Get("name")),
		SerialNumber:   strings.TrimSpace(q.Get("serialNumber")),
		Status:         strings.TrimSpace(q.Get("status")),
		RackID:         strings.TrimSpace(q.Get("rackId")),
		TenantID:       strings.TrimSpace(q.Get("tenantId")),
		HardwareTypeID: strings.TrimSpace(q.Get("hardwareTypeId")),
	}
}

func (h *HardwareHandler) list(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListHardware(r.Context(), hardwareFilterFromReq(r), listOptionsFromReq(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *HardwareHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	hw, err := h.svc.GetHardware(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(hw))
}

func (h *HardwareHandler) create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateHardwareInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	hw, err := h.svc.CreateHardware(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(hw))
}

func (h *HardwareHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var in service.UpdateHardwareInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	hw, err := h.svc.UpdateHardware(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(hw))
}

func (h *HardwareHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.DeleteHardware(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

// export streams the filtered inventory as an xlsx attachment.
func (h *HardwareHandler) export(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ExportRows(r.Context(), hardwareFilterFromReq(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	data, err := GenerateHardwareExport(rows)
	if err != nil {
		h.logger.Error("export generation failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, Fail("internal error"))
		return
	}
	filename := fmt.Sprintf("hardware_inventory_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}
