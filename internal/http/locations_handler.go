package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/repository"
	"github.com/namenice/kamui/internal/service"
)

// LocationsHandler serves the five containment levels. One handler keeps the
// routing for the whole hierarchy in one place.
type LocationsHandler struct {
	svc    *service.LocationService
	logger *zap.Logger
}

func NewLocationsHandler(svc *service.LocationService, logger *zap.Logger) *LocationsHandler {
	return &LocationsHandler{svc: svc, logger: logger}
}

func (h *LocationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case strings.HasPrefix(path, "/admin/api/v1/regions"):
		h.serveRegions(w, r)
	case strings.HasPrefix(path, "/admin/api/v1/zones"):
		h.serveZones(w, r)
	case strings.HasPrefix(path, "/admin/api/v1/sites"):
		h.serveSites(w, r)
	case strings.HasPrefix(path, "/admin/api/v1/rooms"):
		h.serveRooms(w, r)
	case strings.HasPrefix(path, "/admin/api/v1/racks"):
		h.serveRacks(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// ---------------------------------------------------------------------------
// Regions
// ---------------------------------------------------------------------------

func (h *LocationsHandler) serveRegions(w http.ResponseWriter, r *http.Request) {
	const base = "/admin/api/v1/regions"
	switch {
	case r.URL.Path == base && r.Method == http.MethodGet:
		h.listRegions(w, r)
	case r.URL.Path == base && r.Method == http.MethodPost:
		h.createRegion(w, r)
	default:
		id, ok := pathID(r.URL.Path, base+"/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.getRegion(w, r, id)
		case http.MethodPut, http.MethodPatch:
			h.updateRegion(w, r, id)
		case http.MethodDelete:
			h.deleteRegion(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func (h *LocationsHandler) listRegions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.RegionFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Name:   strings.TrimSpace(q.Get("name")),
	}
	page, err := h.svc.ListRegions(r.Context(), f, listOptionsFromReq(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *LocationsHandler) getRegion(w http.ResponseWriter, r *http.Request, id string) {
	region, err := h.svc.GetRegion(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(region))
}

func (h *LocationsHandler) createRegion(w http.ResponseWriter, r *http.Request) {
	var in service.CreateRegionInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	region, err := h.svc.CreateRegion(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(region))
}

func (h *LocationsHandler) updateRegion(w http.ResponseWriter, r *http.Request, id string) {
	var in service.UpdateRegionInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	region, err := h.svc.UpdateRegion(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(region))
}

func (h *LocationsHandler) deleteRegion(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.DeleteRegion(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

// ---------------------------------------------------------------------------
// Zones
// ---------------------------------------------------------------------------

func (h *LocationsHandler) serveZones(w http.ResponseWriter, r *http.Request) {
	const base = "/admin/api/v1/zones"
	switch {
	case r.URL.Path == base && r.Method == http.MethodGet:
		h.listZones(w, r)
	case r.URL.Path == base && r.Method == http.MethodPost:
		h.createZone(w, r)
	default:
		id, ok := pathID(r.URL.Path, base+"/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.getZone(w, r, id)
		case http.MethodPut, http.MethodPatch:
			h.updateZone(w, r, id)
		case http.MethodDelete:
			h.deleteZone(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func (h *LocationsHandler) listZones(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.ZoneFilter{
		Search:   strings.TrimSpace(q.Get("search")),
		Name:     strings.TrimSpace(q.Get("name")),
		RegionID: strings.TrimSpace(q.Get("regionId")),
	}
	page, err := h.svc.ListZones(r.Context(), f, listOptionsFromReq(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *LocationsHandler) getZone(w http.ResponseWriter, r *http.Request, id string) {
	zone, err := h.svc.GetZone(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(zone))
}

func (h *LocationsHandler) createZone(w http.ResponseWriter, r *http.Request) {
	var in service.CreateZoneInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	zone, err := h.svc.CreateZone(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(zone))
}

func (h *LocationsHandler) updateZone(w http.ResponseWriter, r *http.Request, id string) {
	var in service.UpdateZoneInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	zone, err := h.svc.UpdateZone(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(zone))
}

func (h *LocationsHandler) deleteZone(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.DeleteZone(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

// ---------------------------------------------------------------------------
// Sites
// ---------------------------------------------------------------------------

func (h *LocationsHandler) serveSites(w http.ResponseWriter, r *http.Request) {
	const base = "/admin/api/v1/sites"
	switch {
	case r.URL.Path == base && r.Method == http.MethodGet:
		h.listSites(w, r)
	case r.URL.Path == base && r.Method == http.MethodPost:
		h.createSite(w, r)
	default:
		id, ok := pathID(r.URL.Path, base+"/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.getSite(w, r, id)
		case http.MethodPut, http.MethodPatch:
			h.updateSite(w, r, id)
		case http.MethodDelete:
			h.deleteSite(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func (h *LocationsHandler) listSites(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.SiteFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Name:   strings.TrimSpace(q.Get("name")),
		ZoneID: strings.TrimSpace(q.Get("zoneId")),
	}
	page, err := h.svc.ListSites(r.Context(), f, listOptionsFromReq(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *LocationsHandler) getSite(w http.ResponseWriter, r *http.Request, id string) {
	site, err := h.svc.GetSite(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(site))
}

func (h *LocationsHandler) createSite(w http.ResponseWriter, r *http.Request) {
	var in service.CreateSiteInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	site, err := h.svc.CreateSite(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(site))
}

func (h *LocationsHandler) updateSite(w http.ResponseWriter, r *http.Request, id string) {
	var in service.UpdateSiteInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	site, err := h.svc.UpdateSite(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(site))
}

func (h *LocationsHandler) deleteSite(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.DeleteSite(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

// ---------------------------------------------------------------------------
// Rooms
// ---------------------------------------------------------------------------

func (h *LocationsHandler) serveRooms(w http.ResponseWriter, r *http.Request) {
	const base = "/admin/api/v1/rooms"
	switch {
	case r.URL.Path == base && r.Method == http.MethodGet:
		h.listRooms(w, r)
	case r.URL.Path == base && r.Method == http.MethodPost:
		h.createRoom(w, r)
	default:
		id, ok := pathID(r.URL.Path, base+"/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.getRoom(w, r, id)
		case http.MethodPut, http.MethodPatch:
			h.updateRoom(w, r, id)
		case http.MethodDelete:
			h.deleteRoom(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func (h *LocationsHandler) listRooms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.RoomFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Name:   strings.TrimSpace(q.Get("name")),
		SiteID: strings.TrimSpace(q.Get("siteId")),
	}
	page, err := h.svc.ListRooms(r.Context(), f, listOptionsFromReq(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *LocationsHandler) getRoom(w http.ResponseWriter, r *http.Request, id string) {
	room, err := h.svc.GetRoom(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(room))
}

func (h *LocationsHandler) createRoom(w http.ResponseWriter, r *http.Request) {
	var in service.CreateRoomInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	room, err := h.svc.CreateRoom(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(room))
}

func (h *LocationsHandler) updateRoom(w http.ResponseWriter, r *http.Request, id string) {
	var in service.UpdateRoomInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	room, err := h.svc.UpdateRoom(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(room))
}

func (h *LocationsHandler) deleteRoom(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.DeleteRoom(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

// ---------------------------------------------------------------------------
// Racks
// ---------------------------------------------------------------------------

func (h *LocationsHandler) serveRacks(w http.ResponseWriter, r *http.Request) {
	const base = "/admin/api/v1/racks"
	switch {
	case r.URL.Path == base && r.Method == http.MethodGet:
		h.listRacks(w, r)
	case r.URL.Path == base && r.Method == http.MethodPost:
		h.createRack(w, r)
	case strings.HasSuffix(r.URL.Path, "/placement") && r.Method == http.MethodGet:
		id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, base+"/"), "/placement")
		if id == "" || strings.Contains(id, "/") {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.checkPlacement(w, r, id)
	default:
		id, ok := pathID(r.URL.Path, base+"/")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.getRack(w, r, id)
		case http.MethodPut, http.MethodPatch:
			h.updateRack(w, r, id)
		case http.MethodDelete:
			h.deleteRack(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}
}

func (h *LocationsHandler) listRacks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := repository.RackFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Name:   strings.TrimSpace(q.Get("name")),
		RoomID: strings.TrimSpace(q.Get("roomId")),
	}
	page, err := h.svc.ListRacks(r.Context(), f, listOptionsFromReq(r))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(page))
}

func (h *LocationsHandler) getRack(w http.ResponseWriter, r *http.Request, id string) {
	rack, err := h.svc.GetRack(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(rack))
}

func (h *LocationsHandler) createRack(w http.ResponseWriter, r *http.Request) {
	var in service.CreateRackInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	rack, err := h.svc.CreateRack(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(rack))
}

func (h *LocationsHandler) updateRack(w http.ResponseWriter, r *http.Request, id string) {
	var in service.UpdateRackInput
	if err := readBodyJSON(r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}
	rack, err := h.svc.UpdateRack(r.Context(), id, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(rack))
}

func (h *LocationsHandler) deleteRack(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.svc.DeleteRack(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok[any](nil))
}

// checkPlacement answers GET /racks/{id}/placement?uPosition=&uHeight=.
func (h *LocationsHandler) checkPlacement(w http.ResponseWriter, r *http.Request, id string) {
	q := r.URL.Query()
	uPosition := parseInt(q.Get("uPosition"), 0)
	uHeight := parseInt(q.Get("uHeight"), 1)
	exclude := strings.TrimSpace(q.Get("excludeHardwareId"))
	report, err := h.svc.CheckPlacement(r.Context(), id, uPosition, uHeight, exclude)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(report))
}
