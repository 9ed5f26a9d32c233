package httpapi

import (
	"net/http"

	"go.uber.org/zap"
)

// Router wraps the standard library ServeMux. The route surface is small
// enough that a third-party router buys nothing.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.Handler) {
	r.mux.Handle(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handlers bundles everything the route table needs.
type Handlers struct {
	Locations  *LocationsHandler
	Tenancy    *TenancyHandler
	Catalog    *CatalogHandler
	Hardware   *HardwareHandler
	Interfaces *InterfacesHandler
	Users      *UsersHandler
	Stats      *StatsHandler
	Health     *HealthHandler
}

// RegisterRoutes wires the full admin API surface.
func (r *Router) RegisterRoutes(h *Handlers) {
	r.Handle("/admin/api/v1/regions", h.Locations)
	r.Handle("/admin/api/v1/regions/", h.Locations)
	r.Handle("/admin/api/v1/zones", h.Locations)
	r.Handle("/admin/api/v1/zones/", h.Locations)
	r.Handle("/admin/api/v1/sites", h.Locations)
	r.Handle("/admin/api/v1/sites/", h.Locations)
	r.Handle("/admin/api/v1/rooms", h.Locations)
	r.Handle("/admin/api/v1/rooms/", h.Locations)
	r.Handle("/admin/api/v1/racks", h.Locations)
	r.Handle("/admin/api/v1/racks/", h.Locations)

	r.Handle("/admin/api/v1/tenant-groups", h.Tenancy)
	r.Handle("/admin/api/v1/tenant-groups/", h.Tenancy)
	r.Handle("/admin/api/v1/tenants", h.Tenancy)
	r.Handle("/admin/api/v1/tenants/", h.Tenancy)

	r.Handle("/admin/api/v1/hardware-types", h.Catalog)
	r.Handle("/admin/api/v1/hardware-types/", h.Catalog)
	r.Handle("/admin/api/v1/hardware-infos", h.Catalog)
	r.Handle("/admin/api/v1/hardware-infos/", h.Catalog)

	r.Handle("/admin/api/v1/hardwares", h.Hardware)
	r.Handle("/admin/api/v1/hardwares/", h.Hardware)

	r.Handle("/admin/api/v1/interfaces", h.Interfaces)
	r.Handle("/admin/api/v1/interfaces/", h.Interfaces)

	r.Handle("/admin/api/v1/users", h.Users)
	r.Handle("/admin/api/v1/users/", h.Users)

	r.Handle("/admin/api/v1/stats", h.Stats)
	r.Handle("/admin/api/v1/meta/delete-policies", h.Stats)

	r.Handle("/health", h.Health)
}
