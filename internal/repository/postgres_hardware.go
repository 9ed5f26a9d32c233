package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/namenice/kamui/internal/domain"
)

type PostgresHardwareRepository struct {
	db *sql.DB
}

func NewPostgresHardwareRepository(db *sql.DB) *PostgresHardwareRepository {
	return &PostgresHardwareRepository{db: db}
}

var hardwareSortable = map[string]string{
	"name":         "h.name",
	"serialNumber": "h.serial_number",
	"status":       "h.status",
	"uPosition":    "h.u_position",
	"createdAt":    "h.created_at",
	"updatedAt":    "h.updated_at",
}

// hardwareSelect reads a hardware row together with its display projections.
// Every join is many-to-one, so rows never multiply and the pagination total
// stays honest; owned interfaces are attached by a second query.
const hardwareSelect = `
	SELECT h.id, h.name, h.serial_number, h.status, h.oob_ip, h.note, h.specifications,
		to_char(h.warranty_start_date, 'YYYY-MM-DD'), to_char(h.warranty_end_date, 'YYYY-MM-DD'),
		h.u_position, h.rack_id, h.tenant_id, h.hardware_info_id, h.created_at, h.updated_at,
		i.id, i.manufacturer, i.model, i.height, i.hardware_type_id,
		t.id, t.name, t.category,
		tn.id, tn.name,
		k.id, k.name, k.u_height, k.room_id,
		m.id, m.name, m.site_id,
		s.id, s.name, s.zone_id,
		z.id, z.name, z.region_id,
		rg.id, rg.name
	FROM hardwares h
	JOIN hardware_infos i ON i.id = h.hardware_info_id
	JOIN hardware_types t ON t.id = i.hardware_type_id
	JOIN racks k ON k.id = h.rack_id
	JOIN rooms m ON m.id = k.room_id
	JOIN sites s ON s.id = m.site_id
	JOIN zones z ON z.id = s.zone_id
	JOIN regions rg ON rg.id = z.region_id
	LEFT JOIN tenants tn ON tn.id = h.tenant_id`

func scanHardware(row interface{ Scan(...any) error }) (*domain.Hardware, error) {
	var h domain.Hardware
	var info domain.HardwareInfo
	var typ domain.HardwareType
	var tenantID, tenantName sql.NullString
	var rack domain.Rack
	var room domain.Room
	var site domain.Site
	var zone domain.Zone
	var region domain.Region

	err := row.Scan(&h.ID, &h.Name, &h.SerialNumber, &h.Status, &h.OobIP, &h.Note, &h.Specifications,
		&h.WarrantyStartDate, &h.WarrantyEndDate,
		&h.UPosition, &h.RackID, &h.TenantID, &h.HardwareInfoID, &h.CreatedAt, &h.UpdatedAt,
		&info.ID, &info.Manufacturer, &info.Model, &info.Height, &info.HardwareTypeID,
		&typ.ID, &typ.Name, &typ.Category,
		&tenantID, &tenantName,
		&rack.ID, &rack.Name, &rack.UHeight, &rack.RoomID,
		&room.ID, &room.Name, &room.SiteID,
		&site.ID, &site.Name, &site.ZoneID,
		&zone.ID, &zone.Name, &zone.RegionID,
		&region.ID, &region.Name)
	if err != nil {
		return nil, err
	}

	info.HardwareType = &typ
	h.HardwareInfo = &info
	if tenantID.Valid {
		h.Tenant = &domain.Tenant{ID: tenantID.String, Name: tenantName.String}
	}
	zone.Region = &region
	site.Zone = &zone
	room.Site = &site
	rack.Room = &room
	h.Rack = &rack
	return &h, nil
}

func (r *PostgresHardwareRepository) buildFilter(f HardwareFilter) *cond {
	c := &cond{}
	if f.Search != "" {
		p := c.bind(like(f.Search))
		c.add("(h.name ILIKE " + p +
			" OR h.serial_number ILIKE " + p +
			" OR i.manufacturer ILIKE " + p +
			" OR i.model ILIKE " + p + ")")
	}
	if f.Name != "" {
		c.add("h.name ILIKE " + c.bind(like(f.Name)))
	}
	if f.SerialNumber != "" {
		c.add("h.serial_number = " + c.bind(f.SerialNumber))
	}
	if f.Status != "" {
		c.add("h.status = " + c.bind(f.Status))
	}
	if f.RackID != "" {
		c.add("h.rack_id = " + c.bind(f.RackID))
	}
	if f.TenantID != "" {
		c.add("h.tenant_id = " + c.bind(f.TenantID))
	}
	if f.HardwareTypeID != "" {
		c.add("i.hardware_type_id = " + c.bind(f.HardwareTypeID))
	}
	return c
}

func (r *PostgresHardwareRepository) ListHardware(ctx context.Context, f HardwareFilter, opts ListOptions) ([]*domain.Hardware, int, error) {
	opts = opts.Normalize()
	c := r.buildFilter(f)

	// The search predicate reaches into hardware_infos, so the count query
	// carries the same many-to-one join instead of a bare table scan.
	var total int
	countQ := `SELECT COUNT(*) FROM hardwares h JOIN hardware_infos i ON i.id = h.hardware_info_id` + c.clause()
	if err := r.db.QueryRowContext(ctx, countQ, c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := hardwareSelect + c.clause() +
		orderBy(opts, hardwareSortable, "h.created_at", "h.id") + c.limitOffset(opts)

	rows, err := r.db.QueryContext(ctx, q, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*domain.Hardware{}
	ids := []string{}
	for rows.Next() {
		h, err := scanHardware(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, h)
		ids = append(ids, h.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.attachInterfaces(ctx, out, ids); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// attachInterfaces loads owned interfaces for the given hardware page in one
// query and groups them by owner.
func (r *PostgresHardwareRepository) attachInterfaces(ctx context.Context, hws []*domain.Hardware, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT ic.id, ic.name, ic.mac_address, ic.ip_address, ic.speed, ic.type,
			ic.hardware_id, ic.connected_switch_id, ic.connected_port, ic.created_at, ic.updated_at,
			sw.id, sw.name, sw.oob_ip
		FROM interface_connections ic
		LEFT JOIN hardwares sw ON sw.id = ic.connected_switch_id
		WHERE ic.hardware_id = ANY($1)
		ORDER BY ic.created_at DESC, ic.id ASC`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load interfaces: %w", err)
	}
	defer rows.Close()

	byOwner := make(map[string][]*domain.InterfaceConnection, len(ids))
	for rows.Next() {
		conn, err := scanInterface(rows)
		if err != nil {
			return err
		}
		byOwner[conn.HardwareID] = append(byOwner[conn.HardwareID], conn)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, h := range hws {
		h.Interfaces = byOwner[h.ID]
	}
	return nil
}

func (r *PostgresHardwareRepository) GetHardware(ctx context.Context, id string) (*domain.Hardware, error) {
	row := r.db.QueryRowContext(ctx, hardwareSelect+` WHERE h.id = $1`, id)
	h, err := scanHardware(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Hardware")
	}
	if err != nil {
		return nil, err
	}
	if err := r.attachInterfaces(ctx, []*domain.Hardware{h}, []string{h.ID}); err != nil {
		return nil, err
	}
	return h, nil
}

func (r *PostgresHardwareRepository) CreateHardware(ctx context.Context, hw *domain.Hardware) error {
	hw.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO hardwares (id, name, serial_number, status, oob_ip, note, specifications,
			warranty_start_date, warranty_end_date, u_position, rack_id, tenant_id, hardware_info_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`,
		hw.ID, hw.Name, hw.SerialNumber, hw.Status, hw.OobIP, hw.Note, hw.Specifications,
		hw.WarrantyStartDate, hw.WarrantyEndDate, hw.UPosition, hw.RackID, hw.TenantID, hw.HardwareInfoID).
		Scan(&hw.CreatedAt, &hw.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "Serial Number already exists")
	}
	return nil
}

func (r *PostgresHardwareRepository) UpdateHardware(ctx context.Context, hw *domain.Hardware) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE hardwares SET name = $1, serial_number = $2, status = $3, oob_ip = $4, note = $5,
			specifications = $6, warranty_start_date = $7, warranty_end_date = $8, u_position = $9,
			rack_id = $10, tenant_id = $11, hardware_info_id = $12, updated_at = NOW()
		WHERE id = $13
		RETURNING updated_at`,
		hw.Name, hw.SerialNumber, hw.Status, hw.OobIP, hw.Note,
		hw.Specifications, hw.WarrantyStartDate, hw.WarrantyEndDate, hw.UPosition,
		hw.RackID, hw.TenantID, hw.HardwareInfoID, hw.ID).
		Scan(&hw.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("Hardware")
	}
	if err != nil {
		return mapWriteError(err, "Serial Number already exists")
	}
	return nil
}

// DeleteHardware clears uplinks pointing at this hardware, deletes the
// interfaces it owns, then removes the row — all in one transaction, so a
// failed delete leaves no partial side effects.
func (r *PostgresHardwareRepository) DeleteHardware(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE interface_connections SET connected_switch_id = NULL, updated_at = NOW()
		WHERE connected_switch_id = $1`, id); err != nil {
		return fmt.Errorf("failed to nullify uplinks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM interface_connections WHERE hardware_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete owned interfaces: %w", err)
	}
	if err := deleteParentRow(ctx, tx, "hardwares", "Hardware", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PostgresHardwareRepository) SerialTaken(ctx context.Context, serial, excludeID string) (bool, error) {
	return scopedValueTaken(ctx, r.db, "hardwares", "serial_number", serial, "", "", excludeID)
}

func (r *PostgresHardwareRepository) HardwareExists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM hardwares WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// ListHardwareForExport walks the full inventory (no pagination) in physical
// order for the Excel export.
func (r *PostgresHardwareRepository) ListHardwareForExport(ctx context.Context, f HardwareFilter) ([]*HardwareExportRow, error) {
	c := r.buildFilter(f)
	q := `
		SELECT h.name, h.serial_number, h.status, i.manufacturer, i.model, t.name,
			rg.name, z.name, s.name, m.name, k.name, h.u_position, tn.name, h.oob_ip
		FROM hardwares h
		JOIN hardware_infos i ON i.id = h.hardware_info_id
		JOIN hardware_types t ON t.id = i.hardware_type_id
		JOIN racks k ON k.id = h.rack_id
		JOIN rooms m ON m.id = k.room_id
		JOIN sites s ON s.id = m.site_id
		JOIN zones z ON z.id = s.zone_id
		JOIN regions rg ON rg.id = z.region_id
		LEFT JOIN tenants tn ON tn.id = h.tenant_id` + c.clause() + `
		ORDER BY rg.name, z.name, s.name, m.name, k.name, h.u_position NULLS LAST, h.id`

	rows, err := r.db.QueryContext(ctx, q, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*HardwareExportRow{}
	for rows.Next() {
		var row HardwareExportRow
		if err := rows.Scan(&row.Name, &row.SerialNumber, &row.Status, &row.Manufacturer, &row.Model, &row.TypeName,
			&row.Region, &row.Zone, &row.Site, &row.Room, &row.Rack, &row.UPosition, &row.TenantName, &row.OobIP); err != nil {
			return nil, err
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}
