package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/namenice/kamui/internal/domain"
)

type PostgresLocationsRepository struct {
	db *sql.DB
}

func NewPostgresLocationsRepository(db *sql.DB) *PostgresLocationsRepository {
	return &PostgresLocationsRepository{db: db}
}

// Hardware id subqueries per containment scope, used by the cascade deletes.
// Each takes the scope id as $1.
const (
	hwByRack   = `SELECT h.id FROM hardwares h WHERE h.rack_id = $1`
	hwByRoom   = `SELECT h.id FROM hardwares h JOIN racks k ON h.rack_id = k.id WHERE k.room_id = $1`
	hwBySite   = `SELECT h.id FROM hardwares h JOIN racks k ON h.rack_id = k.id JOIN rooms m ON k.room_id = m.id WHERE m.site_id = $1`
	hwByZone   = `SELECT h.id FROM hardwares h JOIN racks k ON h.rack_id = k.id JOIN rooms m ON k.room_id = m.id JOIN sites s ON m.site_id = s.id WHERE s.zone_id = $1`
	hwByRegion = `SELECT h.id FROM hardwares h JOIN racks k ON h.rack_id = k.id JOIN rooms m ON k.room_id = m.id JOIN sites s ON m.site_id = s.id JOIN zones z ON s.zone_id = z.id WHERE z.region_id = $1`
)

// deleteHardwareSubtree removes all hardware matched by sub (a query yielding
// hardware ids from $1). Interfaces elsewhere uplinked into that hardware are
// nullified first, then owned interfaces and the hardware rows are deleted.
func deleteHardwareSubtree(ctx context.Context, tx *sql.Tx, sub string, scopeID string) error {
	if _, err := tx.ExecContext(ctx,
		`UPDATE interface_connections SET connected_switch_id = NULL, updated_at = NOW() WHERE connected_switch_id IN (`+sub+`)`, scopeID); err != nil {
		return fmt.Errorf("failed to nullify uplinks: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM interface_connections WHERE hardware_id IN (`+sub+`)`, scopeID); err != nil {
		return fmt.Errorf("failed to delete owned interfaces: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM hardwares WHERE id IN (`+sub+`)`, scopeID); err != nil {
		return fmt.Errorf("failed to delete hardware: %w", err)
	}
	return nil
}

// deleteParentRow deletes the scope row itself and reports NotFound when it
// never existed.
func deleteParentRow(ctx context.Context, tx *sql.Tx, table, resource, id string) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(resource)
	}
	return nil
}

// ============================================
// Regions
// ============================================

var regionSortable = map[string]string{
	"name":      "r.name",
	"createdAt": "r.created_at",
	"updatedAt": "r.updated_at",
	"zoneCount": "zone_count",
}

func (r *PostgresLocationsRepository) ListRegions(ctx context.Context, f RegionFilter, opts ListOptions) ([]*domain.Region, int, error) {
	opts = opts.Normalize()
	c := &cond{}
	if f.Search != "" {
		p := c.bind(like(f.Search))
		c.add("(r.name ILIKE " + p + " OR r.description ILIKE " + p + ")")
	}
	if f.Name != "" {
		c.add("r.name = " + c.bind(f.Name))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM regions r`+c.clause(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `
		SELECT r.id, r.name, r.description, r.created_at, r.updated_at,
			(SELECT COUNT(*) FROM zones z WHERE z.region_id = r.id) AS zone_count
		FROM regions r` + c.clause() +
		orderBy(opts, regionSortable, "r.created_at", "r.id") + c.limitOffset(opts)

	rows, err := r.db.QueryContext(ctx, q, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*domain.Region{}
	for rows.Next() {
		var reg domain.Region
		if err := rows.Scan(&reg.ID, &reg.Name, &reg.Description, &reg.CreatedAt, &reg.UpdatedAt, &reg.ZoneCount); err != nil {
			return nil, 0, err
		}
		out = append(out, &reg)
	}
	return out, total, rows.Err()
}

func (r *PostgresLocationsRepository) GetRegion(ctx context.Context, id string) (*domain.Region, error) {
	var reg domain.Region
	err := r.db.QueryRowContext(ctx, `
		SELECT r.id, r.name, r.description, r.created_at, r.updated_at,
			(SELECT COUNT(*) FROM zones z WHERE z.region_id = r.id) AS zone_count
		FROM regions r
		WHERE r.id = $1`, id).
		Scan(&reg.ID, &reg.Name, &reg.Description, &reg.CreatedAt, &reg.UpdatedAt, &reg.ZoneCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Region")
	}
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *PostgresLocationsRepository) CreateRegion(ctx context.Context, region *domain.Region) error {
	region.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO regions (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		region.ID, region.Name, region.Description).
		Scan(&region.CreatedAt, &region.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "Region name already taken")
	}
	return nil
}

func (r *PostgresLocationsRepository) UpdateRegion(ctx context.Context, region *domain.Region) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE regions SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at`,
		region.Name, region.Description, region.ID).
		Scan(&region.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("Region")
	}
	if err != nil {
		return mapWriteError(err, "Region name already taken")
	}
	return nil
}

func (r *PostgresLocationsRepository) DeleteRegion(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteHardwareSubtree(ctx, tx, hwByRegion, id); err != nil {
		return err
	}
	steps := []string{
		`DELETE FROM racks WHERE id IN (SELECT k.id FROM racks k JOIN rooms m ON k.room_id = m.id JOIN sites s ON m.site_id = s.id JOIN zones z ON s.zone_id = z.id WHERE z.region_id = $1)`,
		`DELETE FROM rooms WHERE id IN (SELECT m.id FROM rooms m JOIN sites s ON m.site_id = s.id JOIN zones z ON s.zone_id = z.id WHERE z.region_id = $1)`,
		`DELETE FROM sites WHERE id IN (SELECT s.id FROM sites s JOIN zones z ON s.zone_id = z.id WHERE z.region_id = $1)`,
		`DELETE FROM zones WHERE region_id = $1`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	if err := deleteParentRow(ctx, tx, "regions", "Region", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PostgresLocationsRepository) RegionNameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	return scopedValueTaken(ctx, r.db, "regions", "name", name, "", "", excludeID)
}

// ============================================
// Zones
// ============================================

var zoneSortable = map[string]string{
	"name":      "z.name",
	"createdAt": "z.created_at",
	"updatedAt": "z.updated_at",
	"siteCount": "site_count",
}

func (r *PostgresLocationsRepository) ListZones(ctx context.Context, f ZoneFilter, opts ListOptions) ([]*domain.Zone, int, error) {
	opts = opts.Normalize()
	c := &cond{}
	if f.Search != "" {
		p := c.bind(like(f.Search))
		c.add("(z.name ILIKE " + p + " OR z.description ILIKE " + p + ")")
	}
	if f.Name != "" {
		c.add("z.name ILIKE " + c.bind(like(f.Name)))
	}
	if f.RegionID != "" {
		c.add("z.region_id = " + c.bind(f.RegionID))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM zones z`+c.clause(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `
		SELECT z.id, z.name, z.description, z.region_id, z.created_at, z.updated_at,
			(SELECT COUNT(*) FROM sites s WHERE s.zone_id = z.id) AS site_count,
			r.id, r.name, r.description, r.created_at, r.updated_at
		FROM zones z
		JOIN regions r ON r.id = z.region_id` + c.clause() +
		orderBy(opts, zoneSortable, "z.created_at", "z.id") + c.limitOffset(opts)

	rows, err := r.db.QueryContext(ctx, q, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*domain.Zone{}
	for rows.Next() {
		var z domain.Zone
		var reg domain.Region
		if err := rows.Scan(&z.ID, &z.Name, &z.Description, &z.RegionID, &z.CreatedAt, &z.UpdatedAt,
			&z.SiteCount,
			&reg.ID, &reg.Name, &reg.Description, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
			return nil, 0, err
		}
		z.Region = &reg
		out = append(out, &z)
	}
	return out, total, rows.Err()
}

func (r *PostgresLocationsRepository) GetZone(ctx context.Context, id string) (*domain.Zone, error) {
	var z domain.Zone
	var reg domain.Region
	err := r.db.QueryRowContext(ctx, `
		SELECT z.id, z.name, z.description, z.region_id, z.created_at, z.updated_at,
			(SELECT COUNT(*) FROM sites s WHERE s.zone_id = z.id) AS site_count,
			r.id, r.name, r.description, r.created_at, r.updated_at
		FROM zones z
		JOIN regions r ON r.id = z.region_id
		WHERE z.id = $1`, id).
		Scan(&z.ID, &z.Name, &z.Description, &z.RegionID, &z.CreatedAt, &z.UpdatedAt,
			&z.SiteCount,
			&reg.ID, &reg.Name, &reg.Description, &reg.CreatedAt, &reg.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Zone")
	}
	if err != nil {
		return nil, err
	}
	z.Region = &reg
	return &z, nil
}

func (r *PostgresLocationsRepository) CreateZone(ctx context.Context, zone *domain.Zone) error {
	zone.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO zones (id, name, description, region_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		zone.ID, zone.Name, zone.Description, zone.RegionID).
		Scan(&zone.CreatedAt, &zone.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "Zone name already taken in this region")
	}
	return nil
}

func (r *PostgresLocationsRepository) UpdateZone(ctx context.Context, zone *domain.Zone) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE zones SET name = $1, description = $2, region_id = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`,
		zone.Name, zone.Description, zone.RegionID, zone.ID).
		Scan(&zone.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("Zone")
	}
	if err != nil {
		return mapWriteError(err, "Zone name already taken in this region")
	}
	return nil
}

func (r *PostgresLocationsRepository) DeleteZone(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteHardwareSubtree(ctx, tx, hwByZone, id); err != nil {
		return err
	}
	steps := []string{
		`DELETE FROM racks WHERE id IN (SELECT k.id FROM racks k JOIN rooms m ON k.room_id = m.id JOIN sites s ON m.site_id = s.id WHERE s.zone_id = $1)`,
		`DELETE FROM rooms WHERE id IN (SELECT m.id FROM rooms m JOIN sites s ON m.site_id = s.id WHERE s.zone_id = $1)`,
		`DELETE FROM sites WHERE zone_id = $1`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	if err := deleteParentRow(ctx, tx, "zones", "Zone", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PostgresLocationsRepository) ZoneNameTaken(ctx context.Context, name, regionID, excludeID string) (bool, error) {
	return scopedValueTaken(ctx, r.db, "zones", "name", name, "region_id", regionID, excludeID)
}

// ============================================
// Sites
// ============================================

var siteSortable = map[string]string{
	"name":      "s.name",
	"createdAt": "s.created_at",
	"updatedAt": "s.updated_at",
	"roomCount": "room_count",
}

func (r *PostgresLocationsRepository) ListSites(ctx context.Context, f SiteFilter, opts ListOptions) ([]*domain.Site, int, error) {
	opts = opts.Normalize()
	c := &cond{}
	if f.Search != "" {
		p := c.bind(like(f.Search))
		c.add("(s.name ILIKE " + p + " OR s.description ILIKE " + p + ")")
	}
	if f.Name != "" {
		c.add("s.name ILIKE " + c.bind(like(f.Name)))
	}
	if f.ZoneID != "" {
		c.add("s.zone_id = " + c.bind(f.ZoneID))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sites s`+c.clause(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `
		SELECT s.id, s.name, s.description, s.zone_id, s.created_at, s.updated_at,
			(SELECT COUNT(*) FROM rooms m WHERE m.site_id = s.id) AS room_count,
			z.id, z.name, z.region_id
		FROM sites s
		JOIN zones z ON z.id = s.zone_id` + c.clause() +
		orderBy(opts, siteSortable, "s.created_at", "s.id") + c.limitOffset(opts)

	rows, err := r.db.QueryContext(ctx, q, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*domain.Site{}
	for rows.Next() {
		var s domain.Site
		var z domain.Zone
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.ZoneID, &s.CreatedAt, &s.UpdatedAt,
			&s.RoomCount,
			&z.ID, &z.Name, &z.RegionID); err != nil {
			return nil, 0, err
		}
		s.Zone = &z
		out = append(out, &s)
	}
	return out, total, rows.Err()
}

func (r *PostgresLocationsRepository) GetSite(ctx context.Context, id string) (*domain.Site, error) {
	var s domain.Site
	var z domain.Zone
	err := r.db.QueryRowContext(ctx, `
		SELECT s.id, s.name, s.description, s.zone_id, s.created_at, s.updated_at,
			(SELECT COUNT(*) FROM rooms m WHERE m.site_id = s.id) AS room_count,
			z.id, z.name, z.region_id
		FROM sites s
		JOIN zones z ON z.id = s.zone_id
		WHERE s.id = $1`, id).
		Scan(&s.ID, &s.Name, &s.Description, &s.ZoneID, &s.CreatedAt, &s.UpdatedAt,
			&s.RoomCount,
			&z.ID, &z.Name, &z.RegionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Site")
	}
	if err != nil {
		return nil, err
	}
	s.Zone = &z
	return &s, nil
}

func (r *PostgresLocationsRepository) CreateSite(ctx context.Context, site *domain.Site) error {
	site.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO sites (id, name, description, zone_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		site.ID, site.Name, site.Description, site.ZoneID).
		Scan(&site.CreatedAt, &site.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "Site name already taken in this zone")
	}
	return nil
}

func (r *PostgresLocationsRepository) UpdateSite(ctx context.Context, site *domain.Site) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE sites SET name = $1, description = $2, zone_id = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`,
		site.Name, site.Description, site.ZoneID, site.ID).
		Scan(&site.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("Site")
	}
	if err != nil {
		return mapWriteError(err, "Site name already taken in this zone")
	}
	return nil
}

func (r *PostgresLocationsRepository) DeleteSite(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteHardwareSubtree(ctx, tx, hwBySite, id); err != nil {
		return err
	}
	steps := []string{
		`DELETE FROM racks WHERE id IN (SELECT k.id FROM racks k JOIN rooms m ON k.room_id = m.id WHERE m.site_id = $1)`,
		`DELETE FROM rooms WHERE site_id = $1`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	if err := deleteParentRow(ctx, tx, "sites", "Site", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PostgresLocationsRepository) SiteNameTaken(ctx context.Context, name, zoneID, excludeID string) (bool, error) {
	return scopedValueTaken(ctx, r.db, "sites", "name", name, "zone_id", zoneID, excludeID)
}

// ============================================
// Rooms
// ============================================

var roomSortable = map[string]string{
	"name":      "m.name",
	"createdAt": "m.created_at",
	"updatedAt": "m.updated_at",
	"rackCount": "rack_count",
}

func (r *PostgresLocationsRepository) ListRooms(ctx context.Context, f RoomFilter, opts ListOptions) ([]*domain.Room, int, error) {
	opts = opts.Normalize()
	c := &cond{}
	if f.Search != "" {
		p := c.bind(like(f.Search))
		c.add("(m.name ILIKE " + p + " OR m.description ILIKE " + p + ")")
	}
	if f.Name != "" {
		c.add("m.name ILIKE " + c.bind(like(f.Name)))
	}
	if f.SiteID != "" {
		c.add("m.site_id = " + c.bind(f.SiteID))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms m`+c.clause(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `
		SELECT m.id, m.name, m.description, m.site_id, m.created_at, m.updated_at,
			(SELECT COUNT(*) FROM racks k WHERE k.room_id = m.id) AS rack_count,
			s.id, s.name, s.zone_id
		FROM rooms m
		JOIN sites s ON s.id = m.site_id` + c.clause() +
		orderBy(opts, roomSortable, "m.created_at", "m.id") + c.limitOffset(opts)

	rows, err := r.db.QueryContext(ctx, q, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*domain.Room{}
	for rows.Next() {
		var m domain.Room
		var s domain.Site
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.SiteID, &m.CreatedAt, &m.UpdatedAt,
			&m.RackCount,
			&s.ID, &s.Name, &s.ZoneID); err != nil {
			return nil, 0, err
		}
		m.Site = &s
		out = append(out, &m)
	}
	return out, total, rows.Err()
}

func (r *PostgresLocationsRepository) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	var m domain.Room
	var s domain.Site
	err := r.db.QueryRowContext(ctx, `
		SELECT m.id, m.name, m.description, m.site_id, m.created_at, m.updated_at,
			(SELECT COUNT(*) FROM racks k WHERE k.room_id = m.id) AS rack_count,
			s.id, s.name, s.zone_id
		FROM rooms m
		JOIN sites s ON s.id = m.site_id
		WHERE m.id = $1`, id).
		Scan(&m.ID, &m.Name, &m.Description, &m.SiteID, &m.CreatedAt, &m.UpdatedAt,
			&m.RackCount,
			&s.ID, &s.Name, &s.ZoneID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Room")
	}
	if err != nil {
		return nil, err
	}
	m.Site = &s
	return &m, nil
}

func (r *PostgresLocationsRepository) CreateRoom(ctx context.Context, room *domain.Room) error {
	room.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO rooms (id, name, description, site_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		room.ID, room.Name, room.Description, room.SiteID).
		Scan(&room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "Room name already taken in this site")
	}
	return nil
}

func (r *PostgresLocationsRepository) UpdateRoom(ctx context.Context, room *domain.Room) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE rooms SET name = $1, description = $2, site_id = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`,
		room.Name, room.Description, room.SiteID, room.ID).
		Scan(&room.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("Room")
	}
	if err != nil {
		return mapWriteError(err, "Room name already taken in this site")
	}
	return nil
}

func (r *PostgresLocationsRepository) DeleteRoom(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteHardwareSubtree(ctx, tx, hwByRoom, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM racks WHERE room_id = $1`, id); err != nil {
		return err
	}
	if err := deleteParentRow(ctx, tx, "rooms", "Room", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PostgresLocationsRepository) RoomNameTaken(ctx context.Context, name, siteID, excludeID string) (bool, error) {
	return scopedValueTaken(ctx, r.db, "rooms", "name", name, "site_id", siteID, excludeID)
}

// ============================================
// Racks
// ============================================

var rackSortable = map[string]string{
	"name":          "k.name",
	"uHeight":       "k.u_height",
	"createdAt":     "k.created_at",
	"updatedAt":     "k.updated_at",
	"hardwareCount": "hardware_count",
}

func (r *PostgresLocationsRepository) ListRacks(ctx context.Context, f RackFilter, opts ListOptions) ([]*domain.Rack, int, error) {
	opts = opts.Normalize()
	c := &cond{}
	if f.Search != "" {
		p := c.bind(like(f.Search))
		c.add("(k.name ILIKE " + p + " OR k.description ILIKE " + p + ")")
	}
	if f.Name != "" {
		c.add("k.name ILIKE " + c.bind(like(f.Name)))
	}
	if f.RoomID != "" {
		c.add("k.room_id = " + c.bind(f.RoomID))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM racks k`+c.clause(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `
		SELECT k.id, k.name, k.description, k.u_height, k.room_id, k.created_at, k.updated_at,
			(SELECT COUNT(*) FROM hardwares h WHERE h.rack_id = k.id) AS hardware_count,
			m.id, m.name, m.site_id,
			s.id, s.name, s.zone_id,
			z.id, z.name, z.region_id,
			r.id, r.name
		FROM racks k
		JOIN rooms m ON m.id = k.room_id
		JOIN sites s ON s.id = m.site_id
		JOIN zones z ON z.id = s.zone_id
		JOIN regions r ON r.id = z.region_id` + c.clause() +
		orderBy(opts, rackSortable, "k.created_at", "k.id") + c.limitOffset(opts)

	rows, err := r.db.QueryContext(ctx, q, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*domain.Rack{}
	for rows.Next() {
		rack, err := scanRackChain(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rack)
	}
	return out, total, rows.Err()
}

// scanRackChain scans a rack row followed by its ancestor chain
// Room -> Site -> Zone -> Region.
func scanRackChain(row interface{ Scan(...any) error }) (*domain.Rack, error) {
	var k domain.Rack
	var m domain.Room
	var s domain.Site
	var z domain.Zone
	var reg domain.Region
	err := row.Scan(&k.ID, &k.Name, &k.Description, &k.UHeight, &k.RoomID, &k.CreatedAt, &k.UpdatedAt,
		&k.HardwareCount,
		&m.ID, &m.Name, &m.SiteID,
		&s.ID, &s.Name, &s.ZoneID,
		&z.ID, &z.Name, &z.RegionID,
		&reg.ID, &reg.Name)
	if err != nil {
		return nil, err
	}
	z.Region = &reg
	s.Zone = &z
	m.Site = &s
	k.Room = &m
	return &k, nil
}

func (r *PostgresLocationsRepository) GetRack(ctx context.Context, id string) (*domain.Rack, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT k.id, k.name, k.description, k.u_height, k.room_id, k.created_at, k.updated_at,
			(SELECT COUNT(*) FROM hardwares h WHERE h.rack_id = k.id) AS hardware_count,
			m.id, m.name, m.site_id,
			s.id, s.name, s.zone_id,
			z.id, z.name, z.region_id,
			r.id, r.name
		FROM racks k
		JOIN rooms m ON m.id = k.room_id
		JOIN sites s ON s.id = m.site_id
		JOIN zones z ON z.id = s.zone_id
		JOIN regions r ON r.id = z.region_id
		WHERE k.id = $1`, id)
	rack, err := scanRackChain(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Rack")
	}
	if err != nil {
		return nil, err
	}
	return rack, nil
}

func (r *PostgresLocationsRepository) CreateRack(ctx context.Context, rack *domain.Rack) error {
	rack.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO racks (id, name, description, u_height, room_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		rack.ID, rack.Name, rack.Description, rack.UHeight, rack.RoomID).
		Scan(&rack.CreatedAt, &rack.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "Rack name already taken in this room")
	}
	return nil
}

func (r *PostgresLocationsRepository) UpdateRack(ctx context.Context, rack *domain.Rack) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE racks SET name = $1, description = $2, u_height = $3, room_id = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`,
		rack.Name, rack.Description, rack.UHeight, rack.RoomID, rack.ID).
		Scan(&rack.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("Rack")
	}
	if err != nil {
		return mapWriteError(err, "Rack name already taken in this room")
	}
	return nil
}

func (r *PostgresLocationsRepository) DeleteRack(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteHardwareSubtree(ctx, tx, hwByRack, id); err != nil {
		return err
	}
	if err := deleteParentRow(ctx, tx, "racks", "Rack", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PostgresLocationsRepository) RackNameTaken(ctx context.Context, name, roomID, excludeID string) (bool, error) {
	return scopedValueTaken(ctx, r.db, "racks", "name", name, "room_id", roomID, excludeID)
}

// RackPlacement checks a prospective U span against the rack's declared
// capacity and the hardware already mounted in it. Heights come from the
// hardware_infos relation; hardware without a position is ignored.
func (r *PostgresLocationsRepository) RackPlacement(ctx context.Context, rackID string, uPosition, uHeight int, excludeHardwareID string) (*domain.PlacementReport, error) {
	var rackHeight int
	err := r.db.QueryRowContext(ctx, `SELECT u_height FROM racks WHERE id = $1`, rackID).Scan(&rackHeight)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Rack")
	}
	if err != nil {
		return nil, err
	}

	report := &domain.PlacementReport{Conflicts: []domain.PlacementConflict{}}
	if uPosition < 1 || uPosition+uHeight-1 > rackHeight {
		report.OutOfBounds = true
	}

	c := &cond{}
	c.add("h.rack_id = " + c.bind(rackID))
	c.add("h.u_position IS NOT NULL")
	// overlap: existing [p, p+height) intersects candidate [uPosition, uPosition+uHeight)
	c.add("h.u_position < " + c.bind(uPosition+uHeight))
	c.add("h.u_position + i.height > " + c.bind(uPosition))
	if excludeHardwareID != "" {
		c.add("h.id <> " + c.bind(excludeHardwareID))
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT h.id, h.name, h.u_position, i.height
		FROM hardwares h
		JOIN hardware_infos i ON i.id = h.hardware_info_id`+c.clause()+`
		ORDER BY h.u_position ASC, h.id ASC`, c.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var pc domain.PlacementConflict
		if err := rows.Scan(&pc.HardwareID, &pc.HardwareName, &pc.UPosition, &pc.UHeight); err != nil {
			return nil, err
		}
		report.Conflicts = append(report.Conflicts, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	report.Fits = !report.OutOfBounds && len(report.Conflicts) == 0
	return report, nil
}
