package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/namenice/kamui/internal/domain"
)

type PostgresInterfacesRepository struct {
	db *sql.DB
}

func NewPostgresInterfacesRepository(db *sql.DB) *PostgresInterfacesRepository {
	return &PostgresInterfacesRepository{db: db}
}

var interfaceSortable = map[string]string{
	"name":      "ic.name",
	"ipAddress": "ic.ip_address",
	"createdAt": "ic.created_at",
	"updatedAt": "ic.updated_at",
}

const interfaceSelect = `
	SELECT ic.id, ic.name, ic.mac_address, ic.ip_address, ic.speed, ic.type,
		ic.hardware_id, ic.connected_switch_id, ic.connected_port, ic.created_at, ic.updated_at,
		o.name, o.serial_number,
		sw.id, sw.name, sw.oob_ip
	FROM interface_connections ic
	JOIN hardwares o ON o.id = ic.hardware_id
	LEFT JOIN hardwares sw ON sw.id = ic.connected_switch_id`

// scanInterface reads an interface row plus its optional uplink switch ref.
// Used where the owner is already known (hardware projections).
func scanInterface(row interface{ Scan(...any) error }) (*domain.InterfaceConnection, error) {
	var conn domain.InterfaceConnection
	var swID, swName sql.NullString
	var swOob sql.NullString
	err := row.Scan(&conn.ID, &conn.Name, &conn.MacAddress, &conn.IPAddress, &conn.Speed, &conn.Type,
		&conn.HardwareID, &conn.ConnectedSwitchID, &conn.ConnectedPort, &conn.CreatedAt, &conn.UpdatedAt,
		&swID, &swName, &swOob)
	if err != nil {
		return nil, err
	}
	if swID.Valid {
		ref := &domain.HardwareRef{ID: swID.String, Name: swName.String}
		if swOob.Valid {
			oob := swOob.String
			ref.OobIP = &oob
		}
		conn.ConnectedSwitch = ref
	}
	return &conn, nil
}

// scanInterfaceFull additionally reads the owning hardware's display fields.
func scanInterfaceFull(row interface{ Scan(...any) error }) (*domain.InterfaceConnection, error) {
	var conn domain.InterfaceConnection
	var ownerName string
	var ownerSerial *string
	var swID, swName sql.NullString
	var swOob sql.NullString
	err := row.Scan(&conn.ID, &conn.Name, &conn.MacAddress, &conn.IPAddress, &conn.Speed, &conn.Type,
		&conn.HardwareID, &conn.ConnectedSwitchID, &conn.ConnectedPort, &conn.CreatedAt, &conn.UpdatedAt,
		&ownerName, &ownerSerial,
		&swID, &swName, &swOob)
	if err != nil {
		return nil, err
	}
	conn.ParentDevice = &domain.HardwareRef{ID: conn.HardwareID, Name: ownerName, SerialNumber: ownerSerial}
	if swID.Valid {
		ref := &domain.HardwareRef{ID: swID.String, Name: swName.String}
		if swOob.Valid {
			oob := swOob.String
			ref.OobIP = &oob
		}
		conn.ConnectedSwitch = ref
	}
	return &conn, nil
}

func (r *PostgresInterfacesRepository) ListInterfaces(ctx context.Context, f InterfaceFilter, opts ListOptions) ([]*domain.InterfaceConnection, int, error) {
	opts = opts.Normalize()
	c := &cond{}
	if f.Search != "" {
		p := c.bind(like(f.Search))
		c.add("(ic.name ILIKE " + p + " OR ic.ip_address ILIKE " + p + " OR ic.mac_address ILIKE " + p + ")")
	}
	if f.HardwareID != "" {
		c.add("ic.hardware_id = " + c.bind(f.HardwareID))
	}
	if f.ConnectedSwitchID != "" {
		c.add("ic.connected_switch_id = " + c.bind(f.ConnectedSwitchID))
	}

	var total int
	countQ := `SELECT COUNT(*) FROM interface_connections ic` + c.clause()
	if err := r.db.QueryRowContext(ctx, countQ, c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := interfaceSelect + c.clause() +
		orderBy(opts, interfaceSortable, "ic.created_at", "ic.id") + c.limitOffset(opts)

	rows, err := r.db.QueryContext(ctx, q, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*domain.InterfaceConnection{}
	for rows.Next() {
		conn, err := scanInterfaceFull(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, conn)
	}
	return out, total, rows.Err()
}

func (r *PostgresInterfacesRepository) GetInterface(ctx context.Context, id string) (*domain.InterfaceConnection, error) {
	row := r.db.QueryRowContext(ctx, interfaceSelect+` WHERE ic.id = $1`, id)
	conn, err := scanInterfaceFull(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Interface connection")
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

func (r *PostgresInterfacesRepository) CreateInterface(ctx context.Context, conn *domain.InterfaceConnection) error {
	conn.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO interface_connections (id, name, mac_address, ip_address, speed, type,
			hardware_id, connected_switch_id, connected_port)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		conn.ID, conn.Name, conn.MacAddress, conn.IPAddress, conn.Speed, conn.Type,
		conn.HardwareID, conn.ConnectedSwitchID, conn.ConnectedPort).
		Scan(&conn.CreatedAt, &conn.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "Interface connection already exists")
	}
	return nil
}

func (r *PostgresInterfacesRepository) UpdateInterface(ctx context.Context, conn *domain.InterfaceConnection) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE interface_connections SET name = $1, mac_address = $2, ip_address = $3, speed = $4,
			type = $5, hardware_id = $6, connected_switch_id = $7, connected_port = $8, updated_at = NOW()
		WHERE id = $9
		RETURNING updated_at`,
		conn.Name, conn.MacAddress, conn.IPAddress, conn.Speed,
		conn.Type, conn.HardwareID, conn.ConnectedSwitchID, conn.ConnectedPort, conn.ID).
		Scan(&conn.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("Interface connection")
	}
	if err != nil {
		return mapWriteError(err, "Interface connection already exists")
	}
	return nil
}

func (r *PostgresInterfacesRepository) DeleteInterface(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM interface_connections WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("Interface connection")
	}
	return nil
}
