package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namenice/kamui/internal/domain"
)

func setupHardwareRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresHardwareRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresHardwareRepository(db)
}

var hardwareColumns = []string{
	"id", "name", "serial_number", "status", "oob_ip", "note", "specifications",
	"warranty_start_date", "warranty_end_date",
	"u_position", "rack_id", "tenant_id", "hardware_info_id", "created_at", "updated_at",
	"i_id", "manufacturer", "model", "height", "hardware_type_id",
	"t_id", "t_name", "t_category",
	"tn_id", "tn_name",
	"k_id", "k_name", "k_u_height", "k_room_id",
	"m_id", "m_name", "m_site_id",
	"s_id", "s_name", "s_zone_id",
	"z_id", "z_name", "z_region_id",
	"rg_id", "rg_name",
}

func addHardwareRow(rows *sqlmock.Rows, id, name string, now time.Time) {
	rows.AddRow(id, name, "SN-"+id, "active", nil, nil, nil,
		nil, nil,
		12, "rack-1", "tenant-1", "info-1", now, now,
		"info-1", "Dell", "R740", 2, "type-1",
		"type-1", "Server", "compute",
		"tenant-1", "Acme",
		"rack-1", "A01", 42, "room-1",
		"room-1", "Cold Aisle 1", "site-1",
		"site-1", "FRA-1", "zone-1",
		"zone-1", "EU Central", "region-1",
		"region-1", "Europe")
}

func TestListHardware_SearchWithProjections(t *testing.T) {
	db, mock, repo := setupHardwareRepo(t)
	defer db.Close()

	now := time.Now()

	// One bind serves all four search columns in both queries.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM hardwares h JOIN hardware_infos i`).
		WithArgs("%web%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sqlmock.NewRows(hardwareColumns)
	addHardwareRow(rows, "hw-1", "web-01", now)
	mock.ExpectQuery(`SELECT h\.id, h\.name, h\.serial_number`).
		WithArgs("%web%", 10, 0).
		WillReturnRows(rows)

	mock.ExpectQuery(`FROM interface_connections ic`).
		WithArgs(pq.Array([]string{"hw-1"})).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "mac_address", "ip_address", "speed", "type",
			"hardware_id", "connected_switch_id", "connected_port", "created_at", "updated_at",
			"sw_id", "sw_name", "sw_oob_ip",
		}).AddRow("if-1", "eth0", nil, "10.0.0.5", nil, nil,
			"hw-1", "sw-9", "Gi1/0/4", now, now,
			"sw-9", "tor-a01", "192.168.0.9"))

	hws, total, err := repo.ListHardware(context.Background(), HardwareFilter{Search: "web"}, ListOptions{})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, hws, 1)

	hw := hws[0]
	require.NotNil(t, hw.HardwareInfo)
	assert.Equal(t, "Dell", hw.HardwareInfo.Manufacturer)
	require.NotNil(t, hw.HardwareInfo.HardwareType)
	assert.Equal(t, "Server", hw.HardwareInfo.HardwareType.Name)
	require.NotNil(t, hw.Rack)
	require.NotNil(t, hw.Rack.Room)
	require.NotNil(t, hw.Rack.Room.Site)
	assert.Equal(t, "Europe", hw.Rack.Room.Site.Zone.Region.Name)
	require.NotNil(t, hw.Tenant)
	assert.Equal(t, "Acme", hw.Tenant.Name)

	require.Len(t, hw.Interfaces, 1)
	conn := hw.Interfaces[0]
	assert.Equal(t, "eth0", conn.Name)
	require.NotNil(t, conn.ConnectedSwitch)
	assert.Equal(t, "tor-a01", conn.ConnectedSwitch.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetHardware_NotFound(t *testing.T) {
	db, mock, repo := setupHardwareRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT h\.id, h\.name, h\.serial_number`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetHardware(context.Background(), "ghost")
	assert.True(t, domain.IsNotFound(err))
}

func TestDeleteHardware_TransactionOrder(t *testing.T) {
	db, mock, repo := setupHardwareRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE interface_connections SET connected_switch_id = NULL`).
		WithArgs("hw-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM interface_connections WHERE hardware_id`).
		WithArgs("hw-1").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`DELETE FROM hardwares WHERE id`).
		WithArgs("hw-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteHardware(context.Background(), "hw-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteHardware_MissingRowRollsBack(t *testing.T) {
	db, mock, repo := setupHardwareRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE interface_connections SET connected_switch_id = NULL`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM interface_connections WHERE hardware_id`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM hardwares WHERE id`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteHardware(context.Background(), "ghost")
	assert.True(t, domain.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSerialTaken(t *testing.T) {
	db, mock, repo := setupHardwareRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM hardwares WHERE serial_number`).
		WithArgs("SN-42", "hw-self").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	taken, err := repo.SerialTaken(context.Background(), "SN-42", "hw-self")
	require.NoError(t, err)
	assert.False(t, taken)
}
