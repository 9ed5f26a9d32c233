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

func setupLocationsRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresLocationsRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresLocationsRepository(db)
}

func TestListRegions_SearchAndCounts(t *testing.T) {
	db, mock, repo := setupLocationsRepo(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM regions r`).
		WithArgs("%eu%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	rows := sqlmock.NewRows([]string{"id", "name", "description", "created_at", "updated_at", "zone_count"}).
		AddRow("reg-1", "eu-west", nil, now, now, 3).
		AddRow("reg-2", "eu-central", "primary", now, now, 0)

	mock.ExpectQuery(`SELECT r\.id, r\.name, r\.description`).
		WithArgs("%eu%", 10, 0).
		WillReturnRows(rows)

	regions, total, err := repo.ListRegions(context.Background(), RegionFilter{Search: "eu"}, ListOptions{})

	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, regions, 2)
	assert.Equal(t, "eu-west", regions[0].Name)
	assert.Equal(t, 3, regions[0].ZoneCount)
	assert.Nil(t, regions[0].Description)
	assert.Equal(t, 0, regions[1].ZoneCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRegion_NotFound(t *testing.T) {
	db, mock, repo := setupLocationsRepo(t)
	defer db.Close()

	mock.ExpectQuery(`FROM regions r`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetRegion(context.Background(), "missing")
	assert.True(t, domain.IsNotFound(err))
	assert.EqualError(t, err, "Region not found")
}

func TestCreateRegion_UniqueViolationBecomesConflict(t *testing.T) {
	db, mock, repo := setupLocationsRepo(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO regions`).
		WithArgs(sqlmock.AnyArg(), "eu-west", nil).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.CreateRegion(context.Background(), &domain.Region{Name: "eu-west"})
	assert.True(t, domain.IsConflict(err))
	assert.EqualError(t, err, "Region name already taken")
}

func TestDeleteRegion_CascadeOrder(t *testing.T) {
	db, mock, repo := setupLocationsRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	// Uplinks into doomed hardware are released before anything is deleted.
	mock.ExpectExec(`UPDATE interface_connections SET connected_switch_id = NULL`).
		WithArgs("reg-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM interface_connections WHERE hardware_id IN`).
		WithArgs("reg-1").
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`DELETE FROM hardwares WHERE id IN`).
		WithArgs("reg-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM racks WHERE id IN`).
		WithArgs("reg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM rooms WHERE id IN`).
		WithArgs("reg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM sites WHERE id IN`).
		WithArgs("reg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM zones WHERE region_id`).
		WithArgs("reg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM regions WHERE id`).
		WithArgs("reg-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.DeleteRegion(context.Background(), "reg-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRegion_MissingRowRollsBack(t *testing.T) {
	db, mock, repo := setupLocationsRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE interface_connections SET connected_switch_id = NULL`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM interface_connections WHERE hardware_id IN`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM hardwares WHERE id IN`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM racks WHERE id IN`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM rooms WHERE id IN`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM sites WHERE id IN`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM zones WHERE region_id`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM regions WHERE id`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteRegion(context.Background(), "ghost")
	assert.True(t, domain.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestZoneNameTaken_ScopedToRegion(t *testing.T) {
	db, mock, repo := setupLocationsRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM zones`).
		WithArgs("zone-a", "reg-1", "zone-self").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	taken, err := repo.ZoneNameTaken(context.Background(), "zone-a", "reg-1", "zone-self")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestRackPlacement_ConflictAndBounds(t *testing.T) {
	db, mock, repo := setupLocationsRepo(t)
	defer db.Close()

	t.Run("overlap reported", func(t *testing.T) {
		mock.ExpectQuery(`SELECT u_height FROM racks`).
			WithArgs("rack-1").
			WillReturnRows(sqlmock.NewRows([]string{"u_height"}).AddRow(42))

		conflicts := sqlmock.NewRows([]string{"id", "name", "u_position", "height"}).
			AddRow("hw-1", "db-server-01", 10, 2)
		mock.ExpectQuery(`SELECT h\.id, h\.name, h\.u_position, i\.height`).
			WithArgs("rack-1", 14, 10).
			WillReturnRows(conflicts)

		report, err := repo.RackPlacement(context.Background(), "rack-1", 10, 4, "")
		require.NoError(t, err)
		assert.False(t, report.Fits)
		assert.False(t, report.OutOfBounds)
		require.Len(t, report.Conflicts, 1)
		assert.Equal(t, "db-server-01", report.Conflicts[0].HardwareName)
	})

	t.Run("span past rack top is out of bounds", func(t *testing.T) {
		mock.ExpectQuery(`SELECT u_height FROM racks`).
			WithArgs("rack-1").
			WillReturnRows(sqlmock.NewRows([]string{"u_height"}).AddRow(42))

		mock.ExpectQuery(`SELECT h\.id, h\.name, h\.u_position, i\.height`).
			WithArgs("rack-1", 45, 41).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "u_position", "height"}))

		report, err := repo.RackPlacement(context.Background(), "rack-1", 41, 4, "")
		require.NoError(t, err)
		assert.True(t, report.OutOfBounds)
		assert.False(t, report.Fits)
		assert.Empty(t, report.Conflicts)
	})

	t.Run("missing rack", func(t *testing.T) {
		mock.ExpectQuery(`SELECT u_height FROM racks`).
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.RackPlacement(context.Background(), "ghost", 1, 1, "")
		assert.True(t, domain.IsNotFound(err))
	})
}
