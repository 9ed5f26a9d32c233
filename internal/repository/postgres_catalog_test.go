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

func setupCatalogRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresCatalogRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresCatalogRepository(db)
}

func TestListHardwareTypes_CountsThroughInfos(t *testing.T) {
	db, mock, repo := setupCatalogRepo(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM hardware_types t`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	rows := sqlmock.NewRows([]string{"id", "name", "category", "description", "created_at", "updated_at", "hardware_count"}).
		AddRow("type-1", "Server", "compute", nil, now, now, 7).
		AddRow("type-2", "Switch", "network", nil, now, now, 0)

	mock.ExpectQuery(`SELECT t\.id, t\.name, t\.category`).
		WithArgs(10, 0).
		WillReturnRows(rows)

	types, total, err := repo.ListHardwareTypes(context.Background(), HardwareTypeFilter{}, ListOptions{})

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, types, 2)
	assert.Equal(t, 7, types[0].HardwareCount)
	assert.Equal(t, 0, types[1].HardwareCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModelTaken_CompoundKey(t *testing.T) {
	db, mock, repo := setupCatalogRepo(t)
	defer db.Close()

	t.Run("same pair on another row", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM hardware_infos`).
			WithArgs("Cisco", "2960").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		taken, err := repo.ModelTaken(context.Background(), "Cisco", "2960", "")
		require.NoError(t, err)
		assert.True(t, taken)
	})

	t.Run("own row excluded on update", func(t *testing.T) {
		mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM hardware_infos`).
			WithArgs("Cisco", "2960", "info-self").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		taken, err := repo.ModelTaken(context.Background(), "Cisco", "2960", "info-self")
		require.NoError(t, err)
		assert.False(t, taken)
	})
}

func TestCountInfosByType(t *testing.T) {
	db, mock, repo := setupCatalogRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM hardware_infos WHERE hardware_type_id`).
		WithArgs("type-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.CountInfosByType(context.Background(), "type-1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestDeleteHardwareInfo_FKBackstop(t *testing.T) {
	db, mock, repo := setupCatalogRepo(t)
	defer db.Close()

	// Races past the service-level count hit the FK and surface as the
	// same Conflict the restrict check would have produced.
	mock.ExpectExec(`DELETE FROM hardware_infos WHERE id`).
		WithArgs("info-1").
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.DeleteHardwareInfo(context.Background(), "info-1")
	assert.True(t, domain.IsConflict(err))
	assert.EqualError(t, err, "Hardware Info is still referenced")
}

func TestDeleteHardwareType_FKBackstop(t *testing.T) {
	db, mock, repo := setupCatalogRepo(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM hardware_types WHERE id`).
		WithArgs("type-1").
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.DeleteHardwareType(context.Background(), "type-1")
	assert.True(t, domain.IsConflict(err))
}

func TestDeleteHardwareType_NotFound(t *testing.T) {
	db, mock, repo := setupCatalogRepo(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM hardware_types WHERE id`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteHardwareType(context.Background(), "ghost")
	assert.True(t, domain.IsNotFound(err))
}
