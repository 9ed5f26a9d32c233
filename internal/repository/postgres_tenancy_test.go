package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namenice/kamui/internal/domain"
)

func setupTenancyRepo(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *PostgresTenancyRepository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock, NewPostgresTenancyRepository(db)
}

func TestDeleteTenant_NullifiesHardwareFirst(t *testing.T) {
	db, mock, repo := setupTenancyRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE hardwares SET tenant_id = NULL`).
		WithArgs("tenant-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM tenants WHERE id`).
		WithArgs("tenant-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteTenant(context.Background(), "tenant-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTenantGroup_CascadesThroughTenants(t *testing.T) {
	db, mock, repo := setupTenancyRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE hardwares SET tenant_id = NULL`).
		WithArgs("group-1").
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`DELETE FROM tenants WHERE tenant_group_id`).
		WithArgs("group-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM tenant_groups WHERE id`).
		WithArgs("group-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.DeleteTenantGroup(context.Background(), "group-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTenantGroup_MissingRowRollsBack(t *testing.T) {
	db, mock, repo := setupTenancyRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE hardwares SET tenant_id = NULL`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM tenants WHERE tenant_group_id`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM tenant_groups WHERE id`).
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.DeleteTenantGroup(context.Background(), "ghost")
	assert.True(t, domain.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantNameTaken_ScopedToGroup(t *testing.T) {
	db, mock, repo := setupTenancyRepo(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM tenants WHERE name = \$1 AND tenant_group_id = \$2\)`).
		WithArgs("Acme", "group-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	taken, err := repo.TenantNameTaken(context.Background(), "Acme", "group-1", "")
	require.NoError(t, err)
	assert.True(t, taken)
}
