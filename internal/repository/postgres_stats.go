package repository

import (
	"context"
	"database/sql"

	"github.com/namenice/kamui/internal/domain"
)

// StatsRepository produces the dashboard inventory summary.
type StatsRepository interface {
	EntityCounts(ctx context.Context) (*domain.InventoryStats, error)
}

type PostgresStatsRepository struct {
	db *sql.DB
}

func NewPostgresStatsRepository(db *sql.DB) *PostgresStatsRepository {
	return &PostgresStatsRepository{db: db}
}

// EntityCounts gathers per-table totals in one round trip.
func (r *PostgresStatsRepository) EntityCounts(ctx context.Context) (*domain.InventoryStats, error) {
	var s domain.InventoryStats
	err := r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM regions),
			(SELECT COUNT(*) FROM zones),
			(SELECT COUNT(*) FROM sites),
			(SELECT COUNT(*) FROM rooms),
			(SELECT COUNT(*) FROM racks),
			(SELECT COUNT(*) FROM tenant_groups),
			(SELECT COUNT(*) FROM tenants),
			(SELECT COUNT(*) FROM hardware_types),
			(SELECT COUNT(*) FROM hardware_infos),
			(SELECT COUNT(*) FROM hardwares),
			(SELECT COUNT(*) FROM hardwares WHERE status = 'active'),
			(SELECT COUNT(*) FROM hardwares WHERE status = 'failed'),
			(SELECT COUNT(*) FROM interface_connections)`).
		Scan(&s.Regions, &s.Zones, &s.Sites, &s.Rooms, &s.Racks,
			&s.TenantGroups, &s.Tenants,
			&s.HardwareTypes, &s.HardwareInfos, &s.Hardwares,
			&s.ActiveHardwares, &s.FailedHardwares, &s.Interfaces)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
