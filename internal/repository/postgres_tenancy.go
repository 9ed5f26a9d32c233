package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/namenice/kamui/internal/domain"
)

type PostgresTenancyRepository struct {
	db *sql.DB
}

func NewPostgresTenancyRepository(db *sql.DB) *PostgresTenancyRepository {
	return &PostgresTenancyRepository{db: db}
}

// ============================================
// Tenant Groups
// ============================================

var tenantGroupSortable = map[string]string{
	"name":        "g.name",
	"createdAt":   "g.created_at",
	"updatedAt":   "g.updated_at",
	"tenantCount": "tenant_count",
}

func (r *PostgresTenancyRepository) ListTenantGroups(ctx context.Context, f TenantGroupFilter, opts ListOptions) ([]*domain.TenantGroup, int, error) {
	opts = opts.Normalize()
	c := &cond{}
	if f.Search != "" {
		p := c.bind(like(f.Search))
		c.add("(g.name ILIKE " + p + " OR g.description ILIKE " + p + ")")
	}
	if f.Name != "" {
		c.add("g.name ILIKE " + c.bind(like(f.Name)))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenant_groups g`+c.clause(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `
		SELECT g.id, g.name, g.description, g.created_at, g.updated_at,
			(SELECT COUNT(*) FROM tenants t WHERE t.tenant_group_id = g.id) AS tenant_count
		FROM tenant_groups g` + c.clause() +
		orderBy(opts, tenantGroupSortable, "g.created_at", "g.id") + c.limitOffset(opts)

	rows, err := r.db.QueryContext(ctx, q, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*domain.TenantGroup{}
	for rows.Next() {
		var g domain.TenantGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt, &g.TenantCount); err != nil {
			return nil, 0, err
		}
		out = append(out, &g)
	}
	return out, total, rows.Err()
}

func (r *PostgresTenancyRepository) GetTenantGroup(ctx context.Context, id string) (*domain.TenantGroup, error) {
	var g domain.TenantGroup
	err := r.db.QueryRowContext(ctx, `
		SELECT g.id, g.name, g.description, g.created_at, g.updated_at,
			(SELECT COUNT(*) FROM tenants t WHERE t.tenant_group_id = g.id) AS tenant_count
		FROM tenant_groups g
		WHERE g.id = $1`, id).
		Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt, &g.TenantCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Tenant Group")
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *PostgresTenancyRepository) CreateTenantGroup(ctx context.Context, group *domain.TenantGroup) error {
	group.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO tenant_groups (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		group.ID, group.Name, group.Description).
		Scan(&group.CreatedAt, &group.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "Tenant Group name already taken")
	}
	return nil
}

func (r *PostgresTenancyRepository) UpdateTenantGroup(ctx context.Context, group *domain.TenantGroup) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE tenant_groups SET name = $1, description = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at`,
		group.Name, group.Description, group.ID).
		Scan(&group.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("Tenant Group")
	}
	if err != nil {
		return mapWriteError(err, "Tenant Group name already taken")
	}
	return nil
}

// DeleteTenantGroup cascades to the group's tenants. Hardware owned by those
// tenants is not deleted: the tenant reference is nullified first.
func (r *PostgresTenancyRepository) DeleteTenantGroup(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE hardwares SET tenant_id = NULL, updated_at = NOW()
		WHERE tenant_id IN (SELECT t.id FROM tenants t WHERE t.tenant_group_id = $1)`, id); err != nil {
		return fmt.Errorf("failed to nullify hardware tenants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tenants WHERE tenant_group_id = $1`, id); err != nil {
		return err
	}
	if err := deleteParentRow(ctx, tx, "tenant_groups", "Tenant Group", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PostgresTenancyRepository) TenantGroupNameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	return scopedValueTaken(ctx, r.db, "tenant_groups", "name", name, "", "", excludeID)
}

// ============================================
// Tenants
// ============================================

var tenantSortable = map[string]string{
	"name":      "t.name",
	"createdAt": "t.created_at",
	"updatedAt": "t.updated_at",
}

func (r *PostgresTenancyRepository) ListTenants(ctx context.Context, f TenantFilter, opts ListOptions) ([]*domain.Tenant, int, error) {
	opts = opts.Normalize()
	c := &cond{}
	if f.Search != "" {
		p := c.bind(like(f.Search))
		c.add("(t.name ILIKE " + p + " OR t.description ILIKE " + p + ")")
	}
	if f.Name != "" {
		c.add("t.name ILIKE " + c.bind(like(f.Name)))
	}
	if f.TenantGroupID != "" {
		c.add("t.tenant_group_id = " + c.bind(f.TenantGroupID))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants t`+c.clause(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `
		SELECT t.id, t.name, t.description, t.tenant_group_id, t.created_at, t.updated_at,
			g.id, g.name, g.description, g.created_at, g.updated_at
		FROM tenants t
		JOIN tenant_groups g ON g.id = t.tenant_group_id` + c.clause() +
		orderBy(opts, tenantSortable, "t.created_at", "t.id") + c.limitOffset(opts)

	rows, err := r.db.QueryContext(ctx, q, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*domain.Tenant{}
	for rows.Next() {
		var t domain.Tenant
		var g domain.TenantGroup
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.TenantGroupID, &t.CreatedAt, &t.UpdatedAt,
			&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, 0, err
		}
		t.Group = &g
		out = append(out, &t)
	}
	return out, total, rows.Err()
}

func (r *PostgresTenancyRepository) GetTenant(ctx context.Context, id string) (*domain.Tenant, error) {
	var t domain.Tenant
	var g domain.TenantGroup
	err := r.db.QueryRowContext(ctx, `
		SELECT t.id, t.name, t.description, t.tenant_group_id, t.created_at, t.updated_at,
			g.id, g.name, g.description, g.created_at, g.updated_at
		FROM tenants t
		JOIN tenant_groups g ON g.id = t.tenant_group_id
		WHERE t.id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Description, &t.TenantGroupID, &t.CreatedAt, &t.UpdatedAt,
			&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Tenant")
	}
	if err != nil {
		return nil, err
	}
	t.Group = &g
	return &t, nil
}

func (r *PostgresTenancyRepository) CreateTenant(ctx context.Context, tenant *domain.Tenant) error {
	tenant.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO tenants (id, name, description, tenant_group_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		tenant.ID, tenant.Name, tenant.Description, tenant.TenantGroupID).
		Scan(&tenant.CreatedAt, &tenant.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "Tenant name already taken in this group")
	}
	return nil
}

func (r *PostgresTenancyRepository) UpdateTenant(ctx context.Context, tenant *domain.Tenant) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE tenants SET name = $1, description = $2, tenant_group_id = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`,
		tenant.Name, tenant.Description, tenant.TenantGroupID, tenant.ID).
		Scan(&tenant.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("Tenant")
	}
	if err != nil {
		return mapWriteError(err, "Tenant name already taken in this group")
	}
	return nil
}

// DeleteTenant nullifies the tenant reference on hardware before removing the
// tenant row. Hardware is never deleted by this path.
func (r *PostgresTenancyRepository) DeleteTenant(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		UPDATE hardwares SET tenant_id = NULL, updated_at = NOW() WHERE tenant_id = $1`, id); err != nil {
		return fmt.Errorf("failed to nullify hardware tenants: %w", err)
	}
	if err := deleteParentRow(ctx, tx, "tenants", "Tenant", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *PostgresTenancyRepository) TenantNameTaken(ctx context.Context, name, groupID, excludeID string) (bool, error) {
	return scopedValueTaken(ctx, r.db, "tenants", "name", name, "tenant_group_id", groupID, excludeID)
}
