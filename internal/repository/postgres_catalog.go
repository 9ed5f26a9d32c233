package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/namenice/kamui/internal/domain"
)

type PostgresCatalogRepository struct {
	db *sql.DB
}

func NewPostgresCatalogRepository(db *sql.DB) *PostgresCatalogRepository {
	return &PostgresCatalogRepository{db: db}
}

// ============================================
// Hardware Types
// ============================================

var hardwareTypeSortable = map[string]string{
	"name":          "t.name",
	"category":      "t.category",
	"createdAt":     "t.created_at",
	"updatedAt":     "t.updated_at",
	"hardwareCount": "hardware_count",
}

func (r *PostgresCatalogRepository) ListHardwareTypes(ctx context.Context, f HardwareTypeFilter, opts ListOptions) ([]*domain.HardwareType, int, error) {
	opts = opts.Normalize()
	c := &cond{}
	if f.Search != "" {
		p := c.bind(like(f.Search))
		c.add("(t.name ILIKE " + p + " OR t.category ILIKE " + p + " OR t.description ILIKE " + p + ")")
	}
	if f.Name != "" {
		c.add("t.name ILIKE " + c.bind(like(f.Name)))
	}
	if f.Category != "" {
		c.add("t.category = " + c.bind(f.Category))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hardware_types t`+c.clause(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	// Hardware reaches a type only through hardware_infos, so the usage
	// count rides the intermediate join inside a scalar subquery.
	q := `
		SELECT t.id, t.name, t.category, t.description, t.created_at, t.updated_at,
			(SELECT COUNT(*)
			 FROM hardwares h
			 JOIN hardware_infos i ON h.hardware_info_id = i.id
			 WHERE i.hardware_type_id = t.id) AS hardware_count
		FROM hardware_types t` + c.clause() +
		orderBy(opts, hardwareTypeSortable, "t.created_at", "t.id") + c.limitOffset(opts)

	rows, err := r.db.QueryContext(ctx, q, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*domain.HardwareType{}
	for rows.Next() {
		var t domain.HardwareType
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.CreatedAt, &t.UpdatedAt, &t.HardwareCount); err != nil {
			return nil, 0, err
		}
		out = append(out, &t)
	}
	return out, total, rows.Err()
}

func (r *PostgresCatalogRepository) GetHardwareType(ctx context.Context, id string) (*domain.HardwareType, error) {
	var t domain.HardwareType
	err := r.db.QueryRowContext(ctx, `
		SELECT t.id, t.name, t.category, t.description, t.created_at, t.updated_at,
			(SELECT COUNT(*)
			 FROM hardwares h
			 JOIN hardware_infos i ON h.hardware_info_id = i.id
			 WHERE i.hardware_type_id = t.id) AS hardware_count
		FROM hardware_types t
		WHERE t.id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.CreatedAt, &t.UpdatedAt, &t.HardwareCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Hardware Type")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PostgresCatalogRepository) CreateHardwareType(ctx context.Context, t *domain.HardwareType) error {
	t.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO hardware_types (id, name, category, description)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		t.ID, t.Name, t.Category, t.Description).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "Hardware Type name already exists")
	}
	return nil
}

func (r *PostgresCatalogRepository) UpdateHardwareType(ctx context.Context, t *domain.HardwareType) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE hardware_types SET name = $1, category = $2, description = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`,
		t.Name, t.Category, t.Description, t.ID).
		Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("Hardware Type")
	}
	if err != nil {
		return mapWriteError(err, "Hardware Type name already exists")
	}
	return nil
}

// DeleteHardwareType removes the type row only. Callers check
// CountInfosByType first; the FK RESTRICT is a backstop, not the policy.
func (r *PostgresCatalogRepository) DeleteHardwareType(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hardware_types WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError(err, "Hardware Type is still referenced")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("Hardware Type")
	}
	return nil
}

func (r *PostgresCatalogRepository) HardwareTypeNameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	return scopedValueTaken(ctx, r.db, "hardware_types", "name", name, "", "", excludeID)
}

func (r *PostgresCatalogRepository) CountInfosByType(ctx context.Context, typeID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hardware_infos WHERE hardware_type_id = $1`, typeID).Scan(&n)
	return n, err
}

// ============================================
// Hardware Infos
// ============================================

var hardwareInfoSortable = map[string]string{
	"manufacturer":  "i.manufacturer",
	"model":         "i.model",
	"height":        "i.height",
	"createdAt":     "i.created_at",
	"updatedAt":     "i.updated_at",
	"hardwareCount": "hardware_count",
}

func (r *PostgresCatalogRepository) ListHardwareInfos(ctx context.Context, f HardwareInfoFilter, opts ListOptions) ([]*domain.HardwareInfo, int, error) {
	opts = opts.Normalize()
	c := &cond{}
	if f.Search != "" {
		p := c.bind(like(f.Search))
		c.add("(i.manufacturer ILIKE " + p + " OR i.model ILIKE " + p + ")")
	}
	if f.Manufacturer != "" {
		c.add("i.manufacturer ILIKE " + c.bind(like(f.Manufacturer)))
	}
	if f.Model != "" {
		c.add("i.model ILIKE " + c.bind(like(f.Model)))
	}
	if f.HardwareTypeID != "" {
		c.add("i.hardware_type_id = " + c.bind(f.HardwareTypeID))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hardware_infos i`+c.clause(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `
		SELECT i.id, i.manufacturer, i.model, i.height, i.hardware_type_id, i.created_at, i.updated_at,
			(SELECT COUNT(*) FROM hardwares h WHERE h.hardware_info_id = i.id) AS hardware_count,
			t.id, t.name, t.category
		FROM hardware_infos i
		JOIN hardware_types t ON t.id = i.hardware_type_id` + c.clause() +
		orderBy(opts, hardwareInfoSortable, "i.created_at", "i.id") + c.limitOffset(opts)

	rows, err := r.db.QueryContext(ctx, q, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*domain.HardwareInfo{}
	for rows.Next() {
		var i domain.HardwareInfo
		var t domain.HardwareType
		if err := rows.Scan(&i.ID, &i.Manufacturer, &i.Model, &i.Height, &i.HardwareTypeID, &i.CreatedAt, &i.UpdatedAt,
			&i.HardwareCount,
			&t.ID, &t.Name, &t.Category); err != nil {
			return nil, 0, err
		}
		i.HardwareType = &t
		out = append(out, &i)
	}
	return out, total, rows.Err()
}

func (r *PostgresCatalogRepository) GetHardwareInfo(ctx context.Context, id string) (*domain.HardwareInfo, error) {
	var i domain.HardwareInfo
	var t domain.HardwareType
	err := r.db.QueryRowContext(ctx, `
		SELECT i.id, i.manufacturer, i.model, i.height, i.hardware_type_id, i.created_at, i.updated_at,
			(SELECT COUNT(*) FROM hardwares h WHERE h.hardware_info_id = i.id) AS hardware_count,
			t.id, t.name, t.category
		FROM hardware_infos i
		JOIN hardware_types t ON t.id = i.hardware_type_id
		WHERE i.id = $1`, id).
		Scan(&i.ID, &i.Manufacturer, &i.Model, &i.Height, &i.HardwareTypeID, &i.CreatedAt, &i.UpdatedAt,
			&i.HardwareCount,
			&t.ID, &t.Name, &t.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Hardware Info")
	}
	if err != nil {
		return nil, err
	}
	i.HardwareType = &t
	return &i, nil
}

func (r *PostgresCatalogRepository) CreateHardwareInfo(ctx context.Context, info *domain.HardwareInfo) error {
	info.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO hardware_infos (id, manufacturer, model, height, hardware_type_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		info.ID, info.Manufacturer, info.Model, info.Height, info.HardwareTypeID).
		Scan(&info.CreatedAt, &info.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "This Manufacturer/Model combination already exists")
	}
	return nil
}

func (r *PostgresCatalogRepository) UpdateHardwareInfo(ctx context.Context, info *domain.HardwareInfo) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE hardware_infos SET manufacturer = $1, model = $2, height = $3, hardware_type_id = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at`,
		info.Manufacturer, info.Model, info.Height, info.HardwareTypeID, info.ID).
		Scan(&info.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("Hardware Info")
	}
	if err != nil {
		return mapWriteError(err, "This Manufacturer/Model combination already exists")
	}
	return nil
}

func (r *PostgresCatalogRepository) DeleteHardwareInfo(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hardware_infos WHERE id = $1`, id)
	if err != nil {
		return mapDeleteError(err, "Hardware Info is still referenced")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("Hardware Info")
	}
	return nil
}

func (r *PostgresCatalogRepository) ModelTaken(ctx context.Context, manufacturer, model, excludeID string) (bool, error) {
	c := &cond{}
	c.add("manufacturer = " + c.bind(manufacturer))
	c.add("model = " + c.bind(model))
	if excludeID != "" {
		c.add("id <> " + c.bind(excludeID))
	}
	var taken bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM hardware_infos`+c.clause()+`)`, c.args...).Scan(&taken)
	return taken, err
}

func (r *PostgresCatalogRepository) CountHardwareByInfo(ctx context.Context, infoID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM hardwares WHERE hardware_info_id = $1`, infoID).Scan(&n)
	return n, err
}
