package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/namenice/kamui/internal/domain"
)

type PostgresUsersRepository struct {
	db *sql.DB
}

func NewPostgresUsersRepository(db *sql.DB) *PostgresUsersRepository {
	return &PostgresUsersRepository{db: db}
}

var userSortable = map[string]string{
	"firstName": "u.first_name",
	"lastName":  "u.last_name",
	"email":     "u.email",
	"role":      "u.role",
	"status":    "u.status",
	"createdAt": "u.created_at",
	"updatedAt": "u.updated_at",
}

const userSelect = `
	SELECT u.id, u.first_name, u.last_name, u.email, u.password, u.role, u.status,
		u.is_email_verified, u.last_login_at, u.created_at, u.updated_at, u.deleted_at
	FROM users u`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.Status,
		&u.IsEmailVerified, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt, &u.DeletedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgresUsersRepository) ListUsers(ctx context.Context, f UserFilter, opts ListOptions) ([]*domain.User, int, error) {
	opts = opts.Normalize()
	c := &cond{}
	c.add("u.deleted_at IS NULL")
	if f.Search != "" {
		p := c.bind(like(f.Search))
		c.add("(u.first_name ILIKE " + p + " OR u.last_name ILIKE " + p + " OR u.email ILIKE " + p + ")")
	}
	if f.Role != "" {
		c.add("u.role = " + c.bind(f.Role))
	}
	if f.Status != "" {
		c.add("u.status = " + c.bind(f.Status))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users u`+c.clause(), c.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := userSelect + c.clause() +
		orderBy(opts, userSortable, "u.created_at", "u.id") + c.limitOffset(opts)

	rows, err := r.db.QueryContext(ctx, q, c.args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *PostgresUsersRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, userSelect+` WHERE u.id = $1 AND u.deleted_at IS NULL`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("User")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *PostgresUsersRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, userSelect+` WHERE u.email = $1 AND u.deleted_at IS NULL`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("User")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *PostgresUsersRepository) CreateUser(ctx context.Context, user *domain.User) error {
	user.ID = uuid.NewString()
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (id, first_name, last_name, email, password, role, status, is_email_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash,
		user.Role, user.Status, user.IsEmailVerified).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "Email already taken")
	}
	return nil
}

func (r *PostgresUsersRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRowContext(ctx, `
		UPDATE users SET first_name = $1, last_name = $2, email = $3, password = $4, role = $5,
			status = $6, is_email_verified = $7, last_login_at = $8, updated_at = NOW()
		WHERE id = $9 AND deleted_at IS NULL
		RETURNING updated_at`,
		user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Role,
		user.Status, user.IsEmailVerified, user.LastLoginAt, user.ID).
		Scan(&user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound("User")
	}
	if err != nil {
		return mapWriteError(err, "Email already taken")
	}
	return nil
}

func (r *PostgresUsersRepository) SoftDeleteUser(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound("User")
	}
	return nil
}

func (r *PostgresUsersRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	q := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND deleted_at IS NULL`
	args := []any{email}
	if excludeID != "" {
		q += ` AND id <> $2`
		args = append(args, excludeID)
	}
	q += `)`
	var taken bool
	err := r.db.QueryRowContext(ctx, q, args...).Scan(&taken)
	return taken, err
}
