package domain

import "time"

// User roles and statuses.
const (
	UserRoleUser      = "user"
	UserRoleAdmin     = "admin"
	UserRoleModerator = "moderator"

	UserStatusActive  = "active"
	UserStatusPending = "pending"
	UserStatusBanned  = "banned"
)

// User is the auxiliary account record for the auth collaborator. Email is
// unique globally. Users are the only soft-deleted entity.
type User struct {
	ID              string     `db:"id"`
	FirstName       string     `db:"first_name"`
	LastName        *string    `db:"last_name"`
	Email           string     `db:"email"`
	PasswordHash    string     `db:"password"`
	Role            string     `db:"role"`
	Status          string     `db:"status"`
	IsEmailVerified bool       `db:"is_email_verified"`
	LastLoginAt     *time.Time `db:"last_login_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

// SafeUser is the read projection returned to callers. It simply omits the
// password hash instead of relying on serialization tricks.
type SafeUser struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"firstName"`
	LastName        *string    `json:"lastName"`
	Email           string     `json:"email"`
	Role            string     `json:"role"`
	Status          string     `json:"status"`
	IsEmailVerified bool       `json:"isEmailVerified"`
	LastLoginAt     *time.Time `json:"lastLoginAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// Safe converts a User to its read projection.
func (u *User) Safe() *SafeUser {
	return &SafeUser{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		Role:            u.Role,
		Status:          u.Status,
		IsEmailVerified: u.IsEmailVerified,
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
