package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/namenice/kamui/internal/domain"
	"github.com/namenice/kamui/internal/models"
	"github.com/namenice/kamui/internal/repository"
)

// UserService handles operator accounts. Passwords are bcrypt-hashed before
// they reach the repository and never leave this package: every read returns
// the SafeUser projection.
type UserService struct {
	repo   repository.UsersRepository
	logger *zap.Logger
}

func NewUserService(repo repository.UsersRepository, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

type CreateUserInput struct {
	FirstName string  `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Role      string  `json:"role"`
	Status    string  `json:"status"`
}

type UpdateUserInput struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Password  *string `json:"password"`
	Role      *string `json:"role"`
	Status    *string `json:"status"`
}

func validRole(r string) bool {
	return r == domain.UserRoleUser || r == domain.UserRoleAdmin || r == domain.UserRoleModerator
}

func validUserStatus(s string) bool {
	return s == domain.UserStatusActive || s == domain.UserStatusPending || s == domain.UserStatusBanned
}

func (s *UserService) ListUsers(ctx context.Context, f repository.UserFilter, opts repository.ListOptions) (*models.Page[*domain.SafeUser], error) {
	opts = opts.Normalize()
	users, total, err := s.repo.ListUsers(ctx, f, opts)
	if err != nil {
		return nil, err
	}
	safe := make([]*domain.SafeUser, 0, len(users))
	for _, u := range users {
		safe = append(safe, u.Safe())
	}
	return models.NewPage(safe, opts.Page, opts.Limit, total), nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.SafeUser, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.Safe(), nil
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*domain.SafeUser, error) {
	firstName := strings.TrimSpace(in.FirstName)
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if firstName == "" {
		return nil, domain.Invalid("firstName is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.Invalid("a valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, domain.Invalid("password must be at least 8 characters")
	}
	role := in.Role
	if role == "" {
		role = domain.UserRoleUser
	}
	if !validRole(role) {
		return nil, domain.Invalid("invalid role: " + role)
	}
	status := in.Status
	if status == "" {
		status = domain.UserStatusActive
	}
	if !validUserStatus(status) {
		return nil, domain.Invalid("invalid status: " + status)
	}
	taken, err := s.repo.EmailTaken(ctx, email, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.Conflict("Email already taken")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		FirstName:    firstName,
		LastName:     in.LastName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       status,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", user.Role))
	return user.Safe(), nil
}

func (s *UserService) UpdateUser(ctx context.Context, id string, in UpdateUserInput) (*domain.SafeUser, error) {
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*in.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, domain.Invalid("a valid email is required")
		}
		taken, err := s.repo.EmailTaken(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.Conflict("Email already taken")
		}
		if email != user.Email {
			user.IsEmailVerified = false
		}
		user.Email = email
	}
	if in.FirstName != nil {
		firstName := strings.TrimSpace(*in.FirstName)
		if firstName == "" {
			return nil, domain.Invalid("firstName is required")
		}
		user.FirstName = firstName
	}
	if in.LastName != nil {
		user.LastName = in.LastName
	}
	if in.Password != nil {
		if len(*in.Password) < 8 {
			return nil, domain.Invalid("password must be at least 8 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if in.Role != nil {
		if !validRole(*in.Role) {
			return nil, domain.Invalid("invalid role: " + *in.Role)
		}
		user.Role = *in.Role
	}
	if in.Status != nil {
		if !validUserStatus(*in.Status) {
			return nil, domain.Invalid("invalid status: " + *in.Status)
		}
		user.Status = *in.Status
	}
	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.Safe(), nil
}

// DeleteUser soft-deletes: the row stays for audit but drops out of every read.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.SoftDeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user soft-deleted", zap.String("user_id", id))
	return nil
}

// VerifyCredentials checks an email/password pair and returns the account on
// success. Banned accounts fail even with the right password.
func (s *UserService) VerifyCredentials(ctx context.Context, email, password string) (*domain.SafeUser, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.Invalid("incorrect email or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.Invalid("incorrect email or password")
	}
	if user.Status == domain.UserStatusBanned {
		return nil, domain.Invalid("account is banned")
	}
	return user.Safe(), nil
}
