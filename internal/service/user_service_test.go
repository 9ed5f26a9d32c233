package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/domain"
	"github.com/namenice/kamui/internal/repository"
)

// fakeUsersRepo is an in-memory UsersRepository with soft-delete semantics.
type fakeUsersRepo struct {
	users   map[string]*domain.User
	deleted map[string]bool
	next    int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*domain.User{}, deleted: map[string]bool{}}
}

func (f *fakeUsersRepo) ListUsers(ctx context.Context, _ repository.UserFilter, _ repository.ListOptions) ([]*domain.User, int, error) {
	out := []*domain.User{}
	for id, u := range f.users {
		if !f.deleted[id] {
			out = append(out, u)
		}
	}
	return out, len(out), nil
}

func (f *fakeUsersRepo) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok || f.deleted[id] {
		return nil, domain.NotFound("User")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	for id, u := range f.users {
		if u.Email == email && !f.deleted[id] {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.NotFound("User")
}

func (f *fakeUsersRepo) CreateUser(ctx context.Context, user *domain.User) error {
	f.next++
	user.ID = fmt.Sprintf("user-%d", f.next)
	f.users[user.ID] = user
	return nil
}

func (f *fakeUsersRepo) UpdateUser(ctx context.Context, user *domain.User) error {
	if _, ok := f.users[user.ID]; !ok || f.deleted[user.ID] {
		return domain.NotFound("User")
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUsersRepo) SoftDeleteUser(ctx context.Context, id string) error {
	if _, ok := f.users[id]; !ok || f.deleted[id] {
		return domain.NotFound("User")
	}
	f.deleted[id] = true
	return nil
}

func (f *fakeUsersRepo) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	for id, u := range f.users {
		if u.Email == email && id != excludeID && !f.deleted[id] {
			return true, nil
		}
	}
	return false, nil
}

func newUserService(repo *fakeUsersRepo) *UserService {
	return NewUserService(repo, zap.NewNop())
}

func validUserInput() CreateUserInput {
	return CreateUserInput{
		FirstName: "Ada",
		Email:     "Ada@Example.com",
		Password:  "correct-horse",
	}
}

func TestCreateUser_HashesAndNormalizes(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := newUserService(repo)

	safe, err := svc.CreateUser(context.Background(), validUserInput())
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", safe.Email)
	assert.Equal(t, domain.UserRoleUser, safe.Role)
	assert.Equal(t, domain.UserStatusActive, safe.Status)

	stored := repo.users[safe.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "correct-horse", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestCreateUser_PasswordTooShort(t *testing.T) {
	svc := newUserService(newFakeUsersRepo())

	in := validUserInput()
	in.Password = "short"
	_, err := svc.CreateUser(context.Background(), in)
	require.True(t, domain.IsValidation(err))
	assert.EqualError(t, err, "password must be at least 8 characters")
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc := newUserService(newFakeUsersRepo())

	_, err := svc.CreateUser(context.Background(), validUserInput())
	require.NoError(t, err)

	// Case differences must not dodge the uniqueness check.
	in := validUserInput()
	in.Email = "ADA@EXAMPLE.COM"
	_, err = svc.CreateUser(context.Background(), in)
	require.True(t, domain.IsConflict(err))
	assert.EqualError(t, err, "Email already taken")
}

func TestUpdateUser_EmailChangeResetsVerification(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := newUserService(repo)

	safe, err := svc.CreateUser(context.Background(), validUserInput())
	require.NoError(t, err)
	repo.users[safe.ID].IsEmailVerified = true

	updated, err := svc.UpdateUser(context.Background(), safe.ID, UpdateUserInput{Email: strPtr("new@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.False(t, updated.IsEmailVerified)
}

func TestVerifyCredentials(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := newUserService(repo)

	safe, err := svc.CreateUser(context.Background(), validUserInput())
	require.NoError(t, err)

	t.Run("valid pair", func(t *testing.T) {
		got, err := svc.VerifyCredentials(context.Background(), "ada@example.com", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, safe.ID, got.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.VerifyCredentials(context.Background(), "ada@example.com", "battery-staple")
		require.True(t, domain.IsValidation(err))
		assert.EqualError(t, err, "incorrect email or password")
	})

	t.Run("unknown email reads the same as wrong password", func(t *testing.T) {
		_, err := svc.VerifyCredentials(context.Background(), "ghost@example.com", "correct-horse")
		require.True(t, domain.IsValidation(err))
		assert.EqualError(t, err, "incorrect email or password")
	})

	t.Run("banned account", func(t *testing.T) {
		repo.users[safe.ID].Status = domain.UserStatusBanned
		_, err := svc.VerifyCredentials(context.Background(), "ada@example.com", "correct-horse")
		require.True(t, domain.IsValidation(err))
		assert.EqualError(t, err, "account is banned")
	})
}

func TestDeleteUser_DropsOutOfReads(t *testing.T) {
	repo := newFakeUsersRepo()
	svc := newUserService(repo)

	safe, err := svc.CreateUser(context.Background(), validUserInput())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(context.Background(), safe.ID))

	_, err = svc.GetUser(context.Background(), safe.ID)
	assert.True(t, domain.IsNotFound(err))

	err = svc.DeleteUser(context.Background(), safe.ID)
	assert.True(t, domain.IsNotFound(err))
}
