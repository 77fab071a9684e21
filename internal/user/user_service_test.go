package user_test

import (
	"context"
	"testing"

	"go-leavedesk/internal/user"
	usererrors "go-leavedesk/internal/user/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	createFn        func(ctx context.Context, u *user.User) error
	findAllFn       func(ctx context.Context) ([]user.User, error)
	findByIDFn      func(ctx context.Context, id uuid.UUID) (*user.User, error)
	findByRoleFn    func(ctx context.Context, role string) ([]user.User, error)
	existsByEmailFn func(ctx context.Context, email string) (bool, error)
	updateFn        func(ctx context.Context, u *user.User) error
	deleteFn        func(ctx context.Context, id uuid.UUID) error
}

func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) FindAll(ctx context.Context) ([]user.User, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) FindByRole(ctx context.Context, role string) ([]user.User, error) {
	if f.findByRoleFn != nil {
		return f.findByRoleFn(ctx, role)
	}
	return nil, nil
}

func (f *fakeUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if f.existsByEmailFn != nil {
		return f.existsByEmailFn(ctx, email)
	}
	return false, nil
}

func (f *fakeUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	return 0, nil
}

func (f *fakeUserRepository) Count(ctx context.Context) (int64, error) { return 0, nil }

func (f *fakeUserRepository) Update(ctx context.Context, u *user.User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func storedUser() *user.User {
	return &user.User{
		ID:        uuid.New(),
		Email:     "jan@example.com",
		Password:  "$2a$10$irrelevant",
		FirstName: "Jan",
		LastName:  "Kowalski",
		Role:      user.RoleEmployee,
	}
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success hashes the password and defaults the role", func(t *testing.T) {
		repo := &fakeUserRepository{}
		var created *user.User
		repo.createFn = func(ctx context.Context, u *user.User) error {
			created = u
			return nil
		}
		svc := user.NewService(repo)

		resp, err := svc.Create(ctx, user.CreateUserRequest{
			Email:     "nowa@example.com",
			Password:  "correct horse",
			FirstName: "Nowa",
			LastName:  "Osoba",
		})

		assert.NoError(t, err)
		assert.Equal(t, user.RoleEmployee, resp.Role)
		assert.NotNil(t, created)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("correct horse")))
	})

	t.Run("negative email already exists", func(t *testing.T) {
		repo := &fakeUserRepository{
			existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
				return true, nil
			},
		}
		svc := user.NewService(repo)

		_, err := svc.Create(ctx, user.CreateUserRequest{
			Email:     "jan@example.com",
			Password:  "correct horse",
			FirstName: "Jan",
			LastName:  "Kowalski",
		})

		assert.ErrorIs(t, err, usererrors.ErrEmailAlreadyExists)
	})
}

func TestUserService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		u := storedUser()
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) {
				assert.Equal(t, u.ID, id)
				return u, nil
			},
		}
		svc := user.NewService(repo)

		resp, err := svc.GetByID(ctx, u.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, u.Email, resp.Email)
		assert.Equal(t, "Jan", resp.FirstName)
	})

	t.Run("negative invalid id", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{})

		_, err := svc.GetByID(ctx, "not-a-uuid")

		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{})

		_, err := svc.GetByID(ctx, uuid.New().String())

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("success keeps the role when omitted", func(t *testing.T) {
		u := storedUser()
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) {
				return u, nil
			},
		}
		svc := user.NewService(repo)

		resp, err := svc.Update(ctx, u.ID.String(), user.UpdateUserRequest{
			Email:     "jan@example.com",
			FirstName: "Janusz",
			LastName:  "Kowalski",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Janusz", resp.FirstName)
		assert.Equal(t, user.RoleEmployee, resp.Role)
	})

	t.Run("negative new email taken", func(t *testing.T) {
		u := storedUser()
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) {
				return u, nil
			},
			existsByEmailFn: func(ctx context.Context, email string) (bool, error) {
				assert.Equal(t, "taken@example.com", email)
				return true, nil
			},
		}
		svc := user.NewService(repo)

		_, err := svc.Update(ctx, u.ID.String(), user.UpdateUserRequest{
			Email:     "taken@example.com",
			FirstName: "Jan",
			LastName:  "Kowalski",
		})

		assert.ErrorIs(t, err, usererrors.ErrEmailAlreadyExists)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		u := storedUser()
		deleted := false
		repo := &fakeUserRepository{
			findByIDFn: func(ctx context.Context, id uuid.UUID) (*user.User, error) {
				return u, nil
			},
			deleteFn: func(ctx context.Context, id uuid.UUID) error {
				deleted = true
				assert.Equal(t, u.ID, id)
				return nil
			},
		}
		svc := user.NewService(repo)

		err := svc.Delete(ctx, u.ID.String())

		assert.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := user.NewService(&fakeUserRepository{})

		err := svc.Delete(ctx, uuid.New().String())

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}
