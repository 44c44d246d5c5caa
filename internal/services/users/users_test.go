package users

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"
)

type fakeStorage struct {
	users  map[string]*models.User
	nextID int64
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{users: make(map[string]*models.User)}
}

func (f *fakeStorage) List(_ context.Context, search string, _ filters.Filters) ([]models.User, int, error) {
	var out []models.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeStorage) GetByUsername(_ context.Context, username string) (*models.User, error) {
	if u, ok := f.users[username]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStorage) Insert(_ context.Context, user *models.User) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, storage.ErrConflict
		}
	}
	f.nextID++
	clone := *user
	clone.ID = f.nextID
	f.users[clone.Username] = &clone
	return &clone, nil
}

func (f *fakeStorage) Update(_ context.Context, user *models.User) (*models.User, error) {
	for username, u := range f.users {
		if u.ID == user.ID {
			delete(f.users, username)
			clone := *user
			f.users[clone.Username] = &clone
			return &clone, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStorage) Delete(_ context.Context, username string) error {
	if _, ok := f.users[username]; !ok {
		return storage.ErrNotFound
	}
	delete(f.users, username)
	return nil
}

func strPtr(s string) *string            { return &s }
func rolePtr(r models.Role) *models.Role { return &r }

func TestCreateDefaultsRoleToUser(t *testing.T) {
	svc := New(slog.Default(), newFakeStorage())
	user, err := svc.Create(context.Background(), CreateUserParams{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)
}

func TestCreateDuplicate(t *testing.T) {
	svc := New(slog.Default(), newFakeStorage())
	_, err := svc.Create(context.Background(), CreateUserParams{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateUserParams{Username: "bob", Email: "other@x.com"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestUpdatePartial(t *testing.T) {
	svc := New(slog.Default(), newFakeStorage())
	_, err := svc.Create(context.Background(), CreateUserParams{Username: "bob", Email: "bob@x.com", Bio: "old"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "bob", UpdateUserParams{Bio: strPtr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Bio)
	assert.Equal(t, "bob@x.com", updated.Email)
}

func TestUpdateSelfFreezesRole(t *testing.T) {
	svc := New(slog.Default(), newFakeStorage())
	user, err := svc.Create(context.Background(), CreateUserParams{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)

	updated, err := svc.UpdateSelf(context.Background(), user, UpdateUserParams{
		Bio:  strPtr("hi"),
		Role: rolePtr(models.RoleAdmin),
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, updated.Role, "self-service update must not escalate role")
	assert.Equal(t, "hi", updated.Bio)
}

func TestAdminUpdateCanChangeRole(t *testing.T) {
	svc := New(slog.Default(), newFakeStorage())
	_, err := svc.Create(context.Background(), CreateUserParams{Username: "bob", Email: "bob@x.com"})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), "bob", UpdateUserParams{Role: rolePtr(models.RoleModerator)})
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, updated.Role)
}

func TestDeleteMissingUser(t *testing.T) {
	svc := New(slog.Default(), newFakeStorage())
	err := svc.Delete(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
