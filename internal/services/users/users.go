package users

import (
	"context"
	"errors"
	"log/slog"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"
)

type UsersStorage interface {
	List(ctx context.Context, search string, filters filters.Filters) ([]models.User, int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, user *models.User) (*models.User, error)
	Delete(ctx context.Context, username string) error
}

type UserService struct {
	log     *slog.Logger
	storage UsersStorage
}

func New(log *slog.Logger, storage UsersStorage) *UserService {
	return &UserService{
		log:     log,
		storage: storage,
	}
}

type CreateUserParams struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      models.Role
}

// UpdateUserParams carries a partial update. Nil fields keep their stored value.
type UpdateUserParams struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *models.Role
}

func (s *UserService) List(ctx context.Context, search string, filters filters.Filters) ([]models.User, int, error) {
	const op = "users.UserService.List"
	log := s.log.With("op", op)
	users, total, err := s.storage.List(ctx, search, filters)
	if err != nil {
		log.Error(err.Error())
		return nil, 0, err
	}
	return users, total, nil
}

func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	const op = "users.UserService.Get"
	log := s.log.With("op", op, "username", username)
	user, err := s.storage.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, params CreateUserParams) (*models.User, error) {
	const op = "users.UserService.Create"
	log := s.log.With("op", op, "username", params.Username)
	role := params.Role
	if role == "" {
		role = models.RoleUser
	}
	user, err := s.storage.Insert(ctx, &models.User{
		Username:  params.Username,
		Email:     params.Email,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Bio:       params.Bio,
		Role:      role,
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("user already exists")
			return nil, ErrUserAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, username string, params UpdateUserParams) (*models.User, error) {
	const op = "users.UserService.Update"
	log := s.log.With("op", op, "username", username)
	user, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	applyUpdate(user, params)
	updated, err := s.storage.Update(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrConflict):
			log.Info("user already exists")
			return nil, ErrUserAlreadyExists
		case errors.Is(err, storage.ErrNotFound):
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

// UpdateSelf applies a partial self-service update for the "me" endpoint.
// Any client-supplied role is discarded, the stored role always wins.
func (s *UserService) UpdateSelf(ctx context.Context, user *models.User, params UpdateUserParams) (*models.User, error) {
	params.Role = nil
	return s.Update(ctx, user.Username, params)
}

func (s *UserService) Delete(ctx context.Context, username string) error {
	const op = "users.UserService.Delete"
	log := s.log.With("op", op, "username", username)
	if err := s.storage.Delete(ctx, username); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return ErrUserNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func applyUpdate(user *models.User, params UpdateUserParams) {
	if params.Username != nil {
		user.Username = *params.Username
	}
	if params.Email != nil {
		user.Email = *params.Email
	}
	if params.FirstName != nil {
		user.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		user.LastName = *params.LastName
	}
	if params.Bio != nil {
		user.Bio = *params.Bio
	}
	if params.Role != nil {
		user.Role = *params.Role
	}
}
