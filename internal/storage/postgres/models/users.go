package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"
	"reviewdb/proj/internal/storage/postgres"
)

const userColumns = `id, username, email, first_name, last_name, bio, role,
	confirmation_code, is_staff, is_superuser, created_at`

type UserModel struct {
	DB *pgxpool.Pool
}

func (m *UserModel) GetByID(ctx context.Context, id int64) (*models.User, error) {
	rows, _ := m.DB.Query(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return collectUser(rows)
}

func (m *UserModel) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	rows, _ := m.DB.Query(ctx, "SELECT "+userColumns+" FROM users WHERE username = $1", username)
	return collectUser(rows)
}

func (m *UserModel) GetByUsernameAndEmail(ctx context.Context, username, email string) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1 AND email = $2",
		username,
		email,
	)
	return collectUser(rows)
}

func (m *UserModel) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	err := m.DB.QueryRow(
		ctx,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 OR email = $2)",
		username,
		email,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (m *UserModel) Insert(ctx context.Context, user *models.User) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		`INSERT INTO users (username, email, first_name, last_name, bio, role, confirmation_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING `+userColumns,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.ConfirmationCode,
	)
	return collectUser(rows)
}

func (m *UserModel) List(ctx context.Context, search string, filters filters.Filters) ([]models.User, int, error) {
	query := fmt.Sprintf(`
	SELECT count(*) OVER() AS total, %s FROM users
	WHERE (username ILIKE '%%' || $1 || '%%' OR $1 = '')
	ORDER BY %s %s, id ASC
	LIMIT $2 OFFSET $3
	`, userColumns, filters.SortColumn(), filters.SortDirection())
	rows, _ := m.DB.Query(ctx, query, search, filters.Limit, filters.Offset)
	type row struct {
		Total int
		models.User
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	users := make([]models.User, 0, len(outputRows))
	for _, r := range outputRows {
		users = append(users, r.User)
	}
	if len(outputRows) == 0 {
		return users, 0, nil
	}
	return users, outputRows[0].Total, nil
}

func (m *UserModel) Update(ctx context.Context, user *models.User) (*models.User, error) {
	rows, _ := m.DB.Query(
		ctx,
		`UPDATE users SET username = $1, email = $2, first_name = $3, last_name = $4, bio = $5, role = $6
		WHERE id = $7 RETURNING `+userColumns,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.ID,
	)
	return collectUser(rows)
}

func (m *UserModel) SetConfirmationCode(ctx context.Context, id int64, code string) error {
	status, err := m.DB.Exec(ctx, "UPDATE users SET confirmation_code = $1 WHERE id = $2", code, id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *UserModel) Delete(ctx context.Context, username string) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM users WHERE username = $1", username)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func collectUser(rows pgx.Rows) (*models.User, error) {
	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.User])
	if err != nil {
		var pgxErr *pgconn.PgError
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, storage.ErrNotFound
		case errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode:
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return &user, nil
}
