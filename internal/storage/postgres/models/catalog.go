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

// slugTable implements the shared storage shape of categories and genres:
// (id, name, unique slug) rows listed with a name search and looked up or
// deleted by slug.
type slugTable struct {
	DB    *pgxpool.Pool
	table string
}

type slugRow struct {
	ID   int64
	Name string
	Slug string
}

func (m *slugTable) list(ctx context.Context, search string, filters filters.Filters) ([]slugRow, int, error) {
	query := fmt.Sprintf(`
	SELECT count(*) OVER() AS total, id, name, slug FROM %s
	WHERE (name ILIKE '%%' || $1 || '%%' OR $1 = '')
	ORDER BY %s %s, id ASC
	LIMIT $2 OFFSET $3
	`, m.table, filters.SortColumn(), filters.SortDirection())
	rows, _ := m.DB.Query(ctx, query, search, filters.Limit, filters.Offset)
	type row struct {
		Total int
		slugRow
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	out := make([]slugRow, 0, len(outputRows))
	for _, r := range outputRows {
		out = append(out, r.slugRow)
	}
	if len(outputRows) == 0 {
		return out, 0, nil
	}
	return out, outputRows[0].Total, nil
}

func (m *slugTable) getBySlug(ctx context.Context, slug string) (*slugRow, error) {
	rows, _ := m.DB.Query(ctx, fmt.Sprintf("SELECT id, name, slug FROM %s WHERE slug = $1", m.table), slug)
	return collectSlugRow(rows)
}

func (m *slugTable) insert(ctx context.Context, name, slug string) (*slugRow, error) {
	rows, _ := m.DB.Query(
		ctx,
		fmt.Sprintf("INSERT INTO %s (name, slug) VALUES ($1, $2) RETURNING id, name, slug", m.table),
		name,
		slug,
	)
	return collectSlugRow(rows)
}

func (m *slugTable) delete(ctx context.Context, slug string) error {
	status, err := m.DB.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE slug = $1", m.table), slug)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func collectSlugRow(rows pgx.Rows) (*slugRow, error) {
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[slugRow])
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
	return &row, nil
}

type CategoryModel struct {
	DB *pgxpool.Pool
}

func (m *CategoryModel) List(ctx context.Context, search string, filters filters.Filters) ([]models.Category, int, error) {
	rows, total, err := (&slugTable{m.DB, "categories"}).list(ctx, search, filters)
	if err != nil {
		return nil, 0, err
	}
	categories := make([]models.Category, 0, len(rows))
	for _, r := range rows {
		categories = append(categories, models.Category(r))
	}
	return categories, total, nil
}

func (m *CategoryModel) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	row, err := (&slugTable{m.DB, "categories"}).getBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	category := models.Category(*row)
	return &category, nil
}

func (m *CategoryModel) Insert(ctx context.Context, name, slug string) (*models.Category, error) {
	row, err := (&slugTable{m.DB, "categories"}).insert(ctx, name, slug)
	if err != nil {
		return nil, err
	}
	category := models.Category(*row)
	return &category, nil
}

func (m *CategoryModel) Delete(ctx context.Context, slug string) error {
	return (&slugTable{m.DB, "categories"}).delete(ctx, slug)
}

type GenreModel struct {
	DB *pgxpool.Pool
}

func (m *GenreModel) List(ctx context.Context, search string, filters filters.Filters) ([]models.Genre, int, error) {
	rows, total, err := (&slugTable{m.DB, "genres"}).list(ctx, search, filters)
	if err != nil {
		return nil, 0, err
	}
	genres := make([]models.Genre, 0, len(rows))
	for _, r := range rows {
		genres = append(genres, models.Genre(r))
	}
	return genres, total, nil
}

func (m *GenreModel) GetBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	row, err := (&slugTable{m.DB, "genres"}).getBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	genre := models.Genre(*row)
	return &genre, nil
}

func (m *GenreModel) GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	rows, _ := m.DB.Query(ctx, "SELECT id, name, slug FROM genres WHERE slug = ANY($1) ORDER BY id", slugs)
	genres, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Genre])
	if err != nil {
		return nil, err
	}
	return genres, nil
}

func (m *GenreModel) Insert(ctx context.Context, name, slug string) (*models.Genre, error) {
	row, err := (&slugTable{m.DB, "genres"}).insert(ctx, name, slug)
	if err != nil {
		return nil, err
	}
	genre := models.Genre(*row)
	return &genre, nil
}

func (m *GenreModel) Delete(ctx context.Context, slug string) error {
	return (&slugTable{m.DB, "genres"}).delete(ctx, slug)
}
