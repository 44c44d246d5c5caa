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

type TitleModel struct {
	DB *pgxpool.Pool
}

// TitleSearch is the set of exact/substring filters applied to the title list.
type TitleSearch struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         int32
}

// titleRow is the flat shape of the annotated titles query. Rating is the
// mean review score, NULL when the title has no reviews.
type titleRow struct {
	ID           int64
	Name         string
	Year         int32
	Description  string
	Rating       *float64
	CategoryID   *int64  `db:"category_id"`
	CategoryName *string `db:"category_name"`
	CategorySlug *string `db:"category_slug"`
}

const titleSelect = `
	SELECT %s t.id, t.name, t.year, t.description,
		AVG(r.score)::float8 AS rating,
		c.id AS category_id, c.name AS category_name, c.slug AS category_slug
	FROM titles t
	LEFT JOIN reviews r ON r.title_id = t.id
	LEFT JOIN categories c ON c.id = t.category_id
`

func (m *TitleModel) List(ctx context.Context, search TitleSearch, filters filters.Filters) ([]models.Title, int, error) {
	query := fmt.Sprintf(titleSelect+`
	WHERE (t.name ILIKE '%%' || $1 || '%%' OR $1 = '')
	AND (c.slug = $2 OR $2 = '')
	AND (t.year = $3 OR $3 = 0)
	AND ($4 = '' OR EXISTS (
		SELECT 1 FROM genre_titles gt JOIN genres g ON g.id = gt.genre_id
		WHERE gt.title_id = t.id AND g.slug = $4
	))
	GROUP BY t.id, c.id
	ORDER BY %s %s NULLS LAST, t.id ASC
	LIMIT $5 OFFSET $6
	`, "count(*) OVER() AS total,", filters.SortColumn(), filters.SortDirection())
	rows, _ := m.DB.Query(
		ctx,
		query,
		search.Name,
		search.CategorySlug,
		search.Year,
		search.GenreSlug,
		filters.Limit,
		filters.Offset,
	)
	type row struct {
		Total int
		titleRow
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	titles := make([]models.Title, 0, len(outputRows))
	ids := make([]int64, 0, len(outputRows))
	for _, r := range outputRows {
		titles = append(titles, r.titleRow.toTitle())
		ids = append(ids, r.ID)
	}
	if len(outputRows) == 0 {
		return titles, 0, nil
	}
	if err := m.attachGenres(ctx, titles, ids); err != nil {
		return nil, 0, err
	}
	return titles, outputRows[0].Total, nil
}

func (m *TitleModel) Get(ctx context.Context, id int64) (*models.Title, error) {
	query := fmt.Sprintf(titleSelect+" WHERE t.id = $1 GROUP BY t.id, c.id", "")
	rows, _ := m.DB.Query(ctx, query, id)
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[titleRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	titles := []models.Title{row.toTitle()}
	if err := m.attachGenres(ctx, titles, []int64{row.ID}); err != nil {
		return nil, err
	}
	return &titles[0], nil
}

// Exists is a cheap presence check used by the nested review routes.
func (m *TitleModel) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := m.DB.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM titles WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

func (m *TitleModel) Insert(ctx context.Context, name string, year int32, description string, categoryID *int64, genreIDs []int64) (*models.Title, error) {
	var id int64
	err := pgx.BeginFunc(ctx, m.DB, func(tx pgx.Tx) error {
		err := tx.QueryRow(
			ctx,
			"INSERT INTO titles (name, year, description, category_id) VALUES ($1, $2, $3, $4) RETURNING id",
			name,
			year,
			description,
			categoryID,
		).Scan(&id)
		if err != nil {
			return err
		}
		return insertGenreLinks(ctx, tx, id, genreIDs)
	})
	if err != nil {
		var pgxErr *pgconn.PgError
		if errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return m.Get(ctx, id)
}

func (m *TitleModel) Update(ctx context.Context, id int64, name string, year int32, description string, categoryID *int64, genreIDs []int64) (*models.Title, error) {
	err := pgx.BeginFunc(ctx, m.DB, func(tx pgx.Tx) error {
		status, err := tx.Exec(
			ctx,
			"UPDATE titles SET name = $1, year = $2, description = $3, category_id = $4 WHERE id = $5",
			name,
			year,
			description,
			categoryID,
			id,
		)
		if err != nil {
			return err
		}
		if status.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
		if genreIDs == nil {
			return nil
		}
		if _, err := tx.Exec(ctx, "DELETE FROM genre_titles WHERE title_id = $1", id); err != nil {
			return err
		}
		return insertGenreLinks(ctx, tx, id, genreIDs)
	})
	if err != nil {
		var pgxErr *pgconn.PgError
		if errors.As(err, &pgxErr) && pgxErr.Code == postgres.ErrConflictCode {
			return nil, storage.ErrConflict
		}
		return nil, err
	}
	return m.Get(ctx, id)
}

func (m *TitleModel) Delete(ctx context.Context, id int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM titles WHERE id = $1", id)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func insertGenreLinks(ctx context.Context, tx pgx.Tx, titleID int64, genreIDs []int64) error {
	for _, genreID := range genreIDs {
		_, err := tx.Exec(
			ctx,
			"INSERT INTO genre_titles (title_id, genre_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			titleID,
			genreID,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *TitleModel) attachGenres(ctx context.Context, titles []models.Title, ids []int64) error {
	rows, _ := m.DB.Query(
		ctx,
		`SELECT gt.title_id, g.id, g.name, g.slug FROM genre_titles gt
		JOIN genres g ON g.id = gt.genre_id
		WHERE gt.title_id = ANY($1) ORDER BY g.id`,
		ids,
	)
	type genreLink struct {
		TitleID int64 `db:"title_id"`
		ID      int64
		Name    string
		Slug    string
	}
	links, err := pgx.CollectRows(rows, pgx.RowToStructByName[genreLink])
	if err != nil {
		return err
	}
	byTitle := make(map[int64][]models.Genre, len(titles))
	for _, link := range links {
		byTitle[link.TitleID] = append(byTitle[link.TitleID], models.Genre{
			ID:   link.ID,
			Name: link.Name,
			Slug: link.Slug,
		})
	}
	for i := range titles {
		if genres, ok := byTitle[titles[i].ID]; ok {
			titles[i].Genres = genres
		} else {
			titles[i].Genres = []models.Genre{}
		}
	}
	return nil
}

func (r titleRow) toTitle() models.Title {
	title := models.Title{
		ID:          r.ID,
		Name:        r.Name,
		Year:        r.Year,
		Description: r.Description,
		Rating:      r.Rating,
	}
	if r.CategoryID != nil {
		title.Category = &models.Category{
			ID:   *r.CategoryID,
			Name: *r.CategoryName,
			Slug: *r.CategorySlug,
		}
	}
	return title
}
