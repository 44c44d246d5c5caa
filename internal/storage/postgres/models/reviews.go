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

type ReviewModel struct {
	DB *pgxpool.Pool
}

const reviewSelect = `
	SELECT %s r.id, r.title_id, r.author_id, u.username AS author, r.text, r.score, r.pub_date
	FROM reviews r
	JOIN users u ON u.id = r.author_id
`

func (m *ReviewModel) ListForTitle(ctx context.Context, titleID int64, filters filters.Filters) ([]models.Review, int, error) {
	query := fmt.Sprintf(reviewSelect+`
	WHERE r.title_id = $1
	ORDER BY r.pub_date ASC, r.id ASC
	LIMIT $2 OFFSET $3
	`, "count(*) OVER() AS total,")
	rows, _ := m.DB.Query(ctx, query, titleID, filters.Limit, filters.Offset)
	type row struct {
		Total int
		models.Review
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	reviews := make([]models.Review, 0, len(outputRows))
	for _, r := range outputRows {
		reviews = append(reviews, r.Review)
	}
	if len(outputRows) == 0 {
		return reviews, 0, nil
	}
	return reviews, outputRows[0].Total, nil
}

func (m *ReviewModel) Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	query := fmt.Sprintf(reviewSelect+" WHERE r.id = $1 AND r.title_id = $2", "")
	rows, _ := m.DB.Query(ctx, query, reviewID, titleID)
	return collectReview(rows)
}

func (m *ReviewModel) GetByAuthorAndTitle(ctx context.Context, authorID, titleID int64) (*models.Review, error) {
	query := fmt.Sprintf(reviewSelect+" WHERE r.author_id = $1 AND r.title_id = $2", "")
	rows, _ := m.DB.Query(ctx, query, authorID, titleID)
	return collectReview(rows)
}

func (m *ReviewModel) Insert(ctx context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error) {
	rows, _ := m.DB.Query(
		ctx,
		`WITH inserted AS (
			INSERT INTO reviews (title_id, author_id, text, score)
			VALUES ($1, $2, $3, $4)
			RETURNING id, title_id, author_id, text, score, pub_date
		)
		SELECT i.id, i.title_id, i.author_id, u.username AS author, i.text, i.score, i.pub_date
		FROM inserted i JOIN users u ON u.id = i.author_id`,
		titleID,
		authorID,
		text,
		score,
	)
	return collectReview(rows)
}

// Update changes text and score only. pub_date is set once at insert and
// never touched again.
func (m *ReviewModel) Update(ctx context.Context, review *models.Review) (*models.Review, error) {
	rows, _ := m.DB.Query(
		ctx,
		`WITH updated AS (
			UPDATE reviews SET text = $1, score = $2 WHERE id = $3
			RETURNING id, title_id, author_id, text, score, pub_date
		)
		SELECT u2.id, u2.title_id, u2.author_id, u.username AS author, u2.text, u2.score, u2.pub_date
		FROM updated u2 JOIN users u ON u.id = u2.author_id`,
		review.Text,
		review.Score,
		review.ID,
	)
	return collectReview(rows)
}

func (m *ReviewModel) Delete(ctx context.Context, titleID, reviewID int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM reviews WHERE id = $1 AND title_id = $2", reviewID, titleID)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func collectReview(rows pgx.Rows) (*models.Review, error) {
	review, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Review])
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
	return &review, nil
}
