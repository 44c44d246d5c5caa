package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"
)

type CommentModel struct {
	DB *pgxpool.Pool
}

const commentSelect = `
	SELECT %s c.id, c.review_id, c.author_id, u.username AS author, c.text, c.pub_date
	FROM comments c
	JOIN users u ON u.id = c.author_id
`

func (m *CommentModel) ListForReview(ctx context.Context, reviewID int64, filters filters.Filters) ([]models.Comment, int, error) {
	query := fmt.Sprintf(commentSelect+`
	WHERE c.review_id = $1
	ORDER BY c.pub_date DESC, c.id DESC
	LIMIT $2 OFFSET $3
	`, "count(*) OVER() AS total,")
	rows, _ := m.DB.Query(ctx, query, reviewID, filters.Limit, filters.Offset)
	type row struct {
		Total int
		models.Comment
	}
	outputRows, err := pgx.CollectRows(rows, pgx.RowToStructByName[row])
	if err != nil {
		return nil, 0, err
	}
	comments := make([]models.Comment, 0, len(outputRows))
	for _, r := range outputRows {
		comments = append(comments, r.Comment)
	}
	if len(outputRows) == 0 {
		return comments, 0, nil
	}
	return comments, outputRows[0].Total, nil
}

func (m *CommentModel) Get(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	query := fmt.Sprintf(commentSelect+" WHERE c.id = $1 AND c.review_id = $2", "")
	rows, _ := m.DB.Query(ctx, query, commentID, reviewID)
	return collectComment(rows)
}

func (m *CommentModel) Insert(ctx context.Context, reviewID, authorID int64, text string) (*models.Comment, error) {
	rows, _ := m.DB.Query(
		ctx,
		`WITH inserted AS (
			INSERT INTO comments (review_id, author_id, text)
			VALUES ($1, $2, $3)
			RETURNING id, review_id, author_id, text, pub_date
		)
		SELECT i.id, i.review_id, i.author_id, u.username AS author, i.text, i.pub_date
		FROM inserted i JOIN users u ON u.id = i.author_id`,
		reviewID,
		authorID,
		text,
	)
	return collectComment(rows)
}

func (m *CommentModel) Update(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	rows, _ := m.DB.Query(
		ctx,
		`WITH updated AS (
			UPDATE comments SET text = $1 WHERE id = $2
			RETURNING id, review_id, author_id, text, pub_date
		)
		SELECT c.id, c.review_id, c.author_id, u.username AS author, c.text, c.pub_date
		FROM updated c JOIN users u ON u.id = c.author_id`,
		comment.Text,
		comment.ID,
	)
	return collectComment(rows)
}

func (m *CommentModel) Delete(ctx context.Context, reviewID, commentID int64) error {
	status, err := m.DB.Exec(ctx, "DELETE FROM comments WHERE id = $1 AND review_id = $2", commentID, reviewID)
	if err != nil {
		return err
	}
	if status.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func collectComment(rows pgx.Rows) (*models.Comment, error) {
	comment, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Comment])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	return &comment, nil
}
