package reviews

import (
	"context"
	"errors"
	"log/slog"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"
)

type ReviewsStorage interface {
	ListForTitle(ctx context.Context, titleID int64, filters filters.Filters) ([]models.Review, int, error)
	Get(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	GetByAuthorAndTitle(ctx context.Context, authorID, titleID int64) (*models.Review, error)
	Insert(ctx context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) (*models.Review, error)
	Delete(ctx context.Context, titleID, reviewID int64) error
}

type CommentsStorage interface {
	ListForReview(ctx context.Context, reviewID int64, filters filters.Filters) ([]models.Comment, int, error)
	Get(ctx context.Context, reviewID, commentID int64) (*models.Comment, error)
	Insert(ctx context.Context, reviewID, authorID int64, text string) (*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	Delete(ctx context.Context, reviewID, commentID int64) error
}

type TitlesStorage interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ReviewService serves the review and comment trees nested under titles.
type ReviewService struct {
	log      *slog.Logger
	reviews  ReviewsStorage
	comments CommentsStorage
	titles   TitlesStorage
}

func New(log *slog.Logger, reviews ReviewsStorage, comments CommentsStorage, titles TitlesStorage) *ReviewService {
	return &ReviewService{
		log:      log,
		reviews:  reviews,
		comments: comments,
		titles:   titles,
	}
}

func (s *ReviewService) requireTitle(ctx context.Context, titleID int64) error {
	exists, err := s.titles.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTitleNotFound
	}
	return nil
}

func (s *ReviewService) ListReviews(ctx context.Context, titleID int64, filters filters.Filters) ([]models.Review, int, error) {
	const op = "reviews.ReviewService.ListReviews"
	log := s.log.With("op", op, "title_id", titleID)
	if err := s.requireTitle(ctx, titleID); err != nil {
		if !errors.Is(err, ErrTitleNotFound) {
			log.Error(err.Error())
		}
		return nil, 0, err
	}
	reviews, total, err := s.reviews.ListForTitle(ctx, titleID, filters)
	if err != nil {
		log.Error(err.Error())
		return nil, 0, err
	}
	return reviews, total, nil
}

func (s *ReviewService) GetReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	const op = "reviews.ReviewService.GetReview"
	log := s.log.With("op", op, "title_id", titleID, "review_id", reviewID)
	review, err := s.reviews.Get(ctx, titleID, reviewID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("review not found")
			return nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return review, nil
}

// CreateReview enforces the one-review-per-author-per-title rule before the
// insert. The database unique constraint stays as the backstop, so a losing
// racer still surfaces storage.ErrConflict instead of a duplicate row.
func (s *ReviewService) CreateReview(ctx context.Context, titleID int64, author *models.User, text string, score int32) (*models.Review, error) {
	const op = "reviews.ReviewService.CreateReview"
	log := s.log.With("op", op, "title_id", titleID, "author", author.Username)
	if err := s.requireTitle(ctx, titleID); err != nil {
		if !errors.Is(err, ErrTitleNotFound) {
			log.Error(err.Error())
		}
		return nil, err
	}
	if _, err := s.reviews.GetByAuthorAndTitle(ctx, author.ID, titleID); err == nil {
		log.Info("duplicate review rejected")
		return nil, ErrReviewAlreadyExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Error(err.Error())
		return nil, err
	}
	review, err := s.reviews.Insert(ctx, titleID, author.ID, text, score)
	if err != nil {
		if !errors.Is(err, storage.ErrConflict) {
			log.Error(err.Error())
		}
		return nil, err
	}
	return review, nil
}

type UpdateReviewParams struct {
	Text  *string
	Score *int32
}

func (s *ReviewService) UpdateReview(ctx context.Context, review *models.Review, params UpdateReviewParams) (*models.Review, error) {
	const op = "reviews.ReviewService.UpdateReview"
	log := s.log.With("op", op, "review_id", review.ID)
	if params.Text != nil {
		review.Text = *params.Text
	}
	if params.Score != nil {
		review.Score = *params.Score
	}
	updated, err := s.reviews.Update(ctx, review)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, titleID, reviewID int64) error {
	const op = "reviews.ReviewService.DeleteReview"
	log := s.log.With("op", op, "title_id", titleID, "review_id", reviewID)
	if err := s.reviews.Delete(ctx, titleID, reviewID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("review not found")
			return ErrReviewNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *ReviewService) ListComments(ctx context.Context, titleID, reviewID int64, filters filters.Filters) ([]models.Comment, int, error) {
	const op = "reviews.ReviewService.ListComments"
	log := s.log.With("op", op, "review_id", reviewID)
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	comments, total, err := s.comments.ListForReview(ctx, reviewID, filters)
	if err != nil {
		log.Error(err.Error())
		return nil, 0, err
	}
	return comments, total, nil
}

func (s *ReviewService) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	const op = "reviews.ReviewService.GetComment"
	log := s.log.With("op", op, "review_id", reviewID, "comment_id", commentID)
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.Get(ctx, reviewID, commentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("comment not found")
			return nil, ErrCommentNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) CreateComment(ctx context.Context, titleID, reviewID int64, author *models.User, text string) (*models.Comment, error) {
	const op = "reviews.ReviewService.CreateComment"
	log := s.log.With("op", op, "review_id", reviewID, "author", author.Username)
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.Insert(ctx, reviewID, author.ID, text)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return comment, nil
}

func (s *ReviewService) UpdateComment(ctx context.Context, comment *models.Comment, text string) (*models.Comment, error) {
	const op = "reviews.ReviewService.UpdateComment"
	log := s.log.With("op", op, "comment_id", comment.ID)
	comment.Text = text
	updated, err := s.comments.Update(ctx, comment)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCommentNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *ReviewService) DeleteComment(ctx context.Context, titleID, reviewID, commentID int64) error {
	const op = "reviews.ReviewService.DeleteComment"
	log := s.log.With("op", op, "review_id", reviewID, "comment_id", commentID)
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, reviewID, commentID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("comment not found")
			return ErrCommentNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}
