package reviews

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"
)

type fakeReviews struct {
	reviews map[int64]*models.Review
	nextID  int64
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{reviews: make(map[int64]*models.Review)}
}

func (f *fakeReviews) ListForTitle(_ context.Context, titleID int64, _ filters.Filters) ([]models.Review, int, error) {
	var out []models.Review
	for _, r := range f.reviews {
		if r.TitleID == titleID {
			out = append(out, *r)
		}
	}
	return out, len(out), nil
}

func (f *fakeReviews) Get(_ context.Context, titleID, reviewID int64) (*models.Review, error) {
	if r, ok := f.reviews[reviewID]; ok && r.TitleID == titleID {
		clone := *r
		return &clone, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeReviews) GetByAuthorAndTitle(_ context.Context, authorID, titleID int64) (*models.Review, error) {
	for _, r := range f.reviews {
		if r.AuthorID == authorID && r.TitleID == titleID {
			clone := *r
			return &clone, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeReviews) Insert(_ context.Context, titleID, authorID int64, text string, score int32) (*models.Review, error) {
	for _, r := range f.reviews {
		if r.AuthorID == authorID && r.TitleID == titleID {
			return nil, storage.ErrConflict
		}
	}
	f.nextID++
	r := &models.Review{
		ID:       f.nextID,
		TitleID:  titleID,
		AuthorID: authorID,
		Text:     text,
		Score:    score,
		PubDate:  time.Now(),
	}
	f.reviews[r.ID] = r
	return r, nil
}

func (f *fakeReviews) Update(_ context.Context, review *models.Review) (*models.Review, error) {
	stored, ok := f.reviews[review.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	stored.Text = review.Text
	stored.Score = review.Score
	clone := *stored
	return &clone, nil
}

func (f *fakeReviews) Delete(_ context.Context, titleID, reviewID int64) error {
	if r, ok := f.reviews[reviewID]; ok && r.TitleID == titleID {
		delete(f.reviews, reviewID)
		return nil
	}
	return storage.ErrNotFound
}

type fakeComments struct {
	comments map[int64]*models.Comment
	nextID   int64
}

func newFakeComments() *fakeComments {
	return &fakeComments{comments: make(map[int64]*models.Comment)}
}

func (f *fakeComments) ListForReview(_ context.Context, reviewID int64, _ filters.Filters) ([]models.Comment, int, error) {
	var out []models.Comment
	for _, c := range f.comments {
		if c.ReviewID == reviewID {
			out = append(out, *c)
		}
	}
	return out, len(out), nil
}

func (f *fakeComments) Get(_ context.Context, reviewID, commentID int64) (*models.Comment, error) {
	if c, ok := f.comments[commentID]; ok && c.ReviewID == reviewID {
		clone := *c
		return &clone, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeComments) Insert(_ context.Context, reviewID, authorID int64, text string) (*models.Comment, error) {
	f.nextID++
	c := &models.Comment{ID: f.nextID, ReviewID: reviewID, AuthorID: authorID, Text: text, PubDate: time.Now()}
	f.comments[c.ID] = c
	return c, nil
}

func (f *fakeComments) Update(_ context.Context, comment *models.Comment) (*models.Comment, error) {
	stored, ok := f.comments[comment.ID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	stored.Text = comment.Text
	clone := *stored
	return &clone, nil
}

func (f *fakeComments) Delete(_ context.Context, reviewID, commentID int64) error {
	if c, ok := f.comments[commentID]; ok && c.ReviewID == reviewID {
		delete(f.comments, commentID)
		return nil
	}
	return storage.ErrNotFound
}

type fakeTitles struct {
	ids map[int64]bool
}

func (f *fakeTitles) Exists(_ context.Context, id int64) (bool, error) {
	return f.ids[id], nil
}

func newTestService() (*ReviewService, *fakeReviews) {
	reviews := newFakeReviews()
	svc := New(slog.Default(), reviews, newFakeComments(), &fakeTitles{ids: map[int64]bool{1: true}})
	return svc, reviews
}

func TestCreateReviewRejectsSecondReviewFromSameAuthor(t *testing.T) {
	svc, store := newTestService()
	author := &models.User{ID: 7, Username: "bob"}

	_, err := svc.CreateReview(context.Background(), 1, author, "great", 9)
	require.NoError(t, err)
	_, err = svc.CreateReview(context.Background(), 1, author, "changed my mind", 2)
	assert.ErrorIs(t, err, ErrReviewAlreadyExists)
	assert.Len(t, store.reviews, 1, "duplicate POST must not create a second row")

	other := &models.User{ID: 8, Username: "alice"}
	_, err = svc.CreateReview(context.Background(), 1, other, "fine", 5)
	assert.NoError(t, err)
}

func TestCreateReviewUnknownTitle(t *testing.T) {
	svc, _ := newTestService()
	author := &models.User{ID: 7, Username: "bob"}
	_, err := svc.CreateReview(context.Background(), 99, author, "great", 9)
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestListReviewsUnknownTitle(t *testing.T) {
	svc, _ := newTestService()
	_, _, err := svc.ListReviews(context.Background(), 99, filters.Filters{})
	assert.ErrorIs(t, err, ErrTitleNotFound)
}

func TestUpdateReviewPartial(t *testing.T) {
	svc, _ := newTestService()
	author := &models.User{ID: 7, Username: "bob"}
	review, err := svc.CreateReview(context.Background(), 1, author, "great", 9)
	require.NoError(t, err)

	newScore := int32(4)
	updated, err := svc.UpdateReview(context.Background(), review, UpdateReviewParams{Score: &newScore})
	require.NoError(t, err)
	assert.Equal(t, int32(4), updated.Score)
	assert.Equal(t, "great", updated.Text)
}

func TestCommentsRequireExistingReview(t *testing.T) {
	svc, _ := newTestService()
	author := &models.User{ID: 7, Username: "bob"}
	_, err := svc.CreateComment(context.Background(), 1, 42, author, "nice")
	assert.ErrorIs(t, err, ErrReviewNotFound)

	review, err := svc.CreateReview(context.Background(), 1, author, "great", 9)
	require.NoError(t, err)
	comment, err := svc.CreateComment(context.Background(), 1, review.ID, author, "nice")
	require.NoError(t, err)

	comments, total, err := svc.ListComments(context.Background(), 1, review.ID, filters.Filters{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, comment.ID, comments[0].ID)
}
