package catalog

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

type fakeGenres struct {
	genres map[string]*models.Genre
	nextID int64
}

func newFakeGenres() *fakeGenres {
	return &fakeGenres{genres: make(map[string]*models.Genre)}
}

func (f *fakeGenres) List(_ context.Context, _ string, _ filters.Filters) ([]models.Genre, int, error) {
	var out []models.Genre
	for _, g := range f.genres {
		out = append(out, *g)
	}
	return out, len(out), nil
}

func (f *fakeGenres) GetBySlug(_ context.Context, slug string) (*models.Genre, error) {
	if g, ok := f.genres[slug]; ok {
		return g, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeGenres) Insert(_ context.Context, name, slug string) (*models.Genre, error) {
	if _, ok := f.genres[slug]; ok {
		return nil, storage.ErrConflict
	}
	f.nextID++
	g := &models.Genre{ID: f.nextID, Name: name, Slug: slug}
	f.genres[slug] = g
	return g, nil
}

func (f *fakeGenres) Delete(_ context.Context, slug string) error {
	if _, ok := f.genres[slug]; !ok {
		return storage.ErrNotFound
	}
	delete(f.genres, slug)
	return nil
}

type fakeCategories struct{ fakeGenres }

func (f *fakeCategories) List(ctx context.Context, search string, fl filters.Filters) ([]models.Category, int, error) {
	genres, total, _ := f.fakeGenres.List(ctx, search, fl)
	out := make([]models.Category, 0, len(genres))
	for _, g := range genres {
		out = append(out, models.Category(g))
	}
	return out, total, nil
}

func (f *fakeCategories) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	g, err := f.fakeGenres.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	c := models.Category(*g)
	return &c, nil
}

func (f *fakeCategories) Insert(ctx context.Context, name, slug string) (*models.Category, error) {
	g, err := f.fakeGenres.Insert(ctx, name, slug)
	if err != nil {
		return nil, err
	}
	c := models.Category(*g)
	return &c, nil
}

func newTestService() *CatalogService {
	categories := &fakeCategories{*newFakeGenres()}
	return New(slog.Default(), categories, newFakeGenres())
}

func TestCreateGenreRejectsExistingSlug(t *testing.T) {
	svc := newTestService()
	_, err := svc.CreateGenre(context.Background(), "Science Fiction", "sci-fi")
	require.NoError(t, err)
	_, err = svc.CreateGenre(context.Background(), "Sci-Fi Again", "sci-fi")
	assert.ErrorIs(t, err, ErrGenreAlreadyExists)
}

func TestCreateCategoryDuplicateBubblesConflict(t *testing.T) {
	svc := newTestService()
	_, err := svc.CreateCategory(context.Background(), "Books", "books")
	require.NoError(t, err)
	_, err = svc.CreateCategory(context.Background(), "Books 2", "books")
	assert.ErrorIs(t, err, storage.ErrConflict)
}

func TestDeleteMissing(t *testing.T) {
	svc := newTestService()
	assert.ErrorIs(t, svc.DeleteCategory(context.Background(), "nope"), ErrCategoryNotFound)
	assert.ErrorIs(t, svc.DeleteGenre(context.Background(), "nope"), ErrGenreNotFound)
}
