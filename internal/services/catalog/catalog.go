package catalog

import (
	"context"
	"errors"
	"log/slog"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"
)

type CategoriesStorage interface {
	List(ctx context.Context, search string, filters filters.Filters) ([]models.Category, int, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Insert(ctx context.Context, name, slug string) (*models.Category, error)
	Delete(ctx context.Context, slug string) error
}

type GenresStorage interface {
	List(ctx context.Context, search string, filters filters.Filters) ([]models.Genre, int, error)
	GetBySlug(ctx context.Context, slug string) (*models.Genre, error)
	Insert(ctx context.Context, name, slug string) (*models.Genre, error)
	Delete(ctx context.Context, slug string) error
}

// CatalogService manages the two classification axes of the title catalog.
type CatalogService struct {
	log        *slog.Logger
	categories CategoriesStorage
	genres     GenresStorage
}

func New(log *slog.Logger, categories CategoriesStorage, genres GenresStorage) *CatalogService {
	return &CatalogService{
		log:        log,
		categories: categories,
		genres:     genres,
	}
}

func (s *CatalogService) ListCategories(ctx context.Context, search string, filters filters.Filters) ([]models.Category, int, error) {
	const op = "catalog.CatalogService.ListCategories"
	categories, total, err := s.categories.List(ctx, search, filters)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return categories, total, nil
}

// CreateCategory relies on the database unique constraint for slug
// uniqueness, a duplicate bubbles up as storage.ErrConflict.
func (s *CatalogService) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	const op = "catalog.CatalogService.CreateCategory"
	log := s.log.With("op", op, "slug", slug)
	category, err := s.categories.Insert(ctx, name, slug)
	if err != nil {
		if !errors.Is(err, storage.ErrConflict) {
			log.Error(err.Error())
		}
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	const op = "catalog.CatalogService.DeleteCategory"
	log := s.log.With("op", op, "slug", slug)
	if err := s.categories.Delete(ctx, slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("category not found")
			return ErrCategoryNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *CatalogService) ListGenres(ctx context.Context, search string, filters filters.Filters) ([]models.Genre, int, error) {
	const op = "catalog.CatalogService.ListGenres"
	genres, total, err := s.genres.List(ctx, search, filters)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return genres, total, nil
}

// CreateGenre proactively rejects an existing slug before the insert, so an
// admin duplicate reads as a validation failure rather than a conflict. The
// unique constraint stays as the backstop for races.
func (s *CatalogService) CreateGenre(ctx context.Context, name, slug string) (*models.Genre, error) {
	const op = "catalog.CatalogService.CreateGenre"
	log := s.log.With("op", op, "slug", slug)
	if _, err := s.genres.GetBySlug(ctx, slug); err == nil {
		log.Info("genre slug already exists")
		return nil, ErrGenreAlreadyExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		log.Error(err.Error())
		return nil, err
	}
	genre, err := s.genres.Insert(ctx, name, slug)
	if err != nil {
		if !errors.Is(err, storage.ErrConflict) {
			log.Error(err.Error())
		}
		return nil, err
	}
	return genre, nil
}

func (s *CatalogService) DeleteGenre(ctx context.Context, slug string) error {
	const op = "catalog.CatalogService.DeleteGenre"
	log := s.log.With("op", op, "slug", slug)
	if err := s.genres.Delete(ctx, slug); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("genre not found")
			return ErrGenreNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}
