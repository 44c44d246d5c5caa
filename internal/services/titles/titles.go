package titles

import (
	"context"
	"errors"
	"log/slog"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/storage"
	pgmodels "reviewdb/proj/internal/storage/postgres/models"
)

type TitlesStorage interface {
	List(ctx context.Context, search pgmodels.TitleSearch, filters filters.Filters) ([]models.Title, int, error)
	Get(ctx context.Context, id int64) (*models.Title, error)
	Insert(ctx context.Context, name string, year int32, description string, categoryID *int64, genreIDs []int64) (*models.Title, error)
	Update(ctx context.Context, id int64, name string, year int32, description string, categoryID *int64, genreIDs []int64) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type CategoriesStorage interface {
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
}

type GenresStorage interface {
	GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
}

type TitleService struct {
	log        *slog.Logger
	storage    TitlesStorage
	categories CategoriesStorage
	genres     GenresStorage
}

func New(log *slog.Logger, storage TitlesStorage, categories CategoriesStorage, genres GenresStorage) *TitleService {
	return &TitleService{
		log:        log,
		storage:    storage,
		categories: categories,
		genres:     genres,
	}
}

type CreateTitleParams struct {
	Name         string
	Year         int32
	Description  string
	CategorySlug string
	GenreSlugs   []string
}

// UpdateTitleParams carries a partial update. Nil fields keep their stored
// value; a nil GenreSlugs leaves the genre links untouched.
type UpdateTitleParams struct {
	Name         *string
	Year         *int32
	Description  *string
	CategorySlug *string
	GenreSlugs   []string
}

func (s *TitleService) List(ctx context.Context, search pgmodels.TitleSearch, filters filters.Filters) ([]models.Title, int, error) {
	const op = "titles.TitleService.List"
	titles, total, err := s.storage.List(ctx, search, filters)
	if err != nil {
		s.log.With("op", op).Error(err.Error())
		return nil, 0, err
	}
	return titles, total, nil
}

func (s *TitleService) Get(ctx context.Context, id int64) (*models.Title, error) {
	const op = "titles.TitleService.Get"
	log := s.log.With("op", op, "id", id)
	title, err := s.storage.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return nil, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return title, nil
}

func (s *TitleService) Create(ctx context.Context, params CreateTitleParams) (*models.Title, error) {
	const op = "titles.TitleService.Create"
	log := s.log.With("op", op, "name", params.Name)
	categoryID, err := s.resolveCategory(ctx, params.CategorySlug)
	if err != nil {
		return nil, err
	}
	genreIDs, err := s.resolveGenres(ctx, params.GenreSlugs)
	if err != nil {
		return nil, err
	}
	title, err := s.storage.Insert(ctx, params.Name, params.Year, params.Description, categoryID, genreIDs)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	return title, nil
}

func (s *TitleService) Update(ctx context.Context, id int64, params UpdateTitleParams) (*models.Title, error) {
	const op = "titles.TitleService.Update"
	log := s.log.With("op", op, "id", id)
	title, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := title.Name
	year := title.Year
	description := title.Description
	if params.Name != nil {
		name = *params.Name
	}
	if params.Year != nil {
		year = *params.Year
	}
	if params.Description != nil {
		description = *params.Description
	}
	var categoryID *int64
	if params.CategorySlug != nil {
		categoryID, err = s.resolveCategory(ctx, *params.CategorySlug)
		if err != nil {
			return nil, err
		}
	} else if title.Category != nil {
		categoryID = &title.Category.ID
	}
	var genreIDs []int64
	if params.GenreSlugs != nil {
		genreIDs, err = s.resolveGenres(ctx, params.GenreSlugs)
		if err != nil {
			return nil, err
		}
	}
	updated, err := s.storage.Update(ctx, id, name, year, description, categoryID, genreIDs)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTitleNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return updated, nil
}

func (s *TitleService) Delete(ctx context.Context, id int64) error {
	const op = "titles.TitleService.Delete"
	log := s.log.With("op", op, "id", id)
	if err := s.storage.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("title not found")
			return ErrTitleNotFound
		}
		log.Error(err.Error())
		return err
	}
	return nil
}

func (s *TitleService) resolveCategory(ctx context.Context, slug string) (*int64, error) {
	if slug == "" {
		return nil, nil
	}
	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category.ID, nil
}

func (s *TitleService) resolveGenres(ctx context.Context, slugs []string) ([]int64, error) {
	if len(slugs) == 0 {
		return []int64{}, nil
	}
	genres, err := s.genres.GetBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	found := make(map[string]int64, len(genres))
	for _, g := range genres {
		found[g.Slug] = g.ID
	}
	ids := make([]int64, 0, len(slugs))
	for _, slug := range slugs {
		id, ok := found[slug]
		if !ok {
			return nil, ErrGenreNotFound
		}
		ids = append(ids, id)
	}
	return ids, nil
}
