package main

import (
	"errors"
	"net/http"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/lib/validator"
	"reviewdb/proj/internal/services/titles"
	pgmodels "reviewdb/proj/internal/storage/postgres/models"
)

type titleQuery struct {
	Category string `schema:"category" validate:"omitempty,max=50,slug"`
	Genre    string `schema:"genre" validate:"omitempty,max=50,slug"`
	Name     string `schema:"name" validate:"omitempty,max=256"`
	Year     int32  `schema:"year" validate:"omitempty,gt=0"`
	Sort     string `schema:"sort" validate:"omitempty,sortbytitlefield"`
	Limit    int    `schema:"limit" validate:"omitempty,gte=0,lte=100"`
	Offset   int    `schema:"offset" validate:"omitempty,gte=0"`
}

func (app *Application) listTitles(w http.ResponseWriter, r *http.Request) {
	var query titleQuery
	if err := app.decodeQuery(r, &query); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, query); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	f := filters.Filters{
		Limit:        query.Limit,
		Offset:       query.Offset,
		Sort:         query.Sort,
		SortSafelist: []string{"name", "year", "rating"},
	}
	f.Normalize("-rating")
	search := pgmodels.TitleSearch{
		CategorySlug: query.Category,
		GenreSlug:    query.Genre,
		Name:         query.Name,
		Year:         query.Year,
	}
	titlesList, total, err := app.services.Titles.List(r.Context(), search, f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{
		"titles":   titlesList,
		"metadata": listMetadata(total, f.Limit, f.Offset),
	}, "")
}

func (app *Application) getTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	title, err := app.services.Titles.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, titles.ErrTitleNotFound) {
			app.Http.NotFound(w, r, "Title not found")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"title": title}, "")
}

func (app *Application) createTitle(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name        string   `json:"name" validate:"required,max=256"`
		Year        int32    `json:"year" validate:"required,gt=0,notfutureyear"`
		Description string   `json:"description" validate:"omitempty"`
		Category    string   `json:"category" validate:"omitempty,max=50,slug"`
		Genres      []string `json:"genre" validate:"omitempty,dive,max=50,slug"`
	}
	if err := app.readJSON(w, r, &payload); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, payload); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	title, err := app.services.Titles.Create(r.Context(), titles.CreateTitleParams{
		Name:         payload.Name,
		Year:         payload.Year,
		Description:  payload.Description,
		CategorySlug: payload.Category,
		GenreSlugs:   payload.Genres,
	})
	if err != nil {
		app.titleWriteError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"title": title}, "")
}

func (app *Application) updateTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	var payload struct {
		Name        *string  `json:"name" validate:"omitempty,max=256"`
		Year        *int32   `json:"year" validate:"omitempty,gt=0,notfutureyear"`
		Description *string  `json:"description"`
		Category    *string  `json:"category" validate:"omitempty,max=50,slug"`
		Genres      []string `json:"genre" validate:"omitempty,dive,max=50,slug"`
	}
	if err := app.readJSON(w, r, &payload); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, payload); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	title, err := app.services.Titles.Update(r.Context(), id, titles.UpdateTitleParams{
		Name:         payload.Name,
		Year:         payload.Year,
		Description:  payload.Description,
		CategorySlug: payload.Category,
		GenreSlugs:   payload.Genres,
	})
	if err != nil {
		app.titleWriteError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"title": title}, "")
}

func (app *Application) deleteTitle(w http.ResponseWriter, r *http.Request) {
	id, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	if err := app.services.Titles.Delete(r.Context(), id); err != nil {
		if errors.Is(err, titles.ErrTitleNotFound) {
			app.Http.NotFound(w, r, "Title not found")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r, "")
}

// titleWriteError maps unresolved classification slugs to field errors, any
// other failure is a server error.
func (app *Application) titleWriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, titles.ErrTitleNotFound):
		app.Http.NotFound(w, r, "Title not found")
	case errors.Is(err, titles.ErrCategoryNotFound):
		app.Http.ValidationError(w, r, map[string]string{"category": "Unknown category slug"})
	case errors.Is(err, titles.ErrGenreNotFound):
		app.Http.ValidationError(w, r, map[string]string{"genre": "Unknown genre slug"})
	default:
		app.Http.ServerError(w, r, err, "")
	}
}
