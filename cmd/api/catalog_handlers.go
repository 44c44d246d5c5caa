package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reviewdb/proj/internal/lib/validator"
	"reviewdb/proj/internal/services/catalog"
	"reviewdb/proj/internal/storage"
)

type classificationPayload struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

func (app *Application) listCategories(w http.ResponseWriter, r *http.Request) {
	var query listQuery
	if err := app.decodeQuery(r, &query); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, query); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	f := query.filters("name", "name", "slug")
	categories, total, err := app.services.Catalog.ListCategories(r.Context(), query.Search, f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{
		"categories": categories,
		"metadata":   listMetadata(total, f.Limit, f.Offset),
	}, "")
}

func (app *Application) createCategory(w http.ResponseWriter, r *http.Request) {
	var payload classificationPayload
	if err := app.readJSON(w, r, &payload); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, payload); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	category, err := app.services.Catalog.CreateCategory(r.Context(), payload.Name, payload.Slug)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			app.Http.Conflict(w, r, "A category with this slug already exists")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"category": category}, "")
}

func (app *Application) deleteCategory(w http.ResponseWriter, r *http.Request) {
	err := app.services.Catalog.DeleteCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrCategoryNotFound) {
			app.Http.NotFound(w, r, "Category not found")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r, "")
}

func (app *Application) listGenres(w http.ResponseWriter, r *http.Request) {
	var query listQuery
	if err := app.decodeQuery(r, &query); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, query); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	f := query.filters("name", "name", "slug")
	genres, total, err := app.services.Catalog.ListGenres(r.Context(), query.Search, f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{
		"genres":   genres,
		"metadata": listMetadata(total, f.Limit, f.Offset),
	}, "")
}

func (app *Application) createGenre(w http.ResponseWriter, r *http.Request) {
	var payload classificationPayload
	if err := app.readJSON(w, r, &payload); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, payload); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	genre, err := app.services.Catalog.CreateGenre(r.Context(), payload.Name, payload.Slug)
	if err != nil {
		switch {
		case errors.Is(err, catalog.ErrGenreAlreadyExists):
			app.Http.ValidationError(w, r, map[string]string{
				"slug": "A genre with this slug already exists",
			})
		case errors.Is(err, storage.ErrConflict):
			app.Http.Conflict(w, r, "A genre with this slug already exists")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Created(w, r, envelop{"genre": genre}, "")
}

func (app *Application) deleteGenre(w http.ResponseWriter, r *http.Request) {
	err := app.services.Catalog.DeleteGenre(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, catalog.ErrGenreNotFound) {
			app.Http.NotFound(w, r, "Genre not found")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r, "")
}
