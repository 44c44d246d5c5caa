package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"reviewdb/proj/internal/domain/models"
	"reviewdb/proj/internal/lib/validator"
	"reviewdb/proj/internal/services/users"
)

type updateUserPayload struct {
	Username  *string `json:"username" validate:"omitempty,max=150,username,notreserved"`
	Email     *string `json:"email" validate:"omitempty,max=254,email"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" validate:"omitempty,role"`
}

func (p updateUserPayload) params() users.UpdateUserParams {
	params := users.UpdateUserParams{
		Username:  p.Username,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Bio:       p.Bio,
	}
	if p.Role != nil {
		role := models.Role(*p.Role)
		params.Role = &role
	}
	return params
}

func (app *Application) listUsers(w http.ResponseWriter, r *http.Request) {
	var query listQuery
	if err := app.decodeQuery(r, &query); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, query); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	f := query.filters("username", "username")
	usersList, total, err := app.services.Users.List(r.Context(), query.Search, f)
	if err != nil {
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{
		"users":    usersList,
		"metadata": listMetadata(total, f.Limit, f.Offset),
	}, "")
}

func (app *Application) createUser(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username  string `json:"username" validate:"required,max=150,username,notreserved"`
		Email     string `json:"email" validate:"required,max=254,email"`
		FirstName string `json:"first_name" validate:"omitempty,max=150"`
		LastName  string `json:"last_name" validate:"omitempty,max=150"`
		Bio       string `json:"bio"`
		Role      string `json:"role" validate:"omitempty,role"`
	}
	if err := app.readJSON(w, r, &payload); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, payload); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	user, err := app.services.Users.Create(r.Context(), users.CreateUserParams{
		Username:  payload.Username,
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Bio:       payload.Bio,
		Role:      models.Role(payload.Role),
	})
	if err != nil {
		if errors.Is(err, users.ErrUserAlreadyExists) {
			app.Http.BadRequest(w, r, "A user with this username or email already exists")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Created(w, r, envelop{"user": user}, "")
}

func (app *Application) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := app.services.Users.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			app.Http.NotFound(w, r, "User not found")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) updateUser(w http.ResponseWriter, r *http.Request) {
	var payload updateUserPayload
	if err := app.readJSON(w, r, &payload); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, payload); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	user, err := app.services.Users.Update(r.Context(), chi.URLParam(r, "username"), payload.params())
	if err != nil {
		app.userWriteError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := app.services.Users.Delete(r.Context(), chi.URLParam(r, "username")); err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			app.Http.NotFound(w, r, "User not found")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r, "")
}

func (app *Application) getCurrentUser(w http.ResponseWriter, r *http.Request) {
	app.Http.Ok(w, r, envelop{"user": app.contextUser(r)}, "")
}

// updateCurrentUser is the self-service profile edit. A role field in the
// payload is accepted but never applied.
func (app *Application) updateCurrentUser(w http.ResponseWriter, r *http.Request) {
	var payload updateUserPayload
	if err := app.readJSON(w, r, &payload); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, payload); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	user, err := app.services.Users.UpdateSelf(r.Context(), app.contextUser(r), payload.params())
	if err != nil {
		app.userWriteError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"user": user}, "")
}

func (app *Application) userWriteError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, users.ErrUserNotFound):
		app.Http.NotFound(w, r, "User not found")
	case errors.Is(err, users.ErrUserAlreadyExists):
		app.Http.BadRequest(w, r, "A user with this username or email already exists")
	default:
		app.Http.ServerError(w, r, err, "")
	}
}
