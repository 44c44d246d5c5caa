package main

import (
	"errors"
	"net/http"

	"reviewdb/proj/internal/lib/validator"
	"reviewdb/proj/internal/services/auth"
)

func (app *Application) signup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username" validate:"required,max=150,username,notreserved"`
		Email    string `json:"email" validate:"required,max=254,email"`
	}
	if err := app.readJSON(w, r, &payload); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, payload); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	user, err := app.services.Auth.Signup(r.Context(), payload.Username, payload.Email)
	if err != nil {
		if errors.Is(err, auth.ErrAlreadyRegistered) {
			app.Http.BadRequest(w, r, "A user with this username or email already exists")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	// The idempotent repeat path sends no mail, so the message must not
	// promise a dispatch.
	app.Http.Ok(w, r, envelop{
		"username": user.Username,
		"email":    user.Email,
	}, "Signup accepted")
}

func (app *Application) token(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username         string `json:"username" validate:"required,max=150,username,notreserved"`
		ConfirmationCode string `json:"confirmation_code" validate:"required"`
	}
	if err := app.readJSON(w, r, &payload); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, payload); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	token, err := app.services.Auth.Token(r.Context(), payload.Username, payload.ConfirmationCode)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			app.Http.NotFound(w, r, "User not found")
		case errors.Is(err, auth.ErrInvalidConfirmationCode):
			app.Http.BadRequest(w, r, "Invalid confirmation code")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Ok(w, r, envelop{"token": token}, "")
}
