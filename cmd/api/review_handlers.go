package main

import (
	"errors"
	"net/http"

	"reviewdb/proj/internal/domain/permissions"
	"reviewdb/proj/internal/lib/validator"
	"reviewdb/proj/internal/services/reviews"
	"reviewdb/proj/internal/storage"
)

func (app *Application) listReviews(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	var query listQuery
	if err := app.decodeQuery(r, &query); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, query); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	f := query.filters("pub_date", "pub_date")
	reviewList, total, err := app.services.Reviews.ListReviews(r.Context(), titleID, f)
	if err != nil {
		if errors.Is(err, reviews.ErrTitleNotFound) {
			app.Http.NotFound(w, r, "Title not found")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{
		"reviews":  reviewList,
		"metadata": listMetadata(total, f.Limit, f.Offset),
	}, "")
}

func (app *Application) getReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	review, err := app.services.Reviews.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			app.Http.NotFound(w, r, "Review not found")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"review": review}, "")
}

func (app *Application) createReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	var payload struct {
		Text  string `json:"text" validate:"required"`
		Score int32  `json:"score" validate:"required,gte=1,lte=10"`
	}
	if err := app.readJSON(w, r, &payload); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, payload); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	user := app.contextUser(r)
	review, err := app.services.Reviews.CreateReview(r.Context(), titleID, user, payload.Text, payload.Score)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrTitleNotFound):
			app.Http.NotFound(w, r, "Title not found")
		case errors.Is(err, reviews.ErrReviewAlreadyExists):
			app.Http.BadRequest(w, r, "You have already reviewed this title")
		case errors.Is(err, storage.ErrConflict):
			app.Http.Conflict(w, r, "You have already reviewed this title")
		default:
			app.Http.ServerError(w, r, err, "")
		}
		return
	}
	app.Http.Created(w, r, envelop{"review": review}, "")
}

func (app *Application) updateReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	var payload struct {
		Text  *string `json:"text" validate:"omitempty"`
		Score *int32  `json:"score" validate:"omitempty,gte=1,lte=10"`
	}
	if err := app.readJSON(w, r, &payload); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, payload); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	review, err := app.services.Reviews.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			app.Http.NotFound(w, r, "Review not found")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	user := app.contextUser(r)
	if !permissions.ForReview(user, r.Method, review.AuthorID == user.ID) {
		app.Http.Forbidden(w, r, "You can only edit your own reviews")
		return
	}
	updated, err := app.services.Reviews.UpdateReview(r.Context(), review, reviews.UpdateReviewParams{
		Text:  payload.Text,
		Score: payload.Score,
	})
	if err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			app.Http.NotFound(w, r, "Review not found")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.Ok(w, r, envelop{"review": updated}, "")
}

func (app *Application) deleteReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	review, err := app.services.Reviews.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			app.Http.NotFound(w, r, "Review not found")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	user := app.contextUser(r)
	if !permissions.ForReview(user, r.Method, review.AuthorID == user.ID) {
		app.Http.Forbidden(w, r, "You can only delete your own reviews")
		return
	}
	if err := app.services.Reviews.DeleteReview(r.Context(), titleID, reviewID); err != nil {
		if errors.Is(err, reviews.ErrReviewNotFound) {
			app.Http.NotFound(w, r, "Review not found")
			return
		}
		app.Http.ServerError(w, r, err, "")
		return
	}
	app.Http.NoContent(w, r, "")
}
