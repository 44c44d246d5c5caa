package main

import (
	"errors"
	"net/http"

	"reviewdb/proj/internal/domain/permissions"
	"reviewdb/proj/internal/lib/validator"
	"reviewdb/proj/internal/services/reviews"
)

func (app *Application) listComments(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
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
	f := query.filters("-pub_date", "pub_date")
	comments, total, err := app.services.Reviews.ListComments(r.Context(), titleID, reviewID, f)
	if err != nil {
		app.commentError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{
		"comments": comments,
		"metadata": listMetadata(total, f.Limit, f.Offset),
	}, "")
}

func (app *Application) getComment(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "commentID")
	if !ok {
		return
	}
	comment, err := app.services.Reviews.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		app.commentError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comment": comment}, "")
}

func (app *Application) createComment(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	var payload struct {
		Text string `json:"text" validate:"required"`
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
	comment, err := app.services.Reviews.CreateComment(r.Context(), titleID, reviewID, user, payload.Text)
	if err != nil {
		app.commentError(w, r, err)
		return
	}
	app.Http.Created(w, r, envelop{"comment": comment}, "")
}

func (app *Application) updateComment(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "commentID")
	if !ok {
		return
	}
	var payload struct {
		Text string `json:"text" validate:"required"`
	}
	if err := app.readJSON(w, r, &payload); err != nil {
		app.Http.BadRequest(w, r, err.Error())
		return
	}
	if errs := validator.ValidateStruct(app.validator, payload); errs != nil {
		app.Http.ValidationError(w, r, errs)
		return
	}
	comment, err := app.services.Reviews.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		app.commentError(w, r, err)
		return
	}
	user := app.contextUser(r)
	if !permissions.ForReview(user, r.Method, comment.AuthorID == user.ID) {
		app.Http.Forbidden(w, r, "You can only edit your own comments")
		return
	}
	updated, err := app.services.Reviews.UpdateComment(r.Context(), comment, payload.Text)
	if err != nil {
		app.commentError(w, r, err)
		return
	}
	app.Http.Ok(w, r, envelop{"comment": updated}, "")
}

func (app *Application) deleteComment(w http.ResponseWriter, r *http.Request) {
	titleID, ok := app.extractIDParam(w, r, "titleID")
	if !ok {
		return
	}
	reviewID, ok := app.extractIDParam(w, r, "reviewID")
	if !ok {
		return
	}
	commentID, ok := app.extractIDParam(w, r, "commentID")
	if !ok {
		return
	}
	comment, err := app.services.Reviews.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		app.commentError(w, r, err)
		return
	}
	user := app.contextUser(r)
	if !permissions.ForReview(user, r.Method, comment.AuthorID == user.ID) {
		app.Http.Forbidden(w, r, "You can only delete your own comments")
		return
	}
	if err := app.services.Reviews.DeleteComment(r.Context(), titleID, reviewID, commentID); err != nil {
		app.commentError(w, r, err)
		return
	}
	app.Http.NoContent(w, r, "")
}

func (app *Application) commentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, reviews.ErrTitleNotFound):
		app.Http.NotFound(w, r, "Title not found")
	case errors.Is(err, reviews.ErrReviewNotFound):
		app.Http.NotFound(w, r, "Review not found")
	case errors.Is(err, reviews.ErrCommentNotFound):
		app.Http.NotFound(w, r, "Comment not found")
	default:
		app.Http.ServerError(w, r, err, "")
	}
}
