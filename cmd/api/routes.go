package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (app *Application) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(app.Recoverer)
	router.Use(app.RateLimiter)
	router.Use(app.Authenticate)
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		app.Http.NotFound(w, r, "The requested resource could not be found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		app.Http.Response(w, r, nil, "", http.StatusMethodNotAllowed)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthcheck", app.healthcheck)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", app.signup)
			r.Post("/token", app.token)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", app.listCategories)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAdmin)
				r.Post("/", app.createCategory)
				r.Delete("/{slug}", app.deleteCategory)
			})
		})

		r.Route("/genres", func(r chi.Router) {
			r.Get("/", app.listGenres)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAdmin)
				r.Post("/", app.createGenre)
				r.Delete("/{slug}", app.deleteGenre)
			})
		})

		r.Route("/titles", func(r chi.Router) {
			r.Get("/", app.listTitles)
			r.Get("/{titleID}", app.getTitle)
			r.Group(func(r chi.Router) {
				r.Use(app.requireAdmin)
				r.Post("/", app.createTitle)
				r.Patch("/{titleID}", app.updateTitle)
				r.Delete("/{titleID}", app.deleteTitle)
			})

			r.Route("/{titleID}/reviews", func(r chi.Router) {
				r.Get("/", app.listReviews)
				r.Get("/{reviewID}", app.getReview)
				r.With(app.requireAuthenticatedUser).Post("/", app.createReview)
				// Ownership for updates and deletes is checked in the
				// handler, moderators and admins may touch any review.
				r.With(app.requireAuthenticatedUser).Patch("/{reviewID}", app.updateReview)
				r.With(app.requireAuthenticatedUser).Delete("/{reviewID}", app.deleteReview)

				r.Route("/{reviewID}/comments", func(r chi.Router) {
					r.Get("/", app.listComments)
					r.Get("/{commentID}", app.getComment)
					r.With(app.requireAuthenticatedUser).Post("/", app.createComment)
					r.With(app.requireAuthenticatedUser).Patch("/{commentID}", app.updateComment)
					r.With(app.requireAuthenticatedUser).Delete("/{commentID}", app.deleteComment)
				})
			})
		})

		r.Route("/users", func(r chi.Router) {
			// "me" must be declared before the {username} routes so the
			// self-service endpoints never resolve as a username lookup.
			r.Group(func(r chi.Router) {
				r.Use(app.requireAuthenticatedUser)
				r.Get("/me", app.getCurrentUser)
				r.Patch("/me", app.updateCurrentUser)
			})
			r.Group(func(r chi.Router) {
				r.Use(app.requireAdmin)
				r.Get("/", app.listUsers)
				r.Post("/", app.createUser)
				r.Get("/{username}", app.getUser)
				r.Patch("/{username}", app.updateUser)
				r.Delete("/{username}", app.deleteUser)
			})
		})
	})

	return router
}
