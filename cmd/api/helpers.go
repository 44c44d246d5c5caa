package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"reviewdb/proj/internal/domain/filters"
	"reviewdb/proj/internal/domain/models"
)

func (app *Application) extractIDParam(w http.ResponseWriter, r *http.Request, name string) (id int64, extracted bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		app.Http.NotFound(w, r, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return id, true
}

// contextUser returns the user set by the Authenticate middleware, falling
// back to anonymous when the middleware never ran (tests, miswired routes).
func (app *Application) contextUser(r *http.Request) *models.User {
	user, ok := r.Context().Value(CtxKeyUser).(*models.User)
	if !ok || user == nil {
		return models.AnonymousUser
	}
	return user
}

// listQuery is the shared pagination/search shape of plain list endpoints.
type listQuery struct {
	Search string `schema:"search" validate:"omitempty,max=256"`
	Limit  int    `schema:"limit" validate:"omitempty,gte=0,lte=100"`
	Offset int    `schema:"offset" validate:"omitempty,gte=0"`
}

func (q listQuery) filters(defaultSort string, safelist ...string) filters.Filters {
	f := filters.Filters{Limit: q.Limit, Offset: q.Offset, SortSafelist: safelist}
	f.Normalize(defaultSort)
	return f
}

func listMetadata(total, limit, offset int) envelop {
	return envelop{"total": total, "limit": limit, "offset": offset}
}

func (app *Application) decodeQuery(r *http.Request, dst any) error {
	return app.queryDecoder.Decode(dst, r.URL.Query())
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	src := http.MaxBytesReader(w, r.Body, int64(maxBytes))
	defer io.Copy(io.Discard, src)
	dec := json.NewDecoder(src)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err != nil {
		return handleJsonErr(err)
	}
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func handleJsonErr(err error) error {
	var syntaxError *json.SyntaxError
	var unmarshalTypeError *json.UnmarshalTypeError
	var invalidUnmarshalError *json.InvalidUnmarshalError
	switch {
	case errors.As(err, &syntaxError):
		return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)

	case errors.Is(err, io.ErrUnexpectedEOF):
		return errors.New("body contains badly-formed JSON")

	case errors.As(err, &unmarshalTypeError):
		if unmarshalTypeError.Field != "" {
			return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
		}
		return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)

	case errors.Is(err, io.EOF):
		return errors.New("body must not be empty")

	case errors.As(err, &invalidUnmarshalError):
		panic(err)
	default:
		return err
	}
}
