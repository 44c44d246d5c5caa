package catalog

import "errors"

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrGenreNotFound      = errors.New("genre not found")
	ErrGenreAlreadyExists = errors.New("genre with that slug already exists")
)
