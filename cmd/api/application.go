package main

import (
	"log/slog"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"reviewdb/proj/internal/config"
	"reviewdb/proj/internal/lib/validator"
	"reviewdb/proj/internal/services"
)

type Application struct {
	cfg          *config.Config
	log          *slog.Logger
	Http         *Http
	services     *services.Services
	validator    *govalidator.Validate
	queryDecoder *schema.Decoder
}

func NewApplication(cfg *config.Config, log *slog.Logger, services *services.Services) *Application {
	validate := govalidator.New(govalidator.WithRequiredStructEnabled())
	validator.MustRegisterAll(validate)
	queryDecoder := schema.NewDecoder()
	queryDecoder.IgnoreUnknownKeys(true)
	return &Application{
		cfg:          cfg,
		log:          log,
		validator:    validate,
		services:     services,
		queryDecoder: queryDecoder,
		Http: &Http{
			log: log,
			cfg: cfg,
		},
	}
}
