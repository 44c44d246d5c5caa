package services

import (
	"log/slog"

	"reviewdb/proj/internal/config"
	"reviewdb/proj/internal/mails"
	"reviewdb/proj/internal/services/auth"
	"reviewdb/proj/internal/services/catalog"
	"reviewdb/proj/internal/services/reviews"
	"reviewdb/proj/internal/services/titles"
	"reviewdb/proj/internal/services/users"
	pgmodels "reviewdb/proj/internal/storage/postgres/models"
)

type Services struct {
	Auth    *auth.AuthService
	Users   *users.UserService
	Catalog *catalog.CatalogService
	Titles  *titles.TitleService
	Reviews *reviews.ReviewService
}

func New(log *slog.Logger, cfg *config.Config, storage *pgmodels.Models, taskExecutor auth.TaskExecutor) *Services {
	mailer := mails.New(
		cfg.SMTPServer.Host,
		cfg.SMTPServer.Port,
		cfg.SMTPServer.Timeout,
		cfg.SMTPServer.Username,
		cfg.SMTPServer.Password,
		cfg.SMTPServer.Sender,
		cfg.SMTPServer.RetriesCount,
	)
	return &Services{
		Auth:    auth.New(log, storage.User, mailer, taskExecutor, cfg.AppSecret, cfg.TokenTTL),
		Users:   users.New(log, storage.User),
		Catalog: catalog.New(log, storage.Category, storage.Genre),
		Titles:  titles.New(log, storage.Title, storage.Category, storage.Genre),
		Reviews: reviews.New(log, storage.Review, storage.Comment, storage.Title),
	}
}
