package main

import (
	"context"
	"flag"
	"os"
	"time"

	"reviewdb/proj/internal/api/tasks"
	"reviewdb/proj/internal/config"
	"reviewdb/proj/internal/lib/logger"
	"reviewdb/proj/internal/services"
	"reviewdb/proj/internal/storage/postgres"
	pgmodels "reviewdb/proj/internal/storage/postgres/models"
)

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")
	flag.Parse()
	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	storage, err := postgres.New(ctx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
	if err != nil {
		panic(err)
	}
	defer storage.Conn.Close()
	log.Info("database connection established")
	if err := postgres.RunMigrations(cfg.DB.Dsn, cfg.DB.MigrationsPath, log); err != nil {
		panic(err)
	}

	bgTasks := tasks.New(log, cfg.BgTasks.MaxWorkers, cfg.BgTasks.QueueSize)
	bgTasks.Run()

	app := NewApplication(cfg, log, services.New(log, cfg, pgmodels.New(storage), bgTasks))
	if err := app.serve(); err != nil {
		log.Error("server stopped with error", "errMsg", err.Error())
		os.Exit(1)
	}

	// Drain queued mail before exiting.
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := bgTasks.Shutdown(shutdownCtx); err != nil {
		log.Error("background tasks shutdown failed", "errMsg", err.Error())
	}
}
