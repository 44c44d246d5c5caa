package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"reviewdb/proj/internal/config"
	"reviewdb/proj/internal/lib/logger"
	"reviewdb/proj/internal/storage/postgres"
)

// tables in dependency order, also the order their CSV files are loaded in.
var tables = []string{
	"users",
	"categories",
	"genres",
	"titles",
	"genre_titles",
	"reviews",
	"comments",
}

func main() {
	var cfgPath string
	var dataDir string
	cmd := &cobra.Command{
		Use:   "loader",
		Short: "Load seed CSV data into an empty database",
		Long: `Loader imports the seed dataset (users, catalog, titles, reviews and
comments) from a directory of CSV files. It refuses to run against a database
that already holds data in any of the target tables.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfgPath, dataDir)
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "config/local.yml", "path to config file")
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "directory with the seed CSV files")
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfgPath, dataDir string) error {
	cfg := config.MustLoad(cfgPath)
	log := logger.SetupLogger(cfg.Debug)
	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	storage, err := postgres.New(connCtx, cfg.DB.Dsn, cfg.DB.MaxConns, cfg.DB.MaxConnIdleTime)
	if err != nil {
		return err
	}
	defer storage.Conn.Close()
	if err := postgres.RunMigrations(cfg.DB.Dsn, cfg.DB.MigrationsPath, log); err != nil {
		return err
	}
	for _, table := range tables {
		var count int
		if err := storage.Conn.QueryRow(ctx, "SELECT count(*) FROM "+table).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("table %s is not empty (%d rows), refusing to load seed data", table, count)
		}
	}
	err = pgx.BeginFunc(ctx, storage.Conn, func(tx pgx.Tx) error {
		loaders := []struct {
			file string
			load func(ctx context.Context, tx pgx.Tx, record []string) error
		}{
			{"users.csv", loadUser},
			{"category.csv", loadCategory},
			{"genre.csv", loadGenre},
			{"titles.csv", loadTitle},
			{"genre_title.csv", loadGenreTitle},
			{"review.csv", loadReview},
			{"comments.csv", loadComment},
		}
		for _, l := range loaders {
			n, err := loadFile(ctx, tx, filepath.Join(dataDir, l.file), l.load)
			if err != nil {
				return fmt.Errorf("loading %s: %w", l.file, err)
			}
			log.Info("file loaded", "file", l.file, "rows", n)
		}
		// Rows carry explicit ids, bump the sequences past them.
		for _, table := range tables {
			if table == "genre_titles" {
				continue
			}
			_, err := tx.Exec(ctx, fmt.Sprintf(
				"SELECT setval(pg_get_serial_sequence('%s', 'id'), coalesce(max(id), 1)) FROM %s",
				table, table,
			))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	log.Info("seed data loaded")
	return nil
}

func loadFile(
	ctx context.Context,
	tx pgx.Tx,
	path string,
	load func(ctx context.Context, tx pgx.Tx, record []string) error,
) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	reader := csv.NewReader(f)
	if _, err := reader.Read(); err != nil { // header
		return 0, err
	}
	n := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return n, err
		}
		if err := load(ctx, tx, record); err != nil {
			return n, fmt.Errorf("row %d: %w", n+2, err)
		}
		n++
	}
	return n, nil
}

// users.csv: id,username,email,role,bio,first_name,last_name
func loadUser(ctx context.Context, tx pgx.Tx, record []string) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO users (id, username, email, role, bio, first_name, last_name)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record[0], record[1], record[2], record[3], record[4], record[5], record[6],
	)
	return err
}

// category.csv: id,name,slug
func loadCategory(ctx context.Context, tx pgx.Tx, record []string) error {
	_, err := tx.Exec(ctx,
		"INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)",
		record[0], record[1], record[2],
	)
	return err
}

// genre.csv: id,name,slug
func loadGenre(ctx context.Context, tx pgx.Tx, record []string) error {
	_, err := tx.Exec(ctx,
		"INSERT INTO genres (id, name, slug) VALUES ($1, $2, $3)",
		record[0], record[1], record[2],
	)
	return err
}

// titles.csv: id,name,year,category
func loadTitle(ctx context.Context, tx pgx.Tx, record []string) error {
	year, err := strconv.Atoi(record[2])
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		"INSERT INTO titles (id, name, year, category_id) VALUES ($1, $2, $3, $4)",
		record[0], record[1], year, record[3],
	)
	return err
}

// genre_title.csv: id,title_id,genre_id
func loadGenreTitle(ctx context.Context, tx pgx.Tx, record []string) error {
	_, err := tx.Exec(ctx,
		"INSERT INTO genre_titles (title_id, genre_id) VALUES ($1, $2)",
		record[1], record[2],
	)
	return err
}

// review.csv: id,title_id,text,author,score,pub_date
func loadReview(ctx context.Context, tx pgx.Tx, record []string) error {
	score, err := strconv.Atoi(record[4])
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO reviews (id, title_id, text, author_id, score, pub_date)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		record[0], record[1], record[2], record[3], score, record[5],
	)
	return err
}

// comments.csv: id,review_id,text,author,pub_date
func loadComment(ctx context.Context, tx pgx.Tx, record []string) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO comments (id, review_id, text, author_id, pub_date)
		 VALUES ($1, $2, $3, $4, $5)`,
		record[0], record[1], record[2], record[3], record[4],
	)
	return err
}
