package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug      bool          `yaml:"debug"`
	AppSecret  string        `yaml:"app_secret" env:"APP_SECRET" env-required:"true"`
	TokenTTL   time.Duration `yaml:"token_ttl" env-default:"24h"`
	Limiter    Limiter       `yaml:"limiter"`
	Server     Server        `yaml:"server"`
	DB         DB            `yaml:"db"`
	SMTPServer SMTPServer    `yaml:"smtp_server"`
	BgTasks    BgTasks       `yaml:"bg_tasks"`
}

type Limiter struct {
	Enabled bool    `yaml:"enabled"`
	Rps     float64 `yaml:"rps" env-default:"20"`
	Burst   int     `yaml:"burst" env-default:"5"`
}

type Server struct {
	Port string `yaml:"port" env-default:"8000"`
	Host string `yaml:"host" env-default:"localhost"`

	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"2s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"2s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"10s"`
}

type DB struct {
	Dsn             string        `yaml:"dsn" env:"DB_DSN" env-required:"true"`
	MaxConns        int           `yaml:"max_conns" env-default:"25"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env-default:"10m"`
	MigrationsPath  string        `yaml:"migrations_path" env-default:"migrations"`
}

type SMTPServer struct {
	Host         string        `yaml:"host" env:"SMTP_HOST"`
	Port         int           `yaml:"port" env:"SMTP_PORT" env-default:"25"`
	Username     string        `yaml:"username" env:"SMTP_USERNAME"`
	Password     string        `yaml:"password" env:"SMTP_PASSWORD"`
	Sender       string        `yaml:"sender" env-default:"ReviewDB <no-reply@reviewdb.net>"`
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
	RetriesCount int           `yaml:"retries_count" env-default:"3"`
}

type BgTasks struct {
	MaxWorkers int `yaml:"max_workers" env-default:"4"`
	QueueSize  int `yaml:"queue_size" env-default:"100"`
}

func MustLoad(configPath string) *Config {
	// Missing .env is fine, real environments set vars directly.
	_ = godotenv.Load()
	var cfg Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic(fmt.Errorf("config file %s not found", configPath))
	}
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic(err)
	}
	return &cfg
}
