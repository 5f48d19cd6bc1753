package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/adamspd/quizdesk/models"
	"github.com/adamspd/quizdesk/utils"
	"github.com/joho/godotenv"
)

// Config holds the settings shared by the servers.
type Config struct {
	Port       string
	DBPath     string
	CORSOrigin string
	LogMode    string
	RedisURL   string
	SeedFile   string
	Email      models.EmailConfig

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Defaults differ per server.
type Defaults struct {
	Port   string
	DBPath string
}

var (
	QuizDefaults     = Defaults{Port: "4001", DBPath: "./data/quiz.db"}
	EmployeeDefaults = Defaults{Port: "4002", DBPath: "./data/employees.db"}
)

// Load reads .env (if present) and then the process environment.
func Load(d Defaults) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return FromEnv(d), nil
}

// FromEnv builds a Config from the current environment only.
func FromEnv(d Defaults) *Config {
	return &Config{
		Port:       utils.GetEnvOrDefault("PORT", d.Port),
		DBPath:     utils.GetEnvOrDefault("DB_PATH", d.DBPath),
		CORSOrigin: utils.GetEnvOrDefault("CORS_ORIGIN", "*"),
		LogMode:    utils.GetEnvOrDefault("LOG_MODE", "development"),
		RedisURL:   utils.GetEnvOrDefault("REDIS_URL", ""),
		SeedFile:   utils.GetEnvOrDefault("SEED_FILE", ""),
		Email: models.EmailConfig{
			SMTPHost:    utils.GetEnvOrDefault("SMTP_HOST", "localhost"),
			SMTPPort:    utils.GetEnvInt("SMTP_PORT", 587),
			Username:    utils.GetEnvOrDefault("SMTP_USERNAME", ""),
			Password:    utils.GetEnvOrDefault("SMTP_PASSWORD", ""),
			FromAddress: utils.GetEnvOrDefault("FROM_EMAIL", "noreply@example.com"),
			FromName:    utils.GetEnvOrDefault("FROM_NAME", "Employee Directory"),
		},
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}
