package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string
	Timezone  string
	Currency  string

	DB DBConfig

	RedisAddr string
	RedisDB   int

	RabbitMQURL    string
	EventsExchange string

	IdentityURL     string
	IdentityTimeout time.Duration
	MenuCacheTTL    time.Duration
}

type DBConfig struct {
	Driver     string
	User       string
	Password   string
	Host       string
	Port       string
	Database   string
	Params     string
	DSN        string
	Migrations bool
	Debug      bool
}

// Load reads .env when present, then the environment, falling back to
// defaults suited to local development.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("could not read .env")
	}

	return Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		Timezone:  getEnv("APP_TIMEZONE", "Local"),
		Currency:  getEnv("CURRENCY", "USD"),
		DB: DBConfig{
			Driver:     strings.ToLower(getEnv("DB_DRIVER", "mysql")),
			User:       getEnv("MYSQL_USER", "pos"),
			Password:   getEnv("MYSQL_PASSWORD", "pos"),
			Host:       getEnv("MYSQL_HOST", "127.0.0.1"),
			Port:       getEnv("MYSQL_PORT", "3306"),
			Database:   getEnv("MYSQL_DATABASE", "pos"),
			Params:     getEnv("MYSQL_PARAMS", "charset=utf8mb4&parseTime=True&loc=UTC"),
			DSN:        os.Getenv("DATABASE_DSN"),
			Migrations: ParseBool("MIGRATIONS", false),
			Debug:      ParseBool("DB_DEBUG", false),
		},
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisDB:         parseInt("REDIS_DB", 0),
		RabbitMQURL:     os.Getenv("RABBITMQ_URL"),
		EventsExchange:  getEnv("EVENTS_EXCHANGE", "pos.events"),
		IdentityURL:     getEnv("IDENTITY_URL", "http://localhost:9000"),
		IdentityTimeout: parseDuration("IDENTITY_TIMEOUT", 2*time.Second),
		MenuCacheTTL:    parseDuration("MENU_CACHE_TTL", 5*time.Minute),
	}
}

// Location resolves Timezone, falling back to the host zone.
func (c Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		logrus.WithError(err).Warnf("unknown APP_TIMEZONE %q, using host zone", c.Timezone)
		return time.Local
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			logrus.Warnf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}

func parseInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			logrus.Warnf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}

func parseDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			logrus.Warnf("invalid duration for %s: %s", key, v)
			return def
		}
		return d
	}
	return def
}
