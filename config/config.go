package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/jocoker/cse340/store"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// devTokenSecret signs tokens when APP_ENV=development and no secret is set.
const devTokenSecret = "cse-motors-development-secret"

type Config struct {
	Env          string
	Host         string
	Port         string
	DatabaseURL  string
	TokenSecret  []byte
	QueryTimeout time.Duration
	MaxOpenConns int
}

func (c Config) IsDevelopment() bool { return c.Env == EnvDevelopment }

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return c.Host + ":" + c.Port }

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️  could not read .env: %v", err)
	}

	cfg := Config{
		Env:          strings.ToLower(getEnv("APP_ENV", EnvProduction)),
		Host:         getEnv("HOST", "localhost"),
		Port:         getEnv("PORT", "5500"),
		DatabaseURL:  getEnv("DATABASE_URL", "cse_motors.db"),
		QueryTimeout: time.Duration(getEnvInt("DB_QUERY_TIMEOUT_SEC", 5)) * time.Second,
		MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),
	}

	secret := os.Getenv("ACCESS_TOKEN_SECRET")
	switch {
	case secret != "":
		cfg.TokenSecret = []byte(secret)
	case cfg.IsDevelopment():
		log.Println("⚠️  ACCESS_TOKEN_SECRET not set, using the development secret")
		cfg.TokenSecret = []byte(devTokenSecret)
	default:
		return Config{}, fmt.Errorf("ACCESS_TOKEN_SECRET is required when APP_ENV=%s", cfg.Env)
	}

	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT must not be empty")
	}
	if cfg.QueryTimeout <= 0 {
		return Config{}, fmt.Errorf("DB_QUERY_TIMEOUT_SEC must be > 0")
	}
	if cfg.MaxOpenConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be > 0")
	}
	return cfg, nil
}

// OpenDB connects to postgres for postgres:// URLs and to a sqlite file
// otherwise, tunes the pool and migrates every table.
func OpenDB(cfg Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.New(log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		}),
		TranslateError: true,
	}

	db, err := gorm.Open(dialector(cfg.DatabaseURL), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if isPostgres(cfg.DatabaseURL) {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxOpenConns / 2)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	}

	if err := store.Migrate(db); err != nil {
		return nil, err
	}
	log.Println("✅ Database connected and migrated successfully")
	return db, nil
}

func dialector(url string) gorm.Dialector {
	if isPostgres(url) {
		return postgres.Open(url)
	}
	return sqlite.Open(url)
}

func isPostgres(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️  %s=%q is not a number, using %d", key, v, fallback)
		return fallback
	}
	return n
}
