package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"todotracker/internal/repository"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Admin      AdminConfig
	Security   SecurityConfig
	Storage    StorageConfig
	Pagination PaginationConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AdminConfig describes the account created on startup when it is missing.
// An empty username disables the bootstrap.
type AdminConfig struct {
	Username string
	Password string
}

type SecurityConfig struct {
	BcryptCost int
}

type StorageConfig struct {
	Driver string
}

type PaginationConfig struct {
	DefaultSize int
	MaxSize     int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("APP_PORT", "8080"),
			Env:          getEnv("APP_ENV", "development"),
			ReadTimeout:  getEnvAsDuration("APP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvAsDuration("APP_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "todotracker"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", "admin"),
		},
		Security: SecurityConfig{
			BcryptCost: getEnvAsInt("BCRYPT_COST", 10),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", StorageMemory),
		},
		Pagination: PaginationConfig{
			DefaultSize: getEnvAsInt("PAGE_DEFAULT_SIZE", 20),
			MaxSize:     getEnvAsInt("PAGE_MAX_SIZE", 100),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Pagination.DefaultSize < 1 || c.Pagination.MaxSize < c.Pagination.DefaultSize || c.Pagination.MaxSize > repository.MaxPageSize {
		return fmt.Errorf("invalid page sizes: default %d, max %d", c.Pagination.DefaultSize, c.Pagination.MaxSize)
	}
	if c.Admin.Username != "" && c.Admin.Password == "" {
		return fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_USERNAME is set")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return defaultValue
}
