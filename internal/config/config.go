package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/yukikurage/team-management-api/internal/models"
)

const defaultJWTSecret = "default-secret-key-change-me"

type Config struct {
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	SQLitePath     string
	JWTSecret      string
	GinMode        string
	Port           string
	AllowedOrigins []string
	DefaultRole    string
}

func Load() *Config {
	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	v := viper.New()
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "teamuser")
	v.SetDefault("DB_PASSWORD", "teampassword")
	v.SetDefault("DB_NAME", "team_management")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "team_management.db")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("PORT", "8080")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("DEFAULT_ROLE", "employee")
	v.AutomaticEnv()

	return &Config{
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:         v.GetString("DB_HOST"),
		DBPort:         v.GetString("DB_PORT"),
		DBUser:         v.GetString("DB_USER"),
		DBPassword:     v.GetString("DB_PASSWORD"),
		DBName:         v.GetString("DB_NAME"),
		DBSSLMode:      v.GetString("DB_SSLMODE"),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		GinMode:        v.GetString("GIN_MODE"),
		Port:           v.GetString("PORT"),
		AllowedOrigins: splitList(v.GetString("ALLOWED_ORIGINS")),
		DefaultRole:    v.GetString("DEFAULT_ROLE"),
	}
}

// IsProduction reports whether the server runs in gin's release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// Validate rejects settings that are unsafe to serve with.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.IsProduction() && c.JWTSecret == defaultJWTSecret {
		return errors.New("JWT_SECRET must be set in release mode")
	}
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return errors.New("DB_DRIVER must be one of mysql, postgres, sqlite")
	}
	if _, err := models.ParseRole(c.DefaultRole); err != nil {
		return fmt.Errorf("DEFAULT_ROLE: %w", err)
	}
	return nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
