package config

import (
	"encoding/json"
	"os"
	"strconv"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	JWT      JWTConfig      `json:"jwt"`

	// Base URL encoded into QR codes, e.g. "https://menucraft.app"
	PublicBaseURL string `json:"public_base_url"`
}

type ServerConfig struct {
	Port        string `json:"port"`
	Environment string `json:"environment"`
}

type DatabaseConfig struct {
	Driver string `json:"driver"` // "postgres" or "sqlite"
	DSN    string `json:"dsn"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type JWTConfig struct {
	Secret      string `json:"secret"`
	ExpiryHours int    `json:"expiry_hours"`
}

func Load(path string) (*Config, error) {
	config := defaults()

	file, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
		// No config file: run on defaults + env overrides
	} else if err := json.Unmarshal(file, config); err != nil {
		return nil, err
	}

	config.applyEnv()
	return config, nil
}

func defaults() *Config {
	return &Config{
		Server:   ServerConfig{Port: "8080", Environment: "development"},
		Database: DatabaseConfig{Driver: "postgres", DSN: "host=localhost user=menucraft dbname=menucraft sslmode=disable"},
		Redis:    RedisConfig{Host: "localhost", Port: "6379"},
		JWT:      JWTConfig{Secret: "dev-secret-change-me", ExpiryHours: 24},

		PublicBaseURL: "http://localhost:8080",
	}
}

// Environment variables override file values (loaded via godotenv in main).
func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = v
	}
	if v := os.Getenv("ENVIRONMENT"); v != "" {
		c.Server.Environment = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		c.Redis.Port = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			c.Redis.DB = db
		}
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}
	if v := os.Getenv("JWT_EXPIRY_HOURS"); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			c.JWT.ExpiryHours = hours
		}
	}
	if v := os.Getenv("PUBLIC_BASE_URL"); v != "" {
		c.PublicBaseURL = v
	}
}

func (c *Config) GetRedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}
