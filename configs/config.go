package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Repository backends selectable with REPOSITORY_TYPE.
const (
	RepositoryPostgres = "postgres"
	RepositoryMemory   = "memory"
)

// DefaultJWTSecret signs tokens when JWT_SECRET is unset. Only fit for local
// development.
const DefaultJWTSecret = "secret"

// DefaultTokenTTL is the validity window of issued access tokens (180 days).
const DefaultTokenTTL = 180 * 24 * time.Hour

type Config struct {
	AppPort        int
	RepositoryType string
	DBHost         string
	DBPort         int
	DBUser         string
	DBPassword     string
	DBName         string
	RedisHost      string
	RedisPort      int
	JWTSecret      string
	TokenTTL       time.Duration
	BcryptCost     int
	LogDir         string
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		// tests run without a .env file
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	return Config{
		AppPort:        envInt("APP_PORT", 3004),
		RepositoryType: envString("REPOSITORY_TYPE", RepositoryPostgres),
		DBHost:         envString("DB_HOST", "localhost"),
		DBPort:         envInt("DB_PORT", 5432),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         envString("DB_NAME", "taskline"),
		RedisHost:      os.Getenv("REDIS_HOST"),
		RedisPort:      envInt("REDIS_PORT", 6379),
		JWTSecret:      envString("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:       envDuration("TOKEN_TTL", DefaultTokenTTL),
		BcryptCost:     envInt("BCRYPT_COST", 10),
		LogDir:         envString("LOG_DIR", "logs"),
	}
}

// UsesDefaultSecret reports whether tokens would be signed with the
// well-known fallback secret.
func (c Config) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
