package config

import (
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	Port          string
	JWTSecret     string
	JWTExpirySecs string
	CORSOrigins   string
}

func Load() *Config {
	return &Config{
		Port:          getEnv("SERVER_PORT", "8080"),
		JWTSecret:     getEnv("JWT_SECRET_KEY", "dev-secret-change-in-production"),
		JWTExpirySecs: getEnv("JWT_EXPIRATION_TIME", "86400"),
		CORSOrigins:   getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// InitDB opens the postgres connection. TranslateError is on so unique
// violations surface as gorm.ErrDuplicatedKey.
func InitDB() *gorm.DB {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			getEnv("POSTGRES_SERVER", "localhost"),
			getEnv("POSTGRES_PORT", "5432"),
			getEnv("POSTGRES_USER", "postgres"),
			getEnv("POSTGRES_PASSWORD", "postgres"),
			getEnv("POSTGRES_DB", "restaurant"),
			getEnv("POSTGRES_SSLMODE", "disable"),
		)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return db
}
