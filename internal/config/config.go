package config

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	// JWTSecret signs and verifies the auth cookie token. It must match
	// whatever issued already-circulating cookies, so no generated default.
	JWTSecret string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OTLPEndpoint string

	AllowedOrigins []string

	AdminEmail    string
	AdminUsername string
	AdminName     string
	AdminPassword string
}

func Load() Config {
	// local dev convenience, a missing .env is fine
	_ = godotenv.Load()

	return Config{
		Env:            getEnv("APP_ENV", "dev"),
		Port:           getEnvInt("PORT", 8080),
		DBURL:          buildDBURL(),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-do-not-use-in-prod"),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		OTLPEndpoint:   getEnv("OTLP_ENDPOINT", ""),
		AllowedOrigins: []string{getEnv("CORS_ORIGIN", "http://localhost:3000")},
		AdminEmail:     getEnv("ADMIN_EMAIL", ""),
		AdminUsername:  getEnv("ADMIN_USERNAME", "admin"),
		AdminName:      getEnv("ADMIN_NAME", "Admin"),
		AdminPassword:  getEnv("ADMIN_PASSWORD", ""),
	}
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postboard")
	pass := getEnv("DB_PASSWORD", "postboard")
	name := getEnv("DB_NAME", "postboard")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}
