package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string
	DBMaxConns  int
	DBMinConns  int

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Account deletion
	DeletionGraceDays    int
	SweepIntervalMinutes int

	// Ordered list of user-owned tables for the admin bulk purge.
	// Dependent tables must come before the tables they reference.
	PurgeTables []string

	// Frontend
	FrontendURL string
}

// role_grants is deliberately absent: purging it would delete the calling
// admin's own grant and lock them out of every subsequent admin operation.
// Grants for purged identities go away via ON DELETE CASCADE instead.
const defaultPurgeTables = "opinion_reactions,opinions,referrals,reward_grants,activity_sessions,user_settings,pending_deletions"

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		DBMaxConns:  getEnvAsIntOrDefault("DB_MAX_CONNS", 25),
		DBMinConns:  getEnvAsIntOrDefault("DB_MIN_CONNS", 5),
		RedisURL:    mustGetEnv("REDIS_URL"),
		JWTSecret:   mustGetEnv("JWT_SECRET"),

		DeletionGraceDays:    getEnvAsIntOrDefault("DELETION_GRACE_DAYS", 30),
		SweepIntervalMinutes: getEnvAsIntOrDefault("SWEEP_INTERVAL_MINUTES", 60),
		PurgeTables:          splitTables(getEnvOrDefault("PURGE_TABLES", defaultPurgeTables)),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func splitTables(raw string) []string {
	parts := strings.Split(raw, ",")
	tables := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tables = append(tables, t)
		}
	}
	return tables
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
