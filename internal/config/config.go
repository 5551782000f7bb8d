// internal/config/config.go

// Package config reads runtime settings from the environment. An optional
// .env file is loaded by cmd/server via godotenv's autoload import.
package config

import (
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/lobbyd/lobbyd/internal/journal"
	"github.com/lobbyd/lobbyd/internal/lobby"
)

// Config holds everything cmd/server needs to wire the service.
type Config struct {
	Addr         string       // listen address, e.g. ":8080"
	LogLevel     logrus.Level //
	MaxGroupSize int          // lobby capacity
	RedisAddr    string       // empty disables the journal
	JournalQueue string       // Redis list name for lifecycle events
}

// Load reads the environment:
//   - PORT (default 8080)
//   - LOG_LEVEL (default info)
//   - MAX_GROUP_SIZE (default 4)
//   - REDIS_ADDR (default unset => journal disabled)
//   - JOURNAL_QUEUE_NAME (default "lobby_events")
func Load() Config {
	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}

	maxSize := getEnvInt("MAX_GROUP_SIZE", lobby.DefaultMaxSize)
	if maxSize < 1 {
		maxSize = lobby.DefaultMaxSize
	}

	return Config{
		Addr:         ":" + getEnv("PORT", "8080"),
		LogLevel:     level,
		MaxGroupSize: maxSize,
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		JournalQueue: getEnv("JOURNAL_QUEUE_NAME", journal.DefaultQueueName),
	}
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
