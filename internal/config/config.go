package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Steam    SteamConfig
	Snapshot SnapshotConfig
	Auth     AuthConfig
	Kafka    KafkaConfig
	Covers   CoversConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Driver      string // "sqlite" or "postgres"
	SQLitePath  string
	PostgresDSN string
}

type RedisConfig struct {
	Enabled bool
	Addr    string
}

type SteamConfig struct {
	APIKey         string
	SteamID        string // 64-bit Steam ID
	RequestTimeout time.Duration
	// Minimum spacing between Steam API calls. The public Web API throttles
	// aggressively, so the client paces itself instead of retrying 429s.
	CallInterval time.Duration
}

type SnapshotConfig struct {
	// Daily trigger time, interpreted in Timezone.
	Hour   int
	Minute int
	// Timezone that decides calendar-day boundaries for snapshots,
	// independent of where the server runs.
	Timezone string
	// Minimum day-over-day hours increase for a game to count as played.
	PlayedEpsilon float64
	// TTL on the redis run lock, so a crashed cycle cannot wedge the job.
	RunLockTTL time.Duration
}

type AuthConfig struct {
	AdminPassword string
	SessionTTL    time.Duration
}

type KafkaConfig struct {
	Enabled  bool
	MockMode bool
	Brokers  []string
	Topic    string
}

type CoversConfig struct {
	Dir string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8080"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:      getEnv("DB_DRIVER", "sqlite"),
			SQLitePath:  getEnv("SQLITE_PATH", "data/gametracker.db"),
			PostgresDSN: getEnv("POSTGRES_DSN", ""),
		},
		Redis: RedisConfig{
			Enabled: getEnvBool("REDIS_ENABLED", false),
			Addr:    getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Steam: SteamConfig{
			APIKey:         getEnv("STEAM_API_KEY", ""),
			SteamID:        getEnv("STEAM_USER_ID", ""),
			RequestTimeout: time.Duration(getEnvInt("STEAM_TIMEOUT_SECONDS", 10)) * time.Second,
			CallInterval:   time.Duration(getEnvInt("STEAM_CALL_INTERVAL_MS", 1200)) * time.Millisecond,
		},
		Snapshot: SnapshotConfig{
			Hour:          getEnvInt("SNAPSHOT_HOUR", 23),
			Minute:        getEnvInt("SNAPSHOT_MINUTE", 55),
			Timezone:      getEnv("SNAPSHOT_TIMEZONE", "America/New_York"),
			PlayedEpsilon: getEnvFloat("SNAPSHOT_PLAYED_EPSILON", 0.1),
			RunLockTTL:    time.Duration(getEnvInt("SNAPSHOT_LOCK_TTL_MINUTES", 10)) * time.Minute,
		},
		Auth: AuthConfig{
			AdminPassword: getEnv("ADMIN_PASSWORD", "changeme"),
			SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_DAYS", 30)) * 24 * time.Hour,
		},
		Kafka: KafkaConfig{
			Enabled:  getEnvBool("KAFKA_ENABLED", false),
			MockMode: getEnvBool("KAFKA_MOCK_MODE", false),
			Brokers:  strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:    getEnv("KAFKA_TOPIC_SNAPSHOTS", "gametracker.snapshot.recorded"),
		},
		Covers: CoversConfig{
			Dir: getEnv("COVERS_DIR", "static/covers"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
