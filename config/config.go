package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

type Config struct {
	Port        string
	StoreDriver string
	MongoURI    string
	DBName      string
	SQLitePath  string
	RedisAddr   string
	RedisPass   string
	JWTKey      []byte
	CORSOrigins []string
	CacheTTL    time.Duration
}

// LoadEnv reads key=value pairs from files into the environment. Variables
// already set win. A missing file is logged, not fatal.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		log.Printf("Error loading .env file: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads the service configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:        getenv("PORT", "8080"),
		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", DriverMongo)),
		MongoURI:    os.Getenv("MONGOURI"),
		DBName:      getenv("DB", "rentals"),
		SQLitePath:  getenv("SQLITE_PATH", "booking.db"),
		RedisAddr:   os.Getenv("REDIS_ADD"),
		RedisPass:   os.Getenv("REDIS_PASS"),
		JWTKey:      []byte(os.Getenv("JWT_KEY")),
	}

	for _, origin := range strings.Split(getenv("CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	ttl, err := time.ParseDuration(getenv("CACHE_TTL", "10m"))
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be a positive duration, got %q", os.Getenv("CACHE_TTL"))
	}
	cfg.CacheTTL = ttl

	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGOURI not set in environment")
		}
	case DriverSQLite:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverSQLite, c.StoreDriver)
	}
	return nil
}

// RequireJWTKey fails when no signing key is configured.
func (c Config) RequireJWTKey() error {
	if len(c.JWTKey) == 0 {
		return fmt.Errorf("JWT_KEY not set in environment")
	}
	return nil
}
