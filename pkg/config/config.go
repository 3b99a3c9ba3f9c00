package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env  string
	Port int

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Ingest   IngestConfig
	Query    QueryConfig
	Dedupe   DedupeConfig
	Exports  ExportsConfig
}

// DatabaseConfig locates the external record store. URL takes precedence; the
// discrete fields exist for local development against a plain Postgres.
type DatabaseConfig struct {
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// IngestConfig tunes the write path for day results.
type IngestConfig struct {
	// MaxBodyBytes caps the request body accepted by POST /day-results.
	MaxBodyBytes int64
	// StrictErrors controls the failure policy: true returns 4xx/5xx on
	// failure, false always answers 200 with ok:false so the client never
	// treats a dropped submission as fatal.
	StrictErrors bool
	// RequireIdentity rejects submissions missing class or participant
	// instead of falling back to the UNDEFINED_* sentinels.
	RequireIdentity bool
}

// QueryConfig bounds the read path.
type QueryConfig struct {
	// RowLimit caps how many recent rows a single aggregation query fetches.
	RowLimit int
}

// DedupeConfig governs best-effort duplicate suppression on ingest.
type DedupeConfig struct {
	Enabled bool
	TTL     time.Duration
}

// ExportsConfig gates the summary export endpoint.
type ExportsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Database = DatabaseConfig{
		URL:          v.GetString("DB_URL"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Ingest = IngestConfig{
		MaxBodyBytes:    v.GetInt64("MAX_BODY_BYTES"),
		StrictErrors:    v.GetBool("INGEST_STRICT_ERRORS"),
		RequireIdentity: v.GetBool("INGEST_REQUIRE_IDENTITY"),
	}
	if cfg.Ingest.MaxBodyBytes <= 0 {
		cfg.Ingest.MaxBodyBytes = 1 << 20
	}

	cfg.Query = QueryConfig{RowLimit: v.GetInt("QUERY_ROW_LIMIT")}
	if cfg.Query.RowLimit <= 0 {
		cfg.Query.RowLimit = 1000
	}

	cfg.Dedupe = DedupeConfig{
		Enabled: v.GetBool("ENABLE_DEDUPE"),
		TTL:     parseDuration(v.GetString("DEDUPE_TTL"), 10*time.Minute),
	}

	cfg.Exports = ExportsConfig{Enabled: v.GetBool("ENABLE_EXPORTS")}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8000)

	v.SetDefault("DB_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "day_results")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("MAX_BODY_BYTES", 1<<20)
	v.SetDefault("INGEST_STRICT_ERRORS", true)
	v.SetDefault("INGEST_REQUIRE_IDENTITY", false)

	v.SetDefault("QUERY_ROW_LIMIT", 1000)

	v.SetDefault("ENABLE_DEDUPE", false)
	v.SetDefault("DEDUPE_TTL", "10m")

	v.SetDefault("ENABLE_EXPORTS", false)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
