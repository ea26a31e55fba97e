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
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Locale    LocaleConfig
	Cache     CacheConfig
	Planner   PlannerConfig
	Pictogram PictogramConfig
	Cards     CardsConfig
}

type DatabaseConfig struct {
	// Driver selects the storage engine: "postgres" or "sqlite".
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	Path         string
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

// LocaleConfig governs the bilingual read path. Reads tagged with a
// non-default language are served from the translated shadow tables.
type LocaleConfig struct {
	Default string
}

// CacheConfig tunes the Redis-backed read cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// PlannerConfig configures the generative lesson/goal planner collaborator.
type PlannerConfig struct {
	Enabled bool
	APIKeys []string
	Model   string
	Timeout time.Duration
}

// PictogramConfig configures the pictogram lookup collaborator.
type PictogramConfig struct {
	BaseURL   string
	StaticURL string
	Locale    string
	Timeout   time.Duration
}

// CardsConfig bounds custom card uploads.
type CardsConfig struct {
	MaxImageBytes int64
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
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Driver:       v.GetString("DB_DRIVER"),
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		Path:         v.GetString("DB_PATH"),
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

	cfg.Locale = LocaleConfig{Default: v.GetString("DEFAULT_LOCALE")}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	cfg.Planner = PlannerConfig{
		Enabled: v.GetBool("ENABLE_PLANNER"),
		APIKeys: splitAndTrim(v.GetString("PLANNER_API_KEYS")),
		Model:   v.GetString("PLANNER_MODEL"),
		Timeout: parseDuration(v.GetString("PLANNER_TIMEOUT"), 60*time.Second),
	}

	cfg.Pictogram = PictogramConfig{
		BaseURL:   v.GetString("PICTOGRAM_BASE_URL"),
		StaticURL: v.GetString("PICTOGRAM_STATIC_URL"),
		Locale:    v.GetString("PICTOGRAM_LOCALE"),
		Timeout:   parseDuration(v.GetString("PICTOGRAM_TIMEOUT"), 3*time.Second),
	}

	maxImageBytes := v.GetInt64("CARDS_MAX_IMAGE_BYTES")
	if maxImageBytes <= 0 {
		maxImageBytes = 2 * 1024 * 1024
	}
	cfg.Cards = CardsConfig{MaxImageBytes: maxImageBytes}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "brightsteps")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_PATH", "./brightsteps.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("DEFAULT_LOCALE", "en")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("ENABLE_PLANNER", false)
	v.SetDefault("PLANNER_API_KEYS", "")
	v.SetDefault("PLANNER_MODEL", "gemini-2.0-flash")
	v.SetDefault("PLANNER_TIMEOUT", "60s")

	v.SetDefault("PICTOGRAM_BASE_URL", "https://api.arasaac.org")
	v.SetDefault("PICTOGRAM_STATIC_URL", "https://static.arasaac.org/pictograms")
	v.SetDefault("PICTOGRAM_LOCALE", "en")
	v.SetDefault("PICTOGRAM_TIMEOUT", "3s")

	v.SetDefault("CARDS_MAX_IMAGE_BYTES", 2*1024*1024)
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
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
