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
	Admin    AdminConfig
	Scrape   ScrapeConfig
	Public   PublicConfig
	CORS     CORSConfig
	Log      LogConfig
}

type DatabaseConfig struct {
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
	Enabled        bool
	Host           string
	Port           int
	Password       string
	DB             int
	TeacherListTTL time.Duration
}

// AdminConfig holds the shared moderation secret. Every admin call fails
// closed when the secret is missing or shorter than MinSecretLength.
type AdminConfig struct {
	Token           string
	MinSecretLength int
}

// ScrapeConfig drives the directory scrape job.
type ScrapeConfig struct {
	Enabled     bool
	SourceURL   string
	School      string
	UserAgent   string
	HTTPTimeout time.Duration
	Interval    time.Duration

	Strategy        string
	Selectors       []string
	FollowPages     bool
	MaxPages        int
	ResultsPathHint string

	NameMinLength int
	NameMaxLength int
	Denylist      []string
}

// PublicConfig bounds the unauthenticated read endpoints.
type PublicConfig struct {
	TeacherSearchLimit int
	ReviewListLimit    int
	PendingDefault     int
	PendingMax         int
	TopDefault         int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

const (
	// StrategySelector extracts candidates from configured CSS selectors.
	StrategySelector = "selector"
	// StrategyText falls back to pattern matching over stripped page text.
	StrategyText = "text"
)

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
		Enabled:        v.GetBool("ENABLE_REDIS_CACHE"),
		Host:           v.GetString("REDIS_HOST"),
		Port:           v.GetInt("REDIS_PORT"),
		Password:       v.GetString("REDIS_PASSWORD"),
		DB:             v.GetInt("REDIS_DB"),
		TeacherListTTL: parseDuration(v.GetString("REDIS_TEACHER_LIST_TTL"), time.Minute),
	}

	cfg.Admin = AdminConfig{
		Token:           v.GetString("ADMIN_TOKEN"),
		MinSecretLength: v.GetInt("ADMIN_TOKEN_MIN_LENGTH"),
	}

	cfg.Scrape = ScrapeConfig{
		Enabled:         v.GetBool("ENABLE_SCRAPE_SCHEDULE"),
		SourceURL:       v.GetString("SCRAPE_SOURCE_URL"),
		School:          v.GetString("SCRAPE_SCHOOL"),
		UserAgent:       v.GetString("SCRAPE_USER_AGENT"),
		HTTPTimeout:     parseDuration(v.GetString("SCRAPE_HTTP_TIMEOUT"), 15*time.Second),
		Interval:        parseDuration(v.GetString("SCRAPE_INTERVAL"), 24*time.Hour),
		Strategy:        v.GetString("SCRAPE_STRATEGY"),
		Selectors:       splitAndTrim(v.GetString("SCRAPE_SELECTORS")),
		FollowPages:     v.GetBool("SCRAPE_FOLLOW_PAGES"),
		MaxPages:        v.GetInt("SCRAPE_MAX_PAGES"),
		ResultsPathHint: v.GetString("SCRAPE_RESULTS_PATH_HINT"),
		NameMinLength:   v.GetInt("SCRAPE_NAME_MIN_LENGTH"),
		NameMaxLength:   v.GetInt("SCRAPE_NAME_MAX_LENGTH"),
		Denylist:        splitAndTrim(v.GetString("SCRAPE_NAME_DENYLIST")),
	}

	cfg.Public = PublicConfig{
		TeacherSearchLimit: v.GetInt("PUBLIC_TEACHER_SEARCH_LIMIT"),
		ReviewListLimit:    v.GetInt("PUBLIC_REVIEW_LIST_LIMIT"),
		PendingDefault:     v.GetInt("ADMIN_PENDING_DEFAULT"),
		PendingMax:         v.GetInt("ADMIN_PENDING_MAX"),
		TopDefault:         v.GetInt("PUBLIC_TOP_DEFAULT"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "edurate")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("ENABLE_REDIS_CACHE", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TEACHER_LIST_TTL", "1m")

	v.SetDefault("ADMIN_TOKEN", "")
	v.SetDefault("ADMIN_TOKEN_MIN_LENGTH", 16)

	v.SetDefault("ENABLE_SCRAPE_SCHEDULE", false)
	v.SetDefault("SCRAPE_SOURCE_URL", "")
	v.SetDefault("SCRAPE_SCHOOL", "")
	v.SetDefault("SCRAPE_USER_AGENT", "edurate-api directory scraper (+https://github.com/edurate/edurate-api)")
	v.SetDefault("SCRAPE_HTTP_TIMEOUT", "15s")
	v.SetDefault("SCRAPE_INTERVAL", "24h")
	v.SetDefault("SCRAPE_STRATEGY", StrategySelector)
	v.SetDefault("SCRAPE_SELECTORS", ".staff-name,.directory-entry .name,td.teacher-name")
	v.SetDefault("SCRAPE_FOLLOW_PAGES", true)
	v.SetDefault("SCRAPE_MAX_PAGES", 10)
	v.SetDefault("SCRAPE_RESULTS_PATH_HINT", "")
	v.SetDefault("SCRAPE_NAME_MIN_LENGTH", 5)
	v.SetDefault("SCRAPE_NAME_MAX_LENGTH", 40)
	v.SetDefault("SCRAPE_NAME_DENYLIST", "staff,directory,faculty,department,office,admin,school,principal,contact,home")

	v.SetDefault("PUBLIC_TEACHER_SEARCH_LIMIT", 100)
	v.SetDefault("PUBLIC_REVIEW_LIST_LIMIT", 50)
	v.SetDefault("ADMIN_PENDING_DEFAULT", 50)
	v.SetDefault("ADMIN_PENDING_MAX", 200)
	v.SetDefault("PUBLIC_TOP_DEFAULT", 10)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
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
