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
	PublicURL string

	Database   DatabaseConfig
	Redis      RedisConfig
	Mail       MailConfig
	Moderation ModerationConfig
	Notify     NotifyConfig
	Retention  RetentionConfig
	CORS       CORSConfig
	Log        LogConfig
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
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// MailConfig holds outbound SMTP provider credentials.
type MailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// ModerationConfig governs approval capability tokens and the moderation inbox.
type ModerationConfig struct {
	TokenSecret    string
	TokenTTL       time.Duration
	ModeratorEmail string
	ConfirmPath    string
}

// NotifyConfig tunes the subscriber fan-out.
type NotifyConfig struct {
	SendTimeout           time.Duration
	SubscriptionsCacheTTL time.Duration
}

// RetentionConfig defines the inactivity windows for the retention batch.
type RetentionConfig struct {
	WarnAfter   time.Duration
	DeleteAfter time.Duration
	Interval    time.Duration
	IdentityURL string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
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
	cfg.PublicURL = strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/")

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
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.Mail = MailConfig{
		Host:        v.GetString("SMTP_HOST"),
		Port:        v.GetInt("SMTP_PORT"),
		Username:    v.GetString("SMTP_USERNAME"),
		Password:    v.GetString("SMTP_PASSWORD"),
		FromAddress: v.GetString("MAIL_FROM_ADDRESS"),
		FromName:    v.GetString("MAIL_FROM_NAME"),
	}

	cfg.Moderation = ModerationConfig{
		TokenSecret:    v.GetString("MODERATION_TOKEN_SECRET"),
		TokenTTL:       parseDuration(v.GetString("MODERATION_TOKEN_TTL"), 7*24*time.Hour),
		ModeratorEmail: v.GetString("MODERATOR_EMAIL"),
		ConfirmPath:    v.GetString("MODERATION_CONFIRM_PATH"),
	}

	cfg.Notify = NotifyConfig{
		SendTimeout:           parseDuration(v.GetString("NOTIFY_SEND_TIMEOUT"), 10*time.Second),
		SubscriptionsCacheTTL: parseDuration(v.GetString("SUBSCRIPTIONS_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Retention = RetentionConfig{
		WarnAfter:   parseDuration(v.GetString("RETENTION_WARN_AFTER"), 11*30*24*time.Hour),
		DeleteAfter: parseDuration(v.GetString("RETENTION_DELETE_AFTER"), 12*30*24*time.Hour),
		Interval:    parseDuration(v.GetString("RETENTION_INTERVAL"), 0),
		IdentityURL: v.GetString("IDENTITY_ADMIN_URL"),
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
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "event_finder")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("MAIL_FROM_ADDRESS", "noreply@localhost")
	v.SetDefault("MAIL_FROM_NAME", "Event Finder")

	v.SetDefault("MODERATION_TOKEN_SECRET", "dev_moderation_secret")
	v.SetDefault("MODERATION_TOKEN_TTL", "168h")
	v.SetDefault("MODERATOR_EMAIL", "moderator@localhost")
	v.SetDefault("MODERATION_CONFIRM_PATH", "/event-approved")

	v.SetDefault("NOTIFY_SEND_TIMEOUT", "10s")
	v.SetDefault("SUBSCRIPTIONS_CACHE_TTL", "5m")

	v.SetDefault("RETENTION_WARN_AFTER", "7920h")
	v.SetDefault("RETENTION_DELETE_AFTER", "8640h")
	v.SetDefault("RETENTION_INTERVAL", "0")
	v.SetDefault("IDENTITY_ADMIN_URL", "")

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
