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

	Data  DataConfig
	JWT   JWTConfig
	Reset ResetConfig
	Mail  MailConfig
	CORS  CORSConfig
	Log   LogConfig
}

// DataConfig locates the flat-file document store and tunes its lock.
type DataConfig struct {
	Dir            string
	LockAttempts   int
	LockDelay      time.Duration
	LockStaleAfter time.Duration
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
}

// ResetConfig governs the password reset code lifecycle.
type ResetConfig struct {
	CodeTTL time.Duration
}

// MailConfig carries Mailgun credentials. Empty values disable outbound mail.
type MailConfig struct {
	APIKey     string
	Domain     string
	FromEmail  string
	BCCEmail   string
	AdminEmail string
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
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Data = DataConfig{
		Dir:            v.GetString("DATA_DIR"),
		LockAttempts:   v.GetInt("DATA_LOCK_ATTEMPTS"),
		LockDelay:      parseDuration(v.GetString("DATA_LOCK_DELAY"), 100*time.Millisecond),
		LockStaleAfter: parseDuration(v.GetString("DATA_LOCK_STALE_AFTER"), 30*time.Second),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 30*time.Minute),
	}

	cfg.Reset = ResetConfig{
		CodeTTL: parseDuration(v.GetString("RESET_CODE_TTL"), 15*time.Minute),
	}

	cfg.Mail = MailConfig{
		APIKey:     v.GetString("MAILGUN_API_KEY"),
		Domain:     v.GetString("MAILGUN_DOMAIN"),
		FromEmail:  v.GetString("MAIL_FROM"),
		BCCEmail:   v.GetString("MAIL_BCC"),
		AdminEmail: v.GetString("MAIL_ADMIN"),
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
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("DATA_LOCK_ATTEMPTS", 50)
	v.SetDefault("DATA_LOCK_DELAY", "100ms")
	v.SetDefault("DATA_LOCK_STALE_AFTER", "30s")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "30m")
	v.SetDefault("RESET_CODE_TTL", "15m")

	v.SetDefault("MAILGUN_API_KEY", "")
	v.SetDefault("MAILGUN_DOMAIN", "")
	v.SetDefault("MAIL_FROM", "info@stempro.org")
	v.SetDefault("MAIL_BCC", "")
	v.SetDefault("MAIL_ADMIN", "")

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
