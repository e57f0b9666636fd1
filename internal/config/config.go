package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName             string
	AppEnv              string
	AppPort             string
	DatabaseURL         string
	DatabaseMaxOpen     int
	DatabaseMaxIdle     int
	RedisURL            string
	CORSAllowOrigins    string
	NATSURL             string
	JWTSecret           string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
	SendGridAPIKey      string
	MailFromName        string
	MailFromEmail       string
	MailOpsEmail        string
	ContentCacheTTL     time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CREST")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Crest API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.max_open", 25)
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("cloudinary.folder", "crest")
	v.SetDefault("mail.from_name", "Crest Online")
	v.SetDefault("content.cache_ttl", "5m")

	ttlString := v.GetString("content.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid content cache ttl: %w", err)
	}

	cfg := Config{
		AppName:             v.GetString("app.name"),
		AppEnv:              v.GetString("app.env"),
		AppPort:             v.GetString("app.port"),
		DatabaseURL:         v.GetString("database.url"),
		DatabaseMaxOpen:     v.GetInt("database.max_open"),
		DatabaseMaxIdle:     v.GetInt("database.max_idle"),
		RedisURL:            v.GetString("redis.url"),
		CORSAllowOrigins:    v.GetString("cors.allow_origins"),
		NATSURL:             v.GetString("nats.url"),
		JWTSecret:           v.GetString("jwt.secret"),
		CloudinaryCloudName: v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:    v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret: v.GetString("cloudinary.api_secret"),
		CloudinaryFolder:    v.GetString("cloudinary.folder"),
		SendGridAPIKey:      v.GetString("sendgrid.api_key"),
		MailFromName:        v.GetString("mail.from_name"),
		MailFromEmail:       v.GetString("mail.from_email"),
		MailOpsEmail:        v.GetString("mail.ops_email"),
		ContentCacheTTL:     ttl,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}
