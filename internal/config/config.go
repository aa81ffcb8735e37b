// This file defines the configuration structure for the application.
package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration settings for the application.
// It maps directly to the structure of config.yml.
type Config struct {
	Port int `mapstructure:"port"`
	// CheckInterval is the live match check period in minutes. 0 disables it.
	CheckInterval int `mapstructure:"check_interval"`
	// RefreshInterval is the profile refresh period in minutes. 0 disables it.
	RefreshInterval int            `mapstructure:"refresh_interval"`
	Database        DatabaseConfig `mapstructure:"database"`
	ChessCom        ChessComConfig `mapstructure:"chesscom"`
	Mail            MailConfig     `mapstructure:"mail"`
	Admin           AdminConfig    `mapstructure:"admin"`
	Metrics         MetricsConfig  `mapstructure:"metrics"`
	Sentry          SentryConfig   `mapstructure:"sentry"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ChessComConfig configures the client for the public Chess.com API.
type ChessComConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	UserAgent         string  `mapstructure:"user_agent"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// Timeout returns the per-request timeout for upstream calls.
func (c ChessComConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	// TLS is one of "mandatory", "opportunistic" or "none".
	TLS string `mapstructure:"tls"`
}

type AdminConfig struct {
	// TokenHash is a bcrypt hash of the token accepted in X-Admin-Token.
	TokenHash string `mapstructure:"token_hash"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type SentryConfig struct {
	DSN string `mapstructure:"dsn"`
}

// Load reads configuration from a file named "config.yml" in the
// current directory and unmarshals it into a Config struct.
func Load() (*Config, error) {
	// A .env file is optional; its values behave like real env vars.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")
	viper.AddConfigPath(".")

	// e.g., CHESS_DATABASE_PATH will override the `database.path` key.
	viper.SetEnvPrefix("CHESS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; ignore error and use defaults
		} else {
			return nil, err
		}
	}

	return unmarshal()
}

func setDefaults() {
	viper.SetDefault("port", 8080)
	viper.SetDefault("check_interval", 5)
	viper.SetDefault("refresh_interval", 0)
	viper.SetDefault("database.path", "./chesscom.db")
	viper.SetDefault("chesscom.base_url", "https://api.chess.com")
	viper.SetDefault("chesscom.user_agent", "chesscom-helper/1.0 (+https://github.com/vrsandeep/chesscom-helper)")
	viper.SetDefault("chesscom.timeout_seconds", 10)
	viper.SetDefault("chesscom.requests_per_second", 2.0)
	viper.SetDefault("mail.host", "localhost")
	viper.SetDefault("mail.port", 587)
	viper.SetDefault("mail.username", "")
	viper.SetDefault("mail.password", "")
	viper.SetDefault("mail.from", "noreply@chesscom-helper.local")
	viper.SetDefault("mail.tls", "opportunistic")
	viper.SetDefault("admin.token_hash", "")
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("sentry.dsn", "")
}

func unmarshal() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Watch re-reads the config file whenever it changes on disk and hands the
// new configuration to onChange. Reload errors are logged and the previous
// configuration stays in effect.
func Watch(onChange func(*Config)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		log.Printf("Config file changed: %s (%s)", e.Name, e.Op)
		cfg, err := unmarshal()
		if err != nil {
			log.Printf("Warning: could not reload configuration: %v", err)
			return
		}
		onChange(cfg)
	})
	viper.WatchConfig()
}
