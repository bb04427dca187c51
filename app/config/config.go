// Package config loads application settings from defaults, an optional
// YAML file and BLOG_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. BLOG_SERVER_PORT.
const EnvPrefix = "BLOG"

type Config struct {
	Env      string
	Server   Server
	Database Database
	Views    Views
	Auth     Auth
	Metrics  Metrics
	Log      Log
}

type Server struct {
	Address         string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Addr is the listen address for net/http
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Address, s.Port)
}

type Database struct {
	Path       string
	InMemory   bool
	SyncWrites bool
}

type Views struct {
	// Dir overrides the embedded templates when set.
	Dir string
}

type Auth struct {
	LoginURL     string
	CookieName   string
	SessionTTL   time.Duration
	CookieSecure bool
}

type Metrics struct {
	Enabled bool
	Path    string
}

type Log struct {
	Level string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("server.address", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.path", "data")
	v.SetDefault("database.in_memory", false)
	v.SetDefault("database.sync_writes", false)

	v.SetDefault("views.dir", "")

	v.SetDefault("auth.login_url", "/login")
	v.SetDefault("auth.cookie_name", "blog_session")
	v.SetDefault("auth.session_ttl", 14*24*time.Hour)
	v.SetDefault("auth.cookie_secure", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("log.level", "info")
}

// Load reads configuration. An empty path searches ./config/config.yaml and
// tolerates its absence; an explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Env: v.GetString("env"),
		Server: Server{
			Address:         v.GetString("server.address"),
			Port:            v.GetInt("server.port"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Database: Database{
			Path:       v.GetString("database.path"),
			InMemory:   v.GetBool("database.in_memory"),
			SyncWrites: v.GetBool("database.sync_writes"),
		},
		Views: Views{
			Dir: v.GetString("views.dir"),
		},
		Auth: Auth{
			LoginURL:     v.GetString("auth.login_url"),
			CookieName:   v.GetString("auth.cookie_name"),
			SessionTTL:   v.GetDuration("auth.session_ttl"),
			CookieSecure: v.GetBool("auth.cookie_secure"),
		},
		Metrics: Metrics{
			Enabled: v.GetBool("metrics.enabled"),
			Path:    v.GetString("metrics.path"),
		},
		Log: Log{
			Level: v.GetString("log.level"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if !c.Database.InMemory && c.Database.Path == "" {
		return errors.New("database.path is required unless database.in_memory is set")
	}
	if !strings.HasPrefix(c.Auth.LoginURL, "/") {
		return fmt.Errorf("auth.login_url %q must be a local path", c.Auth.LoginURL)
	}
	if c.Auth.CookieName == "" {
		return errors.New("auth.cookie_name is required")
	}
	if c.Auth.SessionTTL <= 0 {
		return errors.New("auth.session_ttl must be positive")
	}
	return nil
}
