package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionSecret is the development fallback; main warns when it is in use.
const DefaultSessionSecret = "supersecret"

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Host string
		Port int
	}
	Database struct {
		Path string
	}
	Session struct {
		Secret        string
		TTL           time.Duration
		CookieName    string
		Secure        bool
		SweepInterval time.Duration
	}
	Auth struct {
		BcryptCost int
	}
	Notes struct {
		StrictMutations bool
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
		URLExpiry time.Duration
	}
	AWS struct {
		Profile string
	}
	Metrics struct {
		Enabled bool
	}
	Log struct {
		Level  string
		Format string
	}
}

// Addr is the listen address of the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Load reads configuration from environment variables, an optional .env file
// and an optional config file in the working directory.
func Load() (Config, error) {
	_ = godotenv.Load() // optional file, never overrides the real environment

	v := viper.New()
	v.SetEnvPrefix("NOTES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("database.path", "data/notes.db")
	v.SetDefault("session.secret", DefaultSessionSecret)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("session.cookiename", "notes.sid")
	v.SetDefault("session.secure", false)
	v.SetDefault("session.sweepinterval", 15*time.Minute)
	v.SetDefault("auth.bcryptcost", bcrypt.DefaultCost)
	v.SetDefault("notes.strictmutations", false)
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "note-exports")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.urlexpiry", 15*time.Minute)
	v.SetDefault("aws.profile", "")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// conventional names used by hosting platforms
	_ = v.BindEnv("server.port", "NOTES_SERVER_PORT", "PORT")
	_ = v.BindEnv("database.path", "NOTES_DATABASE_PATH", "DATABASE_PATH")
	_ = v.BindEnv("session.secret", "NOTES_SESSION_SECRET", "SESSION_SECRET")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Session.Secret) == "" {
		return fmt.Errorf("session secret is required")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive, got %s", c.Session.TTL)
	}
	if c.Session.CookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d, got %d", bcrypt.MinCost, bcrypt.MaxCost, c.Auth.BcryptCost)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database path is required")
	}
	return nil
}
