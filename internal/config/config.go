// Package config loads phonebook settings from config files and the environment.
package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported record store drivers.
const (
	DriverEmbedded = "embedded"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Metrics  MetricsConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// DatabaseConfig holds record store connection settings
type DatabaseConfig struct {
	Driver          string // embedded, sqlite, postgres
	URI             string // overrides Driver and the discrete fields when set
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	DataDir         string // embedded store directory, sqlite file directory
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int    // in minutes
	LogLevel        string // gorm log level: silent, error, warn, info
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level         string // debug, info, warn, error
	Format        string // json, console
	Output        string // stdout, stderr, or file path
	RequestBodies bool   // attach POST bodies to access logs
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	ShutdownTimeout  time.Duration
	CORSAllowOrigins []string
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// Load reads configuration with the following priority (highest first):
// 1. Environment variables with PHONEBOOK_ prefix (e.g., PHONEBOOK_DATABASE_URI)
// 2. The config file at path, or config.toml found in the search paths
// 3. Built-in defaults
//
// PORT and DATABASE_URI are honoured for compatibility with existing
// deployments. MONGODB_URI is read too, so a leftover MongoDB URI is rejected
// with a pointer to the supported schemes instead of being silently ignored.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/phonebook")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("PHONEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("app.port", "PHONEBOOK_APP_PORT", "PORT")
	_ = v.BindEnv("database.uri", "PHONEBOOK_DATABASE_URI", "DATABASE_URI", "MONGODB_URI")
	v.SetDefault("metrics.enabled", true)

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			Driver:          strings.ToLower(v.GetString("database.driver")),
			URI:             v.GetString("database.uri"),
			Host:            v.GetString("database.host"),
			Port:            v.GetInt("database.port"),
			User:            v.GetString("database.user"),
			Password:        v.GetString("database.password"),
			DBName:          v.GetString("database.dbname"),
			SSLMode:         v.GetString("database.sslmode"),
			DataDir:         v.GetString("database.data_dir"),
			MaxOpenConns:    v.GetInt("database.max_open_conns"),
			MaxIdleConns:    v.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: v.GetInt("database.conn_max_lifetime"),
			LogLevel:        v.GetString("database.log_level"),
		},
		Log: LogConfig{
			Level:         v.GetString("log.level"),
			Format:        v.GetString("log.format"),
			Output:        v.GetString("log.output"),
			RequestBodies: v.GetBool("log.request_bodies"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:  v.GetDuration("http.shutdown_timeout"),
			CORSAllowOrigins: splitList(v.GetStringSlice("http.cors_allow_origins")),
		},
		Metrics: MetricsConfig{
			Enabled: v.GetBool("metrics.enabled"),
			Path:    v.GetString("metrics.path"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// splitList accepts both TOML arrays and comma separated environment values.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "phonebook"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "3001"
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverEmbedded
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "phonebook"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.DataDir == "" {
		cfg.Database.DataDir = "./data"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 2
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 60
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 10 * time.Second
	}
	if len(cfg.HTTP.CORSAllowOrigins) == 0 {
		cfg.HTTP.CORSAllowOrigins = []string{"*"}
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if _, err := strconv.Atoi(c.App.Port); err != nil {
		return fmt.Errorf("app.port must be numeric, got %q", c.App.Port)
	}

	switch c.Database.Driver {
	case DriverEmbedded, DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("database.driver must be one of %s, %s, %s; got %q",
			DriverEmbedded, DriverSQLite, DriverPostgres, c.Database.Driver)
	}
	if c.Database.URI != "" {
		if _, _, err := c.Database.Resolve(); err != nil {
			return err
		}
	}

	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be positive")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("database.max_idle_conns (%d) cannot exceed database.max_open_conns (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns)
	}

	if c.HTTP.ReadTimeout < 0 || c.HTTP.WriteTimeout < 0 || c.HTTP.IdleTimeout < 0 || c.HTTP.ShutdownTimeout < 0 {
		return fmt.Errorf("http timeouts cannot be negative")
	}

	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", c.Metrics.Path)
	}

	return nil
}

// IsProduction reports whether the app runs in the production environment
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Resolve returns the record store driver and its data source name.
// A URI takes precedence: postgres:// and postgresql:// select Postgres
// (the configured password is injected when set), sqlite://path selects
// SQLite and file://dir selects the embedded document store.
func (d *DatabaseConfig) Resolve() (driver, dsn string, err error) {
	if d.URI != "" {
		return d.resolveURI()
	}

	switch d.Driver {
	case DriverPostgres:
		return DriverPostgres, d.DSN(), nil
	case DriverSQLite:
		return DriverSQLite, strings.TrimSuffix(d.DataDir, "/") + "/" + d.DBName + ".db", nil
	case DriverEmbedded, "":
		return DriverEmbedded, d.DataDir, nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", d.Driver)
	}
}

func (d *DatabaseConfig) resolveURI() (string, string, error) {
	u, err := url.Parse(d.URI)
	if err != nil {
		return "", "", fmt.Errorf("invalid database.uri: %w", err)
	}

	switch u.Scheme {
	case "postgres", "postgresql":
		if d.Password != "" {
			user := d.User
			if u.User != nil && u.User.Username() != "" {
				user = u.User.Username()
			}
			u.User = url.UserPassword(user, d.Password)
		}
		return DriverPostgres, u.String(), nil
	case "sqlite":
		return DriverSQLite, strings.TrimPrefix(d.URI, "sqlite://"), nil
	case "file":
		return DriverEmbedded, strings.TrimPrefix(d.URI, "file://"), nil
	case "mongodb", "mongodb+srv":
		return "", "", fmt.Errorf("database.uri: MongoDB is not supported; use file://dir, sqlite://path or postgres://host/db")
	default:
		return "", "", fmt.Errorf("unsupported database.uri scheme %q", u.Scheme)
	}
}

// DSN returns the Postgres connection string with properly escaped values
func (d *DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.DBName,
	}
	q := u.Query()
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
