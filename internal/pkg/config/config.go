package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Map       MapConfig       `mapstructure:"map"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Docs      DocsConfig      `mapstructure:"docs"`
}

type ServerConfig struct {
	Port           int    `mapstructure:"port"`
	ReadTimeout    int    `mapstructure:"read_timeout"`
	WriteTimeout   int    `mapstructure:"write_timeout"`
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DatabaseConfig selects the Postgres catalogue. When Enabled is false the
// in-memory sample catalogue is served.
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

// NATSConfig configures catalogue update events. An empty URL disables them.
type NATSConfig struct {
	URL string `mapstructure:"url"`
}

// ValkeyConfig configures the read-through cache. An empty Addr disables it.
type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

// MapConfig configures the rendering engine.
type MapConfig struct {
	AccessToken string  `mapstructure:"access_token"`
	LightStyle  string  `mapstructure:"light_style"`
	DarkStyle   string  `mapstructure:"dark_style"`
	CenterLat   float64 `mapstructure:"center_lat"`
	CenterLon   float64 `mapstructure:"center_lon"`
	Zoom        float64 `mapstructure:"zoom"`
}

// DashboardConfig configures where the dashboard reads projects from and
// how popups are formatted. An empty BackendURL reads the local catalogue.
type DashboardConfig struct {
	Title          string `mapstructure:"title"`
	BackendURL     string `mapstructure:"backend_url"`
	Locale         string `mapstructure:"locale"`
	DateLayout     string `mapstructure:"date_layout"`
	RequestTimeout int    `mapstructure:"request_timeout"`
}

// DocsConfig configures the Swagger UI page. SpecPath is relative to the
// server's working directory.
type DocsConfig struct {
	Title    string `mapstructure:"title"`
	SpecPath string `mapstructure:"spec_path"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.allowed_origins", "http://localhost:3000, http://localhost:8000")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "geodash")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "geodash")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("nats.url", "")
	v.SetDefault("valkey.addr", "")
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("map.access_token", "")
	v.SetDefault("map.light_style", "mapbox://styles/mapbox/light-v11")
	v.SetDefault("map.dark_style", "mapbox://styles/mapbox/dark-v11")
	v.SetDefault("map.center_lat", 41.7167)
	v.SetDefault("map.center_lon", 44.7833)
	v.SetDefault("map.zoom", 12)
	v.SetDefault("dashboard.title", "Georgia Transparency Dashboard")
	v.SetDefault("dashboard.backend_url", "")
	v.SetDefault("dashboard.locale", "en-US")
	v.SetDefault("dashboard.date_layout", "")
	v.SetDefault("dashboard.request_timeout", 10)
	v.SetDefault("docs.title", "Geodash API")
	v.SetDefault("docs.spec_path", "api/openapi.yaml")

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: GEODASH_DATABASE_HOST → database.host
	v.SetEnvPrefix("GEODASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The token is also accepted under the name the map library documents.
	_ = v.BindEnv("map.access_token", "GEODASH_MAP_ACCESS_TOKEN", "MAPBOX_ACCESS_TOKEN")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are present and sane.
// A missing map access token is not an error: the map degrades instead.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}
	if c.Database.Enabled {
		if c.Database.Host == "" {
			errs = append(errs, "database.host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
		}
		if c.Database.User == "" {
			errs = append(errs, "database.user is required")
		}
		if c.Database.DBName == "" {
			errs = append(errs, "database.dbname is required")
		}
	}
	if c.Map.LightStyle == "" || c.Map.DarkStyle == "" {
		errs = append(errs, "map.light_style and map.dark_style are required")
	}
	if c.Map.CenterLat < -90 || c.Map.CenterLat > 90 || c.Map.CenterLon < -180 || c.Map.CenterLon > 180 {
		errs = append(errs, fmt.Sprintf("map center out of range: (%v, %v)", c.Map.CenterLat, c.Map.CenterLon))
	}
	if c.Map.Zoom < 0 || c.Map.Zoom > 22 {
		errs = append(errs, fmt.Sprintf("map.zoom must be 0-22, got %v", c.Map.Zoom))
	}
	if c.Dashboard.BackendURL != "" {
		if u, err := url.Parse(c.Dashboard.BackendURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Sprintf("dashboard.backend_url must be an absolute URL, got %q", c.Dashboard.BackendURL))
		}
	}
	if _, err := language.Parse(c.Dashboard.Locale); err != nil {
		errs = append(errs, fmt.Sprintf("dashboard.locale: %v", err))
	}
	if c.Dashboard.RequestTimeout <= 0 {
		errs = append(errs, "dashboard.request_timeout must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// LocaleTag returns the configured popup locale, falling back to US English.
func (d DashboardConfig) LocaleTag() language.Tag {
	tag, err := language.Parse(d.Locale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}
