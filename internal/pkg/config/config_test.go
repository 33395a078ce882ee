package config

import (
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MAPBOX_ACCESS_TOKEN", "")
	t.Setenv("GEODASH_MAP_ACCESS_TOKEN", "")

	cfg, err := Load("geodash-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Database.Enabled {
		t.Error("expected database disabled by default")
	}
	if cfg.Map.CenterLat != 41.7167 || cfg.Map.CenterLon != 44.7833 {
		t.Errorf("unexpected center (%v, %v)", cfg.Map.CenterLat, cfg.Map.CenterLon)
	}
	if cfg.Map.Zoom != 12 {
		t.Errorf("expected zoom 12, got %v", cfg.Map.Zoom)
	}
	if cfg.Telemetry.ServiceName != "geodash-test" {
		t.Errorf("expected service name geodash-test, got %s", cfg.Telemetry.ServiceName)
	}
	if cfg.Dashboard.DateLayout != "" {
		t.Errorf("expected date layout to follow the locale, got %q", cfg.Dashboard.DateLayout)
	}
	if cfg.Docs.Title != "Geodash API" || cfg.Docs.SpecPath != "api/openapi.yaml" {
		t.Errorf("unexpected docs config %+v", cfg.Docs)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GEODASH_SERVER_PORT", "9090")
	t.Setenv("GEODASH_DASHBOARD_BACKEND_URL", "http://localhost:8000")
	t.Setenv("GEODASH_DOCS_TITLE", "Transparency API")
	t.Setenv("GEODASH_DOCS_SPEC_PATH", "/etc/geodash/openapi.yaml")

	cfg, err := Load("geodash-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Dashboard.BackendURL != "http://localhost:8000" {
		t.Errorf("unexpected backend url %q", cfg.Dashboard.BackendURL)
	}
	if cfg.Docs.Title != "Transparency API" || cfg.Docs.SpecPath != "/etc/geodash/openapi.yaml" {
		t.Errorf("unexpected docs config %+v", cfg.Docs)
	}
}

func TestLoad_AccessTokenAliases(t *testing.T) {
	t.Setenv("GEODASH_MAP_ACCESS_TOKEN", "")
	t.Setenv("MAPBOX_ACCESS_TOKEN", "pk.fallback")

	cfg, err := Load("geodash-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Map.AccessToken != "pk.fallback" {
		t.Errorf("expected token from MAPBOX_ACCESS_TOKEN, got %q", cfg.Map.AccessToken)
	}

	t.Setenv("GEODASH_MAP_ACCESS_TOKEN", "pk.primary")
	cfg, err = Load("geodash-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Map.AccessToken != "pk.primary" {
		t.Errorf("expected GEODASH_MAP_ACCESS_TOKEN to win, got %q", cfg.Map.AccessToken)
	}
}

func validConfig() Config {
	return Config{
		Server:    ServerConfig{Port: 8000, ReadTimeout: 10, WriteTimeout: 10},
		Log:       LogConfig{Level: "info", Format: "json"},
		Map:       MapConfig{LightStyle: "light", DarkStyle: "dark", CenterLat: 41.7, CenterLon: 44.8, Zoom: 12},
		Dashboard: DashboardConfig{Locale: "en-US", RequestTimeout: 10},
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Map.Zoom = 30
	cfg.Dashboard.BackendURL = "localhost:8000"
	cfg.Database = DatabaseConfig{Enabled: true}

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"server.port", "map.zoom", "dashboard.backend_url", "database.host", "database.dbname"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in error, got:\n%s", want, err)
		}
	}
}

func TestValidate_DatabaseIgnoredWhenDisabled(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "geo", Password: "p@ss", DBName: "geodash", SSLMode: "disable"}
	want := "postgres://geo:p%40ss@db:5432/geodash?sslmode=disable"
	if got := d.DSN(); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestDashboardConfig_LocaleTag(t *testing.T) {
	if got := (DashboardConfig{Locale: "ka-GE"}).LocaleTag(); got.String() != "ka-GE" {
		t.Errorf("expected ka-GE, got %s", got)
	}
	if got := (DashboardConfig{Locale: "!!"}).LocaleTag(); got != language.AmericanEnglish {
		t.Errorf("expected fallback en-US, got %s", got)
	}
}
