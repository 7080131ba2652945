package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NATAL_ENGINE_CONFIG", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Address != ":50051" || cfg.Server.HTTPAddress != ":8080" {
		t.Fatalf("unexpected server defaults: %+v", cfg.Server)
	}
	if cfg.Astrology.TimeZone != "Europe/Madrid" || cfg.Astrology.HouseSystem != "P" {
		t.Fatalf("unexpected astrology defaults: %+v", cfg.Astrology)
	}
	if cfg.Astrology.Ayanamsa != "fagan_bradley" || cfg.Astrology.Locale != "es" {
		t.Fatalf("unexpected astrology defaults: %+v", cfg.Astrology)
	}
	if cfg.Ephemeris.Backend != BackendAnalytic {
		t.Fatalf("expected analytic backend, got %q", cfg.Ephemeris.Backend)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  address: ":6000"
  gracefulTimeout: 3s
astrology:
  timeZone: America/New_York
  houseSystem: O
  locale: en
ephemeris:
  backend: http
  baseURL: http://ephemeris:9000
  timeout: 2s
`)
	t.Setenv("NATAL_ENGINE_CONFIG", path)
	t.Setenv("NATAL_AYANAMSA", "lahiri")
	t.Setenv("NATAL_LOG_FORMAT", "json")
	t.Setenv("NATAL_LOOKUP_CONCURRENCY", "8")
	t.Setenv("NATAL_EPHEMERIS_TIMEOUT", "750ms")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Address != ":6000" || cfg.Server.GracefulTimeout != 3*time.Second {
		t.Fatalf("file values not applied: %+v", cfg.Server)
	}
	if cfg.Server.MetricsAddress != ":2112" {
		t.Fatalf("default metrics address lost: %q", cfg.Server.MetricsAddress)
	}
	if cfg.Astrology.TimeZone != "America/New_York" || cfg.Astrology.HouseSystem != "O" || cfg.Astrology.Locale != "en" {
		t.Fatalf("file values not applied: %+v", cfg.Astrology)
	}
	if cfg.Astrology.Ayanamsa != "lahiri" || cfg.Astrology.LookupConcurrency != 8 {
		t.Fatalf("env overrides not applied: %+v", cfg.Astrology)
	}
	if !cfg.Logging.JSON {
		t.Fatalf("expected JSON logging")
	}
	if cfg.Ephemeris.Backend != BackendHTTP || cfg.Ephemeris.Timeout != 750*time.Millisecond {
		t.Fatalf("unexpected ephemeris config: %+v", cfg.Ephemeris)
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	cases := map[string]string{
		"zone":    "astrology:\n  timeZone: Nowhere/Special\n",
		"houses":  "astrology:\n  houseSystem: K\n",
		"mode":    "astrology:\n  ayanamsa: raman\n",
		"locale":  "astrology:\n  locale: fr\n",
		"backend": "ephemeris:\n  backend: swiss\n",
		"baseURL": "ephemeris:\n  backend: http\n",
		"yaml":    "server: [",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, "config.yaml", content)
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "NATAL_TIME_ZONE=Asia/Kolkata\nNATAL_LOG_LEVEL=debug\n")
	t.Setenv("NATAL_TIME_ZONE", "")
	os.Unsetenv("NATAL_TIME_ZONE")
	t.Setenv("NATAL_LOG_LEVEL", "warn")
	t.Setenv("NATAL_ENGINE_CONFIG", "")

	if err := LoadDotEnv(path, filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Astrology.TimeZone != "Asia/Kolkata" {
		t.Fatalf("expected zone from .env, got %q", cfg.Astrology.TimeZone)
	}
	if cfg.Logging.Level != "warn" {
		t.Fatalf("existing environment must win over .env, got %q", cfg.Logging.Level)
	}
}
