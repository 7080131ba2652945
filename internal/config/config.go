package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/miradorstack/natal-engine/internal/ephemeris"
	"github.com/miradorstack/natal-engine/internal/locale"
	"github.com/miradorstack/natal-engine/internal/utils"
)

const (
	// BackendAnalytic computes ephemeris values in process.
	BackendAnalytic = "analytic"
	// BackendHTTP delegates ephemeris values to a remote sidecar.
	BackendHTTP = "http"
)

// Config captures every setting required to boot the natal engine.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Astrology AstrologyConfig `yaml:"astrology"`
	Ephemeris EphemerisConfig `yaml:"ephemeris"`
}

// ServerConfig controls the gRPC, HTTP and metrics listeners.
type ServerConfig struct {
	Address         string        `yaml:"address"`
	HTTPAddress     string        `yaml:"httpAddress"`
	MetricsAddress  string        `yaml:"metricsAddress"`
	GracefulTimeout time.Duration `yaml:"gracefulTimeout"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

// AstrologyConfig holds the chart conventions applied to every request.
type AstrologyConfig struct {
	TimeZone          string `yaml:"timeZone"`
	HouseSystem       string `yaml:"houseSystem"`
	Ayanamsa          string `yaml:"ayanamsa"`
	Locale            string `yaml:"locale"`
	LookupConcurrency int    `yaml:"lookupConcurrency"`
}

// EphemerisConfig selects and configures the ephemeris backend.
type EphemerisConfig struct {
	Backend      string        `yaml:"backend"`
	BaseURL      string        `yaml:"baseURL"`
	HousesPath   string        `yaml:"housesPath"`
	AyanamsaPath string        `yaml:"ayanamsaPath"`
	BodyPath     string        `yaml:"bodyPath"`
	Timeout      time.Duration `yaml:"timeout"`
}

// LoadDotEnv exports variables from the given .env files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// Load initialises Config from a YAML file and optional environment overrides.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("NATAL_ENGINE_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file %s not found: %w", path, err)
			}
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that every chart convention names something the engine supports.
func (c *Config) Validate() error {
	if _, err := utils.LoadZone(c.Astrology.TimeZone); err != nil {
		return fmt.Errorf("astrology.timeZone: %w", err)
	}
	if _, err := ephemeris.ParseHouseSystem(c.Astrology.HouseSystem); err != nil {
		return fmt.Errorf("astrology.houseSystem: %w", err)
	}
	if _, err := ephemeris.ParseAyanamsaMode(c.Astrology.Ayanamsa); err != nil {
		return fmt.Errorf("astrology.ayanamsa: %w", err)
	}
	if _, err := locale.Parse(c.Astrology.Locale); err != nil {
		return fmt.Errorf("astrology.locale: %w", err)
	}
	switch c.Ephemeris.Backend {
	case BackendAnalytic:
	case BackendHTTP:
		if strings.TrimSpace(c.Ephemeris.BaseURL) == "" {
			return fmt.Errorf("ephemeris.baseURL is required for the %s backend", BackendHTTP)
		}
	default:
		return fmt.Errorf("ephemeris.backend: unknown backend %q", c.Ephemeris.Backend)
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Address:         ":50051",
			HTTPAddress:     ":8080",
			MetricsAddress:  ":2112",
			GracefulTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", JSON: false},
		Astrology: AstrologyConfig{
			TimeZone:          "Europe/Madrid",
			HouseSystem:       "P",
			Ayanamsa:          string(ephemeris.FaganBradley),
			Locale:            "es",
			LookupConcurrency: 4,
		},
		Ephemeris: EphemerisConfig{
			Backend:      BackendAnalytic,
			HousesPath:   "/v1/houses",
			AyanamsaPath: "/v1/ayanamsa",
			BodyPath:     "/v1/body",
			Timeout:      5 * time.Second,
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NATAL_SERVER_ADDRESS"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("NATAL_HTTP_ADDRESS"); v != "" {
		cfg.Server.HTTPAddress = v
	}
	if v := os.Getenv("NATAL_METRICS_ADDRESS"); v != "" {
		cfg.Server.MetricsAddress = v
	}
	if v := os.Getenv("NATAL_GRACEFUL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.GracefulTimeout = d
		}
	}
	if v := os.Getenv("NATAL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("NATAL_LOG_FORMAT"); v != "" {
		cfg.Logging.JSON = strings.EqualFold(v, "json")
	}
	if v := os.Getenv("NATAL_TIME_ZONE"); v != "" {
		cfg.Astrology.TimeZone = v
	}
	if v := os.Getenv("NATAL_HOUSE_SYSTEM"); v != "" {
		cfg.Astrology.HouseSystem = v
	}
	if v := os.Getenv("NATAL_AYANAMSA"); v != "" {
		cfg.Astrology.Ayanamsa = v
	}
	if v := os.Getenv("NATAL_LOCALE"); v != "" {
		cfg.Astrology.Locale = v
	}
	if v := os.Getenv("NATAL_LOOKUP_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Astrology.LookupConcurrency = n
		}
	}
	if v := os.Getenv("NATAL_EPHEMERIS_BACKEND"); v != "" {
		cfg.Ephemeris.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("NATAL_EPHEMERIS_BASE_URL"); v != "" {
		cfg.Ephemeris.BaseURL = v
	}
	if v := os.Getenv("NATAL_EPHEMERIS_HOUSES_PATH"); v != "" {
		cfg.Ephemeris.HousesPath = v
	}
	if v := os.Getenv("NATAL_EPHEMERIS_AYANAMSA_PATH"); v != "" {
		cfg.Ephemeris.AyanamsaPath = v
	}
	if v := os.Getenv("NATAL_EPHEMERIS_BODY_PATH"); v != "" {
		cfg.Ephemeris.BodyPath = v
	}
	if v := os.Getenv("NATAL_EPHEMERIS_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Ephemeris.Timeout = d
		}
	}
}
