package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/uavchum/uavchum/internal/assess"
)

// AppConfig holds everything the process needs at startup.
type AppConfig struct {
	Port string

	// Country selects the OpenAIP typed-zone dataset (ISO 3166-1
	// alpha-2, lowercase). Empty disables typed zones.
	Country string

	// LightningRelayURL points at the strike relay. Empty disables the
	// lightning feed.
	LightningRelayURL string

	// Live feed refresh cadence.
	TrafficInterval   time.Duration
	LightningInterval time.Duration
	RadarInterval     time.Duration
	TrafficRadiusNM   float64
	LightningRadiusNM float64

	// Outbound HTTP client timeout.
	HTTPTimeout time.Duration

	// ProfilesFile optionally adds or overrides drone-class threshold
	// profiles from a YAML file.
	ProfilesFile string
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:              getenvDefault("PORT", "8080"),
		Country:           os.Getenv("OPENAIP_COUNTRY"),
		LightningRelayURL: os.Getenv("LIGHTNING_RELAY_URL"),
		TrafficRadiusNM:   getenvFloat("TRAFFIC_RADIUS_NM", 150),
		LightningRadiusNM: getenvFloat("LIGHTNING_RADIUS_NM", 150),
		ProfilesFile:      os.Getenv("PROFILES_FILE"),
	}

	var err error
	if cfg.TrafficInterval, err = getenvDuration("TRAFFIC_INTERVAL", "30s"); err != nil {
		return nil, err
	}
	if cfg.LightningInterval, err = getenvDuration("LIGHTNING_INTERVAL", "60s"); err != nil {
		return nil, err
	}
	if cfg.RadarInterval, err = getenvDuration("RADAR_INTERVAL", "300s"); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "15s"); err != nil {
		return nil, err
	}

	if cfg.ProfilesFile != "" {
		if err := loadProfiles(cfg.ProfilesFile); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// loadProfiles registers extra drone-class threshold profiles from a
// YAML file. Each entry is validated before registration.
func loadProfiles(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read profiles file: %w", err)
	}

	var doc struct {
		Profiles []assess.Thresholds `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse profiles file %s: %w", path, err)
	}

	for _, p := range doc.Profiles {
		if err := validate.Struct(p); err != nil {
			return fmt.Errorf("invalid profile %q in %s: %w", p.Name, path, err)
		}
		assess.RegisterProfile(p)
		log.Printf("INFO: registered drone-class profile %q from %s", p.Name, path)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	v := getenvDefault(key, def)
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
