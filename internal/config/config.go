package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/i474232898/hourly-weather/internal/weather"
)

// AppConfig is the resolved process configuration.
type AppConfig struct {
	Port  string `validate:"required"`
	Debug bool

	// Timezone is the fixed civil timezone "now" is resolved in and the one
	// requested from the provider.
	TimezoneName string `validate:"required"`
	Timezone     *time.Location

	WindowHours     int    `validate:"min=1,max=168"`
	DefaultLocation string `validate:"required"`

	// FetchInterval controls how often the scheduler refreshes every location.
	FetchInterval time.Duration `validate:"gt=0"`
	HTTPTimeout   time.Duration `validate:"gt=0"`

	OpenMeteo OpenMeteoConfig
	Store     StoreConfig
	RedisAddr string

	// Locations is the fixed preset table.
	Locations weather.Presets `validate:"min=1"`
}

// OpenMeteoConfig configures the provider client.
type OpenMeteoConfig struct {
	BaseURL    string  `validate:"required,url"`
	Rate       float64 `validate:"gt=0"`
	Burst      int     `validate:"min=1"`
	MaxRetries int     `validate:"min=0,max=10"`
}

// StoreConfig selects the snapshot cache.
type StoreConfig struct {
	Driver string        `validate:"oneof=memory redis"`
	MaxAge time.Duration `validate:"min=0"`
}

type locationConfig struct {
	Name      string  `mapstructure:"name" validate:"required"`
	Latitude  float64 `mapstructure:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `mapstructure:"longitude" validate:"min=-180,max=180"`
}

var validate = validator.New()

// Load reads configuration from .env, an optional config.yaml and the
// environment, with sensible defaults.
func Load() (*AppConfig, error) {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()
	return LoadFrom(NewViper())
}

// NewViper returns a viper instance with every default and env binding set.
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("port", "8080")
	v.SetDefault("debug", false)
	v.SetDefault("timezone", "Europe/Madrid")
	v.SetDefault("window_hours", weather.WindowHours)
	v.SetDefault("default_location", "almassora")
	v.SetDefault("fetch_interval", "15m")
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("openmeteo.base_url", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("openmeteo.rate", 1.0)
	v.SetDefault("openmeteo.burst", 5)
	v.SetDefault("openmeteo.max_retries", 2)
	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.max_age", "30m")
	v.SetDefault("redis.addr", "localhost:6379")

	presets := map[string]interface{}{}
	for key, loc := range weather.DefaultPresets() {
		presets[key] = map[string]interface{}{
			"name":      loc.Name,
			"latitude":  loc.Latitude,
			"longitude": loc.Longitude,
		}
	}
	v.SetDefault("locations", presets)

	v.SetConfigType("yaml")
	v.SetConfigName("config")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadFrom resolves an AppConfig from v. A missing config file is not an error.
func LoadFrom(v *viper.Viper) (*AppConfig, error) {
	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &AppConfig{
		Port:            v.GetString("port"),
		Debug:           v.GetBool("debug"),
		TimezoneName:    v.GetString("timezone"),
		WindowHours:     v.GetInt("window_hours"),
		DefaultLocation: v.GetString("default_location"),
		FetchInterval:   v.GetDuration("fetch_interval"),
		HTTPTimeout:     v.GetDuration("http_timeout"),
		OpenMeteo: OpenMeteoConfig{
			BaseURL:    v.GetString("openmeteo.base_url"),
			Rate:       v.GetFloat64("openmeteo.rate"),
			Burst:      v.GetInt("openmeteo.burst"),
			MaxRetries: v.GetInt("openmeteo.max_retries"),
		},
		Store: StoreConfig{
			Driver: v.GetString("store.driver"),
			MaxAge: v.GetDuration("store.max_age"),
		},
		RedisAddr: v.GetString("redis.addr"),
	}

	tz, err := time.LoadLocation(cfg.TimezoneName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.TimezoneName, err)
	}
	cfg.Timezone = tz

	locs, err := loadLocations(v)
	if err != nil {
		return nil, err
	}
	cfg.Locations = locs

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if _, ok := cfg.Locations.Lookup(cfg.DefaultLocation); !ok {
		return nil, fmt.Errorf("default location %q is not a preset", cfg.DefaultLocation)
	}

	return cfg, nil
}

func loadLocations(v *viper.Viper) (weather.Presets, error) {
	var raw map[string]locationConfig
	if err := v.UnmarshalKey("locations", &raw); err != nil {
		return nil, fmt.Errorf("invalid locations: %w", err)
	}

	presets := make(weather.Presets, len(raw))
	for key, lc := range raw {
		if err := validate.Struct(lc); err != nil {
			return nil, fmt.Errorf("invalid location %q: %w", key, err)
		}
		presets[key] = weather.Location{
			ID:        key,
			Name:      lc.Name,
			Latitude:  lc.Latitude,
			Longitude: lc.Longitude,
		}
	}
	return presets, nil
}
