// Package config assembles the application config from the config file, a
// .env file and SLABCOST_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/piwi3910/SlabCost/internal/model"
	"github.com/piwi3910/SlabCost/internal/project"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "SLABCOST_"

// overrides are only applied when the variable is set.
type overrides struct {
	HourlyRate           *float64 `env:"HOURLY_RATE"`
	OverheadRate         *float64 `env:"OVERHEAD_RATE"`
	DefaultMaterialPrice *float64 `env:"DEFAULT_MATERIAL_PRICE"`
	DefaultEquipmentRate *float64 `env:"DEFAULT_EQUIPMENT_RATE"`
	ThickBoardThreshold  *float64 `env:"THICK_BOARD_THRESHOLD"`
	LogLevel             *string  `env:"LOG_LEVEL"`
	LogJSON              *bool    `env:"LOG_JSON"`
}

// Load reads the config file at configPath (defaults when missing), loads
// dotenvPaths (".env" when none are given, missing files ignored), applies
// the environment and validates the result.
func Load(configPath string, dotenvPaths ...string) (model.AppConfig, error) {
	const op = "config.Load"

	if err := godotenv.Load(dotenvPaths...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return model.AppConfig{}, fmt.Errorf("%s: load .env: %w", op, err)
	}

	cfg, err := project.LoadAppConfig(configPath)
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("%s: read %s: %w", op, configPath, err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return model.AppConfig{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return model.AppConfig{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

// ApplyEnv overwrites the fields of cfg whose SLABCOST_* variable is set.
func ApplyEnv(cfg *model.AppConfig) error {
	var o overrides
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}

	if o.HourlyRate != nil {
		cfg.HourlyRate = *o.HourlyRate
	}
	if o.OverheadRate != nil {
		cfg.OverheadRate = *o.OverheadRate
	}
	if o.DefaultMaterialPrice != nil {
		cfg.DefaultMaterialPrice = *o.DefaultMaterialPrice
	}
	if o.DefaultEquipmentRate != nil {
		cfg.DefaultEquipmentRate = *o.DefaultEquipmentRate
	}
	if o.ThickBoardThreshold != nil {
		cfg.ThickBoardThreshold = *o.ThickBoardThreshold
	}
	if o.LogLevel != nil {
		cfg.LogLevel = *o.LogLevel
	}
	if o.LogJSON != nil {
		cfg.LogJSON = *o.LogJSON
	}
	return nil
}
