// Package config loads the solver's tunable parameters: iteration limits,
// convergence tolerance, default unit efficiencies, and ambient conditions
// used to seed tear streams with no prior estimate. A TOML file is decoded
// with BurntSushi/toml, with spf13/viper layered on top to pick up
// FLOWSHEET_-prefixed environment variable overrides, and sane defaults
// when no file is given at all.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// Solver holds the Wegstein-accelerated iteration driver's tunables.
type Solver struct {
	MaxIterations int     `toml:"max_iterations"`
	Tolerance     float64 `toml:"tolerance"`
}

// Defaults holds default efficiencies and the ambient temperature/pressure
// used to seed a tear stream that has no feed history.
type Defaults struct {
	PumpEfficiency        float64 `toml:"pump_efficiency"`
	CompressorEfficiency  float64 `toml:"compressor_efficiency"`
	TurbineEfficiency     float64 `toml:"turbine_efficiency"`
	AmbientTemperatureK   float64 `toml:"ambient_temperature_k"`
	AmbientPressurePa     float64 `toml:"ambient_pressure_pa"`
}

// Config is the full set of solver tunables loaded from file/env/defaults.
type Config struct {
	Solver   Solver   `toml:"solver"`
	Defaults Defaults `toml:"defaults"`
}

// Default returns the built-in configuration used when no TOML file is
// supplied: max_iterations 100, tolerance 1e-6, pump eta 0.75, compressor
// eta 0.80.
func Default() *Config {
	return &Config{
		Solver: Solver{
			MaxIterations: 100,
			Tolerance:     1e-6,
		},
		Defaults: Defaults{
			PumpEfficiency:       0.75,
			CompressorEfficiency: 0.80,
			TurbineEfficiency:    0.75,
			AmbientTemperatureK:  298.15,
			AmbientPressurePa:    101325,
		},
	}
}

// Load reads a TOML configuration file at path (if non-empty and it exists),
// layering spf13/viper environment-variable overrides (prefix FLOWSHEET_,
// e.g. FLOWSHEET_SOLVER_TOLERANCE) on top, and falling back to Default() for
// any field neither the file nor the environment sets.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, cfg); err != nil {
				return nil, fmt.Errorf("config: parsing %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix("FLOWSHEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("solver.max_iterations", cfg.Solver.MaxIterations)
	v.SetDefault("solver.tolerance", cfg.Solver.Tolerance)
	v.SetDefault("defaults.pump_efficiency", cfg.Defaults.PumpEfficiency)
	v.SetDefault("defaults.compressor_efficiency", cfg.Defaults.CompressorEfficiency)
	v.SetDefault("defaults.turbine_efficiency", cfg.Defaults.TurbineEfficiency)
	v.SetDefault("defaults.ambient_temperature_k", cfg.Defaults.AmbientTemperatureK)
	v.SetDefault("defaults.ambient_pressure_pa", cfg.Defaults.AmbientPressurePa)

	if err := v.BindEnv("solver.max_iterations"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("solver.tolerance"); err != nil {
		return nil, err
	}

	cfg.Solver.MaxIterations = v.GetInt("solver.max_iterations")
	cfg.Solver.Tolerance = v.GetFloat64("solver.tolerance")
	cfg.Defaults.PumpEfficiency = v.GetFloat64("defaults.pump_efficiency")
	cfg.Defaults.CompressorEfficiency = v.GetFloat64("defaults.compressor_efficiency")
	cfg.Defaults.TurbineEfficiency = v.GetFloat64("defaults.turbine_efficiency")
	cfg.Defaults.AmbientTemperatureK = v.GetFloat64("defaults.ambient_temperature_k")
	cfg.Defaults.AmbientPressurePa = v.GetFloat64("defaults.ambient_pressure_pa")

	return cfg, nil
}
