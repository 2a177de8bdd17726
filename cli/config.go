package cli

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the runtime configuration resolved from flags, environment
// (INVENTORY_*) and an optional config file.
type Config struct {
	LogLevel          string `mapstructure:"log-level" validate:"oneof=trace debug info warn warning error disabled off"`
	LogFormat         string `mapstructure:"log-format" validate:"oneof=console json"`
	LowStockThreshold int    `mapstructure:"low-stock-threshold" validate:"min=1"`
	MaxAttempts       int    `mapstructure:"max-attempts" validate:"min=1,max=10"`
	SeedFile          string `mapstructure:"seed-file"`
}

func loadConfig(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if err := validator.New().Struct(c); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}
