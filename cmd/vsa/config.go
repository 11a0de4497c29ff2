package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/kolkov/vsa/internal/driver"
	"github.com/kolkov/vsa/internal/ssa"
)

// runConfig is the YAML-loaded run configuration: the program-
// independent tunables original spec §6 calls "Configuration input to
// the driver", plus SPWidth (sp_width), the stack pointer's width, used
// when the program file does not itself declare the sp variable.
type runConfig struct {
	SP             string          `mapstructure:"sp"`
	SPWidth        uint32          `mapstructure:"sp_width"`
	Mem            string          `mapstructure:"mem"`
	NMeets         int             `mapstructure:"nmeets"`
	SignednessHack bool            `mapstructure:"signedness_hack"`
	MemMax         int             `mapstructure:"mem_max"`
	InitialMem     []initialMemRow `mapstructure:"initial_mem"`
}

type initialMemRow struct {
	Address int64 `mapstructure:"address"`
	Value   uint8 `mapstructure:"value"`
}

func loadRunConfig(path string) (runConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("signedness_hack", true)
	v.SetDefault("sp_width", 64)
	if err := v.ReadInConfig(); err != nil {
		return runConfig{}, fmt.Errorf("config: %w", err)
	}
	var cfg runConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return runConfig{}, fmt.Errorf("config: %w", err)
	}
	if cfg.SP == "" {
		return runConfig{}, fmt.Errorf("config: sp is required")
	}
	if cfg.Mem == "" {
		return runConfig{}, fmt.Errorf("config: mem is required")
	}
	return cfg, nil
}

func (c runConfig) toDriverConfig() driver.Config {
	var initial []driver.InitialByte
	for _, row := range c.InitialMem {
		initial = append(initial, driver.InitialByte{Address: row.Address, Value: byte(row.Value)})
	}
	return driver.Config{
		InitialMem:     initial,
		SP:             ssa.NewScalar(c.SP, c.SPWidth),
		Mem:            ssa.NewArray(c.Mem),
		NMeets:         c.NMeets,
		SignednessHack: c.SignednessHack,
		MemMax:         c.MemMax,
		Logger:         log,
	}
}
