package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

type demoConfig struct {
	Workers    int
	Iterations int
	Capacity   int
}

func defaultDemoConfig() demoConfig {
	return demoConfig{
		Workers:    4,
		Iterations: 1000,
		Capacity:   4096,
	}
}

type fileConfig struct {
	Workers    int `toml:"workers"`
	Iterations int `toml:"iterations"`
	Capacity   int `toml:"capacity"`
}

// loadDemoConfig applies overrides from an optional TOML file on top of
// defaultDemoConfig, mirroring the ghostctl fileConfig pattern: typed
// struct, toml tags, only fields the file actually defines are applied.
func loadDemoConfig(path string) (demoConfig, error) {
	cfg := defaultDemoConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return demoConfig{}, fmt.Errorf("load demo config: %w", err)
	}

	if meta.IsDefined("workers") {
		cfg.Workers = raw.Workers
	}
	if meta.IsDefined("iterations") {
		cfg.Iterations = raw.Iterations
	}
	if meta.IsDefined("capacity") {
		cfg.Capacity = raw.Capacity
	}
	return cfg, nil
}
