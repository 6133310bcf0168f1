// Copyright (c) 2024-2026 Multitech Systems, Inc.
// Author: Jason Reiss
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/MultiTechSystems/regmap-schema/importer"
)

// Config is the optional rdlimport.toml file.
type Config struct {
	AddressUnitBits int  `toml:"address_unit_bits"`
	AllowRedefine   bool `toml:"allow_redefine"`
	StrictEnums     bool `toml:"strict_enums"`
	// Preload lists documents imported before the ones on the command line.
	// Relative paths are resolved against the config file's directory.
	Preload []string `toml:"preload"`
}

// LoadConfig reads a TOML config file. Unknown keys are an error.
func LoadConfig(name string) (*Config, error) {
	var cfg Config
	md, err := toml.DecodeFile(name, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("%s: unknown config keys: %s", name, strings.Join(keys, ", "))
	}
	if cfg.AddressUnitBits < 0 {
		return nil, fmt.Errorf("%s: address_unit_bits must not be negative, got %d", name, cfg.AddressUnitBits)
	}

	dir := filepath.Dir(name)
	for i, p := range cfg.Preload {
		if !filepath.IsAbs(p) {
			cfg.Preload[i] = filepath.Join(dir, p)
		}
	}
	return &cfg, nil
}

// Options converts the config into session options.
func (c *Config) Options() importer.Options {
	return importer.Options{
		AddressUnitBits: c.AddressUnitBits,
		AllowRedefine:   c.AllowRedefine,
		StrictEnums:     c.StrictEnums,
	}
}
