// cmd/groundsim/config.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/groundsim/groundsim/log"
)

const CurrentConfigVersion = 1

// Config holds the operator's settings between runs. Command-line flags
// and GROUNDSIM_* environment variables take precedence over it.
type Config struct {
	Version         int
	Rate            string
	Unit            string
	PassengerTarget int
	CargoTarget     float64
	Snapshot        string
}

func getDefaultConfig() *Config {
	return &Config{
		Version:         CurrentConfigVersion,
		Rate:            "REAL",
		Unit:            "kg",
		PassengerTarget: 150,
		CargoTarget:     4000,
	}
}

func configFilePath(lg *log.Logger) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		lg.Errorf("Unable to find user config dir: %v", err)
		dir = "."
	}

	dir = filepath.Join(dir, "GroundSim")
	err = os.MkdirAll(dir, 0o700)
	if err != nil {
		lg.Errorf("%s: unable to make directory for config file: %v", dir, err)
	}

	return filepath.Join(dir, "config.json")
}

func (c *Config) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(c)
}

func (c *Config) Save(lg *log.Logger) error {
	lg.Infof("Saving config to: %s", configFilePath(lg))
	f, err := os.Create(configFilePath(lg))
	if err != nil {
		return err
	}
	defer f.Close()

	return c.Encode(f)
}

// LoadOrMakeDefaultConfig returns the saved configuration, or the
// defaults if there is none. A config that fails to decode is replaced
// by the defaults and the error is returned alongside them.
func LoadOrMakeDefaultConfig(lg *log.Logger) (*Config, error) {
	fn := configFilePath(lg)
	lg.Infof("Loading config from: %s", fn)

	contents, err := os.ReadFile(fn)
	if err != nil {
		return getDefaultConfig(), nil
	}

	config := getDefaultConfig()
	d := json.NewDecoder(bytes.NewReader(contents))
	if err := d.Decode(config); err != nil {
		return getDefaultConfig(), fmt.Errorf("%s: %w", fn, err)
	}
	if config.Version > CurrentConfigVersion {
		lg.Warnf("%s: config version %d is newer than %d", fn, config.Version, CurrentConfigVersion)
	}
	config.Version = CurrentConfigVersion

	return config, nil
}
