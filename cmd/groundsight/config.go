// Copyright (C) 2026 Groundsight Labs (oss@groundsight.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the CLI configuration.
//
// Loaded from a YAML file when one is present; every field has a
// working default so the CLI runs without any configuration against a
// local service.
type Config struct {
	// Endpoint is the base URL of the intelligence service.
	Endpoint string `yaml:"endpoint"`

	// TimeoutSeconds bounds each request to the service.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

const defaultEndpoint = "http://localhost:12310"

// LoadConfig reads the YAML config at path, falling back to defaults.
//
// Resolution order for the endpoint: config file, GROUNDSIGHT_ENDPOINT
// environment variable, built-in default. A missing file is not an
// error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		Endpoint:       defaultEndpoint,
		TimeoutSeconds: 30,
	}

	if env := os.Getenv("GROUNDSIGHT_ENDPOINT"); env != "" {
		cfg.Endpoint = env
	}

	if path == "" {
		path = "groundsight.yaml"
		if _, err := os.Stat(path); err != nil {
			return cfg, nil
		}
	}

	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(yamlFile, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 30
	}
	return cfg, nil
}

// Timeout returns the request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
