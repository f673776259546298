// Copyright 2025 baesync authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads optional flag defaults from a .baesync file.
// Command-line flags always win over config values.
package config

import (
	"context"
	"os"
	"path/filepath"

	"gitlab.com/tozd/go/errors"
)

// DefaultLogFile is the transfer log path used when neither the config
// file nor the --log-file flag sets one.
const DefaultLogFile = "baesync_transfer.log"

// 🔧 Config holds the persistent defaults for a baesync run
type Config struct {
	Overwrite bool     `json:"overwrite,omitempty" yaml:"overwrite,omitempty" hcl:"overwrite,optional"`
	Recursive bool     `json:"recursive,omitempty" yaml:"recursive,omitempty" hcl:"recursive,optional"`
	Delete    bool     `json:"delete,omitempty"    yaml:"delete,omitempty"    hcl:"delete,optional"`
	Quiet     bool     `json:"quiet,omitempty"     yaml:"quiet,omitempty"     hcl:"quiet,optional"`
	Workers   int      `json:"workers,omitempty"   yaml:"workers,omitempty"   hcl:"workers,optional"`
	LogFile   string   `json:"log_file,omitempty"  yaml:"log_file,omitempty"  hcl:"log_file,optional"`
	Excludes  []string `json:"exclude,omitempty"   yaml:"exclude,omitempty"   hcl:"exclude,optional"`

	location string // path the config was loaded from
}

// 📍 Location returns the path this config was loaded from
func (c *Config) Location() string {
	return c.location
}

// ✅ Validate checks config invariants
func Validate(ctx context.Context, cfg *Config) error {
	if cfg.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	for _, pattern := range cfg.Excludes {
		if pattern == "" {
			return errors.Errorf("exclude patterns must not be empty")
		}
	}
	return nil
}

// 🔍 Discover looks for a config file in dir, trying the known names in
// order. Returns the empty string when none exists.
func Discover(dir string) string {
	candidates := []string{
		".baesync.yaml",
		".baesync.yml",
		".baesync.hcl",
		".baesync.json",
		".baesync",
	}
	for _, name := range candidates {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
