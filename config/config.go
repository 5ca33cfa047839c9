// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package config loads the tunables an embedding engine would wire
// into accum/aggregate/join: the small-set threshold, spill framing,
// and default batch sizing.
package config

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Config holds the tunables consulted when constructing accumulator
// columns and spill streams. The small-vector threshold itself is a
// compile-time constant in accum (it must never change across
// freeze/unfreeze, per spec.md §4.2); Config only carries the
// resource-management knobs that are safe to vary per deployment.
type Config struct {
	// SpillBlockSize is the uncompressed block size a SpillWriter
	// accumulates before compressing and flushing.
	SpillBlockSize int `json:"spillBlockSize"`
	// SpillCodec names the compr codec used for spill streams
	// ("zstd", "zstd-better", or "s2").
	SpillCodec string `json:"spillCodec"`
	// OutputBatchSize is the default row count a Joiner or Aggregator
	// driver should target per emitted batch.
	OutputBatchSize int `json:"outputBatchSize"`
}

// Default returns the configuration this module ships with absent an
// override file.
func Default() Config {
	return Config{
		SpillBlockSize:  1 << 20,
		SpillCodec:      "zstd",
		OutputBatchSize: 4096,
	}
}

// LoadConfig reads a YAML configuration file, applying Default()'s
// values for any field the file omits.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.SpillBlockSize <= 0 {
		return nil, fmt.Errorf("config: spillBlockSize must be positive, got %d", cfg.SpillBlockSize)
	}
	if cfg.OutputBatchSize <= 0 {
		return nil, fmt.Errorf("config: outputBatchSize must be positive, got %d", cfg.OutputBatchSize)
	}
	return &cfg, nil
}
