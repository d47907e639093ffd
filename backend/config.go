// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SimConfig carries the tunables of the simulation service. Flag values
// override whatever the config file sets.
type SimConfig struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`

	// DataDir is where the stat cache and game records live.
	DataDir string `yaml:"dataDir"`

	// StatsBaseURL overrides the historical stats service endpoint.
	StatsBaseURL string `yaml:"statsBaseUrl"`

	// OracleURL points at the play-decision completion service. Empty
	// means every at-bat resolves through the statistical fallback.
	OracleURL string `yaml:"oracleUrl"`

	// RegulationInnings and ExtraInnings bound the length of a game.
	RegulationInnings int `yaml:"regulationInnings"`
	ExtraInnings      int `yaml:"extraInnings"`

	// PlayDelaySeconds is the pause between broadcast plays.
	PlayDelaySeconds int `yaml:"playDelaySeconds"`

	// Seed fixes the random source for reproducible games. Zero means
	// seed from the clock.
	Seed int64 `yaml:"seed"`
}

// DefaultSimConfig returns the stock configuration.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		Addr:              ":8080",
		DataDir:           "data",
		StatsBaseURL:      DefaultStatsBaseURL,
		RegulationInnings: DefaultRegulationInnings,
		ExtraInnings:      DefaultExtraInnings,
		PlayDelaySeconds:  DefaultPlayDelaySeconds,
	}
}

// LoadSimConfig reads a YAML config file on top of the defaults. An empty
// path returns the defaults unchanged.
func LoadSimConfig(path string) (SimConfig, error) {
	cfg := DefaultSimConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("os.ReadFile: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("yaml.Unmarshal: %w", err)
	}
	if cfg.RegulationInnings <= 0 {
		return cfg, fmt.Errorf("regulationInnings must be positive")
	}
	if cfg.ExtraInnings < 0 {
		return cfg, fmt.Errorf("extraInnings must not be negative")
	}
	return cfg, nil
}
