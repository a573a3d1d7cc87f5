/*
 * Licensed to the Apache Software Foundation (ASF) under one or more
 * contributor license agreements.  See the NOTICE file distributed with
 * this work for additional information regarding copyright ownership.
 * The ASF licenses this file to You under the Apache License, Version 2.0
 * (the "License"); you may not use this file except in compliance with
 * the License.  You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package config

import (
	"fmt"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/theta"
)

const (
	DefaultMinerSeparator = "&&"
	DefaultMinConfidence  = 0.5
)

// MinerConfig configures a single frequent itemset and rule mining run.
type MinerConfig struct {
	InputCSVPath       string  `mapstructure:"input_csv_path"`
	MinSupport         float64 `mapstructure:"min_support"`
	MaxLevels          int     `mapstructure:"max_levels"`
	IncludeAllLevel1   bool    `mapstructure:"include_all_level1"`
	OutputItemsetsPath string  `mapstructure:"output_itemsets_path"`
	OutputRulesPath    string  `mapstructure:"output_rules_path"`
	ItemSeparator      string  `mapstructure:"item_separator"`
	MinConfidence      float64 `mapstructure:"min_confidence"`
	SketchLgK          int     `mapstructure:"sketch_lg_k"`
}

// LoadMiner reads, defaults and validates a miner configuration.
func LoadMiner(path string) (*MinerConfig, error) {
	var cfg MinerConfig
	keys, err := load(path, &cfg)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults(keys)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *MinerConfig) applyDefaults(keys keySet) {
	applyFieldDefaults(keys,
		stringFieldDefault("item_separator", &c.ItemSeparator, DefaultMinerSeparator),
		floatFieldDefault("min_confidence", &c.MinConfidence, DefaultMinConfidence),
		intFieldDefault("sketch_lg_k", &c.SketchLgK, int(theta.DefaultLgK)),
	)
}

// Validate checks ranges and that the input file exists.
func (c *MinerConfig) Validate() error {
	if err := checkSupport("min_support", c.MinSupport); err != nil {
		return err
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%w: min_confidence must be between 0 and 1, got %v", ErrInvalidConfig, c.MinConfidence)
	}
	if err := checkMaxLevels(c.MaxLevels); err != nil {
		return err
	}
	if err := checkLgK("sketch_lg_k", c.SketchLgK); err != nil {
		return err
	}
	if err := checkRequired("item_separator", c.ItemSeparator); err != nil {
		return err
	}
	if err := checkRequired("output_itemsets_path", c.OutputItemsetsPath); err != nil {
		return err
	}
	if err := checkRequired("output_rules_path", c.OutputRulesPath); err != nil {
		return err
	}
	return checkFile("input_csv_path", c.InputCSVPath)
}

// MinerTemplate is the configuration written by "config init".
func MinerTemplate() *MinerConfig {
	return &MinerConfig{
		InputCSVPath:       "data/sketches.csv",
		MinSupport:         0.3,
		MaxLevels:          5,
		IncludeAllLevel1:   true,
		OutputItemsetsPath: "output/frequent_itemsets.csv",
		OutputRulesPath:    "output/association_rules.csv",
		ItemSeparator:      DefaultMinerSeparator,
		MinConfidence:      DefaultMinConfidence,
		SketchLgK:          int(theta.DefaultLgK),
	}
}
