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

// DefaultComparatorSeparator renders itemsets in comparator reports.
const DefaultComparatorSeparator = " && "

// Mode is the way a comparator run obtains its yes and no populations.
type Mode string

const (
	// ModeTwoFile reads the yes and no sketches from separate files.
	ModeTwoFile Mode = "two-file"
	// ModeOneTarget splits one file into the transactions with and without
	// target_item_1.
	ModeOneTarget Mode = "one-target"
	// ModeTwoTarget splits one file on target_item_1 and target_item_0.
	ModeTwoTarget Mode = "two-target"
)

// ParseMode accepts the Mode names.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeTwoFile, ModeOneTarget, ModeTwoTarget:
		return m, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s)
}

// ComparatorConfig configures a yes/no comparison run.
type ComparatorConfig struct {
	InputCSVPathYes string `mapstructure:"input_csv_path_for_yes_case,omitempty"`
	InputCSVPathNo  string `mapstructure:"input_csv_path_for_no_case,omitempty"`
	InputCSVPath    string `mapstructure:"input_csv_path,omitempty"`

	MinSupportYes    float64 `mapstructure:"min_support_for_yes_case"`
	MinSupportNo     float64 `mapstructure:"min_support_for_no_case"`
	MaxLevels        int     `mapstructure:"max_levels"`
	IncludeAllLevel1 bool    `mapstructure:"include_all_level1"`

	OutputItemsetsPathYes string `mapstructure:"output_itemsets_path_yes_case,omitempty"`
	OutputItemsetsPathNo  string `mapstructure:"output_itemsets_path_no_case,omitempty"`
	OutputItemsetsJoined  string `mapstructure:"output_itemsets_joined,omitempty"`
	OutputItemsetsPath    string `mapstructure:"output_itemsets_path,omitempty"`
	OutputSQLitePath      string `mapstructure:"output_sqlite_path,omitempty"`

	ItemSeparator string `mapstructure:"item_separator"`
	SketchLgKYes  int    `mapstructure:"sketch_lg_k_yes_case,omitempty"`
	SketchLgKNo   int    `mapstructure:"sketch_lg_k_no_case,omitempty"`
	SketchLgK     int    `mapstructure:"sketch_lg_k,omitempty"`

	TargetItem1   string   `mapstructure:"target_item_1,omitempty"`
	TargetItem0   string   `mapstructure:"target_item_0,omitempty"`
	ExcludedItems []string `mapstructure:"excluded_items,omitempty"`
	UseEquiJoin   bool     `mapstructure:"use_equi_join"`
	FilterItem    string   `mapstructure:"filter_item,omitempty"`
}

// LoadComparator reads, defaults and validates a comparator configuration.
func LoadComparator(path string) (*ComparatorConfig, error) {
	var cfg ComparatorConfig
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

// Mode reports the mode selected by the input fields.
func (c *ComparatorConfig) Mode() Mode {
	switch {
	case c.InputCSVPathYes != "" && c.InputCSVPathNo != "":
		return ModeTwoFile
	case c.TargetItem0 != "":
		return ModeTwoTarget
	default:
		return ModeOneTarget
	}
}

// JoinedPath is where the joined report is written.
func (c *ComparatorConfig) JoinedPath() string {
	if c.Mode() == ModeTwoFile {
		return c.OutputItemsetsJoined
	}
	return c.OutputItemsetsPath
}

// LgK returns log2 of the nominal entries for the yes and no sides.
func (c *ComparatorConfig) LgK() (yes, no uint8) {
	if c.Mode() == ModeTwoFile {
		return uint8(c.SketchLgKYes), uint8(c.SketchLgKNo)
	}
	return uint8(c.SketchLgK), uint8(c.SketchLgK)
}

func (c *ComparatorConfig) applyDefaults(keys keySet) {
	lgK := int(theta.DefaultLgK)
	applyFieldDefaults(keys, stringFieldDefault("item_separator", &c.ItemSeparator, DefaultComparatorSeparator))
	if c.Mode() == ModeTwoFile {
		applyFieldDefaults(keys,
			intFieldDefault("sketch_lg_k_yes_case", &c.SketchLgKYes, lgK),
			intFieldDefault("sketch_lg_k_no_case", &c.SketchLgKNo, lgK),
		)
		return
	}
	applyFieldDefaults(keys, intFieldDefault("sketch_lg_k", &c.SketchLgK, lgK))
}

// Validate checks the input fields select exactly one mode, the ranges, and
// that the input files exist.
func (c *ComparatorConfig) Validate() error {
	twoFile := c.Mode() == ModeTwoFile
	singleFile := c.InputCSVPath != ""
	switch {
	case twoFile && singleFile:
		return fmt.Errorf("%w: ambiguous configuration: cannot have both two-file and single-file fields", ErrInvalidConfig)
	case !twoFile && !singleFile:
		return fmt.Errorf("%w: must specify either (input_csv_path_for_yes_case, input_csv_path_for_no_case) or (input_csv_path)", ErrInvalidConfig)
	}

	if err := checkSupport("min_support_for_yes_case", c.MinSupportYes); err != nil {
		return err
	}
	if err := checkSupport("min_support_for_no_case", c.MinSupportNo); err != nil {
		return err
	}
	if err := checkMaxLevels(c.MaxLevels); err != nil {
		return err
	}
	if err := checkRequired("item_separator", c.ItemSeparator); err != nil {
		return err
	}

	if twoFile {
		return c.validateTwoFile()
	}
	return c.validateSingleFile()
}

func (c *ComparatorConfig) validateTwoFile() error {
	for _, check := range []error{
		checkLgK("sketch_lg_k_yes_case", c.SketchLgKYes),
		checkLgK("sketch_lg_k_no_case", c.SketchLgKNo),
		checkRequired("output_itemsets_path_yes_case", c.OutputItemsetsPathYes),
		checkRequired("output_itemsets_path_no_case", c.OutputItemsetsPathNo),
		checkRequired("output_itemsets_joined", c.OutputItemsetsJoined),
		checkFile("input_csv_path_for_yes_case", c.InputCSVPathYes),
		checkFile("input_csv_path_for_no_case", c.InputCSVPathNo),
	} {
		if check != nil {
			return check
		}
	}
	return nil
}

func (c *ComparatorConfig) validateSingleFile() error {
	if c.TargetItem1 == "" {
		return fmt.Errorf("%w: target_item_1 is mandatory in single-file mode", ErrInvalidConfig)
	}
	if c.TargetItem0 != "" && c.TargetItem0 == c.TargetItem1 {
		return fmt.Errorf("%w: target_item_1 and target_item_0 must be different items", ErrInvalidConfig)
	}
	if err := checkLgK("sketch_lg_k", c.SketchLgK); err != nil {
		return err
	}
	if err := checkRequired("output_itemsets_path", c.OutputItemsetsPath); err != nil {
		return err
	}
	return checkFile("input_csv_path", c.InputCSVPath)
}

// ComparatorTemplate is the configuration written by "config init".
func ComparatorTemplate(mode Mode) *ComparatorConfig {
	cfg := &ComparatorConfig{
		MinSupportYes:    0.05,
		MinSupportNo:     0.05,
		MaxLevels:        3,
		IncludeAllLevel1: true,
		ItemSeparator:    DefaultComparatorSeparator,
	}
	lgK := int(theta.DefaultLgK)
	switch mode {
	case ModeTwoFile:
		cfg.InputCSVPathYes = "data/yes_case_sketches.csv"
		cfg.InputCSVPathNo = "data/no_case_sketches.csv"
		cfg.OutputItemsetsPathYes = "output/yes_case_itemsets.csv"
		cfg.OutputItemsetsPathNo = "output/no_case_itemsets.csv"
		cfg.OutputItemsetsJoined = "output/joined_itemsets.csv"
		cfg.SketchLgKYes, cfg.SketchLgKNo = lgK, lgK
	default:
		cfg.InputCSVPath = "data/sketches.csv"
		cfg.OutputItemsetsPath = "output/joined_itemsets.csv"
		cfg.SketchLgK = lgK
		cfg.TargetItem1 = "target=yes"
		if mode == ModeTwoTarget {
			cfg.TargetItem0 = "target=no"
		}
	}
	return cfg
}
