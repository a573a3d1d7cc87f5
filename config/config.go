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

// Package config loads and saves the miner and comparator run
// configurations. JSON, YAML and TOML are accepted, chosen by extension.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/theta"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// commentPrefix marks keys that only document a config file.
const commentPrefix = "//"

// load reads path into out and returns the keys the file sets.
func load(path string, out any) (keySet, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: config path cannot be empty", ErrInvalidConfig)
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("%w: reading config file failed (%s): %v", ErrInvalidConfig, path, err)
	}

	settings := v.AllSettings()
	for k := range settings {
		if strings.HasPrefix(k, commentPrefix) {
			delete(settings, k)
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(settings); err != nil {
		return nil, fmt.Errorf("%w: parsing config failed: %v", ErrInvalidConfig, err)
	}

	keys := make(keySet, len(settings))
	for k := range settings {
		keys.mark(k)
	}
	return keys, nil
}

// Save writes cfg to path in the format named by its extension. Zero
// optional fields are left out.
func Save(cfg any, path string) error {
	var settings map[string]any
	if err := mapstructure.Decode(cfg, &settings); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	v := viper.New()
	for k, val := range settings {
		v.Set(k, val)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	_, ok := k[strings.ToLower(path)]
	return ok
}

type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key:   key,
		need:  func() bool { return *target == "" },
		apply: func() { *target = def },
	}
}

func intFieldDefault(key string, target *int, def int) fieldDefault {
	return fieldDefault{
		key:   key,
		need:  func() bool { return *target == 0 },
		apply: func() { *target = def },
	}
}

func floatFieldDefault(key string, target *float64, def float64) fieldDefault {
	return fieldDefault{
		key:   key,
		need:  func() bool { return *target == 0 },
		apply: func() { *target = def },
	}
}

func checkSupport(key string, v float64) error {
	if !(v > 0 && v <= 1) {
		return fmt.Errorf("%w: %s must be in (0, 1], got %v", ErrInvalidConfig, key, v)
	}
	return nil
}

func checkMaxLevels(v int) error {
	if v < 1 {
		return fmt.Errorf("%w: max_levels must be at least 1, got %d", ErrInvalidConfig, v)
	}
	return nil
}

func checkLgK(key string, v int) error {
	if v < int(theta.MinLgK) || v > int(theta.MaxLgK) {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrInvalidConfig, key, theta.MinLgK, theta.MaxLgK, v)
	}
	return nil
}

func checkFile(key, path string) error {
	if path == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidConfig, key)
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s: input CSV file not found: %s", ErrInvalidConfig, key, path)
	}
	return nil
}

func checkRequired(key, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidConfig, key)
	}
	return nil
}
