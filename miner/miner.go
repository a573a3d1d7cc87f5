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

// Package miner finds frequent itemsets level by level, counting each
// candidate by intersecting the summaries of its items.
package miner

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/itemset"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/summary"
)

var (
	ErrInvalidConfig   = errors.New("invalid miner configuration")
	ErrDegenerateInput = errors.New("degenerate input")
	ErrInvariant       = errors.New("miner invariant violated")
)

// how many candidates are counted between two cancellation checks
const defaultCheckInterval = 64

// Options controls a mining run.
type Options struct {
	// MinSupport is the smallest support, in (0, 1], an itemset needs to be frequent.
	MinSupport float64
	// MaxLevel is the largest itemset size mined.
	MaxLevel int
	// IncludeAllLevel1 reports every single item, frequent or not. Only
	// frequent items take part in generating level 2.
	IncludeAllLevel1 bool
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	if !(o.MinSupport > 0 && o.MinSupport <= 1) {
		return fmt.Errorf("%w: min_support %v is outside (0, 1]", ErrInvalidConfig, o.MinSupport)
	}
	if o.MaxLevel < 1 {
		return fmt.Errorf("%w: max_level %d is below 1", ErrInvalidConfig, o.MaxLevel)
	}
	return nil
}

// LevelStats describes the work done for one level.
type LevelStats struct {
	Level      int
	Candidates int // candidates whose count was estimated
	Pruned     int // joined candidates dropped for an infrequent subset
	Frequent   int // candidates at or above MinSupport
	Reported   int // entries written to the table
}

// Result is the outcome of a run.
type Result struct {
	Table *itemset.Table
	Stats []LevelStats
}

// Miner runs the level-wise search. A Miner holds no per-run state and can
// be shared between goroutines.
type Miner struct {
	opts          Options
	logger        *zap.Logger
	checkInterval int
}

type OptionFunc func(*Miner)

// WithLogger sets the logger used for per-level progress.
func WithLogger(logger *zap.Logger) OptionFunc {
	return func(m *Miner) {
		m.logger = logger
	}
}

// New returns a miner for opts.
func New(opts Options, fns ...OptionFunc) (*Miner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	m := &Miner{
		opts:          opts,
		logger:        zap.NewNop(),
		checkInterval: defaultCheckInterval,
	}
	for _, fn := range fns {
		fn(m)
	}
	return m, nil
}

// Mine is a shorthand for New followed by Miner.Mine.
func Mine(ctx context.Context, items map[itemset.Item]summary.Summary, universe summary.Summary, opts Options, fns ...OptionFunc) (*Result, error) {
	m, err := New(opts, fns...)
	if err != nil {
		return nil, err
	}
	return m.Mine(ctx, items, universe)
}

// Mine returns the frequent itemsets of items, with supports relative to the
// estimate of universe. A cancelled run returns ctx.Err() and no table.
func (m *Miner) Mine(ctx context.Context, items map[itemset.Item]summary.Summary, universe summary.Summary) (*Result, error) {
	if universe == nil {
		return nil, fmt.Errorf("%w: no universe summary", ErrInvalidConfig)
	}
	for item, s := range items {
		if s == nil {
			return nil, fmt.Errorf("%w: item %q has no summary", ErrInvalidConfig, item)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	total := universe.Estimate()
	result := &Result{Table: itemset.NewTable(total)}
	if len(items) == 0 {
		return result, nil
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: universe estimate %v with %d items", ErrDegenerateInput, total, len(items))
	}

	frequent, stats, err := m.mineFirstLevel(items, result.Table)
	if err != nil {
		return nil, err
	}
	result.Stats = append(result.Stats, stats)
	m.logLevel(stats)

	for level := 2; level <= m.opts.MaxLevel && len(frequent) > 0; level++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frequent, stats, err = m.mineLevel(ctx, level, frequent, items, result.Table)
		if err != nil {
			return nil, err
		}
		result.Stats = append(result.Stats, stats)
		m.logLevel(stats)
	}

	m.logger.Info("mining finished",
		zap.Float64("total", total),
		zap.Int("levels", result.Table.MaxLevel()),
		zap.Int("itemsets", result.Table.Len()),
	)
	return result, nil
}

func (m *Miner) mineFirstLevel(items map[itemset.Item]summary.Summary, table *itemset.Table) ([]itemset.Itemset, LevelStats, error) {
	stats := LevelStats{Level: 1}
	var frequent []itemset.Itemset
	for _, item := range slices.Sorted(maps.Keys(items)) {
		count := items[item].Estimate()
		support := count / table.Total()
		isFrequent := support >= m.opts.MinSupport
		stats.Candidates++

		if isFrequent || m.opts.IncludeAllLevel1 {
			s := itemset.Of(item)
			if err := table.Add(itemset.Entry{Itemset: s, Count: count, Support: support}); err != nil {
				return nil, stats, err
			}
			stats.Reported++
		}
		if isFrequent {
			frequent = append(frequent, itemset.Of(item))
			stats.Frequent++
		}
	}
	return frequent, stats, nil
}

func (m *Miner) mineLevel(ctx context.Context, level int, previous []itemset.Itemset, items map[itemset.Item]summary.Summary, table *itemset.Table) ([]itemset.Itemset, LevelStats, error) {
	stats := LevelStats{Level: level}
	candidates, pruned := itemset.Generate(previous)
	stats.Pruned = pruned

	carried := make(map[string]struct{}, len(previous))
	for _, s := range previous {
		carried[s.Key()] = struct{}{}
	}

	var frequent []itemset.Itemset
	for i, candidate := range candidates {
		if i%m.checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, err
			}
		}
		for _, subset := range candidate.Subsets() {
			if _, ok := carried[subset.Key()]; !ok {
				return nil, stats, fmt.Errorf("%w: candidate %s has subset %s that is not frequent at level %d",
					ErrInvariant, candidate, subset, level-1)
			}
		}

		count, err := intersectionEstimate(candidate, items)
		if err != nil {
			return nil, stats, err
		}
		stats.Candidates++
		support := count / table.Total()
		if support < m.opts.MinSupport {
			continue
		}
		if err := table.Add(itemset.Entry{Itemset: candidate, Count: count, Support: support}); err != nil {
			return nil, stats, err
		}
		frequent = append(frequent, candidate)
		stats.Frequent++
		stats.Reported++
	}
	return frequent, stats, nil
}

// intersectionEstimate intersects the item summaries two at a time.
func intersectionEstimate(candidate itemset.Itemset, items map[itemset.Item]summary.Summary) (float64, error) {
	members := candidate.Items()
	rest := make([]summary.Summary, 0, len(members)-1)
	for _, item := range members[1:] {
		rest = append(rest, items[item])
	}
	s, err := summary.IntersectAll(items[members[0]], rest...)
	if err != nil {
		return 0, fmt.Errorf("counting %s: %w", candidate, err)
	}
	return s.Estimate(), nil
}

func (m *Miner) logLevel(stats LevelStats) {
	m.logger.Debug("level mined",
		zap.Int("level", stats.Level),
		zap.Int("candidates", stats.Candidates),
		zap.Int("pruned", stats.Pruned),
		zap.Int("frequent", stats.Frequent),
		zap.Int("reported", stats.Reported),
	)
}
