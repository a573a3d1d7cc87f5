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

// Package pipeline runs configured mining and comparison jobs end to end:
// read sketches, derive the populations, mine, join and write the results.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/compare"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/config"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/internal/store"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/itemset"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/miner"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/rules"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/sketchio"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/split"
)

type OptionFunc func(*runner)

type runner struct {
	logger *zap.Logger
}

// WithLogger sets the logger for progress and per-level statistics.
func WithLogger(logger *zap.Logger) OptionFunc {
	return func(r *runner) {
		r.logger = logger
	}
}

func newRunner(opts []OptionFunc) *runner {
	r := &runner{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MineResult is the outcome of MineOne.
type MineResult struct {
	*miner.Result
	Rules []rules.Rule
}

// MineOne mines the frequent itemsets and rules of one sketch file and
// writes both CSV outputs.
func MineOne(ctx context.Context, cfg *config.MinerConfig, opts ...OptionFunc) (*MineResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := newRunner(opts)

	c, err := r.load(cfg.InputCSVPath, uint8(cfg.SketchLgK))
	if err != nil {
		return nil, err
	}
	res, err := miner.Mine(ctx, c.Items, c.Universe, miner.Options{
		MinSupport:       cfg.MinSupport,
		MaxLevel:         cfg.MaxLevels,
		IncludeAllLevel1: cfg.IncludeAllLevel1,
	}, miner.WithLogger(r.logger))
	if err != nil {
		return nil, err
	}

	rs, err := rules.Generate(res.Table, cfg.MinConfidence)
	if err != nil {
		return nil, err
	}
	r.logger.Info("rules generated", zap.Int("rules", len(rs)), zap.Float64("min_confidence", cfg.MinConfidence))

	if err := sketchio.WriteFile(cfg.OutputItemsetsPath, func(w io.Writer) error {
		return sketchio.WriteItemsets(w, res.Table, cfg.ItemSeparator)
	}); err != nil {
		return nil, err
	}
	if err := sketchio.WriteFile(cfg.OutputRulesPath, func(w io.Writer) error {
		return sketchio.WriteRules(w, rs, cfg.ItemSeparator)
	}); err != nil {
		return nil, err
	}
	r.logger.Info("results written",
		zap.String("itemsets", cfg.OutputItemsetsPath),
		zap.String("rules", cfg.OutputRulesPath))
	return &MineResult{Result: res, Rules: rs}, nil
}

// Result is the outcome of Compare.
type Result struct {
	Yes    *miner.Result
	No     *miner.Result
	Report *compare.Report

	// RunID is the SQLite run id, zero when no database is configured.
	RunID int64
}

// Compare mines the yes and no populations concurrently and joins them. If
// either run fails the other is cancelled and nothing is written.
func Compare(ctx context.Context, cfg *config.ComparatorConfig, opts ...OptionFunc) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := newRunner(opts)
	r.logger.Info("comparison started", zap.String("mode", string(cfg.Mode())))

	pair, err := r.pair(cfg)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out, err := r.mineSide(gctx, "yes", pair.Yes, cfg.MinSupportYes, cfg)
		res.Yes = out
		return err
	})
	g.Go(func() error {
		out, err := r.mineSide(gctx, "no", pair.No, cfg.MinSupportNo, cfg)
		res.No = out
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Report, err = compare.Join(
		compare.Side{Table: res.Yes.Table, Total: res.Yes.Table.Total(), MinSupport: cfg.MinSupportYes},
		compare.Side{Table: res.No.Table, Total: res.No.Table.Total(), MinSupport: cfg.MinSupportNo},
		compare.Options{EquiJoin: cfg.UseEquiJoin, Separator: cfg.ItemSeparator},
	)
	if err != nil {
		return nil, err
	}
	r.logger.Info("itemsets joined",
		zap.Int("rows", len(res.Report.Rows)),
		zap.Int("both", res.Report.Count(compare.Both)),
		zap.Int("yes_only", res.Report.Count(compare.YesOnly)),
		zap.Int("no_only", res.Report.Count(compare.NoOnly)))

	if err := r.write(cfg, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *runner) load(path string, lgK uint8) (split.Collection, error) {
	sketches, err := sketchio.ReadFile(path, func(rd io.Reader) (*sketchio.Sketches, error) {
		return sketchio.ReadSketches(rd, lgK)
	})
	if err != nil {
		return split.Collection{}, err
	}
	items, universe := sketches.Summaries()
	r.logger.Info("sketches loaded",
		zap.String("path", path),
		zap.Int("items", len(items)),
		zap.Float64("total", universe.Estimate()),
		zap.Bool("total_given", sketches.TotalGiven))
	return split.Collection{Items: items, Universe: universe}, nil
}

// prepare drops the excluded items, then restricts to the filter item.
func (r *runner) prepare(c split.Collection, cfg *config.ComparatorConfig) (split.Collection, error) {
	if len(cfg.ExcludedItems) > 0 {
		excluded := make([]itemset.Item, len(cfg.ExcludedItems))
		for i, item := range cfg.ExcludedItems {
			excluded[i] = itemset.Item(item)
		}
		c = split.Exclude(c, excluded...)
	}
	if cfg.FilterItem == "" {
		return c, nil
	}
	filtered, err := split.Filter(c, itemset.Item(cfg.FilterItem))
	if err != nil {
		return split.Collection{}, fmt.Errorf("filter_item: %w", err)
	}
	r.logger.Info("filter applied",
		zap.String("filter_item", cfg.FilterItem),
		zap.Float64("total", filtered.Universe.Estimate()))
	return filtered, nil
}

func (r *runner) pair(cfg *config.ComparatorConfig) (split.Pair, error) {
	yesLgK, noLgK := cfg.LgK()
	if cfg.Mode() == config.ModeTwoFile {
		yes, err := r.load(cfg.InputCSVPathYes, yesLgK)
		if err != nil {
			return split.Pair{}, err
		}
		if yes, err = r.prepare(yes, cfg); err != nil {
			return split.Pair{}, err
		}
		no, err := r.load(cfg.InputCSVPathNo, noLgK)
		if err != nil {
			return split.Pair{}, err
		}
		if no, err = r.prepare(no, cfg); err != nil {
			return split.Pair{}, err
		}
		return split.TwoFile(yes, no), nil
	}

	c, err := r.load(cfg.InputCSVPath, yesLgK)
	if err != nil {
		return split.Pair{}, err
	}
	if c, err = r.prepare(c, cfg); err != nil {
		return split.Pair{}, err
	}
	if cfg.Mode() == config.ModeTwoTarget {
		return split.TwoTargets(c, itemset.Item(cfg.TargetItem1), itemset.Item(cfg.TargetItem0))
	}
	return split.OneTarget(c, itemset.Item(cfg.TargetItem1))
}

func (r *runner) mineSide(ctx context.Context, side string, c split.Collection, minSupport float64, cfg *config.ComparatorConfig) (*miner.Result, error) {
	logger := r.logger.With(zap.String("case", side))
	logger.Info("mining",
		zap.Float64("total", c.Universe.Estimate()),
		zap.Float64("min_support", minSupport),
		zap.Int("max_levels", cfg.MaxLevels))
	res, err := miner.Mine(ctx, c.Items, c.Universe, miner.Options{
		MinSupport:       minSupport,
		MaxLevel:         cfg.MaxLevels,
		IncludeAllLevel1: cfg.IncludeAllLevel1,
	}, miner.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("%s case: %w", side, err)
	}
	return res, nil
}

func (r *runner) write(cfg *config.ComparatorConfig, res *Result) error {
	if cfg.Mode() == config.ModeTwoFile {
		if err := sketchio.WriteFile(cfg.OutputItemsetsPathYes, func(w io.Writer) error {
			return sketchio.WriteItemsets(w, res.Yes.Table, cfg.ItemSeparator)
		}); err != nil {
			return err
		}
		if err := sketchio.WriteFile(cfg.OutputItemsetsPathNo, func(w io.Writer) error {
			return sketchio.WriteItemsets(w, res.No.Table, cfg.ItemSeparator)
		}); err != nil {
			return err
		}
	}
	if err := sketchio.WriteFile(cfg.JoinedPath(), func(w io.Writer) error {
		return sketchio.WriteJoined(w, res.Report)
	}); err != nil {
		return err
	}
	r.logger.Info("joined itemsets written", zap.String("path", cfg.JoinedPath()))

	if cfg.OutputSQLitePath == "" {
		return nil
	}
	db, err := store.New(cfg.OutputSQLitePath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.CreateSchema(); err != nil {
		return err
	}
	res.RunID, err = db.SaveRun(string(cfg.Mode()), res.Yes.Table, res.No.Table, res.Report)
	if err != nil {
		return err
	}
	r.logger.Info("run stored", zap.String("path", cfg.OutputSQLitePath), zap.Int64("run_id", res.RunID))
	return nil
}
