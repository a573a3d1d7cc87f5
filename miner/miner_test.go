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

package miner

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/itemset"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/summary"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/theta"
)

func indexSets(sets map[itemset.Item][]int) map[itemset.Item]summary.Summary {
	items := make(map[itemset.Item]summary.Summary, len(sets))
	for item, indexes := range sets {
		items[item] = summary.NewIndexSet(indexes...)
	}
	return items
}

func universe(n int) summary.Summary {
	indexes := make([]int, n)
	for i := range indexes {
		indexes[i] = i
	}
	return summary.NewIndexSet(indexes...)
}

func TestTwoItemIntersection(t *testing.T) {
	items := indexSets(map[itemset.Item][]int{
		"A": {0, 1, 2},
		"B": {1, 2, 3},
	})
	result, err := Mine(context.Background(), items, universe(4), Options{MinSupport: 0.4, MaxLevel: 3})
	require.NoError(t, err)
	table := result.Table

	assert.Equal(t, 4.0, table.Total())
	for _, item := range []itemset.Item{"A", "B"} {
		e, ok := table.Lookup(itemset.Of(item))
		require.True(t, ok)
		assert.Equal(t, 3.0, e.Count)
		assert.Equal(t, 0.75, e.Support)
	}
	e, ok := table.Lookup(itemset.Of("A", "B"))
	require.True(t, ok)
	assert.Equal(t, 2.0, e.Count)
	assert.Equal(t, 0.5, e.Support)
	assert.Equal(t, 2, table.MaxLevel())

	// level 3 is attempted but a single frequent pair cannot be joined
	require.Len(t, result.Stats, 3)
	assert.Equal(t, LevelStats{Level: 2, Candidates: 1, Frequent: 1, Reported: 1}, result.Stats[1])
	assert.Equal(t, LevelStats{Level: 3}, result.Stats[2])
}

func TestIncludeAllLevel1(t *testing.T) {
	items := indexSets(map[itemset.Item][]int{
		"A": {0, 1, 2, 3, 4, 5},
		"B": {0, 1, 2, 3, 4, 6},
		"C": {0},
	})

	t.Run("Enabled", func(t *testing.T) {
		result, err := Mine(context.Background(), items, universe(10), Options{MinSupport: 0.4, MaxLevel: 3, IncludeAllLevel1: true})
		require.NoError(t, err)
		table := result.Table

		c, ok := table.Lookup(itemset.Of("C"))
		require.True(t, ok)
		assert.Equal(t, 0.1, c.Support)

		for e := range table.All() {
			if e.Itemset.Level() > 1 {
				assert.False(t, e.Itemset.Contains("C"), "%s must not be generated", e.Itemset)
			}
		}
		assert.True(t, table.Contains(itemset.Of("A", "B")))
		assert.Equal(t, 3, result.Stats[0].Reported)
		assert.Equal(t, 2, result.Stats[0].Frequent)
	})

	t.Run("Disabled", func(t *testing.T) {
		result, err := Mine(context.Background(), items, universe(10), Options{MinSupport: 0.4, MaxLevel: 3})
		require.NoError(t, err)
		assert.False(t, result.Table.Contains(itemset.Of("C")))
		assert.Len(t, result.Table.Level(1), 2)
	})
}

func TestHaltsEarly(t *testing.T) {
	items := indexSets(map[itemset.Item][]int{
		"A": {0, 1, 2, 3},
		"B": {4, 5, 6, 7},
	})
	result, err := Mine(context.Background(), items, universe(8), Options{MinSupport: 0.25, MaxLevel: 5})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, result.Table.Levels())
	assert.Len(t, result.Stats, 2)
}

func TestMaxLevel(t *testing.T) {
	items := indexSets(map[itemset.Item][]int{
		"A": {0, 1, 2},
		"B": {0, 1, 2},
		"C": {0, 1, 2},
	})
	result, err := Mine(context.Background(), items, universe(3), Options{MinSupport: 1, MaxLevel: 2})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, result.Table.Levels())
	assert.Len(t, result.Table.Level(2), 3)

	result, err = Mine(context.Background(), items, universe(3), Options{MinSupport: 1, MaxLevel: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Table.MaxLevel())
}

func TestDegenerateInputs(t *testing.T) {
	t.Run("No Items", func(t *testing.T) {
		result, err := Mine(context.Background(), nil, universe(5), Options{MinSupport: 0.5, MaxLevel: 2})
		require.NoError(t, err)
		assert.Zero(t, result.Table.Len())
		assert.Equal(t, 5.0, result.Table.Total())
	})

	t.Run("Empty Universe", func(t *testing.T) {
		items := indexSets(map[itemset.Item][]int{"A": {0}})
		_, err := Mine(context.Background(), items, summary.NewIndexSet(), Options{MinSupport: 0.5, MaxLevel: 2})
		assert.ErrorIs(t, err, ErrDegenerateInput)
	})

	t.Run("Missing Summaries", func(t *testing.T) {
		_, err := Mine(context.Background(), map[itemset.Item]summary.Summary{"A": nil}, universe(1), Options{MinSupport: 0.5, MaxLevel: 2})
		assert.ErrorIs(t, err, ErrInvalidConfig)

		_, err = Mine(context.Background(), nil, nil, Options{MinSupport: 0.5, MaxLevel: 2})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "zero support", opts: Options{MinSupport: 0, MaxLevel: 2}},
		{name: "negative support", opts: Options{MinSupport: -0.1, MaxLevel: 2}},
		{name: "support above one", opts: Options{MinSupport: 1.01, MaxLevel: 2}},
		{name: "zero max level", opts: Options{MinSupport: 0.5, MaxLevel: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestIncompatibleSummaries(t *testing.T) {
	sketch, err := theta.NewUpdateSketch()
	require.NoError(t, err)
	sketch.UpdateInt64(1)
	sketch.UpdateInt64(2)

	items := map[itemset.Item]summary.Summary{
		"A": summary.NewIndexSet(1, 2),
		"B": summary.NewTheta(sketch.Compact(true)),
	}
	_, err = Mine(context.Background(), items, universe(3), Options{MinSupport: 0.5, MaxLevel: 2})
	assert.ErrorIs(t, err, summary.ErrIncompatible)
}

// cancelOnIntersect cancels a context the first time it is intersected.
type cancelOnIntersect struct {
	*summary.IndexSet
	cancel context.CancelFunc
}

func (c cancelOnIntersect) Intersect(other summary.Summary) (summary.Summary, error) {
	c.cancel()
	if o, ok := other.(cancelOnIntersect); ok {
		other = o.IndexSet
	}
	return c.IndexSet.Intersect(other)
}

func TestCancellation(t *testing.T) {
	t.Run("Before Start", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result, err := Mine(ctx, indexSets(map[itemset.Item][]int{"A": {0}}), universe(1), Options{MinSupport: 0.5, MaxLevel: 2})
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, result)
	})

	t.Run("During A Level", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		items := make(map[itemset.Item]summary.Summary)
		for i := 0; i < 10; i++ {
			items[itemset.Item(fmt.Sprintf("i%d", i))] = cancelOnIntersect{IndexSet: summary.NewIndexSet(0, 1, 2), cancel: cancel}
		}
		m, err := New(Options{MinSupport: 0.5, MaxLevel: 3})
		require.NoError(t, err)
		m.checkInterval = 1

		result, err := m.Mine(ctx, items, universe(3))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Nil(t, result)
	})
}

// randomThetaItems builds sketches of random transactions with 2^lgK
// nominal entries.
func randomThetaItems(t *testing.T, seed int64, numItems, numTransactions int, lgK uint8) (map[itemset.Item]summary.Summary, summary.Summary) {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	sketches := make(map[itemset.Item]*theta.UpdateSketch)
	total, err := theta.NewUpdateSketch(theta.WithUpdateSketchLgK(lgK))
	require.NoError(t, err)
	for tx := 0; tx < numTransactions; tx++ {
		total.UpdateInt64(int64(tx))
		for i := 0; i < numItems; i++ {
			// item i appears in roughly 1/(i+2) of the transactions
			if r.Intn(i+2) != 0 {
				continue
			}
			item := itemset.Item(fmt.Sprintf("item%02d", i))
			if sketches[item] == nil {
				sketches[item], err = theta.NewUpdateSketch(theta.WithUpdateSketchLgK(lgK))
				require.NoError(t, err)
			}
			sketches[item].UpdateInt64(int64(tx))
		}
	}
	items := make(map[itemset.Item]summary.Summary, len(sketches))
	for item, s := range sketches {
		items[item] = summary.NewTheta(s.Compact(true), summary.WithLgK(lgK))
	}
	return items, summary.NewTheta(total.Compact(true), summary.WithLgK(lgK))
}

func TestMinedTableProperties(t *testing.T) {
	tests := []struct {
		name       string
		lgK        uint8
		estimation bool
	}{
		{name: "exact", lgK: theta.DefaultLgK},
		{name: "estimation", lgK: 5, estimation: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, u := randomThetaItems(t, 42, 8, 3000, tt.lgK)
			assert.Equal(t, tt.estimation, u.(*summary.Theta).Sketch().IsEstimationMode())
			checkMinedTable(t, items, u)
		})
	}
}

func checkMinedTable(t *testing.T, items map[itemset.Item]summary.Summary, u summary.Summary) {
	t.Helper()
	opts := Options{MinSupport: 0.05, MaxLevel: 4, IncludeAllLevel1: true}

	m, err := New(opts, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	result, err := m.Mine(context.Background(), items, u)
	require.NoError(t, err)
	table := result.Table
	require.Greater(t, table.MaxLevel(), 1)

	t.Run("Anti-monotone", func(t *testing.T) {
		for e := range table.All() {
			for _, subset := range e.Itemset.Subsets() {
				sub, ok := table.Lookup(subset)
				require.True(t, ok, "%s is missing subset %s", e.Itemset, subset)
				assert.GreaterOrEqual(t, sub.Support, opts.MinSupport)
			}
		}
	})

	t.Run("Support Bound", func(t *testing.T) {
		for e := range table.All() {
			if e.Itemset.Level() >= 2 {
				assert.GreaterOrEqual(t, e.Support, opts.MinSupport)
			}
			assert.InDelta(t, e.Count/table.Total(), e.Support, 1e-12)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		again, err := m.Mine(context.Background(), items, u)
		require.NoError(t, err)
		assert.True(t, table.Equal(again.Table))
		assert.Equal(t, result.Stats, again.Stats)
	})
}
