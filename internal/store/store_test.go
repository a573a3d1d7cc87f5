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

package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/compare"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/itemset"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.CreateSchema())
	return s
}

func table(t *testing.T, total float64, counts map[string]float64) *itemset.Table {
	t.Helper()
	tbl := itemset.NewTable(total)
	for text, count := range counts {
		s, err := itemset.Parse(text, ",")
		require.NoError(t, err)
		require.NoError(t, tbl.Add(itemset.Entry{Itemset: s, Count: count, Support: count / total}))
	}
	return tbl
}

func sampleRun(t *testing.T) (*itemset.Table, *itemset.Table, *compare.Report) {
	t.Helper()
	yes := table(t, 20, map[string]float64{"A": 10, "B": 8, "A,B": 6})
	no := table(t, 30, map[string]float64{"B": 12, "C": 9})
	report, err := compare.Join(
		compare.Side{Table: yes, Total: 20, MinSupport: 0.1},
		compare.Side{Table: no, Total: 30, MinSupport: 0.2},
		compare.Options{},
	)
	require.NoError(t, err)
	return yes, no, report
}

func TestSaveRun(t *testing.T) {
	s := newStore(t)
	yes, no, report := sampleRun(t)

	id, err := s.SaveRun("churn", yes, no, report)
	require.NoError(t, err)

	run, err := s.GetRun(id)
	require.NoError(t, err)
	assert.Equal(t, "churn", run.Name)
	assert.Equal(t, compare.DefaultSeparator, run.Separator)
	assert.Equal(t, 20.0, run.YesTotal)
	assert.Equal(t, 30.0, run.NoTotal)
	assert.Equal(t, report.Digest(), run.Digest)
	assert.False(t, run.CreatedAt.IsZero())

	gotYes, err := s.Itemsets(id, SideYes)
	require.NoError(t, err)
	assert.True(t, yes.Equal(gotYes))
	gotNo, err := s.Itemsets(id, SideNo)
	require.NoError(t, err)
	assert.True(t, no.Equal(gotNo))

	got, err := s.Rows(id)
	require.NoError(t, err)
	require.Len(t, got.Rows, len(report.Rows))
	for i, want := range report.Rows {
		row := got.Rows[i]
		assert.True(t, want.Itemset.Equal(row.Itemset))
		assert.Equal(t, want.Presence, row.Presence)
		assert.InDelta(t, want.YesCount, row.YesCount, 1e-9)
		assert.InDelta(t, want.NoCount, row.NoCount, 1e-9)
		assert.Equal(t, want.YesPercentage, row.YesPercentage)
	}
	assert.Equal(t, report.Digest(), got.Digest())
}

func TestRuns(t *testing.T) {
	s := newStore(t)
	yes, no, report := sampleRun(t)

	first, err := s.SaveRun("first", yes, no, report)
	require.NoError(t, err)
	second, err := s.SaveRun("second", yes, no, report)
	require.NoError(t, err)

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, first, runs[1].ID)
}

func TestRunNotFound(t *testing.T) {
	s := newStore(t)

	_, err := s.GetRun(42)
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = s.Rows(42)
	assert.ErrorIs(t, err, ErrRunNotFound)
	_, err = s.Itemsets(42, SideYes)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestNoSchema(t *testing.T) {
	s, err := New(":memory:")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Runs()
	assert.Error(t, err)
}
