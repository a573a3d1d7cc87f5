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

package itemset

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTable(t *testing.T) {
	table := NewTable(4)
	require.NoError(t, table.Add(Entry{Itemset: Of("b"), Count: 3, Support: 0.75}))
	require.NoError(t, table.Add(Entry{Itemset: Of("a"), Count: 3, Support: 0.75}))
	require.NoError(t, table.Add(Entry{Itemset: Of("b", "a"), Count: 2, Support: 0.5}))

	assert.Equal(t, 4.0, table.Total())
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, []int{1, 2}, table.Levels())
	assert.Equal(t, 2, table.MaxLevel())

	level1 := table.Level(1)
	require.Len(t, level1, 2)
	assert.True(t, level1[0].Itemset.Equal(Of("a")))
	assert.True(t, level1[1].Itemset.Equal(Of("b")))
	assert.Empty(t, table.Level(3))

	e, ok := table.Lookup(Of("a", "b"))
	require.True(t, ok)
	assert.Equal(t, 2.0, e.Count)
	assert.True(t, table.Contains(Of("b")))
	assert.False(t, table.Contains(Of("c")))

	var order []string
	for e := range table.All() {
		order = append(order, e.Itemset.Render(","))
	}
	assert.Equal(t, []string{"a", "b", "a,b"}, order)

	// replacing keeps a single entry
	require.NoError(t, table.Add(Entry{Itemset: Of("a"), Count: 4, Support: 1}))
	assert.Equal(t, 3, table.Len())
	assert.Len(t, table.Level(1), 2)
}

func TestTableAddErrors(t *testing.T) {
	table := NewTable(1)
	assert.ErrorIs(t, table.Add(Entry{}), ErrEmptyItemset)
	assert.ErrorIs(t, table.Add(Entry{Itemset: Of("a"), Count: -1}), ErrNegativeCount)
	assert.Zero(t, table.Len())
	assert.Zero(t, table.MaxLevel())
}

func TestTableEqual(t *testing.T) {
	build := func(order []Itemset) *Table {
		table := NewTable(10)
		for _, s := range order {
			require.NoError(t, table.Add(Entry{Itemset: s, Count: float64(s.Level()), Support: float64(s.Level()) / 10}))
		}
		return table
	}
	sets := []Itemset{Of("a"), Of("b"), Of("a", "b")}
	a := build(sets)
	reversed := slices.Clone(sets)
	slices.Reverse(reversed)
	b := build(reversed)
	assert.True(t, a.Equal(b))

	c := build(sets[:2])
	assert.False(t, a.Equal(c))
	assert.False(t, NewTable(1).Equal(NewTable(2)))
}
