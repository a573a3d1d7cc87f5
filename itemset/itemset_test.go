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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s, err := New("b", "a", "c")
	require.NoError(t, err)
	assert.Equal(t, []Item{"a", "b", "c"}, s.Items())
	assert.Equal(t, 3, s.Level())
	assert.Equal(t, "a && b && c", s.Render(" && "))
	assert.Equal(t, "{a, b, c}", s.String())

	_, err = New()
	assert.ErrorIs(t, err, ErrEmptyItemset)

	_, err = New("a", "b", "a")
	assert.ErrorIs(t, err, ErrDuplicateItem)

	assert.Panics(t, func() { Of("a", "a") })
}

func TestEquality(t *testing.T) {
	a := Of("x=1", "y=2")
	b := Of("y=2", "x=1")
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, 0, a.Compare(b))

	assert.Negative(t, Of("z").Compare(Of("a", "b")))
	assert.Negative(t, Of("a", "b").Compare(Of("a", "c")))
	assert.Positive(t, Of("b").Compare(Of("a")))
}

func TestParse(t *testing.T) {
	s, err := Parse(" b && a ", "&&")
	require.NoError(t, err)
	assert.True(t, s.Equal(Of("a", "b")))

	_, err = Parse("a", "")
	assert.ErrorIs(t, err, ErrEmptySeparator)

	_, err = Parse(" && ", "&&")
	assert.ErrorIs(t, err, ErrEmptyItemset)
}

func TestSubsets(t *testing.T) {
	s := Of("a", "b", "c")
	subsets := s.Subsets()
	require.Len(t, subsets, 3)
	assert.True(t, subsets[0].Equal(Of("b", "c")))
	assert.True(t, subsets[1].Equal(Of("a", "c")))
	assert.True(t, subsets[2].Equal(Of("a", "b")))

	assert.Nil(t, Of("a").Subsets())
	assert.Equal(t, 0, Of("a").Without(0).Level())
}

func TestSetOperations(t *testing.T) {
	s := Of("a", "b", "c")
	assert.True(t, s.Contains("b"))
	assert.False(t, s.Contains("d"))

	rest, ok := s.Minus(Of("b"))
	require.True(t, ok)
	assert.True(t, rest.Equal(Of("a", "c")))

	_, ok = s.Minus(s)
	assert.False(t, ok)

	assert.True(t, Of("c", "a").Merge(Of("b", "c")).Equal(s))
}

func TestGenerate(t *testing.T) {
	t.Run("Level One Joins All Pairs", func(t *testing.T) {
		candidates, pruned := Generate([]Itemset{Of("c"), Of("a"), Of("b")})
		assert.Equal(t, 0, pruned)
		require.Len(t, candidates, 3)
		assert.True(t, candidates[0].Equal(Of("a", "b")))
		assert.True(t, candidates[1].Equal(Of("a", "c")))
		assert.True(t, candidates[2].Equal(Of("b", "c")))
	})

	t.Run("Prunes Candidates With Infrequent Subsets", func(t *testing.T) {
		// {b,c} is missing, so {a,b,c} cannot be frequent
		frequent := []Itemset{Of("a", "b"), Of("a", "c"), Of("a", "d"), Of("c", "d")}
		candidates, pruned := Generate(frequent)

		require.Len(t, candidates, 1)
		assert.True(t, candidates[0].Equal(Of("a", "c", "d")))
		assert.Equal(t, 2, pruned)
	})

	t.Run("Only Joins Shared Prefixes", func(t *testing.T) {
		candidates, _ := Generate([]Itemset{Of("a", "b"), Of("c", "d")})
		assert.Empty(t, candidates)
	})

	t.Run("Empty", func(t *testing.T) {
		candidates, pruned := Generate(nil)
		assert.Empty(t, candidates)
		assert.Zero(t, pruned)
	})
}
