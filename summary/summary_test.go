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

package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/theta"
)

func thetaOf(t *testing.T, from, to int) *Theta {
	t.Helper()
	sketch, err := theta.NewUpdateSketch()
	require.NoError(t, err)
	for i := from; i < to; i++ {
		sketch.UpdateInt64(int64(i))
	}
	return NewTheta(sketch.Compact(true))
}

func TestIndexSet(t *testing.T) {
	a := NewIndexSet(1, 2, 3, 4)
	b := NewIndexSet(3, 4, 5)

	assert.Equal(t, 4.0, a.Estimate())

	u, err := a.Union(b)
	require.NoError(t, err)
	assert.Equal(t, 5.0, u.Estimate())

	i, err := a.Intersect(b)
	require.NoError(t, err)
	assert.Equal(t, 2.0, i.Estimate())
	assert.True(t, i.(*IndexSet).Contains(3))
	assert.False(t, i.(*IndexSet).Contains(1))

	d, err := a.Difference(b)
	require.NoError(t, err)
	assert.Equal(t, 2.0, d.Estimate())
	assert.True(t, d.(*IndexSet).Contains(1))
	assert.False(t, d.(*IndexSet).Contains(3))
	assert.True(t, u.(*IndexSet).Contains(5))

	// receivers are untouched
	assert.Equal(t, 4.0, a.Estimate())
	assert.Equal(t, 3.0, b.Estimate())
	assert.True(t, a.Contains(1))
	assert.False(t, a.Contains(5))
	assert.Equal(t, 0.0, NewIndexSet().Estimate())
}

func TestTheta(t *testing.T) {
	a := thetaOf(t, 0, 1000)
	b := thetaOf(t, 600, 1200)

	assert.Equal(t, 1000.0, a.Estimate())

	u, err := a.Union(b)
	require.NoError(t, err)
	assert.Equal(t, 1200.0, u.Estimate())

	i, err := a.Intersect(b)
	require.NoError(t, err)
	assert.Equal(t, 400.0, i.Estimate())

	d, err := a.Difference(b)
	require.NoError(t, err)
	assert.Equal(t, 600.0, d.Estimate())

	assert.Equal(t, 1000.0, a.Estimate())
	assert.Equal(t, 1000.0, a.Sketch().Estimate())
}

func TestIncompatible(t *testing.T) {
	a := thetaOf(t, 0, 10)
	b := NewIndexSet(1)

	_, err := a.Union(b)
	assert.ErrorIs(t, err, ErrIncompatible)
	_, err = a.Intersect(b)
	assert.ErrorIs(t, err, ErrIncompatible)
	_, err = a.Difference(b)
	assert.ErrorIs(t, err, ErrIncompatible)
	_, err = b.Union(a)
	assert.ErrorIs(t, err, ErrIncompatible)
	_, err = b.Intersect(a)
	assert.ErrorIs(t, err, ErrIncompatible)
	_, err = b.Difference(a)
	assert.ErrorIs(t, err, ErrIncompatible)
}

func TestFolds(t *testing.T) {
	a := NewIndexSet(1, 2, 3, 4, 5)
	b := NewIndexSet(2, 3, 4)
	c := NewIndexSet(3, 4, 9)

	i, err := IntersectAll(a, b, c)
	require.NoError(t, err)
	assert.Equal(t, 2.0, i.Estimate())

	u, err := UnionAll(a, b, c)
	require.NoError(t, err)
	assert.Equal(t, 6.0, u.Estimate())

	single, err := IntersectAll(a)
	require.NoError(t, err)
	assert.Same(t, a, single)

	_, err = IntersectAll(a, thetaOf(t, 0, 1))
	assert.ErrorIs(t, err, ErrIncompatible)
}
