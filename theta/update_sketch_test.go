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

package theta

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSeedHash(t *testing.T) {
	seedHash, err := ComputeSeedHash(DefaultSeed)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x93cc), seedHash)

	other, err := ComputeSeedHash(123)
	require.NoError(t, err)
	assert.NotEqual(t, seedHash, other)
}

func TestUpdateSketch(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		sketch, err := NewUpdateSketch()
		require.NoError(t, err)

		assert.True(t, sketch.IsEmpty())
		assert.False(t, sketch.IsEstimationMode())
		assert.Equal(t, 0.0, sketch.Estimate())
		assert.Equal(t, 1.0, sketch.Theta())
		assert.Equal(t, uint32(0), sketch.NumRetained())
	})

	t.Run("Exact Mode", func(t *testing.T) {
		sketch, err := NewUpdateSketch()
		require.NoError(t, err)

		for i := 0; i < 1000; i++ {
			sketch.UpdateInt64(int64(i))
		}
		// duplicates are ignored
		for i := 0; i < 1000; i++ {
			sketch.UpdateInt64(int64(i))
		}

		assert.False(t, sketch.IsEmpty())
		assert.False(t, sketch.IsEstimationMode())
		assert.Equal(t, 1000.0, sketch.Estimate())
		assert.Equal(t, uint32(1000), sketch.NumRetained())
	})

	t.Run("Estimation Mode", func(t *testing.T) {
		sketch, err := NewUpdateSketch(WithUpdateSketchLgK(12))
		require.NoError(t, err)

		n := 100000
		for i := 0; i < n; i++ {
			sketch.UpdateUint64(uint64(i))
		}

		assert.True(t, sketch.IsEstimationMode())
		assert.Less(t, sketch.Theta(), 1.0)
		assert.LessOrEqual(t, int(sketch.NumRetained()), sketch.rebuildThreshold())
		assert.InEpsilon(t, float64(n), sketch.Estimate(), 0.05)

		sketch.Trim()
		assert.Equal(t, uint32(1<<12), sketch.NumRetained())
		assert.InEpsilon(t, float64(n), sketch.Estimate(), 0.05)
		for hash := range sketch.All() {
			assert.Less(t, hash, sketch.Theta64())
		}
	})

	t.Run("Sampling Probability", func(t *testing.T) {
		sketch, err := NewUpdateSketch(WithUpdateSketchP(0.5))
		require.NoError(t, err)
		assert.True(t, sketch.IsEmpty())
		assert.Equal(t, 1.0, sketch.Theta())

		for i := 0; i < 1000; i++ {
			sketch.UpdateInt64(int64(i))
		}
		assert.True(t, sketch.IsEstimationMode())
		assert.InDelta(t, 0.5, sketch.Theta(), 1e-6)
		assert.InEpsilon(t, 1000.0, sketch.Estimate(), 0.2)
	})

	t.Run("Strings And Floats", func(t *testing.T) {
		sketch, err := NewUpdateSketch()
		require.NoError(t, err)

		assert.ErrorIs(t, sketch.UpdateString(""), ErrUpdateEmptyString)
		assert.True(t, sketch.IsEmpty())

		require.NoError(t, sketch.UpdateString("a"))
		require.NoError(t, sketch.UpdateString("b"))
		require.NoError(t, sketch.UpdateString("a"))
		sketch.UpdateBytes([]byte("a")) // same bytes as the string
		sketch.UpdateFloat64(0.0)
		sketch.UpdateFloat64(math.Copysign(0, -1))
		sketch.UpdateFloat64(math.NaN())
		assert.Equal(t, 4.0, sketch.Estimate())
	})

	t.Run("Invalid Options", func(t *testing.T) {
		_, err := NewUpdateSketch(WithUpdateSketchLgK(MinLgK - 1))
		assert.ErrorIs(t, err, ErrInvalidLgK)
		_, err = NewUpdateSketch(WithUpdateSketchLgK(MaxLgK + 1))
		assert.ErrorIs(t, err, ErrInvalidLgK)
		_, err = NewUpdateSketch(WithUpdateSketchP(0))
		assert.ErrorIs(t, err, ErrInvalidP)
		_, err = NewUpdateSketch(WithUpdateSketchP(1.5))
		assert.ErrorIs(t, err, ErrInvalidP)
	})

	t.Run("Reset", func(t *testing.T) {
		sketch, err := NewUpdateSketch(WithUpdateSketchLgK(MinLgK))
		require.NoError(t, err)
		for i := 0; i < 1000; i++ {
			sketch.UpdateInt64(int64(i))
		}
		sketch.Reset()
		assert.True(t, sketch.IsEmpty())
		assert.Equal(t, uint32(0), sketch.NumRetained())
		assert.Equal(t, MaxTheta, sketch.Theta64())

		sketch.UpdateInt64(1)
		assert.Equal(t, 1.0, sketch.Estimate())
	})

	t.Run("Compact", func(t *testing.T) {
		sketch, err := NewUpdateSketch(WithUpdateSketchLgK(MinLgK))
		require.NoError(t, err)
		for i := 0; i < 25; i++ {
			sketch.UpdateInt64(int64(i))
		}
		// below the rebuild threshold of 30 but above k = 16
		assert.Equal(t, uint32(25), sketch.NumRetained())

		compact := sketch.Compact(true)
		assert.Equal(t, uint32(16), compact.NumRetained())
		assert.True(t, compact.IsOrdered())
		assert.True(t, compact.IsEstimationMode())
		entries := slices.Collect(compact.All())
		assert.True(t, slices.IsSorted(entries))

		// the source is untouched
		assert.Equal(t, uint32(25), sketch.NumRetained())
	})
}
