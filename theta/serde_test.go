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
	"bytes"
	"encoding/binary"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encode(t *testing.T, sketch *CompactSketch, compressed bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewEncoder(&buf, compressed).Encode(sketch))
	return buf.Bytes()
}

func TestSerializationRoundTrip(t *testing.T) {
	tests := []struct {
		name             string
		n                int
		preLongs         uint8
		compressed       bool
		expectedVersion  uint8
		expectEstimation bool
	}{
		{name: "empty", n: 0, preLongs: 1, expectedVersion: UncompressedSerialVersion},
		{name: "single item", n: 1, preLongs: 1, expectedVersion: UncompressedSerialVersion},
		{name: "exact", n: 100, preLongs: 2, expectedVersion: UncompressedSerialVersion},
		{name: "estimation", n: 10000, preLongs: 3, expectedVersion: UncompressedSerialVersion, expectEstimation: true},
		{name: "empty compressed falls back", n: 0, preLongs: 1, compressed: true, expectedVersion: UncompressedSerialVersion},
		{name: "single item compressed falls back", n: 1, preLongs: 1, compressed: true, expectedVersion: UncompressedSerialVersion},
		{name: "exact compressed", n: 100, preLongs: 1, compressed: true, expectedVersion: CompressedSerialVersion},
		{name: "estimation compressed", n: 10000, preLongs: 2, compressed: true, expectedVersion: CompressedSerialVersion, expectEstimation: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := buildSketch(t, 10, 0, tt.n)
			data := encode(t, original, tt.compressed)

			assert.Equal(t, tt.preLongs, data[preLongsByte])
			assert.Equal(t, tt.expectedVersion, data[serialVersionByte])
			assert.Equal(t, uint8(CompactSketchType), data[sketchTypeByte])
			assert.Equal(t, original.SerializedSizeBytes(tt.compressed), len(data))

			decoded, err := Decode(data, DefaultSeed)
			require.NoError(t, err)
			assert.Equal(t, original.IsEmpty(), decoded.IsEmpty())
			assert.Equal(t, tt.expectEstimation, decoded.IsEstimationMode())
			assert.Equal(t, original.Theta64(), decoded.Theta64())
			assert.Equal(t, original.Estimate(), decoded.Estimate())
			assert.Equal(t, slices.Collect(original.All()), slices.Collect(decoded.All()))
		})
	}
}

func TestSerializationLayout(t *testing.T) {
	t.Run("Exact V3", func(t *testing.T) {
		sketch := buildSketch(t, DefaultLgK, 0, 3)
		data := encode(t, sketch, false)

		assert.Equal(t, 16+3*8, len(data))
		assert.Equal(t, uint8(1<<flagIsCompact|1<<flagIsReadOnly|1<<flagIsOrdered), data[flagsByte])
		assert.Equal(t, uint16(0x93cc), binary.LittleEndian.Uint16(data[seedHashByte:]))
		assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(data[numEntriesByte:]))
	})

	t.Run("Empty V3", func(t *testing.T) {
		data := encode(t, buildSketch(t, DefaultLgK, 0, 0), false)
		assert.Equal(t, 8, len(data))
		assert.NotZero(t, data[flagsByte]&(1<<flagIsEmpty))
	})

	t.Run("Single Entry V3", func(t *testing.T) {
		sketch := buildSketch(t, DefaultLgK, 7, 8)
		data := encode(t, sketch, false)
		assert.Equal(t, 16, len(data))
		assert.Equal(t, slices.Collect(sketch.All())[0], binary.LittleEndian.Uint64(data[8:]))
	})

	t.Run("Compressed Is Smaller", func(t *testing.T) {
		sketch := buildSketch(t, DefaultLgK, 0, 4000)
		assert.Less(t, len(encode(t, sketch, true)), len(encode(t, sketch, false)))
	})

	t.Run("Unordered Cannot Compress", func(t *testing.T) {
		sketch, err := NewUpdateSketch()
		require.NoError(t, err)
		for i := 0; i < 100; i++ {
			sketch.UpdateInt64(int64(i))
		}
		data := encode(t, sketch.Compact(false), true)
		assert.Equal(t, uint8(UncompressedSerialVersion), data[serialVersionByte])
	})
}

func TestMarshalBinary(t *testing.T) {
	original := buildSketch(t, DefaultLgK, 0, 500)
	data, err := original.MarshalBinary()
	require.NoError(t, err)

	var decoded CompactSketch
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, 500.0, decoded.Estimate())

	fromReader, err := NewDecoder(DefaultSeed).Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 500.0, fromReader.Estimate())
}

func TestDecodeErrors(t *testing.T) {
	valid := encode(t, buildSketch(t, DefaultLgK, 0, 100), false)

	t.Run("Too Short", func(t *testing.T) {
		_, err := Decode(valid[:4], DefaultSeed)
		assert.Error(t, err)
	})

	t.Run("Truncated Entries", func(t *testing.T) {
		_, err := Decode(valid[:len(valid)-8], DefaultSeed)
		assert.ErrorContains(t, err, "entries")
	})

	t.Run("Unsupported Version", func(t *testing.T) {
		data := slices.Clone(valid)
		data[serialVersionByte] = 2
		_, err := Decode(data, DefaultSeed)
		assert.ErrorContains(t, err, "unsupported serial version 2")
	})

	t.Run("Wrong Type", func(t *testing.T) {
		data := slices.Clone(valid)
		data[sketchTypeByte] = 2
		_, err := Decode(data, DefaultSeed)
		assert.ErrorContains(t, err, "sketch type mismatch")
	})

	t.Run("Seed Mismatch", func(t *testing.T) {
		_, err := Decode(valid, 123)
		assert.ErrorIs(t, err, ErrSeedHashMismatch)
	})

	t.Run("Truncated Compressed", func(t *testing.T) {
		compressed := encode(t, buildSketch(t, DefaultLgK, 0, 100), true)
		_, err := Decode(compressed[:len(compressed)-1], DefaultSeed)
		assert.ErrorContains(t, err, "packed entries")
	})
}

func TestBitStream(t *testing.T) {
	values := []uint64{0, 1, 5, 1<<20 - 1, 12345, 1 << 19}
	for _, width := range []uint8{20, 21, 33, 63} {
		buf := make([]byte, wholeBytesToHoldBits(int(width)*len(values)))
		w := &bitWriter{buf: buf}
		for _, v := range values {
			w.write(v, width)
		}
		r := &bitReader{buf: buf}
		for _, v := range values {
			assert.Equal(t, v, r.read(width), "width %d", width)
		}
	}
}
