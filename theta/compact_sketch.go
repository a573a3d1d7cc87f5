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
	"fmt"
	"iter"
	"math/bits"
	"slices"
)

// CompactSketch is the read-only form of a theta sketch. It is what set
// operations return and what gets serialized.
type CompactSketch struct {
	entries   []uint64
	theta     uint64
	seedHash  uint16
	isEmpty   bool
	isOrdered bool
}

// NewCompactSketch copies the state of source, sorting the entries when
// ordered is set.
func NewCompactSketch(source Sketch, ordered bool) *CompactSketch {
	if source.IsEmpty() {
		return newCompactSketch(true, true, source.SeedHash(), source.Theta64(), nil)
	}
	entries := slices.Collect(source.All())
	if ordered && !source.IsOrdered() {
		slices.Sort(entries)
	}
	return newCompactSketch(false, ordered || source.IsOrdered(), source.SeedHash(), source.Theta64(), entries)
}

func newCompactSketch(isEmpty, isOrdered bool, seedHash uint16, theta uint64, entries []uint64) *CompactSketch {
	// zero or one entry is trivially sorted
	return &CompactSketch{
		entries:   entries,
		theta:     theta,
		seedHash:  seedHash,
		isEmpty:   isEmpty,
		isOrdered: isOrdered || len(entries) < 2,
	}
}

// IsEmpty returns true if this sketch represents an empty set
// (not the same as no retained entries!)
func (s *CompactSketch) IsEmpty() bool { return s.isEmpty }

// IsOrdered returns true if retained entries are sorted ascending
func (s *CompactSketch) IsOrdered() bool { return s.isOrdered }

// Theta64 returns theta as a positive integer between 0 and MaxTheta
func (s *CompactSketch) Theta64() uint64 { return s.theta }

// SeedHash returns the hash of the seed used to hash the input
func (s *CompactSketch) SeedHash() uint16 { return s.seedHash }

// NumRetained returns the number of retained entries
func (s *CompactSketch) NumRetained() uint32 { return uint32(len(s.entries)) }

// Theta returns theta as a fraction from 0 to 1 (effective sampling rate)
func (s *CompactSketch) Theta() float64 {
	return float64(s.theta) / float64(MaxTheta)
}

// Estimate returns the estimated number of distinct keys
func (s *CompactSketch) Estimate() float64 {
	return estimate(s.NumRetained(), s.theta)
}

// IsEstimationMode returns true if theta has dropped below MaxTheta,
// meaning the entries are a sample of the keys
func (s *CompactSketch) IsEstimationMode() bool {
	return !s.isEmpty && s.theta < MaxTheta
}

// All returns the retained hash values, ascending when the sketch is ordered
func (s *CompactSketch) All() iter.Seq[uint64] {
	return slices.Values(s.entries)
}

// String renders the state on one line, for logs.
func (s *CompactSketch) String() string {
	return fmt.Sprintf("theta{estimate=%.1f retained=%d theta=%.6f empty=%t ordered=%t seed_hash=%#04x}",
		s.Estimate(), s.NumRetained(), s.Theta(), s.isEmpty, s.isOrdered, s.seedHash)
}

// MarshalBinary encodes the sketch uncompressed (serial version 3).
func (s *CompactSketch) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf, false).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary decodes a sketch hashed with DefaultSeed.
func (s *CompactSketch) UnmarshalBinary(data []byte) error {
	decoded, err := Decode(data, DefaultSeed)
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}

// SerializedSizeBytes is the length of the encoding. Compression is only
// honoured for sketches that can be delta packed.
func (s *CompactSketch) SerializedSizeBytes(compressed bool) int {
	return s.layout(compressed).size
}

// layout describes how the sketch is encoded.
type layout struct {
	version         uint8
	preLongs        uint8
	entryBits       uint8 // v4 only
	numEntriesBytes uint8 // v4 only
	size            int
}

func (s *CompactSketch) layout(compressed bool) layout {
	if compressed && s.packable() {
		l := layout{version: CompressedSerialVersion, preLongs: 1}
		if s.IsEstimationMode() {
			l.preLongs = 2
		}
		l.entryBits = s.deltaBits()
		l.numEntriesBytes = uint8(wholeBytesToHoldBits(bits.Len32(uint32(len(s.entries)))))
		l.size = int(l.preLongs)*8 + int(l.numEntriesBytes) + wholeBytesToHoldBits(int(l.entryBits)*len(s.entries))
		return l
	}

	l := layout{version: UncompressedSerialVersion}
	switch {
	case s.IsEstimationMode():
		l.preLongs = 3
	case s.isEmpty || len(s.entries) == 1:
		l.preLongs = 1
	default:
		l.preLongs = 2
	}
	l.size = int(l.preLongs)*8 + len(s.entries)*8
	return l
}

// packable reports whether the entries can be delta encoded: they must be
// sorted, and a lone exact entry is cheaper uncompressed.
func (s *CompactSketch) packable() bool {
	switch {
	case !s.isOrdered, len(s.entries) == 0:
		return false
	case len(s.entries) == 1:
		return s.IsEstimationMode()
	}
	return true
}

// deltaBits is the width of the widest gap between consecutive entries.
func (s *CompactSketch) deltaBits() uint8 {
	var previous, gaps uint64
	for _, entry := range s.entries {
		gaps |= entry - previous
		previous = entry
	}
	return uint8(bits.Len64(gaps))
}
