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
	"fmt"
	"iter"
	"slices"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/internal"
)

type updateSketchOptions struct {
	lgK  uint8
	p    float32
	seed uint64
}

type UpdateSketchOptionFunc func(*updateSketchOptions)

// WithUpdateSketchLgK sets log2(k), where k is a nominal number of entries in the sketch
func WithUpdateSketchLgK(lgK uint8) UpdateSketchOptionFunc {
	return func(opts *updateSketchOptions) {
		opts.lgK = lgK
	}
}

// WithUpdateSketchP sets sampling probability (initial theta). The default is 1, so the sketch retains
// all entries until it reaches the limit, at which point it goes into the estimation mode
// and reduces the effective sampling probability (theta) as necessary.
func WithUpdateSketchP(p float32) UpdateSketchOptionFunc {
	return func(opts *updateSketchOptions) {
		opts.p = p
	}
}

// WithUpdateSketchSeed sets the seed for the hash function. Should be used carefully if needed.
// Sketches produced with different seed are not compatible
// and cannot be mixed in set operations.
func WithUpdateSketchSeed(seed uint64) UpdateSketchOptionFunc {
	return func(opts *updateSketchOptions) {
		opts.seed = seed
	}
}

// UpdateSketch builds a theta sketch from a stream of keys. Once the number
// of retained hashes passes the rebuild threshold, theta is lowered to the
// k-th smallest retained hash and everything at or above it is discarded.
type UpdateSketch struct {
	lgK        uint8
	seed       uint64
	seedHash   uint16
	startTheta uint64
	theta      uint64
	isEmpty    bool
	entries    []uint64
	present    map[uint64]struct{}
}

// NewUpdateSketch creates an empty update sketch
func NewUpdateSketch(opts ...UpdateSketchOptionFunc) (*UpdateSketch, error) {
	options := &updateSketchOptions{
		lgK:  DefaultLgK,
		p:    1.0,
		seed: DefaultSeed,
	}
	for _, opt := range opts {
		opt(options)
	}

	if options.lgK < MinLgK || options.lgK > MaxLgK {
		return nil, fmt.Errorf("%w: %d, expected [%d, %d]", ErrInvalidLgK, options.lgK, MinLgK, MaxLgK)
	}
	if options.p <= 0 || options.p > 1 {
		return nil, fmt.Errorf("%w: %f", ErrInvalidP, options.p)
	}
	seedHash, err := ComputeSeedHash(options.seed)
	if err != nil {
		return nil, err
	}

	theta := startingThetaFromP(options.p)
	return &UpdateSketch{
		lgK:        options.lgK,
		seed:       options.seed,
		seedHash:   seedHash,
		startTheta: theta,
		theta:      theta,
		isEmpty:    true,
		present:    make(map[uint64]struct{}),
	}, nil
}

func startingThetaFromP(p float32) uint64 {
	if p < 1 {
		return uint64(float64(MaxTheta) * float64(p))
	}
	return MaxTheta
}

// IsEmpty returns true if this sketch represents an empty set
func (s *UpdateSketch) IsEmpty() bool {
	return s.isEmpty
}

// IsOrdered reports false once two or more entries are held: entries stay in arrival order
func (s *UpdateSketch) IsOrdered() bool {
	return len(s.entries) <= 1
}

// Theta64 returns theta as a positive integer between 0 and MaxTheta
func (s *UpdateSketch) Theta64() uint64 {
	if s.isEmpty {
		return MaxTheta
	}
	return s.theta
}

// Theta returns theta as a fraction from 0 to 1
func (s *UpdateSketch) Theta() float64 {
	return float64(s.Theta64()) / float64(MaxTheta)
}

// NumRetained returns the number of retained entries in the sketch
func (s *UpdateSketch) NumRetained() uint32 {
	return uint32(len(s.entries))
}

// SeedHash returns hash of the seed that was used to hash the input
func (s *UpdateSketch) SeedHash() uint16 {
	return s.seedHash
}

// Estimate returns estimate of the distinct count of the input stream
func (s *UpdateSketch) Estimate() float64 {
	return estimate(s.NumRetained(), s.Theta64())
}

// IsEstimationMode returns true if the sketch is in estimation mode
func (s *UpdateSketch) IsEstimationMode() bool {
	return s.Theta64() < MaxTheta && !s.isEmpty
}

// LgK returns log2 of the nominal number of entries
func (s *UpdateSketch) LgK() uint8 {
	return s.lgK
}

// UpdateUint64 updates this sketch with a given unsigned 64-bit integer
func (s *UpdateSketch) UpdateUint64(value uint64) {
	s.UpdateInt64(int64(value))
}

// UpdateInt64 updates this sketch with a given signed 64-bit integer
func (s *UpdateSketch) UpdateInt64(value int64) {
	s.insert(hashInt64(value, s.seed))
}

// UpdateFloat64 updates this sketch with a given double-precision floating point value
func (s *UpdateSketch) UpdateFloat64(value float64) {
	s.UpdateInt64(canonicalDouble(value))
}

// UpdateString updates this sketch with the UTF-8 bytes of value
func (s *UpdateSketch) UpdateString(value string) error {
	if value == "" {
		return ErrUpdateEmptyString
	}
	s.insert(hashString(value, s.seed))
	return nil
}

// UpdateBytes updates this sketch with given data
func (s *UpdateSketch) UpdateBytes(data []byte) {
	s.insert(hashBytes(data, s.seed))
}

func (s *UpdateSketch) insert(hash uint64) {
	s.isEmpty = false
	if hash == 0 || hash >= s.theta {
		return
	}
	if _, ok := s.present[hash]; ok {
		return
	}
	s.present[hash] = struct{}{}
	s.entries = append(s.entries, hash)
	if len(s.entries) > s.rebuildThreshold() {
		s.rebuild()
	}
}

func (s *UpdateSketch) rebuildThreshold() int {
	return (1 << (s.lgK + 1)) * rebuildThresholdNumerator / rebuildThresholdDenominator
}

// rebuild lowers theta to the (k+1)-th smallest hash, leaving exactly k entries
func (s *UpdateSketch) rebuild() {
	k := 1 << s.lgK
	if len(s.entries) <= k {
		return
	}
	s.theta = internal.Select(s.entries, k)
	kept := s.entries[:0]
	for _, hash := range s.entries {
		if hash < s.theta {
			kept = append(kept, hash)
		} else {
			delete(s.present, hash)
		}
	}
	s.entries = kept
}

// Trim removes retained entries in excess of the nominal size k (if any)
func (s *UpdateSketch) Trim() {
	s.rebuild()
}

// Reset resets the sketch to the initial empty state
func (s *UpdateSketch) Reset() {
	s.isEmpty = true
	s.theta = s.startTheta
	s.entries = nil
	s.present = make(map[uint64]struct{})
}

// All returns hash values in the sketch
func (s *UpdateSketch) All() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		for _, entry := range s.entries {
			if !yield(entry) {
				return
			}
		}
	}
}

// Compact returns an immutable copy of this sketch, at most k entries, sorted if ordered
func (s *UpdateSketch) Compact(ordered bool) *CompactSketch {
	k := 1 << s.lgK
	entries := slices.Clone(s.entries)
	theta := s.Theta64()
	if len(entries) > k {
		theta = internal.Select(entries, k)
		kept := entries[:0]
		for _, hash := range entries {
			if hash < theta {
				kept = append(kept, hash)
			}
		}
		entries = kept
	}
	if ordered {
		slices.Sort(entries)
	}
	return newCompactSketch(s.isEmpty, ordered, s.seedHash, theta, entries)
}
