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
	"slices"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/internal"
)

type unionOptions struct {
	lgK  uint8
	seed uint64
}

type UnionOptionFunc func(*unionOptions)

// WithUnionLgK sets log2(k) of the union's internal sketch
func WithUnionLgK(lgK uint8) UnionOptionFunc {
	return func(opts *unionOptions) {
		opts.lgK = lgK
	}
}

// WithUnionSeed sets the seed the input sketches were built with
func WithUnionSeed(seed uint64) UnionOptionFunc {
	return func(opts *unionOptions) {
		opts.seed = seed
	}
}

// Union computes the union of theta sketches. It keeps at most k entries,
// so the result is a sample of the union at the smallest theta seen.
type Union struct {
	gadget     *UpdateSketch
	unionTheta uint64
	isEmpty    bool
}

// NewUnion creates an empty union
func NewUnion(opts ...UnionOptionFunc) (*Union, error) {
	options := &unionOptions{
		lgK:  DefaultLgK,
		seed: DefaultSeed,
	}
	for _, opt := range opts {
		opt(options)
	}

	gadget, err := NewUpdateSketch(WithUpdateSketchLgK(options.lgK), WithUpdateSketchSeed(options.seed))
	if err != nil {
		return nil, err
	}
	return &Union{
		gadget:     gadget,
		unionTheta: MaxTheta,
		isEmpty:    true,
	}, nil
}

// Update adds a sketch to the union
func (u *Union) Update(sketch Sketch) error {
	if sketch.IsEmpty() {
		return nil
	}
	if sketch.SeedHash() != u.gadget.seedHash {
		return fmt.Errorf("%w: union %d, sketch %d", ErrSeedHashMismatch, u.gadget.seedHash, sketch.SeedHash())
	}

	u.isEmpty = false
	u.unionTheta = min(u.unionTheta, sketch.Theta64())
	for hash := range sketch.All() {
		if hash < u.unionTheta {
			u.gadget.insert(hash)
		} else if sketch.IsOrdered() {
			break
		}
	}
	u.unionTheta = min(u.unionTheta, u.gadget.theta)
	return nil
}

// Result produces a copy of the current state of the union as a compact sketch
func (u *Union) Result(ordered bool) *CompactSketch {
	if u.isEmpty {
		return newCompactSketch(true, true, u.gadget.seedHash, MaxTheta, nil)
	}

	theta := min(u.unionTheta, u.gadget.theta)
	entries := make([]uint64, 0, len(u.gadget.entries))
	for _, hash := range u.gadget.entries {
		if hash < theta {
			entries = append(entries, hash)
		}
	}
	if k := 1 << u.gadget.lgK; len(entries) > k {
		theta = internal.Select(entries, k)
		entries = slices.DeleteFunc(entries, func(hash uint64) bool { return hash >= theta })
	}
	return resultSketch(false, ordered, u.gadget.seedHash, theta, entries)
}

// Reset resets the union to the initial empty state
func (u *Union) Reset() {
	u.gadget.Reset()
	u.unionTheta = MaxTheta
	u.isEmpty = true
}

// resultSketch builds the outcome of a set operation. An exact result with no
// entries is the empty set.
func resultSketch(isEmpty, ordered bool, seedHash uint16, theta uint64, entries []uint64) *CompactSketch {
	if len(entries) == 0 && theta == MaxTheta {
		isEmpty = true
	}
	if ordered {
		slices.Sort(entries)
	}
	return newCompactSketch(isEmpty, ordered, seedHash, theta, entries)
}
