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

import "fmt"

// Intersection computes the intersection of theta sketches. Before the first
// Update it represents the universe and has no result.
type Intersection struct {
	seedHash uint16
	isValid  bool
	isEmpty  bool
	theta    uint64
	entries  map[uint64]struct{}
}

// NewIntersection creates an intersection for sketches hashed with seed
func NewIntersection(seed uint64) (*Intersection, error) {
	seedHash, err := ComputeSeedHash(seed)
	if err != nil {
		return nil, err
	}
	return &Intersection{
		seedHash: seedHash,
		theta:    MaxTheta,
	}, nil
}

// Update intersects the current state with sketch
func (i *Intersection) Update(sketch Sketch) error {
	if !sketch.IsEmpty() && sketch.SeedHash() != i.seedHash {
		return fmt.Errorf("%w: intersection %d, sketch %d", ErrSeedHashMismatch, i.seedHash, sketch.SeedHash())
	}
	if i.isValid && i.isEmpty {
		return nil
	}

	theta := min(i.theta, sketch.Theta64())
	next := make(map[uint64]struct{})
	for hash := range sketch.All() {
		if hash >= theta {
			if sketch.IsOrdered() {
				break
			}
			continue
		}
		if !i.isValid {
			next[hash] = struct{}{}
		} else if _, ok := i.entries[hash]; ok {
			next[hash] = struct{}{}
		}
	}

	i.isValid = true
	i.isEmpty = sketch.IsEmpty() || (len(next) == 0 && theta == MaxTheta)
	i.theta = theta
	i.entries = next
	return nil
}

// HasResult returns true if Update has been called at least once
func (i *Intersection) HasResult() bool {
	return i.isValid
}

// Result produces a copy of the current state of the intersection
func (i *Intersection) Result(ordered bool) (*CompactSketch, error) {
	if !i.isValid {
		return nil, ErrIntersectionNoData
	}
	if i.isEmpty {
		return newCompactSketch(true, true, i.seedHash, MaxTheta, nil), nil
	}
	entries := make([]uint64, 0, len(i.entries))
	for hash := range i.entries {
		entries = append(entries, hash)
	}
	return resultSketch(false, ordered, i.seedHash, i.theta, entries), nil
}
