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
)

// ANotB returns the set difference of a and b: the keys of a that are not in b.
// Both sketches must have been built with seed.
func ANotB(a, b Sketch, seed uint64, ordered bool) (*CompactSketch, error) {
	seedHash, err := ComputeSeedHash(seed)
	if err != nil {
		return nil, err
	}
	for _, s := range []Sketch{a, b} {
		if !s.IsEmpty() && s.SeedHash() != seedHash {
			return nil, fmt.Errorf("%w: expected %d, sketch %d", ErrSeedHashMismatch, seedHash, s.SeedHash())
		}
	}

	if a.IsEmpty() {
		return newCompactSketch(true, true, seedHash, MaxTheta, nil), nil
	}
	if b.IsEmpty() {
		entries := slices.Collect(a.All())
		if ordered && !a.IsOrdered() {
			slices.Sort(entries)
		}
		return newCompactSketch(false, ordered || a.IsOrdered(), seedHash, a.Theta64(), entries), nil
	}

	theta := min(a.Theta64(), b.Theta64())
	exclude := make(map[uint64]struct{}, b.NumRetained())
	for hash := range b.All() {
		if hash < theta {
			exclude[hash] = struct{}{}
		}
	}

	var entries []uint64
	for hash := range a.All() {
		if hash >= theta {
			continue
		}
		if _, ok := exclude[hash]; !ok {
			entries = append(entries, hash)
		}
	}
	return resultSketch(false, ordered, seedHash, theta, entries), nil
}
