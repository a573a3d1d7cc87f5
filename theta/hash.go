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
	"encoding/binary"
	"math"

	"github.com/twmb/murmur3"
)

// hashBytes returns the 63-bit theta hash of data: the first half of
// MurmurHash3 x64_128 shifted right by one.
func hashBytes(data []byte, seed uint64) uint64 {
	h1, _ := murmur3.SeedSum128(seed, seed, data)
	return h1 >> 1
}

func hashInt64(value int64, seed uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(value))
	return hashBytes(buf[:], seed)
}

func hashString(value string, seed uint64) uint64 {
	h1, _ := murmur3.SeedStringSum128(seed, seed, value)
	return h1 >> 1
}

// canonicalDouble folds -0.0 into 0.0 and every NaN into the canonical NaN
// so equal values hash the same.
func canonicalDouble(value float64) int64 {
	if value == 0.0 {
		value = 0.0
	} else if math.IsNaN(value) {
		return 0x7ff8000000000000
	}
	return int64(math.Float64bits(value))
}

// ComputeSeedHash returns the 16-bit fingerprint stored in serialized sketches.
// Sketches built with different seeds cannot be combined.
func ComputeSeedHash(seed uint64) (uint16, error) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	h1, _ := murmur3.SeedSum128(0, 0, buf[:])
	seedHash := uint16(h1 & 0xffff)
	if seedHash == 0 {
		return 0, ErrZeroSeedHash
	}
	return seedHash, nil
}
