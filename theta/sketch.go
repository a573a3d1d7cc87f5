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

// Package theta implements Theta sketches: K-minimum-values summaries of a
// set of distinct keys that support union, intersection and difference
// (A-not-B) with bounded error, and a compact binary form compatible with the
// serial versions 3 and 4 used across the DataSketches family.
package theta

import "iter"

// Sketch is the read side shared by update and compact sketches.
type Sketch interface {
	// IsEmpty returns true if the sketch represents an empty set
	// (not the same as no retained entries!)
	IsEmpty() bool
	// IsOrdered returns true if retained entries are sorted ascending
	IsOrdered() bool
	// Theta64 returns theta as a positive integer between 0 and MaxTheta
	Theta64() uint64
	// Theta returns theta as a fraction from 0 to 1 (effective sampling rate)
	Theta() float64
	// NumRetained returns the number of retained entries in the sketch
	NumRetained() uint32
	// SeedHash returns the hash of the seed used to hash the input
	SeedHash() uint16
	// Estimate returns the estimate of the distinct count of the input stream
	Estimate() float64
	// IsEstimationMode returns true if theta has dropped below MaxTheta
	IsEstimationMode() bool
	// All returns the retained hash values
	All() iter.Seq[uint64]
}

func estimate(numRetained uint32, theta uint64) float64 {
	if theta == 0 {
		return 0
	}
	return float64(numRetained) / (float64(theta) / float64(MaxTheta))
}
