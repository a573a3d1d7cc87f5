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

// Package summary defines the set-summary capability the miner works
// against, and its implementations: theta sketches for approximate
// counting and exact index sets.
package summary

import (
	"errors"
	"fmt"
)

// Summary is a compact representation of a set of transaction identifiers.
// Every combinator returns a new value and leaves its receiver unchanged.
type Summary interface {
	// Estimate returns the (approximate) cardinality of the set.
	Estimate() float64
	// Union returns a summary of the union of both sets.
	Union(other Summary) (Summary, error)
	// Intersect returns a summary of the intersection of both sets.
	Intersect(other Summary) (Summary, error)
	// Difference returns a summary of the receiver's set minus other's.
	Difference(other Summary) (Summary, error)
}

var ErrIncompatible = errors.New("incompatible summaries")

// IntersectAll folds Intersect over its arguments left to right.
func IntersectAll(first Summary, rest ...Summary) (Summary, error) {
	acc := first
	for i, s := range rest {
		next, err := acc.Intersect(s)
		if err != nil {
			return nil, fmt.Errorf("intersecting summary %d: %w", i+1, err)
		}
		acc = next
	}
	return acc, nil
}

// UnionAll folds Union over its arguments left to right.
func UnionAll(first Summary, rest ...Summary) (Summary, error) {
	acc := first
	for i, s := range rest {
		next, err := acc.Union(s)
		if err != nil {
			return nil, fmt.Errorf("merging summary %d: %w", i+1, err)
		}
		acc = next
	}
	return acc, nil
}

func incompatible(a, b Summary) error {
	return fmt.Errorf("%w: %T and %T", ErrIncompatible, a, b)
}
