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
	"errors"
	"math"
)

const (
	// MaxTheta is the value of theta for a sketch that has not started sampling.
	// Hash values are 63 bits, so theta is kept within the positive int64 range.
	MaxTheta uint64 = math.MaxInt64

	// MinLgK is the smallest log2 of nominal entries an update sketch accepts.
	MinLgK uint8 = 4
	// MaxLgK is the largest log2 of nominal entries an update sketch accepts.
	MaxLgK uint8 = 26
	// DefaultLgK gives 4096 nominal entries.
	DefaultLgK uint8 = 12

	// DefaultSeed is the hash seed shared by all sketches in the ecosystem.
	DefaultSeed uint64 = 9001
)

// rebuild once the retained entries exceed 15/16 of 2^(lgK+1)
const (
	rebuildThresholdNumerator   = 15
	rebuildThresholdDenominator = 16
)

var (
	ErrInvalidLgK         = errors.New("lg_k out of range")
	ErrInvalidP           = errors.New("sampling probability must be in (0, 1]")
	ErrUpdateEmptyString  = errors.New("cannot update with an empty string")
	ErrSeedHashMismatch   = errors.New("seed hash mismatch")
	ErrZeroSeedHash       = errors.New("seed hash must not be zero, choose a different seed")
	ErrIntersectionNoData = errors.New("intersection has no result before the first update")
)
