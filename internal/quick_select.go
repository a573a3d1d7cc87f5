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

package internal

import "cmp"

// Select partially reorders arr so that arr[k] holds the value it would hold
// if arr were sorted ascending, with no larger value before it and no smaller
// value after it. It returns arr[k]. arr must be non-empty and k in range.
func Select[T cmp.Ordered](arr []T, k int) T {
	lo, hi := 0, len(arr)-1
	for lo < hi {
		p := partition(arr, lo, hi)
		switch {
		case p == k:
			return arr[k]
		case p > k:
			hi = p - 1
		default:
			lo = p + 1
		}
	}
	return arr[k]
}

// partition places the median of arr[lo], arr[mid], arr[hi] at its final
// position within arr[lo..hi] and returns that position.
func partition[T cmp.Ordered](arr []T, lo, hi int) int {
	mid := lo + (hi-lo)/2
	if arr[mid] < arr[lo] {
		arr[mid], arr[lo] = arr[lo], arr[mid]
	}
	if arr[hi] < arr[lo] {
		arr[hi], arr[lo] = arr[lo], arr[hi]
	}
	if arr[hi] < arr[mid] {
		arr[hi], arr[mid] = arr[mid], arr[hi]
	}
	arr[mid], arr[hi] = arr[hi], arr[mid]
	pivot := arr[hi]

	store := lo
	for i := lo; i < hi; i++ {
		if arr[i] < pivot {
			arr[i], arr[store] = arr[store], arr[i]
			store++
		}
	}
	arr[store], arr[hi] = arr[hi], arr[store]
	return store
}
