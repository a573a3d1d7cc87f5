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

import "golang.org/x/exp/constraints"

// bitWriter packs values most significant bit first into a byte slice
// that is expected to be zeroed and large enough.
type bitWriter struct {
	buf    []byte
	idx    int
	offset uint8 // bits already used in buf[idx]
}

func (w *bitWriter) write(value uint64, bits uint8) {
	for bits > 0 {
		free := 8 - w.offset
		chunk := min(free, bits)
		part := (value >> (bits - chunk)) & ((1 << chunk) - 1)
		w.buf[w.idx] |= byte(part << (free - chunk))
		bits -= chunk
		w.offset += chunk
		if w.offset == 8 {
			w.idx++
			w.offset = 0
		}
	}
}

// bitReader is the inverse of bitWriter.
type bitReader struct {
	buf    []byte
	idx    int
	offset uint8
}

func (r *bitReader) read(bits uint8) uint64 {
	var value uint64
	for bits > 0 {
		avail := 8 - r.offset
		chunk := min(avail, bits)
		part := (r.buf[r.idx] >> (avail - chunk)) & byte((1<<chunk)-1)
		value = value<<chunk | uint64(part)
		bits -= chunk
		r.offset += chunk
		if r.offset == 8 {
			r.idx++
			r.offset = 0
		}
	}
	return value
}

func wholeBytesToHoldBits[T constraints.Integer](bits T) T {
	return (bits + 7) >> 3
}
