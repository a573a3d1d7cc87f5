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
	"io"
)

const (
	UncompressedSerialVersion = 3
	CompressedSerialVersion   = 4
	CompactSketchType         = 3
)

// byte offsets within the preamble
const (
	preLongsByte        = 0
	serialVersionByte   = 1
	sketchTypeByte      = 2
	entryBitsByte       = 3 // v4
	numEntriesBytesByte = 4 // v4
	flagsByte           = 5
	seedHashByte        = 6
	numEntriesByte      = 8  // v3, preLongs > 1
	thetaByteV3         = 16 // v3, preLongs > 2
	thetaByteV4         = 8  // v4, preLongs > 1
)

// flag bits within flagsByte
const (
	flagIsBigEndian uint8 = iota
	flagIsReadOnly
	flagIsEmpty
	flagIsCompact
	flagIsOrdered
)

// Encoder writes compact theta sketches in serial version 3 (uncompressed)
// or 4 (compressed). Sketches that cannot be compressed fall back to version 3.
type Encoder struct {
	w          io.Writer
	compressed bool
}

// NewEncoder creates a new encoder.
func NewEncoder(w io.Writer, compressed bool) Encoder {
	return Encoder{w: w, compressed: compressed}
}

// Encode writes sketch to the underlying writer.
func (enc Encoder) Encode(sketch *CompactSketch) error {
	l := sketch.layout(enc.compressed)
	buf := make([]byte, l.size)
	buf[preLongsByte] = l.preLongs
	buf[serialVersionByte] = l.version
	buf[sketchTypeByte] = CompactSketchType
	binary.LittleEndian.PutUint16(buf[seedHashByte:], sketch.seedHash)
	if l.version == CompressedSerialVersion {
		packV4(buf, sketch, l)
	} else {
		packV3(buf, sketch, l)
	}

	n, err := enc.w.Write(buf)
	if err != nil {
		return err
	}
	if n != len(buf) {
		return io.ErrShortWrite
	}
	return nil
}

func packV3(buf []byte, sketch *CompactSketch, l layout) {
	flags := byte(1<<flagIsCompact | 1<<flagIsReadOnly)
	if sketch.isEmpty {
		flags |= 1 << flagIsEmpty
	}
	if sketch.isOrdered {
		flags |= 1 << flagIsOrdered
	}
	buf[flagsByte] = flags

	offset := 8
	if l.preLongs > 1 {
		binary.LittleEndian.PutUint32(buf[numEntriesByte:], sketch.NumRetained())
		offset = 16
	}
	if l.preLongs > 2 {
		binary.LittleEndian.PutUint64(buf[thetaByteV3:], sketch.theta)
		offset = 24
	}
	for i, entry := range sketch.entries {
		binary.LittleEndian.PutUint64(buf[offset+8*i:], entry)
	}
}

// packV4 stores the gaps between sorted entries, entryBits wide each, after a
// variable length entry count.
func packV4(buf []byte, sketch *CompactSketch, l layout) {
	buf[entryBitsByte] = l.entryBits
	buf[numEntriesBytesByte] = l.numEntriesBytes
	buf[flagsByte] = 1<<flagIsCompact | 1<<flagIsReadOnly | 1<<flagIsOrdered

	offset := 8
	if l.preLongs > 1 {
		binary.LittleEndian.PutUint64(buf[thetaByteV4:], sketch.theta)
		offset = 16
	}
	numEntries := sketch.NumRetained()
	for i := range l.numEntriesBytes {
		buf[offset] = byte(numEntries >> (8 * i))
		offset++
	}

	w := &bitWriter{buf: buf[offset:]}
	var previous uint64
	for _, entry := range sketch.entries {
		w.write(entry-previous, l.entryBits)
		previous = entry
	}
}
