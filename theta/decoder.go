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
	"fmt"
	"io"
)

// Decoder reads a compact theta sketch from a reader.
type Decoder struct {
	seed uint64
}

// NewDecoder creates a decoder that checks sketches against the hash of seed.
func NewDecoder(seed uint64) Decoder {
	return Decoder{seed: seed}
}

// Decode reads all of r and decodes it as a compact theta sketch.
func (dec Decoder) Decode(r io.Reader) (*CompactSketch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data, dec.seed)
}

// Decode decodes a serialized compact theta sketch of serial version 3 or 4.
func Decode(data []byte, seed uint64) (*CompactSketch, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("at least 8 bytes expected, actual %d", len(data))
	}
	if data[sketchTypeByte] != CompactSketchType {
		return nil, fmt.Errorf("sketch type mismatch: expected %d, actual %d", CompactSketchType, data[sketchTypeByte])
	}
	if data[flagsByte]&(1<<flagIsBigEndian) != 0 {
		return nil, fmt.Errorf("big-endian sketches are not supported")
	}

	expectedSeedHash, err := ComputeSeedHash(seed)
	if err != nil {
		return nil, err
	}

	switch version := data[serialVersionByte]; version {
	case UncompressedSerialVersion:
		return decodeV3(data, expectedSeedHash)
	case CompressedSerialVersion:
		return decodeV4(data, expectedSeedHash)
	default:
		return nil, fmt.Errorf("unsupported serial version %d", version)
	}
}

func checkSeedHash(data []byte, expected uint16) (uint16, error) {
	actual := binary.LittleEndian.Uint16(data[seedHashByte:])
	if actual != expected {
		return 0, fmt.Errorf("%w: expected %d, actual %d", ErrSeedHashMismatch, expected, actual)
	}
	return actual, nil
}

func checkSize(data []byte, need int, what string) error {
	if len(data) < need {
		return fmt.Errorf("%s: at least %d bytes expected, actual %d", what, need, len(data))
	}
	return nil
}

func decodeV3(data []byte, expectedSeedHash uint16) (*CompactSketch, error) {
	preLongs := data[preLongsByte]
	flags := data[flagsByte]
	isEmpty := flags&(1<<flagIsEmpty) != 0
	isOrdered := flags&(1<<flagIsOrdered) != 0

	if isEmpty {
		return newCompactSketch(true, true, binary.LittleEndian.Uint16(data[seedHashByte:]), MaxTheta, nil), nil
	}
	seedHash, err := checkSeedHash(data, expectedSeedHash)
	if err != nil {
		return nil, err
	}

	if preLongs == 1 {
		if err := checkSize(data, 16, "single entry sketch"); err != nil {
			return nil, err
		}
		entry := binary.LittleEndian.Uint64(data[8:])
		return newCompactSketch(false, true, seedHash, MaxTheta, []uint64{entry}), nil
	}

	if err := checkSize(data, int(preLongs)*8, "preamble"); err != nil {
		return nil, err
	}
	numEntries := int(binary.LittleEndian.Uint32(data[numEntriesByte:]))
	theta := MaxTheta
	if preLongs > 2 {
		theta = binary.LittleEndian.Uint64(data[thetaByteV3:])
	}
	offset := int(preLongs) * 8
	if err := checkSize(data, offset+numEntries*8, "entries"); err != nil {
		return nil, err
	}
	entries := make([]uint64, numEntries)
	for i := range entries {
		entries[i] = binary.LittleEndian.Uint64(data[offset+i*8:])
	}
	return newCompactSketch(false, isOrdered, seedHash, theta, entries), nil
}

func decodeV4(data []byte, expectedSeedHash uint16) (*CompactSketch, error) {
	preLongs := data[preLongsByte]
	entryBits := data[entryBitsByte]
	numEntriesBytes := data[numEntriesBytesByte]
	if entryBits > 64 || numEntriesBytes > 4 {
		return nil, fmt.Errorf("corrupt compressed sketch: entry bits %d, num entries bytes %d", entryBits, numEntriesBytes)
	}
	seedHash, err := checkSeedHash(data, expectedSeedHash)
	if err != nil {
		return nil, err
	}

	theta := MaxTheta
	offset := 8
	if preLongs > 1 {
		if err := checkSize(data, 16, "theta"); err != nil {
			return nil, err
		}
		theta = binary.LittleEndian.Uint64(data[thetaByteV4:])
		offset = 16
	}

	if err := checkSize(data, offset+int(numEntriesBytes), "num entries"); err != nil {
		return nil, err
	}
	var numEntries uint32
	for i := uint8(0); i < numEntriesBytes; i++ {
		numEntries |= uint32(data[offset]) << (8 * i)
		offset++
	}

	packed := wholeBytesToHoldBits(int(entryBits) * int(numEntries))
	if err := checkSize(data, offset+packed, "packed entries"); err != nil {
		return nil, err
	}
	r := &bitReader{buf: data[offset:]}
	entries := make([]uint64, numEntries)
	var previous uint64
	for i := range entries {
		previous += r.read(entryBits)
		entries[i] = previous
	}
	return newCompactSketch(false, true, seedHash, theta, entries), nil
}
