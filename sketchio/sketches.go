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

package sketchio

import (
	"encoding/base64"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/itemset"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/summary"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/theta"
)

// TotalName labels the universe row of a sketch file.
const TotalName = "total"

var ErrNoSketches = errors.New("no sketches found")

// Sketches is the content of a sketch file.
type Sketches struct {
	Items map[itemset.Item]*theta.CompactSketch
	Total *theta.CompactSketch
	// TotalGiven is false when Total was computed as the union of Items.
	TotalGiven bool
	LgK        uint8
}

// Summaries wraps the sketches for mining.
func (s *Sketches) Summaries() (map[itemset.Item]summary.Summary, summary.Summary) {
	items := make(map[itemset.Item]summary.Summary, len(s.Items))
	for item, sketch := range s.Items {
		items[item] = summary.NewTheta(sketch, summary.WithLgK(s.LgK))
	}
	return items, summary.NewTheta(s.Total, summary.WithLgK(s.LgK))
}

// ReadSketches parses rows of "<item>,<base64 sketch>". A first row named
// "total" (any case) or "" is the universe; without it the universe is the
// union of all items, built with lgK.
func ReadSketches(r io.Reader, lgK uint8) (*Sketches, error) {
	cr := newReader(r)
	s := &Sketches{Items: make(map[itemset.Item]*theta.CompactSketch), LgK: lgK}

	for row := 1; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("invalid CSV format at row %d: expected 2 columns, got %d", row, len(fields))
		}
		sketch, err := decodeSketch(fields[1])
		if err != nil {
			return nil, fmt.Errorf("failed to decode sketch at row %d: %w", row, err)
		}

		name := fields[0]
		if row == 1 && (name == "" || strings.EqualFold(name, TotalName)) {
			s.Total = sketch
			s.TotalGiven = true
			continue
		}
		s.Items[itemset.Item(name)] = sketch
	}

	if s.Total == nil {
		if len(s.Items) == 0 {
			return nil, ErrNoSketches
		}
		total, err := unionOf(s.Items, lgK)
		if err != nil {
			return nil, err
		}
		s.Total = total
	}
	return s, nil
}

// WriteSketches writes the universe row followed by the items in name order.
func WriteSketches(w io.Writer, items map[itemset.Item]*theta.CompactSketch, total *theta.CompactSketch, compressed bool) error {
	cw := csv.NewWriter(w)
	encoded, err := encodeSketch(total, compressed)
	if err != nil {
		return fmt.Errorf("encoding total: %w", err)
	}
	if err := cw.Write([]string{TotalName, encoded}); err != nil {
		return err
	}
	for _, item := range slices.Sorted(maps.Keys(items)) {
		encoded, err := encodeSketch(items[item], compressed)
		if err != nil {
			return fmt.Errorf("encoding %q: %w", item, err)
		}
		if err := cw.Write([]string{string(item), encoded}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func decodeSketch(text string) (*theta.CompactSketch, error) {
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text))
	if err != nil {
		return nil, err
	}
	return theta.Decode(data, theta.DefaultSeed)
}

func encodeSketch(sketch *theta.CompactSketch, compressed bool) (string, error) {
	var b strings.Builder
	enc := base64.NewEncoder(base64.StdEncoding, &b)
	if err := theta.NewEncoder(enc, compressed).Encode(sketch); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return b.String(), nil
}

func unionOf(items map[itemset.Item]*theta.CompactSketch, lgK uint8) (*theta.CompactSketch, error) {
	u, err := theta.NewUnion(theta.WithUnionLgK(lgK))
	if err != nil {
		return nil, err
	}
	for _, item := range slices.Sorted(maps.Keys(items)) {
		if err := u.Update(items[item]); err != nil {
			return nil, fmt.Errorf("merging %q: %w", item, err)
		}
	}
	return u.Result(true), nil
}
