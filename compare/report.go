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

package compare

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/itemset"
)

// Presence tells which classes an itemset was frequent in.
type Presence int

const (
	Both Presence = iota
	YesOnly
	NoOnly
)

func (p Presence) String() string {
	switch p {
	case Both:
		return "both"
	case YesOnly:
		return "yes"
	case NoOnly:
		return "no"
	default:
		return fmt.Sprintf("Presence(%d)", int(p))
	}
}

// ParsePresence is the inverse of Presence.String.
func ParsePresence(s string) (Presence, error) {
	switch s {
	case "both":
		return Both, nil
	case "yes":
		return YesOnly, nil
	case "no":
		return NoOnly, nil
	default:
		return 0, fmt.Errorf("unknown presence %q", s)
	}
}

// Row is one itemset of the joined report.
type Row struct {
	Level         int
	Itemset       itemset.Itemset
	Rendered      string
	Presence      Presence
	YesCount      float64
	NoCount       float64
	Total         float64
	YesPercentage float64
}

// YesObserved reports whether YesCount was mined rather than estimated.
func (r Row) YesObserved() bool {
	return r.Presence != NoOnly
}

// NoObserved reports whether NoCount was mined rather than estimated.
func (r Row) NoObserved() bool {
	return r.Presence != YesOnly
}

// Report is the ordered result of Join.
type Report struct {
	Rows      []Row
	Separator string
}

// Levels returns the distinct levels in report order.
func (r *Report) Levels() []int {
	var levels []int
	for _, row := range r.Rows {
		if len(levels) == 0 || levels[len(levels)-1] != row.Level {
			levels = append(levels, row.Level)
		}
	}
	return levels
}

// Level returns the rows of level k, best yes percentage first.
func (r *Report) Level(k int) []Row {
	var rows []Row
	for _, row := range r.Rows {
		if row.Level == k {
			rows = append(rows, row)
		}
	}
	return rows
}

// Count returns the number of rows per presence.
func (r *Report) Count(p Presence) int {
	n := 0
	for _, row := range r.Rows {
		if row.Presence == p {
			n++
		}
	}
	return n
}

// Digest fingerprints the rows in order. Equal reports have equal digests.
func (r *Report) Digest() uint64 {
	d := xxhash.New()
	for _, row := range r.Rows {
		fmt.Fprintf(d, "%d\t%s\t%s\t%.6f\t%.6f\t%.6f\t%.3f\n",
			row.Level, row.Itemset.Key(), row.Presence, row.YesCount, row.NoCount, row.Total, row.YesPercentage)
	}
	return d.Sum64()
}
