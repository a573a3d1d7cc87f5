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

// Package compare joins the frequent itemset tables mined from a "yes" and a
// "no" population into one report ranked by the share of the yes class.
package compare

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/itemset"
)

var (
	ErrInvalidConfig = errors.New("invalid comparison input")
	ErrInvariant     = errors.New("comparison invariant violated")
)

// DefaultSeparator joins items when rendering an itemset.
const DefaultSeparator = " && "

// Side is the mined table of one class with the parameters it was mined with.
type Side struct {
	Table      *itemset.Table
	Total      float64
	MinSupport float64
}

// Threshold is the count an itemset missing from this side is assumed to
// have: the largest count that could still have stayed below MinSupport.
func (s Side) Threshold() float64 {
	return s.MinSupport * s.Total
}

func (s Side) validate(name string) error {
	if s.Table == nil {
		return fmt.Errorf("%w: %s table is missing", ErrInvalidConfig, name)
	}
	if !(s.Total > 0) {
		return fmt.Errorf("%w: %s total %v must be positive", ErrInvalidConfig, name, s.Total)
	}
	if !(s.MinSupport > 0 && s.MinSupport <= 1) {
		return fmt.Errorf("%w: %s min_support %v is outside (0, 1]", ErrInvalidConfig, name, s.MinSupport)
	}
	return nil
}

// Options tunes Join.
type Options struct {
	// EquiJoin keeps only the itemsets frequent in both classes.
	EquiJoin bool
	// Separator renders itemsets; DefaultSeparator when empty.
	Separator string
}

// Join performs a full outer join of both tables on (level, itemset). Counts
// of an itemset absent from one side are estimated with that side's Threshold.
// Rows are ordered by level ascending, yes percentage descending, and the
// rendered itemset ascending.
func Join(yes, no Side, opts Options) (*Report, error) {
	if err := yes.validate("yes"); err != nil {
		return nil, err
	}
	if err := no.validate("no"); err != nil {
		return nil, err
	}
	sep := opts.Separator
	if sep == "" {
		sep = DefaultSeparator
	}

	var rows []Row
	for e := range yes.Table.All() {
		other, ok := no.Table.Lookup(e.Itemset)
		switch {
		case ok:
			rows = append(rows, newRow(e.Itemset, sep, Both, e.Count, other.Count))
		case !opts.EquiJoin:
			rows = append(rows, newRow(e.Itemset, sep, YesOnly, e.Count, no.Threshold()))
		}
	}
	if !opts.EquiJoin {
		for e := range no.Table.All() {
			if !yes.Table.Contains(e.Itemset) {
				rows = append(rows, newRow(e.Itemset, sep, NoOnly, yes.Threshold(), e.Count))
			}
		}
	}

	for _, row := range rows {
		// a level-1 item reported only through include_all_level1 may be
		// missing from both populations
		frequent := row.YesCount >= yes.Threshold() || row.NoCount >= no.Threshold()
		if !(row.Total > 0) && frequent {
			return nil, fmt.Errorf("%w: %s at level %d has total %v (yes %v, no %v)",
				ErrInvariant, row.Rendered, row.Level, row.Total, row.YesCount, row.NoCount)
		}
		if row.YesPercentage < 0 || row.YesPercentage > 100 {
			return nil, fmt.Errorf("%w: %s at level %d has yes percentage %v",
				ErrInvariant, row.Rendered, row.Level, row.YesPercentage)
		}
	}

	slices.SortFunc(rows, func(a, b Row) int {
		if c := cmp.Compare(a.Level, b.Level); c != 0 {
			return c
		}
		if c := cmp.Compare(b.YesPercentage, a.YesPercentage); c != 0 {
			return c
		}
		return cmp.Compare(a.Rendered, b.Rendered)
	})
	return &Report{Rows: rows, Separator: sep}, nil
}

func newRow(s itemset.Itemset, sep string, presence Presence, yesCount, noCount float64) Row {
	total := yesCount + noCount
	var pct float64
	if total > 0 {
		pct = roundTo(100*yesCount/total, 3)
	}
	return Row{
		Level:         s.Level(),
		Itemset:       s,
		Rendered:      s.Render(sep),
		Presence:      presence,
		YesCount:      yesCount,
		NoCount:       noCount,
		Total:         total,
		YesPercentage: pct,
	}
}

func roundTo(x float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(x*scale) / scale
}
