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

// Package rules derives association rules lhs -> rhs from a table of
// frequent itemsets.
package rules

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/itemset"
)

var ErrInvalidConfidence = errors.New("min_confidence must be in [0, 1]")

// convictionEpsilon replaces a zero denominator when confidence is 1.
const convictionEpsilon = 10e-10

// Rule is an association rule with the counts its metrics derive from.
type Rule struct {
	LHS       itemset.Itemset
	RHS       itemset.Itemset
	CountFull float64
	CountLHS  float64
	CountRHS  float64
	Total     float64
}

// Itemset returns lhs and rhs together.
func (r Rule) Itemset() itemset.Itemset {
	return r.LHS.Merge(r.RHS)
}

// Level is the size of the whole rule.
func (r Rule) Level() int {
	return r.LHS.Level() + r.RHS.Level()
}

// Confidence is P(rhs | lhs).
func (r Rule) Confidence() float64 {
	return r.CountFull / r.CountLHS
}

// Support is P(lhs and rhs).
func (r Rule) Support() float64 {
	return r.CountFull / r.Total
}

// Lift is the confidence relative to the support of rhs alone.
func (r Rule) Lift() float64 {
	return r.Confidence() / (r.CountRHS / r.Total)
}

// Conviction is P(not rhs) / P(not rhs | lhs). Rules that always hold get a
// large finite value.
func (r Rule) Conviction() float64 {
	notRHS := 1 - r.CountRHS/r.Total
	notRHSGivenLHS := 1 - r.Confidence()
	if notRHSGivenLHS == 0 {
		notRHSGivenLHS = convictionEpsilon
	}
	return notRHS / notRHSGivenLHS
}

func (r Rule) String() string {
	return fmt.Sprintf("%s -> %s (conf: %.3f, supp: %.3f, lift: %.3f, conv: %.3f)",
		r.LHS, r.RHS, r.Confidence(), r.Support(), r.Lift(), r.Conviction())
}

// Generate returns every rule of the table with confidence at least
// minConfidence. For each itemset, single-item right-hand sides are tried
// first, and larger ones are built only from right-hand sides that already
// met the threshold.
func Generate(table *itemset.Table, minConfidence float64) ([]Rule, error) {
	if !(minConfidence >= 0 && minConfidence <= 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfidence, minConfidence)
	}
	if !(table.Total() > 0) {
		return nil, nil
	}

	var rules []Rule
	for e := range table.All() {
		if e.Itemset.Level() < 2 {
			continue
		}
		var consequents []itemset.Itemset
		for _, item := range e.Itemset.Items() {
			consequents = append(consequents, itemset.Of(item))
		}
		for len(consequents) > 0 && consequents[0].Level() < e.Itemset.Level() {
			var confident []itemset.Itemset
			for _, rhs := range consequents {
				rule, ok := newRule(table, e, rhs)
				if ok && rule.Confidence() >= minConfidence {
					rules = append(rules, rule)
					confident = append(confident, rhs)
				}
			}
			consequents, _ = itemset.Generate(confident)
		}
	}

	slices.SortFunc(rules, func(a, b Rule) int {
		if c := a.Itemset().Compare(b.Itemset()); c != 0 {
			return c
		}
		if c := a.LHS.Compare(b.LHS); c != 0 {
			return c
		}
		return a.RHS.Compare(b.RHS)
	})
	return rules, nil
}

// newRule looks up the counts for full = lhs + rhs. ok is false when a part is
// missing from the table or the lhs count is zero.
func newRule(table *itemset.Table, full itemset.Entry, rhs itemset.Itemset) (Rule, bool) {
	lhs, ok := full.Itemset.Minus(rhs)
	if !ok {
		return Rule{}, false
	}
	lhsEntry, ok := table.Lookup(lhs)
	if !ok || lhsEntry.Count <= 0 {
		return Rule{}, false
	}
	rhsEntry, ok := table.Lookup(rhs)
	if !ok {
		return Rule{}, false
	}
	return Rule{
		LHS:       lhs,
		RHS:       rhs,
		CountFull: full.Count,
		CountLHS:  lhsEntry.Count,
		CountRHS:  rhsEntry.Count,
		Total:     table.Total(),
	}, true
}
