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

// Package split derives the yes and no inputs of a comparison from one or
// two collections of item summaries.
package split

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	mapset "github.com/deckarep/golang-set"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/itemset"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/summary"
)

var (
	ErrTargetNotFound = errors.New("target item not found")
	ErrSameTargets    = errors.New("target items must differ")
)

// Collection is the mining input of one population.
type Collection struct {
	Items    map[itemset.Item]summary.Summary
	Universe summary.Summary
}

// Names returns the item names in ascending order.
func (c Collection) Names() []itemset.Item {
	return slices.Sorted(maps.Keys(c.Items))
}

// Pair is the input of a yes/no comparison.
type Pair struct {
	Yes Collection
	No  Collection
}

// TwoFile pairs two independently loaded collections.
func TwoFile(yes, no Collection) Pair {
	return Pair{Yes: yes, No: no}
}

// OneTarget splits c on the presence of target. The yes side holds every item
// intersected with target; the no side holds every item minus target, with
// the union of those differences as its universe.
func OneTarget(c Collection, target itemset.Item) (Pair, error) {
	targetSummary, rest, err := takeTarget(c, target)
	if err != nil {
		return Pair{}, err
	}

	yes, err := mapItems(rest, targetSummary, summary.Summary.Intersect)
	if err != nil {
		return Pair{}, err
	}
	no, err := mapItems(rest, targetSummary, summary.Summary.Difference)
	if err != nil {
		return Pair{}, err
	}

	var noUniverse summary.Summary
	names := slices.Sorted(maps.Keys(no))
	if len(names) > 0 {
		others := make([]summary.Summary, 0, len(names)-1)
		for _, name := range names[1:] {
			others = append(others, no[name])
		}
		noUniverse, err = summary.UnionAll(no[names[0]], others...)
	} else if c.Universe != nil {
		noUniverse, err = c.Universe.Difference(targetSummary)
	} else {
		noUniverse, err = targetSummary.Difference(targetSummary)
	}
	if err != nil {
		return Pair{}, fmt.Errorf("building no universe: %w", err)
	}

	return Pair{
		Yes: Collection{Items: yes, Universe: targetSummary},
		No:  Collection{Items: no, Universe: noUniverse},
	}, nil
}

// TwoTargets splits c with one target per class: each side holds every item
// intersected with its target, and the target as universe.
func TwoTargets(c Collection, target1, target0 itemset.Item) (Pair, error) {
	if target1 == target0 {
		return Pair{}, fmt.Errorf("%w: %q", ErrSameTargets, target1)
	}
	yesTarget, rest, err := takeTarget(c, target1)
	if err != nil {
		return Pair{}, err
	}
	noTarget, rest, err := takeTarget(Collection{Items: rest, Universe: c.Universe}, target0)
	if err != nil {
		return Pair{}, err
	}

	yes, err := mapItems(rest, yesTarget, summary.Summary.Intersect)
	if err != nil {
		return Pair{}, err
	}
	no, err := mapItems(rest, noTarget, summary.Summary.Intersect)
	if err != nil {
		return Pair{}, err
	}
	return Pair{
		Yes: Collection{Items: yes, Universe: yesTarget},
		No:  Collection{Items: no, Universe: noTarget},
	}, nil
}

// Exclude returns c without the named items. Unknown names are ignored.
func Exclude(c Collection, items ...itemset.Item) Collection {
	excluded := mapset.NewSet()
	for _, item := range items {
		excluded.Add(item)
	}
	kept := make(map[itemset.Item]summary.Summary, len(c.Items))
	for item, s := range c.Items {
		if !excluded.Contains(item) {
			kept[item] = s
		}
	}
	return Collection{Items: kept, Universe: c.Universe}
}

// Filter restricts c to the population holding filter: every other item is
// intersected with it, and it becomes the universe.
func Filter(c Collection, filter itemset.Item) (Collection, error) {
	filterSummary, rest, err := takeTarget(c, filter)
	if err != nil {
		return Collection{}, err
	}
	items, err := mapItems(rest, filterSummary, summary.Summary.Intersect)
	if err != nil {
		return Collection{}, err
	}
	return Collection{Items: items, Universe: filterSummary}, nil
}

// takeTarget returns the summary of target and the remaining items.
func takeTarget(c Collection, target itemset.Item) (summary.Summary, map[itemset.Item]summary.Summary, error) {
	s, ok := c.Items[target]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q among %d items", ErrTargetNotFound, target, len(c.Items))
	}
	rest := maps.Clone(c.Items)
	delete(rest, target)
	return s, rest, nil
}

func mapItems(items map[itemset.Item]summary.Summary, with summary.Summary, op func(summary.Summary, summary.Summary) (summary.Summary, error)) (map[itemset.Item]summary.Summary, error) {
	out := make(map[itemset.Item]summary.Summary, len(items))
	for item, s := range items {
		derived, err := op(s, with)
		if err != nil {
			return nil, fmt.Errorf("deriving %q: %w", item, err)
		}
		out[item] = derived
	}
	return out, nil
}
