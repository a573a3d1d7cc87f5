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

// Package itemset holds the value types shared by the miner and the
// comparator: items, canonical itemsets and the level-indexed count table.
package itemset

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Item is an opaque categorical value such as "dimension=value".
type Item string

var (
	ErrEmptyItemset     = errors.New("itemset must contain at least one item")
	ErrDuplicateItem    = errors.New("itemset contains a duplicate item")
	ErrEmptySeparator   = errors.New("item separator must not be empty")
	ErrLevelMismatch    = errors.New("itemset level does not match")
	ErrNegativeCount    = errors.New("count must not be negative")
	ErrNonPositiveTotal = errors.New("total must be positive")
)

// keySeparator cannot appear in CSV-loaded item names.
const keySeparator = "\x00"

// Itemset is a non-empty set of distinct items held in ascending order.
// The zero value is not a valid itemset.
type Itemset struct {
	items []Item
}

// New returns the canonical itemset of items, in any order.
func New(items ...Item) (Itemset, error) {
	if len(items) == 0 {
		return Itemset{}, ErrEmptyItemset
	}
	sorted := slices.Clone(items)
	slices.Sort(sorted)
	for i := 1; i < len(sorted); i++ {
		if sorted[i] == sorted[i-1] {
			return Itemset{}, fmt.Errorf("%w: %q", ErrDuplicateItem, sorted[i])
		}
	}
	return Itemset{items: sorted}, nil
}

// Of is New for literal itemsets known to be valid. It panics otherwise.
func Of(items ...Item) Itemset {
	s, err := New(items...)
	if err != nil {
		panic(err)
	}
	return s
}

// Parse splits text on sep and trims every item.
func Parse(text, sep string) (Itemset, error) {
	if sep == "" {
		return Itemset{}, ErrEmptySeparator
	}
	var items []Item
	for _, part := range strings.Split(text, sep) {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, Item(part))
		}
	}
	return New(items...)
}

// Level returns the number of items.
func (s Itemset) Level() int {
	return len(s.items)
}

// Items returns a copy of the items in ascending order.
func (s Itemset) Items() []Item {
	return slices.Clone(s.items)
}

// Contains reports whether item is a member.
func (s Itemset) Contains(item Item) bool {
	_, found := slices.BinarySearch(s.items, item)
	return found
}

// Key identifies the itemset within a level.
func (s Itemset) Key() string {
	return s.Render(keySeparator)
}

// Render joins the items with sep.
func (s Itemset) Render(sep string) string {
	var b strings.Builder
	for i, item := range s.items {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(string(item))
	}
	return b.String()
}

func (s Itemset) String() string {
	return "{" + s.Render(", ") + "}"
}

// Equal reports whether both itemsets hold the same items.
func (s Itemset) Equal(o Itemset) bool {
	return slices.Equal(s.items, o.items)
}

// Compare orders itemsets by size, then item by item.
func (s Itemset) Compare(o Itemset) int {
	if c := len(s.items) - len(o.items); c != 0 {
		return c
	}
	return slices.Compare(s.items, o.items)
}

// Without returns the itemset minus the item at index i. The result of
// removing the only item is the zero Itemset.
func (s Itemset) Without(i int) Itemset {
	if len(s.items) == 1 {
		return Itemset{}
	}
	items := make([]Item, 0, len(s.items)-1)
	items = append(items, s.items[:i]...)
	items = append(items, s.items[i+1:]...)
	return Itemset{items: items}
}

// Subsets returns the immediate subsets: every itemset with one item removed.
func (s Itemset) Subsets() []Itemset {
	if len(s.items) < 2 {
		return nil
	}
	subsets := make([]Itemset, len(s.items))
	for i := range s.items {
		subsets[i] = s.Without(i)
	}
	return subsets
}

// Minus returns the items of s not in o. ok is false if nothing remains.
func (s Itemset) Minus(o Itemset) (Itemset, bool) {
	var items []Item
	for _, item := range s.items {
		if !o.Contains(item) {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return Itemset{}, false
	}
	return Itemset{items: items}, true
}

// Merge returns the union of both itemsets.
func (s Itemset) Merge(o Itemset) Itemset {
	items := make([]Item, 0, len(s.items)+len(o.items))
	items = append(items, s.items...)
	for _, item := range o.items {
		if !s.Contains(item) {
			items = append(items, item)
		}
	}
	slices.Sort(items)
	return Itemset{items: items}
}
