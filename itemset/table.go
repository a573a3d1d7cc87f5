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

package itemset

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Entry is one row of a Table.
type Entry struct {
	Itemset Itemset
	Count   float64
	Support float64
}

type tableKey struct {
	level int
	key   string
}

// Table maps (level, itemset) to an estimated count and support. Tables are
// filled by a single producer and treated as read-only once handed out.
type Table struct {
	total   float64
	entries map[tableKey]Entry
	levels  map[int][]tableKey
}

// NewTable returns an empty table for a population of total.
func NewTable(total float64) *Table {
	return &Table{
		total:   total,
		entries: make(map[tableKey]Entry),
		levels:  make(map[int][]tableKey),
	}
}

// Total returns the population size supports are relative to.
func (t *Table) Total() float64 {
	return t.total
}

// Add records e, replacing an earlier entry for the same itemset.
func (t *Table) Add(e Entry) error {
	if e.Itemset.Level() == 0 {
		return ErrEmptyItemset
	}
	if e.Count < 0 {
		return fmt.Errorf("%w: %s has %f", ErrNegativeCount, e.Itemset, e.Count)
	}
	k := tableKey{level: e.Itemset.Level(), key: e.Itemset.Key()}
	if _, ok := t.entries[k]; !ok {
		t.levels[k.level] = append(t.levels[k.level], k)
	}
	t.entries[k] = e
	return nil
}

// Lookup returns the entry for s, if present.
func (t *Table) Lookup(s Itemset) (Entry, bool) {
	e, ok := t.entries[tableKey{level: s.Level(), key: s.Key()}]
	return e, ok
}

// Contains reports whether s has an entry.
func (t *Table) Contains(s Itemset) bool {
	_, ok := t.Lookup(s)
	return ok
}

// Len returns the number of entries across all levels.
func (t *Table) Len() int {
	return len(t.entries)
}

// Levels returns the populated levels in ascending order.
func (t *Table) Levels() []int {
	return slices.Sorted(maps.Keys(t.levels))
}

// MaxLevel returns the highest populated level, or 0 for an empty table.
func (t *Table) MaxLevel() int {
	levels := t.Levels()
	if len(levels) == 0 {
		return 0
	}
	return levels[len(levels)-1]
}

// Level returns the entries of level k in itemset order.
func (t *Table) Level(k int) []Entry {
	keys := t.levels[k]
	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, t.entries[key])
	}
	slices.SortFunc(entries, func(a, b Entry) int {
		return a.Itemset.Compare(b.Itemset)
	})
	return entries
}

// All yields every entry, levels ascending and itemsets in order within a level.
func (t *Table) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, level := range t.Levels() {
			for _, e := range t.Level(level) {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// Equal reports whether both tables hold the same total and entries.
func (t *Table) Equal(o *Table) bool {
	if t.total != o.total || len(t.entries) != len(o.entries) {
		return false
	}
	for k, e := range t.entries {
		other, ok := o.entries[k]
		if !ok || other.Count != e.Count || other.Support != e.Support {
			return false
		}
	}
	return true
}
