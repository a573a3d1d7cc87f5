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

import "slices"

// Generate builds the level k+1 candidates from the frequent itemsets of
// level k. Two itemsets sharing their first k-1 items are joined into one
// candidate, which is kept only if every one of its k-item subsets is itself
// frequent. pruned counts the joined candidates that failed that check.
func Generate(frequent []Itemset) (candidates []Itemset, pruned int) {
	if len(frequent) == 0 {
		return nil, 0
	}
	sorted := slices.Clone(frequent)
	slices.SortFunc(sorted, Itemset.Compare)

	index := make(map[string]struct{}, len(sorted))
	for _, s := range sorted {
		index[s.Key()] = struct{}{}
	}

	k := sorted[0].Level()
	for i := 0; i < len(sorted); i++ {
		prefix := sorted[i].items[:k-1]
		for j := i + 1; j < len(sorted); j++ {
			if !slices.Equal(prefix, sorted[j].items[:k-1]) {
				break
			}
			items := make([]Item, 0, k+1)
			items = append(items, sorted[i].items...)
			items = append(items, sorted[j].items[k-1])
			candidate := Itemset{items: items}

			if allSubsetsIn(candidate, index) {
				candidates = append(candidates, candidate)
			} else {
				pruned++
			}
		}
	}
	return candidates, pruned
}

// allSubsetsIn checks the subsets not already known to be frequent: dropping
// either of the last two items gives back one of the joined parents.
func allSubsetsIn(candidate Itemset, index map[string]struct{}) bool {
	for i := 0; i < candidate.Level()-2; i++ {
		if _, ok := index[candidate.Without(i).Key()]; !ok {
			return false
		}
	}
	return true
}
