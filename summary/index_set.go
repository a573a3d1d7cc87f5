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

package summary

import "github.com/yourbasic/bit"

// IndexSet is an exact Summary over non-negative transaction indexes.
type IndexSet struct {
	set *bit.Set
}

// NewIndexSet returns the set holding the given indexes.
func NewIndexSet(indexes ...int) *IndexSet {
	return &IndexSet{set: bit.New(indexes...)}
}

// Contains reports whether index is in the set.
func (s *IndexSet) Contains(index int) bool {
	return s.set.Contains(index)
}

func (s *IndexSet) String() string {
	return s.set.String()
}

func (s *IndexSet) Estimate() float64 {
	return float64(s.set.Size())
}

func (s *IndexSet) Union(other Summary) (Summary, error) {
	o, ok := other.(*IndexSet)
	if !ok {
		return nil, incompatible(s, other)
	}
	return &IndexSet{set: s.set.Or(o.set)}, nil
}

func (s *IndexSet) Intersect(other Summary) (Summary, error) {
	o, ok := other.(*IndexSet)
	if !ok {
		return nil, incompatible(s, other)
	}
	return &IndexSet{set: s.set.And(o.set)}, nil
}

func (s *IndexSet) Difference(other Summary) (Summary, error) {
	o, ok := other.(*IndexSet)
	if !ok {
		return nil, incompatible(s, other)
	}
	return &IndexSet{set: s.set.AndNot(o.set)}, nil
}
