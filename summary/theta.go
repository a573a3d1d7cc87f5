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

import (
	"github.com/vijaysrajan/Efficient-Apriori-sketch/theta"
)

// Theta is a Summary backed by a compact theta sketch.
type Theta struct {
	sketch *theta.CompactSketch
	lgK    uint8
	seed   uint64
}

type ThetaOptionFunc func(*Theta)

// WithLgK sets log2 of the nominal entries used when merging with Union
func WithLgK(lgK uint8) ThetaOptionFunc {
	return func(t *Theta) {
		t.lgK = lgK
	}
}

// WithSeed sets the hash seed the sketch was built with
func WithSeed(seed uint64) ThetaOptionFunc {
	return func(t *Theta) {
		t.seed = seed
	}
}

// NewTheta wraps sketch. The sketch must not be modified afterwards.
func NewTheta(sketch *theta.CompactSketch, opts ...ThetaOptionFunc) *Theta {
	t := &Theta{
		sketch: sketch,
		lgK:    theta.DefaultLgK,
		seed:   theta.DefaultSeed,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Sketch returns the wrapped sketch.
func (t *Theta) Sketch() *theta.CompactSketch {
	return t.sketch
}

func (t *Theta) Estimate() float64 {
	return t.sketch.Estimate()
}

func (t *Theta) Union(other Summary) (Summary, error) {
	o, ok := other.(*Theta)
	if !ok {
		return nil, incompatible(t, other)
	}
	lgK := max(t.lgK, o.lgK)
	u, err := theta.NewUnion(theta.WithUnionLgK(lgK), theta.WithUnionSeed(t.seed))
	if err != nil {
		return nil, err
	}
	if err := u.Update(t.sketch); err != nil {
		return nil, err
	}
	if err := u.Update(o.sketch); err != nil {
		return nil, err
	}
	return t.derive(u.Result(true), lgK), nil
}

func (t *Theta) Intersect(other Summary) (Summary, error) {
	o, ok := other.(*Theta)
	if !ok {
		return nil, incompatible(t, other)
	}
	i, err := theta.NewIntersection(t.seed)
	if err != nil {
		return nil, err
	}
	if err := i.Update(t.sketch); err != nil {
		return nil, err
	}
	if err := i.Update(o.sketch); err != nil {
		return nil, err
	}
	result, err := i.Result(true)
	if err != nil {
		return nil, err
	}
	return t.derive(result, max(t.lgK, o.lgK)), nil
}

func (t *Theta) Difference(other Summary) (Summary, error) {
	o, ok := other.(*Theta)
	if !ok {
		return nil, incompatible(t, other)
	}
	result, err := theta.ANotB(t.sketch, o.sketch, t.seed, true)
	if err != nil {
		return nil, err
	}
	return t.derive(result, t.lgK), nil
}

func (t *Theta) derive(sketch *theta.CompactSketch, lgK uint8) *Theta {
	return &Theta{sketch: sketch, lgK: lgK, seed: t.seed}
}
