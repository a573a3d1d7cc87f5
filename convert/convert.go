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

// Package convert turns raw transactions into per-item theta sketches of
// transaction indexes, the input the miner reads.
package convert

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"runtime"
	"slices"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/itemset"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/sketchio"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/theta"
)

var (
	ErrNoTransactions   = errors.New("no transactions found")
	ErrInvalidDelimiter = errors.New("delimiter must be a single character")
)

// ReadCSV reads one transaction per record. Items are trimmed, blank items
// and blank transactions are dropped.
func ReadCSV(r io.Reader, delimiter string, skipHeader bool) ([][]string, error) {
	if utf8.RuneCountInString(delimiter) != 1 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDelimiter, delimiter)
	}
	cr := csv.NewReader(r)
	cr.Comma, _ = utf8.DecodeRuneInString(delimiter)
	cr.FieldsPerRecord = -1

	var transactions [][]string
	for first := true; ; first = false {
		record, err := cr.Read()
		if err == io.EOF {
			return transactions, nil
		}
		if err != nil {
			return nil, err
		}
		if first && skipHeader {
			continue
		}
		if t := clean(record); len(t) > 0 {
			transactions = append(transactions, t)
		}
	}
}

// ReadList reads one whitespace separated transaction per line.
func ReadList(r io.Reader, skipHeader bool) ([][]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var transactions [][]string
	for first := true; scanner.Scan(); first = false {
		if first && skipHeader {
			continue
		}
		if t := strings.Fields(scanner.Text()); len(t) > 0 {
			transactions = append(transactions, t)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

func clean(record []string) []string {
	var t []string
	for _, item := range record {
		if item = strings.TrimSpace(item); item != "" {
			t = append(t, item)
		}
	}
	return t
}

type BuildOptionFunc func(*builder)

type builder struct {
	lgK     uint8
	workers int
	logger  *zap.Logger
}

// WithLgK sets log2 of the nominal entries of every sketch
func WithLgK(lgK uint8) BuildOptionFunc {
	return func(b *builder) {
		b.lgK = lgK
	}
}

// WithWorkers bounds the number of sketches built concurrently
func WithWorkers(n int) BuildOptionFunc {
	return func(b *builder) {
		b.workers = n
	}
}

func WithLogger(logger *zap.Logger) BuildOptionFunc {
	return func(b *builder) {
		b.logger = logger
	}
}

// Build sketches, for every item, the indexes of the transactions holding
// it, plus a total sketch over all indexes.
func Build(transactions [][]string, opts ...BuildOptionFunc) (*sketchio.Sketches, error) {
	b := &builder{
		lgK:     theta.DefaultLgK,
		workers: runtime.GOMAXPROCS(0),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if len(transactions) == 0 {
		return nil, ErrNoTransactions
	}

	indexes := make(map[itemset.Item][]int64)
	for i, t := range transactions {
		for _, item := range t {
			indexes[itemset.Item(item)] = append(indexes[itemset.Item(item)], int64(i))
		}
	}
	b.logger.Info("processing transactions",
		zap.Int("transactions", len(transactions)),
		zap.Int("items", len(indexes)))

	total, err := b.sketch(func(s *theta.UpdateSketch) {
		for i := range transactions {
			s.UpdateInt64(int64(i))
		}
	})
	if err != nil {
		return nil, err
	}

	items := slices.Sorted(maps.Keys(indexes))
	sketches := make([]*theta.CompactSketch, len(items))
	var g errgroup.Group
	g.SetLimit(max(b.workers, 1))
	for i, item := range items {
		g.Go(func() error {
			sketch, err := b.sketch(func(s *theta.UpdateSketch) {
				for _, id := range indexes[item] {
					s.UpdateInt64(id)
				}
			})
			if err != nil {
				return fmt.Errorf("sketching %q: %w", item, err)
			}
			sketches[i] = sketch
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &sketchio.Sketches{
		Items:      make(map[itemset.Item]*theta.CompactSketch, len(items)),
		Total:      total,
		TotalGiven: true,
		LgK:        b.lgK,
	}
	for i, item := range items {
		out.Items[item] = sketches[i]
		if ce := b.logger.Check(zap.DebugLevel, "item sketch"); ce != nil {
			ce.Write(zap.String("item", string(item)),
				zap.Float64("count", sketches[i].Estimate()),
				zap.Float64("support", sketches[i].Estimate()/float64(len(transactions))))
		}
	}
	b.logger.Info("sketches built",
		zap.Float64("total", total.Estimate()),
		zap.Uint8("lgK", b.lgK))
	return out, nil
}

func (b *builder) sketch(fill func(*theta.UpdateSketch)) (*theta.CompactSketch, error) {
	s, err := theta.NewUpdateSketch(theta.WithUpdateSketchLgK(b.lgK))
	if err != nil {
		return nil, err
	}
	fill(s)
	return s.Compact(true), nil
}
