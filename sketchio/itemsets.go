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

package sketchio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/itemset"
)

var itemsetColumns = []string{"level", "frequent_itemset", "count", "support"}

// WriteItemsets writes table level by level, itemsets in canonical order.
func WriteItemsets(w io.Writer, table *itemset.Table, sep string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(itemsetColumns); err != nil {
		return err
	}
	for _, level := range table.Levels() {
		for _, e := range table.Level(level) {
			err := cw.Write([]string{
				strconv.Itoa(level),
				e.Itemset.Render(sep),
				strconv.FormatFloat(e.Count, 'f', 1, 64),
				strconv.FormatFloat(e.Support, 'f', 6, 64),
			})
			if err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadItemsets parses an itemsets file back into a table. The table total is
// recovered as count/support of the first row with a positive support.
func ReadItemsets(r io.Reader, sep string) (*itemset.Table, error) {
	cr := newReader(r)
	columns, err := header(cr, itemsetColumns...)
	if err != nil {
		return nil, err
	}

	var entries []itemset.Entry
	total := 0.0
	err = records(cr, columns, func(rec record) error {
		level, err := rec.integer("level")
		if err != nil {
			return err
		}
		s, err := itemset.Parse(rec.text("frequent_itemset"), sep)
		if err != nil {
			return fmt.Errorf("row %d: %w", rec.row, err)
		}
		if s.Level() != level {
			return fmt.Errorf("row %d: %w: %s is not level %d", rec.row, itemset.ErrLevelMismatch, s, level)
		}
		count, err := rec.number("count")
		if err != nil {
			return err
		}
		support, err := rec.number("support")
		if err != nil {
			return err
		}
		if total == 0 && support > 0 {
			total = count / support
		}
		entries = append(entries, itemset.Entry{Itemset: s, Count: count, Support: support})
		return nil
	})
	if err != nil {
		return nil, err
	}

	table := itemset.NewTable(total)
	for _, e := range entries {
		if err := table.Add(e); err != nil {
			return nil, err
		}
	}
	return table, nil
}
