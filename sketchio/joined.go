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

	"github.com/vijaysrajan/Efficient-Apriori-sketch/compare"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/itemset"
)

var joinedColumns = []string{
	"Level",
	"Frequent_itemset",
	"Frequent_item_set_seen_in",
	"Yes_case_count",
	"No_case_count",
	"Total",
	"Yes_percentage",
}

// WriteJoined writes the report rows in order. A count that was estimated
// from the other side's threshold is left blank.
func WriteJoined(w io.Writer, report *compare.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(joinedColumns); err != nil {
		return err
	}
	for _, row := range report.Rows {
		yes, no := "", ""
		if row.YesObserved() {
			yes = formatCount(row.YesCount)
		}
		if row.NoObserved() {
			no = formatCount(row.NoCount)
		}
		err := cw.Write([]string{
			strconv.Itoa(row.Level),
			row.Rendered,
			row.Presence.String(),
			yes,
			no,
			formatCount(row.Total),
			strconv.FormatFloat(row.YesPercentage, 'f', 3, 64),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadJoined parses a joined report. A blank count is recovered as the
// total minus the other side.
func ReadJoined(r io.Reader, sep string) (*compare.Report, error) {
	cr := newReader(r)
	columns, err := header(cr, joinedColumns...)
	if err != nil {
		return nil, err
	}

	report := &compare.Report{Separator: sep}
	err = records(cr, columns, func(rec record) error {
		level, err := rec.integer("Level")
		if err != nil {
			return err
		}
		rendered := rec.text("Frequent_itemset")
		s, err := itemset.Parse(rendered, sep)
		if err != nil {
			return fmt.Errorf("row %d: %w", rec.row, err)
		}
		if s.Level() != level {
			return fmt.Errorf("row %d: %w: %s is not level %d", rec.row, itemset.ErrLevelMismatch, s, level)
		}
		presence, err := compare.ParsePresence(rec.text("Frequent_item_set_seen_in"))
		if err != nil {
			return fmt.Errorf("row %d: %w", rec.row, err)
		}
		total, err := rec.number("Total")
		if err != nil {
			return err
		}
		yes, yesOK, err := rec.optionalNumber("Yes_case_count")
		if err != nil {
			return err
		}
		no, noOK, err := rec.optionalNumber("No_case_count")
		if err != nil {
			return err
		}
		switch {
		case !yesOK && !noOK:
			return fmt.Errorf("row %d: both counts are blank", rec.row)
		case !yesOK:
			yes = total - no
		case !noOK:
			no = total - yes
		}
		pct, err := rec.number("Yes_percentage")
		if err != nil {
			return err
		}

		report.Rows = append(report.Rows, compare.Row{
			Level:         level,
			Itemset:       s,
			Rendered:      rendered,
			Presence:      presence,
			YesCount:      yes,
			NoCount:       no,
			Total:         total,
			YesPercentage: pct,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

func formatCount(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}
