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
	"strings"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/itemset"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/rules"
)

// RuleArrow separates the two sides of a rendered rule.
const RuleArrow = " -> "

var ruleColumns = []string{"level", "frequent_itemset", "count", "support", "confidence", "lift", "conviction"}

// WriteRules writes one row per rule, rendered as "lhs -> rhs".
func WriteRules(w io.Writer, rs []rules.Rule, sep string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ruleColumns); err != nil {
		return err
	}
	for _, r := range rs {
		err := cw.Write([]string{
			strconv.Itoa(r.Level()),
			r.LHS.Render(sep) + RuleArrow + r.RHS.Render(sep),
			strconv.FormatFloat(r.CountFull, 'f', 1, 64),
			formatMetric(r.Support()),
			formatMetric(r.Confidence()),
			formatMetric(r.Lift()),
			formatMetric(r.Conviction()),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRules parses a rules file. The side counts are recovered from the
// written metrics, so they carry the precision of the file.
func ReadRules(r io.Reader, sep string) ([]rules.Rule, error) {
	cr := newReader(r)
	columns, err := header(cr, ruleColumns...)
	if err != nil {
		return nil, err
	}

	var rs []rules.Rule
	err = records(cr, columns, func(rec record) error {
		lhsText, rhsText, ok := strings.Cut(rec.text("frequent_itemset"), RuleArrow)
		if !ok {
			return fmt.Errorf("row %d: rule %q has no %q", rec.row, rec.text("frequent_itemset"), strings.TrimSpace(RuleArrow))
		}
		lhs, err := itemset.Parse(lhsText, sep)
		if err != nil {
			return fmt.Errorf("row %d: %w", rec.row, err)
		}
		rhs, err := itemset.Parse(rhsText, sep)
		if err != nil {
			return fmt.Errorf("row %d: %w", rec.row, err)
		}

		var metrics [4]float64
		for i, name := range ruleColumns[2:6] {
			if metrics[i], err = rec.number(name); err != nil {
				return err
			}
		}
		count, support, confidence, lift := metrics[0], metrics[1], metrics[2], metrics[3]
		if support <= 0 || confidence <= 0 || lift <= 0 {
			return fmt.Errorf("row %d: non-positive rule metric", rec.row)
		}

		total := count / support
		rs = append(rs, rules.Rule{
			LHS:       lhs,
			RHS:       rhs,
			CountFull: count,
			CountLHS:  count / confidence,
			CountRHS:  total * confidence / lift,
			Total:     total,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rs, nil
}

func formatMetric(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
