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

package app

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/compare"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/miner"
)

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

func numberColumns(names ...string) []table.ColumnConfig {
	configs := make([]table.ColumnConfig, len(names))
	for i, name := range names {
		configs[i] = table.ColumnConfig{Name: name, Align: text.AlignRight, AlignHeader: text.AlignCenter}
	}
	return configs
}

// renderStats prints one row per mined level.
func renderStats(w io.Writer, title string, stats []miner.LevelStats) {
	t := newTable(w, title)
	t.AppendHeader(table.Row{"Level", "Candidates", "Pruned", "Frequent", "Reported"})
	t.SetColumnConfigs(numberColumns("Level", "Candidates", "Pruned", "Frequent", "Reported"))
	for _, s := range stats {
		t.AppendRow(table.Row{s.Level, s.Candidates, s.Pruned, s.Frequent, s.Reported})
	}
	t.Render()
}

// renderReport prints the first top rows of every level. Estimated counts
// are marked with a tilde.
func renderReport(w io.Writer, report *compare.Report, top int) {
	t := newTable(w, "JOINED ITEMSETS")
	t.AppendHeader(table.Row{"Level", "Itemset", "Seen In", "Yes", "No", "Total", "Yes %"})
	t.SetColumnConfigs(numberColumns("Level", "Yes", "No", "Total", "Yes %"))
	for _, level := range report.Levels() {
		rows := report.Level(level)
		for i, row := range rows {
			if top > 0 && i >= top {
				t.AppendRow(table.Row{"", fmt.Sprintf("... %d more", len(rows)-top)})
				break
			}
			t.AppendRow(table.Row{
				row.Level,
				row.Rendered,
				row.Presence,
				count(row.YesCount, row.YesObserved()),
				count(row.NoCount, row.NoObserved()),
				fmt.Sprintf("%.0f", row.Total),
				fmt.Sprintf("%.3f", row.YesPercentage),
			})
		}
		t.AppendSeparator()
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d rows", len(report.Rows)), "",
		fmt.Sprintf("both %d", report.Count(compare.Both)),
		fmt.Sprintf("yes %d", report.Count(compare.YesOnly)),
		fmt.Sprintf("no %d", report.Count(compare.NoOnly)), ""})
	t.Render()
}

func count(v float64, observed bool) string {
	if observed {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("~%.0f", v)
}
