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

package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/compare"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/itemset"
)

// Side names the population an itemsets row was mined from.
type Side string

const (
	SideYes Side = "yes"
	SideNo  Side = "no"
)

// Run is the header of a stored comparison.
type Run struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	Separator string
	YesTotal  float64
	NoTotal   float64
	Digest    uint64
}

// SaveRun stores both tables and the report in one transaction and returns
// the new run id.
func (s *Store) SaveRun(name string, yes, no *itemset.Table, report *compare.Report) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO runs (name, created_at, separator, yes_total, no_total, digest)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		name,
		time.Now().UTC().Format(time.RFC3339),
		report.Separator,
		yes.Total(),
		no.Total(),
		strconv.FormatUint(report.Digest(), 16),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run %s: %w", name, err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	if err := insertItemsets(tx, runID, SideYes, yes, report.Separator); err != nil {
		return 0, err
	}
	if err := insertItemsets(tx, runID, SideNo, no, report.Separator); err != nil {
		return 0, err
	}
	if err := insertRows(tx, runID, report); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run %s: %w", name, err)
	}
	return runID, nil
}

func insertItemsets(tx *sql.Tx, runID int64, side Side, table *itemset.Table, sep string) error {
	stmt, err := tx.Prepare(`
		INSERT INTO itemsets (run_id, side, level, itemset, count, support)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare itemsets insert: %w", err)
	}
	defer stmt.Close()

	for e := range table.All() {
		if _, err := stmt.Exec(runID, string(side), e.Itemset.Level(), e.Itemset.Render(sep), e.Count, e.Support); err != nil {
			return fmt.Errorf("failed to insert %s itemset %s: %w", side, e.Itemset, err)
		}
	}
	return nil
}

func insertRows(tx *sql.Tx, runID int64, report *compare.Report) error {
	stmt, err := tx.Prepare(`
		INSERT INTO joined_rows
		(run_id, position, level, itemset, seen_in, yes_count, no_count, total, yes_percentage)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare joined rows insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range report.Rows {
		yes := sql.NullFloat64{Float64: row.YesCount, Valid: row.YesObserved()}
		no := sql.NullFloat64{Float64: row.NoCount, Valid: row.NoObserved()}
		_, err := stmt.Exec(runID, i, row.Level, row.Rendered, row.Presence.String(), yes, no, row.Total, row.YesPercentage)
		if err != nil {
			return fmt.Errorf("failed to insert joined row %s: %w", row.Rendered, err)
		}
	}
	return nil
}

// Runs returns every stored run, newest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`
		SELECT id, name, created_at, separator, yes_total, no_total, digest
		FROM runs
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun retrieves the header of one run.
func (s *Store) GetRun(runID int64) (Run, error) {
	row := s.db.QueryRow(`
		SELECT id, name, created_at, separator, yes_total, no_total, digest
		FROM runs
		WHERE id = ?
	`, runID)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return Run{}, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var run Run
	var createdAt, digest string
	err := sc.Scan(&run.ID, &run.Name, &createdAt, &run.Separator, &run.YesTotal, &run.NoTotal, &digest)
	if err != nil {
		return Run{}, err
	}
	if run.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return Run{}, fmt.Errorf("failed to parse created_at for run %d: %w", run.ID, err)
	}
	if run.Digest, err = strconv.ParseUint(digest, 16, 64); err != nil {
		return Run{}, fmt.Errorf("failed to parse digest for run %d: %w", run.ID, err)
	}
	return run, nil
}

// Itemsets reads back the table mined for one side of a run.
func (s *Store) Itemsets(runID int64, side Side) (*itemset.Table, error) {
	run, err := s.GetRun(runID)
	if err != nil {
		return nil, err
	}
	total := run.YesTotal
	if side == SideNo {
		total = run.NoTotal
	}

	rows, err := s.db.Query(`
		SELECT itemset, count, support
		FROM itemsets
		WHERE run_id = ? AND side = ?
		ORDER BY level, itemset
	`, runID, string(side))
	if err != nil {
		return nil, fmt.Errorf("failed to list itemsets of run %d: %w", runID, err)
	}
	defer rows.Close()

	table := itemset.NewTable(total)
	for rows.Next() {
		var text string
		var e itemset.Entry
		if err := rows.Scan(&text, &e.Count, &e.Support); err != nil {
			return nil, err
		}
		if e.Itemset, err = itemset.Parse(text, run.Separator); err != nil {
			return nil, fmt.Errorf("run %d itemset %q: %w", runID, text, err)
		}
		if err := table.Add(e); err != nil {
			return nil, err
		}
	}
	return table, rows.Err()
}

// Rows reads back the joined report of a run in its original order.
func (s *Store) Rows(runID int64) (*compare.Report, error) {
	run, err := s.GetRun(runID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT level, itemset, seen_in, yes_count, no_count, total, yes_percentage
		FROM joined_rows
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list joined rows of run %d: %w", runID, err)
	}
	defer rows.Close()

	report := &compare.Report{Separator: run.Separator}
	for rows.Next() {
		var row compare.Row
		var seenIn string
		var yes, no sql.NullFloat64
		if err := rows.Scan(&row.Level, &row.Rendered, &seenIn, &yes, &no, &row.Total, &row.YesPercentage); err != nil {
			return nil, err
		}
		if row.Itemset, err = itemset.Parse(row.Rendered, run.Separator); err != nil {
			return nil, fmt.Errorf("run %d row %q: %w", runID, row.Rendered, err)
		}
		if row.Presence, err = compare.ParsePresence(seenIn); err != nil {
			return nil, err
		}
		row.YesCount, row.NoCount = yes.Float64, no.Float64
		if !yes.Valid {
			row.YesCount = row.Total - no.Float64
		}
		if !no.Valid {
			row.NoCount = row.Total - yes.Float64
		}
		report.Rows = append(report.Rows, row)
	}
	return report, rows.Err()
}
