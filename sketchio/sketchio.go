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

// Package sketchio reads and writes the CSV interchange files: base64 theta
// sketches per item, mined itemsets, association rules and joined reports.
package sketchio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// WriteFile creates path, and its parent directories, and hands a buffered
// writer to write.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return bw.Flush()
}

// ReadFile opens path and hands it to read.
func ReadFile[T any](path string, read func(io.Reader) (T, error)) (T, error) {
	f, err := os.Open(path)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	v, err := read(bufio.NewReader(f))
	if err != nil {
		return v, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	return cr
}

// header reads the first record and maps column names to positions.
func header(cr *csv.Reader, required ...string) (map[string]int, error) {
	record, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header")
	}
	if err != nil {
		return nil, err
	}
	columns := make(map[string]int, len(record))
	for i, name := range record {
		columns[name] = i
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return columns, nil
}

// record is one data row addressed by column name.
type record struct {
	row     int
	fields  []string
	columns map[string]int
}

func (r record) text(name string) string {
	i := r.columns[name]
	if i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

func (r record) integer(name string) (int, error) {
	v, err := strconv.Atoi(r.text(name))
	if err != nil {
		return 0, fmt.Errorf("row %d: column %s: %w", r.row, name, err)
	}
	return v, nil
}

func (r record) number(name string) (float64, error) {
	v, err := strconv.ParseFloat(r.text(name), 64)
	if err != nil {
		return 0, fmt.Errorf("row %d: column %s: %w", r.row, name, err)
	}
	return v, nil
}

// optionalNumber parses a column that may be blank.
func (r record) optionalNumber(name string) (float64, bool, error) {
	if r.text(name) == "" {
		return 0, false, nil
	}
	v, err := r.number(name)
	return v, err == nil, err
}

// records iterates the data rows after the header. Row numbers are 1-based
// and count the header.
func records(cr *csv.Reader, columns map[string]int, fn func(record) error) error {
	for row := 2; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(fields) != len(columns) {
			return fmt.Errorf("row %d: expected %d columns, got %d", row, len(columns), len(fields))
		}
		if err := fn(record{row: row, fields: fields, columns: columns}); err != nil {
			return err
		}
	}
}
