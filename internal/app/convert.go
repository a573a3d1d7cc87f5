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
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/convert"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/sketchio"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/theta"
)

var (
	convertInput      string
	convertOutput     string
	convertFormat     string
	convertDelimiter  string
	convertSkipHeader bool
	convertLgK        int
	convertCompressed bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert transactions to per-item theta sketches",
	Long: `Read one transaction per row and write, for every item, a base64 theta
sketch of the ids of the transactions holding it. The first output row is
the "total" sketch of all transaction ids.

Input formats:
  csv   items separated by --delimiter
  list  items separated by whitespace`,
	Example: `  apriori-sketch convert --input transactions.csv --output sketches.csv
  apriori-sketch convert --input data.csv --output sketches.csv --delimiter ';' --skip-header
  apriori-sketch convert --input data.txt --output sketches.csv --format list --sketch-lg-k 14`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertInput, "input", "", "path to the input transaction file")
	convertCmd.Flags().StringVar(&convertOutput, "output", "", "path to the output sketches CSV file")
	convertCmd.Flags().StringVar(&convertFormat, "format", "csv", "input file format (csv or list)")
	convertCmd.Flags().StringVar(&convertDelimiter, "delimiter", ",", "delimiter for csv format")
	convertCmd.Flags().BoolVar(&convertSkipHeader, "skip-header", false, "skip the first row of the input file")
	convertCmd.Flags().IntVar(&convertLgK, "sketch-lg-k", int(theta.DefaultLgK), "log2 of the sketch size (4-26)")
	convertCmd.Flags().BoolVar(&convertCompressed, "compressed", false, "write compressed (serial version 4) sketches")
	convertCmd.MarkFlagRequired("input")
	convertCmd.MarkFlagRequired("output")

	RootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	if convertLgK < int(theta.MinLgK) || convertLgK > int(theta.MaxLgK) {
		return fmt.Errorf("sketch-lg-k must be between %d and %d, got %d", theta.MinLgK, theta.MaxLgK, convertLgK)
	}

	f, err := os.Open(convertInput)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	var transactions [][]string
	switch convertFormat {
	case "csv":
		transactions, err = convert.ReadCSV(f, convertDelimiter, convertSkipHeader)
	case "list":
		transactions, err = convert.ReadList(f, convertSkipHeader)
	default:
		return fmt.Errorf("invalid format %q (must be csv or list)", convertFormat)
	}
	if err != nil {
		return fmt.Errorf("error reading input file: %w", err)
	}

	log := newLogger()
	defer log.Sync()

	sketches, err := convert.Build(transactions, convert.WithLgK(uint8(convertLgK)), convert.WithLogger(log))
	if err != nil {
		return err
	}
	if err := sketchio.WriteFile(convertOutput, func(w io.Writer) error {
		return sketchio.WriteSketches(w, sketches.Items, sketches.Total, convertCompressed)
	}); err != nil {
		return err
	}

	log.Info("sketches written", zap.String("path", convertOutput))
	fmt.Fprintf(cmd.OutOrStdout(), "Converted %d transactions with %d items to %s\n",
		len(transactions), len(sketches.Items), convertOutput)
	return nil
}
