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

	"github.com/spf13/cobra"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/config"
	"github.com/vijaysrajan/Efficient-Apriori-sketch/pipeline"
)

var (
	compareConfig string
	compareTop    int
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the frequent itemsets of a yes and a no population",
	Long: `Mine the yes and no populations concurrently and full outer join their
frequent itemsets. The mode follows from the configuration:

  two-file    input_csv_path_for_yes_case and input_csv_path_for_no_case
  one-target  input_csv_path and target_item_1
  two-target  input_csv_path, target_item_1 and target_item_0

An itemset frequent on one side only gets the other side's count estimated
as its min_support times its total.`,
	Example: `  apriori-sketch compare --config compare.json
  apriori-sketch compare --config compare.json --top 20`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareConfig, "config", "", "path to the comparator configuration file")
	compareCmd.Flags().IntVar(&compareTop, "top", 10, "rows shown per level (0 shows all)")
	compareCmd.MarkFlagRequired("config")

	RootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	if compareTop < 0 {
		return fmt.Errorf("invalid top: %d (must not be negative)", compareTop)
	}
	cfg, err := config.LoadComparator(compareConfig)
	if err != nil {
		return err
	}

	log := newLogger()
	defer log.Sync()

	res, err := pipeline.Compare(cmd.Context(), cfg, pipeline.WithLogger(log))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	renderStats(out, "YES CASE", res.Yes.Stats)
	renderStats(out, "NO CASE", res.No.Stats)
	renderReport(out, res.Report, compareTop)
	fmt.Fprintf(out, "Mode: %s\n", cfg.Mode())
	fmt.Fprintf(out, "Joined itemsets written to %s\n", cfg.JoinedPath())
	if res.RunID != 0 {
		fmt.Fprintf(out, "Run %d stored in %s\n", res.RunID, cfg.OutputSQLitePath)
	}
	fmt.Fprintf(out, "Digest: %016x\n", res.Report.Digest())
	return nil
}
