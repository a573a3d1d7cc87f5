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

var mineConfig string

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine frequent itemsets and association rules from a sketch file",
	Long: `Run the level-wise Apriori search over the item sketches named by the
configuration, then derive association rules. Both are written as CSV.`,
	Example: `  apriori-sketch mine --config miner.json
  apriori-sketch mine --config miner.yaml -v 2`,
	RunE: runMine,
}

func init() {
	mineCmd.Flags().StringVar(&mineConfig, "config", "", "path to the miner configuration file")
	mineCmd.MarkFlagRequired("config")

	RootCmd.AddCommand(mineCmd)
}

func runMine(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadMiner(mineConfig)
	if err != nil {
		return err
	}

	log := newLogger()
	defer log.Sync()

	res, err := pipeline.MineOne(cmd.Context(), cfg, pipeline.WithLogger(log))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	renderStats(out, "FREQUENT ITEMSETS", res.Stats)
	fmt.Fprintf(out, "%d itemsets written to %s\n", res.Table.Len(), cfg.OutputItemsetsPath)
	fmt.Fprintf(out, "%d rules written to %s\n", len(res.Rules), cfg.OutputRulesPath)
	return nil
}
