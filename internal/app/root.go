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

// Package app implements the apriori-sketch command line.
package app

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vijaysrajan/Efficient-Apriori-sketch/internal/logger"
)

var (
	verbosity int

	// RootCmd is the root command for apriori-sketch
	RootCmd = &cobra.Command{
		Use:   "apriori-sketch",
		Short: "Frequent itemset mining and yes/no comparison over theta sketches",
		Long: `apriori-sketch mines frequent itemsets and association rules from
per-item theta sketches of transaction ids, and compares the itemsets of two
populations (a "yes" and a "no" case) side by side.

Workflow:
  1. apriori-sketch convert --input transactions.csv --output sketches.csv
  2. apriori-sketch config init --mode miner --out miner.json
  3. apriori-sketch mine --config miner.json

  or, for a comparison:
  2. apriori-sketch config init --mode one-target --out compare.json
  3. apriori-sketch compare --config compare.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	RootCmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", 1, "verbosity level (0=quiet, 1=normal, 2=verbose)")
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command. An interrupt cancels the running job.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return RootCmd.ExecuteContext(ctx)
}

func newLogger() *zap.Logger {
	return logger.New(verbosity)
}
