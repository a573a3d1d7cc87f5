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
)

const modeMiner = "miner"

var (
	configInitMode string
	configInitOut  string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a template configuration",
	Long: `Write a template configuration for the miner or one of the comparator
modes. The format follows the file extension (.json, .yaml or .toml).`,
	Example: `  apriori-sketch config init --mode miner --out miner.json
  apriori-sketch config init --mode two-target --out compare.yaml`,
	RunE: runConfigInit,
}

func init() {
	configInitCmd.Flags().StringVar(&configInitMode, "mode", modeMiner, "miner, two-file, one-target or two-target")
	configInitCmd.Flags().StringVar(&configInitOut, "out", "", "path of the configuration file to write")
	configInitCmd.MarkFlagRequired("out")

	configCmd.AddCommand(configInitCmd)
	RootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	var cfg any
	if configInitMode == modeMiner {
		cfg = config.MinerTemplate()
	} else {
		mode, err := config.ParseMode(configInitMode)
		if err != nil {
			return err
		}
		cfg = config.ComparatorTemplate(mode)
	}

	if err := config.Save(cfg, configInitOut); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Template %s configuration written to %s\n", configInitMode, configInitOut)
	return nil
}
