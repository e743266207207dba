// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package commands assembles the conductor-air CLI.
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

// Build metadata, injected by main via NewRootCommand.
var buildInfo struct {
	version   string
	commit    string
	buildDate string
}

var rootFlags struct {
	configPath string
	jsonOutput bool
	logLevel   string
}

// NewRootCommand creates the conductor-air root command.
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	buildInfo.version = version
	buildInfo.commit = commit
	buildInfo.buildDate = buildDate

	root := &cobra.Command{
		Use:   "conductor-air",
		Short: "Binalyze AIR console connector",
		Long: `conductor-air executes operations against a Binalyze AIR console:
assets, tasks, organizations, triage rules, cases, evidence, and
InterACT sessions.

Configure the instance URL and API token with "conductor-air configure",
then run operations with "conductor-air call".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if rootFlags.logLevel != "" {
				os.Setenv("AIR_LOG_LEVEL", rootFlags.logLevel)
			}
		},
	}

	root.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "path to config file (default ~/.conductor-air/config.yaml)")
	root.PersistentFlags().BoolVar(&rootFlags.jsonOutput, "json", false, "write machine-readable JSON output")
	root.PersistentFlags().StringVar(&rootFlags.logLevel, "log-level", "", "minimum log level (trace, debug, info, warn, error)")

	root.AddCommand(newCallCommand())
	root.AddCommand(newOperationsCommand())
	root.AddCommand(newConfigureCommand())
	root.AddCommand(newVersionCommand())

	return root
}
