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

package commands

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tombee/conductor-air/internal/integration/air"
	"github.com/tombee/conductor-air/internal/operation/api"
)

func newOperationsCommand() *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "operations [operation]",
		Short: "List available operations or show one operation's parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Operation metadata is static, no console connection needed.
			conn, err := air.NewAIRIntegration(&api.ProviderConfig{BaseURL: "https://air.invalid"})
			if err != nil {
				return err
			}

			if len(args) == 1 {
				return showOperation(cmd, conn, args[0])
			}
			return listOperations(cmd, conn, category)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only show operations in this category")

	return cmd
}

func listOperations(cmd *cobra.Command, conn *air.AIRIntegration, category string) error {
	ops := conn.Operations()
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Category != ops[j].Category {
			return ops[i].Category < ops[j].Category
		}
		return ops[i].Name < ops[j].Name
	})

	if category != "" {
		filtered := ops[:0]
		for _, op := range ops {
			if op.Category == category {
				filtered = append(filtered, op)
			}
		}
		ops = filtered
		if len(ops) == 0 {
			return fmt.Errorf("no operations in category %q", category)
		}
	}

	if rootFlags.jsonOutput {
		return printJSON(cmd, ops)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "OPERATION\tCATEGORY\tTAGS\tDESCRIPTION")
	for _, op := range ops {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", op.Name, op.Category, strings.Join(op.Tags, ","), op.Description)
	}
	return w.Flush()
}

func showOperation(cmd *cobra.Command, conn *air.AIRIntegration, name string) error {
	schema := conn.OperationSchema(name)
	if schema == nil {
		return fmt.Errorf("unknown operation: %s", name)
	}

	if rootFlags.jsonOutput {
		return printJSON(cmd, schema)
	}

	cmd.Printf("%s: %s\n\n", name, schema.Description)

	if len(schema.Parameters) > 0 {
		cmd.Println("Parameters:")
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, p := range schema.Parameters {
			required := ""
			if p.Required {
				required = "(required)"
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", p.Name, p.Type, required, p.Description)
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}

	if len(schema.ResponseFields) > 0 {
		cmd.Println("\nResponse:")
		for _, f := range schema.ResponseFields {
			cmd.Printf("  %s (%s): %s\n", f.Name, f.Type, f.Description)
		}
	}
	return nil
}
