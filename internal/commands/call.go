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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/conductor-air/internal/jq"
	"github.com/tombee/conductor-air/internal/operation"
)

type callFlags struct {
	inputs     []string
	jsonInput  string
	query      string
	paginate   bool
	pageSize   int
	maxResults int
	itemsFile  string
	onError    string
	verbose    bool
}

func newCallCommand() *cobra.Command {
	flags := &callFlags{}

	cmd := &cobra.Command{
		Use:   "call <operation>",
		Short: "Execute one operation against the AIR console",
		Long: `Execute a named operation. Inputs are given as repeated --input
key=value pairs (values that parse as JSON are decoded, everything else
stays a string), or as one JSON object via --json-input.

Batch mode reads a JSON array of input objects from --items and runs the
operation once per item; --on-error decides whether a failing item stops
the batch (fail) or is collected and reported at the end (continue).`,
		Example: `  conductor-air call list_assets --input platform=windows --input online_status=online
  conductor-air call get_task --input id=3f6b...
  conductor-air call list_cases --paginate --max-results 500
  conductor-air call isolate_asset --items ./assets.json --on-error continue
  conductor-air call list_assets --query '.[].name'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringArrayVarP(&flags.inputs, "input", "i", nil, "operation input as key=value (repeatable)")
	cmd.Flags().StringVar(&flags.jsonInput, "json-input", "", "operation inputs as one JSON object")
	cmd.Flags().StringVarP(&flags.query, "query", "q", "", "jq expression applied to the response")
	cmd.Flags().BoolVar(&flags.paginate, "paginate", false, "stream all pages of a list operation")
	cmd.Flags().IntVar(&flags.pageSize, "page-size", 0, "entities per page for paginated operations")
	cmd.Flags().IntVar(&flags.maxResults, "max-results", 0, "stop after this many entities (0 = unlimited)")
	cmd.Flags().StringVar(&flags.itemsFile, "items", "", "JSON file with an array of input objects (batch mode)")
	cmd.Flags().StringVar(&flags.onError, "on-error", "fail", "batch error policy: fail or continue")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "print a request summary to stderr after execution")

	return cmd
}

func runCall(cmd *cobra.Command, opName string, flags *callFlags) error {
	ctx := cmd.Context()

	// A malformed --query should fail before any request goes out.
	executor := jq.NewExecutor(0, 0)
	if err := executor.Validate(flags.query); err != nil {
		return err
	}

	conn, err := buildConnector(ctx)
	if err != nil {
		return err
	}

	// The summary also covers calls that end in an error, so it runs on
	// every exit path once the connector exists.
	if flags.verbose {
		defer func() {
			if reporter, ok := conn.(metricsReporter); ok {
				writeStatsSummary(cmd.ErrOrStderr(), reporter.Metrics().Stats())
			}
		}()
	}

	inputs, err := parseInputs(flags)
	if err != nil {
		return err
	}

	var response interface{}
	switch {
	case flags.itemsFile != "":
		response, err = runBatch(cmd, conn, opName, flags)
	case flags.paginate:
		response, err = runPaginated(cmd, conn, opName, inputs, flags)
	default:
		var result *operation.Result
		result, err = conn.Execute(ctx, opName, inputs)
		if result != nil {
			response = result.Response
		}
	}
	if err != nil {
		return err
	}

	if flags.query != "" {
		response, err = executor.Execute(ctx, flags.query, response)
		if err != nil {
			return err
		}
	}

	return printJSON(cmd, response)
}

// parseInputs merges --json-input and --input pairs, pairs winning on
// conflict.
func parseInputs(flags *callFlags) (map[string]interface{}, error) {
	inputs := map[string]interface{}{}

	if flags.jsonInput != "" {
		if err := json.Unmarshal([]byte(flags.jsonInput), &inputs); err != nil {
			return nil, fmt.Errorf("parsing --json-input: %w", err)
		}
	}

	for _, pair := range flags.inputs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --input %q (expected key=value)", pair)
		}
		inputs[key] = parseInputValue(value)
	}

	if flags.pageSize > 0 {
		inputs["page_size"] = flags.pageSize
	}
	if flags.maxResults > 0 {
		inputs["max_results"] = flags.maxResults
	}

	return inputs, nil
}

// parseInputValue decodes JSON-looking values so arrays, objects, numbers,
// and booleans survive the key=value syntax. Everything else is a string.
func parseInputValue(value string) interface{} {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return value
	}
	switch trimmed[0] {
	case '{', '[', '"', 't', 'f', 'n', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var decoded interface{}
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			return decoded
		}
	}
	return value
}

func runBatch(cmd *cobra.Command, conn operation.Connector, opName string, flags *callFlags) (interface{}, error) {
	data, err := os.ReadFile(flags.itemsFile)
	if err != nil {
		return nil, fmt.Errorf("reading --items file: %w", err)
	}

	var items []map[string]interface{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("--items file must contain a JSON array of objects: %w", err)
	}

	var policy operation.BatchPolicy
	switch flags.onError {
	case "fail":
		policy = operation.FailFast
	case "continue":
		policy = operation.CollectErrors
	default:
		return nil, fmt.Errorf("invalid --on-error %q (expected fail or continue)", flags.onError)
	}

	results, err := operation.ExecuteBatch(cmd.Context(), conn, opName, items, policy)
	if err != nil {
		return nil, err
	}

	shaped := make([]map[string]interface{}, 0, len(results))
	failed := 0
	for _, r := range results {
		entry := map[string]interface{}{"index": r.Index}
		if r.Err != nil {
			entry["error"] = r.Err.Error()
			failed++
		} else if r.Result != nil {
			entry["response"] = r.Result.Response
		}
		shaped = append(shaped, entry)
	}

	if failed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d items failed\n", failed, len(results))
	}
	return shaped, nil
}

func runPaginated(cmd *cobra.Command, conn operation.Connector, opName string, inputs map[string]interface{}, flags *callFlags) (interface{}, error) {
	paginated, ok := conn.(operation.PaginatedConnector)
	if !ok {
		return nil, fmt.Errorf("connector does not support pagination")
	}

	inputs["paginate"] = true

	results, err := paginated.ExecutePaginated(cmd.Context(), opName, inputs)
	if err != nil {
		return nil, err
	}

	var entities []interface{}
	for result := range results {
		if errMsg, ok := result.Metadata["error"].(string); ok {
			return nil, fmt.Errorf("%s", errMsg)
		}
		if page, ok := result.Response.([]map[string]interface{}); ok {
			for _, record := range page {
				entities = append(entities, record)
			}
		}
		if flags.maxResults > 0 && len(entities) >= flags.maxResults {
			entities = entities[:flags.maxResults]
			break
		}
	}
	return entities, nil
}

// metricsReporter is satisfied by connectors that collect per-operation
// request stats during an invocation.
type metricsReporter interface {
	Metrics() *operation.MetricsCollector
}

// writeStatsSummary prints per-operation request counts, status code
// breakdowns, and latency percentiles in operation-name order.
func writeStatsSummary(w io.Writer, stats map[string]operation.OperationStats) {
	if len(stats) == 0 {
		return
	}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		s := stats[name]

		codes := make([]int, 0, len(s.ByStatus))
		for code := range s.ByStatus {
			codes = append(codes, code)
		}
		sort.Ints(codes)

		parts := make([]string, 0, len(codes))
		for _, code := range codes {
			parts = append(parts, fmt.Sprintf("%d=%d", code, s.ByStatus[code]))
		}

		fmt.Fprintf(w, "%s: %d requests (%s) p50=%s p95=%s\n",
			name, s.Requests, strings.Join(parts, " "), s.P50, s.P95)
	}
}

func printJSON(cmd *cobra.Command, data interface{}) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	cmd.Println(string(encoded))
	return nil
}
