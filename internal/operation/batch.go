package operation

import (
	"context"
	"fmt"
)

// BatchPolicy controls how a batch executor reacts to per-item failures.
type BatchPolicy int

const (
	// FailFast aborts the batch at the first failing item.
	FailFast BatchPolicy = iota

	// CollectErrors records per-item failures and continues with the
	// remaining items.
	CollectErrors
)

// BatchResult is the outcome of one item in a batch execution.
type BatchResult struct {
	// Index is the zero-based position of the item in the input batch
	Index int

	// Result is the operation result, nil if the item failed
	Result *Result

	// Err is the item's failure, nil on success
	Err error
}

// ExecuteBatch runs one operation sequentially over a batch of input items.
//
// Items are processed one at a time in order; there is no parallelism and no
// shared state between items. Under FailFast the first failure aborts the
// batch and is returned wrapped with its item index. Under CollectErrors
// every item produces a BatchResult, failed items carrying their error.
func ExecuteBatch(ctx context.Context, conn Connector, operation string, items []map[string]interface{}, policy BatchPolicy) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(items))

	for i, inputs := range items {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := conn.Execute(ctx, operation, inputs)
		if err != nil {
			wrapped := fmt.Errorf("item %d: %w", i, err)
			if policy == FailFast {
				return results, wrapped
			}
			results = append(results, BatchResult{Index: i, Err: wrapped})
			continue
		}

		results = append(results, BatchResult{Index: i, Result: result})
	}

	return results, nil
}
