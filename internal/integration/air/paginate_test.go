package air

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawEntities(n int) []json.RawMessage {
	out := make([]json.RawMessage, n)
	for i := range out {
		out[i] = json.RawMessage(fmt.Sprintf(`{"_id":"e%d"}`, i))
	}
	return out
}

func TestFetchAllPages_PageCountTermination(t *testing.T) {
	calls := 0
	fn := func(ctx context.Context, page, pageSize int) (*entityPage, error) {
		calls++
		return &entityPage{
			Entities:       rawEntities(pageSize),
			CurrentPage:    page,
			TotalPageCount: 3,
		}, nil
	}

	entities, err := fetchAllPages(context.Background(), fn, 10)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, entities, 30)
}

// Without pagination fields, a short page terminates the walk.
func TestFetchAllPages_ShortPageTermination(t *testing.T) {
	calls := 0
	fn := func(ctx context.Context, page, pageSize int) (*entityPage, error) {
		calls++
		if page < 3 {
			return &entityPage{Entities: rawEntities(pageSize)}, nil
		}
		return &entityPage{Entities: rawEntities(2)}, nil
	}

	entities, err := fetchAllPages(context.Background(), fn, 5)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Len(t, entities, 12)
}

func TestFetchAllPages_EmptyFirstPage(t *testing.T) {
	fn := func(ctx context.Context, page, pageSize int) (*entityPage, error) {
		return &entityPage{}, nil
	}

	entities, err := fetchAllPages(context.Background(), fn, 10)
	require.NoError(t, err)
	assert.Empty(t, entities)
}

// A server that always claims more pages must not loop forever.
func TestFetchAllPages_IterationCap(t *testing.T) {
	calls := 0
	fn := func(ctx context.Context, page, pageSize int) (*entityPage, error) {
		calls++
		return &entityPage{
			Entities:       rawEntities(pageSize),
			CurrentPage:    1, // lying server, never advances
			TotalPageCount: 9999,
		}, nil
	}

	_, err := fetchAllPages(context.Background(), fn, 10)
	require.NoError(t, err)
	assert.Equal(t, maxPageIterations, calls)
}

func TestFetchAllPages_ErrorPropagates(t *testing.T) {
	fn := func(ctx context.Context, page, pageSize int) (*entityPage, error) {
		if page == 2 {
			return nil, fmt.Errorf("boom")
		}
		return &entityPage{Entities: rawEntities(pageSize), CurrentPage: page, TotalPageCount: 5}, nil
	}

	_, err := fetchAllPages(context.Background(), fn, 10)
	assert.EqualError(t, err, "boom")
}

func TestFetchAllPages_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fn := func(ctx context.Context, page, pageSize int) (*entityPage, error) {
		t.Fatal("page fetch should not run after cancellation")
		return nil, nil
	}

	_, err := fetchAllPages(ctx, fn, 10)
	assert.ErrorIs(t, err, context.Canceled)
}

// Page-major order: entities keep their page order in the flat slice.
func TestFetchAllPages_OrderPreserved(t *testing.T) {
	fn := func(ctx context.Context, page, pageSize int) (*entityPage, error) {
		return &entityPage{
			Entities:       []json.RawMessage{json.RawMessage(fmt.Sprintf(`{"_id":"p%d"}`, page))},
			CurrentPage:    page,
			TotalPageCount: 3,
		}, nil
	}

	entities, err := fetchAllPages(context.Background(), fn, 1)
	require.NoError(t, err)
	require.Len(t, entities, 3)
	for i, raw := range entities {
		assert.JSONEq(t, fmt.Sprintf(`{"_id":"p%d"}`, i+1), string(raw))
	}
}
