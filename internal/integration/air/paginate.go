package air

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	op "github.com/tombee/conductor-air/internal/operation"
)

const (
	// defaultPageSize is the page size used when the caller does not set one.
	defaultPageSize = 100

	// maxPageIterations bounds the page walk unconditionally. The console's
	// currentPage/totalPageCount fields are not reliable on every endpoint,
	// so termination can never depend on them alone.
	maxPageIterations = 100
)

// pageFunc fetches one page of entities.
type pageFunc func(ctx context.Context, page, pageSize int) (*entityPage, error)

// fetchAllPages exhausts a paginated listing into one page-major ordered
// slice of raw entities.
//
// Termination, in order of preference:
//  1. currentPage < totalPageCount advances, anything else stops;
//  2. with pagination fields absent, a short or empty page stops;
//  3. the absolute iteration cap stops regardless.
func fetchAllPages(ctx context.Context, fn pageFunc, pageSize int) ([]json.RawMessage, error) {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var entities []json.RawMessage

	for page := 1; page <= maxPageIterations; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := fn(ctx, page, pageSize)
		if err != nil {
			return nil, err
		}

		entities = append(entities, result.Entities...)

		if result.TotalPageCount > 0 {
			if result.CurrentPage >= result.TotalPageCount {
				return entities, nil
			}
			// Missing currentPage with a totalPageCount present: trust the
			// count heuristics below rather than looping on bad fields.
			if result.CurrentPage == 0 && len(result.Entities) < pageSize {
				return entities, nil
			}
			continue
		}

		if len(result.Entities) == 0 || len(result.Entities) < pageSize {
			return entities, nil
		}
	}

	return entities, nil
}

// listPage performs one GET against a list endpoint with pagination and
// filter query parameters applied.
func (c *AIRIntegration) listPage(ctx context.Context, path string, query url.Values, family string) pageFunc {
	return func(ctx context.Context, page, pageSize int) (*entityPage, error) {
		q := url.Values{}
		for key, vals := range query {
			q[key] = vals
		}
		q.Set("pageNumber", strconv.Itoa(page))
		q.Set("pageSize", strconv.Itoa(pageSize))

		resp, err := c.ExecuteRequest(ctx, "GET", c.BaseURL()+path+"?"+q.Encode(), c.defaultHeaders(), nil)
		if err != nil {
			return nil, err
		}

		env, err := decodeEnvelope(resp)
		if err != nil {
			return nil, err
		}

		return decodeEntityPage(env, family)
	}
}

// fetchAllEntities is the common list-operation body: walk every page and
// return the flattened records.
func (c *AIRIntegration) fetchAllEntities(ctx context.Context, path string, query url.Values, family string, pageSize int) ([]map[string]interface{}, error) {
	raw, err := fetchAllPages(ctx, c.listPage(ctx, path, query, family), pageSize)
	if err != nil {
		return nil, err
	}
	return rawToMaps(raw)
}

// ExecutePaginated implements paginated operations, streaming one Result
// per page through a channel. Non-list operations and calls without
// paginate=true fall back to a single Execute.
func (c *AIRIntegration) ExecutePaginated(ctx context.Context, operation string, inputs map[string]interface{}) (<-chan *op.Result, error) {
	paginate, _ := inputs["paginate"].(bool)
	if !paginate {
		result, err := c.Execute(ctx, operation, inputs)
		if err != nil {
			return nil, err
		}

		ch := make(chan *op.Result, 1)
		ch <- result
		close(ch)
		return ch, nil
	}

	var path string
	var family string
	switch operation {
	case "list_assets":
		path, family = "/assets", "assets"
	case "list_tasks":
		path, family = "/tasks", "tasks"
	case "list_organizations":
		path, family = "/organizations", "organizations"
	case "list_triage_rules":
		path, family = "/triages/rules", "triage rules"
	case "list_cases":
		path, family = "/cases", "cases"
	default:
		return nil, op.NewValidationError("operation %s does not support pagination", operation)
	}

	query, err := c.listQuery(ctx, operation, inputs)
	if err != nil {
		return nil, err
	}

	pageSize := defaultPageSize
	if ps := intInput(inputs, "page_size"); ps > 0 {
		pageSize = ps
	}
	maxResults := intInput(inputs, "max_results")

	fetch := c.listPage(ctx, path, query, family)
	results := make(chan *op.Result)

	go func() {
		defer close(results)

		totalSent := 0
		for page := 1; page <= maxPageIterations; page++ {
			if ctx.Err() != nil {
				return
			}

			pageResult, err := fetch(ctx, page, pageSize)
			if err != nil {
				results <- &op.Result{
					Metadata: map[string]interface{}{"error": err.Error()},
				}
				return
			}

			records, err := rawToMaps(pageResult.Entities)
			if err != nil {
				results <- &op.Result{
					Metadata: map[string]interface{}{"error": err.Error()},
				}
				return
			}

			results <- &op.Result{
				Response:   records,
				StatusCode: 200,
				Metadata: map[string]interface{}{
					"page":       page,
					"page_size":  pageSize,
					"total":      pageResult.TotalEntityCount,
					"page_count": pageResult.TotalPageCount,
				},
			}

			totalSent += len(records)
			if maxResults > 0 && totalSent >= maxResults {
				return
			}

			if pageResult.TotalPageCount > 0 {
				if pageResult.CurrentPage >= pageResult.TotalPageCount {
					return
				}
				continue
			}
			if len(records) == 0 || len(records) < pageSize {
				return
			}
		}
	}()

	return results, nil
}

// listQuery builds the filter query for a list operation's inputs.
func (c *AIRIntegration) listQuery(ctx context.Context, operation string, inputs map[string]interface{}) (url.Values, error) {
	switch operation {
	case "list_assets":
		filter, err := buildAssetFilter(ctx, inputs, c)
		if err != nil {
			return nil, err
		}
		return filterQuery(filter), nil

	case "list_triage_tags":
		q := url.Values{}
		orgID := "0"
		if v, ok := inputs["organization_id"]; ok && stringify(v) != "" {
			orgID = stringify(v)
		}
		q.Set("filter[organizationIds]", orgID)
		q.Set("filter[withCount]", "true")
		return q, nil

	case "list_tasks", "list_organizations", "list_triage_rules", "list_cases", "list_acquisition_profiles":
		q := url.Values{}
		if term, ok := inputs["search_term"].(string); ok && term != "" {
			q.Set("filter[searchTerm]", term)
		}
		orgIDs, err := resolveOrgIDs(ctx, inputs["organization_ids"], c)
		if err != nil {
			return nil, err
		}
		if len(orgIDs) > 0 {
			tokens := make([]string, 0, len(orgIDs))
			for _, id := range orgIDs {
				tokens = append(tokens, stringify(id))
			}
			q.Set("filter[organizationIds]", strings.Join(tokens, ","))
		}
		return q, nil

	default:
		return url.Values{}, nil
	}
}
