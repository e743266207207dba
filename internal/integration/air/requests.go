package air

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/tombee/conductor-air/internal/operation"
	"github.com/tombee/conductor-air/internal/operation/transport"
)

// doEnvelope performs one API call and decodes the envelope. body is
// JSON-marshalled when non-nil. An unsuccessful envelope comes back as an
// *AIRError from decodeEnvelope.
func (c *AIRIntegration) doEnvelope(ctx context.Context, method, path string, query url.Values, body interface{}) (*Envelope, *transport.Response, error) {
	fullURL := c.BaseURL() + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, nil, operation.NewValidationError("request body is not serializable: %v", err)
		}
	}

	resp, err := c.ExecuteRequest(ctx, method, fullURL, c.defaultHeaders(), payload)
	if err != nil {
		return nil, nil, err
	}

	env, err := decodeEnvelope(resp)
	if err != nil {
		return nil, resp, err
	}
	return env, resp, nil
}

// resultFromEnvelope shapes a successful envelope into an operation result.
// Operations whose envelope carries no result (most write operations)
// produce a nil response body with the envelope status preserved.
func (c *AIRIntegration) resultFromEnvelope(env *Envelope, resp *transport.Response) (*operation.Result, error) {
	var shaped interface{}
	if len(env.Result) > 0 && string(env.Result) != "null" {
		if err := json.Unmarshal(env.Result, &shaped); err != nil {
			return nil, operation.NewDecodeError("api", err)
		}
	}
	return c.ToResult(resp, shaped), nil
}

// executeCall is the common body of single-request operations.
func (c *AIRIntegration) executeCall(ctx context.Context, method, path string, query url.Values, body interface{}) (*operation.Result, error) {
	env, resp, err := c.doEnvelope(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	return c.resultFromEnvelope(env, resp)
}

// executeList is the common body of list operations: walk every page,
// flatten the entities, honour max_results.
func (c *AIRIntegration) executeList(ctx context.Context, opName, path string, inputs map[string]interface{}) (*operation.Result, error) {
	query, err := c.listQuery(ctx, opName, inputs)
	if err != nil {
		return nil, err
	}

	entities, err := c.fetchAllEntities(ctx, path, query, listFamily(opName), intInput(inputs, "page_size"))
	if err != nil {
		return nil, err
	}

	if max := intInput(inputs, "max_results"); max > 0 && len(entities) > max {
		entities = entities[:max]
	}

	return &operation.Result{
		Response:   entities,
		StatusCode: 200,
		Metadata: map[string]interface{}{
			"count": len(entities),
		},
	}, nil
}

// intInput reads a numeric input that arrives as an int from flag parsing
// or a float64 from JSON decoding. Anything else counts as absent.
func intInput(inputs map[string]interface{}, key string) int {
	switch v := inputs[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func listFamily(opName string) string {
	switch opName {
	case "list_assets":
		return "assets"
	case "list_tasks":
		return "tasks"
	case "list_organizations":
		return "organizations"
	case "list_triage_rules":
		return "triage rules"
	case "list_triage_tags":
		return "triage tags"
	case "list_cases":
		return "cases"
	case "list_acquisition_profiles":
		return "acquisition profiles"
	default:
		return "api"
	}
}
