package air

import (
	"encoding/json"
	"fmt"

	"github.com/tombee/conductor-air/internal/operation"
	"github.com/tombee/conductor-air/internal/operation/transport"
)

// Envelope is the wrapper on every AIR API response.
//
// Success is decided by the envelope, not the transport status: some
// endpoints (triage rule validation among them) return non-2xx status codes
// for responses that must still be decoded.
type Envelope struct {
	Success    bool            `json:"success"`
	Result     json.RawMessage `json:"result"`
	StatusCode int             `json:"statusCode"`
	Errors     []string        `json:"errors"`
}

// decodeEnvelope parses a response body into an envelope and converts an
// unsuccessful envelope into an *AIRError. The transport status code is
// only consulted when the body is not a valid envelope at all.
func decodeEnvelope(resp *transport.Response) (*Envelope, error) {
	if len(resp.Body) == 0 {
		return nil, operation.NewDecodeError("api", fmt.Errorf("empty response body (HTTP %d)", resp.StatusCode))
	}

	var env Envelope
	if err := json.Unmarshal(resp.Body, &env); err != nil {
		return nil, operation.NewDecodeError("api", fmt.Errorf("response is not a valid envelope (HTTP %d): %w", resp.StatusCode, err))
	}

	if !env.Success {
		return nil, newAIRError(&env, resp.StatusCode)
	}

	return &env, nil
}

// decodeResult unmarshals the envelope result into target.
// family names the endpoint family for decode error messages.
func decodeResult(env *Envelope, family string, target interface{}) error {
	if len(env.Result) == 0 || string(env.Result) == "null" {
		return operation.NewDecodeError(family, fmt.Errorf("envelope has no result"))
	}
	if err := json.Unmarshal(env.Result, target); err != nil {
		return operation.NewDecodeError(family, err)
	}
	return nil
}

// decodeEntityPage decodes an envelope result as a paginated entity list.
// A result that is not an object carrying an entities array is a typed
// decode error, never a silent fallback.
func decodeEntityPage(env *Envelope, family string) (*entityPage, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(env.Result, &probe); err != nil {
		return nil, operation.NewDecodeError(family, fmt.Errorf("result is not an object: %w", err))
	}
	if _, ok := probe["entities"]; !ok {
		return nil, operation.NewDecodeError(family, fmt.Errorf("result has no entities array"))
	}

	var page entityPage
	if err := json.Unmarshal(env.Result, &page); err != nil {
		return nil, operation.NewDecodeError(family, err)
	}
	return &page, nil
}

// rawToMaps converts raw entities into generic records for output shaping.
func rawToMaps(entities []json.RawMessage) ([]map[string]interface{}, error) {
	out := make([]map[string]interface{}, 0, len(entities))
	for _, raw := range entities {
		var m map[string]interface{}
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, operation.NewDecodeError("api", fmt.Errorf("entity is not an object: %w", err))
		}
		out = append(out, m)
	}
	return out, nil
}
