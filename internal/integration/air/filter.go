package air

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tombee/conductor-air/internal/operation"
)

// splitCommaList splits a comma-separated value into trimmed tokens,
// dropping empties. A nil or blank input yields nil, so downstream
// serialization omits the key entirely.
func splitCommaList(value interface{}) []string {
	if value == nil {
		return nil
	}

	raw, ok := value.(string)
	if !ok {
		return toStringSlice(value)
	}

	var out []string
	for _, tok := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(tok); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// toStringSlice passes arrays through as string slices and wraps scalars.
// Empty strings and empty arrays yield nil.
func toStringSlice(value interface{}) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		var out []string
		for _, s := range v {
			if t := strings.TrimSpace(s); t != "" {
				out = append(out, t)
			}
		}
		return out
	case []interface{}:
		var out []string
		for _, item := range v {
			if t := strings.TrimSpace(stringify(item)); t != "" {
				out = append(out, t)
			}
		}
		return out
	default:
		if t := strings.TrimSpace(stringify(v)); t != "" {
			return []string{t}
		}
		return nil
	}
}

// stringify renders a scalar without the float artifacts of fmt.Sprint.
func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	default:
		if value == nil {
			return ""
		}
		return fmt.Sprint(value)
	}
}

// coerceOrgIDs converts organization ID tokens, numeric-looking ones to
// numbers, the rest kept as strings.
func coerceOrgIDs(tokens []string) []interface{} {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]interface{}, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, coerceOrgID(tok))
	}
	return out
}

// buildAssetFilter canonicalizes the heterogeneous "additional fields"
// parameter bag into an AssetFilter. Organization references may arrive as
// a resource locator; the name variant is resolved before this function
// returns, so the filter never leaves with an unresolved name in it.
func buildAssetFilter(ctx context.Context, inputs map[string]interface{}, resolver orgResolver) (*AssetFilter, error) {
	f := &AssetFilter{}

	if v, ok := inputs["search_term"].(string); ok {
		f.SearchTerm = strings.TrimSpace(v)
	}
	if v, ok := inputs["name"].(string); ok {
		f.Name = strings.TrimSpace(v)
	}
	if v, ok := inputs["ip_address"].(string); ok {
		f.IPAddress = strings.TrimSpace(v)
	}
	if v, ok := inputs["group_id"].(string); ok {
		f.GroupID = strings.TrimSpace(v)
	}

	f.Platform = splitCommaList(inputs["platform"])
	f.OnlineStatus = splitCommaList(inputs["online_status"])
	f.ManagedStatus = splitCommaList(inputs["managed_status"])
	f.IsolationStatus = splitCommaList(inputs["isolation_status"])
	f.Tags = splitCommaList(inputs["tags"])

	included := splitCommaList(inputs["included_endpoint_ids"])
	for _, id := range included {
		normalized, err := NormalizeID(id)
		if err != nil {
			return nil, operation.NewValidationError("included endpoint ID %q: %v", id, err)
		}
		f.IncludedEndpointIDs = append(f.IncludedEndpointIDs, normalized)
	}

	excluded := splitCommaList(inputs["excluded_endpoint_ids"])
	for _, id := range excluded {
		normalized, err := NormalizeID(id)
		if err != nil {
			return nil, operation.NewValidationError("excluded endpoint ID %q: %v", id, err)
		}
		f.ExcludedEndpointIDs = append(f.ExcludedEndpointIDs, normalized)
	}

	orgIDs, err := resolveOrgIDs(ctx, inputs["organization_ids"], resolver)
	if err != nil {
		return nil, err
	}
	f.OrganizationIDs = orgIDs

	return f, nil
}

// resolveOrgIDs canonicalizes the organization_ids input, which may be a
// comma-separated string, an array, or a resource locator object.
func resolveOrgIDs(ctx context.Context, value interface{}, resolver orgResolver) ([]interface{}, error) {
	if value == nil {
		return nil, nil
	}

	// Locator objects carry a mode and may need name resolution.
	if m, isMap := value.(map[string]interface{}); isMap {
		locator, err := ParseLocator(m)
		if err != nil {
			return nil, err
		}
		ref, err := locator.ResolveOrganization(ctx, resolver)
		if err != nil {
			return nil, err
		}
		return []interface{}{ref.ID}, nil
	}

	return coerceOrgIDs(splitCommaList(value)), nil
}

// filterQuery serializes an AssetFilter into the bracketed filter[...]
// query convention used by list endpoints. Empty predicates are omitted.
func filterQuery(f *AssetFilter) url.Values {
	values := url.Values{}
	if f == nil {
		return values
	}

	setIfPresent := func(key, v string) {
		if v != "" {
			values.Set("filter["+key+"]", v)
		}
	}

	setIfPresent("searchTerm", f.SearchTerm)
	setIfPresent("name", f.Name)
	setIfPresent("ipAddress", f.IPAddress)
	setIfPresent("groupId", f.GroupID)
	setIfPresent("platform", strings.Join(f.Platform, ","))
	setIfPresent("onlineStatus", strings.Join(f.OnlineStatus, ","))
	setIfPresent("managedStatus", strings.Join(f.ManagedStatus, ","))
	setIfPresent("isolationStatus", strings.Join(f.IsolationStatus, ","))
	setIfPresent("tags", strings.Join(f.Tags, ","))
	setIfPresent("includedEndpointIds", strings.Join(f.IncludedEndpointIDs, ","))
	setIfPresent("excludedEndpointIds", strings.Join(f.ExcludedEndpointIDs, ","))

	if len(f.OrganizationIDs) > 0 {
		tokens := make([]string, 0, len(f.OrganizationIDs))
		for _, id := range f.OrganizationIDs {
			tokens = append(tokens, stringify(id))
		}
		values.Set("filter[organizationIds]", strings.Join(tokens, ","))
	}

	return values
}
