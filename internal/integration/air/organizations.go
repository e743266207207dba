package air

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tombee/conductor-air/internal/operation"
)

// resolverPageSize is the page size used while scanning for an exact name
// match. The suggestion lookup after a failed scan uses a smaller page.
const (
	resolverPageSize    = 100
	resolverMaxPages    = 50
	suggestionPageSize  = 10
	maxSuggestions      = 5
	organizationsPath   = "/organizations"
	organizationsFamily = "organizations"
)

func (c *AIRIntegration) listOrganizations(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.executeList(ctx, "list_organizations", organizationsPath, inputs)
}

func (c *AIRIntegration) getOrganization(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "organization ID")
	if err != nil {
		return nil, err
	}
	return c.executeCall(ctx, "GET", organizationsPath+"/"+url.PathEscape(id), nil, nil)
}

func (c *AIRIntegration) createOrganization(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	if err := c.ValidateRequired(inputs, []string{"name"}); err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"name": strings.TrimSpace(stringify(inputs["name"])),
	}
	if v, ok := inputs["contact_name"].(string); ok && v != "" {
		body["contact"] = map[string]interface{}{"name": v}
		if email, ok := inputs["contact_email"].(string); ok && email != "" {
			body["contact"].(map[string]interface{})["email"] = email
		}
	}
	if v, ok := inputs["note"].(string); ok && v != "" {
		body["note"] = v
	}
	if v, ok := inputs["shareable_deployment_enabled"].(bool); ok {
		body["shareableDeploymentEnabled"] = v
	}

	return c.executeCall(ctx, "POST", organizationsPath, nil, body)
}

func (c *AIRIntegration) updateOrganization(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "organization ID")
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{}
	if v, ok := inputs["name"].(string); ok && v != "" {
		body["name"] = v
	}
	if v, ok := inputs["contact_name"].(string); ok && v != "" {
		contact := map[string]interface{}{"name": v}
		if email, ok := inputs["contact_email"].(string); ok && email != "" {
			contact["email"] = email
		}
		body["contact"] = contact
	}
	if v, ok := inputs["note"].(string); ok && v != "" {
		body["note"] = v
	}
	if len(body) == 0 {
		return nil, operation.NewValidationError("update_organization requires at least one field to change")
	}

	return c.executeCall(ctx, "PATCH", organizationsPath+"/"+url.PathEscape(id), nil, body)
}

func (c *AIRIntegration) getOrganizationUsers(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "organization ID")
	if err != nil {
		return nil, err
	}

	entities, err := c.fetchAllEntities(ctx, organizationsPath+"/"+url.PathEscape(id)+"/users", nil, "organization users", 0)
	if err != nil {
		return nil, err
	}
	return &operation.Result{
		Response:   entities,
		StatusCode: 200,
		Metadata:   map[string]interface{}{"count": len(entities)},
	}, nil
}

func (c *AIRIntegration) addOrganizationTags(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.organizationTags(ctx, inputs, "PATCH")
}

func (c *AIRIntegration) deleteOrganizationTags(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.organizationTags(ctx, inputs, "DELETE")
}

func (c *AIRIntegration) organizationTags(ctx context.Context, inputs map[string]interface{}, method string) (*operation.Result, error) {
	if err := c.ValidateRequired(inputs, []string{"tags"}); err != nil {
		return nil, err
	}
	id, err := c.requiredID(inputs, "organization ID")
	if err != nil {
		return nil, err
	}
	tags := splitCommaList(inputs["tags"])
	if len(tags) == 0 {
		return nil, operation.NewValidationError("tags must contain at least one non-empty tag")
	}

	body := map[string]interface{}{"tags": tags}
	return c.executeCall(ctx, method, organizationsPath+"/"+url.PathEscape(id)+"/tags", nil, body)
}

func (c *AIRIntegration) updateShareableDeployment(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	status, ok := inputs["status"].(bool)
	if !ok {
		return nil, operation.NewValidationError("status must be a boolean")
	}
	id, err := c.requiredID(inputs, "organization ID")
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{"status": status}
	return c.executeCall(ctx, "POST", organizationsPath+"/"+url.PathEscape(id)+"/shareable-deployment", nil, body)
}

func (c *AIRIntegration) updateDeploymentToken(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	if err := c.ValidateRequired(inputs, []string{"token"}); err != nil {
		return nil, err
	}
	id, err := c.requiredID(inputs, "organization ID")
	if err != nil {
		return nil, err
	}
	token := strings.TrimSpace(stringify(inputs["token"]))

	path := organizationsPath + "/" + url.PathEscape(id) + "/deployment-token/" + url.PathEscape(token)
	return c.executeCall(ctx, "POST", path, nil, nil)
}

// resolveOrganizationByName resolves a display name to an organization ID.
//
// The listing endpoint filters server-side by name, but the filter is a
// substring match; only an exact case-insensitive name match counts. On
// exhaustion without a match, one bounded lookup collects similarly named
// organizations for the error message. No caching across calls.
func (c *AIRIntegration) resolveOrganizationByName(ctx context.Context, name string) (int, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return 0, operation.NewValidationError("organization name is empty")
	}

	query := url.Values{}
	query.Set("filter[name]", strings.TrimSpace(name))

	// currentPage/totalPageCount are not reliable on every console
	// version, so the walk is capped.
	for page := 1; page <= resolverMaxPages; page++ {
		pageResult, err := c.listPage(ctx, organizationsPath, query, organizationsFamily)(ctx, page, resolverPageSize)
		if err != nil {
			return 0, err
		}

		records, err := rawToMaps(pageResult.Entities)
		if err != nil {
			return 0, err
		}

		for _, org := range records {
			orgName, _ := org["name"].(string)
			if strings.ToLower(strings.TrimSpace(orgName)) != want {
				continue
			}
			// Organization 0 is a real record (the "all organizations"
			// sentinel), so the numeric _id is read directly before the
			// generic probe, which treats zero as absent.
			if v, ok := org["_id"].(float64); ok {
				return int(v), nil
			}
			id, err := ExtractEntityID(org, "organization")
			if err != nil {
				return 0, err
			}
			n, err := strconv.Atoi(id)
			if err != nil {
				return 0, operation.NewDecodeError(organizationsFamily, fmt.Errorf("organization %q has non-numeric ID %q", orgName, id))
			}
			return n, nil
		}

		if pageResult.TotalPageCount > 0 && pageResult.CurrentPage >= pageResult.TotalPageCount {
			break
		}
		if len(records) < resolverPageSize {
			break
		}
	}

	suggestions := c.organizationSuggestions(ctx, name)
	if len(suggestions) > 0 {
		return 0, operation.NewNotFoundError("organization %q not found; similar names: %s", name, strings.Join(suggestions, ", "))
	}
	return 0, operation.NewNotFoundError("organization %q not found", name)
}

// organizationSuggestions collects up to maxSuggestions similarly named
// organizations for a failed resolution. Errors here only degrade the
// error message, so they are swallowed.
func (c *AIRIntegration) organizationSuggestions(ctx context.Context, name string) []string {
	query := url.Values{}
	query.Set("filter[name]", strings.TrimSpace(name))

	pageResult, err := c.listPage(ctx, organizationsPath, query, organizationsFamily)(ctx, 1, suggestionPageSize)
	if err != nil {
		return nil
	}
	records, err := rawToMaps(pageResult.Entities)
	if err != nil {
		return nil
	}

	var suggestions []string
	for _, org := range records {
		if orgName, ok := org["name"].(string); ok && orgName != "" {
			suggestions = append(suggestions, orgName)
			if len(suggestions) == maxSuggestions {
				break
			}
		}
	}
	return suggestions
}
