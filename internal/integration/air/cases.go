package air

import (
	"context"
	"net/url"
	"strings"

	"github.com/tombee/conductor-air/internal/operation"
)

const casesPath = "/cases"

func (c *AIRIntegration) listCases(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.executeList(ctx, "list_cases", casesPath, inputs)
}

func (c *AIRIntegration) getCase(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "case ID")
	if err != nil {
		return nil, err
	}
	return c.executeCall(ctx, "GET", casesPath+"/"+url.PathEscape(id), nil, nil)
}

func (c *AIRIntegration) createCase(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	if err := c.ValidateRequired(inputs, []string{"name", "owner_user_id"}); err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"name":        strings.TrimSpace(stringify(inputs["name"])),
		"ownerUserId": stringify(inputs["owner_user_id"]),
	}
	if v, ok := inputs["organization_id"]; ok && stringify(v) != "" {
		body["organizationId"] = coerceOrgID(stringify(v))
	} else {
		body["organizationId"] = 0
	}
	if v, ok := inputs["visibility"].(string); ok && v != "" {
		body["visibility"] = v
	}
	if ids := toStringSlice(inputs["assigned_user_ids"]); len(ids) > 0 {
		body["assignedUserIds"] = ids
	}

	return c.executeCall(ctx, "POST", casesPath, nil, body)
}

func (c *AIRIntegration) updateCase(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "case ID")
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{}
	if v, ok := inputs["name"].(string); ok && v != "" {
		body["name"] = v
	}
	if v, ok := inputs["owner_user_id"].(string); ok && v != "" {
		body["ownerUserId"] = v
	}
	if v, ok := inputs["visibility"].(string); ok && v != "" {
		body["visibility"] = v
	}
	if notes, ok := inputs["notes"].([]interface{}); ok && len(notes) > 0 {
		body["notes"] = notes
	}
	if len(body) == 0 {
		return nil, operation.NewValidationError("update_case requires at least one field to change")
	}

	return c.executeCall(ctx, "PATCH", casesPath+"/"+url.PathEscape(id), nil, body)
}

func (c *AIRIntegration) closeCase(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.caseAction(ctx, inputs, "close")
}

func (c *AIRIntegration) openCase(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.caseAction(ctx, inputs, "open")
}

func (c *AIRIntegration) archiveCase(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.caseAction(ctx, inputs, "archive")
}

func (c *AIRIntegration) caseAction(ctx context.Context, inputs map[string]interface{}, action string) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "case ID")
	if err != nil {
		return nil, err
	}
	return c.executeCall(ctx, "POST", casesPath+"/"+url.PathEscape(id)+"/"+action, nil, nil)
}

func (c *AIRIntegration) changeCaseOwner(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	if err := c.ValidateRequired(inputs, []string{"new_owner_id"}); err != nil {
		return nil, err
	}
	id, err := c.requiredID(inputs, "case ID")
	if err != nil {
		return nil, err
	}
	ownerID, err := NormalizeID(stringify(inputs["new_owner_id"]))
	if err != nil {
		return nil, operation.NewValidationError("new owner ID: %v", err)
	}

	return c.executeCall(ctx, "POST", casesPath+"/"+url.PathEscape(id)+"/change-owner", nil, map[string]interface{}{
		"newOwnerId": ownerID,
	})
}

func (c *AIRIntegration) checkCaseName(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	if err := c.ValidateRequired(inputs, []string{"name"}); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("name", strings.TrimSpace(stringify(inputs["name"])))
	return c.executeCall(ctx, "GET", casesPath+"/check", query, nil)
}

func (c *AIRIntegration) getCaseActivities(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.caseSubList(ctx, inputs, "activities", "case activities")
}

func (c *AIRIntegration) getCaseEndpoints(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.caseSubList(ctx, inputs, "endpoints", "case endpoints")
}

func (c *AIRIntegration) getCaseTasks(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.caseSubList(ctx, inputs, "tasks", "case tasks")
}

func (c *AIRIntegration) getCaseUsers(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.caseSubList(ctx, inputs, "users", "case users")
}

func (c *AIRIntegration) caseSubList(ctx context.Context, inputs map[string]interface{}, sub, family string) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "case ID")
	if err != nil {
		return nil, err
	}

	entities, err := c.fetchAllEntities(ctx, casesPath+"/"+url.PathEscape(id)+"/"+sub, nil, family, 0)
	if err != nil {
		return nil, err
	}
	return &operation.Result{
		Response:   entities,
		StatusCode: 200,
		Metadata:   map[string]interface{}{"count": len(entities)},
	}, nil
}

func (c *AIRIntegration) exportCaseNotes(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "case ID")
	if err != nil {
		return nil, err
	}
	// Notes export answers with a file body on success, like the evidence
	// download endpoints.
	fullURL, err := c.BuildURL(casesPath+"/{id}/notes/export", map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	return c.fileDownload(ctx, fullURL)
}
