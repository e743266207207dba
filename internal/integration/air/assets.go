package air

import (
	"context"
	"net/url"

	"github.com/tombee/conductor-air/internal/operation"
)

func (c *AIRIntegration) getAsset(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "asset ID")
	if err != nil {
		return nil, err
	}
	return c.executeCall(ctx, "GET", "/assets/"+url.PathEscape(id), nil, nil)
}

func (c *AIRIntegration) listAssets(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.executeList(ctx, "list_assets", "/assets", inputs)
}

func (c *AIRIntegration) getAssetTasks(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "asset ID")
	if err != nil {
		return nil, err
	}

	entities, err := c.fetchAllEntities(ctx, "/assets/"+url.PathEscape(id)+"/tasks", nil, "asset tasks", 0)
	if err != nil {
		return nil, err
	}
	return &operation.Result{
		Response:   entities,
		StatusCode: 200,
		Metadata:   map[string]interface{}{"count": len(entities)},
	}, nil
}

func (c *AIRIntegration) addAssetTags(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.assetTags(ctx, inputs, "POST")
}

func (c *AIRIntegration) removeAssetTags(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.assetTags(ctx, inputs, "DELETE")
}

func (c *AIRIntegration) assetTags(ctx context.Context, inputs map[string]interface{}, method string) (*operation.Result, error) {
	if err := c.ValidateRequired(inputs, []string{"tags"}); err != nil {
		return nil, err
	}
	tags := splitCommaList(inputs["tags"])
	if len(tags) == 0 {
		return nil, operation.NewValidationError("tags must contain at least one non-empty tag")
	}

	filter, err := c.requireAssetFilter(ctx, inputs)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"filter": filter,
		"tags":   tags,
	}
	return c.executeCall(ctx, method, "/assets/tags", nil, body)
}

func (c *AIRIntegration) uninstallAsset(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.assetFilterAction(ctx, inputs, "/assets/uninstall-without-purge")
}

func (c *AIRIntegration) purgeAndUninstallAsset(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.assetFilterAction(ctx, inputs, "/assets/purge-and-uninstall")
}

func (c *AIRIntegration) rebootAsset(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.assetFilterAction(ctx, inputs, "/assets/reboot")
}

func (c *AIRIntegration) shutdownAsset(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.assetFilterAction(ctx, inputs, "/assets/shutdown")
}

// setAssetIsolation enables or disables network isolation on assets
// matching the filter.
func (c *AIRIntegration) setAssetIsolation(ctx context.Context, inputs map[string]interface{}, enabled bool) (*operation.Result, error) {
	filter, err := c.requireAssetFilter(ctx, inputs)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"enabled": enabled,
		"filter":  filter,
	}
	return c.executeCall(ctx, "POST", "/assets/isolation", nil, body)
}

func (c *AIRIntegration) assetFilterAction(ctx context.Context, inputs map[string]interface{}, path string) (*operation.Result, error) {
	filter, err := c.requireAssetFilter(ctx, inputs)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{"filter": filter}
	return c.executeCall(ctx, "POST", path, nil, body)
}

// requireAssetFilter builds the endpoint filter and rejects an empty one.
// Bulk commands with no predicate would hit every asset on the console.
func (c *AIRIntegration) requireAssetFilter(ctx context.Context, inputs map[string]interface{}) (*AssetFilter, error) {
	filter, err := buildAssetFilter(ctx, inputs, c)
	if err != nil {
		return nil, err
	}
	if filter.IsZero() {
		return nil, operation.NewValidationError("at least one endpoint filter predicate is required")
	}
	return filter, nil
}
