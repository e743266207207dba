package air

import (
	"context"
	"net/url"

	"github.com/tombee/conductor-air/internal/operation"
)

func (c *AIRIntegration) listTasks(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.executeList(ctx, "list_tasks", "/tasks", inputs)
}

func (c *AIRIntegration) getTask(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "task ID")
	if err != nil {
		return nil, err
	}
	return c.executeCall(ctx, "GET", "/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *AIRIntegration) cancelTask(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "task ID")
	if err != nil {
		return nil, err
	}
	return c.executeCall(ctx, "POST", "/tasks/"+url.PathEscape(id)+"/cancel", nil, nil)
}

func (c *AIRIntegration) deleteTask(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "task ID")
	if err != nil {
		return nil, err
	}
	return c.executeCall(ctx, "DELETE", "/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *AIRIntegration) listTaskAssignments(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "task ID")
	if err != nil {
		return nil, err
	}

	entities, err := c.fetchAllEntities(ctx, "/tasks/"+url.PathEscape(id)+"/assignments", nil, "task assignments", 0)
	if err != nil {
		return nil, err
	}
	return &operation.Result{
		Response:   entities,
		StatusCode: 200,
		Metadata:   map[string]interface{}{"count": len(entities)},
	}, nil
}

func (c *AIRIntegration) cancelTaskAssignment(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "task assignment ID")
	if err != nil {
		return nil, err
	}
	return c.executeCall(ctx, "POST", "/tasks/assignments/"+url.PathEscape(id)+"/cancel", nil, nil)
}

func (c *AIRIntegration) deleteTaskAssignment(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "task assignment ID")
	if err != nil {
		return nil, err
	}
	return c.executeCall(ctx, "DELETE", "/tasks/assignments/"+url.PathEscape(id), nil, nil)
}

// requiredID validates and normalizes the "id" input.
func (c *AIRIntegration) requiredID(inputs map[string]interface{}, what string) (string, error) {
	if err := c.ValidateRequired(inputs, []string{"id"}); err != nil {
		return "", err
	}
	id, err := NormalizeID(stringify(inputs["id"]))
	if err != nil {
		return "", operation.NewValidationError("%s: %v", what, err)
	}
	return id, nil
}
