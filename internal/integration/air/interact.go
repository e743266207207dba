package air

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/tombee/conductor-air/internal/log"
	"github.com/tombee/conductor-air/internal/operation"
)

// Session wait outcomes. "live" means the backing task reached processing,
// which is the console's signal that the shell is attached.
const (
	SessionStatusLive    = "live"
	SessionStatusTimeout = "timeout"
)

func (c *AIRIntegration) assignInteractShellTask(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	if err := c.ValidateRequired(inputs, []string{"asset_id"}); err != nil {
		return nil, err
	}

	assetID, err := NormalizeID(stringify(inputs["asset_id"]))
	if err != nil {
		return nil, operation.NewValidationError("asset ID: %v", err)
	}

	body := map[string]interface{}{
		"assetId": assetID,
	}
	if v, ok := inputs["case_id"]; ok && stringify(v) != "" {
		caseID, err := NormalizeID(stringify(v))
		if err != nil {
			return nil, operation.NewValidationError("case ID: %v", err)
		}
		body["caseId"] = caseID
	}
	if cfg, ok := inputs["task_config"].(map[string]interface{}); ok && len(cfg) > 0 {
		body["taskConfig"] = cfg
	}

	return c.executeCall(ctx, "POST", "/interact/shell/assign", nil, body)
}

// waitForSession polls the backing task of an InterACT session until it
// reaches a terminal state.
//
// assigned and scheduled continue the poll; processing means the shell is
// live; anything else is reported as-is. An elapsed timeout produces a
// "timeout" result, not an error. Transient poll failures are logged and
// swallowed; a missing task or a task of the wrong type aborts.
func (c *AIRIntegration) waitForSession(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	if err := c.ValidateRequired(inputs, []string{"task_id"}); err != nil {
		return nil, err
	}
	taskID, err := NormalizeID(stringify(inputs["task_id"]))
	if err != nil {
		return nil, operation.NewValidationError("task ID: %v", err)
	}

	timeoutSeconds := intInput(inputs, "timeout")

	var deadline time.Time
	if timeoutSeconds > 0 {
		deadline = time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	}

	logger := log.WithOperation(c.logger, "wait_for_session")

	for {
		task, err := c.pollSessionTask(ctx, taskID)
		switch {
		case err == nil:
			switch task.Status {
			case TaskStatusAssigned, TaskStatusScheduled:
				// keep polling
			case TaskStatusProcessing:
				return sessionResult(SessionStatusLive, task), nil
			default:
				return sessionResult(task.Status, task), nil
			}

		case isSessionAbort(err):
			return nil, err

		default:
			logger.Debug("session poll failed, retrying", log.Error(err))
		}

		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return sessionResult(SessionStatusTimeout, task), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

// pollSessionTask fetches the backing task and rejects tasks that are not
// InterACT shell tasks.
func (c *AIRIntegration) pollSessionTask(ctx context.Context, taskID string) (*Task, error) {
	env, _, err := c.doEnvelope(ctx, "GET", "/tasks/"+url.PathEscape(taskID), nil, nil)
	if err != nil {
		return nil, err
	}

	var task Task
	if err := decodeResult(env, "tasks", &task); err != nil {
		return nil, err
	}

	if task.Type != "" && !strings.Contains(strings.ToLower(task.Type), "interact") {
		return nil, operation.NewValidationError("task %s is a %q task, not an InterACT session", taskID, task.Type)
	}
	return &task, nil
}

// isSessionAbort reports whether a poll error ends the wait instead of
// being retried on the next interval.
func isSessionAbort(err error) bool {
	if opErr, ok := err.(*operation.Error); ok {
		switch opErr.Type {
		case operation.ErrorTypeNotFound, operation.ErrorTypeValidation, operation.ErrorTypeAuth:
			return true
		}
	}
	if airErr, ok := err.(*AIRError); ok {
		switch airErr.Type() {
		case operation.ErrorTypeNotFound, operation.ErrorTypeAuth:
			return true
		}
	}
	return false
}

func sessionResult(status string, task *Task) *operation.Result {
	metadata := map[string]interface{}{"status": status}
	response := map[string]interface{}{"status": status}
	if task != nil {
		response["task"] = task
		metadata["task_id"] = task.ID
	}
	return &operation.Result{
		Response:   response,
		StatusCode: 200,
		Metadata:   metadata,
	}
}
