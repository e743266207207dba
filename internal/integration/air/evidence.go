package air

import (
	"context"
	"net/url"
	"strings"

	"github.com/tombee/conductor-air/internal/operation"
)

func (c *AIRIntegration) getEvidencePPC(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.evidenceDownload(ctx, inputs, "/evidence/case/ppc")
}

func (c *AIRIntegration) getEvidenceReportFileInfo(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	endpointID, taskID, err := c.endpointTaskIDs(inputs)
	if err != nil {
		return nil, err
	}
	path := "/evidence/case/report-file-info/" + url.PathEscape(endpointID) + "/" + url.PathEscape(taskID)
	return c.executeCall(ctx, "GET", path, nil, nil)
}

func (c *AIRIntegration) getEvidenceReport(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.evidenceDownload(ctx, inputs, "/evidence/case/report")
}

func (c *AIRIntegration) evidenceDownload(ctx context.Context, inputs map[string]interface{}, basePath string) (*operation.Result, error) {
	endpointID, taskID, err := c.endpointTaskIDs(inputs)
	if err != nil {
		return nil, err
	}
	fullURL, err := c.BuildURL(basePath+"/{endpoint_id}/{task_id}", map[string]interface{}{
		"endpoint_id": endpointID,
		"task_id":     taskID,
	})
	if err != nil {
		return nil, err
	}
	return c.fileDownload(ctx, fullURL)
}

// fileDownload fetches a file endpoint. These endpoints answer with raw
// bytes on success and a JSON envelope on failure, so the content type
// decides how the body is treated.
func (c *AIRIntegration) fileDownload(ctx context.Context, fullURL string) (*operation.Result, error) {
	resp, err := c.ExecuteRequest(ctx, "GET", fullURL, c.defaultHeaders(), nil)
	if err != nil {
		return nil, err
	}

	contentType := ""
	if vals := resp.Headers["Content-Type"]; len(vals) > 0 {
		contentType = vals[0]
	}

	if strings.Contains(contentType, "application/json") {
		env, err := decodeEnvelope(resp)
		if err != nil {
			return nil, err
		}
		return c.resultFromEnvelope(env, resp)
	}

	result := c.ToResult(resp, nil)
	if result.Metadata == nil {
		result.Metadata = map[string]interface{}{}
	}
	result.Metadata["content_type"] = contentType
	result.Metadata["size"] = len(resp.Body)
	return result, nil
}

func (c *AIRIntegration) endpointTaskIDs(inputs map[string]interface{}) (string, string, error) {
	if err := c.ValidateRequired(inputs, []string{"endpoint_id", "task_id"}); err != nil {
		return "", "", err
	}
	endpointID, err := NormalizeID(stringify(inputs["endpoint_id"]))
	if err != nil {
		return "", "", operation.NewValidationError("endpoint ID: %v", err)
	}
	taskID, err := NormalizeID(stringify(inputs["task_id"]))
	if err != nil {
		return "", "", operation.NewValidationError("task ID: %v", err)
	}
	return endpointID, taskID, nil
}

func (c *AIRIntegration) assignAcquisitionTask(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	if err := c.ValidateRequired(inputs, []string{"case_id", "acquisition_profile_id"}); err != nil {
		return nil, err
	}

	caseID, err := NormalizeID(stringify(inputs["case_id"]))
	if err != nil {
		return nil, operation.NewValidationError("case ID: %v", err)
	}
	profileID, err := NormalizeID(stringify(inputs["acquisition_profile_id"]))
	if err != nil {
		return nil, operation.NewValidationError("acquisition profile ID: %v", err)
	}

	filter, err := c.requireAssetFilter(ctx, inputs)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"caseId":               caseID,
		"acquisitionProfileId": profileID,
		"filter":               filter,
	}
	if cfg, ok := inputs["drone_config"].(map[string]interface{}); ok && len(cfg) > 0 {
		body["droneConfig"] = cfg
	}
	if cfg, ok := inputs["task_config"].(map[string]interface{}); ok && len(cfg) > 0 {
		body["taskConfig"] = cfg
	}

	return c.executeCall(ctx, "POST", "/acquisitions/acquire", nil, body)
}

func (c *AIRIntegration) assignImageAcquisitionTask(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	if err := c.ValidateRequired(inputs, []string{"case_id", "disk_image_options"}); err != nil {
		return nil, err
	}

	caseID, err := NormalizeID(stringify(inputs["case_id"]))
	if err != nil {
		return nil, operation.NewValidationError("case ID: %v", err)
	}
	options, ok := inputs["disk_image_options"].(map[string]interface{})
	if !ok || len(options) == 0 {
		return nil, operation.NewValidationError("disk_image_options must be a non-empty object")
	}

	filter, err := c.requireAssetFilter(ctx, inputs)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"caseId":    caseID,
		"diskImage": options,
		"filter":    filter,
	}
	if cfg, ok := inputs["task_config"].(map[string]interface{}); ok && len(cfg) > 0 {
		body["taskConfig"] = cfg
	}

	return c.executeCall(ctx, "POST", "/acquisitions/acquire/image", nil, body)
}

func (c *AIRIntegration) listAcquisitionProfiles(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.executeList(ctx, "list_acquisition_profiles", "/acquisitions/profiles", inputs)
}

func (c *AIRIntegration) getAcquisitionProfile(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "acquisition profile ID")
	if err != nil {
		return nil, err
	}
	return c.executeCall(ctx, "GET", "/acquisitions/profiles/"+url.PathEscape(id), nil, nil)
}
