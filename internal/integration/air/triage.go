package air

import (
	"context"
	"net/url"
	"strings"

	"github.com/tombee/conductor-air/internal/operation"
)

const triageRulesPath = "/triages/rules"

func (c *AIRIntegration) listTriageRules(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.executeList(ctx, "list_triage_rules", triageRulesPath, inputs)
}

func (c *AIRIntegration) getTriageRule(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "triage rule ID")
	if err != nil {
		return nil, err
	}
	return c.executeCall(ctx, "GET", triageRulesPath+"/"+url.PathEscape(id), nil, nil)
}

func (c *AIRIntegration) createTriageRule(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	if err := c.ValidateRequired(inputs, []string{"description", "rule", "engine"}); err != nil {
		return nil, err
	}

	engine := strings.ToLower(strings.TrimSpace(stringify(inputs["engine"])))
	searchIn, err := resolveSearchIn(engine, stringify(inputs["search_in"]))
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"description": stringify(inputs["description"]),
		"rule":        stringify(inputs["rule"]),
		"engine":      engine,
		"searchIn":    searchIn,
	}
	orgIDs, err := resolveOrgIDs(ctx, inputs["organization_ids"], c)
	if err != nil {
		return nil, err
	}
	if len(orgIDs) > 0 {
		body["organizationIds"] = orgIDs
	}

	return c.executeCall(ctx, "POST", triageRulesPath, nil, body)
}

func (c *AIRIntegration) updateTriageRule(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "triage rule ID")
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{}
	if v, ok := inputs["description"].(string); ok && v != "" {
		body["description"] = v
	}
	if v, ok := inputs["rule"].(string); ok && v != "" {
		body["rule"] = v
	}
	if v, ok := inputs["engine"].(string); ok && v != "" {
		engine := strings.ToLower(strings.TrimSpace(v))
		searchIn, err := resolveSearchIn(engine, stringify(inputs["search_in"]))
		if err != nil {
			return nil, err
		}
		body["engine"] = engine
		body["searchIn"] = searchIn
	}
	orgIDs, err := resolveOrgIDs(ctx, inputs["organization_ids"], c)
	if err != nil {
		return nil, err
	}
	if len(orgIDs) > 0 {
		body["organizationIds"] = orgIDs
	}
	if len(body) == 0 {
		return nil, operation.NewValidationError("update_triage_rule requires at least one field to change")
	}

	return c.executeCall(ctx, "PUT", triageRulesPath+"/"+url.PathEscape(id), nil, body)
}

func (c *AIRIntegration) deleteTriageRule(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	id, err := c.requiredID(inputs, "triage rule ID")
	if err != nil {
		return nil, err
	}
	return c.executeCall(ctx, "DELETE", triageRulesPath+"/"+url.PathEscape(id), nil, nil)
}

// validateTriageRule checks rule content server-side without saving it.
// The console answers validation failures with a non-2xx status but a
// decodable envelope; success is whatever the envelope says.
func (c *AIRIntegration) validateTriageRule(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	if err := c.ValidateRequired(inputs, []string{"rule", "engine"}); err != nil {
		return nil, err
	}

	engine := strings.ToLower(strings.TrimSpace(stringify(inputs["engine"])))
	if _, err := resolveSearchIn(engine, ""); err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"rule":   stringify(inputs["rule"]),
		"engine": engine,
	}
	return c.executeCall(ctx, "POST", triageRulesPath+"/validate", nil, body)
}

func (c *AIRIntegration) assignTriageTask(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	if err := c.ValidateRequired(inputs, []string{"case_id", "triage_rule_ids"}); err != nil {
		return nil, err
	}

	caseID, err := NormalizeID(stringify(inputs["case_id"]))
	if err != nil {
		return nil, operation.NewValidationError("case ID: %v", err)
	}

	ruleIDs := splitCommaList(inputs["triage_rule_ids"])
	if len(ruleIDs) == 0 {
		return nil, operation.NewValidationError("triage_rule_ids must contain at least one rule ID")
	}
	for i, id := range ruleIDs {
		normalized, err := NormalizeID(id)
		if err != nil {
			return nil, operation.NewValidationError("triage rule ID %q: %v", id, err)
		}
		ruleIDs[i] = normalized
	}

	filter, err := c.requireAssetFilter(ctx, inputs)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"caseId":        caseID,
		"triageRuleIds": ruleIDs,
		"filter":        filter,
	}
	if cfg, ok := inputs["task_config"].(map[string]interface{}); ok && len(cfg) > 0 {
		body["taskConfig"] = cfg
	}

	return c.executeCall(ctx, "POST", "/triages/triage", nil, body)
}

func (c *AIRIntegration) listTriageTags(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	return c.executeList(ctx, "list_triage_tags", "/triages/tags", inputs)
}

func (c *AIRIntegration) createTriageTag(ctx context.Context, inputs map[string]interface{}) (*operation.Result, error) {
	if err := c.ValidateRequired(inputs, []string{"name"}); err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"name": strings.TrimSpace(stringify(inputs["name"])),
	}
	if v, ok := inputs["organization_id"]; ok && stringify(v) != "" {
		body["organizationId"] = coerceOrgID(stringify(v))
	} else {
		body["organizationId"] = 0
	}

	return c.executeCall(ctx, "POST", "/triages/tags", nil, body)
}

// resolveSearchIn enforces the engine/scope coupling. YARA rules choose a
// scope (filesystem default); sigma and osquery scopes are fixed by the
// server and anything else is rejected before the wire call.
func resolveSearchIn(engine, searchIn string) (string, error) {
	searchIn = strings.ToLower(strings.TrimSpace(searchIn))

	switch engine {
	case TriageEngineYara:
		switch searchIn {
		case "":
			return SearchInFileSystem, nil
		case SearchInFileSystem, SearchInMemory, SearchInBoth:
			return searchIn, nil
		default:
			return "", operation.NewValidationError("yara rules search in filesystem, memory, or both; got %q", searchIn)
		}

	case TriageEngineSigma:
		if searchIn != "" && searchIn != "event-records" {
			return "", operation.NewValidationError("sigma rules always search event records; got %q", searchIn)
		}
		return "event-records", nil

	case TriageEngineOsquery:
		if searchIn != "" && searchIn != "system" {
			return "", operation.NewValidationError("osquery rules always search the system scope; got %q", searchIn)
		}
		return "system", nil

	default:
		return "", operation.NewValidationError("unknown triage engine %q (expected yara, sigma, or osquery)", engine)
	}
}
