// Package air implements the Binalyze AIR console integration.
//
// Every operation is stateless: inputs in, one or more HTTP calls against
// the console's public API, a shaped result out. The console wraps all
// responses in a {success, result, statusCode, errors} envelope; the
// envelope, not the HTTP status, decides success.
package air

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/tombee/conductor-air/internal/log"
	"github.com/tombee/conductor-air/internal/operation"
	"github.com/tombee/conductor-air/internal/operation/api"
)

// publicAPIPrefix is appended to the configured instance URL. Deployment
// package URLs are the one exception: they hang off the instance root.
const publicAPIPrefix = "/api/public"

// defaultPollInterval is the delay between session status polls.
const defaultPollInterval = 60 * time.Second

// AIRIntegration implements the Connector interface for a Binalyze AIR
// console.
type AIRIntegration struct {
	*api.BaseProvider

	// instanceURL is the console root without the public API prefix.
	instanceURL string

	logger  *slog.Logger
	metrics *operation.MetricsCollector

	// pollInterval is overridable in tests.
	pollInterval time.Duration
}

// NewAIRIntegration creates a new AIR integration. config.BaseURL is the
// console instance URL (e.g. "https://air.example.com").
func NewAIRIntegration(config *api.ProviderConfig) (*AIRIntegration, error) {
	if config.BaseURL == "" {
		return nil, operation.NewValidationError("instance URL is required")
	}

	instanceURL := strings.TrimRight(config.BaseURL, "/")
	apiConfig := *config
	apiConfig.BaseURL = instanceURL + publicAPIPrefix

	base := api.NewBaseProvider("air", &apiConfig)

	return &AIRIntegration{
		BaseProvider: base,
		instanceURL:  instanceURL,
		logger:       log.WithComponent(log.New(log.FromEnv()), "integration.air"),
		metrics:      operation.NewMetricsCollector(),
		pollInterval: defaultPollInterval,
	}, nil
}

// Metrics returns the in-process request counters for this integration.
func (c *AIRIntegration) Metrics() *operation.MetricsCollector {
	return c.metrics
}

// Execute runs a named operation with the given inputs.
func (c *AIRIntegration) Execute(ctx context.Context, opName string, inputs map[string]interface{}) (*operation.Result, error) {
	start := time.Now()
	result, err := c.execute(ctx, opName, inputs)
	c.record(opName, result, err, time.Since(start))
	return result, err
}

func (c *AIRIntegration) execute(ctx context.Context, opName string, inputs map[string]interface{}) (*operation.Result, error) {
	switch opName {
	// Assets
	case "get_asset":
		return c.getAsset(ctx, inputs)
	case "list_assets":
		return c.listAssets(ctx, inputs)
	case "add_asset_tags":
		return c.addAssetTags(ctx, inputs)
	case "remove_asset_tags":
		return c.removeAssetTags(ctx, inputs)
	case "uninstall_asset":
		return c.uninstallAsset(ctx, inputs)
	case "purge_and_uninstall_asset":
		return c.purgeAndUninstallAsset(ctx, inputs)
	case "isolate_asset":
		return c.setAssetIsolation(ctx, inputs, true)
	case "unisolate_asset":
		return c.setAssetIsolation(ctx, inputs, false)
	case "reboot_asset":
		return c.rebootAsset(ctx, inputs)
	case "shutdown_asset":
		return c.shutdownAsset(ctx, inputs)
	case "get_asset_tasks":
		return c.getAssetTasks(ctx, inputs)

	// Tasks
	case "list_tasks":
		return c.listTasks(ctx, inputs)
	case "get_task":
		return c.getTask(ctx, inputs)
	case "cancel_task":
		return c.cancelTask(ctx, inputs)
	case "delete_task":
		return c.deleteTask(ctx, inputs)
	case "list_task_assignments":
		return c.listTaskAssignments(ctx, inputs)
	case "cancel_task_assignment":
		return c.cancelTaskAssignment(ctx, inputs)
	case "delete_task_assignment":
		return c.deleteTaskAssignment(ctx, inputs)

	// Organizations
	case "list_organizations":
		return c.listOrganizations(ctx, inputs)
	case "get_organization":
		return c.getOrganization(ctx, inputs)
	case "create_organization":
		return c.createOrganization(ctx, inputs)
	case "update_organization":
		return c.updateOrganization(ctx, inputs)
	case "get_organization_users":
		return c.getOrganizationUsers(ctx, inputs)
	case "add_organization_tags":
		return c.addOrganizationTags(ctx, inputs)
	case "delete_organization_tags":
		return c.deleteOrganizationTags(ctx, inputs)
	case "update_shareable_deployment":
		return c.updateShareableDeployment(ctx, inputs)
	case "update_deployment_token":
		return c.updateDeploymentToken(ctx, inputs)

	// Deployment packages
	case "get_deployment_packages":
		return c.getDeploymentPackages(ctx, inputs)

	// Triage
	case "list_triage_rules":
		return c.listTriageRules(ctx, inputs)
	case "get_triage_rule":
		return c.getTriageRule(ctx, inputs)
	case "create_triage_rule":
		return c.createTriageRule(ctx, inputs)
	case "update_triage_rule":
		return c.updateTriageRule(ctx, inputs)
	case "delete_triage_rule":
		return c.deleteTriageRule(ctx, inputs)
	case "validate_triage_rule":
		return c.validateTriageRule(ctx, inputs)
	case "assign_triage_task":
		return c.assignTriageTask(ctx, inputs)
	case "list_triage_tags":
		return c.listTriageTags(ctx, inputs)
	case "create_triage_tag":
		return c.createTriageTag(ctx, inputs)

	// Cases
	case "list_cases":
		return c.listCases(ctx, inputs)
	case "get_case":
		return c.getCase(ctx, inputs)
	case "create_case":
		return c.createCase(ctx, inputs)
	case "update_case":
		return c.updateCase(ctx, inputs)
	case "close_case":
		return c.closeCase(ctx, inputs)
	case "open_case":
		return c.openCase(ctx, inputs)
	case "archive_case":
		return c.archiveCase(ctx, inputs)
	case "change_case_owner":
		return c.changeCaseOwner(ctx, inputs)
	case "check_case_name":
		return c.checkCaseName(ctx, inputs)
	case "get_case_activities":
		return c.getCaseActivities(ctx, inputs)
	case "get_case_endpoints":
		return c.getCaseEndpoints(ctx, inputs)
	case "get_case_tasks":
		return c.getCaseTasks(ctx, inputs)
	case "get_case_users":
		return c.getCaseUsers(ctx, inputs)
	case "export_case_notes":
		return c.exportCaseNotes(ctx, inputs)

	// Evidence & acquisitions
	case "get_evidence_ppc":
		return c.getEvidencePPC(ctx, inputs)
	case "get_evidence_report_file_info":
		return c.getEvidenceReportFileInfo(ctx, inputs)
	case "get_evidence_report":
		return c.getEvidenceReport(ctx, inputs)
	case "assign_acquisition_task":
		return c.assignAcquisitionTask(ctx, inputs)
	case "assign_image_acquisition_task":
		return c.assignImageAcquisitionTask(ctx, inputs)
	case "list_acquisition_profiles":
		return c.listAcquisitionProfiles(ctx, inputs)
	case "get_acquisition_profile":
		return c.getAcquisitionProfile(ctx, inputs)

	// InterACT
	case "assign_interact_shell_task":
		return c.assignInteractShellTask(ctx, inputs)
	case "wait_for_session":
		return c.waitForSession(ctx, inputs)

	default:
		return nil, operation.NewValidationError("unknown operation: %s", opName)
	}
}

func (c *AIRIntegration) record(opName string, result *operation.Result, err error, duration time.Duration) {
	statusCode := 0
	if result != nil {
		statusCode = result.StatusCode
	}
	c.metrics.RecordRequest(opName, statusCode, duration)

	logger := log.WithOperation(c.logger, opName)
	if err != nil {
		logger.Debug("operation failed", log.Error(err), log.Duration(log.DurationKey, duration.Milliseconds()))
		return
	}
	logger.Debug("operation completed",
		slog.Int(log.StatusCodeKey, statusCode),
		log.Duration(log.DurationKey, duration.Milliseconds()))
}

// Operations returns the list of available operations.
func (c *AIRIntegration) Operations() []api.OperationInfo {
	return []api.OperationInfo{
		// Assets
		{Name: "get_asset", Description: "Get a single asset by ID", Category: "assets", Tags: []string{"read"}},
		{Name: "list_assets", Description: "List assets, optionally filtered", Category: "assets", Tags: []string{"read", "paginated"}},
		{Name: "add_asset_tags", Description: "Add tags to assets matching a filter", Category: "assets", Tags: []string{"write"}},
		{Name: "remove_asset_tags", Description: "Remove tags from assets matching a filter", Category: "assets", Tags: []string{"write"}},
		{Name: "uninstall_asset", Description: "Uninstall agents without purging collected data", Category: "assets", Tags: []string{"write", "destructive"}},
		{Name: "purge_and_uninstall_asset", Description: "Purge collected data and uninstall agents", Category: "assets", Tags: []string{"write", "destructive"}},
		{Name: "isolate_asset", Description: "Enable network isolation on assets matching a filter", Category: "assets", Tags: []string{"write"}},
		{Name: "unisolate_asset", Description: "Disable network isolation on assets matching a filter", Category: "assets", Tags: []string{"write"}},
		{Name: "reboot_asset", Description: "Reboot assets matching a filter", Category: "assets", Tags: []string{"write"}},
		{Name: "shutdown_asset", Description: "Shut down assets matching a filter", Category: "assets", Tags: []string{"write", "destructive"}},
		{Name: "get_asset_tasks", Description: "List tasks assigned to an asset", Category: "assets", Tags: []string{"read"}},

		// Tasks
		{Name: "list_tasks", Description: "List tasks, optionally filtered", Category: "tasks", Tags: []string{"read", "paginated"}},
		{Name: "get_task", Description: "Get a single task by ID", Category: "tasks", Tags: []string{"read"}},
		{Name: "cancel_task", Description: "Cancel a task", Category: "tasks", Tags: []string{"write"}},
		{Name: "delete_task", Description: "Delete a task", Category: "tasks", Tags: []string{"write", "destructive"}},
		{Name: "list_task_assignments", Description: "List per-asset assignments of a task", Category: "tasks", Tags: []string{"read"}},
		{Name: "cancel_task_assignment", Description: "Cancel a single task assignment", Category: "tasks", Tags: []string{"write"}},
		{Name: "delete_task_assignment", Description: "Delete a single task assignment", Category: "tasks", Tags: []string{"write", "destructive"}},

		// Organizations
		{Name: "list_organizations", Description: "List organizations", Category: "organizations", Tags: []string{"read", "paginated"}},
		{Name: "get_organization", Description: "Get a single organization by ID", Category: "organizations", Tags: []string{"read"}},
		{Name: "create_organization", Description: "Create an organization", Category: "organizations", Tags: []string{"write"}},
		{Name: "update_organization", Description: "Update an organization", Category: "organizations", Tags: []string{"write"}},
		{Name: "get_organization_users", Description: "List users of an organization", Category: "organizations", Tags: []string{"read"}},
		{Name: "add_organization_tags", Description: "Add tags to an organization", Category: "organizations", Tags: []string{"write"}},
		{Name: "delete_organization_tags", Description: "Delete tags from an organization", Category: "organizations", Tags: []string{"write"}},
		{Name: "update_shareable_deployment", Description: "Enable or disable shareable deployment for an organization", Category: "organizations", Tags: []string{"write"}},
		{Name: "update_deployment_token", Description: "Rotate an organization's deployment token", Category: "organizations", Tags: []string{"write"}},

		// Deployment packages
		{Name: "get_deployment_packages", Description: "Build agent installer download URLs for an organization", Category: "deploy", Tags: []string{"read"}},

		// Triage
		{Name: "list_triage_rules", Description: "List triage rules", Category: "triage", Tags: []string{"read", "paginated"}},
		{Name: "get_triage_rule", Description: "Get a single triage rule by ID", Category: "triage", Tags: []string{"read"}},
		{Name: "create_triage_rule", Description: "Create a triage rule", Category: "triage", Tags: []string{"write"}},
		{Name: "update_triage_rule", Description: "Update a triage rule", Category: "triage", Tags: []string{"write"}},
		{Name: "delete_triage_rule", Description: "Delete a triage rule", Category: "triage", Tags: []string{"write", "destructive"}},
		{Name: "validate_triage_rule", Description: "Validate triage rule content without saving it", Category: "triage", Tags: []string{"read"}},
		{Name: "assign_triage_task", Description: "Assign a triage task to assets matching a filter", Category: "triage", Tags: []string{"write"}},
		{Name: "list_triage_tags", Description: "List triage tags for an organization", Category: "triage", Tags: []string{"read"}},
		{Name: "create_triage_tag", Description: "Create a triage tag", Category: "triage", Tags: []string{"write"}},

		// Cases
		{Name: "list_cases", Description: "List cases", Category: "cases", Tags: []string{"read", "paginated"}},
		{Name: "get_case", Description: "Get a single case by ID", Category: "cases", Tags: []string{"read"}},
		{Name: "create_case", Description: "Create a case", Category: "cases", Tags: []string{"write"}},
		{Name: "update_case", Description: "Update a case", Category: "cases", Tags: []string{"write"}},
		{Name: "close_case", Description: "Close a case", Category: "cases", Tags: []string{"write"}},
		{Name: "open_case", Description: "Reopen a case", Category: "cases", Tags: []string{"write"}},
		{Name: "archive_case", Description: "Archive a case", Category: "cases", Tags: []string{"write"}},
		{Name: "change_case_owner", Description: "Change the owner of a case", Category: "cases", Tags: []string{"write"}},
		{Name: "check_case_name", Description: "Check whether a case name is available", Category: "cases", Tags: []string{"read"}},
		{Name: "get_case_activities", Description: "List activities recorded on a case", Category: "cases", Tags: []string{"read"}},
		{Name: "get_case_endpoints", Description: "List endpoints attached to a case", Category: "cases", Tags: []string{"read"}},
		{Name: "get_case_tasks", Description: "List tasks attached to a case", Category: "cases", Tags: []string{"read"}},
		{Name: "get_case_users", Description: "List users with access to a case", Category: "cases", Tags: []string{"read"}},
		{Name: "export_case_notes", Description: "Export the notes of a case", Category: "cases", Tags: []string{"read"}},

		// Evidence & acquisitions
		{Name: "get_evidence_ppc", Description: "Get the PPC evidence file for an endpoint's task", Category: "evidence", Tags: []string{"read"}},
		{Name: "get_evidence_report_file_info", Description: "Get report file metadata for an endpoint's task", Category: "evidence", Tags: []string{"read"}},
		{Name: "get_evidence_report", Description: "Get the evidence report for an endpoint's task", Category: "evidence", Tags: []string{"read"}},
		{Name: "assign_acquisition_task", Description: "Assign an evidence acquisition task to assets matching a filter", Category: "evidence", Tags: []string{"write"}},
		{Name: "assign_image_acquisition_task", Description: "Assign a disk image acquisition task", Category: "evidence", Tags: []string{"write"}},
		{Name: "list_acquisition_profiles", Description: "List acquisition profiles", Category: "evidence", Tags: []string{"read"}},
		{Name: "get_acquisition_profile", Description: "Get a single acquisition profile by ID", Category: "evidence", Tags: []string{"read"}},

		// InterACT
		{Name: "assign_interact_shell_task", Description: "Open an InterACT shell session on an asset", Category: "interact", Tags: []string{"write"}},
		{Name: "wait_for_session", Description: "Wait for an InterACT session task to go live", Category: "interact", Tags: []string{"read", "blocking"}},
	}
}

// OperationSchema returns the schema for an operation.
func (c *AIRIntegration) OperationSchema(opName string) *api.OperationSchema {
	return operationSchemas[opName]
}

// defaultHeaders returns default headers for AIR API requests. Bearer
// authentication is applied by ExecuteRequest.
func (c *AIRIntegration) defaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
	}
}
