package air

import "github.com/tombee/conductor-air/internal/operation/api"

// Shared parameter fragments. Most write operations target assets through
// the same endpoint filter the list operations use.
var (
	assetFilterParams = []api.ParameterInfo{
		{Name: "search_term", Type: "string", Description: "Free-text search over asset fields"},
		{Name: "name", Type: "string", Description: "Asset hostname"},
		{Name: "ip_address", Type: "string", Description: "Asset IP address"},
		{Name: "group_id", Type: "string", Description: "Endpoint group ID"},
		{Name: "platform", Type: "string", Description: "Comma-separated platforms (windows, linux, darwin)"},
		{Name: "online_status", Type: "string", Description: "Comma-separated online statuses"},
		{Name: "managed_status", Type: "string", Description: "Comma-separated managed statuses"},
		{Name: "isolation_status", Type: "string", Description: "Comma-separated isolation statuses"},
		{Name: "tags", Type: "string", Description: "Comma-separated asset tags"},
		{Name: "included_endpoint_ids", Type: "array", Description: "Endpoint IDs to include"},
		{Name: "excluded_endpoint_ids", Type: "array", Description: "Endpoint IDs to exclude"},
		{Name: "organization_ids", Type: "array", Description: "Organization IDs, or a {mode, value} locator"},
	}

	paginationParams = []api.ParameterInfo{
		{Name: "paginate", Type: "boolean", Description: "Fetch all pages", Default: false},
		{Name: "page_size", Type: "integer", Description: "Entities per page", Default: defaultPageSize},
		{Name: "max_results", Type: "integer", Description: "Stop after this many entities (0 = unlimited)", Default: 0},
	}

	idParam = func(desc string) []api.ParameterInfo {
		return []api.ParameterInfo{{Name: "id", Type: "string", Description: desc, Required: true}}
	}

	endpointTaskParams = []api.ParameterInfo{
		{Name: "endpoint_id", Type: "string", Description: "Endpoint ID", Required: true},
		{Name: "task_id", Type: "string", Description: "Task ID", Required: true},
	}

	entityListResponse = []api.ResponseFieldInfo{
		{Name: "entities", Type: "array", Description: "Matching records in page-major order"},
	}
)

func listSchema(desc string, filter []api.ParameterInfo) *api.OperationSchema {
	params := make([]api.ParameterInfo, 0, len(filter)+len(paginationParams))
	params = append(params, filter...)
	params = append(params, paginationParams...)
	return &api.OperationSchema{Description: desc, Parameters: params, ResponseFields: entityListResponse}
}

func filterActionSchema(desc string, extra ...api.ParameterInfo) *api.OperationSchema {
	params := make([]api.ParameterInfo, 0, len(assetFilterParams)+len(extra))
	params = append(params, extra...)
	params = append(params, assetFilterParams...)
	return &api.OperationSchema{Description: desc, Parameters: params}
}

var searchOrgParams = []api.ParameterInfo{
	{Name: "search_term", Type: "string", Description: "Free-text search"},
	{Name: "organization_ids", Type: "array", Description: "Organization IDs, or a {mode, value} locator"},
}

var operationSchemas = map[string]*api.OperationSchema{
	// Assets
	"get_asset": {Description: "Get a single asset by ID", Parameters: idParam("Asset (endpoint) ID")},
	"list_assets": listSchema("List assets matching the endpoint filter", assetFilterParams),
	"add_asset_tags": filterActionSchema("Add tags to assets matching the filter",
		api.ParameterInfo{Name: "tags", Type: "array", Description: "Tags to add", Required: true}),
	"remove_asset_tags": filterActionSchema("Remove tags from assets matching the filter",
		api.ParameterInfo{Name: "tags", Type: "array", Description: "Tags to remove", Required: true}),
	"uninstall_asset":           filterActionSchema("Uninstall agents without purging collected data"),
	"purge_and_uninstall_asset": filterActionSchema("Purge collected data and uninstall agents"),
	"isolate_asset":             filterActionSchema("Enable network isolation"),
	"unisolate_asset":           filterActionSchema("Disable network isolation"),
	"reboot_asset":              filterActionSchema("Reboot assets matching the filter"),
	"shutdown_asset":            filterActionSchema("Shut down assets matching the filter"),
	"get_asset_tasks":           {Description: "List tasks assigned to an asset", Parameters: idParam("Asset (endpoint) ID"), ResponseFields: entityListResponse},

	// Tasks
	"list_tasks":             listSchema("List tasks", searchOrgParams),
	"get_task":               {Description: "Get a single task by ID", Parameters: idParam("Task ID")},
	"cancel_task":            {Description: "Cancel a task", Parameters: idParam("Task ID")},
	"delete_task":            {Description: "Delete a task", Parameters: idParam("Task ID")},
	"list_task_assignments":  {Description: "List per-asset assignments of a task", Parameters: idParam("Task ID"), ResponseFields: entityListResponse},
	"cancel_task_assignment": {Description: "Cancel a single task assignment", Parameters: idParam("Task assignment ID")},
	"delete_task_assignment": {Description: "Delete a single task assignment", Parameters: idParam("Task assignment ID")},

	// Organizations
	"list_organizations": listSchema("List organizations", nil),
	"get_organization":   {Description: "Get a single organization by ID", Parameters: idParam("Organization ID")},
	"create_organization": {Description: "Create an organization", Parameters: []api.ParameterInfo{
		{Name: "name", Type: "string", Description: "Organization name", Required: true},
		{Name: "contact_name", Type: "string", Description: "Contact person name"},
		{Name: "contact_email", Type: "string", Description: "Contact email"},
		{Name: "note", Type: "string", Description: "Free-form note"},
		{Name: "shareable_deployment_enabled", Type: "boolean", Description: "Allow shareable deployment links"},
	}},
	"update_organization": {Description: "Update an organization", Parameters: []api.ParameterInfo{
		{Name: "id", Type: "string", Description: "Organization ID", Required: true},
		{Name: "name", Type: "string", Description: "Organization name"},
		{Name: "contact_name", Type: "string", Description: "Contact person name"},
		{Name: "contact_email", Type: "string", Description: "Contact email"},
		{Name: "note", Type: "string", Description: "Free-form note"},
	}},
	"get_organization_users": {Description: "List users of an organization", Parameters: idParam("Organization ID"), ResponseFields: entityListResponse},
	"add_organization_tags": {Description: "Add tags to an organization", Parameters: []api.ParameterInfo{
		{Name: "id", Type: "string", Description: "Organization ID", Required: true},
		{Name: "tags", Type: "array", Description: "Tags to add", Required: true},
	}},
	"delete_organization_tags": {Description: "Delete tags from an organization", Parameters: []api.ParameterInfo{
		{Name: "id", Type: "string", Description: "Organization ID", Required: true},
		{Name: "tags", Type: "array", Description: "Tags to delete", Required: true},
	}},
	"update_shareable_deployment": {Description: "Enable or disable shareable deployment", Parameters: []api.ParameterInfo{
		{Name: "id", Type: "string", Description: "Organization ID", Required: true},
		{Name: "status", Type: "boolean", Description: "Enable (true) or disable (false)", Required: true},
	}},
	"update_deployment_token": {Description: "Rotate an organization's deployment token", Parameters: []api.ParameterInfo{
		{Name: "id", Type: "string", Description: "Organization ID", Required: true},
		{Name: "token", Type: "string", Description: "New deployment token", Required: true},
	}},

	// Deployment packages
	"get_deployment_packages": {
		Description: "Build agent installer download URLs for an organization",
		Parameters: []api.ParameterInfo{
			{Name: "organization", Type: "object", Description: "Organization ID, or a {mode, value} locator", Required: true},
		},
		ResponseFields: []api.ResponseFieldInfo{
			{Name: "packages", Type: "array", Description: "Installer URLs per platform/format/architecture"},
		},
	},

	// Triage
	"list_triage_rules": listSchema("List triage rules", searchOrgParams),
	"get_triage_rule":   {Description: "Get a single triage rule by ID", Parameters: idParam("Triage rule ID")},
	"create_triage_rule": {Description: "Create a triage rule", Parameters: []api.ParameterInfo{
		{Name: "description", Type: "string", Description: "Rule description", Required: true},
		{Name: "rule", Type: "string", Description: "Rule content", Required: true},
		{Name: "engine", Type: "string", Description: "Rule engine: yara, sigma, or osquery", Required: true},
		{Name: "search_in", Type: "string", Description: "Search scope, constrained by engine"},
		{Name: "organization_ids", Type: "array", Description: "Organization IDs the rule applies to"},
	}},
	"update_triage_rule": {Description: "Update a triage rule", Parameters: []api.ParameterInfo{
		{Name: "id", Type: "string", Description: "Triage rule ID", Required: true},
		{Name: "description", Type: "string", Description: "Rule description"},
		{Name: "rule", Type: "string", Description: "Rule content"},
		{Name: "engine", Type: "string", Description: "Rule engine: yara, sigma, or osquery"},
		{Name: "search_in", Type: "string", Description: "Search scope, constrained by engine"},
		{Name: "organization_ids", Type: "array", Description: "Organization IDs the rule applies to"},
	}},
	"delete_triage_rule": {Description: "Delete a triage rule", Parameters: idParam("Triage rule ID")},
	"validate_triage_rule": {Description: "Validate triage rule content without saving it", Parameters: []api.ParameterInfo{
		{Name: "rule", Type: "string", Description: "Rule content", Required: true},
		{Name: "engine", Type: "string", Description: "Rule engine: yara, sigma, or osquery", Required: true},
	}},
	"assign_triage_task": filterActionSchema("Assign a triage task to assets matching the filter",
		api.ParameterInfo{Name: "case_id", Type: "string", Description: "Case to attach results to", Required: true},
		api.ParameterInfo{Name: "triage_rule_ids", Type: "array", Description: "Triage rule IDs to run", Required: true},
		api.ParameterInfo{Name: "task_config", Type: "object", Description: "Optional task configuration overrides"}),
	"list_triage_tags": {Description: "List triage tags for an organization", Parameters: []api.ParameterInfo{
		{Name: "organization_id", Type: "string", Description: "Organization ID", Default: "0"},
	}, ResponseFields: entityListResponse},
	"create_triage_tag": {Description: "Create a triage tag", Parameters: []api.ParameterInfo{
		{Name: "name", Type: "string", Description: "Tag name", Required: true},
		{Name: "organization_id", Type: "string", Description: "Organization ID", Default: "0"},
	}},

	// Cases
	"list_cases": listSchema("List cases", searchOrgParams),
	"get_case":   {Description: "Get a single case by ID", Parameters: idParam("Case ID")},
	"create_case": {Description: "Create a case", Parameters: []api.ParameterInfo{
		{Name: "name", Type: "string", Description: "Case name", Required: true},
		{Name: "owner_user_id", Type: "string", Description: "Owner user ID", Required: true},
		{Name: "organization_id", Type: "string", Description: "Organization ID", Default: "0"},
		{Name: "visibility", Type: "string", Description: "Case visibility"},
		{Name: "assigned_user_ids", Type: "array", Description: "Assigned user IDs"},
	}},
	"update_case": {Description: "Update a case", Parameters: []api.ParameterInfo{
		{Name: "id", Type: "string", Description: "Case ID", Required: true},
		{Name: "name", Type: "string", Description: "Case name"},
		{Name: "owner_user_id", Type: "string", Description: "Owner user ID"},
		{Name: "visibility", Type: "string", Description: "Case visibility"},
		{Name: "notes", Type: "array", Description: "Case notes"},
	}},
	"close_case":   {Description: "Close a case", Parameters: idParam("Case ID")},
	"open_case":    {Description: "Reopen a case", Parameters: idParam("Case ID")},
	"archive_case": {Description: "Archive a case", Parameters: idParam("Case ID")},
	"change_case_owner": {Description: "Change the owner of a case", Parameters: []api.ParameterInfo{
		{Name: "id", Type: "string", Description: "Case ID", Required: true},
		{Name: "new_owner_id", Type: "string", Description: "New owner user ID", Required: true},
	}},
	"check_case_name": {Description: "Check whether a case name is available", Parameters: []api.ParameterInfo{
		{Name: "name", Type: "string", Description: "Candidate case name", Required: true},
	}},
	"get_case_activities": {Description: "List activities recorded on a case", Parameters: idParam("Case ID"), ResponseFields: entityListResponse},
	"get_case_endpoints":  {Description: "List endpoints attached to a case", Parameters: idParam("Case ID"), ResponseFields: entityListResponse},
	"get_case_tasks":      {Description: "List tasks attached to a case", Parameters: idParam("Case ID"), ResponseFields: entityListResponse},
	"get_case_users":      {Description: "List users with access to a case", Parameters: idParam("Case ID"), ResponseFields: entityListResponse},
	"export_case_notes":   {Description: "Export the notes of a case", Parameters: idParam("Case ID")},

	// Evidence & acquisitions
	"get_evidence_ppc":              {Description: "Get the PPC evidence file for an endpoint's task", Parameters: endpointTaskParams},
	"get_evidence_report_file_info": {Description: "Get report file metadata for an endpoint's task", Parameters: endpointTaskParams},
	"get_evidence_report":           {Description: "Get the evidence report for an endpoint's task", Parameters: endpointTaskParams},
	"assign_acquisition_task": filterActionSchema("Assign an evidence acquisition task",
		api.ParameterInfo{Name: "case_id", Type: "string", Description: "Case to attach results to", Required: true},
		api.ParameterInfo{Name: "acquisition_profile_id", Type: "string", Description: "Acquisition profile ID", Required: true},
		api.ParameterInfo{Name: "drone_config", Type: "object", Description: "Optional analyzer configuration"},
		api.ParameterInfo{Name: "task_config", Type: "object", Description: "Optional task configuration overrides"}),
	"assign_image_acquisition_task": filterActionSchema("Assign a disk image acquisition task",
		api.ParameterInfo{Name: "case_id", Type: "string", Description: "Case to attach results to", Required: true},
		api.ParameterInfo{Name: "disk_image_options", Type: "object", Description: "Volumes and image format options", Required: true},
		api.ParameterInfo{Name: "task_config", Type: "object", Description: "Optional task configuration overrides"}),
	"list_acquisition_profiles": {Description: "List acquisition profiles", Parameters: searchOrgParams, ResponseFields: entityListResponse},
	"get_acquisition_profile":   {Description: "Get a single acquisition profile by ID", Parameters: idParam("Acquisition profile ID")},

	// InterACT
	"assign_interact_shell_task": {Description: "Open an InterACT shell session on an asset", Parameters: []api.ParameterInfo{
		{Name: "asset_id", Type: "string", Description: "Asset (endpoint) ID", Required: true},
		{Name: "case_id", Type: "string", Description: "Case to attach the session to"},
		{Name: "task_config", Type: "object", Description: "Optional task configuration overrides"},
	}},
	"wait_for_session": {Description: "Wait for an InterACT session task to go live", Parameters: []api.ParameterInfo{
		{Name: "task_id", Type: "string", Description: "Backing task ID from assign_interact_shell_task", Required: true},
		{Name: "timeout", Type: "integer", Description: "Seconds to wait before giving up (0 disables)", Default: 0},
	}, ResponseFields: []api.ResponseFieldInfo{
		{Name: "status", Type: "string", Description: "live, completed, cancelled, failed, or timeout"},
		{Name: "task", Type: "object", Description: "Final task record"},
	}},
}
