package air

import "encoding/json"

// Asset represents a managed endpoint tracked by the AIR console.
// Lifecycle is entirely server-owned: this client only queries assets and
// issues commands against them.
type Asset struct {
	ID              string   `json:"_id"`
	Name            string   `json:"name"`
	IPAddress       string   `json:"ipAddress"`
	Platform        string   `json:"platform"`
	OSVersion       string   `json:"version"`
	OnlineStatus    string   `json:"onlineStatus"`
	ManagedStatus   string   `json:"managedStatus"`
	IsolationStatus string   `json:"isolationStatus"`
	OrganizationID  int      `json:"organizationId"`
	GroupID         string   `json:"groupId"`
	GroupFullPath   string   `json:"groupFullPath"`
	Tags            []string `json:"tags"`
	LastSeen        string   `json:"lastSeen,omitempty"`
}

// Task statuses observed via polling.
const (
	TaskStatusAssigned   = "assigned"
	TaskStatusScheduled  = "scheduled"
	TaskStatusProcessing = "processing"
	TaskStatusCompleted  = "completed"
	TaskStatusCancelled  = "cancelled"
	TaskStatusFailed     = "failed"
)

// Task represents a unit of work dispatched to one or more endpoints.
type Task struct {
	ID                      string `json:"_id"`
	Name                    string `json:"name"`
	Type                    string `json:"type"`
	Status                  string `json:"status"`
	OrganizationID          int    `json:"organizationId"`
	BaseTaskID              string `json:"baseTaskId,omitempty"`
	TotalAssignedEndpoints  int    `json:"totalAssignedEndpoints"`
	TotalCompletedEndpoints int    `json:"totalCompletedEndpoints"`
	TotalFailedEndpoints    int    `json:"totalFailedEndpoints"`
	TotalCancelledEndpoints int    `json:"totalCancelledEndpoints"`
	CreatedAt               string `json:"createdAt,omitempty"`
	UpdatedAt               string `json:"updatedAt,omitempty"`
}

// TaskAssignment represents the per-endpoint assignment of a task.
type TaskAssignment struct {
	ID           string `json:"_id"`
	TaskID       string `json:"taskId"`
	EndpointID   string `json:"endpointId"`
	EndpointName string `json:"name"`
	Status       string `json:"status"`
	Progress     int    `json:"progress"`
}

// Organization is the tenant-scoping entity. ID 0 is the server's sentinel
// for "all organizations".
type Organization struct {
	ID                         int      `json:"_id"`
	Name                       string   `json:"name"`
	TotalEndpoints             int      `json:"totalEndpoints"`
	OwnerID                    string   `json:"owner,omitempty"`
	ShareableDeploymentEnabled bool     `json:"shareableDeploymentEnabled"`
	DeploymentToken            string   `json:"deploymentToken,omitempty"`
	Note                       string   `json:"note,omitempty"`
	ContactName                string   `json:"contact,omitempty"`
	Tags                       []string `json:"tags,omitempty"`
}

// Triage rule engines.
const (
	TriageEngineYara    = "yara"
	TriageEngineSigma   = "sigma"
	TriageEngineOsquery = "osquery"
)

// YARA searchIn scopes. Sigma and osquery rules have fixed scopes
// (event-records and system respectively) chosen by the server.
const (
	SearchInFileSystem = "filesystem"
	SearchInMemory     = "memory"
	SearchInBoth       = "both"
)

// TriageRule is a detection rule evaluated against endpoints.
type TriageRule struct {
	ID              string        `json:"_id"`
	Description     string        `json:"description"`
	Engine          string        `json:"engine"`
	Rule            string        `json:"rule"`
	SearchIn        string        `json:"searchIn,omitempty"`
	OrganizationIDs []interface{} `json:"organizationIds,omitempty"`
	CreatedBy       string        `json:"createdBy,omitempty"`
	Deletable       bool          `json:"deletable"`
}

// TriageTag is a label attached to triage rules, organization-scoped.
type TriageTag struct {
	ID             string `json:"_id"`
	Name           string `json:"name"`
	OrganizationID int    `json:"organizationId"`
	Count          int    `json:"count,omitempty"`
}

// Case groups tasks, endpoints, and findings under one investigation.
type Case struct {
	ID              string     `json:"_id"`
	Name            string     `json:"name"`
	Status          string     `json:"status"`
	OwnerUserID     string     `json:"ownerUserId"`
	OrganizationID  int        `json:"organizationId"`
	Visibility      string     `json:"visibility,omitempty"`
	AssignedUserIDs []string   `json:"assignedUserIds,omitempty"`
	Notes           []CaseNote `json:"notes,omitempty"`
	TotalEndpoints  int        `json:"totalEndpoints"`
	TotalTasks      int        `json:"totalTasks"`
	CreatedAt       string     `json:"createdAt,omitempty"`
	ClosedAt        string     `json:"closedAt,omitempty"`
}

// CaseNote is a free-form annotation on a case.
type CaseNote struct {
	ID        string `json:"_id"`
	Value     string `json:"value"`
	WrittenBy string `json:"writtenBy,omitempty"`
	WrittenAt string `json:"writtenAt,omitempty"`
}

// AcquisitionProfile describes what evidence an acquisition task collects.
type AcquisitionProfile struct {
	ID              string        `json:"_id"`
	Name            string        `json:"name"`
	OrganizationIDs []interface{} `json:"organizationIds,omitempty"`
	Deletable       bool          `json:"deletable"`
}

// User is a console user within an organization.
type User struct {
	ID       string   `json:"_id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles,omitempty"`
}

// AssetFilter is the conjunction of optional predicates threaded through
// nearly every bulk/mutating endpoint. includedEndpointIds and
// excludedEndpointIds may both be present; the server decides precedence.
type AssetFilter struct {
	SearchTerm          string        `json:"searchTerm,omitempty"`
	Name                string        `json:"name,omitempty"`
	IPAddress           string        `json:"ipAddress,omitempty"`
	Platform            []string      `json:"platform,omitempty"`
	OnlineStatus        []string      `json:"onlineStatus,omitempty"`
	ManagedStatus       []string      `json:"managedStatus,omitempty"`
	IsolationStatus     []string      `json:"isolationStatus,omitempty"`
	Tags                []string      `json:"tags,omitempty"`
	GroupID             string        `json:"groupId,omitempty"`
	IncludedEndpointIDs []string      `json:"includedEndpointIds,omitempty"`
	ExcludedEndpointIDs []string      `json:"excludedEndpointIds,omitempty"`
	// OrganizationIDs is heterogeneous on the wire: numeric-looking IDs go
	// out as numbers, everything else as strings. Known server quirk,
	// preserved intentionally.
	OrganizationIDs []interface{} `json:"organizationIds,omitempty"`
}

// IsZero reports whether no predicate is set.
func (f *AssetFilter) IsZero() bool {
	return f.SearchTerm == "" && f.Name == "" && f.IPAddress == "" &&
		len(f.Platform) == 0 && len(f.OnlineStatus) == 0 &&
		len(f.ManagedStatus) == 0 && len(f.IsolationStatus) == 0 &&
		len(f.Tags) == 0 && f.GroupID == "" &&
		len(f.IncludedEndpointIDs) == 0 && len(f.ExcludedEndpointIDs) == 0 &&
		len(f.OrganizationIDs) == 0
}

// DeploymentPackage is one platform/arch installer download entry.
type DeploymentPackage struct {
	Platform     string `json:"platform"`
	Architecture string `json:"arch"`
	Extension    string `json:"extension"`
	URL          string `json:"url"`
}

// entityPage is the paginated list shape inside a response envelope.
type entityPage struct {
	Entities         []json.RawMessage `json:"entities"`
	CurrentPage      int               `json:"currentPage"`
	PageSize         int               `json:"pageSize"`
	TotalPageCount   int               `json:"totalPageCount"`
	TotalEntityCount int               `json:"totalEntityCount"`
}
