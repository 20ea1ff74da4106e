package api

// Wire DTOs for the Verdict HTTP APIs. All bodies are sparse: absent
// attributes are omitted, never null-filled.

// RunOptions carries optional parameters when triggering a run.
type RunOptions struct {
	TestAttributes       map[string]any `json:"testAttributes,omitempty"`
	AdditionalParameters map[string]any `json:"additionalParameters,omitempty"`
	EnvironmentID        int            `json:"environmentId,omitempty"`
	EnvironmentName      string         `json:"environmentName,omitempty"`
	ReleaseName          string         `json:"releaseName,omitempty"`
	SprintName           string         `json:"sprintName,omitempty"`
	BuildName            string         `json:"buildName,omitempty"`
	PipelineName         string         `json:"pipelineName,omitempty"`
	ProjectName          string         `json:"projectName,omitempty"`
	TestName             string         `json:"testName,omitempty"`
}

// RunStatus is the full status of a run, including per-instance detail.
type RunStatus struct {
	RunID             string           `json:"runId,omitempty"`
	EntityID          int              `json:"entityId,omitempty"`
	EntityType        string           `json:"entityType,omitempty"`
	RunName           string           `json:"runName,omitempty"`
	ResultID          int              `json:"resultId,omitempty"`
	StartTime         EpochMillis      `json:"startTime,omitempty"`
	EndTime           EpochMillis      `json:"endTime,omitempty"`
	Duration          int64            `json:"duration,omitempty"`
	Status            string           `json:"status,omitempty"`
	Progress          int              `json:"progress,omitempty"`
	StatusLastUpdate  EpochMillis      `json:"statusLastUpdate,omitempty"`
	ExecutingUserName string           `json:"executingUserName,omitempty"`
	ExecutingUserID   int              `json:"executingUserId,omitempty"`
	ProjectName       string           `json:"projectName,omitempty"`
	ProjectID         int              `json:"projectId,omitempty"`
	Instances         []InstanceStatus `json:"instances,omitempty"`
}

// InstanceStatus is the status of one execution target within a run. The
// backend reports capabilities under the capabilitiesJson key.
type InstanceStatus struct {
	ID                    string            `json:"id,omitempty"`
	RunID                 string            `json:"runId,omitempty"`
	StartTime             EpochMillis       `json:"startTime,omitempty"`
	EndTime               EpochMillis       `json:"endTime,omitempty"`
	PendingDuration       int64             `json:"pendingDuration,omitempty"`
	InitializingStartTime EpochMillis       `json:"initializingStartTime,omitempty"`
	InitializingDuration  int64             `json:"initializingDuration,omitempty"`
	RunningStartTime      EpochMillis       `json:"runningStartTime,omitempty"`
	RunningDuration       int64             `json:"runningDuration,omitempty"`
	Status                string            `json:"status,omitempty"`
	StatusLastUpdate      EpochMillis       `json:"statusLastUpdate,omitempty"`
	Progress              int               `json:"progress,omitempty"`
	Capabilities          map[string]any    `json:"capabilitiesJson,omitempty"`
	BrowserName           string            `json:"browserName,omitempty"`
	BrowserVersion        string            `json:"browserVersion,omitempty"`
	DeviceName            string            `json:"deviceName,omitempty"`
	LocationName          string            `json:"locationName,omitempty"`
	OutputLog             string            `json:"outputLog,omitempty"`
	CasesStatus           []CaseStatusEntry `json:"casesStatus,omitempty"`
}

// CaseStatusEntry is the per-case progress line inside an instance status.
type CaseStatusEntry struct {
	ID               int    `json:"id,omitempty"`
	Name             string `json:"name,omitempty"`
	Order            int    `json:"order,omitempty"`
	Progress         int    `json:"progress,omitempty"`
	IterationsFailed int    `json:"iterationsFailed,omitempty"`
	IterationsPassed int    `json:"iterationsPassed,omitempty"`
	Failures         []any  `json:"failures,omitempty"`
}

// CaseStatusUpdate is the body of a per-case runtime status push. RunID and
// InstanceID also select the request path.
type CaseStatusUpdate struct {
	RunID        string         `json:"runId,omitempty"`
	InstanceID   string         `json:"instanceId,omitempty"`
	ID           string         `json:"id,omitempty"`
	FQN          string         `json:"fqn,omitempty"`
	ParentFQN    string         `json:"parentFqn,omitempty"`
	ParentID     string         `json:"parentId,omitempty"`
	Name         string         `json:"name,omitempty"`
	StartTime    int64          `json:"startTime,omitempty"`
	EndTime      int64          `json:"endTime,omitempty"`
	RunStatus    string         `json:"runStatus,omitempty"`
	TestStatus   string         `json:"testStatus,omitempty"`
	Framework    string         `json:"framework,omitempty"`
	Language     string         `json:"language,omitempty"`
	Capabilities map[string]any `json:"capabilities,omitempty"`
	Timestamp    int64          `json:"timestamp,omitempty"`
}

// Case run-status literals pushed upstream while a case progresses.
const (
	CaseRunStatusRunning  = "Running"
	CaseRunStatusFinished = "Finished"
)

// SuiteStatusUpdate is the body of a per-suite runtime status push.
type SuiteStatusUpdate struct {
	RunID      string `json:"runId,omitempty"`
	InstanceID string `json:"instanceId,omitempty"`
	SuiteID    string `json:"suiteId,omitempty"`
	Status     string `json:"status,omitempty"`
	Progress   int    `json:"progress,omitempty"`
}

// InstanceStatusUpdate is the body of a run/instance status push.
type InstanceStatusUpdate struct {
	RunID      string `json:"runId,omitempty"`
	InstanceID string `json:"instanceId,omitempty"`
	Status     string `json:"status,omitempty"`
	Progress   int    `json:"progress,omitempty"`
}

// Instance status literals pushed over an instance's lifetime.
const (
	InstanceStatusRunning  = "Running"
	InstanceStatusFinished = "Finished"
)

// CaseTag associates a result case with its tags.
type CaseTag struct {
	CaseID string   `json:"caseId,omitempty"`
	FQN    string   `json:"fqn,omitempty"`
	Tags   []string `json:"tags,omitempty"`
}

// SyncStatus is the artifact sync state of a project.
type SyncStatus struct {
	CommitHash string `json:"commitHash,omitempty"`
	SyncDate   string `json:"syncDate,omitempty"`
	SyncStatus string `json:"syncStatus,omitempty"`
	Message    string `json:"message,omitempty"`
}
