package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/verdicthq/verdict-go/metrics"
	"github.com/verdicthq/verdict-go/result"
)

// PushClient posts runtime status updates and full instance results (v2,
// bearer credential). Every method is fire-and-forget: a lost telemetry
// update must never fail the test run, so transport and server errors are
// logged and counted locally but never returned to the caller.
type PushClient struct {
	rest *restClient
}

// NewPushClient creates a status-push client. An empty baseURL selects the
// production endpoint.
func NewPushClient(baseURL, token string, opts ...Option) *PushClient {
	return &PushClient{rest: newRestClient(baseURL, token, authBearer, opts...)}
}

// AddInstanceResult posts the full result tree for a run instance.
func (c *PushClient) AddInstanceResult(ctx context.Context, runID, instanceID string, run *result.Run) {
	path := fmt.Sprintf("/testresult/run/%s/instance/%s", runID, instanceID)
	c.send(ctx, path, run, "instance_result")
}

// UpdateInstanceStatus updates the status of a run instance.
func (c *PushClient) UpdateInstanceStatus(ctx context.Context, update InstanceStatusUpdate) {
	c.send(ctx, "/status", update, "instance_status")
}

// UpdateCaseStatus updates the runtime status of a specific test case.
func (c *PushClient) UpdateCaseStatus(ctx context.Context, update CaseStatusUpdate) {
	path := fmt.Sprintf("/runtime/run/%s/instance/%s/case/status", update.RunID, update.InstanceID)
	c.send(ctx, path, update, "case_status")
}

// UpdateSuiteStatus updates the runtime status of a specific test suite.
func (c *PushClient) UpdateSuiteStatus(ctx context.Context, update SuiteStatusUpdate) {
	path := fmt.Sprintf("/runtime/run/%s/instance/%s/suite/status", update.RunID, update.InstanceID)
	c.send(ctx, path, update, "suite_status")
}

func (c *PushClient) send(ctx context.Context, path string, payload any, kind string) {
	resp, err := c.rest.post(ctx, path, payload)
	if err == nil {
		if resp.StatusCode >= http.StatusBadRequest {
			err = errorFromResponse(resp)
		} else {
			readBody(resp)
		}
	}
	if err != nil {
		c.rest.log.Error("Failed to push status update", "kind", kind, "error", err)
		metrics.RecordPushFailure(kind)
	}
}
