package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// RuntimeClient triggers test executions and queries run status (v1,
// query-string credential).
type RuntimeClient struct {
	rest *restClient
}

// NewRuntimeClient creates a triggering/query client. An empty baseURL
// selects the production endpoint.
func NewRuntimeClient(baseURL, apiKey string, opts ...Option) *RuntimeClient {
	return &RuntimeClient{rest: newRestClient(baseURL, apiKey, authQueryKey, opts...)}
}

// RunCase starts a run of the given test case and returns the new run id.
// Returns ErrNotFound when the case does not exist.
func (c *RuntimeClient) RunCase(ctx context.Context, caseID int, options *RunOptions) (string, error) {
	return c.triggerRun(ctx, fmt.Sprintf("%s/%d/run", epCases, caseID), options)
}

// RunSuite starts a run of the given test suite and returns the new run id.
// Returns ErrNotFound when the suite does not exist.
func (c *RuntimeClient) RunSuite(ctx context.Context, suiteID int, options *RunOptions) (string, error) {
	return c.triggerRun(ctx, fmt.Sprintf("%s/%d/run", epSuites, suiteID), options)
}

// RunMonitor starts a run of the given monitor and returns the new run id.
// Returns ErrNotFound when the monitor does not exist.
func (c *RuntimeClient) RunMonitor(ctx context.Context, monitorID string, options *RunOptions) (string, error) {
	return c.triggerRun(ctx, fmt.Sprintf("%s/%s/run", epMonitors, monitorID), options)
}

func (c *RuntimeClient) triggerRun(ctx context.Context, path string, options *RunOptions) (string, error) {
	var payload any
	if options != nil {
		payload = options
	}
	resp, err := c.rest.post(ctx, path, payload)
	if err != nil {
		return "", NewError(err.Error())
	}
	if resp.StatusCode == http.StatusNotFound {
		readBody(resp)
		return "", ErrNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", errorFromResponse(resp)
	}

	body := readBody(resp)
	var data struct {
		ID string `json:"id"`
	}
	if emptyJSON(body) || json.Unmarshal(body, &data) != nil || data.ID == "" {
		return "", NewError(`Invalid response, "data.id" is missing.`)
	}
	return data.ID, nil
}

// GetRunStatus retrieves the current status of a run, including all instance
// and case detail.
func (c *RuntimeClient) GetRunStatus(ctx context.Context, runID string) (*RunStatus, error) {
	resp, err := c.rest.get(ctx, fmt.Sprintf("%s/%s", epRuns, runID))
	if err != nil {
		return nil, NewError(err.Error())
	}
	if resp.StatusCode >= http.StatusBadRequest || resp.StatusCode == http.StatusNoContent {
		return nil, errorFromResponse(resp)
	}

	body := readBody(resp)
	if emptyJSON(body) {
		return nil, NewError("Invalid response, no data received.")
	}
	var status RunStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, NewError(fmt.Sprintf("Invalid response, %v.", err))
	}
	return &status, nil
}
