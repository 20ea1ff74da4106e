package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ProjectClient manages project artifacts and sync status (v1, query-string
// credential).
type ProjectClient struct {
	rest *restClient
}

// NewProjectClient creates a project client. An empty baseURL selects the
// production endpoint.
func NewProjectClient(baseURL, apiKey string, opts ...Option) *ProjectClient {
	return &ProjectClient{rest: newRestClient(baseURL, apiKey, authQueryKey, opts...)}
}

// UploadArtifact uploads one artifact file to a project and returns the raw
// server response, which may be empty.
func (c *ProjectClient) UploadArtifact(ctx context.Context, projectID, fileName string, content []byte) (json.RawMessage, error) {
	path := fmt.Sprintf("%s/sync/artifacts/%s/", epProjects, projectID)
	resp, err := c.rest.postMultipart(ctx, path, fileName, content)
	if err != nil {
		return nil, NewError(err.Error())
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errorFromResponse(resp)
	}

	body := readBody(resp)
	if emptyJSON(body) {
		return nil, nil
	}
	return json.RawMessage(body), nil
}

// GetSyncStatus retrieves the artifact sync status of a project.
func (c *ProjectClient) GetSyncStatus(ctx context.Context, projectID string) (*SyncStatus, error) {
	resp, err := c.rest.get(ctx, fmt.Sprintf("%s/%s/sync/status", epProjects, projectID))
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
	var status SyncStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, NewError(fmt.Sprintf("Invalid response, %v.", err))
	}
	return &status, nil
}
