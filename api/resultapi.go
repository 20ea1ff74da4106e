package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/verdicthq/verdict-go/metrics"
)

// Result polling bounds: a fixed attempt budget with a linearly growing
// delay (1s, 2s, 3s, ...) between attempts.
const (
	resultPollingRetries = 10
	resultPollingBase    = time.Second
	resultPollingStep    = time.Second
)

// ResultClient retrieves test results (v1, query-string credential).
type ResultClient struct {
	rest    *restClient
	retries int
	backoff BackoffStrategy
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewResultClient creates a result client. An empty baseURL selects the
// production endpoint.
func NewResultClient(baseURL, apiKey string, opts ...Option) *ResultClient {
	return &ResultClient{
		rest:    newRestClient(baseURL, apiKey, authQueryKey, opts...),
		retries: resultPollingRetries,
		backoff: IncrementalBackoff{Base: resultPollingBase, Step: resultPollingStep},
		sleep:   sleepCtx,
	}
}

// GetResultByRunID polls for the result of a completed run until it is ready.
// HTTP 404 returns ErrNotFound immediately; HTTP 202 means not ready yet, so
// the client waits and retries. When the retry budget is exhausted the result
// is reported unavailable. The poll sleeps synchronously between attempts but
// aborts early when ctx is done.
func (c *ResultClient) GetResultByRunID(ctx context.Context, runID string) (json.RawMessage, error) {
	path := fmt.Sprintf("%s/run/%s", epResults, runID)

	for attempt := 0; attempt < c.retries; attempt++ {
		metrics.RecordPollAttempt()
		resp, err := c.rest.get(ctx, path)
		if err != nil {
			return nil, NewError(err.Error())
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			readBody(resp)
			return nil, ErrNotFound
		case resp.StatusCode == http.StatusAccepted:
			readBody(resp)
			if err := c.sleep(ctx, c.backoff.Delay(attempt)); err != nil {
				return nil, err
			}
			continue
		case resp.StatusCode >= http.StatusBadRequest:
			return nil, errorFromResponse(resp)
		}

		body := readBody(resp)
		if !emptyJSON(body) {
			return json.RawMessage(body), nil
		}
		// Ready status with an empty document: treat like not-ready.
		if err := c.sleep(ctx, c.backoff.Delay(attempt)); err != nil {
			return nil, err
		}
	}
	return nil, ErrResultUnavailable
}

// GetResultCaseTags fetches the tags of every case in a run's result.
func (c *ResultClient) GetResultCaseTags(ctx context.Context, runID string) ([]CaseTag, error) {
	resp, err := c.rest.get(ctx, fmt.Sprintf("%s/run/%s/cases/tags", epResults, runID))
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
	var tags []CaseTag
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, NewError(fmt.Sprintf("Invalid response, %v.", err))
	}
	return tags, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
