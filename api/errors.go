package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/verdicthq/verdict-go/metrics"
)

var (
	// ErrNotFound signals that the target entity does not exist (HTTP 404 on
	// a triggering or polling call).
	ErrNotFound = errors.New("not found")

	// ErrResultUnavailable signals that result polling exhausted its retry
	// budget without the result becoming ready.
	ErrResultUnavailable = errors.New("result unavailable")
)

// Error is a classified API failure surfaced to callers of the
// triggering/query/result endpoints.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds an Error carrying only a message, used for transport-level
// failures and malformed success payloads.
func NewError(message string) *Error {
	return &Error{Message: message}
}

// AsError unwraps err into an *Error when one is present in its chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// errorFromResponse classifies a non-success HTTP response into an Error with
// the fixed user-facing message for its status code.
func errorFromResponse(resp *http.Response) *Error {
	metrics.RecordAPIError(resp.StatusCode)
	return classifyStatus(resp.StatusCode, readBody(resp))
}

func classifyStatus(statusCode int, body []byte) *Error {
	var msg string
	switch statusCode {
	case http.StatusInternalServerError:
		msg = "Internal server error, please try again later."
	case http.StatusUnauthorized:
		msg = "Authentication failed, invalid API key."
	case http.StatusNotFound:
		msg = "A record or an endpoint does not exist."
	case http.StatusNoContent:
		msg = "A record or an endpoint does not have content."
	case http.StatusUnprocessableEntity:
		msg = validationMessage(body)
	default:
		msg = http.StatusText(statusCode)
		if msg == "" {
			msg = fmt.Sprintf("HTTP %d", statusCode)
		}
	}
	return &Error{StatusCode: statusCode, Message: msg}
}

// validationMessage renders a 422 body of the form
// {"errorMessage": "...", "errors": ["...", ...]} as
// "errorMessage: e1 e2 ...". Absent or unparsable bodies collapse to the
// generic message.
func validationMessage(body []byte) string {
	var payload struct {
		ErrorMessage string   `json:"errorMessage"`
		Errors       []string `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.ErrorMessage == "" {
		return "Validation Failed"
	}
	if len(payload.Errors) > 0 {
		return payload.ErrorMessage + ": " + strings.Join(payload.Errors, " ")
	}
	return payload.ErrorMessage
}
