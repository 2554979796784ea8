package jira

import (
	"errors"
	"fmt"
	"net/http"

	jira "github.com/andygrunwald/go-jira"
)

// ErrConnectionUnavailable is returned by every call on a client whose handshake failed
var ErrConnectionUnavailable = errors.New("Jira connection not available")

// ConnectionError is returned when the initial handshake with Jira fails
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to Jira at %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Kind classifies a failed Jira call
type Kind string

const (
	KindAuth       Kind = "auth"       // 401/403
	KindValidation Kind = "validation" // 400, the payload was rejected
	KindNetwork    Kind = "network"    // no HTTP response
	KindRejected   Kind = "rejected"   // any other non-2xx answer
)

// TrackerError is a failed call to the Jira REST API
type TrackerError struct {
	Kind       Kind
	StatusCode int // 0 for network failures
	Message    string
	Err        error
}

// Error returns the tracker's message verbatim
func (e *TrackerError) Error() string {
	return e.Message
}

func (e *TrackerError) Unwrap() error {
	return e.Err
}

// newTrackerError builds a typed error from the response and error go-jira returned
func newTrackerError(resp *jira.Response, err error) *TrackerError {
	if resp == nil || resp.Response == nil {
		return &TrackerError{Kind: KindNetwork, Message: err.Error(), Err: err}
	}
	// accepted but the body could not be decoded
	if resp.StatusCode < http.StatusMultipleChoices {
		return &TrackerError{Kind: KindRejected, StatusCode: resp.StatusCode, Message: err.Error(), Err: err}
	}

	// NewJiraError consumes the body and folds errorMessages/errors into the message
	detailed := jira.NewJiraError(resp, err)
	if detailed == nil {
		detailed = err
	}

	return &TrackerError{
		Kind:       kindForStatus(resp.StatusCode),
		StatusCode: resp.StatusCode,
		Message:    detailed.Error(),
		Err:        err,
	}
}

func kindForStatus(code int) Kind {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusBadRequest:
		return KindValidation
	default:
		return KindRejected
	}
}

// KindOf returns the kind of a tracker failure, or "" when err is not one
func KindOf(err error) Kind {
	var trackerErr *TrackerError
	if errors.As(err, &trackerErr) {
		return trackerErr.Kind
	}
	return ""
}
