package concord

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingParameter indicates a required input was absent; raised
	// synchronously before any transport call is issued.
	ErrMissingParameter = errors.New("concord: missing required parameter")
	// ErrMissingPermissions indicates the remote service rejected a write
	// with a permission-denied status.
	ErrMissingPermissions = errors.New("concord: missing permissions")
	// ErrInvalidPayload indicates a raw payload does not satisfy
	// normalization invariants.
	ErrInvalidPayload = errors.New("concord: invalid payload")
	// ErrUnknownGuild indicates a guild registry lookup miss during
	// reconciliation.
	ErrUnknownGuild = errors.New("concord: unknown guild")
	// ErrUnknownChannel indicates a channel registry lookup miss.
	ErrUnknownChannel = errors.New("concord: unknown channel")
	// ErrChannelKind indicates an operation not supported by the channel's
	// kind, for example setting a bitrate on a text channel.
	ErrChannelKind = errors.New("concord: operation not supported by channel kind")
)

// statusCoder is the minimal failure surface expected from the transport
// collaborator: an HTTP-status-like field the core inspects for the
// permission-denied value.
type statusCoder interface {
	HTTPStatus() int
}

// APIError carries structured metadata for one failed remote call.
//
// It wraps the transport failure unchanged; the core classifies only the
// permission-denied status, so errors.Is(err, ErrMissingPermissions) reports
// true exactly when the remote status was 403.
type APIError struct {
	// Method is the HTTP method of the failed call.
	Method string
	// Path is the API path of the failed call.
	Path string
	// Status is the HTTP-like status reported by the transport, or zero
	// when the failure never reached the remote service.
	Status int
	// Cause is the wrapped transport error.
	Cause error
}

// Error returns an operator-readable failure summary.
func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Status != 0 {
		return fmt.Sprintf("concord: %s %s failed with status %d: %v", e.Method, e.Path, e.Status, e.Cause)
	}

	return fmt.Sprintf("concord: %s %s failed: %v", e.Method, e.Path, e.Cause)
}

// Unwrap returns the wrapped transport error.
func (e *APIError) Unwrap() error {
	if e == nil {
		return nil
	}

	return e.Cause
}

// Is maps the permission-denied status onto ErrMissingPermissions so callers
// can classify failures with errors.Is without inspecting status codes.
func (e *APIError) Is(target error) bool {
	return target == ErrMissingPermissions && e != nil && e.Status == http.StatusForbidden
}

// AsAPIError extracts an APIError from wrapped error chains.
func AsAPIError(err error) (*APIError, bool) {
	if err == nil {
		return nil, false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	return nil, false
}

func newAPIError(method, path string, cause error) *APIError {
	apiErr := &APIError{
		Method: method,
		Path:   path,
		Cause:  cause,
	}

	var coder statusCoder
	if errors.As(cause, &coder) {
		apiErr.Status = coder.HTTPStatus()
	}

	return apiErr
}
