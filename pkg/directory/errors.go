package directory

import (
	"errors"
	"fmt"
)

// ErrIntegrationDisabled is returned when a sync is requested for an
// integration that is disabled or has no settings row
var ErrIntegrationDisabled = errors.New("integration is not enabled")

// ErrNotConfigured is returned when an enabled integration is missing
// required credentials
var ErrNotConfigured = errors.New("integration credentials not configured")

// UpstreamError reports a non-success response from the external directory.
// The body is not included; only the status and the operation that failed.
type UpstreamError struct {
	Op         string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %d", e.Op, e.StatusCode)
}

// ProbeResult classifies the outcome of a connection test
type ProbeResult string

const (
	ProbeReachable   ProbeResult = "reachable"
	ProbeAuthFailed  ProbeResult = "auth-failed"
	ProbeUnreachable ProbeResult = "unreachable"
)
