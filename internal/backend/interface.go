package backend

import (
	"context"

	"worklog/internal/records"
)

// Backend represents a unified backend interface that provides all record
// persistence operations
type Backend interface {
	records.Lister
	records.Writer
	records.Deleter
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the backend instance and optional cleanup function
type BackendResult struct {
	Backend Backend
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend creates a backend instance based on the provided config
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type Type

	// Durable backend: base URL of the worklogd record API
	APIBaseURL string

	// Ephemeral backend: path of the local record file
	DataFile string
}

// Type represents the kind of backend a store operation targets
type Type string

const (
	// Durable is the on-disk store behind the worklogd API. It may be
	// unreachable; failed operations fall back to the ephemeral store.
	Durable Type = "durable"

	// Ephemeral is the always-available local record file.
	Ephemeral Type = "ephemeral"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case Durable, Ephemeral:
		return true
	default:
		return false
	}
}
