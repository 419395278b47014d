package backend

import (
	"context"
	"fmt"
	"log/slog"

	"worklog/internal/localstore"
	applog "worklog/internal/log"
	"worklog/internal/remote"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(_ context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case Durable:
		return f.createDurableBackend(config)
	case Ephemeral:
		return f.createEphemeralBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createDurableBackend(config Config) (*BackendResult, error) {
	client := remote.NewClient(config.APIBaseURL, nil)

	f.logger.Info("Initialized durable backend", applog.FieldBackend, Durable, "api_url", config.APIBaseURL)

	return &BackendResult{
		Backend: client,
		Cleanup: nil, // the HTTP client holds no resources worth closing
	}, nil
}

func (f *DefaultFactory) createEphemeralBackend(config Config) (*BackendResult, error) {
	store := localstore.New(config.DataFile)

	f.logger.Info("Initialized ephemeral backend", applog.FieldBackend, Ephemeral, "data_file", config.DataFile)

	return &BackendResult{
		Backend: store,
		Cleanup: nil, // file handles are opened and closed per operation
	}, nil
}
