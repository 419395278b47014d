package backend

import (
	"fmt"

	"worklog/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := Type(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:       backendType,
		APIBaseURL: appConfig.APIBaseURL,
		DataFile:   appConfig.DataFile,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case Durable:
		if c.APIBaseURL == "" {
			return fmt.Errorf("API base URL is required for the durable backend")
		}
	case Ephemeral:
		if c.DataFile == "" {
			return fmt.Errorf("data file path is required for the ephemeral backend")
		}
	}

	return nil
}

// Types returns all valid backend types
func Types() []Type {
	return []Type{Durable, Ephemeral}
}
