package backend

import (
	"fmt"

	"nomina/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type: backendType,

		SQLiteDBPath: appConfig.SQLiteDBPath,

		CSVUsersURL:    appConfig.CSVUsersURL,
		CSVInvoicesURL: appConfig.CSVInvoicesURL,
		CSVProxies:     appConfig.CSVProxies,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}

	case CSVBackend:
		if c.CSVUsersURL == "" || c.CSVInvoicesURL == "" {
			return fmt.Errorf("users and invoices export URLs are required for csv backend")
		}

	case SheetsBackend, MemoryBackend:
		// Sheets credentials are resolved from the environment by the
		// client itself; memory needs nothing.
	}

	return nil
}
