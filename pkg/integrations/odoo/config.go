package odoo

import (
	"time"

	"github.com/matzehuels/posquery/pkg/errors"
	"github.com/matzehuels/posquery/pkg/integrations"
)

// Config holds everything needed to open a session against an ERP server.
// There are no hidden defaults: every field except Protocol and Timeout
// must be set by the caller.
type Config struct {
	URL      string                // Server base address, e.g. "https://erp.example.com"
	Database string                // Database name on the server
	Username string                // Login of the ERP user
	Password string                // Password or API key of the ERP user
	Protocol integrations.Protocol // Wire protocol; empty means XML-RPC
	Timeout  time.Duration         // Per-call timeout; zero means integrations.DefaultTimeout
}

// Validate checks the configuration before any remote call is made.
// All failures carry [errors.ErrCodeInvalidConfig].
func (c Config) Validate() error {
	if err := errors.ValidateServerURL(c.URL); err != nil {
		return err
	}
	if c.Database == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "database name is required")
	}
	if c.Username == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "username is required")
	}
	if c.Password == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "password is required")
	}
	if _, err := integrations.ParseProtocol(string(c.Protocol)); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid protocol")
	}
	if c.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "timeout cannot be negative")
	}
	return nil
}
