// Package sheets exports billing-cycle reports to Google Sheets.
package sheets

import (
	"fmt"
	"time"

	"github.com/thucvanminh/mywallet/internal/common"
)

// Config holds the Google Sheets export configuration. Either a service
// account key file or an OAuth client with a refresh token must be provided.
type Config struct {
	SpreadsheetID      string
	SpreadsheetName    string
	ServiceAccountPath string
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	TimeZone           string
	RetryAttempts      int
	RetryDelay         time.Duration
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.ServiceAccountPath == "" {
		if c.ClientID == "" || c.ClientSecret == "" || c.RefreshToken == "" {
			return fmt.Errorf("%w: either a service account path or OAuth client credentials with a refresh token are required", common.ErrInvalidConfig)
		}
	}
	return nil
}

// withDefaults fills unset optional fields.
func (c Config) withDefaults() Config {
	if c.SpreadsheetName == "" {
		c.SpreadsheetName = "MyWallet Report"
	}
	if c.TimeZone == "" {
		c.TimeZone = "Etc/UTC"
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = 3
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = time.Second
	}
	return c
}
