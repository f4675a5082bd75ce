package config

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks the settings a command needs. Mode is one of "serve",
// "enrich" or "contacts".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve":
		errs = append(errs, c.apolloErrors()...)
		errs = append(errs, c.contactsErrors()...)
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
	case "enrich":
		errs = append(errs, c.apolloErrors()...)
	case "contacts":
		errs = append(errs, c.contactsErrors()...)
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	e := c.Enrichment
	if e.Concurrency < 1 || e.Concurrency > 50 {
		errs = append(errs, "enrichment.concurrency must be between 1 and 50")
	}
	if e.RetentionMinutes <= 0 {
		errs = append(errs, "enrichment.retention_minutes must be > 0")
	}
	if e.SweepIntervalMinutes <= 0 {
		errs = append(errs, "enrichment.sweep_interval_minutes must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) apolloErrors() []string {
	if c.Apollo.Key == "" {
		return []string{"apollo.key is required"}
	}
	return nil
}

func (c *Config) contactsErrors() []string {
	switch c.Contacts.Driver {
	case "sqlite", "postgres":
		if c.Contacts.DatabaseURL == "" {
			return []string{"contacts.database_url is required"}
		}
	case "salesforce":
		var errs []string
		if c.Salesforce.ClientID == "" {
			errs = append(errs, "salesforce.client_id is required")
		}
		if c.Salesforce.Username == "" {
			errs = append(errs, "salesforce.username is required")
		}
		if c.Salesforce.KeyPath == "" {
			errs = append(errs, "salesforce.key_path is required")
		}
		return errs
	default:
		return []string{"contacts.driver must be sqlite, postgres or salesforce"}
	}
	return nil
}
