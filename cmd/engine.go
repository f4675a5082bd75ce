package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/config"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/contacts"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/db"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/enrich"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/ledger"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/provider"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/resilience"
	"github.com/shreyputexas/equitle-brain-v1-sub005/pkg/apollo"
	sfpkg "github.com/shreyputexas/equitle-brain-v1-sub005/pkg/salesforce"
)

// engine bundles the ledgers and the services built on them.
type engine struct {
	Provider     *provider.Client
	Correlations *ledger.CorrelationStore
	Tracker      *ledger.RequestTracker
	Orchestrator *enrich.Orchestrator
	Sweeper      *ledger.Sweeper
}

// newEngine wires the ledgers, the Apollo provider and the orchestrator from
// config. The provider is nil when no Apollo key is configured.
func newEngine(c *config.Config) *engine {
	retention := c.Enrichment.Retention()
	corr, corrMem := ledger.NewMemoryCorrelationStore(retention, nil)
	tracker, reqMem := ledger.NewMemoryRequestTracker(retention, nil)

	e := &engine{
		Correlations: corr,
		Tracker:      tracker,
		Sweeper:      ledger.NewSweeper(c.Enrichment.SweepInterval(), corrMem, reqMem),
	}
	if c.Apollo.Key != "" {
		e.Provider = newProvider(c, c.Apollo.Key)
		e.Orchestrator = enrich.New(e.Provider, corr, tracker, enrichConfig(c))
	}
	return e
}

// newProvider builds an Apollo-backed provider for credential.
func newProvider(c *config.Config, credential string) *provider.Client {
	opts := []apollo.Option{
		apollo.WithBaseURL(c.Apollo.BaseURL),
		apollo.WithRateLimit(c.Apollo.RateLimit),
		apollo.WithHTTPClient(&http.Client{Timeout: time.Duration(c.Apollo.TimeoutSecs) * time.Second}),
	}
	if c.Apollo.OAuth {
		opts = append(opts, apollo.WithOAuth())
	}

	return provider.New(apollo.NewClient(credential, opts...), provider.Config{
		WebhookURL:      c.WebhookURL(),
		SequentialDelay: time.Duration(c.Enrichment.SequentialDelayMs) * time.Millisecond,
		Retry:           resilience.NewRetryConfig(c.Apollo.Retry.MaxAttempts, c.Apollo.Retry.InitialBackoffMs),
		Breaker: resilience.NewBreaker("apollo",
			c.Apollo.Circuit.FailureThreshold,
			time.Duration(c.Apollo.Circuit.ResetTimeoutSecs)*time.Second),
	})
}

func enrichConfig(c *config.Config) enrich.Config {
	return enrich.Config{
		Concurrency: c.Enrichment.Concurrency,
		WindowDelay: time.Duration(c.Enrichment.WindowDelayMs) * time.Millisecond,
		WebhookWait: time.Duration(c.Enrichment.WebhookWaitMs) * time.Millisecond,
	}
}

// initContactStore opens the configured downstream contact store.
func initContactStore(ctx context.Context, c *config.Config) (contacts.Store, error) {
	switch c.Contacts.Driver {
	case "sqlite":
		dsn := c.Contacts.DatabaseURL
		if dsn == "" {
			dsn = "contacts.db"
		}
		return contacts.NewSQLite(dsn)
	case "postgres":
		return contacts.NewPostgres(ctx, c.Contacts.DatabaseURL, db.PoolConfig{MaxConns: c.Contacts.MaxConns})
	case "salesforce":
		sf, err := initSalesforce(c)
		if err != nil {
			return nil, err
		}
		return contacts.NewSalesforce(sf), nil
	default:
		return nil, eris.Errorf("unsupported contacts driver: %s", c.Contacts.Driver)
	}
}

func initSalesforce(c *config.Config) (sfpkg.Client, error) {
	if c.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (ENRICH_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(c.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	return sfpkg.Connect(sfpkg.Creds{
		LoginURL:   c.Salesforce.LoginURL,
		Username:   c.Salesforce.Username,
		ClientID:   c.Salesforce.ClientID,
		PrivateKey: string(pemData),
	}, sfpkg.WithRateLimit(c.Salesforce.RateLimit))
}

// openContacts opens and migrates the contact store.
func openContacts(ctx context.Context, c *config.Config) (contacts.Store, error) {
	st, err := initContactStore(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate contacts")
	}
	zap.L().Info("contact store ready", zap.String("driver", c.Contacts.Driver))
	return st, nil
}

// paramsFromFlags trims CLI input into enrichment params.
func paramsFromFlags(first, last, org, domain, email string) model.EnrichParams {
	return model.EnrichParams{
		FirstName:        first,
		LastName:         last,
		OrganizationName: org,
		Domain:           domain,
		Email:            email,
	}.Normalize()
}
