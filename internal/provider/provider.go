// Package provider wraps the Apollo API with the person-resolution fallback
// chain and normalizes its responses into model records.
package provider

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/resilience"
	"github.com/shreyputexas/equitle-brain-v1-sub005/pkg/apollo"
)

// Enricher resolves a person from partial identifiers. Implementations never
// return provider errors; a nil person means no match.
type Enricher interface {
	EnrichPerson(ctx context.Context, params model.EnrichParams) *model.Person
}

// Config tunes the provider client.
type Config struct {
	// WebhookURL is passed to Apollo so phone reveals are delivered back to
	// this service.
	WebhookURL string
	// SequentialDelay is the pause between calls in BatchEnrich.
	SequentialDelay time.Duration
	Retry           resilience.RetryConfig
	// Breaker guards every Apollo call; nil disables it.
	Breaker *resilience.Breaker
}

// Client is the Apollo-backed Enricher.
type Client struct {
	api   apollo.Client
	cfg   Config
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates a provider client over the given Apollo API client.
func New(api apollo.Client, cfg Config) *Client {
	if cfg.SequentialDelay <= 0 {
		cfg.SequentialDelay = 100 * time.Millisecond
	}
	return &Client{api: api, cfg: cfg, sleep: sleepCtx}
}

// call runs fn with retry and circuit breaking, tagging retryable Apollo
// statuses as transient.
func call[T any](ctx context.Context, c *Client, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	return callWith(ctx, c, c.cfg.Retry, op, fn)
}

// callOnce is call without retries. Used where a repeat costs credits.
func callOnce[T any](ctx context.Context, c *Client, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	retry := c.cfg.Retry
	retry.MaxAttempts = 1
	return callWith(ctx, c, retry, op, fn)
}

func callWith[T any](ctx context.Context, c *Client, retry resilience.RetryConfig, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	retry.OnRetry = resilience.RetryLogger("apollo", op)
	return resilience.DoVal(ctx, retry, func(ctx context.Context) (T, error) {
		return resilience.Execute(ctx, c.cfg.Breaker, func(ctx context.Context) (T, error) {
			v, err := fn(ctx)
			return v, resilience.ClassifyStatus(err, apollo.StatusCode(err))
		})
	})
}

// EnrichPerson walks the fallback chain:
//  1. name or email present: people/match with personal email and phone
//     reveal, then email_finder if the email came back locked;
//  2. organization or domain only: mixed_people/search for the first
//     candidate, then the same email substitution;
//  3. otherwise no match.
func (c *Client) EnrichPerson(ctx context.Context, params model.EnrichParams) *model.Person {
	params = params.Normalize()
	log := zap.L().With(
		zap.String("first_name", params.FirstName),
		zap.String("last_name", params.LastName),
		zap.String("organization", params.OrganizationName),
		zap.String("domain", params.Domain),
	)

	switch {
	case params.HasPersonData():
		log.Debug("enrich: using people/match")
		person := c.match(ctx, params)
		if person == nil {
			log.Info("enrich: no match from people/match")
			return nil
		}
		if params.HasFullName() {
			c.substituteLockedEmail(ctx, person, params.FirstName, params.LastName, params)
		}
		return person

	case params.HasCompanyData():
		log.Debug("enrich: company-only input, using people search")
		person := c.firstAtCompany(ctx, params)
		if person == nil {
			log.Info("enrich: no candidate at company")
			return nil
		}
		if person.FirstName != "" && person.LastName != "" {
			c.substituteLockedEmail(ctx, person, person.FirstName, person.LastName, params)
		}
		return person

	default:
		log.Warn("enrich: neither person nor company identifiers supplied")
		return nil
	}
}

func (c *Client) match(ctx context.Context, params model.EnrichParams) *model.Person {
	req := apollo.MatchRequest{
		ID:                   params.ID,
		FirstName:            params.FirstName,
		LastName:             params.LastName,
		OrganizationName:     params.OrganizationName,
		Email:                params.Email,
		Domain:               params.Domain,
		RevealPersonalEmails: true,
	}
	if c.cfg.WebhookURL != "" {
		req.RevealPhoneNumber = true
		req.WebhookURL = c.cfg.WebhookURL
	}

	p, err := call(ctx, c, "match", func(ctx context.Context) (*apollo.Person, error) {
		return c.api.MatchPerson(ctx, req)
	})
	if err != nil {
		zap.L().Error("enrich: people/match failed",
			zap.Int("status", apollo.StatusCode(err)),
			zap.Error(err),
		)
		return nil
	}
	return toPerson(p)
}

func (c *Client) firstAtCompany(ctx context.Context, params model.EnrichParams) *model.Person {
	req := apollo.SearchRequest{
		OrganizationDomains:  params.Domain,
		PerPage:              1,
		RevealPersonalEmails: true,
	}
	if params.OrganizationName != "" {
		req.OrganizationNames = []string{params.OrganizationName}
	}

	resp, err := call(ctx, c, "search", func(ctx context.Context) (*apollo.SearchResponse, error) {
		return c.api.SearchPeople(ctx, req)
	})
	if err != nil {
		zap.L().Error("enrich: people search failed",
			zap.Int("status", apollo.StatusCode(err)),
			zap.Error(err),
		)
		return nil
	}
	if resp == nil || len(resp.People) == 0 {
		return nil
	}
	return toPerson(&resp.People[0])
}

// substituteLockedEmail replaces a locked placeholder email with the
// email_finder result. It issues at most one lookup.
func (c *Client) substituteLockedEmail(ctx context.Context, person *model.Person, first, last string, params model.EnrichParams) {
	if person.Email == "" || !model.IsPlaceholderEmail(person.Email) {
		return
	}
	email, _ := c.findEmail(ctx, model.EnrichParams{
		FirstName:        first,
		LastName:         last,
		OrganizationName: params.OrganizationName,
		Domain:           params.Domain,
	}, callOnce[*apollo.EmailFinderResponse])
	if email != "" {
		zap.L().Info("enrich: substituted locked email via email_finder", zap.String("person_id", person.ID))
		person.Email = email
	}
}

// FindEmail asks the email finder for an address. Failures are logged and
// reported as an empty email.
func (c *Client) FindEmail(ctx context.Context, params model.EnrichParams) (string, float64) {
	return c.findEmail(ctx, params, call[*apollo.EmailFinderResponse])
}

type callFunc[T any] func(ctx context.Context, c *Client, op string, fn func(ctx context.Context) (T, error)) (T, error)

func (c *Client) findEmail(ctx context.Context, params model.EnrichParams, do callFunc[*apollo.EmailFinderResponse]) (string, float64) {
	params = params.Normalize()
	req := apollo.EmailFinderRequest{
		FirstName:        params.FirstName,
		LastName:         params.LastName,
		Domain:           params.Domain,
		OrganizationName: params.OrganizationName,
	}
	resp, err := do(ctx, c, "email_finder", func(ctx context.Context) (*apollo.EmailFinderResponse, error) {
		return c.api.FindEmail(ctx, req)
	})
	if err != nil {
		zap.L().Error("enrich: email_finder failed",
			zap.Int("status", apollo.StatusCode(err)),
			zap.Error(err),
		)
		return "", 0
	}
	if resp == nil || model.IsPlaceholderEmail(resp.Email) {
		return "", 0
	}
	return resp.Email, resp.Confidence
}

// GetOrganization looks an organization up by domain.
func (c *Client) GetOrganization(ctx context.Context, domain string) (*model.Organization, error) {
	org, err := call(ctx, c, "organization", func(ctx context.Context) (*apollo.Organization, error) {
		return c.api.EnrichOrganization(ctx, domain)
	})
	if err != nil {
		return nil, err
	}
	return toOrganization(org), nil
}

// BatchEnrich enriches people one at a time with a fixed pause between calls.
func (c *Client) BatchEnrich(ctx context.Context, people []model.EnrichParams) []model.ProviderBatchItem {
	results := make([]model.ProviderBatchItem, 0, len(people))
	for i, params := range people {
		if ctx.Err() != nil {
			results = append(results, model.ProviderBatchItem{Original: params, Error: ctx.Err().Error()})
			continue
		}

		item := model.ProviderBatchItem{Original: params}
		item.Enriched = c.EnrichPerson(ctx, params)
		if item.Enriched == nil {
			item.Error = "No matching person found"
		}
		results = append(results, item)

		if i < len(people)-1 {
			_ = c.sleep(ctx, c.cfg.SequentialDelay)
		}
	}
	return results
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
