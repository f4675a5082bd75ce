// Package enrich composes the provider fallback chain with email and phone
// extraction and registers pending requests for webhook reconciliation.
package enrich

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/ledger"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/provider"
)

const (
	defaultConcurrency  = 5
	defaultWindowDelay  = 100 * time.Millisecond
	defaultWebhookWait  = 2 * time.Second
	defaultPollInterval = 500 * time.Millisecond
)

// Config tunes the orchestrator.
type Config struct {
	Concurrency  int
	WindowDelay  time.Duration
	WebhookWait  time.Duration
	PollInterval time.Duration
}

// Options are per-call settings for EnrichPerson.
type Options struct {
	UserID    string
	ContactID string
	// WaitForWebhook polls the correlation store for up to WebhookWait before
	// returning. Off by default; the normal path never waits.
	WaitForWebhook bool
	WebhookWait    time.Duration
}

// ParallelOptions are per-call settings for EnrichPeopleParallel.
type ParallelOptions struct {
	UserID string
	// ContactIDs maps an input's ID to the local contact awaiting its webhook.
	ContactIDs  map[string]string
	Concurrency int
}

// Orchestrator drives enrichment for single people and batches.
type Orchestrator struct {
	provider     provider.Enricher
	correlations *ledger.CorrelationStore
	tracker      *ledger.RequestTracker
	cfg          Config
	sleep        func(ctx context.Context, d time.Duration) error
}

// New creates an orchestrator. correlations may be nil when webhook waiting
// is never requested.
func New(p provider.Enricher, correlations *ledger.CorrelationStore, tracker *ledger.RequestTracker, cfg Config) *Orchestrator {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.WindowDelay < 0 {
		cfg.WindowDelay = 0
	} else if cfg.WindowDelay == 0 {
		cfg.WindowDelay = defaultWindowDelay
	}
	if cfg.WebhookWait <= 0 {
		cfg.WebhookWait = defaultWebhookWait
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	return &Orchestrator{
		provider:     p,
		correlations: correlations,
		tracker:      tracker,
		cfg:          cfg,
		sleep:        sleepCtx,
	}
}

// EnrichPerson resolves one person and returns whatever the synchronous
// response carries. A pending request is tracked when a user id is given so
// the webhook can later update the contact.
func (o *Orchestrator) EnrichPerson(ctx context.Context, params model.EnrichParams, opts Options) model.EnrichResult {
	person := o.provider.EnrichPerson(ctx, params)
	if person == nil {
		zap.L().Warn("orchestrator: no person resolved",
			zap.String("first_name", params.FirstName),
			zap.String("last_name", params.LastName),
			zap.String("organization", params.OrganizationName),
		)
		return model.EmptyResult()
	}

	log := zap.L().With(zap.String("person_id", person.ID))

	if opts.UserID != "" && person.ID != "" && o.tracker != nil {
		o.tracker.Track(model.EnrichmentRequest{
			PersonID:   person.ID,
			PersonName: person.DisplayName(),
			UserID:     opts.UserID,
			ContactID:  opts.ContactID,
		})
		log.Info("orchestrator: tracked enrichment request",
			zap.String("user_id", opts.UserID),
			zap.String("contact_id", opts.ContactID),
		)
	}

	email, emailSource := ExtractEmail(person)
	phones := ExtractPhones(person)
	phoneSource := model.PhoneFromNone
	if len(phones) > 0 {
		phoneSource = model.PhoneFromAPIResponse
	}

	if len(phones) == 0 && opts.WaitForWebhook {
		if entry, ok := o.waitForWebhook(ctx, person.ID, opts.WebhookWait); ok {
			phones = append([]model.PhoneNumber(nil), entry.PhoneNumbers...)
			phoneSource = model.PhoneFromWebhook
		}
	}

	res := model.EnrichResult{
		Person:         person,
		Email:          email,
		Phone:          BestPhone(phones),
		PhoneNumbers:   phones,
		Source:         model.ResultSource{Email: emailSource, Phone: phoneSource},
		WebhookPending: len(phones) == 0,
	}

	log.Info("orchestrator: enrichment complete",
		zap.String("email_source", string(res.Source.Email)),
		zap.String("phone_source", string(res.Source.Phone)),
		zap.Int("phone_count", len(phones)),
		zap.Bool("webhook_pending", res.WebhookPending),
	)
	return res
}

// waitForWebhook polls the correlation store by person id until it sees
// numbers, the wait elapses, or ctx ends.
func (o *Orchestrator) waitForWebhook(ctx context.Context, personID string, wait time.Duration) (model.CorrelationEntry, bool) {
	if o.correlations == nil || personID == "" {
		return model.CorrelationEntry{}, false
	}
	if wait <= 0 {
		wait = o.cfg.WebhookWait
	}

	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	for {
		if e, ok := o.lookup(personID); ok {
			return e, true
		}
		if err := o.sleep(ctx, o.cfg.PollInterval); err != nil {
			zap.L().Debug("orchestrator: webhook wait elapsed", zap.String("person_id", personID))
			return model.CorrelationEntry{}, false
		}
	}
}

func (o *Orchestrator) lookup(personID string) (model.CorrelationEntry, bool) {
	if e, ok := o.correlations.Get(personID); ok && len(e.PhoneNumbers) > 0 {
		return e, true
	}
	if e, ok := o.correlations.GetByPersonID(personID); ok && len(e.PhoneNumbers) > 0 {
		return e, true
	}
	return model.CorrelationEntry{}, false
}

// EnrichPeopleParallel enriches people in fixed-size concurrent windows with a
// short pause between windows. Results keep input order and a failed item
// yields an empty result without stopping the batch.
func (o *Orchestrator) EnrichPeopleParallel(ctx context.Context, people []model.EnrichParams, opts ParallelOptions) []model.BatchItem {
	window := opts.Concurrency
	if window <= 0 {
		window = o.cfg.Concurrency
	}

	results := make([]model.BatchItem, len(people))
	for start := 0; start < len(people); start += window {
		end := min(start+window, len(people))

		g, gCtx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			params := people[i]
			g.Go(func() error {
				results[i] = model.BatchItem{
					Original: params,
					Enriched: o.enrichSafe(gCtx, params, Options{
						UserID:    opts.UserID,
						ContactID: opts.ContactIDs[params.ID],
					}),
				}
				return nil
			})
		}
		_ = g.Wait()

		if end < len(people) {
			if err := o.sleep(ctx, o.cfg.WindowDelay); err != nil {
				zap.L().Warn("orchestrator: batch cancelled", zap.Int("completed", end), zap.Error(err))
				for i := end; i < len(people); i++ {
					results[i] = model.BatchItem{Original: people[i], Enriched: model.EmptyResult()}
				}
				break
			}
		}
	}
	return results
}

// enrichSafe turns a panic in one item into an empty result.
func (o *Orchestrator) enrichSafe(ctx context.Context, params model.EnrichParams, opts Options) (res model.EnrichResult) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("orchestrator: enrichment panicked", zap.Any("panic", r))
			res = model.EmptyResult()
		}
	}()
	return o.EnrichPerson(ctx, params, opts)
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
