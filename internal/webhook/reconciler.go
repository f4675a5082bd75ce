package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/contacts"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/ledger"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
)

// Result is the per-person reconciliation outcome.
type Result string

const (
	ResultUpdated          Result = "updated"
	ResultUntracked        Result = "untracked"
	ResultAlreadyCompleted Result = "already_completed"
	ResultNoContact        Result = "no_contact"
	ResultFailed           Result = "failed"
	ResultNoPhones         Result = "no_phones"
)

// PersonResult records what happened to one delivered person.
type PersonResult struct {
	Identifier string
	PersonID   string
	PhoneCount int
	Result     Result
	ContactID  string
	Err        error
}

// Outcome summarizes one handled delivery.
type Outcome struct {
	Kind              Kind
	PeopleProcessed   int
	TotalPhoneNumbers int
	People            []PersonResult
}

// Response is the JSON body acknowledged to the provider.
type Response struct {
	Success           bool   `json:"success"`
	Message           string `json:"message,omitempty"`
	Error             string `json:"error,omitempty"`
	PeopleProcessed   *int   `json:"people_processed,omitempty"`
	TotalPhoneNumbers *int   `json:"total_phone_numbers,omitempty"`
	PhoneCount        *int   `json:"phone_count,omitempty"`
}

// Response shapes the acknowledgement body for o.
func (o Outcome) Response() Response {
	switch o.Kind {
	case KindPeople:
		processed, total := o.PeopleProcessed, o.TotalPhoneNumbers
		return Response{
			Success:           true,
			Message:           fmt.Sprintf("Processed phone numbers for %d people", processed),
			PeopleProcessed:   &processed,
			TotalPhoneNumbers: &total,
		}
	case KindLegacy:
		count := o.TotalPhoneNumbers
		return Response{
			Success:    true,
			Message:    "Phone numbers received and stored",
			PhoneCount: &count,
		}
	default:
		return Response{Success: false, Error: "No phone numbers in webhook payload"}
	}
}

// Reconciler applies webhook phone data to tracked contacts.
type Reconciler struct {
	correlations *ledger.CorrelationStore
	tracker      *ledger.RequestTracker
	contacts     contacts.Store
	now          ledger.Clock
}

// NewReconciler wires the two ledgers to a downstream contact store. A nil
// clock uses time.Now.
func NewReconciler(correlations *ledger.CorrelationStore, tracker *ledger.RequestTracker, store contacts.Store, now ledger.Clock) *Reconciler {
	if now == nil {
		now = time.Now
	}
	return &Reconciler{correlations: correlations, tracker: tracker, contacts: store, now: now}
}

// HandleBody decodes body and handles it.
func (r *Reconciler) HandleBody(ctx context.Context, body []byte) Outcome {
	return r.Handle(ctx, Decode(body))
}

// Handle reconciles every person in p. Failures are logged per person and
// never abort the delivery. An unrecognized payload touches no ledger.
func (r *Reconciler) Handle(ctx context.Context, p Payload) Outcome {
	deliveriesTotal.WithLabelValues(p.Kind.String()).Inc()

	out := Outcome{Kind: p.Kind}
	if p.Kind == KindUnrecognized {
		zap.L().Warn("webhook: unrecognized payload, nothing to reconcile")
		return out
	}

	zap.L().Info("webhook: received phone numbers",
		zap.String("kind", p.Kind.String()),
		zap.String("status", p.Status),
		zap.Int("people", len(p.People)),
	)

	for _, person := range p.People {
		res := r.reconcile(ctx, p.Kind, person)
		reconciledTotal.WithLabelValues(string(res.Result)).Inc()
		out.People = append(out.People, res)
		if res.Result == ResultNoPhones {
			continue
		}
		out.PeopleProcessed++
		out.TotalPhoneNumbers += res.PhoneCount
	}
	return out
}

func (r *Reconciler) reconcile(ctx context.Context, kind Kind, person Person) PersonResult {
	res := PersonResult{PersonID: person.ID, PhoneCount: len(person.PhoneNumbers)}
	if len(person.PhoneNumbers) == 0 {
		res.Result = ResultNoPhones
		return res
	}

	res.Identifier = person.ID
	if res.Identifier == "" && kind == KindLegacy {
		res.Identifier = fmt.Sprintf("webhook_%d_%s", r.now().UnixMilli(), uuid.NewString()[:8])
	}
	if res.Identifier == "" {
		zap.L().Warn("webhook: person without id, skipping")
		res.Result = ResultUntracked
		return res
	}

	name := person.DisplayName()
	r.correlations.Store(res.Identifier, person.PhoneNumbers, person.ID, name)

	log := zap.L().With(
		zap.String("person_id", person.ID),
		zap.String("person_name", name),
		zap.Int("phone_count", res.PhoneCount),
	)

	if person.ID == "" {
		log.Info("webhook: stored phone numbers without person id, could not reconcile")
		res.Result = ResultUntracked
		return res
	}

	req, claim := r.tracker.Claim(person.ID)
	switch claim {
	case ledger.ClaimUntracked:
		log.Info("webhook: no tracked request, could not reconcile")
		res.Result = ResultUntracked
		return res
	case ledger.ClaimAlreadyCompleted:
		log.Info("webhook: request already completed, skipping update")
		res.Result = ResultAlreadyCompleted
		return res
	}

	update := model.ContactUpdate{
		Phone:             bestPhone(person.PhoneNumbers),
		PhoneNumberStatus: model.PhoneAvailable,
		LinkedInURL:       person.LinkedInURL,
	}

	contactID, err := r.apply(ctx, req, update)
	res.ContactID = contactID
	switch {
	case err != nil:
		log.Error("webhook: contact update failed",
			zap.String("user_id", req.UserID),
			zap.String("contact_id", req.ContactID),
			zap.Error(err),
		)
		res.Result = ResultFailed
		res.Err = err
	case contactID == "":
		log.Warn("webhook: no contact found for tracked request", zap.String("user_id", req.UserID))
		res.Result = ResultNoContact
	default:
		log.Info("webhook: contact updated with phone number",
			zap.String("user_id", req.UserID),
			zap.String("contact_id", contactID),
		)
		res.Result = ResultUpdated
	}
	return res
}

// apply writes u to the tracked contact, falling back to a provider id
// lookup when the request has no contact or the contact is gone. It returns
// the id of the updated contact, or "" when none could be resolved.
func (r *Reconciler) apply(ctx context.Context, req model.EnrichmentRequest, u model.ContactUpdate) (string, error) {
	if req.UserID == "" {
		return "", nil
	}

	if req.ContactID != "" {
		err := r.contacts.UpdateContact(ctx, req.UserID, req.ContactID, u)
		if err == nil {
			return req.ContactID, nil
		}
		if !contacts.IsNotFound(err) {
			return "", eris.Wrap(err, "webhook: update contact")
		}
	}

	c, err := r.contacts.FindContactByProviderID(ctx, req.UserID, req.PersonID)
	if err != nil {
		return "", eris.Wrap(err, "webhook: find contact by provider id")
	}
	if c == nil {
		return "", nil
	}
	if err := r.contacts.UpdateContact(ctx, req.UserID, c.ID, u); err != nil {
		return "", eris.Wrap(err, "webhook: update contact")
	}
	return c.ID, nil
}

// bestPhone picks the first delivered number, preferring its sanitized form.
func bestPhone(phones []model.PhoneNumber) string {
	if len(phones) == 0 {
		return ""
	}
	if phones[0].SanitizedNumber != "" {
		return phones[0].SanitizedNumber
	}
	return phones[0].RawNumber
}
