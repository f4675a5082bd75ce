package enrich

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/contacts"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
)

// ContactStore is the part of contacts.Store phone enrichment reads and
// writes.
type ContactStore interface {
	GetContact(ctx context.Context, userID, contactID string) (*model.Contact, error)
	UpdateContact(ctx context.Context, userID, contactID string, u model.ContactUpdate) error
}

// ContactOutcome is what happened to one contact in EnrichContactPhones.
type ContactOutcome string

const (
	ContactTriggered ContactOutcome = "triggered"
	ContactHasPhone  ContactOutcome = "has_phone"
	ContactNotFound  ContactOutcome = "not_found"
	ContactFailed    ContactOutcome = "failed"
)

// ContactPhoneResult reports one contact's enrichment.
type ContactPhoneResult struct {
	ContactID         string            `json:"contact_id"`
	Outcome           ContactOutcome    `json:"outcome"`
	PersonID          string            `json:"person_id,omitempty"`
	Phone             string            `json:"phone,omitempty"`
	PhoneNumberStatus model.PhoneStatus `json:"phone_number_status,omitempty"`
	WebhookPending    bool              `json:"webhook_pending"`
	Error             string            `json:"error,omitempty"`
}

// ContactPhoneSummary aggregates EnrichContactPhones over all contacts.
type ContactPhoneSummary struct {
	EnrichedCount int                  `json:"enrichedCount"`
	Results       []ContactPhoneResult `json:"results"`
	Errors        []string             `json:"errors,omitempty"`
}

// EnrichContactPhones enriches stored contacts that have no phone yet. Each
// contact is marked fetching, enriched with its user and contact ids tracked
// for the webhook, then updated with what the synchronous response carried
// and tagged with the provider person id. A contact with no phone and no
// webhook pending is marked unavailable. One contact failing never stops the
// rest.
func (o *Orchestrator) EnrichContactPhones(ctx context.Context, store ContactStore, userID string, contactIDs []string) ContactPhoneSummary {
	sum := ContactPhoneSummary{Results: make([]ContactPhoneResult, 0, len(contactIDs))}
	for _, id := range contactIDs {
		res := o.enrichContactPhone(ctx, store, userID, id)
		switch res.Outcome {
		case ContactTriggered:
			sum.EnrichedCount++
		case ContactNotFound:
			sum.Errors = append(sum.Errors, fmt.Sprintf("Contact %s not found", id))
		case ContactFailed:
			sum.Errors = append(sum.Errors, fmt.Sprintf("Contact %s: %s", id, res.Error))
		}
		sum.Results = append(sum.Results, res)
	}

	zap.L().Info("orchestrator: contact phone enrichment complete",
		zap.String("user_id", userID),
		zap.Int("contacts", len(contactIDs)),
		zap.Int("enriched", sum.EnrichedCount),
		zap.Int("errors", len(sum.Errors)),
	)
	return sum
}

func (o *Orchestrator) enrichContactPhone(ctx context.Context, store ContactStore, userID, contactID string) ContactPhoneResult {
	res := ContactPhoneResult{ContactID: contactID}
	log := zap.L().With(zap.String("user_id", userID), zap.String("contact_id", contactID))

	c, err := store.GetContact(ctx, userID, contactID)
	if contacts.IsNotFound(err) || (err == nil && c == nil) {
		res.Outcome = ContactNotFound
		return res
	}
	if err != nil {
		log.Error("orchestrator: load contact", zap.Error(err))
		return failed(res, err)
	}
	if c.Phone != "" {
		res.Outcome = ContactHasPhone
		res.Phone = c.Phone
		return res
	}

	if err := store.UpdateContact(ctx, userID, contactID, model.ContactUpdate{PhoneNumberStatus: model.PhoneFetching}); err != nil {
		log.Error("orchestrator: mark contact fetching", zap.Error(err))
		return failed(res, err)
	}

	enriched := o.enrichSafe(ctx, contactParams(c), Options{UserID: userID, ContactID: contactID})
	u := contactUpdate(c, enriched)

	res.Outcome = ContactTriggered
	res.PersonID = u.ProviderPersonID
	res.Phone = u.Phone
	res.PhoneNumberStatus = u.PhoneNumberStatus
	res.WebhookPending = enriched.WebhookPending
	if res.PhoneNumberStatus == "" {
		res.PhoneNumberStatus = model.PhoneFetching
	}

	if err := store.UpdateContact(ctx, userID, contactID, u); err != nil {
		log.Error("orchestrator: write enriched contact", zap.Error(err))
		if err := store.UpdateContact(ctx, userID, contactID, model.ContactUpdate{PhoneNumberStatus: model.PhoneUnavailable}); err != nil {
			log.Error("orchestrator: mark contact unavailable", zap.Error(err))
		}
		return failed(res, err)
	}

	log.Info("orchestrator: contact enriched",
		zap.String("person_id", res.PersonID),
		zap.String("phone_status", string(res.PhoneNumberStatus)),
		zap.Bool("webhook_pending", res.WebhookPending),
	)
	return res
}

func failed(res ContactPhoneResult, err error) ContactPhoneResult {
	res.Outcome = ContactFailed
	res.Error = err.Error()
	return res
}

// contactParams builds lookup params from a stored contact. The first word
// of the name is the first name; the rest is the last name.
func contactParams(c *model.Contact) model.EnrichParams {
	first, last, _ := strings.Cut(strings.TrimSpace(c.Name), " ")
	return model.EnrichParams{
		FirstName:        first,
		LastName:         last,
		OrganizationName: c.Company,
		Email:            c.Email,
	}.Normalize()
}

// contactUpdate maps an enrichment result onto the contact. Title and company
// only fill blanks.
func contactUpdate(c *model.Contact, res model.EnrichResult) model.ContactUpdate {
	var u model.ContactUpdate
	switch {
	case res.Phone != "":
		u.Phone = res.Phone
		u.PhoneNumberStatus = model.PhoneAvailable
	case !res.WebhookPending:
		u.PhoneNumberStatus = model.PhoneUnavailable
	}

	p := res.Person
	if p == nil {
		return u
	}
	u.ProviderPersonID = p.ID
	u.LinkedInURL = p.LinkedInURL
	if c.Title == "" {
		u.Title = p.Title
	}
	if c.Company == "" && p.Organization != nil {
		u.Company = p.Organization.Name
	}
	return u
}
