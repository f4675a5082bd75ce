package contacts

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
	"github.com/shreyputexas/equitle-brain-v1-sub005/pkg/salesforce"
)

// SalesforceStore implements Store against Salesforce Contact records. The
// org is single-tenant, so user ids are carried through but not used to
// scope queries.
type SalesforceStore struct {
	sf salesforce.Client
}

var _ Store = (*SalesforceStore)(nil)

// NewSalesforce wraps a Salesforce client.
func NewSalesforce(sf salesforce.Client) *SalesforceStore {
	return &SalesforceStore{sf: sf}
}

// Migrate is a no-op; the custom fields are managed in the org.
func (s *SalesforceStore) Migrate(context.Context) error { return nil }

func (s *SalesforceStore) Close() error { return nil }

func (s *SalesforceStore) UpdateContact(ctx context.Context, userID, contactID string, u model.ContactUpdate) error {
	if u.IsEmpty() {
		return nil
	}
	fields := make(map[string]any, 6)
	set := func(k, v string) {
		if v != "" {
			fields[k] = v
		}
	}
	set("Phone", u.Phone)
	set(salesforce.FieldPhoneStatus, string(u.PhoneNumberStatus))
	set(salesforce.FieldLinkedInURL, u.LinkedInURL)
	set("Title", u.Title)
	set(salesforce.FieldAccountName, u.Company)
	set(salesforce.FieldApolloPersonID, u.ProviderPersonID)
	zap.L().Debug("contacts: salesforce update",
		zap.String("user_id", userID),
		zap.String("contact_id", contactID),
	)
	return eris.Wrap(salesforce.UpdateContact(ctx, s.sf, contactID, fields), "contacts: salesforce update")
}

func (s *SalesforceStore) FindContactByProviderID(ctx context.Context, userID, providerPersonID string) (*model.Contact, error) {
	if providerPersonID == "" {
		return nil, nil
	}
	c, err := salesforce.FindContactByApolloID(ctx, s.sf, providerPersonID)
	if err != nil {
		return nil, eris.Wrap(err, "contacts: salesforce find by provider id")
	}
	if c == nil {
		return nil, nil
	}
	return fromSalesforce(userID, c), nil
}

func (s *SalesforceStore) GetContact(ctx context.Context, userID, contactID string) (*model.Contact, error) {
	c, err := salesforce.FindContactByID(ctx, s.sf, contactID)
	if err != nil {
		return nil, eris.Wrap(err, "contacts: salesforce get")
	}
	if c == nil {
		return nil, eris.Wrapf(ErrNotFound, "contact %s", contactID)
	}
	return fromSalesforce(userID, c), nil
}

func (s *SalesforceStore) UpsertContact(ctx context.Context, c *model.Contact) error {
	fields := toSalesforceFields(c)
	if c.ID != "" {
		return eris.Wrap(salesforce.UpdateContact(ctx, s.sf, c.ID, fields), "contacts: salesforce upsert")
	}
	id, err := salesforce.CreateContact(ctx, s.sf, fields)
	if err != nil {
		return eris.Wrap(err, "contacts: salesforce upsert")
	}
	c.ID = id
	return nil
}

func fromSalesforce(userID string, c *salesforce.Contact) *model.Contact {
	name := c.Name
	if name == "" {
		name = strings.TrimSpace(c.FirstName + " " + c.LastName)
	}
	return &model.Contact{
		ID:                c.ID,
		UserID:            userID,
		Name:              name,
		Email:             c.Email,
		Company:           c.AccountName,
		Title:             c.Title,
		Phone:             c.Phone,
		PhoneNumberStatus: model.PhoneStatus(c.PhoneStatus),
		LinkedInURL:       c.LinkedInURL,
		ProviderPersonID:  c.ApolloPersonID,
	}
}

func toSalesforceFields(c *model.Contact) map[string]any {
	first, last := splitName(c.Name)
	fields := map[string]any{"LastName": last}
	set := func(k, v string) {
		if v != "" {
			fields[k] = v
		}
	}
	set("FirstName", first)
	set("Email", c.Email)
	set("Title", c.Title)
	set(salesforce.FieldAccountName, c.Company)
	set("Phone", c.Phone)
	set(salesforce.FieldPhoneStatus, string(c.PhoneNumberStatus))
	set(salesforce.FieldLinkedInURL, c.LinkedInURL)
	set(salesforce.FieldApolloPersonID, c.ProviderPersonID)
	return fields
}

// splitName puts everything before the last space into the first name.
func splitName(name string) (first, last string) {
	name = strings.TrimSpace(name)
	i := strings.LastIndex(name, " ")
	if i < 0 {
		return "", name
	}
	return strings.TrimSpace(name[:i]), name[i+1:]
}
