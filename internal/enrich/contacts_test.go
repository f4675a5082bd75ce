package enrich

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/contacts"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/contacts/mocks"
	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
)

func newContactDB(t *testing.T, cs ...*model.Contact) *contacts.SQLiteStore {
	t.Helper()
	s, err := contacts.NewSQLite(filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	for _, c := range cs {
		require.NoError(t, s.UpsertContact(context.Background(), c))
	}
	return s
}

func TestEnrichContactPhones_PendingWebhookTagsContact(t *testing.T) {
	var got model.EnrichParams
	e := &stubEnricher{fn: func(p model.EnrichParams) *model.Person {
		got = p
		return &model.Person{
			ID:           "p1",
			Name:         "Jane Van Doe",
			Title:        "CFO",
			LinkedInURL:  "https://linkedin.com/in/jane",
			Organization: &model.Organization{Name: "Acme Corp"},
		}
	}}
	o, _, tracker := newTestOrchestrator(t, e)
	db := newContactDB(t, &model.Contact{ID: "c1", UserID: "u1", Name: "Jane Van Doe", Company: "Acme", Email: "jane@acme.com"})
	ctx := context.Background()

	sum := o.EnrichContactPhones(ctx, db, "u1", []string{"c1"})
	assert.Equal(t, 1, sum.EnrichedCount)
	assert.Empty(t, sum.Errors)
	require.Len(t, sum.Results, 1)
	assert.Equal(t, ContactTriggered, sum.Results[0].Outcome)
	assert.True(t, sum.Results[0].WebhookPending)
	assert.Equal(t, model.PhoneFetching, sum.Results[0].PhoneNumberStatus)

	assert.Equal(t, model.EnrichParams{FirstName: "Jane", LastName: "Van Doe", OrganizationName: "Acme", Email: "jane@acme.com"}, got)

	req, ok := tracker.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "u1", req.UserID)
	assert.Equal(t, "c1", req.ContactID)

	c, err := db.FindContactByProviderID(ctx, "u1", "p1")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, model.PhoneFetching, c.PhoneNumberStatus)
	assert.Equal(t, "https://linkedin.com/in/jane", c.LinkedInURL)
	assert.Equal(t, "CFO", c.Title)
	assert.Equal(t, "Acme", c.Company, "existing company is kept")
}

func TestEnrichContactPhones_SynchronousPhone(t *testing.T) {
	e := &stubEnricher{fn: func(model.EnrichParams) *model.Person {
		return &model.Person{ID: "p2", PhoneNumbers: []model.PhoneNumber{
			{SanitizedNumber: "+15550002222", Type: "work"},
			{SanitizedNumber: "+15550001111", Type: "mobile"},
		}}
	}}
	o, _, _ := newTestOrchestrator(t, e)
	db := newContactDB(t, &model.Contact{ID: "c2", UserID: "u1", Name: "Sam Lee"})

	sum := o.EnrichContactPhones(context.Background(), db, "u1", []string{"c2"})
	require.Len(t, sum.Results, 1)
	assert.False(t, sum.Results[0].WebhookPending)

	c, err := db.GetContact(context.Background(), "u1", "c2")
	require.NoError(t, err)
	assert.Equal(t, "+15550001111", c.Phone)
	assert.Equal(t, model.PhoneAvailable, c.PhoneNumberStatus)
	assert.Equal(t, "p2", c.ProviderPersonID)
}

func TestEnrichContactPhones_NoMatchMarksUnavailable(t *testing.T) {
	e := &stubEnricher{fn: func(model.EnrichParams) *model.Person { return nil }}
	o, _, tracker := newTestOrchestrator(t, e)
	db := newContactDB(t, &model.Contact{ID: "c3", UserID: "u1", Name: "Nobody"})

	sum := o.EnrichContactPhones(context.Background(), db, "u1", []string{"c3"})
	assert.Equal(t, 1, sum.EnrichedCount)
	assert.Equal(t, model.PhoneUnavailable, sum.Results[0].PhoneNumberStatus)
	assert.Equal(t, 0, tracker.Len())

	c, err := db.GetContact(context.Background(), "u1", "c3")
	require.NoError(t, err)
	assert.Equal(t, model.PhoneUnavailable, c.PhoneNumberStatus)
	assert.Empty(t, c.ProviderPersonID)
}

func TestEnrichContactPhones_SkipsAndMissing(t *testing.T) {
	e := &stubEnricher{fn: func(model.EnrichParams) *model.Person { return &model.Person{ID: "p9"} }}
	o, _, _ := newTestOrchestrator(t, e)
	db := newContactDB(t,
		&model.Contact{ID: "c4", UserID: "u1", Name: "Has Phone", Phone: "+1"},
		&model.Contact{ID: "c5", UserID: "u2", Name: "Other User"},
	)

	sum := o.EnrichContactPhones(context.Background(), db, "u1", []string{"c4", "missing", "c5"})
	assert.Equal(t, 0, sum.EnrichedCount)
	require.Len(t, sum.Results, 3)
	assert.Equal(t, ContactHasPhone, sum.Results[0].Outcome)
	assert.Equal(t, ContactNotFound, sum.Results[1].Outcome)
	assert.Equal(t, ContactNotFound, sum.Results[2].Outcome)
	assert.Equal(t, []string{"Contact missing not found", "Contact c5 not found"}, sum.Errors)
	assert.Equal(t, int32(0), e.calls.Load())
}

func TestEnrichContactPhones_FailureIsolated(t *testing.T) {
	e := &stubEnricher{fn: func(p model.EnrichParams) *model.Person { return &model.Person{ID: "p-" + p.FirstName} }}
	o, _, _ := newTestOrchestrator(t, e)
	store := mocks.NewMockStore(t)
	ctx := context.Background()

	store.On("GetContact", mock.Anything, "u1", "bad").Return(nil, errors.New("connection reset")).Once()
	store.On("GetContact", mock.Anything, "u1", "c1").Return(&model.Contact{ID: "c1", UserID: "u1", Name: "Ann"}, nil).Once()
	store.On("UpdateContact", mock.Anything, "u1", "c1", model.ContactUpdate{PhoneNumberStatus: model.PhoneFetching}).Return(nil).Once()
	store.On("UpdateContact", mock.Anything, "u1", "c1", model.ContactUpdate{ProviderPersonID: "p-Ann"}).Return(nil).Once()

	sum := o.EnrichContactPhones(ctx, store, "u1", []string{"bad", "c1"})
	assert.Equal(t, 1, sum.EnrichedCount)
	require.Len(t, sum.Errors, 1)
	assert.Contains(t, sum.Errors[0], "connection reset")
	assert.Equal(t, ContactFailed, sum.Results[0].Outcome)
	assert.Equal(t, ContactTriggered, sum.Results[1].Outcome)
}

func TestEnrichContactPhones_WriteFailureMarksUnavailable(t *testing.T) {
	e := &stubEnricher{fn: func(model.EnrichParams) *model.Person { return &model.Person{ID: "p1"} }}
	o, _, _ := newTestOrchestrator(t, e)
	store := mocks.NewMockStore(t)

	store.On("GetContact", mock.Anything, "u1", "c1").Return(&model.Contact{ID: "c1", UserID: "u1", Name: "Ann Bo"}, nil).Once()
	store.On("UpdateContact", mock.Anything, "u1", "c1", model.ContactUpdate{PhoneNumberStatus: model.PhoneFetching}).Return(nil).Once()
	store.On("UpdateContact", mock.Anything, "u1", "c1", model.ContactUpdate{ProviderPersonID: "p1"}).Return(errors.New("write failed")).Once()
	store.On("UpdateContact", mock.Anything, "u1", "c1", model.ContactUpdate{PhoneNumberStatus: model.PhoneUnavailable}).Return(nil).Once()

	sum := o.EnrichContactPhones(context.Background(), store, "u1", []string{"c1"})
	assert.Equal(t, 0, sum.EnrichedCount)
	assert.Equal(t, ContactFailed, sum.Results[0].Outcome)
	assert.Equal(t, []string{"Contact c1: write failed"}, sum.Errors)
}
