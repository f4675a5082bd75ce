package contacts

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shreyputexas/equitle-brain-v1-sub005/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	s := newTestSQLite(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestSQLite_UpsertAndGet(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	c := &model.Contact{UserID: "u1", Name: "Jane Doe", Email: "jane@acme.com", Company: "Acme"}
	require.NoError(t, s.UpsertContact(ctx, c))
	require.NotEmpty(t, c.ID)

	got, err := s.GetContact(ctx, "u1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "Acme", got.Company)

	c.Title = "CFO"
	require.NoError(t, s.UpsertContact(ctx, c))
	got, err = s.GetContact(ctx, "u1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "CFO", got.Title)

	_, err = s.GetContact(ctx, "u2", c.ID)
	assert.True(t, IsNotFound(err))
}

func TestSQLite_UpdateContactPartial(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	c := &model.Contact{ID: "c1", UserID: "u1", Name: "Jane", LinkedInURL: "https://linkedin.com/in/old"}
	require.NoError(t, s.UpsertContact(ctx, c))

	err := s.UpdateContact(ctx, "u1", "c1", model.ContactUpdate{
		Phone:             "+15550001111",
		PhoneNumberStatus: model.PhoneAvailable,
	})
	require.NoError(t, err)

	got, err := s.GetContact(ctx, "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "+15550001111", got.Phone)
	assert.Equal(t, model.PhoneAvailable, got.PhoneNumberStatus)
	assert.Equal(t, "https://linkedin.com/in/old", got.LinkedInURL)
}

func TestSQLite_UpdateContactNotFound(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	err := s.UpdateContact(ctx, "u1", "missing", model.ContactUpdate{Phone: "+1"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	require.NoError(t, s.UpsertContact(ctx, &model.Contact{ID: "c1", UserID: "u1"}))
	err = s.UpdateContact(ctx, "other-user", "c1", model.ContactUpdate{Phone: "+1"})
	assert.True(t, IsNotFound(err))
}

func TestSQLite_UpdateContactEmptyIsNoop(t *testing.T) {
	s := newTestSQLite(t)
	assert.NoError(t, s.UpdateContact(context.Background(), "u1", "missing", model.ContactUpdate{}))
}

func TestSQLite_FindContactByProviderID(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertContact(ctx, &model.Contact{ID: "c1", UserID: "u1", ProviderPersonID: "p1"}))
	require.NoError(t, s.UpsertContact(ctx, &model.Contact{ID: "c2", UserID: "u2", ProviderPersonID: "p1"}))

	got, err := s.FindContactByProviderID(ctx, "u1", "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "c1", got.ID)

	got, err = s.FindContactByProviderID(ctx, "u1", "p404")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.FindContactByProviderID(ctx, "u1", "")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLite_UpdateContactTagsProviderID(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertContact(ctx, &model.Contact{ID: "c1", UserID: "u1", Name: "Jane Doe"}))
	require.NoError(t, s.UpdateContact(ctx, "u1", "c1", model.ContactUpdate{
		Title:            "CFO",
		Company:          "Acme",
		ProviderPersonID: "p1",
	}))

	got, err := s.FindContactByProviderID(ctx, "u1", "p1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "c1", got.ID)
	assert.Equal(t, "CFO", got.Title)
	assert.Equal(t, "Acme", got.Company)
}
